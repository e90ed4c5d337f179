package bspline

import (
	"math"

	"github.com/julianoes/tinyspline"
)

// locate finds the index k such that u lies in [knots[k], knots[k+1]),
// with the right domain bound belonging to the last non-empty span, and
// counts the multiplicity of u. Ties consult the knot epsilon.
func (s *Spline) locate(u float64) (k, mult int, err error) {
	deg := s.degree
	m := len(s.knots)
	for ; k < m; k++ {
		uk := s.knots[k]
		if tinyspline.KnotsEqual(u, uk) {
			mult++
		} else if u < uk {
			break
		}
	}
	// k is one past the last knot <= u
	if mult > deg+1 {
		return 0, 0, tinyspline.Errorf(tinyspline.ErrMultiplicity,
			"mult(%g) (%d) > order (%d)", u, mult, deg+1)
	}
	if k <= deg || (k == m && mult == 0) || k > m-deg+mult-1 {
		return 0, 0, tinyspline.Errorf(tinyspline.ErrUUndefined,
			"%g is undefined", u)
	}
	return k - 1, mult, nil
}

// Eval evaluates s at knot u and returns the corresponding De Boor net.
// Fails with ErrUUndefined if s is not defined at u.
func (s *Spline) Eval(u float64) (*DeBoorNet, error) {
	min, max := s.Domain()
	if u < min {
		if !tinyspline.KnotsEqual(u, min) {
			return nil, tinyspline.Errorf(tinyspline.ErrUUndefined,
				"%g < min(domain) (%g)", u, min)
		}
		u = min
	} else if u > max {
		if !tinyspline.KnotsEqual(u, max) {
			return nil, tinyspline.Errorf(tinyspline.ErrUUndefined,
				"%g > max(domain) (%g)", u, max)
		}
		u = max
	}
	k, mult, err := s.locate(u)
	if err != nil {
		return nil, err
	}
	deg := s.degree
	order := deg + 1
	dim := s.dim
	if tinyspline.KnotsEqual(u, s.knots[k]) {
		u = s.knots[k] // respect the knot vector at any precision
	}
	net := &DeBoorNet{u: u, k: k, s: mult, dim: dim, numResult: 1}
	if mult <= deg {
		net.h = deg - mult
	}
	tracer().Debugf("eval u = %g: k = %d, s = %d, h = %d",
		u, k, mult, net.h)

	if mult == order {
		// No insertions are necessary.
		switch {
		case k == deg: // only the first control point is affected
			net.points = make([]float64, dim)
			copy(net.points, s.ctrlp[:dim])
		case k == len(s.knots)-1: // only the last control point is affected
			net.points = make([]float64, dim)
			copy(net.points, s.ctrlp[len(s.ctrlp)-dim:])
		default: // the spline is discontinuous at u
			net.numResult = 2
			net.points = make([]float64, 2*dim)
			copy(net.points, s.ctrlp[(k-mult)*dim:(k-mult+2)*dim])
		}
		return net, nil
	}

	// Regular case: h rounds of affine combinations over the control
	// points P[k-deg] .. P[k-s].
	h := net.h
	z := order - mult // number of affected control points
	numPoints := triangular(order) - triangular(mult) + triangular(mult-1)
	net.points = make([]float64, numPoints*dim)
	copy(net.points, s.ctrlp[(k-deg)*dim:(k-mult+1)*dim])

	prev := 0       // offset of the previous row
	next := z * dim // offset of the row being computed
	for r := 1; r <= h; r++ {
		for i := 0; i <= h-r; i++ {
			lo := s.knots[k-deg+i+r]
			hi := s.knots[k+1+i]
			a := (u - lo) / (hi - lo)
			for c := 0; c < dim; c++ {
				net.points[next+i*dim+c] =
					(1-a)*net.points[prev+i*dim+c] +
						a*net.points[prev+(i+1)*dim+c]
			}
		}
		prev = next
		next += (z - r) * dim
	}
	// Mirror the resultant point into the trailing slot so that the
	// last dim values always hold the result.
	if prev+dim < len(net.points) {
		copy(net.points[len(net.points)-dim:], net.points[prev:prev+dim])
	}
	return net, nil
}

// triangular returns x*(x+1)/2 for x >= 0 and 0 otherwise.
func triangular(x int) int {
	if x < 0 {
		return 0
	}
	return x * (x + 1) / 2
}

// EvalAll evaluates s at every knot in us and returns the resultant
// points as a flat buffer of len(us)*Dimension values. At knots where s
// is discontinuous, only the first result point is taken.
func (s *Spline) EvalAll(us []float64) ([]float64, error) {
	dim := s.dim
	points := make([]float64, len(us)*dim)
	for i, u := range us {
		net, err := s.Eval(u)
		if err != nil {
			return nil, err
		}
		off := net.resultOffset()
		copy(points[i*dim:(i+1)*dim], net.points[off:off+dim])
	}
	return points, nil
}

// Sample evaluates s at num knots equally distributed across the
// domain (both bounds inclusive for num >= 2) and returns the
// resultant points together with the actual number of generated knots.
// If num is 0, the default 30 * (NumControlPoints - Degree) — thirty
// knots per Bezier segment — is taken as fallback. If num is 1, the
// point at the lower domain bound is evaluated.
func (s *Spline) Sample(num int) ([]float64, int, error) {
	if num == 0 {
		num = 30 * (s.NumControlPoints() - s.degree)
	}
	min, max := s.Domain()
	us := make([]float64, num)
	if num == 1 {
		us[0] = min
	} else {
		for i := range us {
			us[i] = min + float64(i)/float64(num-1)*(max-min)
		}
		us[num-1] = max // avoid rounding on the bound
	}
	points, err := s.EvalAll(us)
	if err != nil {
		return nil, 0, err
	}
	return points, num, nil
}

// Bisect tries to find a point P on s such that
//
//	|P[index] - value| <= |epsilon|
//
// using the bisection method over the domain of s. It is expected that
// the control points of s are sorted at component index in ascending
// (ascending == true) or descending order; otherwise the behaviour is
// undefined. The number of iterations is limited by maxIter (30 is a
// sane default). If no point satisfies the distance condition after
// maxIter iterations, the best-so-far net is returned, unless
// persnickety is set, in which case ErrNoResult is reported.
func (s *Spline) Bisect(value, epsilon float64, persnickety bool,
	index int, ascending bool, maxIter int) (*DeBoorNet, error) {
	if index < 0 || index >= s.dim {
		return nil, tinyspline.Errorf(tinyspline.ErrIndex,
			"dimension (%d) <= index (%d)", s.dim, index)
	}
	eps := math.Abs(epsilon)
	min, max := s.Domain()
	var best *DeBoorNet
	bestDist := math.Inf(1)
	for i := 0; i < maxIter; i++ {
		mid := (min + max) / 2
		net, err := s.Eval(mid)
		if err != nil {
			return nil, err
		}
		v := net.points[net.resultOffset()+index]
		dist := math.Abs(v - value)
		if dist <= eps {
			tracer().Debugf("bisect converged after %d iterations", i+1)
			return net, nil
		}
		if dist < bestDist {
			best, bestDist = net, dist
		}
		if (ascending && v < value) || (!ascending && v > value) {
			min = mid
		} else {
			max = mid
		}
	}
	if persnickety {
		return nil, tinyspline.Errorf(tinyspline.ErrNoResult,
			"no result within epsilon (%g) after %d iterations",
			eps, maxIter)
	}
	if best == nil {
		return s.Eval((min + max) / 2)
	}
	return best, nil
}

// IsClosed reports whether the distance of the end points of s is less
// than or equal to epsilon for the derivatives 0 (the spline itself) up
// to Degree - 1.
func (s *Spline) IsClosed(epsilon float64) (bool, error) {
	worker := s.Copy()
	for i := 0; i < s.degree; i++ {
		min, max := worker.Domain()
		atMin, err := worker.Eval(min)
		if err != nil {
			return false, err
		}
		atMax, err := worker.Eval(max)
		if err != nil {
			return false, err
		}
		first := atMin.points[atMin.resultOffset():]
		last := atMax.points[atMax.resultOffset():]
		if tinyspline.Distance(first[:s.dim], last[:s.dim]) > epsilon {
			return false, nil
		}
		worker, err = worker.Derive(1, -1)
		if err != nil {
			return false, err
		}
	}
	return true, nil
}
