package bspline

import (
	"github.com/emirpasic/gods/maps/treemap"
	"gonum.org/v1/gonum/floats"

	"github.com/julianoes/tinyspline"
)

// knotComparator orders knot values with respect to the knot epsilon:
// values within epsilon distance compare equal.
func knotComparator(a, b interface{}) int {
	x, y := a.(float64), b.(float64)
	if tinyspline.KnotsEqual(x, y) {
		return 0
	}
	if x < y {
		return -1
	}
	return 1
}

// interiorKnots returns the multiset of distinct knots strictly inside
// the domain of s, as an ordered map knot -> multiplicity.
func (s *Spline) interiorKnots() *treemap.Map {
	min, max := s.Domain()
	knots := treemap.NewWith(knotComparator)
	for _, u := range s.knots {
		if u <= min || u >= max ||
			tinyspline.KnotsEqual(u, min) || tinyspline.KnotsEqual(u, max) {
			continue
		}
		mult := 0
		if v, ok := knots.Get(u); ok {
			mult = v.(int)
		}
		knots.Put(u, mult+1)
	}
	return knots
}

// Derive returns the n'th derivative of s. The derivative of a spline
// of degree p > 0 with m control points P and knots u is a spline of
// degree p-1 with m-1 control points
//
//	P'_i = p * (P_i+1 - P_i) / (u_i+p+1 - u_i+1)
//
// and the knot vector of s without its first and last knot. The
// derivative of a point (degree == 0) is a point at the origin.
//
// If s is discontinuous at an interior knot and the distance of the
// two resultant points exceeds epsilon, ErrUnderivable is reported. A
// negative epsilon disables the check; the first De Boor result is
// used at the discontinuity.
func (s *Spline) Derive(n int, epsilon float64) (*Spline, error) {
	worker := s.Copy()
	for d := 0; d < n; d++ {
		if worker.degree == 0 {
			tinyspline.Fill(worker.ctrlp[:worker.dim], 0)
			worker.ctrlp = worker.ctrlp[:worker.dim]
			worker.knots = []float64{
				tinyspline.DomainDefaultMin,
				tinyspline.DomainDefaultMax,
			}
			continue
		}
		if err := worker.mendDiscontinuities(epsilon); err != nil {
			return nil, err
		}
		deg := worker.degree
		dim := worker.dim
		numCtrlp := worker.NumControlPoints()
		ctrlp := make([]float64, (numCtrlp-1)*dim)
		for i := 0; i < numCtrlp-1; i++ {
			f := float64(deg) /
				(worker.knots[i+deg+1] - worker.knots[i+1])
			for c := 0; c < dim; c++ {
				ctrlp[i*dim+c] = f *
					(worker.ctrlp[(i+1)*dim+c] - worker.ctrlp[i*dim+c])
			}
		}
		worker.knots = worker.knots[1 : len(worker.knots)-1]
		worker.ctrlp = ctrlp
		worker.degree--
	}
	return worker, nil
}

// mendDiscontinuities collapses every interior knot of multiplicity
// order into one of multiplicity degree, keeping the first resultant
// point of the corresponding evaluation. If the distance of the two
// resultant points exceeds epsilon, ErrUnderivable is reported; a
// negative epsilon disables the check.
func (s *Spline) mendDiscontinuities(epsilon float64) error {
	order := s.Order()
	dim := s.dim
	for {
		min, max := s.Domain()
		mended := false
		i := s.degree + 1
		for i < s.NumControlPoints() {
			u := s.knots[i]
			j := i
			for j+1 < len(s.knots) && tinyspline.KnotsEqual(s.knots[j+1], u) {
				j++
			}
			if tinyspline.KnotsEqual(u, min) || tinyspline.KnotsEqual(u, max) {
				i = j + 1
				continue
			}
			if j-i+1 < order {
				i = j + 1
				continue
			}
			net, err := s.Eval(u)
			if err != nil {
				return err
			}
			gap := tinyspline.Distance(
				net.points[:dim], net.points[dim:2*dim])
			if epsilon >= 0 && gap > epsilon {
				return tinyspline.Errorf(tinyspline.ErrUnderivable,
					"discontinuity at knot: %g (distance: %g)", u, gap)
			}
			tracer().Debugf("mending discontinuity at %g (gap = %g)",
				u, gap)
			// Drop the right-limit control point and one knot instance.
			cut := (net.k - net.s + 1) * dim
			s.ctrlp = append(s.ctrlp[:cut], s.ctrlp[cut+dim:]...)
			s.knots = append(s.knots[:net.k], s.knots[net.k+1:]...)
			mended = true
			break
		}
		if !mended {
			return nil
		}
	}
}

// ToBeziers decomposes s into a sequence of Bezier curves by raising
// the multiplicity of each interior knot to the order of s. Opened ends
// are clamped first; the control points and knots of the exterior
// segments are discarded.
func (s *Spline) ToBeziers() (*Spline, error) {
	worker := s.Copy()
	order := worker.Order()
	dim := worker.dim

	min, max := worker.Domain()
	if mult := worker.multiplicity(min); mult < order {
		result, k, err := worker.InsertKnot(min, order-mult)
		if err != nil {
			return nil, err
		}
		trim := k + 1 - order
		result.knots = result.knots[trim:]
		result.ctrlp = result.ctrlp[trim*dim:]
		worker = result
	}
	if mult := worker.multiplicity(max); mult < order {
		result, k, err := worker.InsertKnot(max, order-mult)
		if err != nil {
			return nil, err
		}
		result.knots = result.knots[:k+1]
		result.ctrlp = result.ctrlp[:(k+1-order)*dim]
		worker = result
	}

	interior := worker.interiorKnots()
	var err error
	interior.Each(func(key, value interface{}) {
		if err != nil {
			return
		}
		u, mult := key.(float64), value.(int)
		if mult < order {
			worker, _, err = worker.InsertKnot(u, order-mult)
		}
	})
	if err != nil {
		return nil, err
	}
	tracer().Debugf("decomposed into %d bezier segments",
		worker.NumControlPoints()/order)
	return worker, nil
}

// ElevateDegree elevates the degree of s by amount. The spline is
// decomposed into a sequence of Bezier curves, each segment is elevated
// with the closed-form rule, and the segments are recomposed by merging
// adjacent end points whose distance is less than or equal to epsilon.
// The shape of s is preserved.
func (s *Spline) ElevateDegree(amount int, epsilon float64) (*Spline, error) {
	if amount <= 0 {
		return s.Copy(), nil
	}
	bez, err := s.ToBeziers()
	if err != nil {
		return nil, err
	}
	dim := bez.dim
	order := bez.Order()
	numSegs := bez.NumControlPoints() / order

	elevated := make([][]float64, numSegs)
	for i := 0; i < numSegs; i++ {
		seg := bez.ctrlp[i*order*dim : (i+1)*order*dim]
		seg = append([]float64(nil), seg...)
		for j := 0; j < amount; j++ {
			seg = elevateBezier(seg, bez.degree+j, dim)
		}
		elevated[i] = seg
	}

	degree := bez.degree + amount
	newOrder := degree + 1
	ctrlp := append([]float64(nil), elevated[0]...)
	knots := make([]float64, 0, numSegs*newOrder+newOrder)
	for i := 0; i < newOrder; i++ {
		knots = append(knots, bez.knots[0])
	}
	for i := 1; i < numSegs; i++ {
		boundary := bez.knots[i*order]
		prev := ctrlp[len(ctrlp)-dim:]
		first := elevated[i][:dim]
		mult := newOrder
		if tinyspline.Distance(prev, first) <= epsilon {
			ctrlp = append(ctrlp, elevated[i][dim:]...)
			mult = degree
		} else {
			ctrlp = append(ctrlp, elevated[i]...)
		}
		for j := 0; j < mult; j++ {
			knots = append(knots, boundary)
		}
	}
	for i := 0; i < newOrder; i++ {
		knots = append(knots, bez.knots[len(bez.knots)-1])
	}
	if len(knots) > tinyspline.MaxNumKnots {
		return nil, tinyspline.Errorf(tinyspline.ErrNumKnots,
			"unsupported number of knots: %d > %d",
			len(knots), tinyspline.MaxNumKnots)
	}
	result := &Spline{degree: degree, dim: dim, ctrlp: ctrlp, knots: knots}
	tracer().Debugf("elevated degree %d -> %d", bez.degree, degree)
	return result, nil
}

// elevateBezier elevates a single Bezier segment of degree q by one.
func elevateBezier(pts []float64, q, dim int) []float64 {
	out := make([]float64, (q+2)*dim)
	copy(out[:dim], pts[:dim])
	copy(out[(q+1)*dim:], pts[q*dim:])
	for i := 1; i <= q; i++ {
		f := float64(i) / float64(q+1)
		for c := 0; c < dim; c++ {
			out[i*dim+c] = f*pts[(i-1)*dim+c] + (1-f)*pts[i*dim+c]
		}
	}
	return out
}

// Align returns copies of s1 and s2 that have the same degree and the
// same number of control points and knots, without changing their
// shape; s1 and s2 themselves are not modified: the spline of lower degree is elevated (see
// ElevateDegree, which is where epsilon goes), and the union of the
// interior knots is inserted into both sides. Aligned splines are the
// precondition for Morph.
func Align(s1, s2 *Spline, epsilon float64) (*Spline, *Spline, error) {
	r1, r2 := s1.Copy(), s2.Copy()
	var err error
	if r1.degree < r2.degree {
		r1, err = r1.ElevateDegree(r2.degree-r1.degree, epsilon)
	} else if r2.degree < r1.degree {
		r2, err = r2.ElevateDegree(r1.degree-r2.degree, epsilon)
	}
	if err != nil {
		return nil, nil, err
	}

	union := treemap.NewWith(knotComparator)
	merge := func(knots *treemap.Map) {
		knots.Each(func(key, value interface{}) {
			mult := value.(int)
			if v, ok := union.Get(key); ok && v.(int) > mult {
				mult = v.(int)
			}
			union.Put(key, mult)
		})
	}
	merge(r1.interiorKnots())
	merge(r2.interiorKnots())

	insertUnion := func(s *Spline) (*Spline, error) {
		var err error
		union.Each(func(key, value interface{}) {
			if err != nil {
				return
			}
			u, mult := key.(float64), value.(int)
			min, max := s.Domain()
			if u <= min || u >= max ||
				tinyspline.KnotsEqual(u, min) ||
				tinyspline.KnotsEqual(u, max) {
				return // outside this spline's domain
			}
			if missing := mult - s.multiplicity(u); missing > 0 {
				s, _, err = s.InsertKnot(u, missing)
			}
		})
		return s, err
	}
	if r1, err = insertUnion(r1); err != nil {
		return nil, nil, err
	}
	if r2, err = insertUnion(r2); err != nil {
		return nil, nil, err
	}

	// Balance any remaining deficit (knots of the union that fall
	// outside one of the domains) by splitting the longest span.
	for r1.NumControlPoints() < r2.NumControlPoints() {
		if r1, _, err = r1.InsertKnot(r1.longestSpanMid(), 1); err != nil {
			return nil, nil, err
		}
	}
	for r2.NumControlPoints() < r1.NumControlPoints() {
		if r2, _, err = r2.InsertKnot(r2.longestSpanMid(), 1); err != nil {
			return nil, nil, err
		}
	}
	tracer().Debugf("aligned splines: deg = %d, n = %d",
		r1.degree, r1.NumControlPoints())
	return r1, r2, nil
}

// longestSpanMid returns the midpoint of the longest knot span within
// the domain of s.
func (s *Spline) longestSpanMid() float64 {
	lo := s.degree
	hi := len(s.knots) - s.Order()
	best := lo
	width := 0.0
	for i := lo; i < hi; i++ {
		if w := s.knots[i+1] - s.knots[i]; w > width {
			best, width = i, w
		}
	}
	return (s.knots[best] + s.knots[best+1]) / 2
}

// aligned reports whether a and b are structurally compatible for
// morphing.
func aligned(a, b *Spline) bool {
	return a.degree == b.degree &&
		len(a.ctrlp) == len(b.ctrlp) &&
		len(a.knots) == len(b.knots)
}

// Morph interpolates between start and end with respect to the time
// parameter t, which is clamped to [0, 1]: 0 yields start, 1 yields
// end. If start and end are not aligned, they are aligned internally
// (epsilon is handed to Align); to avoid this overhead across repeated
// calls, align them in advance.
func Morph(start, end *Spline, t, epsilon float64) (*Spline, error) {
	return MorphInto(start, end, t, epsilon, nil)
}

// MorphInto is Morph with an explicit destination: the buffers of out
// are reused if they fit, which avoids allocations in a time-indexed
// loop. A nil out allocates a fresh spline.
func MorphInto(start, end *Spline, t, epsilon float64, out *Spline) (*Spline, error) {
	if start.dim != end.dim {
		return nil, tinyspline.Errorf(tinyspline.ErrLCtrlpDimMismatch,
			"dimension mismatch: %d != %d", start.dim, end.dim)
	}
	a, b := start, end
	if !aligned(a, b) {
		var err error
		a, b, err = Align(start, end, epsilon)
		if err != nil {
			return nil, err
		}
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	if out == nil {
		out = &Spline{}
	}
	out.degree = a.degree
	out.dim = a.dim
	if len(out.ctrlp) != len(a.ctrlp) {
		out.ctrlp = make([]float64, len(a.ctrlp))
	}
	if len(out.knots) != len(a.knots) {
		out.knots = make([]float64, len(a.knots))
	}
	floats.ScaleTo(out.ctrlp, 1-t, a.ctrlp)
	floats.AddScaled(out.ctrlp, t, b.ctrlp)
	floats.ScaleTo(out.knots, 1-t, a.knots)
	floats.AddScaled(out.knots, t, b.knots)
	return out, nil
}

// Tension interpolates the control points of s between the straight
// line connecting the first and the last control point (t == 0) and
// their original position (t == 1); Holten calls this "straightening".
// Values outside [0, 1] are permitted; the resulting shape is undefined
// but no error is raised.
func (s *Spline) Tension(t float64) *Spline {
	out := s.Copy()
	numCtrlp := s.NumControlPoints()
	if numCtrlp < 3 {
		return out
	}
	dim := s.dim
	p0 := s.ctrlp[:dim]
	pn := s.ctrlp[(numCtrlp-1)*dim:]
	for i := 1; i < numCtrlp-1; i++ {
		f := float64(i) / float64(numCtrlp-1)
		for c := 0; c < dim; c++ {
			line := p0[c] + f*(pn[c]-p0[c])
			out.ctrlp[i*dim+c] = (1-t)*line + t*s.ctrlp[i*dim+c]
		}
	}
	return out
}
