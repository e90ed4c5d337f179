package bspline

import (
	"github.com/julianoes/tinyspline"
)

// InsertKnot inserts knot num times into the knot vector of s and
// returns the resulting spline together with the index of the last
// instance of knot in the result. Fails with ErrUUndefined if knot is
// not within the domain of s and with ErrMultiplicity if the
// multiplicity of knot plus num exceeds the order of s.
func (s *Spline) InsertKnot(knot float64, num int) (*Spline, int, error) {
	net, err := s.Eval(knot)
	if err != nil {
		return nil, 0, err
	}
	result, k, err := s.insertKnotNet(net, num)
	if err != nil {
		return nil, 0, err
	}
	tracer().Debugf("inserted %g x %d at k = %d", net.u, num, k)
	return result, k, nil
}

// insertKnotNet performs num rounds of the De Boor knot insertion
// recurrence, reusing the intermediate points of net (which must stem
// from evaluating s).
func (s *Spline) insertKnotNet(net *DeBoorNet, num int) (*Spline, int, error) {
	order := s.Order()
	if net.s+num > order {
		return nil, 0, tinyspline.Errorf(tinyspline.ErrMultiplicity,
			"mult(%g) (%d) + num(insertions) (%d) > order (%d)",
			net.u, net.s, num, order)
	}
	if num == 0 {
		return s.Copy(), net.k, nil
	}
	if len(s.knots)+num > tinyspline.MaxNumKnots {
		return nil, 0, tinyspline.Errorf(tinyspline.ErrNumKnots,
			"unsupported number of knots: %d > %d",
			len(s.knots)+num, tinyspline.MaxNumKnots)
	}
	deg := s.degree
	dim := s.dim
	k := net.k
	z := order - net.s // number of affected control points

	result := &Spline{
		degree: deg,
		dim:    dim,
		ctrlp:  make([]float64, len(s.ctrlp)+num*dim),
		knots:  make([]float64, len(s.knots)+num),
	}

	// Knot vector: knot is placed num times behind index k.
	copy(result.knots, s.knots[:k+1])
	for i := 0; i < num; i++ {
		result.knots[k+1+i] = net.u
	}
	copy(result.knots[k+1+num:], s.knots[k+1:])

	// Control points: P[0] .. P[k-deg-1] and P[k-s+1] .. P[n-1] are
	// unaffected; the region in between is replaced by the left edge of
	// the net's triangle (rows 0 .. num-1), the entire row num, and the
	// right edge (rows num-1 .. 0).
	rowOffset := func(r int) int {
		off := 0
		for j := 0; j < r; j++ {
			off += (z - j) * dim
		}
		return off
	}
	to := (k - deg) * dim
	copy(result.ctrlp[:to], s.ctrlp[:to])
	for r := 0; r < num; r++ {
		copy(result.ctrlp[to:to+dim], net.points[rowOffset(r):])
		to += dim
	}
	if num <= net.h {
		from := rowOffset(num)
		length := (z - num) * dim
		copy(result.ctrlp[to:to+length], net.points[from:from+length])
		to += length
	}
	for r := num - 1; r >= 0; r-- {
		from := rowOffset(r) + (z-r-1)*dim
		copy(result.ctrlp[to:to+dim], net.points[from:from+dim])
		to += dim
	}
	copy(result.ctrlp[to:], s.ctrlp[(k-net.s+1)*dim:])
	return result, k + num, nil
}

// Split splits s at knot u. That is, u is inserted until its
// multiplicity equals the order of s, which makes u a suitable point
// for separating the resulting spline into Bezier segments. At the
// domain bounds no insertion takes place and the returned index is the
// last index of the respective bound.
func (s *Spline) Split(u float64) (*Spline, int, error) {
	net, err := s.Eval(u)
	if err != nil {
		return nil, 0, err
	}
	min, max := s.Domain()
	if net.s == s.Order() ||
		tinyspline.KnotsEqual(net.u, min) || tinyspline.KnotsEqual(net.u, max) {
		return s.Copy(), net.k, nil
	}
	return s.insertKnotNet(net, s.Order()-net.s)
}

// multiplicity counts the knots of s equal to u with respect to the
// knot epsilon.
func (s *Spline) multiplicity(u float64) int {
	mult := 0
	for _, knot := range s.knots {
		if tinyspline.KnotsEqual(u, knot) {
			mult++
		}
	}
	return mult
}
