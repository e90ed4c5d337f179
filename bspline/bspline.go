// Package bspline implements B-spline, NURBS, Bezier, line, and point
// curves of arbitrary degree and dimensionality.
/*

A Spline is defined by its degree, the dimensionality of its control
points, a flat control-point buffer, and a non-decreasing knot vector.
Two dimensional control points are stored as:

	[x_0, y_0, x_1, y_1, ..., x_n-1, y_n-1]

three dimensional control points as:

	[x_0, y_0, z_0, x_1, y_1, z_1, ...]

and so on. NURBS use homogeneous coordinates: the last component of a
control point stores the weight w, and the preceding components are
pre-multiplied by w:

	[x_0*w_0, y_0*w_0, w_0, x_1*w_1, y_1*w_1, w_1, ...]

Bezier curves are B-splines with num(control points) == order and a
clamped knot vector, which lets them pass through their first and last
control point. Lines and points, on that basis, are Bezier curves of
degree 1 (lines) and 0 (points).

Splines are evaluated with De Boor's algorithm (see Eval and
DeBoorNet). Transformations (Derive, ToBeziers, ElevateDegree, Align,
Morph, Tension) never modify their receiver; they return new,
independent instances.

# BSD License

# Copyright (c) Julian Oes

All rights reserved.

Please refer to the license file for more information.
*/
package bspline

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/julianoes/tinyspline"
)

// tracer writes to trace with key 'bspline'
func tracer() tracing.Trace {
	return tracing.Select("bspline")
}

// Type describes the structure of a knot vector. More details can be
// found at:
//
//	www.cs.mtu.edu/~shene/COURSES/cs3621/NOTES/spline/B-spline/bspline-curve.html
type Type int

const (
	// Opened : uniformly spaced knot vector with opened end knots.
	Opened Type = iota

	// Clamped : uniformly spaced knot vector with clamped end knots.
	Clamped

	// Beziers : uniformly spaced knot vector where the multiplicity of
	// each knot is equal to the order of the spline.
	Beziers
)

// Spline is the concrete type for B-spline, NURBS, Bezier, line, and
// point curves. The zero value is the null spline: it owns no buffers
// and must not be evaluated. Use New, NewWithControlPoints, or one of
// the interpolation functions to obtain a usable instance.
type Spline struct {
	degree int       // degree of the piecewise polynomials
	dim    int       // components per control point
	ctrlp  []float64 // flat control point buffer, len = n*dim
	knots  []float64 // non-decreasing knot vector, len = n+degree+1
}

// New creates a spline with numCtrlp zero-initialized control points of
// dimensionality dim and the given degree. The knot vector is laid out
// according to typ over [DomainDefaultMin, DomainDefaultMax].
func New(numCtrlp, dim, degree int, typ Type) (*Spline, error) {
	if dim < 1 {
		return nil, tinyspline.Errorf(tinyspline.ErrDimZero,
			"unsupported dimension: %d", dim)
	}
	if degree >= numCtrlp {
		return nil, tinyspline.Errorf(tinyspline.ErrDegGeNCtrlp,
			"degree (%d) >= num(control_points) (%d)", degree, numCtrlp)
	}
	order := degree + 1
	numKnots := numCtrlp + order
	if numKnots > tinyspline.MaxNumKnots {
		return nil, tinyspline.Errorf(tinyspline.ErrNumKnots,
			"unsupported number of knots: %d > %d",
			numKnots, tinyspline.MaxNumKnots)
	}
	if typ == Beziers && (numCtrlp-order)%order != 0 {
		return nil, tinyspline.Errorf(tinyspline.ErrNumKnots,
			"num(control_points) (%d) %% order (%d) != 0",
			numCtrlp, order)
	}
	s := &Spline{
		degree: degree,
		dim:    dim,
		ctrlp:  make([]float64, numCtrlp*dim),
		knots:  make([]float64, numKnots),
	}
	s.layoutKnots(typ)
	tracer().Debugf("created spline: deg = %d, dim = %d, n = %d",
		degree, dim, numCtrlp)
	return s, nil
}

// NewWithControlPoints behaves like New and then copies ctrlp into the
// control point buffer. len(ctrlp) must be numCtrlp*dim.
func NewWithControlPoints(numCtrlp, dim, degree int, typ Type,
	ctrlp []float64) (*Spline, error) {
	s, err := New(numCtrlp, dim, degree, typ)
	if err != nil {
		return nil, err
	}
	if len(ctrlp) != numCtrlp*dim {
		return nil, tinyspline.Errorf(tinyspline.ErrLCtrlpDimMismatch,
			"len(control_points) (%d) != %d", len(ctrlp), numCtrlp*dim)
	}
	copy(s.ctrlp, ctrlp)
	return s, nil
}

// layoutKnots fills the knot vector of s according to typ over the
// default domain. s must have its final buffer sizes.
func (s *Spline) layoutKnots(typ Type) {
	min, max := tinyspline.DomainDefaultMin, tinyspline.DomainDefaultMax
	order := s.degree + 1
	m := len(s.knots)
	switch typ {
	case Opened:
		for i := 0; i < m; i++ {
			s.knots[i] = min + float64(i)/float64(m-1)*(max-min)
		}
		s.knots[m-1] = max // avoid rounding on the bound
	case Clamped:
		numInterior := m - 2*order
		for i := 0; i < order; i++ {
			s.knots[i] = min
			s.knots[m-1-i] = max
		}
		for i := 0; i < numInterior; i++ {
			s.knots[order+i] = min +
				float64(i+1)/float64(numInterior+1)*(max-min)
		}
	case Beziers:
		numDistinct := m / order
		for i := 0; i < numDistinct; i++ {
			v := min + float64(i)/float64(numDistinct-1)*(max-min)
			for j := 0; j < order; j++ {
				s.knots[i*order+j] = v
			}
		}
	}
}

// Copy returns a deep copy of s.
func (s *Spline) Copy() *Spline {
	c := &Spline{
		degree: s.degree,
		dim:    s.dim,
		ctrlp:  append([]float64(nil), s.ctrlp...),
		knots:  append([]float64(nil), s.knots...),
	}
	return c
}

// === Field Access ==========================================================

// Degree returns the degree of s.
func (s *Spline) Degree() int {
	return s.degree
}

// Order returns the order (degree + 1) of s.
func (s *Spline) Order() int {
	return s.degree + 1
}

// Dimension returns the number of components of each control point of
// s. One-dimensional splines are possible, albeit their benefit might
// be questionable.
func (s *Spline) Dimension() int {
	return s.dim
}

// NumControlPoints returns the number of control points of s.
func (s *Spline) NumControlPoints() int {
	return len(s.ctrlp) / s.dim
}

// LenControlPoints returns the length of the control point buffer of s.
func (s *Spline) LenControlPoints() int {
	return len(s.ctrlp)
}

// ControlPoints returns a deep copy of the control point buffer of s.
func (s *Spline) ControlPoints() []float64 {
	return append([]float64(nil), s.ctrlp...)
}

// ControlPointAt returns a deep copy of the control point at index.
func (s *Spline) ControlPointAt(index int) ([]float64, error) {
	if index < 0 || index >= s.NumControlPoints() {
		return nil, tinyspline.Errorf(tinyspline.ErrIndex,
			"control point index (%d) out of range", index)
	}
	ctrlp := make([]float64, s.dim)
	copy(ctrlp, s.ctrlp[index*s.dim:])
	return ctrlp, nil
}

// SetControlPoints replaces the control points of s with a deep copy of
// ctrlp. len(ctrlp) must match the current buffer length.
func (s *Spline) SetControlPoints(ctrlp []float64) error {
	if len(ctrlp) != len(s.ctrlp) {
		return tinyspline.Errorf(tinyspline.ErrLCtrlpDimMismatch,
			"len(control_points) (%d) != %d", len(ctrlp), len(s.ctrlp))
	}
	copy(s.ctrlp, ctrlp)
	return nil
}

// SetControlPointAt replaces the control point at index with a deep
// copy of ctrlp. len(ctrlp) must be Dimension.
func (s *Spline) SetControlPointAt(index int, ctrlp []float64) error {
	if index < 0 || index >= s.NumControlPoints() {
		return tinyspline.Errorf(tinyspline.ErrIndex,
			"control point index (%d) out of range", index)
	}
	if len(ctrlp) != s.dim {
		return tinyspline.Errorf(tinyspline.ErrLCtrlpDimMismatch,
			"len(control_point) (%d) != dimension (%d)",
			len(ctrlp), s.dim)
	}
	copy(s.ctrlp[index*s.dim:(index+1)*s.dim], ctrlp)
	return nil
}

// NumKnots returns the number of knots of s.
func (s *Spline) NumKnots() int {
	return len(s.knots)
}

// Knots returns a deep copy of the knot vector of s.
func (s *Spline) Knots() []float64 {
	return append([]float64(nil), s.knots...)
}

// KnotAt returns the knot at index.
func (s *Spline) KnotAt(index int) (float64, error) {
	if index < 0 || index >= len(s.knots) {
		return 0, tinyspline.Errorf(tinyspline.ErrIndex,
			"knot index (%d) out of range", index)
	}
	return s.knots[index], nil
}

// SetKnots replaces the knot vector of s with a deep copy of knots.
// The vector must be non-decreasing with respect to the knot epsilon,
// no knot may exceed multiplicity order, and len(knots) must match the
// current vector length.
func (s *Spline) SetKnots(knots []float64) error {
	if len(knots) != len(s.knots) {
		return tinyspline.Errorf(tinyspline.ErrNumKnots,
			"unsupported number of knots: %d != %d",
			len(knots), len(s.knots))
	}
	if err := validateKnots(knots, s.degree); err != nil {
		return err
	}
	copy(s.knots, knots)
	return nil
}

// SetKnotAt replaces the knot at index. The resulting vector must
// satisfy the constraints of SetKnots.
func (s *Spline) SetKnotAt(index int, knot float64) error {
	if index < 0 || index >= len(s.knots) {
		return tinyspline.Errorf(tinyspline.ErrIndex,
			"knot index (%d) out of range", index)
	}
	knots := s.Knots()
	knots[index] = knot
	return s.SetKnots(knots)
}

// Domain returns the lower and upper bound of the domain of s.
func (s *Spline) Domain() (min, max float64) {
	return s.knots[s.degree], s.knots[len(s.knots)-s.Order()]
}

// validateKnots checks monotonicity (with respect to the knot epsilon)
// and the multiplicity bound of a knot vector for a spline of the given
// degree.
func validateKnots(knots []float64, degree int) error {
	order := degree + 1
	mult := 1
	for i := 1; i < len(knots); i++ {
		if tinyspline.KnotsEqual(knots[i], knots[i-1]) {
			mult++
		} else if knots[i] < knots[i-1] {
			return tinyspline.Errorf(tinyspline.ErrKnotsDecr,
				"decreasing knot vector at index: %d", i)
		} else {
			mult = 1
		}
		if mult > order {
			return tinyspline.Errorf(tinyspline.ErrMultiplicity,
				"mult(%g) (%d) > order (%d)", knots[i], mult, order)
		}
	}
	return nil
}
