// Package interp constructs splines passing through given points. It
// provides cubic spline interpolation with natural end conditions and
// Catmull-Rom interpolation with uniform, centripetal, and chordal
// parameterization.
/*

Both interpolation schemes emit their result as a sequence of cubic
Bezier curves stacked into a single spline (see bspline.Beziers). The
natural cubic interpolation solves the tridiagonal system of the
underlying C2 spline with the Thomas algorithm:

	https://en.wikipedia.org/wiki/Tridiagonal_matrix_algorithm
	http://www.math.ucla.edu/~baker/149.1.02w/handouts/dd_splines.pdf

The Catmull-Rom translation is based on the parameterized tangent
formulas, with the knot parameterization exponent alpha: 0 yields the
uniform, 0.5 the centripetal, and 1 the chordal variant.

# BSD License

# Copyright (c) Julian Oes

All rights reserved.

Please refer to the license file for more information.
*/
package interp

import (
	"math"

	"github.com/npillmayer/schuko/tracing"

	"github.com/julianoes/tinyspline"
	"github.com/julianoes/tinyspline/bspline"
)

// tracer writes to trace with key 'interp'
func tracer() tracing.Trace {
	return tracing.Select("interp")
}

// CubicNatural interpolates a cubic spline with natural end conditions
// (vanishing second derivative) passing through every point in points.
// The resultant spline is a sequence of numPoints-1 Bezier curves of
// degree 3, connecting each pair of adjacent points. A single point
// yields a spline of degree 0. len(points) must be numPoints*dim.
func CubicNatural(points []float64, numPoints, dim int) (*bspline.Spline, error) {
	if dim < 1 {
		return nil, tinyspline.Errorf(tinyspline.ErrDimZero,
			"unsupported dimension: %d", dim)
	}
	if numPoints == 0 {
		return nil, tinyspline.Errorf(tinyspline.ErrNumPoints,
			"unsupported number of points: 0")
	}
	if len(points) != numPoints*dim {
		return nil, tinyspline.Errorf(tinyspline.ErrLCtrlpDimMismatch,
			"len(points) (%d) != %d", len(points), numPoints*dim)
	}
	if numPoints == 1 {
		return pointSpline(points[:dim], dim)
	}

	// Control polygon d of the C2 cubic B-spline through points: the
	// relaxed end conditions pin d[0] and d[n-1] to the outer points,
	// the interior satisfies d[i-1] + 4*d[i] + d[i+1] = 6*p[i].
	n := numPoints
	d := make([]float64, n*dim)
	copy(d[:dim], points[:dim])
	copy(d[(n-1)*dim:], points[(n-1)*dim:])
	if n > 2 {
		num := n - 2
		sub := make([]float64, num)
		diag := make([]float64, num)
		sup := make([]float64, num)
		rhs := make([]float64, num*dim)
		for i := 0; i < num; i++ {
			sub[i], diag[i], sup[i] = 1, 4, 1
			for c := 0; c < dim; c++ {
				rhs[i*dim+c] = 6 * points[(i+1)*dim+c]
			}
		}
		for c := 0; c < dim; c++ {
			rhs[c] -= d[c]
			rhs[(num-1)*dim+c] -= d[(n-1)*dim+c]
		}
		thomas(sub, diag, sup, rhs, num, dim)
		copy(d[dim:(n-1)*dim], rhs)
	}

	// Emit one Bezier segment per pair of adjacent points.
	numSegs := n - 1
	ctrlp := make([]float64, numSegs*4*dim)
	for i := 0; i < numSegs; i++ {
		seg := ctrlp[i*4*dim:]
		for c := 0; c < dim; c++ {
			di, dj := d[i*dim+c], d[(i+1)*dim+c]
			seg[c] = points[i*dim+c]
			seg[dim+c] = (2*di + dj) / 3
			seg[2*dim+c] = (di + 2*dj) / 3
			seg[3*dim+c] = points[(i+1)*dim+c]
		}
	}
	tracer().Debugf("interpolated %d points with %d bezier segments",
		numPoints, numSegs)
	return bspline.NewWithControlPoints(numSegs*4, dim, 3,
		bspline.Beziers, ctrlp)
}

// thomas solves a tridiagonal system in place: sub, diag, and sup are
// the three bands (len num each; sub[0] and sup[num-1] are unused), rhs
// holds num points of the given dimension and receives the solution.
func thomas(sub, diag, sup, rhs []float64, num, dim int) {
	for i := 1; i < num; i++ {
		f := sub[i] / diag[i-1]
		diag[i] -= f * sup[i-1]
		for c := 0; c < dim; c++ {
			rhs[i*dim+c] -= f * rhs[(i-1)*dim+c]
		}
	}
	for c := 0; c < dim; c++ {
		rhs[(num-1)*dim+c] /= diag[num-1]
	}
	for i := num - 2; i >= 0; i-- {
		for c := 0; c < dim; c++ {
			rhs[i*dim+c] = (rhs[i*dim+c] -
				sup[i]*rhs[(i+1)*dim+c]) / diag[i]
		}
	}
}

// CatmullRom interpolates a piecewise cubic spline by translating the
// given Catmull-Rom control points into a sequence of Bezier curves.
// Successive points with distance less than or equal to |epsilon| are
// filtered out to avoid division by zero; if a single point remains, a
// spline of degree 0 is created. The knot parameterization alpha is
// clamped to [0, 1]: 0 yields the uniform, 0.5 the centripetal, and 1
// the chordal variant. The optional outer tangent points first and
// last extend the sequence; they are ignored (and replaced by
// generated points) when nil or within |epsilon| of the respective end
// point. len(points) must be numPoints*dim.
func CatmullRom(points []float64, numPoints, dim int, alpha float64,
	first, last []float64, epsilon float64) (*bspline.Spline, error) {
	if dim < 1 {
		return nil, tinyspline.Errorf(tinyspline.ErrDimZero,
			"unsupported dimension: %d", dim)
	}
	if numPoints == 0 {
		return nil, tinyspline.Errorf(tinyspline.ErrNumPoints,
			"unsupported number of points: 0")
	}
	if len(points) != numPoints*dim {
		return nil, tinyspline.Errorf(tinyspline.ErrLCtrlpDimMismatch,
			"len(points) (%d) != %d", len(points), numPoints*dim)
	}
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	eps := math.Abs(epsilon)

	// Filter out successive points within eps distance.
	unique := append([]float64(nil), points[:dim]...)
	for i := 1; i < numPoints; i++ {
		p := points[i*dim : (i+1)*dim]
		if tinyspline.Distance(unique[len(unique)-dim:], p) > eps {
			unique = append(unique, p...)
		}
	}
	n := len(unique) / dim
	if n == 1 {
		return pointSpline(unique, dim)
	}

	// Extend the sequence with the outer tangent points.
	head := unique[:dim]
	tail := unique[(n-1)*dim:]
	if first == nil || tinyspline.Distance(first, head) <= eps {
		first = reflect(unique[dim:2*dim], head, dim)
	}
	if last == nil || tinyspline.Distance(last, tail) <= eps {
		last = reflect(unique[(n-2)*dim:(n-1)*dim], tail, dim)
	}
	extended := make([]float64, 0, (n+2)*dim)
	extended = append(extended, first...)
	extended = append(extended, unique...)
	extended = append(extended, last...)

	numSegs := n - 1
	ctrlp := make([]float64, numSegs*4*dim)
	for i := 0; i < numSegs; i++ {
		catmullRomToBezier(extended[i*dim:(i+4)*dim],
			alpha, dim, ctrlp[i*4*dim:(i+1)*4*dim])
	}
	tracer().Debugf("interpolated %d points with %d bezier segments",
		n, numSegs)
	return bspline.NewWithControlPoints(numSegs*4, dim, 3,
		bspline.Beziers, ctrlp)
}

// reflect returns p1 mirrored at p0.
func reflect(p1, p0 []float64, dim int) []float64 {
	out := make([]float64, dim)
	for c := 0; c < dim; c++ {
		out[c] = 2*p0[c] - p1[c]
	}
	return out
}

// catmullRomToBezier translates the segment p1 -> p2 of the Catmull-Rom
// sequence [p0, p1, p2, p3] (stored flat in pts) into a cubic Bezier
// curve, using the tangents of the alpha-parameterized scheme.
func catmullRomToBezier(pts []float64, alpha float64, dim int, out []float64) {
	p0 := pts[:dim]
	p1 := pts[dim : 2*dim]
	p2 := pts[2*dim : 3*dim]
	p3 := pts[3*dim:]
	t01 := math.Pow(tinyspline.Distance(p0, p1), alpha)
	t12 := math.Pow(tinyspline.Distance(p1, p2), alpha)
	t23 := math.Pow(tinyspline.Distance(p2, p3), alpha)
	for c := 0; c < dim; c++ {
		m1 := p2[c] - p1[c] + t12*((p1[c]-p0[c])/t01-
			(p2[c]-p0[c])/(t01+t12))
		m2 := p2[c] - p1[c] + t12*((p3[c]-p2[c])/t23-
			(p3[c]-p1[c])/(t12+t23))
		out[c] = p1[c]
		out[dim+c] = p1[c] + m1/3
		out[2*dim+c] = p2[c] - m2/3
		out[3*dim+c] = p2[c]
	}
}

// pointSpline creates a spline of degree 0 holding a single point.
func pointSpline(point []float64, dim int) (*bspline.Spline, error) {
	return bspline.NewWithControlPoints(1, dim, 0, bspline.Clamped, point)
}
