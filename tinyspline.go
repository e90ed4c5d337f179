/*
Package tinyspline provides the numeric base for a library of B-spline,
NURBS, Bezier, line, and point curves of arbitrary degree and
dimensionality.

The root package holds the primitives shared by the curve packages:
the epsilon identity for knots, the Euclidean distance of points given
as flat coordinate slices, buffer filling, the library's tunables, and
the error taxonomy (see Status).

# BSD License

# Copyright (c) Julian Oes

All rights reserved.

Please refer to the license file for more information.
*/
package tinyspline

import (
	"math"

	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/floats"
)

// tracer writes to trace with key 'tinyspline'
func tracer() tracing.Trace {
	return tracing.Select("tinyspline")
}

// === Tunables ==============================================================

// MaxNumKnots is the maximum number of knots a spline can have. It is
// strongly related to KnotEpsilon: the larger MaxNumKnots is, the
// smaller (more precise) KnotEpsilon has to be, and vice versa. By default
//
//	MaxNumKnots = 1 / KnotEpsilon
//
// which should be preserved when changing either value.
var MaxNumKnots = 10000

// KnotEpsilon : knots within distance ε are considered equal. Must be
// positive. See MaxNumKnots for the relation both values maintain.
var KnotEpsilon float64 = 1e-4

// ControlPointEpsilon is a viable default for functions that take an
// epsilon environment to decide whether two (control) points are equal.
var ControlPointEpsilon float64 = 1e-5

// DomainDefaultMin is the lower domain bound of newly created splines.
// Must be less than DomainDefaultMax.
var DomainDefaultMin float64 = 0.0

// DomainDefaultMax is the upper domain bound of newly created splines.
// Must be greater than DomainDefaultMin.
var DomainDefaultMax float64 = 1.0

// === Numeric Primitives ====================================================

// KnotsEqual is a predicate: are x and y equal with respect to
// KnotEpsilon?
func KnotsEqual(x, y float64) bool {
	return math.Abs(x-y) <= KnotEpsilon
}

// Distance returns the Euclidean distance of the points x and y, given
// as flat coordinate slices of equal length.
func Distance(x, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Distance(x, y, 2)
}

// Fill sets every element of arr to val.
func Fill(arr []float64, val float64) {
	for i := range arr {
		arr[i] = val
	}
}
