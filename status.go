package tinyspline

import (
	"errors"
	"fmt"
)

// Code enumerates the error conditions of the library. The numeric
// values are stable and part of the public surface.
type Code int

const (
	// Success : no error.
	Success Code = 0

	// ErrMalloc : memory cannot be allocated. Retained for taxonomy
	// stability; Go allocation failure panics, so this code is never
	// produced by this module.
	ErrMalloc Code = -1

	// ErrDimZero : points have dimensionality 0.
	ErrDimZero Code = -2

	// ErrDegGeNCtrlp : degree >= num(control_points).
	ErrDegGeNCtrlp Code = -3

	// ErrUUndefined : knot is not within the domain.
	ErrUUndefined Code = -4

	// ErrMultiplicity : multiplicity(knot) > order.
	ErrMultiplicity Code = -5

	// ErrKnotsDecr : decreasing knot vector.
	ErrKnotsDecr Code = -6

	// ErrNumKnots : unexpected number of knots.
	ErrNumKnots Code = -7

	// ErrUnderivable : spline is not derivable.
	ErrUnderivable Code = -8

	// ErrLCtrlpDimMismatch : len(control_points) % dimension != 0.
	ErrLCtrlpDimMismatch Code = -10

	// ErrIO : error while reading/writing a file.
	ErrIO Code = -11

	// ErrParse : error while parsing a serialized entity.
	ErrParse Code = -12

	// ErrIndex : index does not exist.
	ErrIndex Code = -13

	// ErrNoResult : function returns without result (e.g.,
	// approximations).
	ErrNoResult Code = -14

	// ErrNumPoints : unexpected number of points.
	ErrNumPoints Code = -15
)

// Status pairs a Code with a short human-readable message describing
// the failure context. Status implements error; fallible operations of
// the curve packages return their first Status and abort.
type Status struct {
	Code    Code
	Message string
}

func (s *Status) Error() string {
	return s.Message
}

// Errorf creates a Status from a code and a formatted message.
func Errorf(code Code, format string, a ...interface{}) *Status {
	s := &Status{Code: code, Message: fmt.Sprintf(format, a...)}
	tracer().Debugf("status %d: %s", s.Code, s.Message)
	return s
}

// CodeOf extracts the Code from err. A nil error yields Success.
// Errors produced by this library always carry a Status; foreign errors
// map to ErrIO.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var status *Status
	if errors.As(err, &status) {
		return status.Code
	}
	return ErrIO
}
