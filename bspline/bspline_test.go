package bspline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianoes/tinyspline"
)

// mustNew fails the test if the spline cannot be created.
func mustNew(t *testing.T, numCtrlp, dim, degree int, typ Type) *Spline {
	t.Helper()
	s, err := New(numCtrlp, dim, degree, typ)
	require.NoError(t, err)
	return s
}

// arch is the spline of degree 3 with control points
// (0,0), (1,2), (2,2), (3,0); it evaluates to (1.5, 1.5) at u = 0.5.
func arch(t *testing.T) *Spline {
	t.Helper()
	s, err := NewWithControlPoints(4, 2, 3, Clamped,
		[]float64{0, 0, 1, 2, 2, 2, 3, 0})
	require.NoError(t, err)
	return s
}

// assertInvariants checks the representation invariants of s.
func assertInvariants(t *testing.T, s *Spline) {
	t.Helper()
	n := s.NumControlPoints()
	if s.Degree() >= n {
		t.Fatalf("degree (%d) >= num(control_points) (%d)", s.Degree(), n)
	}
	if s.Dimension() < 1 {
		t.Fatalf("dimension (%d) < 1", s.Dimension())
	}
	if s.NumKnots() != n+s.Order() {
		t.Fatalf("num(knots) (%d) != %d", s.NumKnots(), n+s.Order())
	}
	if s.NumKnots() > tinyspline.MaxNumKnots {
		t.Fatalf("num(knots) (%d) > %d", s.NumKnots(), tinyspline.MaxNumKnots)
	}
	knots := s.Knots()
	mult := 1
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] && !tinyspline.KnotsEqual(knots[i], knots[i-1]) {
			t.Fatalf("decreasing knot vector at index %d", i)
		}
		if tinyspline.KnotsEqual(knots[i], knots[i-1]) {
			mult++
		} else {
			mult = 1
		}
		if mult > s.Order() {
			t.Fatalf("mult(%g) > order", knots[i])
		}
	}
}

func TestNewClamped(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustNew(t, 7, 2, 3, Clamped)
	assertInvariants(t, s)
	want := []float64{0, 0, 0, 0, 0.25, 0.5, 0.75, 1, 1, 1, 1}
	if diff := cmp.Diff(want, s.Knots(),
		cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("knot vector mismatch (-want +got):\n%s", diff)
	}
	min, max := s.Domain()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 1.0, max)
}

func TestNewOpened(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustNew(t, 7, 2, 3, Opened)
	assertInvariants(t, s)
	want := []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}
	if diff := cmp.Diff(want, s.Knots(),
		cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("knot vector mismatch (-want +got):\n%s", diff)
	}
	min, max := s.Domain()
	assert.InDelta(t, 0.3, min, 1e-12)
	assert.InDelta(t, 0.7, max, 1e-12)
}

func TestNewBeziers(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustNew(t, 8, 2, 3, Beziers)
	assertInvariants(t, s)
	want := []float64{0, 0, 0, 0, 0.5, 0.5, 0.5, 0.5, 1, 1, 1, 1}
	if diff := cmp.Diff(want, s.Knots(),
		cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("knot vector mismatch (-want +got):\n%s", diff)
	}
}

func TestNewErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := New(7, 0, 3, Clamped)
	assert.Equal(t, tinyspline.ErrDimZero, tinyspline.CodeOf(err))
	_, err = New(3, 2, 3, Clamped)
	assert.Equal(t, tinyspline.ErrDegGeNCtrlp, tinyspline.CodeOf(err))
	_, err = New(3, 2, 3, Opened)
	assert.Equal(t, tinyspline.ErrDegGeNCtrlp, tinyspline.CodeOf(err))
	_, err = New(7, 2, 3, Beziers)
	assert.Equal(t, tinyspline.ErrNumKnots, tinyspline.CodeOf(err))
}

func TestNewWithControlPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := arch(t)
	assertInvariants(t, s)
	assert.Equal(t, []float64{0, 0, 1, 2, 2, 2, 3, 0}, s.ControlPoints())
	_, err := NewWithControlPoints(4, 2, 3, Clamped, []float64{0, 0})
	assert.Equal(t, tinyspline.ErrLCtrlpDimMismatch, tinyspline.CodeOf(err))
}

func TestFieldAccess(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := arch(t)
	assert.Equal(t, 3, s.Degree())
	assert.Equal(t, 4, s.Order())
	assert.Equal(t, 2, s.Dimension())
	assert.Equal(t, 4, s.NumControlPoints())
	assert.Equal(t, 8, s.LenControlPoints())
	assert.Equal(t, 8, s.NumKnots())

	ctrlp, err := s.ControlPointAt(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, ctrlp)
	_, err = s.ControlPointAt(4)
	assert.Equal(t, tinyspline.ErrIndex, tinyspline.CodeOf(err))
	_, err = s.ControlPointAt(-1)
	assert.Equal(t, tinyspline.ErrIndex, tinyspline.CodeOf(err))

	knot, err := s.KnotAt(5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, knot)
	_, err = s.KnotAt(8)
	assert.Equal(t, tinyspline.ErrIndex, tinyspline.CodeOf(err))
}

func TestSetControlPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := arch(t)
	require.NoError(t, s.SetControlPointAt(0, []float64{-1, -1}))
	ctrlp, err := s.ControlPointAt(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1}, ctrlp)

	err = s.SetControlPointAt(0, []float64{1, 2, 3})
	assert.Equal(t, tinyspline.ErrLCtrlpDimMismatch, tinyspline.CodeOf(err))
	err = s.SetControlPointAt(9, []float64{1, 2})
	assert.Equal(t, tinyspline.ErrIndex, tinyspline.CodeOf(err))

	err = s.SetControlPoints([]float64{8, 8, 7, 7, 6, 6, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 8, 7, 7, 6, 6, 5, 5}, s.ControlPoints())
	err = s.SetControlPoints([]float64{1, 2})
	assert.Equal(t, tinyspline.ErrLCtrlpDimMismatch, tinyspline.CodeOf(err))
}

func TestSetKnots(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := arch(t)
	err := s.SetKnots([]float64{0, 0, 0, 0, 2, 2, 2, 2})
	require.NoError(t, err)
	min, max := s.Domain()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 2.0, max)

	err = s.SetKnots([]float64{0, 0, 0, 0, 1, 0.5, 1, 1})
	assert.Equal(t, tinyspline.ErrKnotsDecr, tinyspline.CodeOf(err))
	err = s.SetKnots([]float64{0, 0, 0, 0, 0, 1, 1, 1})
	assert.Equal(t, tinyspline.ErrMultiplicity, tinyspline.CodeOf(err))
	err = s.SetKnots([]float64{0, 1})
	assert.Equal(t, tinyspline.ErrNumKnots, tinyspline.CodeOf(err))
}

func TestSetKnotAt(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := mustNew(t, 7, 2, 3, Clamped)
	require.NoError(t, s.SetKnotAt(5, 0.4))
	knot, err := s.KnotAt(5)
	require.NoError(t, err)
	assert.Equal(t, 0.4, knot)

	err = s.SetKnotAt(5, 0.1) // below its left neighbour 0.25
	assert.Equal(t, tinyspline.ErrKnotsDecr, tinyspline.CodeOf(err))
	err = s.SetKnotAt(4, 0.0) // would raise mult(0) to 5
	assert.Equal(t, tinyspline.ErrMultiplicity, tinyspline.CodeOf(err))
	err = s.SetKnotAt(11, 0.5)
	assert.Equal(t, tinyspline.ErrIndex, tinyspline.CodeOf(err))
}

func TestCopy(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := arch(t)
	c := s.Copy()
	require.NoError(t, c.SetControlPointAt(0, []float64{9, 9}))
	ctrlp, err := s.ControlPointAt(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, ctrlp, "copy must not share buffers")
	if diff := cmp.Diff(s.Knots(), c.Knots()); diff != "" {
		t.Errorf("knot vectors differ:\n%s", diff)
	}
}
