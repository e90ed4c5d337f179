package bspline

// DeBoorNet represents the output of De Boor's algorithm. It is used to
// evaluate a spline at a given knot by iteratively computing a net of
// intermediate points until the result is available:
//
//	https://en.wikipedia.org/wiki/De_Boor%27s_algorithm
//	https://www.cs.mtu.edu/~shene/COURSES/cs3621/NOTES/spline/de-Boor.html
//
// All points of a net are stored in its points buffer, laid out like a
// control point buffer (see Spline); the last Dimension values are the
// resultant point.
//
// There is a special case in which evaluating a knot u yields two
// results instead of one. It occurs when the multiplicity of u equals
// the order of the spline, indicating that the spline is discontinuous
// at u. This is common practice for splines consisting of connected
// Bezier curves where the end point of curve c_i is equal to the start
// point of curve c_i+1. Yet, both points may be completely different,
// yielding a visible gap. In that case the net stores only the two
// resultant points (there is no net to calculate) and Result yields the
// pair, the first point being the canonical result. As an exception,
// evaluating the lower or upper domain bound always yields exactly one
// result, regardless of the multiplicity of u.
//
// The zero value is the null net: it owns no buffer and yields no
// result.
type DeBoorNet struct {
	u         float64   // the evaluated knot, after epsilon snapping
	k         int       // index such that u is in [knots[k], knots[k+1])
	s         int       // multiplicity of u
	h         int       // number of insertions (affine combination rounds)
	dim       int       // components per point
	points    []float64 // all points of the net
	numResult int       // 1, or 2 at discontinuities
}

// Knot returns the evaluated knot (sometimes referred to as 'u' or
// 't') of n, as actually used after epsilon snapping.
func (n *DeBoorNet) Knot() float64 {
	return n.u
}

// Index returns k with u in [knots[k], knots[k+1]), u being the knot
// of n.
func (n *DeBoorNet) Index() int {
	return n.k
}

// Multiplicity returns the multiplicity of the knot of n.
func (n *DeBoorNet) Multiplicity() int {
	return n.s
}

// NumInsertions returns the number of insertions that were necessary to
// evaluate the knot of n.
func (n *DeBoorNet) NumInsertions() int {
	return n.h
}

// Dimension returns the number of components of each point of n.
func (n *DeBoorNet) Dimension() int {
	return n.dim
}

// NumPoints returns the number of points of n.
func (n *DeBoorNet) NumPoints() int {
	return len(n.points) / n.dim
}

// LenPoints returns the length of the point buffer of n.
func (n *DeBoorNet) LenPoints() int {
	return len(n.points)
}

// Points returns a deep copy of the points of n.
func (n *DeBoorNet) Points() []float64 {
	return append([]float64(nil), n.points...)
}

// NumResult returns the number of points in the result of n
// (1 <= NumResult <= 2).
func (n *DeBoorNet) NumResult() int {
	return n.numResult
}

// LenResult returns the length of the result of n.
func (n *DeBoorNet) LenResult() int {
	return n.numResult * n.dim
}

// Result returns a deep copy of the result of n. In the regular case
// this is the last point of the net; at discontinuities it is the pair
// of resultant points, the first one being the canonical result.
func (n *DeBoorNet) Result() []float64 {
	res := make([]float64, n.LenResult())
	copy(res, n.points[n.resultOffset():])
	return res
}

// resultOffset is the index of the first result value within points.
func (n *DeBoorNet) resultOffset() int {
	if n.numResult == 2 {
		return 0
	}
	return len(n.points) - n.dim
}

// Copy returns a deep copy of n.
func (n *DeBoorNet) Copy() *DeBoorNet {
	c := *n
	c.points = append([]float64(nil), n.points...)
	return &c
}
