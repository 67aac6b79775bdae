package graph

import (
	"math"

	"github.com/paulmach/orb"
)

// Node geometry in content units.
const (
	HeaderHeight = 24.0
	RowHeight    = 20.0
	DefaultWidth = 120.0
	RedirectSize = 16.0

	// DefaultCurveSegments is how many line segments an edge curve is flattened into.
	DefaultCurveSegments = 16

	minTangent = 40.0
)

// Extent returns the node's size, computing it from the port rows when Size is
// zero.
func (n *Node) Extent() orb.Point {
	if n.Size != (orb.Point{}) {
		return n.Size
	}
	if n.IsRedirect() {
		return orb.Point{RedirectSize, RedirectSize}
	}
	if n.Collapsed {
		return orb.Point{DefaultWidth, HeaderHeight}
	}
	var in, out int
	for _, p := range n.Ports {
		if p.Direction == DirIn {
			in++
		} else {
			out++
		}
	}
	rows := max(in, out)
	return orb.Point{DefaultWidth, HeaderHeight + float64(rows)*RowHeight}
}

// Bound returns the node's rectangle in content space.
func (n *Node) Bound() orb.Bound {
	size := n.Extent()
	return orb.Bound{
		Min: n.Position,
		Max: orb.Point{n.Position[0] + size[0], n.Position[1] + size[1]},
	}
}

// Anchor returns where edges attach to the i-th port, in content space.
// Inputs sit on the left side and outputs on the right, one row per port in
// document order. Redirects and collapsed nodes stack all ports on one line.
func (n *Node) Anchor(i int) orb.Point {
	p := n.Ports[i]
	size := n.Extent()
	x := n.Position[0]
	if p.Direction == DirOut {
		x += size[0]
	}

	if n.IsRedirect() {
		return orb.Point{x, n.Position[1] + size[1]/2}
	}
	if n.Collapsed {
		return orb.Point{x, n.Position[1] + HeaderHeight/2}
	}

	row := 0
	for _, q := range n.Ports[:i] {
		if q.Direction == p.Direction {
			row++
		}
	}
	return orb.Point{x, n.Position[1] + HeaderHeight + (float64(row)+0.5)*RowHeight}
}

// Curve flattens the cubic Bézier node editors draw between an output anchor
// and an input anchor into segments+1 points. Tangents leave and enter
// horizontally.
func Curve(from, to orb.Point, segments int) orb.LineString {
	if segments < 1 {
		segments = DefaultCurveSegments
	}
	t := math.Max(math.Abs(to[0]-from[0])/2, minTangent)
	c1 := orb.Point{from[0] + t, from[1]}
	c2 := orb.Point{to[0] - t, to[1]}

	out := make(orb.LineString, segments+1)
	for i := 0; i <= segments; i++ {
		out[i] = cubic(from, c1, c2, to, float64(i)/float64(segments))
	}
	return out
}

func cubic(p0, p1, p2, p3 orb.Point, t float64) orb.Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return orb.Point{
		a*p0[0] + b*p1[0] + c*p2[0] + d*p3[0],
		a*p0[1] + b*p1[1] + c*p2[1] + d*p3[1],
	}
}
