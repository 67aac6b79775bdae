package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// parallelEpsilon is the relative tolerance below which two segments are treated
// as parallel. The cross product of the direction vectors is compared against the
// product of their lengths so the test does not depend on segment scale.
const parallelEpsilon = 1e-12

// SegmentsIntersect solves for the intersection of segment p1-p2 with segment
// p3-p4 using Cramer's rule on the two parametric line equations.
//
// It reports false when the segments are parallel or nearly so, when either is
// degenerate, or when either parameter falls outside the open interval (0, 1).
// Segments that merely touch at an endpoint therefore do not intersect.
func SegmentsIntersect(p1, p2, p3, p4 orb.Point) (orb.Point, bool) {
	dx12 := p2[0] - p1[0]
	dy12 := p2[1] - p1[1]
	dx34 := p4[0] - p3[0]
	dy34 := p4[1] - p3[1]

	denominator := dy12*dx34 - dx12*dy34
	scale := math.Hypot(dx12, dy12) * math.Hypot(dx34, dy34)
	if !(math.Abs(denominator) > parallelEpsilon*scale) {
		return orb.Point{}, false
	}

	t1 := ((p1[0]-p3[0])*dy34 + (p3[1]-p1[1])*dx34) / denominator
	t2 := ((p3[0]-p1[0])*dy12 + (p1[1]-p3[1])*dx12) / -denominator

	// NaN fails both comparisons.
	if !(t1 > 0 && t1 < 1 && t2 > 0 && t2 < 1) {
		return orb.Point{}, false
	}

	return orb.Point{t1*dx12 + p1[0], t1*dy12 + p1[1]}, true
}

type outcode uint8

const (
	inside outcode = 0
	left   outcode = 1
	right  outcode = 2
	below  outcode = 4
	above  outcode = 8
)

func computeOutcode(p orb.Point, b orb.Bound) outcode {
	c := inside
	if p[0] < b.Min[0] {
		c |= left
	} else if p[0] > b.Max[0] {
		c |= right
	}
	if p[1] < b.Min[1] {
		c |= below
	} else if p[1] > b.Max[1] {
		c |= above
	}
	return c
}

// BoxOverlapsSegment is a conservative test for whether segment a-b touches the
// closed box b. It never rejects a segment that really crosses the box; it may
// accept a few that pass just outside a corner.
//
// Endpoints are first classified with Cohen-Sutherland outcodes: an endpoint
// inside accepts, two endpoints on the same outer side reject. Otherwise the box
// is rejected only if all four corners lie strictly on one side of the line.
func BoxOverlapsSegment(box orb.Bound, a, b orb.Point) bool {
	ca := computeOutcode(a, box)
	cb := computeOutcode(b, box)
	if ca == inside || cb == inside {
		return true
	}
	if ca&cb != 0 {
		return false
	}

	d := orb.Point{b[0] - a[0], b[1] - a[1]}
	side := func(p orb.Point) float64 {
		return d[0]*(p[1]-a[1]) - d[1]*(p[0]-a[0])
	}
	corners := [4]orb.Point{
		box.Min,
		{box.Max[0], box.Min[1]},
		box.Max,
		{box.Min[0], box.Max[1]},
	}
	var pos, neg bool
	for _, c := range corners {
		s := side(c)
		if s >= 0 {
			pos = true
		}
		if s <= 0 {
			neg = true
		}
	}
	return pos && neg
}

// BoundOf returns the axis-aligned bound of points. ok is false for an empty slice.
func BoundOf(points []orb.Point) (b orb.Bound, ok bool) {
	if len(points) == 0 {
		return orb.Bound{}, false
	}
	return orb.MultiPoint(points).Bound(), true
}

// Mean returns the arithmetic mean of points, or the zero point for an empty slice.
func Mean(points []orb.Point) orb.Point {
	if len(points) == 0 {
		return orb.Point{}
	}
	var sx, sy float64
	for _, p := range points {
		sx += p[0]
		sy += p[1]
	}
	n := float64(len(points))
	return orb.Point{sx / n, sy / n}
}
