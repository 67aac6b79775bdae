package knife

import (
	"iter"

	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
)

// Crossing is an edge crossed by the knife path and the crossing point, in the
// path's local space.
type Crossing struct {
	Edge  Edge
	Point orb.Point
}

// Crossings yields every edge of g crossed by path, with the crossing point
// expressed in pathSpace.
//
// Each edge is yielded at most once. When an edge crosses the path several times,
// the reported point is on the lowest-indexed path segment, i.e. the crossing
// made earliest during the drag. Paths with fewer than two points cross nothing.
// The sequence is lazy and may be abandoned early.
func Crossings(path []orb.Point, pathSpace geom.Space, g Graph) iter.Seq2[Edge, orb.Point] {
	return func(yield func(Edge, orb.Point) bool) {
		bounds, ok := geom.BoundOf(path)
		if !ok || len(path) < 2 {
			return
		}
		contentBounds := geom.ConvertBound(pathSpace, g.ContentSpace(), bounds)
		for _, edge := range g.Edges() {
			if !edge.Overlaps(contentBounds) {
				continue
			}
			p, ok := firstCrossing(path, pathSpace, bounds, edge)
			if !ok {
				continue
			}
			if !yield(edge, p) {
				return
			}
		}
	}
}

// CollectCrossings drains seq into a slice.
func CollectCrossings(seq iter.Seq2[Edge, orb.Point]) []Crossing {
	var out []Crossing
	for e, p := range seq {
		out = append(out, Crossing{Edge: e, Point: p})
	}
	return out
}

// firstCrossing walks the edge's render polyline and finds the crossing with the
// lowest path segment index. The search horizon shrinks with every hit, so later
// edge segments only replace the result when they cross strictly earlier.
func firstCrossing(path []orb.Point, pathSpace geom.Space, bounds orb.Bound, edge Edge) (orb.Point, bool) {
	line := edge.RenderPolyline()
	if len(line) < 2 {
		return orb.Point{}, false
	}

	toPath := geom.Transform(edge.Space(), pathSpace)
	horizon := len(path) - 1

	var (
		best  orb.Point
		found bool
	)
	a := toPath.Apply(line[0])
	for i := 1; i < len(line); i++ {
		b := toPath.Apply(line[i])
		if geom.BoxOverlapsSegment(bounds, a, b) {
			for j := 0; j < horizon; j++ {
				if p, ok := geom.SegmentsIntersect(a, b, path[j], path[j+1]); ok {
					best, horizon, found = p, j, true
					break
				}
			}
		}
		a = b
	}
	return best, found
}

// Bundle is a group of crossed edges sharing an endpoint. Additive mode creates
// one redirect per bundle.
type Bundle struct {
	Key    Port
	Edges  []Edge
	Points []orb.Point
}

// Position is the mean of the bundle's crossing points.
func (b Bundle) Position() orb.Point { return geom.Mean(b.Points) }

// GroupCrossings groups crossings by the endpoint selected by by. Bundles are
// returned in order of first appearance, and edges keep their order within a
// bundle.
func GroupCrossings(crossings []Crossing, by GroupBy) []Bundle {
	var bundles []Bundle
	index := make(map[Port]int)
	for _, c := range crossings {
		key := by.key(c.Edge)
		i, ok := index[key]
		if !ok {
			i = len(bundles)
			index[key] = i
			bundles = append(bundles, Bundle{Key: key})
		}
		bundles[i].Edges = append(bundles[i].Edges, c.Edge)
		bundles[i].Points = append(bundles[i].Points, c.Point)
	}
	return bundles
}
