package knife

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
)

func vertical(name string, x, y0, y1 float64, in *fakePort) *fakeEdge {
	return newEdge(name, &fakePort{id: name + ".out"}, in, orb.Point{x, y0}, orb.Point{x, y1})
}

func TestCrossings_ShortPath(t *testing.T) {
	g := &fakeGraph{edges: []Edge{vertical("e", 5, -5, 5, &fakePort{id: "in"})}}

	for _, path := range [][]orb.Point{nil, {{0, 0}}} {
		if got := CollectCrossings(Crossings(path, nil, g)); len(got) != 0 {
			t.Errorf("Crossings(%v) = %v, want none", path, got)
		}
	}
}

func TestCrossings_SingleCrossing(t *testing.T) {
	e := vertical("e", 5, -5, 5, &fakePort{id: "in"})
	g := &fakeGraph{edges: []Edge{e}}
	path := []orb.Point{{0, 0}, {10, 0}}

	got := CollectCrossings(Crossings(path, nil, g))
	if len(got) != 1 {
		t.Fatalf("got %d crossings, want 1", len(got))
	}
	if got[0].Edge != e || !near(got[0].Point, orb.Point{5, 0}) {
		t.Errorf("crossing = %+v, want e at (5,0)", got[0])
	}
}

func TestCrossings_EarliestPathSegment(t *testing.T) {
	// The path crosses x=5 on its first segment (y=0) and again on its third (y=10).
	path := []orb.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name string
		line []orb.Point
	}{
		{"edge drawn upward", []orb.Point{{5, -5}, {5, 15}}},
		{"edge drawn downward", []orb.Point{{5, 15}, {5, -5}}},
		{"later edge segment crosses earlier", []orb.Point{{5, 15}, {5, 5}, {5, -5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEdge("e", &fakePort{id: "o"}, &fakePort{id: "i"}, tt.line...)
			got := CollectCrossings(Crossings(path, nil, &fakeGraph{edges: []Edge{e}}))
			if len(got) != 1 {
				t.Fatalf("got %d crossings, want 1", len(got))
			}
			if !near(got[0].Point, orb.Point{5, 0}) {
				t.Errorf("crossing at %v, want (5,0)", got[0].Point)
			}
		})
	}
}

func TestCrossings_EndpointTouchIsNotACrossing(t *testing.T) {
	e := newEdge("e", &fakePort{id: "o"}, &fakePort{id: "i"}, orb.Point{10, 0}, orb.Point{10, 10})
	path := []orb.Point{{0, 0}, {10, 0}}

	if got := CollectCrossings(Crossings(path, nil, &fakeGraph{edges: []Edge{e}})); len(got) != 0 {
		t.Errorf("got %v, want no crossings", got)
	}
}

func TestCrossings_OverlapPrune(t *testing.T) {
	no := false
	e := vertical("e", 5, -5, 5, &fakePort{id: "in"})
	e.overlaps = &no

	got := CollectCrossings(Crossings([]orb.Point{{0, 0}, {10, 0}}, nil, &fakeGraph{edges: []Edge{e}}))

	if len(got) != 0 {
		t.Errorf("got %d crossings, want 0", len(got))
	}
	if e.walks != 0 {
		t.Errorf("render polyline read %d times for a pruned edge", e.walks)
	}
}

func TestCrossings_ConvertsBetweenSpaces(t *testing.T) {
	// Edge local space is shifted by +100 in x, path local space by +10.
	e := vertical("e", -95, -5, 5, &fakePort{id: "in"})
	e.space = geom.Fixed(geom.Translate(100, 0))
	pathSpace := geom.Fixed(geom.Translate(10, 0))
	path := []orb.Point{{-10, 0}, {0, 0}}

	got := CollectCrossings(Crossings(path, pathSpace, &fakeGraph{edges: []Edge{e}}))
	if len(got) != 1 {
		t.Fatalf("got %d crossings, want 1", len(got))
	}
	if !near(got[0].Point, orb.Point{-5, 0}) {
		t.Errorf("crossing at %v, want (-5,0) in path space", got[0].Point)
	}
}

func TestCrossings_StopsEarly(t *testing.T) {
	in := &fakePort{id: "in"}
	a, b := vertical("a", 2, -5, 5, in), vertical("b", 8, -5, 5, in)
	g := &fakeGraph{edges: []Edge{a, b}}

	n := 0
	for range Crossings([]orb.Point{{0, 0}, {10, 0}}, nil, g) {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("iterated %d times, want 1", n)
	}
	if b.walks != 0 {
		t.Error("second edge resolved after the consumer stopped")
	}
}

func TestGroupCrossings(t *testing.T) {
	src1, src2 := &fakePort{id: "s1"}, &fakePort{id: "s2"}
	dst1, dst2 := &fakePort{id: "d1"}, &fakePort{id: "d2"}
	a := newEdge("a", src1, dst1)
	b := newEdge("b", src2, dst1)
	c := newEdge("c", src1, dst2)
	crossings := []Crossing{
		{Edge: a, Point: orb.Point{0, 0}},
		{Edge: b, Point: orb.Point{4, 2}},
		{Edge: c, Point: orb.Point{9, 9}},
	}

	t.Run("destination", func(t *testing.T) {
		bundles := GroupCrossings(crossings, GroupByDestination)
		if len(bundles) != 2 {
			t.Fatalf("got %d bundles, want 2", len(bundles))
		}
		if bundles[0].Key != Port(dst1) || len(bundles[0].Edges) != 2 {
			t.Errorf("bundle 0 = %+v, want d1 with 2 edges", bundles[0])
		}
		if got := bundles[0].Position(); got != (orb.Point{2, 1}) {
			t.Errorf("bundle 0 position = %v, want (2,1)", got)
		}
	})

	t.Run("source", func(t *testing.T) {
		bundles := GroupCrossings(crossings, GroupBySource)
		if len(bundles) != 2 {
			t.Fatalf("got %d bundles, want 2", len(bundles))
		}
		if bundles[0].Key != Port(src1) || bundles[0].Edges[0] != Edge(a) || bundles[0].Edges[1] != Edge(c) {
			t.Errorf("bundle 0 = %+v, want s1 with [a c]", bundles[0])
		}
	})
}

func near(a, b orb.Point) bool {
	const eps = 1e-9
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx+dy*dy < eps*eps
}
