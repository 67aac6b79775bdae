package knife

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
)

type fakeSurface struct {
	toWorld  geom.Affine
	captured map[int]bool
	repaints int
}

func newFakeSurface(toWorld geom.Affine) *fakeSurface {
	return &fakeSurface{toWorld: toWorld, captured: make(map[int]bool)}
}

func (s *fakeSurface) LocalToWorld() geom.Affine     { return s.toWorld }
func (s *fakeSurface) CapturePointer(id int)         { s.captured[id] = true }
func (s *fakeSurface) ReleasePointer(id int)         { delete(s.captured, id) }
func (s *fakeSurface) HasPointerCapture(id int) bool { return s.captured[id] }
func (s *fakeSurface) MarkDirtyRepaint()             { s.repaints++ }
func (s *fakeSurface) captureCount() int             { return len(s.captured) }

type fakePort struct{ id string }

func (p *fakePort) PortID() string { return p.id }

type fakeEdge struct {
	name     string
	out, in  *fakePort
	line     []orb.Point
	space    geom.Space
	overlaps *bool
	walks    int
}

func newEdge(name string, out, in *fakePort, line ...orb.Point) *fakeEdge {
	return &fakeEdge{name: name, out: out, in: in, line: line}
}

func (e *fakeEdge) Output() Port      { return e.out }
func (e *fakeEdge) Input() Port       { return e.in }
func (e *fakeEdge) Space() geom.Space { return e.space }

func (e *fakeEdge) RenderPolyline() []orb.Point {
	e.walks++
	return e.line
}

func (e *fakeEdge) Overlaps(content orb.Bound) bool {
	if e.overlaps != nil {
		return *e.overlaps
	}
	b, ok := geom.BoundOf(e.line)
	if !ok {
		return false
	}
	return geom.ConvertBound(e.space, nil, b).Intersects(content)
}

type fakeGraph struct {
	edges     []Edge
	content   geom.Space
	deleted   [][]Edge
	deleteErr error
	lists     int
}

func (g *fakeGraph) Edges() []Edge {
	g.lists++
	return g.edges
}

func (g *fakeGraph) ContentSpace() geom.Space { return g.content }

func (g *fakeGraph) DeleteEdges(edges []Edge) error {
	g.deleted = append(g.deleted, edges)
	return g.deleteErr
}

type redirectCall struct {
	pos   orb.Point
	edges []Edge
}

type fakeCreator struct {
	calls []redirectCall
	err   error
}

func (c *fakeCreator) CreateRedirect(pos orb.Point, edges []Edge) error {
	c.calls = append(c.calls, redirectCall{pos: pos, edges: edges})
	return c.err
}

type fakeTarget struct {
	down, move, up []func(*PointerEvent)
	key            []func(*KeyEvent)
	unfocused      bool
}

type fakeRegistration func()

func (r fakeRegistration) Remove() { r() }

func register[F any](list *[]F, fn F) Registration {
	*list = append(*list, fn)
	i := len(*list) - 1
	return fakeRegistration(func() {
		var zero F
		(*list)[i] = zero
	})
}

func (t *fakeTarget) OnPointerDown(fn func(*PointerEvent)) Registration { return register(&t.down, fn) }
func (t *fakeTarget) OnPointerMove(fn func(*PointerEvent)) Registration { return register(&t.move, fn) }
func (t *fakeTarget) OnPointerUp(fn func(*PointerEvent)) Registration   { return register(&t.up, fn) }
func (t *fakeTarget) OnKeyDown(fn func(*KeyEvent)) Registration         { return register(&t.key, fn) }
func (t *fakeTarget) HasFocus() bool                                    { return !t.unfocused }

func (t *fakeTarget) live() int {
	n := 0
	for _, fn := range t.down {
		if fn != nil {
			n++
		}
	}
	for _, fn := range t.move {
		if fn != nil {
			n++
		}
	}
	for _, fn := range t.up {
		if fn != nil {
			n++
		}
	}
	for _, fn := range t.key {
		if fn != nil {
			n++
		}
	}
	return n
}

func dispatch(handlers []func(*PointerEvent), e *PointerEvent) {
	for _, fn := range handlers {
		if fn == nil {
			continue
		}
		fn(e)
		if e.Stopped() {
			return
		}
	}
}

func rightDown(id int, mods Modifiers, x, y float64) *PointerEvent {
	return &PointerEvent{PointerID: id, Button: ButtonRight, Modifiers: mods, Position: orb.Point{x, y}}
}

func moveTo(id int, x, y float64) *PointerEvent {
	return &PointerEvent{PointerID: id, Button: ButtonNone, Position: orb.Point{x, y}}
}

func releaseAt(id int, x, y float64) *PointerEvent {
	return &PointerEvent{PointerID: id, Button: ButtonRight, Position: orb.Point{x, y}}
}
