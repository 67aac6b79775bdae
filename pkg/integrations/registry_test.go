package integrations_test

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/integrations"
	"github.com/matzehuels/edgeknife/pkg/integrations/shader"
	"github.com/matzehuels/edgeknife/pkg/knife"
	"github.com/matzehuels/edgeknife/pkg/surface"
)

// mergeDocument has two sources feeding the same input.
func mergeDocument() graph.Document {
	return graph.Document{
		Nodes: []graph.Node{
			{ID: "a", Position: orb.Point{0, 0}, Group: "g1", Ports: []graph.Port{
				{ID: "a.out", Direction: graph.DirOut, ValueType: "float"},
			}},
			{ID: "b", Position: orb.Point{0, 100}, Ports: []graph.Port{
				{ID: "b.out", Direction: graph.DirOut, ValueType: "float"},
			}},
			{ID: "c", Position: orb.Point{300, 40}, Group: "g1", Ports: []graph.Port{
				{ID: "c.x", Direction: graph.DirIn, ValueType: "float"},
			}},
		},
		Edges: []graph.Edge{
			{ID: "e1", From: "a.out", To: "c.x"},
			{ID: "e2", From: "b.out", To: "c.x"},
		},
	}
}

func newView(t *testing.T, tree *surface.Tree, id, flavor string) *integrations.EditorView {
	t.Helper()
	v := integrations.NewEditorView(id, flavor, tree.Root(), geom.Identity())
	if err := v.Load(mergeDocument()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return v
}

func TestRegistry_AttachDeferredUntilGraphReady(t *testing.T) {
	tree := surface.NewTree()
	reg := integrations.NewRegistry(knife.DefaultOptions(), shader.Flavor{})
	v := integrations.NewEditorView("w1", shader.Name, tree.Root(), geom.Identity())

	ok, err := reg.Focus(v)
	if ok || err != nil {
		t.Fatalf("Focus() = %v, %v; want false, nil", ok, err)
	}
	if reg.Pending() != 1 || reg.Len() != 0 {
		t.Fatalf("Pending() = %d, Len() = %d; want 1, 0", reg.Pending(), reg.Len())
	}

	if err := v.Load(mergeDocument()); err != nil {
		t.Fatal(err)
	}
	if n := reg.RetryPending(); n != 1 {
		t.Errorf("RetryPending() = %d, want 1", n)
	}
	if reg.Pending() != 0 || reg.Len() != 1 {
		t.Errorf("Pending() = %d, Len() = %d; want 0, 1", reg.Pending(), reg.Len())
	}
}

func TestRegistry_ReattachKeepsOneGesture(t *testing.T) {
	tree := surface.NewTree()
	reg := integrations.NewRegistry(knife.DefaultOptions(), shader.Flavor{})
	v := newView(t, tree, "w1", shader.Name)

	if _, err := reg.Attach(v); err != nil {
		t.Fatal(err)
	}
	first, _ := reg.Gesture("w1")
	if _, err := reg.Attach(v); err != nil {
		t.Fatal(err)
	}
	second, _ := reg.Gesture("w1")

	if first != second {
		t.Error("re-attach created a new gesture")
	}
	if n := v.Element().HandlerCount(); n != 4 {
		t.Errorf("HandlerCount() = %d, want 4", n)
	}

	reg.Close("w1")
	if n := v.Element().HandlerCount(); n != 0 {
		t.Errorf("HandlerCount() after Close = %d, want 0", n)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestRegistry_FocusSameViewIsNoop(t *testing.T) {
	tree := surface.NewTree()
	reg := integrations.NewRegistry(knife.DefaultOptions(), shader.Flavor{})
	v := newView(t, tree, "w1", shader.Name)

	if ok, _ := reg.Focus(v); !ok {
		t.Fatal("first Focus() did not attach")
	}
	v.Element().OnPointerDown(func(*knife.PointerEvent) {})
	if ok, _ := reg.Focus(v); !ok {
		t.Error("second Focus() reported not attached")
	}
	if n := v.Element().HandlerCount(); n != 5 {
		t.Errorf("HandlerCount() = %d, want 5 (no re-registration)", n)
	}
}

func TestRegistry_NoFlavor(t *testing.T) {
	tree := surface.NewTree()
	reg := integrations.NewRegistry(knife.DefaultOptions(), shader.Flavor{})
	v := newView(t, tree, "w1", "audio")

	if _, err := reg.Attach(v); !errors.Is(err, integrations.ErrNoFlavor) {
		t.Errorf("Attach() error = %v, want ErrNoFlavor", err)
	}
}

func TestRegistry_Shutdown(t *testing.T) {
	tree := surface.NewTree()
	reg := integrations.NewRegistry(knife.DefaultOptions(), shader.Flavor{})
	a := newView(t, tree, "a", shader.Name)
	b := newView(t, tree, "b", shader.Name)
	reg.Attach(a)
	reg.Attach(b)

	reg.Shutdown()

	if reg.Len() != 0 || a.Element().HandlerCount() != 0 || b.Element().HandlerCount() != 0 {
		t.Error("Shutdown() left gestures attached")
	}
}

func TestEndToEnd_AdditiveCutMergesSources(t *testing.T) {
	tree := surface.NewTree()
	reg := integrations.NewRegistry(knife.DefaultOptions(), shader.Flavor{})
	v := newView(t, tree, "w1", shader.Name)
	if _, err := reg.Focus(v); err != nil {
		t.Fatal(err)
	}
	v.Element().Focus()

	tree.DispatchPointer(surface.PointerDown, v.Element(), &knife.PointerEvent{
		PointerID: 1, Button: knife.ButtonRight, Modifiers: knife.ModShift, Position: orb.Point{200, -50},
	})
	if tree.Captor(1) != v.OverlayElement() {
		t.Fatal("overlay did not capture the pointer")
	}
	tree.DispatchPointer(surface.PointerMove, v.Element(), &knife.PointerEvent{PointerID: 1, Position: orb.Point{200, 80}})
	tree.DispatchPointer(surface.PointerUp, v.Element(), &knife.PointerEvent{
		PointerID: 1, Button: knife.ButtonRight, Position: orb.Point{200, 200},
	})

	g := v.Graph()
	if tree.Captor(1) != nil {
		t.Error("pointer still captured after release")
	}
	if _, ok := g.Edge("e1"); ok {
		t.Error("original edge e1 survived")
	}

	var redirect *graph.Node
	for _, n := range g.Nodes() {
		if n.IsRedirect() {
			if redirect != nil {
				t.Fatal("more than one redirect created")
			}
			redirect = n
		}
	}
	if redirect == nil {
		t.Fatal("no redirect created")
	}
	// The first crossed edge runs a -> c, both in g1.
	if redirect.Group != "g1" {
		t.Errorf("redirect group = %q, want g1", redirect.Group)
	}

	in := redirect.Ports[0].ID
	out := redirect.Ports[1].ID
	if n := len(g.EdgesInto(in)); n != 2 {
		t.Errorf("redirect input has %d edges, want 2", n)
	}
	if into := g.EdgesInto("c.x"); len(into) != 1 || into[0].From().PortID() != out {
		t.Errorf("c.x should be fed only by the redirect, got %v", into)
	}
}
