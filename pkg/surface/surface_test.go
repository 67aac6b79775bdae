package surface

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

func TestElement_LocalToWorld(t *testing.T) {
	tree := NewTree()
	view := tree.Root().NewChild("view", geom.Translate(10, 20))
	content := view.NewChild("content", geom.Scale(2, 2))

	got := geom.Convert(content, nil, orb.Point{1, 1})
	if got != (orb.Point{12, 22}) {
		t.Errorf("content (1,1) in world = %v, want (12,22)", got)
	}
	back := geom.Convert(nil, content, orb.Point{12, 22})
	if back != (orb.Point{1, 1}) {
		t.Errorf("world (12,22) in content = %v, want (1,1)", back)
	}
}

func TestTree_DispatchBubbles(t *testing.T) {
	tree := NewTree()
	view := tree.Root().NewChild("view", geom.Identity())
	child := view.NewChild("child", geom.Identity())

	var order []string
	child.OnPointerDown(func(*knife.PointerEvent) { order = append(order, "child") })
	view.OnPointerDown(func(*knife.PointerEvent) { order = append(order, "view") })
	tree.Root().OnPointerDown(func(*knife.PointerEvent) { order = append(order, "root") })

	tree.DispatchPointer(PointerDown, child, &knife.PointerEvent{})

	if len(order) != 3 || order[0] != "child" || order[1] != "view" || order[2] != "root" {
		t.Errorf("dispatch order = %v, want [child view root]", order)
	}
}

func TestTree_StopPropagation(t *testing.T) {
	tree := NewTree()
	view := tree.Root().NewChild("view", geom.Identity())

	reachedRoot := false
	view.OnPointerMove(func(e *knife.PointerEvent) { e.StopPropagation() })
	tree.Root().OnPointerMove(func(*knife.PointerEvent) { reachedRoot = true })

	if stopped := tree.DispatchPointer(PointerMove, view, &knife.PointerEvent{}); !stopped {
		t.Error("DispatchPointer() = false, want true")
	}
	if reachedRoot {
		t.Error("event reached root after StopPropagation")
	}
}

func TestTree_CaptureRoutesEvents(t *testing.T) {
	tree := NewTree()
	a := tree.Root().NewChild("a", geom.Identity())
	b := tree.Root().NewChild("b", geom.Identity())

	var hits []string
	a.OnPointerUp(func(*knife.PointerEvent) { hits = append(hits, "a") })
	b.OnPointerUp(func(*knife.PointerEvent) { hits = append(hits, "b") })

	a.CapturePointer(4)
	tree.DispatchPointer(PointerUp, b, &knife.PointerEvent{PointerID: 4})
	tree.DispatchPointer(PointerUp, b, &knife.PointerEvent{PointerID: 5})

	if len(hits) != 2 || hits[0] != "a" || hits[1] != "b" {
		t.Errorf("hits = %v, want [a b]", hits)
	}
	if tree.Captor(4) != a {
		t.Error("Captor(4) != a")
	}

	b.ReleasePointer(4)
	if !a.HasPointerCapture(4) {
		t.Error("release by non-owner dropped capture")
	}
	a.ReleasePointer(4)
	if a.HasPointerCapture(4) {
		t.Error("capture survived release")
	}
}

func TestHandle_Remove(t *testing.T) {
	tree := NewTree()
	el := tree.Root().NewChild("el", geom.Identity())

	calls := 0
	h := el.OnKeyDown(func(*knife.KeyEvent) { calls++ })
	el.OnPointerDown(func(*knife.PointerEvent) {})
	if el.HandlerCount() != 2 {
		t.Fatalf("HandlerCount() = %d, want 2", el.HandlerCount())
	}

	h.Remove()
	h.Remove()
	el.Focus()
	tree.DispatchKey(&knife.KeyEvent{Key: knife.KeyEscape})

	if calls != 0 {
		t.Errorf("removed handler called %d times", calls)
	}
	if el.HandlerCount() != 1 {
		t.Errorf("HandlerCount() = %d, want 1", el.HandlerCount())
	}
}

func TestElement_Focus(t *testing.T) {
	tree := NewTree()
	view := tree.Root().NewChild("view", geom.Identity())
	inner := view.NewChild("inner", geom.Identity())
	other := tree.Root().NewChild("other", geom.Identity())

	inner.Focus()

	if !view.HasFocus() || !inner.HasFocus() {
		t.Error("focus not visible from ancestors")
	}
	if other.HasFocus() {
		t.Error("sibling reports focus")
	}
}

func TestElement_RemoveReleasesCaptureAndFocus(t *testing.T) {
	tree := NewTree()
	view := tree.Root().NewChild("view", geom.Identity())
	overlay := view.NewChild("overlay", geom.Identity())
	overlay.CapturePointer(1)
	overlay.Focus()

	overlay.Remove()

	if tree.Captor(1) != nil {
		t.Error("removed element still holds capture")
	}
	if tree.Focused() != view {
		t.Error("focus did not move to parent")
	}
	if len(view.Children()) != 0 {
		t.Error("element still listed as child")
	}
}

func TestElement_RepaintMarksTree(t *testing.T) {
	tree := NewTree()
	el := tree.Root().NewChild("el", geom.Identity())

	el.MarkDirtyRepaint()

	if !tree.Dirty() || el.Repaints() != 1 {
		t.Error("repaint not recorded")
	}
	tree.ClearDirty()
	if tree.Dirty() {
		t.Error("ClearDirty() left tree dirty")
	}
}
