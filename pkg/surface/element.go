package surface

import (
	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

// Kind identifies a pointer event type.
type Kind int

const (
	PointerDown Kind = iota
	PointerMove
	PointerUp
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	}
	return "unknown"
}

// Element is a node in the surface tree.
type Element struct {
	Name string

	tree      *Tree
	parent    *Element
	children  []*Element
	transform geom.Affine
	handlers  handlerRegistry
	repaints  int
}

var (
	_ knife.Surface = (*Element)(nil)
	_ knife.Target  = (*Element)(nil)
)

// NewChild appends a child element with the given local-to-parent transform.
func (e *Element) NewChild(name string, transform geom.Affine) *Element {
	c := &Element{Name: name, tree: e.tree, parent: e, transform: transform}
	e.children = append(e.children, c)
	return c
}

// Parent returns the parent element, or nil for the root and detached elements.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the element's children in insertion order.
func (e *Element) Children() []*Element { return e.children }

// Remove detaches e from its parent. Pointers captured by e or its descendants
// are released and focus moves to the parent if it was inside e.
func (e *Element) Remove() {
	p := e.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	for id, owner := range e.tree.capture {
		if owner.within(e) {
			delete(e.tree.capture, id)
		}
	}
	if e.tree.focus != nil && e.tree.focus.within(e) {
		e.tree.focus = p
	}
	e.parent = nil
}

// within reports whether e is anc or one of its descendants.
func (e *Element) within(anc *Element) bool {
	for el := e; el != nil; el = el.parent {
		if el == anc {
			return true
		}
	}
	return false
}

// Transform returns the local-to-parent transform.
func (e *Element) Transform() geom.Affine { return e.transform }

// SetTransform replaces the local-to-parent transform and requests a repaint.
func (e *Element) SetTransform(m geom.Affine) {
	e.transform = m
	e.MarkDirtyRepaint()
}

// LocalToWorld composes the transforms from e up to the root.
func (e *Element) LocalToWorld() geom.Affine {
	m := e.transform
	for p := e.parent; p != nil; p = p.parent {
		m = p.transform.Multiply(m)
	}
	return m
}

// CapturePointer routes all events for pointerID to e until released.
func (e *Element) CapturePointer(pointerID int) {
	e.tree.capture[pointerID] = e
}

// ReleasePointer releases pointerID if e holds it.
func (e *Element) ReleasePointer(pointerID int) {
	if e.tree.capture[pointerID] == e {
		delete(e.tree.capture, pointerID)
	}
}

// HasPointerCapture reports whether e holds pointerID.
func (e *Element) HasPointerCapture(pointerID int) bool {
	return e.tree.capture[pointerID] == e
}

// MarkDirtyRepaint records a repaint request on e and the tree.
func (e *Element) MarkDirtyRepaint() {
	e.repaints++
	e.tree.dirty = true
}

// Repaints returns how many repaints e has requested.
func (e *Element) Repaints() int { return e.repaints }

// Focus gives e keyboard focus.
func (e *Element) Focus() { e.tree.focus = e }

// HasFocus reports whether e or one of its descendants has focus.
func (e *Element) HasFocus() bool {
	return e.tree.focus != nil && e.tree.focus.within(e)
}

// OnPointerDown registers fn for pointer-down events reaching e.
func (e *Element) OnPointerDown(fn func(*knife.PointerEvent)) knife.Registration {
	return e.handlers.addPointer(PointerDown, fn)
}

// OnPointerMove registers fn for pointer-move events reaching e.
func (e *Element) OnPointerMove(fn func(*knife.PointerEvent)) knife.Registration {
	return e.handlers.addPointer(PointerMove, fn)
}

// OnPointerUp registers fn for pointer-up events reaching e.
func (e *Element) OnPointerUp(fn func(*knife.PointerEvent)) knife.Registration {
	return e.handlers.addPointer(PointerUp, fn)
}

// OnKeyDown registers fn for key-down events reaching e.
func (e *Element) OnKeyDown(fn func(*knife.KeyEvent)) knife.Registration {
	return e.handlers.addKey(fn)
}

// HandlerCount returns the number of live callbacks on e.
func (e *Element) HandlerCount() int {
	r := &e.handlers
	return len(r.down) + len(r.move) + len(r.up) + len(r.key)
}
