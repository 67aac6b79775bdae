package surface

import (
	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

// Tree owns the element hierarchy, pointer capture and focus.
type Tree struct {
	root    *Element
	capture map[int]*Element
	focus   *Element
	dirty   bool
}

// NewTree returns a tree with a root element in world space.
func NewTree() *Tree {
	t := &Tree{capture: make(map[int]*Element)}
	t.root = &Element{Name: "root", tree: t, transform: geom.Identity()}
	return t
}

// Root returns the root element.
func (t *Tree) Root() *Element { return t.root }

// Captor returns the element holding pointerID, or nil.
func (t *Tree) Captor(pointerID int) *Element { return t.capture[pointerID] }

// Focused returns the focused element, or nil.
func (t *Tree) Focused() *Element { return t.focus }

// Dirty reports whether any element requested a repaint since the last
// ClearDirty.
func (t *Tree) Dirty() bool { return t.dirty }

// ClearDirty resets the repaint flag after the host has redrawn.
func (t *Tree) ClearDirty() { t.dirty = false }

// DispatchPointer delivers e to target, or to the element capturing the pointer
// if there is one, then bubbles it towards the root. It reports whether a
// handler stopped propagation.
func (t *Tree) DispatchPointer(kind Kind, target *Element, e *knife.PointerEvent) bool {
	if c := t.capture[e.PointerID]; c != nil {
		target = c
	}
	if target == nil {
		target = t.root
	}
	for el := target; el != nil; el = el.parent {
		for _, h := range *el.handlers.pointerList(kind) {
			h.fn(e)
			if e.Stopped() {
				return true
			}
		}
	}
	return false
}

// DispatchKey delivers e to the focused element, or the root, and bubbles it.
func (t *Tree) DispatchKey(e *knife.KeyEvent) bool {
	target := t.focus
	if target == nil {
		target = t.root
	}
	for el := target; el != nil; el = el.parent {
		for _, h := range el.handlers.key {
			h.fn(e)
			if e.Stopped() {
				return true
			}
		}
	}
	return false
}
