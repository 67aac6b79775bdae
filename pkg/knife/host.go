package knife

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
)

// Button identifies a pointer button.
type Button int

// Pointer buttons. The numbering matches the usual host convention where the
// secondary (right) button is 1.
const (
	ButtonNone   Button = -1
	ButtonLeft   Button = 0
	ButtonRight  Button = 1
	ButtonMiddle Button = 2
)

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

// Modifier keys.
const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModCommand
)

// Key identifies a keyboard key relevant to the gesture.
type Key string

// KeyEscape cancels an active gesture.
const KeyEscape Key = "escape"

// PointerEvent is a pointer-down, pointer-move or pointer-up event.
// Position is in world space.
type PointerEvent struct {
	PointerID int
	Button    Button
	Modifiers Modifiers
	Position  orb.Point

	stopped bool
}

// StopPropagation prevents the host from delivering the event to further handlers.
func (e *PointerEvent) StopPropagation() { e.stopped = true }

// Stopped reports whether a handler stopped propagation.
func (e *PointerEvent) Stopped() bool { return e.stopped }

// KeyEvent is a key-down event.
type KeyEvent struct {
	Key       Key
	Modifiers Modifiers

	stopped bool
}

// StopPropagation prevents the host from delivering the event to further handlers.
func (e *KeyEvent) StopPropagation() { e.stopped = true }

// Stopped reports whether a handler stopped propagation.
func (e *KeyEvent) Stopped() bool { return e.stopped }

// Surface is a rendering surface the gesture draws on: it has its own coordinate
// space, can hold pointer capture, and can be asked to repaint.
type Surface interface {
	geom.Space

	CapturePointer(pointerID int)
	ReleasePointer(pointerID int)
	HasPointerCapture(pointerID int) bool
	MarkDirtyRepaint()
}

// Registration is a handle to a registered callback.
type Registration interface {
	Remove()
}

// Target is the host region the gesture listens on.
type Target interface {
	OnPointerDown(fn func(*PointerEvent)) Registration
	OnPointerMove(fn func(*PointerEvent)) Registration
	OnPointerUp(fn func(*PointerEvent)) Registration
	OnKeyDown(fn func(*KeyEvent)) Registration
	HasFocus() bool
}

// Port is an edge endpoint. Ports are compared by interface equality when
// crossings are grouped, so implementations must be comparable; pointer types are
// the usual choice.
type Port interface {
	PortID() string
}

// HasRenderPolyline exposes the polyline an edge is drawn with, in the edge's
// own local space. It may curve, unlike a straight connector.
type HasRenderPolyline interface {
	RenderPolyline() []orb.Point
}

// Edge is a live connection in the host graph.
type Edge interface {
	HasRenderPolyline

	// Output is the source endpoint, Input the destination endpoint.
	Output() Port
	Input() Port

	// Space is the coordinate space of RenderPolyline.
	Space() geom.Space

	// Overlaps is the host's cheap test of the edge against a rectangle given in
	// the graph's content space. It may report false positives.
	Overlaps(contentBound orb.Bound) bool
}

// Graph is the host graph the gesture operates on.
type Graph interface {
	// Edges returns the current edges. The gesture only reads them.
	Edges() []Edge

	// ContentSpace is the space graph elements are positioned in.
	ContentSpace() geom.Space

	// DeleteEdges removes edges from the host graph in one batch.
	DeleteEdges(edges []Edge) error
}

// RedirectCreator inserts one redirect node for a bundle of crossed edges.
//
// position is in the graph's content space. The implementation creates a
// pass-through node there, wires the edges' sources into it and its output into
// the edges' destinations. Type compatibility between the bundled edges is the
// implementation's concern; the gesture does not check it.
type RedirectCreator interface {
	CreateRedirect(position orb.Point, edges []Edge) error
}

// RedirectFunc adapts a function to RedirectCreator.
type RedirectFunc func(position orb.Point, edges []Edge) error

// CreateRedirect calls f.
func (f RedirectFunc) CreateRedirect(position orb.Point, edges []Edge) error {
	return f(position, edges)
}
