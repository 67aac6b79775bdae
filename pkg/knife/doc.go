// Package knife implements the edge knife gesture for node-graph editors.
//
// The user drags a freehand path across the canvas with the right mouse button.
// On release the gesture either deletes every edge the path crossed, or inserts
// redirect (pass-through) nodes at the crossing points, fusing crossed edges that
// share an endpoint into a single redirect.
//
// # Components
//
//   - [Recorder]: accumulates the freehand polyline in the overlay's local space,
//     dropping points closer than a minimum distance to the previous one
//   - [Crossings]: resolves which edges the path crosses, and where, returning at
//     most one crossing per edge (the one earliest along the drag)
//   - [Gesture]: the pointer-driven state machine (Inactive, Additive,
//     Subtractive) that owns pointer capture and dispatches the result
//
// The package owns no graph data. Hosts plug in through small interfaces:
// [Surface] for capture, redraw and coordinate conversion, [Target] for event
// registration, [Graph] and [Edge] for the live edge set, and [RedirectCreator]
// for inserting redirect nodes in a host-specific way.
//
// # Modes
//
//	Ctrl  + right-drag  Subtractive: delete crossed edges
//	Shift + right-drag  Additive: insert redirects (only with a RedirectCreator)
//	Escape, any new pointer-down, or a mismatched pointer-up cancels.
//
// # Threading
//
// Everything runs on the host's event thread. A Gesture is not safe for
// concurrent use; it tracks exactly one pointer at a time.
//
// # Example
//
//	g := knife.NewGesture(graph, overlay, shader.NewRedirects(graph), knife.DefaultOptions())
//	g.Attach(view)
//	defer g.Detach()
package knife
