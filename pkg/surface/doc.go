// Package surface is a headless element tree that hosts knife gestures outside a
// real UI toolkit.
//
// A [Tree] owns a root [Element], the pointer-capture table and keyboard focus.
// Elements carry a local-to-parent transform, so each one is a [geom.Space] and
// satisfies both [knife.Surface] and [knife.Target]. Pointer events are
// dispatched to an element (or to whichever element captured the pointer) and
// bubble to the root until a handler stops propagation. Key events go to the
// focused element and bubble the same way.
//
// The CLI editor, script replay and the server's live sessions all drive
// gestures through this package.
package surface
