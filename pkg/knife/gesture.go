package knife

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/observability"
)

// Mode is the state of a Gesture.
type Mode int

const (
	ModeInactive Mode = iota
	ModeAdditive
	ModeSubtractive
)

func (m Mode) String() string {
	switch m {
	case ModeInactive:
		return "inactive"
	case ModeAdditive:
		return "additive"
	case ModeSubtractive:
		return "subtractive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Gesture is the knife state machine.
//
// A right-button pointer-down with exactly Ctrl held starts a Subtractive
// gesture; with exactly Shift held it starts an Additive one, provided a
// RedirectCreator was supplied. The overlay captures the pointer, moves extend the
// path, and the matching pointer-up resolves crossings and applies the result.
// Escape, another pointer-down, or a pointer-up for a different pointer cancel.
type Gesture struct {
	graph   Graph
	overlay Surface
	creator RedirectCreator
	opts    Options
	log     *log.Logger

	recorder  *Recorder
	mode      Mode
	pointerID int
	color     color.RGBA
	started   time.Time

	target Target
	regs   []Registration
}

// NewGesture returns an inactive gesture over g that draws on overlay.
// creator may be nil, in which case Additive mode is unavailable.
func NewGesture(g Graph, overlay Surface, creator RedirectCreator, opts Options) *Gesture {
	opts = opts.withDefaults()
	return &Gesture{
		graph:    g,
		overlay:  overlay,
		creator:  creator,
		opts:     opts,
		log:      opts.Logger,
		recorder: NewRecorder(overlay, opts),
	}
}

// Attach registers the gesture's handlers on t, detaching from any previous
// target first. Attaching twice to the same target leaves one set of handlers.
func (g *Gesture) Attach(t Target) {
	g.Detach()
	g.target = t
	g.regs = append(g.regs,
		t.OnPointerDown(g.PointerDown),
		t.OnPointerMove(g.PointerMove),
		t.OnPointerUp(g.PointerUp),
		t.OnKeyDown(g.KeyDown),
	)
}

// Detach cancels any active gesture and removes all registered handlers.
func (g *Gesture) Detach() {
	g.Cancel()
	for _, r := range g.regs {
		r.Remove()
	}
	g.regs = nil
	g.target = nil
}

// Mode returns the current mode.
func (g *Gesture) Mode() Mode { return g.mode }

// Active reports whether a gesture is in progress.
func (g *Gesture) Active() bool { return g.mode != ModeInactive }

// Capturing reports whether the overlay holds capture of the tracked pointer.
func (g *Gesture) Capturing() bool {
	return g.mode != ModeInactive && g.overlay.HasPointerCapture(g.pointerID)
}

// Color returns the colour the path should be drawn in for the current mode.
func (g *Gesture) Color() color.RGBA { return g.color }

// Path returns the recorded path in the overlay's local space.
func (g *Gesture) Path() orb.LineString { return g.recorder.Points() }

// PointerDown cancels any gesture in progress and starts a new one if the
// button and modifiers select a mode.
func (g *Gesture) PointerDown(e *PointerEvent) {
	g.Cancel()
	if e.Button != ButtonRight {
		return
	}

	switch e.Modifiers {
	case ModShift:
		if g.creator == nil {
			return
		}
		g.mode, g.color = ModeAdditive, g.opts.AdditiveColor
	case ModControl:
		g.mode, g.color = ModeSubtractive, g.opts.SubtractiveColor
	default:
		return
	}

	g.pointerID = e.PointerID
	g.started = time.Now()
	g.overlay.CapturePointer(e.PointerID)
	g.recorder.RecordPoint(e.Position)

	g.log.Debug("knife started", "mode", g.mode, "pointer", e.PointerID)
	observability.Gesture().OnGestureStart(g.mode.String(), e.PointerID)
}

// PointerMove extends the path while the tracked pointer is down.
func (g *Gesture) PointerMove(e *PointerEvent) {
	if g.mode == ModeInactive || e.PointerID != g.pointerID {
		return
	}
	if !g.overlay.HasPointerCapture(e.PointerID) {
		g.overlay.CapturePointer(e.PointerID)
	}
	g.recorder.RecordPoint(e.Position)
	e.StopPropagation()
}

// PointerUp finishes the gesture for the tracked pointer and cancels otherwise.
func (g *Gesture) PointerUp(e *PointerEvent) {
	if g.mode == ModeInactive || e.PointerID != g.pointerID {
		g.Cancel()
		return
	}

	g.recorder.RecordPoint(e.Position)
	mode := g.mode
	crossings, bundles, err := g.finish()
	g.reset()
	e.StopPropagation()

	if err != nil {
		g.log.Warn("knife finished with errors", "mode", mode, "crossings", crossings, "err", err)
	} else {
		g.log.Debug("knife finished", "mode", mode, "crossings", crossings, "bundles", bundles)
	}
	observability.Gesture().OnGestureComplete(mode.String(), crossings, bundles, time.Since(g.started), err)
}

// KeyDown cancels on Escape while the target has focus.
func (g *Gesture) KeyDown(e *KeyEvent) {
	if e.Key != KeyEscape {
		return
	}
	if g.target != nil && !g.target.HasFocus() {
		return
	}
	if g.Active() {
		e.StopPropagation()
	}
	g.Cancel()
}

// Cancel abandons the gesture: it releases pointer capture, clears the path and
// returns to Inactive. It is a no-op when there is nothing to cancel.
func (g *Gesture) Cancel() {
	if g.mode == ModeInactive && !g.overlay.HasPointerCapture(g.pointerID) {
		return
	}
	mode := g.mode
	g.reset()
	g.log.Debug("knife cancelled", "mode", mode)
	observability.Gesture().OnGestureCancel(mode.String())
}

func (g *Gesture) reset() {
	if g.overlay.HasPointerCapture(g.pointerID) {
		g.overlay.ReleasePointer(g.pointerID)
	}
	g.mode = ModeInactive
	g.recorder.Reset()
}

// finish applies the gesture for the current mode. Every collaborator call is
// attempted; failures are joined into the returned error.
func (g *Gesture) finish() (crossings, bundles int, err error) {
	found := g.recorder.Crossings(g.graph)

	switch g.mode {
	case ModeAdditive:
		groups := GroupCrossings(found, g.opts.GroupBy)
		content := g.graph.ContentSpace()
		var errs []error
		for _, b := range groups {
			pos := geom.Convert(g.overlay, content, b.Position())
			if err := g.creator.CreateRedirect(pos, b.Edges); err != nil {
				errs = append(errs, fmt.Errorf("create redirect for %d edge(s): %w", len(b.Edges), err))
			}
		}
		return len(found), len(groups), errors.Join(errs...)

	case ModeSubtractive:
		edges := uniqueEdges(found)
		if len(edges) == 0 {
			return 0, 0, nil
		}
		// One batch deletion counts as one bundle.
		if err := g.graph.DeleteEdges(edges); err != nil {
			return len(found), 1, fmt.Errorf("delete %d edge(s): %w", len(edges), err)
		}
		return len(found), 1, nil

	default:
		panic(fmt.Sprintf("knife: finish called in mode %v", g.mode))
	}
}

func uniqueEdges(crossings []Crossing) []Edge {
	seen := make(map[Edge]struct{}, len(crossings))
	out := make([]Edge, 0, len(crossings))
	for _, c := range crossings {
		if _, ok := seen[c.Edge]; ok {
			continue
		}
		seen[c.Edge] = struct{}{}
		out = append(out, c.Edge)
	}
	return out
}
