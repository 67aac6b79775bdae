package integrations

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

// ErrNoFlavor is returned when no registered flavor matches a view.
var ErrNoFlavor = errors.New("no flavor handles this view")

// View is a live editor window showing one graph.
type View interface {
	ID() string
	// Flavor names the kind of graph the view edits, e.g. "shader".
	Flavor() string
	// Target receives the gesture's event handlers.
	Target() knife.Target
	// Overlay is the surface the knife path is drawn on and captures pointers.
	Overlay() knife.Surface
	// Graph returns nil while the view is still being built.
	Graph() *graph.Graph
}

// Flavor adapts the knife to one kind of graph.
type Flavor interface {
	Name() string
	Match(v View) bool
	// Redirects returns the redirect creator for v, or nil to allow deletion only.
	Redirects(v View) knife.RedirectCreator
}

type attachment struct {
	view    View
	flavor  Flavor
	gesture *knife.Gesture
}

// Registry owns one gesture per attached view.
type Registry struct {
	flavors  []Flavor
	opts     knife.Options
	log      *log.Logger
	attached map[string]*attachment
	pending  map[string]View
	focused  string
}

// NewRegistry returns a registry creating gestures with opts.
func NewRegistry(opts knife.Options, flavors ...Flavor) *Registry {
	l := opts.Logger
	if l == nil {
		l = log.New(io.Discard)
	}
	return &Registry{
		flavors:  flavors,
		opts:     opts,
		log:      l,
		attached: make(map[string]*attachment),
		pending:  make(map[string]View),
	}
}

// Register adds flavors. Earlier flavors win when several match a view.
func (r *Registry) Register(flavors ...Flavor) {
	r.flavors = append(r.flavors, flavors...)
}

func (r *Registry) match(v View) Flavor {
	for _, f := range r.flavors {
		if f.Match(v) {
			return f
		}
	}
	return nil
}

// Attach gives v a gesture. It reports false with a nil error when the view's
// graph is not built yet; the view is then retried by Focus or RetryPending.
func (r *Registry) Attach(v View) (bool, error) {
	id := v.ID()
	if a, ok := r.attached[id]; ok {
		a.gesture.Attach(v.Target())
		r.log.Debug("knife re-attached", "view", id, "flavor", a.flavor.Name())
		return true, nil
	}

	f := r.match(v)
	if f == nil {
		return false, fmt.Errorf("view %s (%s): %w", id, v.Flavor(), ErrNoFlavor)
	}

	g := v.Graph()
	if g == nil {
		r.pending[id] = v
		r.log.Debug("view not ready, attach deferred", "view", id)
		return false, nil
	}
	delete(r.pending, id)

	gesture := knife.NewGesture(g, v.Overlay(), f.Redirects(v), r.opts)
	gesture.Attach(v.Target())
	r.attached[id] = &attachment{view: v, flavor: f, gesture: gesture}
	r.log.Debug("knife attached", "view", id, "flavor", f.Name())
	return true, nil
}

// Focus tells the registry v became the focused view. Nothing happens while the
// same, already attached view stays focused.
func (r *Registry) Focus(v View) (bool, error) {
	id := v.ID()
	_, waiting := r.pending[id]
	if id == r.focused && !waiting {
		_, ok := r.attached[id]
		return ok, nil
	}
	r.focused = id
	return r.Attach(v)
}

// RetryPending attempts to attach every deferred view and returns how many
// were attached.
func (r *Registry) RetryPending() int {
	n := 0
	for _, v := range r.pending {
		ok, err := r.Attach(v)
		if err != nil {
			r.log.Warn("pending attach failed", "view", v.ID(), "err", err)
			delete(r.pending, v.ID())
			continue
		}
		if ok {
			n++
		}
	}
	return n
}

// Close detaches and forgets the view's gesture.
func (r *Registry) Close(viewID string) {
	if a, ok := r.attached[viewID]; ok {
		a.gesture.Detach()
		delete(r.attached, viewID)
		r.log.Debug("knife detached", "view", viewID)
	}
	delete(r.pending, viewID)
	if r.focused == viewID {
		r.focused = ""
	}
}

// Shutdown closes every view.
func (r *Registry) Shutdown() {
	for id := range r.attached {
		r.Close(id)
	}
	clear(r.pending)
}

// Gesture returns the gesture attached to a view.
func (r *Registry) Gesture(viewID string) (*knife.Gesture, bool) {
	a, ok := r.attached[viewID]
	if !ok {
		return nil, false
	}
	return a.gesture, true
}

// Len returns the number of attached views.
func (r *Registry) Len() int { return len(r.attached) }

// Pending returns the number of views waiting for their graph.
func (r *Registry) Pending() int { return len(r.pending) }
