// Package session runs headless knife editing sessions.
//
// A Session owns a surface tree with a single editor view showing one graph
// document, and a knife gesture attached to that view through an
// integrations.Registry. Scripted or live input events are dispatched into the
// tree exactly as a windowing host would deliver them, so the gesture sees
// capture, bubbling and focus the same way it does in an interactive editor.
//
// Sessions back the `edgeknife replay` command, the server's gesture endpoint
// and its live websocket endpoint.
//
// # Usage
//
//	sess, err := session.New(doc, session.Config{Flavor: "shader"})
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	if _, err := sess.Replay(script); err != nil {
//	    return err
//	}
//	updated := sess.Document()
//
// A Session is not safe for concurrent use; like the host event loop it
// stands in for, it expects one goroutine to drive it.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/integrations"
	"github.com/matzehuels/edgeknife/pkg/integrations/shader"
	"github.com/matzehuels/edgeknife/pkg/integrations/vfx"
	"github.com/matzehuels/edgeknife/pkg/knife"
	"github.com/matzehuels/edgeknife/pkg/script"
	"github.com/matzehuels/edgeknife/pkg/surface"
)

// DefaultFlavor is used when Config.Flavor is empty.
const DefaultFlavor = shader.Name

// Flavors returns the flavors every session registers, in match order.
func Flavors() []integrations.Flavor {
	return []integrations.Flavor{shader.Flavor{}, vfx.Flavor{}, integrations.DeleteOnly{}}
}

// FlavorNames lists the accepted Config.Flavor values.
func FlavorNames() []string {
	return []string{shader.Name, vfx.Name, integrations.DeleteOnlyName}
}

// Config configures a session.
type Config struct {
	// ID names the session's view. A random id is generated when empty.
	ID string
	// Flavor selects redirect behaviour: "shader", "vfx" or "none".
	Flavor string
	// View places the view element in world space. The zero value is the identity.
	View geom.Affine
	// Knife configures the gesture. Zero fields take their defaults.
	Knife knife.Options
}

// Session is one headless editor view with a knife attached.
type Session struct {
	ID        string
	CreatedAt time.Time

	tree     *surface.Tree
	view     *integrations.EditorView
	registry *integrations.Registry
	gesture  *knife.Gesture
}

// New builds a session editing doc.
func New(doc graph.Document, cfg Config) (*Session, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Flavor == "" {
		cfg.Flavor = DefaultFlavor
	}
	if cfg.View == (geom.Affine{}) {
		cfg.View = geom.Identity()
	}

	tree := surface.NewTree()
	view := integrations.NewEditorView(cfg.ID, cfg.Flavor, tree.Root(), cfg.View)
	if err := view.Load(doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "load graph")
	}

	registry := integrations.NewRegistry(cfg.Knife, Flavors()...)
	if _, err := registry.Focus(view); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "flavor %q", cfg.Flavor)
	}
	view.Element().Focus()
	gesture, _ := registry.Gesture(cfg.ID)

	return &Session{
		ID:        cfg.ID,
		CreatedAt: time.Now(),
		tree:      tree,
		view:      view,
		registry:  registry,
		gesture:   gesture,
	}, nil
}

// Tree returns the session's surface tree.
func (s *Session) Tree() *surface.Tree { return s.tree }

// View returns the editor view.
func (s *Session) View() *integrations.EditorView { return s.view }

// Graph returns the live graph.
func (s *Session) Graph() *graph.Graph { return s.view.Graph() }

// Gesture returns the attached knife.
func (s *Session) Gesture() *knife.Gesture { return s.gesture }

// Document returns a snapshot of the edited graph.
func (s *Session) Document() graph.Document { return s.view.Graph().Document() }

// Revision counts graph mutations since the session started.
func (s *Session) Revision() int { return s.view.Graph().Revision() }

// Replay dispatches a whole script into the view.
func (s *Session) Replay(sc *script.Script) (int, error) {
	return sc.Replay(s.tree, s.view.Element())
}

// Apply dispatches a single event into the view.
func (s *Session) Apply(ev script.Event) (int, error) {
	return ev.Dispatch(s.tree, s.view.Element())
}

// Close detaches the knife. The session must not be used afterwards.
func (s *Session) Close() {
	s.registry.Shutdown()
}

// State is a snapshot of the knife for drawing it remotely.
type State struct {
	Mode      string       `json:"mode"`
	Capturing bool         `json:"capturing"`
	Color     string       `json:"color,omitempty"`
	Path      [][2]float64 `json:"path"`
	Revision  int          `json:"revision"`
}

// State returns the knife's current state. The path is in world space.
func (s *Session) State() State {
	st := State{
		Mode:      s.gesture.Mode().String(),
		Capturing: s.gesture.Capturing(),
		Path:      [][2]float64{},
		Revision:  s.Revision(),
	}
	if s.gesture.Active() {
		c := s.gesture.Color()
		st.Color = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	overlay := s.view.Overlay()
	for _, p := range s.gesture.Path() {
		st.Path = append(st.Path, geom.Convert(overlay, nil, p))
	}
	return st
}
