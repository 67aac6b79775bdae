// Package vfx creates redirects for visual effect graphs.
//
// Visual effect graphs redirect through inline operators, which only exist for
// a fixed set of value types. Crossed edges of other types are left alone. An
// inline node takes a single input link, so a bundle gets one collapsed node per
// distinct source, placed up and to the left of the cut and stacked downwards.
package vfx

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/integrations"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

// Name is the flavor name views report.
const Name = "vfx"

// Offset is added to the cut position to get the inline node's top-left corner.
var Offset = orb.Point{-30, -12}

// DefaultTypes are the value types inline operators support.
var DefaultTypes = []string{
	"float", "int", "uint", "bool",
	"vec2", "vec3", "vec4", "color",
	"matrix4x4", "gradient", "curve",
	"position", "direction", "vector",
}

// Flavor handles visual effect graph views. An empty SupportedTypes selects
// DefaultTypes.
type Flavor struct {
	SupportedTypes []string
}

var _ integrations.Flavor = Flavor{}

func (Flavor) Name() string                   { return Name }
func (Flavor) Match(v integrations.View) bool { return v.Flavor() == Name }

// Redirects returns a creator for the view's graph.
func (f Flavor) Redirects(v integrations.View) knife.RedirectCreator {
	return NewRedirects(v.Graph(), f.SupportedTypes...)
}

// Redirects inserts inline redirect nodes into a graph.
type Redirects struct {
	graph     *graph.Graph
	supported map[string]bool
}

// NewRedirects returns a creator working on g that accepts the given value
// types, or DefaultTypes when none are given.
func NewRedirects(g *graph.Graph, types ...string) *Redirects {
	if len(types) == 0 {
		types = DefaultTypes
	}
	supported := make(map[string]bool, len(types))
	for _, t := range types {
		supported[t] = true
	}
	return &Redirects{graph: g, supported: supported}
}

// edgeType is the destination's type, falling back to the source's.
func edgeType(e *graph.EdgeView) string {
	if t := e.To().Port().ValueType; t != "" {
		return t
	}
	return e.From().Port().ValueType
}

// CreateRedirect implements knife.RedirectCreator. position is in content space.
func (r *Redirects) CreateRedirect(position orb.Point, edges []knife.Edge) error {
	views, err := integrations.EdgeViews(r.graph, edges)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIntegration, err, "vfx redirect")
	}

	// Accepted edges grouped by source, in first-seen order.
	var (
		sources []*graph.Endpoint
		groups  = make(map[*graph.Endpoint][]*graph.EdgeView)
	)
	for _, e := range views {
		if !r.supported[edgeType(e)] {
			continue
		}
		src := e.From()
		if _, ok := groups[src]; !ok {
			sources = append(sources, src)
		}
		groups[src] = append(groups[src], e)
	}

	for i, src := range sources {
		group := groups[src]
		valueType := edgeType(group[0])
		pos := orb.Point{position[0] + Offset[0], position[1] + Offset[1] + float64(i)*graph.HeaderHeight}
		node, err := r.graph.AddNode(graph.Node{
			Kind:      graph.KindRedirect,
			Title:     "Inline " + valueType,
			Position:  pos,
			Collapsed: true,
			Ports: []graph.Port{
				{Name: "in", Direction: graph.DirIn, ValueType: valueType},
				{Name: "out", Direction: graph.DirOut, ValueType: valueType},
			},
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeIntegration, err, "vfx redirect")
		}
		if err := integrations.Rewire(r.graph, node, group); err != nil {
			return errors.Wrap(errors.ErrCodeIntegration, err, "rewire through %s", node.ID)
		}
	}
	return nil
}
