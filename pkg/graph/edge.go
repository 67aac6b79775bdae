package graph

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

// Endpoint is a live port. Its pointer identity is stable while the graph lives.
type Endpoint struct {
	node  *Node
	index int
}

var _ knife.Port = (*Endpoint)(nil)

// PortID returns the port's ID.
func (p *Endpoint) PortID() string { return p.node.Ports[p.index].ID }

// Port returns the port's data.
func (p *Endpoint) Port() Port { return p.node.Ports[p.index] }

// Node returns the owning node.
func (p *Endpoint) Node() *Node { return p.node }

// Anchor returns where edges attach, in content space.
func (p *Endpoint) Anchor() orb.Point { return p.node.Anchor(p.index) }

// EdgeView is a live edge. It implements knife.Edge.
//
// The edge's local space is the graph's content space translated to the output
// anchor, so RenderPolyline always starts at the origin.
type EdgeView struct {
	id       string
	graph    *Graph
	from, to *Endpoint
}

var _ knife.Edge = (*EdgeView)(nil)

func (e *EdgeView) ID() string         { return e.id }
func (e *EdgeView) From() *Endpoint    { return e.from }
func (e *EdgeView) To() *Endpoint      { return e.to }
func (e *EdgeView) Output() knife.Port { return e.from }
func (e *EdgeView) Input() knife.Port  { return e.to }

func (e *EdgeView) String() string {
	return fmt.Sprintf("%s(%s -> %s)", e.id, e.from.PortID(), e.to.PortID())
}

// Document returns the serializable form of e.
func (e *EdgeView) Document() Edge {
	return Edge{ID: e.id, From: e.from.PortID(), To: e.to.PortID()}
}

// Space returns the edge's local space.
func (e *EdgeView) Space() geom.Space {
	return geom.SpaceFunc(func() geom.Affine {
		a := e.from.Anchor()
		return e.graph.LocalToWorld().Multiply(geom.Translate(a[0], a[1]))
	})
}

// RenderPolyline returns the flattened curve in the edge's local space.
func (e *EdgeView) RenderPolyline() []orb.Point {
	a, b := e.from.Anchor(), e.to.Anchor()
	return Curve(orb.Point{}, orb.Point{b[0] - a[0], b[1] - a[1]}, e.graph.segments)
}

// ContentPolyline returns the flattened curve in content space.
func (e *EdgeView) ContentPolyline() orb.LineString {
	return Curve(e.from.Anchor(), e.to.Anchor(), e.graph.segments)
}

// Overlaps tests the curve's bound against a content-space rectangle.
func (e *EdgeView) Overlaps(contentBound orb.Bound) bool {
	return e.ContentPolyline().Bound().Intersects(contentBound)
}
