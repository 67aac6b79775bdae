package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

var (
	// ErrUnknownNode is returned when a node ID does not exist.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnknownPort is returned when a port ID does not exist.
	ErrUnknownPort = errors.New("unknown port")
	// ErrUnknownEdge is returned when an edge is not part of the graph.
	ErrUnknownEdge = errors.New("unknown edge")
	// ErrDuplicateID is returned when a node, port or edge ID is reused.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrPortDirection is returned when an edge does not run from an output to an input.
	ErrPortDirection = errors.New("edge must run from an output port to an input port")
	// ErrSelfLoop is returned when an edge would connect a node to itself.
	ErrSelfLoop = errors.New("edge connects a node to itself")
	// ErrEdgeExists is returned when the two ports are already connected.
	ErrEdgeExists = errors.New("ports already connected")
)

// Graph is the live, editable form of a Document. It implements knife.Graph.
//
// The content space of the graph is the view's pan and zoom applied under a
// parent space, typically the host's view element. Edge and port pointers are
// stable for as long as the edge or port exists, so they can be used as
// identities (the knife groups crossings by *Endpoint).
type Graph struct {
	parent   geom.Space
	view     View
	segments int
	revision int

	nodes    []*Node
	nodeByID map[string]*Node
	ports    map[string]*Endpoint
	edges    []*EdgeView
	edgeByID map[string]*EdgeView
}

var _ knife.Graph = (*Graph)(nil)

// New returns an empty graph whose content space sits under parent.
// A nil parent places the content space directly in world space.
func New(parent geom.Space) *Graph {
	return &Graph{
		parent:   parent,
		segments: DefaultCurveSegments,
		nodeByID: make(map[string]*Node),
		ports:    make(map[string]*Endpoint),
		edgeByID: make(map[string]*EdgeView),
	}
}

// FromDocument builds a live graph from doc. Missing IDs are generated; all
// references are validated.
func FromDocument(doc Document, parent geom.Space) (*Graph, error) {
	g := New(parent)
	g.view = doc.View
	for _, n := range doc.Nodes {
		if _, err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Edges {
		if _, err := g.addEdge(e.ID, e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
	}
	g.revision = 0
	return g, nil
}

// SetCurveSegments sets how finely edge curves are flattened.
func (g *Graph) SetCurveSegments(n int) {
	if n < 1 {
		n = DefaultCurveSegments
	}
	g.segments = n
}

// LocalToWorld maps content coordinates to world coordinates.
func (g *Graph) LocalToWorld() geom.Affine {
	parent := geom.Identity()
	if g.parent != nil {
		parent = g.parent.LocalToWorld()
	}
	s := g.view.scale()
	return parent.Multiply(geom.Translate(g.view.Pan[0], g.view.Pan[1])).Multiply(geom.Scale(s, s))
}

// ContentSpace returns the graph itself.
func (g *Graph) ContentSpace() geom.Space { return g }

// View returns the current pan and zoom.
func (g *Graph) View() View { return g.view }

// SetView replaces pan and zoom.
func (g *Graph) SetView(v View) { g.view = v }

// Revision counts structural mutations since the graph was built.
func (g *Graph) Revision() int { return g.revision }

// =============================================================================
// Nodes and Ports
// =============================================================================

// AddNode inserts a copy of n. Empty node and port IDs are generated.
func (g *Graph) AddNode(n Node) (*Node, error) {
	node := n
	node.Ports = slices.Clone(n.Ports)
	if node.ID == "" {
		if node.IsRedirect() {
			node.ID = NewRedirectID()
		} else {
			node.ID = NewNodeID()
		}
	}
	if _, ok := g.nodeByID[node.ID]; ok {
		return nil, fmt.Errorf("node %s: %w", node.ID, ErrDuplicateID)
	}

	seen := make(map[string]bool, len(node.Ports))
	for i := range node.Ports {
		p := &node.Ports[i]
		if p.ID == "" {
			p.ID = NewPortID()
		}
		if _, ok := g.ports[p.ID]; ok || seen[p.ID] {
			return nil, fmt.Errorf("port %s: %w", p.ID, ErrDuplicateID)
		}
		if p.Direction != DirIn && p.Direction != DirOut {
			return nil, fmt.Errorf("port %s: invalid direction %q", p.ID, p.Direction)
		}
		seen[p.ID] = true
	}

	ptr := &node
	g.nodes = append(g.nodes, ptr)
	g.nodeByID[ptr.ID] = ptr
	for i := range ptr.Ports {
		g.ports[ptr.Ports[i].ID] = &Endpoint{node: ptr, index: i}
	}
	g.revision++
	return ptr, nil
}

// AddRedirect inserts a redirect node centred on pos (content space) with one
// input and one output of the given value type.
func (g *Graph) AddRedirect(pos orb.Point, valueType, group string) (*Node, error) {
	return g.AddNode(Node{
		Kind:     KindRedirect,
		Position: orb.Point{pos[0] - RedirectSize/2, pos[1] - RedirectSize/2},
		Group:    group,
		Ports: []Port{
			{Name: "in", Direction: DirIn, ValueType: valueType},
			{Name: "out", Direction: DirOut, ValueType: valueType},
		},
	})
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeByID[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Port returns the endpoint with the given port ID.
func (g *Graph) Port(id string) (*Endpoint, bool) {
	p, ok := g.ports[id]
	return p, ok
}

// FirstPort returns the node's first port in direction dir.
func (g *Graph) FirstPort(nodeID string, dir Direction) (*Endpoint, error) {
	n, ok := g.nodeByID[nodeID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", nodeID, ErrUnknownNode)
	}
	for _, p := range n.Ports {
		if p.Direction == dir {
			return g.ports[p.ID], nil
		}
	}
	return nil, fmt.Errorf("node %s has no %s port: %w", nodeID, dir, ErrUnknownPort)
}

// =============================================================================
// Edges
// =============================================================================

// Connect adds an edge from an output port to an input port.
func (g *Graph) Connect(fromPortID, toPortID string) (*EdgeView, error) {
	return g.addEdge("", fromPortID, toPortID)
}

func (g *Graph) addEdge(id, fromPortID, toPortID string) (*EdgeView, error) {
	from, ok := g.ports[fromPortID]
	if !ok {
		return nil, fmt.Errorf("from %s: %w", fromPortID, ErrUnknownPort)
	}
	to, ok := g.ports[toPortID]
	if !ok {
		return nil, fmt.Errorf("to %s: %w", toPortID, ErrUnknownPort)
	}
	if from.Port().Direction != DirOut || to.Port().Direction != DirIn {
		return nil, ErrPortDirection
	}
	if from.node == to.node {
		return nil, fmt.Errorf("%s: %w", from.node.ID, ErrSelfLoop)
	}
	for _, e := range g.edges {
		if e.from == from && e.to == to {
			return nil, fmt.Errorf("%s -> %s: %w", fromPortID, toPortID, ErrEdgeExists)
		}
	}
	if id == "" {
		id = NewEdgeID()
	}
	if _, ok := g.edgeByID[id]; ok {
		return nil, fmt.Errorf("edge %s: %w", id, ErrDuplicateID)
	}

	e := &EdgeView{id: id, graph: g, from: from, to: to}
	g.edges = append(g.edges, e)
	g.edgeByID[id] = e
	g.revision++
	return e, nil
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id string) (*EdgeView, bool) {
	e, ok := g.edgeByID[id]
	return e, ok
}

// EdgeViews returns all edges in creation order.
func (g *Graph) EdgeViews() []*EdgeView { return slices.Clone(g.edges) }

// Edges returns all edges as knife edges.
func (g *Graph) Edges() []knife.Edge {
	out := make([]knife.Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = e
	}
	return out
}

// EdgesInto returns the edges ending at the given input port.
func (g *Graph) EdgesInto(portID string) []*EdgeView {
	var out []*EdgeView
	for _, e := range g.edges {
		if e.to.PortID() == portID {
			out = append(out, e)
		}
	}
	return out
}

// EdgesFrom returns the edges leaving the given output port.
func (g *Graph) EdgesFrom(portID string) []*EdgeView {
	var out []*EdgeView
	for _, e := range g.edges {
		if e.from.PortID() == portID {
			out = append(out, e)
		}
	}
	return out
}

// RemoveEdge deletes the edge with the given ID.
func (g *Graph) RemoveEdge(id string) error {
	e, ok := g.edgeByID[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownEdge)
	}
	g.remove(e)
	return nil
}

func (g *Graph) remove(e *EdgeView) {
	g.edges = slices.DeleteFunc(g.edges, func(x *EdgeView) bool { return x == e })
	delete(g.edgeByID, e.id)
	g.revision++
}

// DeleteEdges removes a batch of edges. Edges already gone are skipped; edges
// from another graph or of a foreign type are reported.
func (g *Graph) DeleteEdges(edges []knife.Edge) error {
	var errs []error
	for _, ke := range edges {
		e, ok := ke.(*EdgeView)
		if !ok || e.graph != g {
			errs = append(errs, fmt.Errorf("%v: %w", ke, ErrUnknownEdge))
			continue
		}
		if g.edgeByID[e.id] != e {
			continue
		}
		g.remove(e)
	}
	return errors.Join(errs...)
}

// =============================================================================
// Snapshot
// =============================================================================

// Document returns a deep copy of the graph's current state.
func (g *Graph) Document() Document {
	doc := Document{
		Nodes: make([]Node, len(g.nodes)),
		Edges: make([]Edge, len(g.edges)),
		View:  g.view,
	}
	for i, n := range g.nodes {
		doc.Nodes[i] = *n
		doc.Nodes[i].Ports = slices.Clone(n.Ports)
	}
	for i, e := range g.edges {
		doc.Edges[i] = e.Document()
	}
	return doc
}
