package graph

import (
	"github.com/paulmach/orb"
)

// =============================================================================
// Constants
// =============================================================================

// Direction is the side of a node a port sits on.
type Direction string

// Port directions.
const (
	DirIn  Direction = "in"
	DirOut Direction = "out"
)

// NodeKind distinguishes ordinary nodes from redirect (pass-through) nodes.
type NodeKind string

// Node kinds.
const (
	KindRegular  NodeKind = "regular"
	KindRedirect NodeKind = "redirect"
)

// =============================================================================
// Document - Persistent Graph Format
// =============================================================================

// Document is the canonical serialization format for an editor graph.
// Used for files, API payloads and every store backend.
//
// Node and port order is significant: ports are laid out top to bottom in
// document order, and edges are listed in creation order.
type Document struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
	View  View   `json:"view" bson:"view"`
}

// Node is a graph node with its ports.
type Node struct {
	ID        string    `json:"id" bson:"id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Kind      NodeKind  `json:"kind,omitempty" bson:"kind,omitempty"` // empty means regular
	Position  orb.Point `json:"position" bson:"position"`             // top-left corner, content space
	Size      orb.Point `json:"size" bson:"size"`                     // zero means computed from ports
	Group     string    `json:"group,omitempty" bson:"group,omitempty"`
	Collapsed bool      `json:"collapsed,omitempty" bson:"collapsed,omitempty"`
	Ports     []Port    `json:"ports,omitempty" bson:"ports,omitempty"`
}

// IsRedirect reports whether n is a redirect node.
func (n *Node) IsRedirect() bool { return n.Kind == KindRedirect }

// DisplayTitle returns the title if set, otherwise the ID.
func (n *Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.ID
}

// Port is a connection point on a node.
type Port struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Direction Direction `json:"direction" bson:"direction"`
	ValueType string    `json:"value_type,omitempty" bson:"value_type,omitempty"`
}

// Edge connects an output port to an input port.
type Edge struct {
	ID   string `json:"id" bson:"id"`
	From string `json:"from" bson:"from"` // output port ID
	To   string `json:"to" bson:"to"`     // input port ID
}

// View is the pan and zoom of the content area. Content coordinates map to
// view coordinates as view = content*Zoom + Pan.
type View struct {
	Pan  orb.Point `json:"pan" bson:"pan"`
	Zoom float64   `json:"zoom,omitempty" bson:"zoom,omitempty"` // zero means 1
}

func (v View) scale() float64 {
	if v.Zoom == 0 {
		return 1
	}
	return v.Zoom
}
