// Package graph provides the node graph the edge knife operates on.
//
// # Document and Live Graph
//
// [Document] is the canonical serialization format, used for JSON files, API
// payloads and every store backend. [Graph] is its live form: it owns nodes,
// ports and edges, enforces the wiring rules, and implements the knife's
// graph contract through [EdgeView] and [Endpoint].
//
//	doc, _ := graph.ReadFile("shader.json")
//	g, err := graph.FromDocument(doc, view)
//	// ... run gestures against g ...
//	_ = graph.WriteFile(g.Document(), "shader.json")
//
// # Geometry
//
// Nodes are rectangles in content space with inputs on the left and outputs on
// the right, one row per port. Edges are drawn as cubic Bézier curves leaving and
// entering horizontally; [Curve] flattens them into the polylines the knife
// intersects. The content space is the view's pan and zoom under the host
// surface, so the same document can be viewed at any zoom level.
//
// # IDs
//
// Generated IDs are TypeIDs with the prefixes node, rdr (redirect), port and
// edge. Hand-written documents may use any unique strings.
//
// # Serialization
//
//	{
//	  "nodes": [
//	    {"id": "a", "title": "Color", "position": [0, 0],
//	     "ports": [{"id": "a.out", "direction": "out", "value_type": "vec4"}]},
//	    {"id": "b", "title": "Output", "position": [240, 0],
//	     "ports": [{"id": "b.in", "direction": "in", "value_type": "vec4"}]}
//	  ],
//	  "edges": [{"id": "e1", "from": "a.out", "to": "b.in"}],
//	  "view": {"pan": [0, 0], "zoom": 1}
//	}
package graph
