// Package pkg provides the libraries behind edgeknife, a knife gesture for
// node-graph editors.
//
// # Overview
//
// A knife stroke is a freehand path dragged across an editor view. Ctrl+right
// drag deletes every edge the path crosses; shift+right drag splices a
// redirect node into the crossed edges, one redirect per bundle of edges that
// share an endpoint. The pkg directory is organized in layers:
//
//  1. [geom] - affine transforms, coordinate spaces, segment and box tests
//  2. [knife] - path recorder, crossing resolver and the gesture state machine
//  3. [surface] - headless element tree with pointer capture and focus
//  4. [graph] - graph documents and the live graph the knife edits
//  5. [integrations] - editor flavors that create redirects (shader, vfx)
//  6. [session], [script] - headless editing sessions driven by scripted input
//  7. [store], [server] - persistence backends and the HTTP/websocket API
//  8. [render/nodelink] - Graphviz rendering of documents
//
// # Architecture
//
//	pointer events
//	      ↓
//	[surface] tree (capture, bubbling, focus)
//	      ↓
//	[knife] Gesture → Recorder → Crossings
//	      ↓
//	[integrations] flavor (redirects) / [graph] (deletion)
//	      ↓
//	[graph] Document → [store] / [render/nodelink]
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/edgeknife/pkg/graph"
//	    "github.com/matzehuels/edgeknife/pkg/script"
//	    "github.com/matzehuels/edgeknife/pkg/session"
//	)
//
//	doc, _ := graph.ReadFile("graph.json")
//	sc, _ := script.Load("cut.toml")
//
//	sess, _ := session.New(doc, session.Config{Flavor: "shader"})
//	defer sess.Close()
//	sess.Replay(sc)
//
//	graph.WriteFile(sess.Document(), "cut.json")
package pkg
