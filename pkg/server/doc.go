// Package server exposes graph documents and the knife over HTTP.
//
// # Endpoints
//
//	GET    /health                 liveness
//	GET    /graphs                 list stored graph ids
//	POST   /graphs                 store a new document under a fresh uuid
//	GET    /graphs/{id}            fetch a document
//	PUT    /graphs/{id}            replace a document
//	DELETE /graphs/{id}            delete a document
//	POST   /graphs/{id}/gestures   replay knife events and persist the result
//	GET    /graphs/{id}/svg        render the document with Graphviz
//	GET    /graphs/{id}/live       websocket: one knife session per connection
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
//
// Gesture requests and live connections pick a redirect flavor with a
// "flavor" field or query parameter; Config.Flavor is used when it is absent.
//
// # Live sessions
//
// Each websocket message from the client is one script.Event. After every
// event the server replies with a "state" message describing the knife (mode,
// colour, world-space path). When an event changes the graph, the document is
// persisted and a "document" message follows.
package server
