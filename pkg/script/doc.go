// Package script reads knife gesture scripts and replays them onto a surface
// tree.
//
// A script is a TOML document with one [[event]] table per input event:
//
//	name = "cut the merge"
//
//	[[event]]
//	kind = "drag"
//	button = "right"
//	modifiers = ["control"]
//	points = [[200, -50], [200, 0], [200, 50]]
//
//	[[event]]
//	kind = "key"
//	key = "escape"
//
// Kinds are down, move, up, key and drag. A drag expands into a down at the
// first point, a move to every following point, and an up at the last one.
// Coordinates are in world space. button defaults to right and pointer to 0.
//
// The same Event type is accepted as JSON by the server's gesture endpoints.
package script
