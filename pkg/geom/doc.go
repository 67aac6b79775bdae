// Package geom provides the planar geometry used by the edge knife.
//
// Points and bounds are [orb.Point] and [orb.Bound] from github.com/paulmach/orb.
// On top of those this package adds three things:
//
//   - [Affine]: 2D affine transforms and the [Space] abstraction used to convert
//     points between the coordinate systems of different rendering surfaces
//   - [SegmentsIntersect]: exact segment-segment intersection with open-interval
//     semantics (touching endpoints do not count)
//   - [BoxOverlapsSegment]: a cheap conservative box-vs-segment test used to prune
//     candidates before the exact test
//
// # Coordinate Spaces
//
// Every point implicitly lives in some space (world, overlay-local, edge-local,
// graph-content). Nothing in this package assumes two spaces share an origin;
// callers convert explicitly with [Convert] and [ConvertBound]:
//
//	local := geom.Convert(nil, overlay, worldPoint) // nil is world space
//	inContent := geom.ConvertBound(overlay, content, pathBounds)
package geom
