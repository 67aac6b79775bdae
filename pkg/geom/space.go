package geom

import "github.com/paulmach/orb"

// Space is a coordinate system owned by a rendering surface. The surface, not the
// caller, knows how its local coordinates map into world coordinates.
//
// A nil Space is the world space itself.
type Space interface {
	LocalToWorld() Affine
}

// Transform returns the affine mapping points in from into points in to.
// Singular transforms degrade to the identity for the inverted leg.
func Transform(from, to Space) Affine {
	src := Identity()
	if from != nil {
		src = from.LocalToWorld()
	}
	dst := Identity()
	if to != nil {
		dst, _ = to.LocalToWorld().Invert()
	}
	return dst.Multiply(src)
}

// Convert maps p from space from into space to.
func Convert(from, to Space, p orb.Point) orb.Point {
	return Transform(from, to).Apply(p)
}

// ConvertBound maps b from space from into space to, returning the axis-aligned
// bound of the transformed rectangle.
func ConvertBound(from, to Space, b orb.Bound) orb.Bound {
	return Transform(from, to).ApplyBound(b)
}

// SpaceFunc adapts a function to the Space interface.
type SpaceFunc func() Affine

// LocalToWorld calls f.
func (f SpaceFunc) LocalToWorld() Affine { return f() }

// Fixed is a Space with a constant transform.
type Fixed Affine

// LocalToWorld returns the fixed transform.
func (f Fixed) LocalToWorld() Affine { return Affine(f) }
