package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Affine is a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
//
// a and d scale, b and c skew or rotate, e and f translate.
type Affine [6]float64

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation.
func Translate(tx, ty float64) Affine {
	return Affine{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale about the origin.
func Scale(sx, sy float64) Affine {
	return Affine{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a rotation about the origin (angle in radians).
func Rotate(radians float64) Affine {
	sin, cos := math.Sincos(radians)
	return Affine{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns m * other, which applies other first and then m.
func (m Affine) Multiply(other Affine) Affine {
	return Affine{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Apply transforms a point.
func (m Affine) Apply(p orb.Point) orb.Point {
	x, y := p[0], p[1]
	return orb.Point{m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]}
}

// ApplyBound transforms the four corners of b and returns their axis-aligned
// bounding box. Under rotation or skew the result is larger than b, never smaller.
func (m Affine) ApplyBound(b orb.Bound) orb.Bound {
	corners := [4]orb.Point{
		m.Apply(b.Min),
		m.Apply(orb.Point{b.Max[0], b.Min[1]}),
		m.Apply(b.Max),
		m.Apply(orb.Point{b.Min[0], b.Max[1]}),
	}
	out := orb.Bound{Min: corners[0], Max: corners[0]}
	for _, c := range corners[1:] {
		out = out.Extend(c)
	}
	return out
}

// Determinant returns the determinant of the linear part.
func (m Affine) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse transform. ok is false when m is singular, in which
// case the identity is returned.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity(), false
	}
	invDet := 1.0 / det
	return Affine{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}, true
}

// IsIdentity reports whether m is the identity within a small epsilon.
func (m Affine) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m[0]-1) < eps &&
		math.Abs(m[1]) < eps &&
		math.Abs(m[2]) < eps &&
		math.Abs(m[3]-1) < eps &&
		math.Abs(m[4]) < eps &&
		math.Abs(m[5]) < eps
}
