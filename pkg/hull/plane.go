package hull

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plane is an oriented half-space. Normal has unit length and
// Offset = dot(Normal, p) for every point p on the plane.
type Plane struct {
	Normal v3.Vec  `json:"normal"`
	Offset float64 `json:"offset"`
}

// NewPlane returns the plane through point with the given normal.
// The normal is normalized.
func NewPlane(normal, point v3.Vec) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Offset: n.Dot(point)}
}

// PlaneFromPoints returns the plane through a, b and c, wound counter-clockwise
// when seen from the positive side. It reports false for collinear points.
func PlaneFromPoints(a, b, c v3.Vec) (Plane, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() < epsilon {
		return Plane{}, false
	}
	return NewPlane(n, a), true
}

// Distance returns the signed distance from p to the plane. Positive values
// lie on the side the normal points to.
func (p Plane) Distance(pt v3.Vec) float64 {
	return p.Normal.Dot(pt) - p.Offset
}

// ClosestPoint projects pt onto the plane.
func (p Plane) ClosestPoint(pt v3.Vec) v3.Vec {
	return pt.Sub(p.Normal.MulScalar(p.Distance(pt)))
}

// Position returns the point of the plane closest to the origin.
func (p Plane) Position() v3.Vec {
	return p.Normal.MulScalar(p.Offset)
}

// Flipped returns the same plane facing the other way.
func (p Plane) Flipped() Plane {
	return Plane{Normal: p.Normal.Neg(), Offset: -p.Offset}
}

// IsPositiveSide reports whether pt lies strictly in front of the plane.
func (p Plane) IsPositiveSide(pt v3.Vec) bool {
	return p.Distance(pt) > 0
}

// SameSide reports whether a and b lie on the same side of the plane.
func (p Plane) SameSide(a, b v3.Vec) bool {
	da := p.Distance(a)
	db := p.Distance(b)
	return (da > 0 && db > 0) || (da <= 0 && db <= 0)
}

// Raycast intersects the ray origin + t*dir with the plane. It returns the
// ray parameter and false when the ray is parallel to the plane or the hit
// lies behind the origin.
func (p Plane) Raycast(origin, dir v3.Vec) (float64, bool) {
	denom := p.Normal.Dot(dir)
	if math.Abs(denom) < epsilon {
		return 0, false
	}
	t := (p.Offset - p.Normal.Dot(origin)) / denom
	return t, t >= 0
}

// Transform maps a plane given in the local space of t into the space t
// maps to.
func (p Plane) Transform(t Transform) Plane {
	n := t.Vector(p.Normal)
	return Plane{Normal: n, Offset: p.Offset + n.Dot(t.Position())}
}
