package hull

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// epsilon is the length below which vectors are treated as zero.
const epsilon = 1e-9

// Transform is a rigid transform (rotation followed by translation).
// The zero value is the identity.
type Transform struct {
	m   sdf.M44
	set bool
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{}
}

// Translation returns a transform that moves points by v.
func Translation(v v3.Vec) Transform {
	return Transform{m: sdf.Translate3d(v), set: true}
}

// TransformFromEuler builds a transform from a position and Euler angles in
// degrees. Rotations apply around X, then Y, then Z.
func TransformFromEuler(pos, degrees v3.Vec) Transform {
	xRad := degrees.X * math.Pi / 180.0
	yRad := degrees.Y * math.Pi / 180.0
	zRad := degrees.Z * math.Pi / 180.0

	r := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return Transform{m: sdf.Translate3d(pos).Mul(r), set: true}
}

// TransformFromQuat builds a transform from a position and an orientation
// quaternion. The quaternion does not need to be normalized.
func TransformFromQuat(pos v3.Vec, q mgl64.Quat) Transform {
	q = q.Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}
	w := math.Min(q.W, 1)
	s := math.Sqrt(1 - w*w)
	if s < epsilon {
		return Translation(pos)
	}
	axis := v3.Vec{X: q.V[0] / s, Y: q.V[1] / s, Z: q.V[2] / s}
	r := sdf.Rotate3d(axis, 2*math.Acos(w))
	return Transform{m: sdf.Translate3d(pos).Mul(r), set: true}
}

// Matrix returns the transform as a 4x4 matrix.
func (t Transform) Matrix() sdf.M44 {
	if !t.set {
		return sdf.Translate3d(v3.Vec{})
	}
	return t.m
}

// Mul returns the transform that applies o first and then t.
func (t Transform) Mul(o Transform) Transform {
	if !o.set {
		return t
	}
	if !t.set {
		return o
	}
	return Transform{m: t.m.Mul(o.m), set: true}
}

// Inverse returns the inverse transform.
func (t Transform) Inverse() Transform {
	if !t.set {
		return t
	}
	return Transform{m: t.m.Inverse(), set: true}
}

// Point maps a position.
func (t Transform) Point(p v3.Vec) v3.Vec {
	if !t.set {
		return p
	}
	return t.m.MulPosition(p)
}

// Vector maps a direction; translation does not apply.
func (t Transform) Vector(d v3.Vec) v3.Vec {
	if !t.set {
		return d
	}
	return t.m.MulPosition(d).Sub(t.m.MulPosition(v3.Vec{}))
}

// Position returns the translation part of the transform.
func (t Transform) Position() v3.Vec {
	return t.Point(v3.Vec{})
}
