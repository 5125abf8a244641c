package scene

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ShapeKind enumerates the shape generators a body can come from.
type ShapeKind int

const (
	ShapeBox        ShapeKind = iota // axis-aligned box
	ShapeCylinder                    // faceted cylinder along Z
	ShapeCone                        // faceted cone along Z, apex up
	ShapeDisk                        // flat polygon facing +Z
	ShapePolyhedron                  // explicit vertex and face lists
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeCone:
		return "cone"
	case ShapeDisk:
		return "disk"
	case ShapePolyhedron:
		return "polyhedron"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k ShapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Shape records the generator parameters a body's hull was built from.
type Shape struct {
	Kind     ShapeKind `json:"kind"`
	Size     v3.Vec    `json:"size,omitempty"`     // box
	Radius   float64   `json:"radius,omitempty"`   // cylinder, cone, disk
	Height   float64   `json:"height,omitempty"`   // cylinder, cone
	Segments int       `json:"segments,omitempty"` // cylinder, cone, disk
	Offset   v3.Vec    `json:"offset"`             // baked local translation
	Rotate   v3.Vec    `json:"rotate"`             // baked local Euler rotation, degrees
}
