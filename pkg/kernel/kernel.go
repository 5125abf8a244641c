// Package kernel defines the shape kernel interface that turns primitive
// descriptions into closed triangle meshes for the hull builder.
// Implementations (sdfx) generate the geometry behind this interface so
// the scene and scripting layers never touch a concrete backend.
package kernel

// Solid is an opaque handle to a kernel shape.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract shape kernel interface.
// Every primitive is centered on the origin and closed, with triangles
// wound counter-clockwise seen from outside. Disk is the exception: it
// is a single flat polygon facing +Z.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Cone(height, radius float64, segments int) Solid
	Disk(radius float64, segments int) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
