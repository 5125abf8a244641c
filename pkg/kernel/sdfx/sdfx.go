// Package sdfx implements the kernel.Kernel interface on top of the
// github.com/deadsy/sdfx geometry library. Primitives are generated as
// exact polyhedral triangle soups; smooth SDF solids can be imported
// through marching cubes with FromSDF.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/hullsat/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes resolution for FromSDF.
const DefaultMeshCells = 64

// MinSegments is the smallest ring used for round primitives.
const MinSegments = 3

// soupSolid wraps a triangle soup to implement kernel.Solid.
type soupSolid struct {
	tris []sdf.Triangle3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *soupSolid) BoundingBox() (min, max [3]float64) {
	bb := s.box()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

func (s *soupSolid) box() sdf.Box3 {
	if len(s.tris) == 0 {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: s.tris[0][0], Max: s.tris[0][0]}
	for _, tri := range s.tris {
		for _, v := range tri {
			bb.Min = v3.Vec{X: math.Min(bb.Min.X, v.X), Y: math.Min(bb.Min.Y, v.Y), Z: math.Min(bb.Min.Z, v.Z)}
			bb.Max = v3.Vec{X: math.Max(bb.Max.X, v.X), Y: math.Max(bb.Max.Y, v.Y), Z: math.Max(bb.Max.Z, v.Z)}
		}
	}
	return bb
}

// SdfxKernel implements kernel.Kernel using sdfx vectors and matrices.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the triangle soup from a kernel.Solid.
func unwrap(s kernel.Solid) []sdf.Triangle3 {
	return s.(*soupSolid).tris
}

// wrap creates a kernel.Solid from a triangle soup.
func wrap(tris []sdf.Triangle3) kernel.Solid {
	return &soupSolid{tris: tris}
}

// Triangles returns the triangle soup behind a solid created by this
// kernel.
func Triangles(s kernel.Solid) []sdf.Triangle3 {
	return unwrap(s)
}

// Box creates a box with the given dimensions centered on the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	if x <= 0 || y <= 0 || z <= 0 {
		panic(fmt.Sprintf("sdfx.Box: non-positive size (%g, %g, %g)", x, y, z))
	}
	hx, hy, hz := x/2, y/2, z/2
	c := []v3.Vec{
		{X: hx, Y: hy, Z: -hz},
		{X: -hx, Y: hy, Z: -hz},
		{X: -hx, Y: -hy, Z: -hz},
		{X: hx, Y: -hy, Z: -hz},
		{X: hx, Y: hy, Z: hz},
		{X: -hx, Y: hy, Z: hz},
		{X: -hx, Y: -hy, Z: hz},
		{X: hx, Y: -hy, Z: hz},
	}
	quads := [6][4]int{
		{1, 2, 6, 5}, // -x
		{4, 7, 3, 0}, // +x
		{3, 7, 6, 2}, // -y
		{0, 1, 5, 4}, // +y
		{4, 5, 6, 7}, // +z
		{0, 3, 2, 1}, // -z
	}
	tris := make([]sdf.Triangle3, 0, 12)
	for _, q := range quads {
		tris = append(tris,
			sdf.Triangle3{c[q[0]], c[q[1]], c[q[2]]},
			sdf.Triangle3{c[q[0]], c[q[2]], c[q[3]]},
		)
	}
	return wrap(tris)
}

// Cylinder creates a faceted cylinder along Z centered on the origin.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if height <= 0 || radius <= 0 {
		panic(fmt.Sprintf("sdfx.Cylinder: non-positive height %g or radius %g", height, radius))
	}
	bottom := ring(radius, -height/2, segments)
	top := ring(radius, height/2, segments)
	n := len(bottom)

	tris := make([]sdf.Triangle3, 0, 4*n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		tris = append(tris,
			sdf.Triangle3{bottom[i], bottom[j], top[j]},
			sdf.Triangle3{bottom[i], top[j], top[i]},
		)
	}
	tris = append(tris, capFan(top, height/2, true)...)
	tris = append(tris, capFan(bottom, -height/2, false)...)
	return wrap(tris)
}

// Cone creates a faceted cone along Z with its apex at +height/2.
func (k *SdfxKernel) Cone(height, radius float64, segments int) kernel.Solid {
	if height <= 0 || radius <= 0 {
		panic(fmt.Sprintf("sdfx.Cone: non-positive height %g or radius %g", height, radius))
	}
	base := ring(radius, -height/2, segments)
	apex := v3.Vec{Z: height / 2}
	n := len(base)

	tris := make([]sdf.Triangle3, 0, 2*n)
	for i := 0; i < n; i++ {
		tris = append(tris, sdf.Triangle3{base[i], base[(i+1)%n], apex})
	}
	tris = append(tris, capFan(base, -height/2, false)...)
	return wrap(tris)
}

// Disk creates a flat regular polygon in the XY plane facing +Z.
func (k *SdfxKernel) Disk(radius float64, segments int) kernel.Solid {
	if radius <= 0 {
		panic(fmt.Sprintf("sdfx.Disk: non-positive radius %g", radius))
	}
	return wrap(capFan(ring(radius, 0, segments), 0, true))
}

// ring returns segments points on a circle at height z, counter-clockwise
// seen from +Z.
func ring(radius, z float64, segments int) []v3.Vec {
	if segments < MinSegments {
		segments = MinSegments
	}
	pts := make([]v3.Vec, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = v3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a), Z: z}
	}
	return pts
}

// capFan closes a ring with a fan around its center, facing +Z when up
// is set and -Z otherwise.
func capFan(pts []v3.Vec, z float64, up bool) []sdf.Triangle3 {
	center := v3.Vec{Z: z}
	n := len(pts)
	tris := make([]sdf.Triangle3, 0, n)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if up {
			tris = append(tris, sdf.Triangle3{center, a, b})
		} else {
			tris = append(tris, sdf.Triangle3{center, b, a})
		}
	}
	return tris
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(transform(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(transform(unwrap(s), m))
}

func transform(tris []sdf.Triangle3, m sdf.M44) []sdf.Triangle3 {
	out := make([]sdf.Triangle3, len(tris))
	for i, tri := range tris {
		for j := 0; j < 3; j++ {
			out[i][j] = m.MulPosition(tri[j])
		}
	}
	return out
}

// ToMesh flattens a solid into an indexed mesh.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	tris := unwrap(s)
	if len(tris) == 0 {
		return nil, fmt.Errorf("sdfx: solid has no triangles")
	}
	return kernel.MeshFromTriangles("", tris), nil
}

// FromSDF tessellates a signed distance solid with marching cubes on a
// uniform grid of the given resolution. Connected triangles that round to
// the same normal become one hull face, so flat sides merge while curved
// surfaces stay as many small faces.
func (k *SdfxKernel) FromSDF(s sdf.SDF3, cells int) kernel.Solid {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	tris := make([]sdf.Triangle3, 0, len(triangles))
	for _, tri := range triangles {
		tris = append(tris, sdf.Triangle3{tri[0], tri[1], tri[2]})
	}
	return wrap(tris)
}
