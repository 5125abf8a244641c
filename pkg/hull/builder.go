package hull

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultPrecision is the number of decimal places vertices and triangle
// normals are rounded to before welding and grouping.
const DefaultPrecision = 3

// BuildConfig controls hull construction from raw geometry.
type BuildConfig struct {
	Precision       int     `json:"precision"`         // decimal places for welding
	MinNormalLength float64 `json:"min_normal_length"` // shorter normals mark a degenerate triangle or face
}

// DefaultBuildConfig returns the default build settings.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Precision:       DefaultPrecision,
		MinNormalLength: epsilon,
	}
}

// Def is a serialized hull: unique points and faces given as ordered,
// counter-clockwise vertex index lists.
type Def struct {
	Vertices []v3.Vec `json:"vertices"`
	Faces    [][]int  `json:"faces"`
}

// Build constructs a hull from a triangle soup using DefaultBuildConfig.
func Build(tris []sdf.Triangle3) (*Hull, error) {
	return BuildWithConfig(tris, DefaultBuildConfig())
}

// BuildWithConfig constructs a hull from a triangle soup. Triangles must be
// wound counter-clockwise seen from outside. Coplanar triangles that share
// vertices are merged into one polygonal face and vertices left inside
// merged faces are dropped.
//
// Degenerate triangles are skipped. Fewer than 3 unique vertices yields a
// DegenerateInputError; two faces using the same directed edge, or an open
// mesh with more than one face, yields a TopologyError.
func BuildWithConfig(tris []sdf.Triangle3, cfg BuildConfig) (*Hull, error) {
	scale := math.Pow(10, float64(cfg.Precision))
	round := func(v v3.Vec) v3.Vec {
		return v3.Vec{
			X: math.Round(v.X*scale) / scale,
			Y: math.Round(v.Y*scale) / scale,
			Z: math.Round(v.Z*scale) / scale,
		}
	}

	index := make(map[v3.Vec]int)
	var verts []v3.Vec
	vertexID := func(p v3.Vec) int {
		if i, ok := index[p]; ok {
			return i
		}
		index[p] = len(verts)
		verts = append(verts, p)
		return len(verts) - 1
	}

	groupIndex := make(map[v3.Vec]int)
	var groups [][][3]int
	for _, tri := range tris {
		var pts [3]v3.Vec
		var ids [3]int
		for j := 0; j < 3; j++ {
			pts[j] = round(tri[j])
			ids[j] = vertexID(pts[j])
		}
		if ids[0] == ids[1] || ids[1] == ids[2] || ids[2] == ids[0] {
			continue
		}
		n := pts[1].Sub(pts[0]).Cross(pts[2].Sub(pts[0]))
		if n.Length() < cfg.MinNormalLength {
			continue
		}
		key := round(n.Normalize())
		g, ok := groupIndex[key]
		if !ok {
			g = len(groups)
			groupIndex[key] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], ids)
	}

	if len(verts) < 3 {
		return nil, DegenerateInputError{Face: -1, Reason: fmt.Sprintf("%d unique vertices", len(verts))}
	}

	var polys [][]int
	for _, g := range groups {
		for _, comp := range connectedComponents(g) {
			loop, err := perimeter(comp, len(polys))
			if err != nil {
				return nil, err
			}
			polys = append(polys, loop)
		}
	}
	return fromPolygons(verts, polys, cfg.MinNormalLength)
}

// BuildFromDef constructs a hull from a serialized definition. Points are
// used as given; unreferenced points are dropped.
func BuildFromDef(def Def) (*Hull, error) {
	if len(def.Vertices) < 3 {
		return nil, DegenerateInputError{Face: -1, Reason: fmt.Sprintf("%d unique vertices", len(def.Vertices))}
	}
	polys := make([][]int, len(def.Faces))
	for f, face := range def.Faces {
		if len(face) < 3 {
			return nil, DegenerateInputError{Face: f, Reason: fmt.Sprintf("%d vertices", len(face))}
		}
		for _, v := range face {
			if v < 0 || v >= len(def.Vertices) {
				return nil, DegenerateInputError{Face: f, Reason: fmt.Sprintf("vertex index %d out of range", v)}
			}
		}
		polys[f] = append([]int(nil), face...)
	}
	verts := append([]v3.Vec(nil), def.Vertices...)
	return fromPolygons(verts, polys, epsilon)
}

// NewBox returns an axis-aligned box hull of the given size centered on the
// origin.
func NewBox(size v3.Vec) (*Hull, error) {
	h := size.MulScalar(0.5)
	return BuildFromDef(Def{
		Vertices: []v3.Vec{
			{X: h.X, Y: h.Y, Z: -h.Z},
			{X: -h.X, Y: h.Y, Z: -h.Z},
			{X: -h.X, Y: -h.Y, Z: -h.Z},
			{X: h.X, Y: -h.Y, Z: -h.Z},
			{X: h.X, Y: h.Y, Z: h.Z},
			{X: -h.X, Y: h.Y, Z: h.Z},
			{X: -h.X, Y: -h.Y, Z: h.Z},
			{X: h.X, Y: -h.Y, Z: h.Z},
		},
		Faces: [][]int{
			{1, 2, 6, 5}, // -x
			{4, 7, 3, 0}, // +x
			{3, 7, 6, 2}, // -y
			{0, 1, 5, 4}, // +y
			{4, 5, 6, 7}, // +z
			{0, 3, 2, 1}, // -z
		},
	})
}

// fromPolygons drops orphaned vertices, computes face planes and assembles
// the half-edge structure.
func fromPolygons(verts []v3.Vec, polys [][]int, minNormal float64) (*Hull, error) {
	remap := make([]int, len(verts))
	for i := range remap {
		remap[i] = -1
	}
	for _, poly := range polys {
		for _, v := range poly {
			remap[v] = 0
		}
	}
	var kept []v3.Vec
	for i, v := range verts {
		if remap[i] < 0 {
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, v)
	}
	if len(kept) < 3 {
		return nil, DegenerateInputError{Face: -1, Reason: fmt.Sprintf("%d vertices after removing orphans", len(kept))}
	}

	var faces [][]int
	var planes []Plane
	for f, poly := range polys {
		if len(poly) < 3 {
			return nil, DegenerateInputError{Face: f, Reason: fmt.Sprintf("%d vertices after removing orphans", len(poly))}
		}
		loop := make([]int, len(poly))
		pts := make([]v3.Vec, len(poly))
		for i, v := range poly {
			loop[i] = remap[v]
			pts[i] = kept[loop[i]]
		}
		p, ok := newellPlane(pts, minNormal)
		if !ok {
			continue
		}
		faces = append(faces, loop)
		planes = append(planes, p)
	}
	if len(faces) == 0 {
		return nil, DegenerateInputError{Face: -1, Reason: "no face with a valid normal"}
	}

	edges, faceList, err := assemble(faces)
	if err != nil {
		return nil, err
	}
	h := newHull(kept, faceList, planes, edges)
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// newellPlane computes a polygon's plane with Newell's method.
func newellPlane(pts []v3.Vec, minNormal float64) (Plane, bool) {
	var n, c v3.Vec
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
		c = c.Add(a)
	}
	l := n.Length()
	if l < minNormal {
		return Plane{}, false
	}
	n = n.MulScalar(1 / l)
	c = c.MulScalar(1 / float64(len(pts)))
	return Plane{Normal: n, Offset: n.Dot(c)}, true
}

// assemble links the face loops into twin-paired half-edges. A directed
// edge seen for the first time allocates a twin pair; a later face walking
// the reverse direction claims the waiting twin.
func assemble(faces [][]int) ([]HalfEdge, []Face, error) {
	edgeMap := make(map[[2]int]int)
	var edges []HalfEdge
	faceList := make([]Face, len(faces))

	for f, poly := range faces {
		loop := make([]int, 0, len(poly))
		for i, v1 := range poly {
			v2 := poly[(i+1)%len(poly)]
			if e, ok := edgeMap[[2]int{v1, v2}]; ok {
				if edges[e].Face != noFace {
					return nil, nil, TopologyError{Origin: v1, Dest: v2, Face: f,
						Reason: fmt.Sprintf("directed edge already used by face %d", edges[e].Face)}
				}
				edges[e].Face = f
				loop = append(loop, e)
				continue
			}
			e12 := len(edges)
			edges = append(edges,
				HalfEdge{Origin: v1, Face: f, Twin: e12 + 1},
				HalfEdge{Origin: v2, Face: noFace, Twin: e12},
			)
			edgeMap[[2]int{v1, v2}] = e12
			edgeMap[[2]int{v2, v1}] = e12 + 1
			loop = append(loop, e12)
		}
		for i, e := range loop {
			edges[e].Next = loop[(i+1)%len(loop)]
			edges[e].Prev = loop[(i+len(loop)-1)%len(loop)]
		}
		faceList[f] = Face{Edge: loop[0]}
	}

	if len(faces) == 1 {
		linkBackFace(edges, faceList[0].Edge)
		return edges, faceList, nil
	}
	for i, e := range edges {
		if e.Face == noFace {
			return nil, nil, TopologyError{Origin: e.Origin, Dest: edges[e.Twin].Origin, Face: edges[e.Twin].Face,
				Reason: fmt.Sprintf("half-edge %d has no neighboring face", i)}
		}
	}
	return edges, faceList, nil
}

// linkBackFace stitches the unclaimed twins of a single-face hull into a
// reversed loop assigned to face 0.
func linkBackFace(edges []HalfEdge, start int) {
	e := start
	for {
		t := edges[e].Twin
		edges[t].Face = 0
		edges[t].Next = edges[edges[e].Prev].Twin
		edges[t].Prev = edges[edges[e].Next].Twin
		e = edges[e].Next
		if e == start {
			break
		}
	}
}
