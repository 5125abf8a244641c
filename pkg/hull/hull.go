package hull

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// noFace marks a half-edge whose face slot has not been claimed yet.
const noFace = -1

// HalfEdge is one directed edge of a face loop.
type HalfEdge struct {
	Origin int `json:"origin"` // vertex the edge starts at
	Face   int `json:"face"`
	Twin   int `json:"twin"`
	Next   int `json:"next"`
	Prev   int `json:"prev"`
}

// Face refers to one half-edge of its loop.
type Face struct {
	Edge int `json:"edge"`
}

// Hull is an immutable convex polyhedron stored as a half-edge mesh.
//
// Queries on a Hull assume the invariants established by the builder
// (see Validate). A Hull assembled any other way is not supported.
type Hull struct {
	vertices []v3.Vec
	faces    []Face
	planes   []Plane
	edges    []HalfEdge

	centroid v3.Vec
	radius   float64
}

// VertexCount returns the number of vertices.
func (h *Hull) VertexCount() int { return len(h.vertices) }

// Vertex returns the local position of vertex i.
func (h *Hull) Vertex(i int) v3.Vec { return h.vertices[i] }

// FaceCount returns the number of faces.
func (h *Hull) FaceCount() int { return len(h.faces) }

// Face returns face i.
func (h *Hull) Face(i int) Face { return h.faces[i] }

// Plane returns the local plane of face i.
func (h *Hull) Plane(i int) Plane { return h.planes[i] }

// EdgeCount returns the number of half-edges. It is always even.
func (h *Hull) EdgeCount() int { return len(h.edges) }

// Edge returns half-edge i.
func (h *Hull) Edge(i int) HalfEdge { return h.edges[i] }

// Centroid returns the average of the hull's vertices in local space.
func (h *Hull) Centroid() v3.Vec { return h.centroid }

// FaceVertices returns the vertex indices of face f in loop order.
func (h *Hull) FaceVertices(f int) []int {
	var out []int
	start := h.faces[f].Edge
	e := start
	for {
		out = append(out, h.edges[e].Origin)
		e = h.edges[e].Next
		if e == start || len(out) > len(h.edges) {
			break
		}
	}
	return out
}

// SupportIndex returns the index of the vertex furthest along dir.
func (h *Hull) SupportIndex(dir v3.Vec) int {
	best := 0
	bestDot := math.Inf(-1)
	for i, v := range h.vertices {
		if d := v.Dot(dir); d > bestDot {
			best = i
			bestDot = d
		}
	}
	return best
}

// Support returns the vertex furthest along dir, in local space.
func (h *Hull) Support(dir v3.Vec) v3.Vec {
	return h.vertices[h.SupportIndex(dir)]
}

// Bounds returns the axis-aligned bounding box of the hull under t.
func (h *Hull) Bounds(t Transform) sdf.Box3 {
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range h.vertices {
		p := t.Point(v)
		lo = v3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = v3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return sdf.Box3{Min: lo, Max: hi}
}

// BoundingSphere returns a sphere around the centroid enclosing the hull
// under t.
func (h *Hull) BoundingSphere(t Transform) (center v3.Vec, radius float64) {
	return t.Point(h.centroid), h.radius
}

// IsConvex reports whether every vertex lies on or behind every face plane,
// within tol.
func (h *Hull) IsConvex(tol float64) bool {
	for _, p := range h.planes {
		for _, v := range h.vertices {
			if p.Distance(v) > tol {
				return false
			}
		}
	}
	return true
}

// Def returns the hull as a serialized definition. Single-face hulls list
// only the front loop.
func (h *Hull) Def() Def {
	def := Def{
		Vertices: append([]v3.Vec(nil), h.vertices...),
		Faces:    make([][]int, len(h.faces)),
	}
	for f := range h.faces {
		def.Faces[f] = h.FaceVertices(f)
	}
	return def
}

// Transformed returns a copy of the hull with t baked into its vertices.
// The face structure is kept and the planes are recomputed, so a rigid t
// preserves convexity exactly where rotating the source triangles and
// building again would not.
func (h *Hull) Transformed(t Transform) (*Hull, error) {
	def := h.Def()
	for i, v := range def.Vertices {
		def.Vertices[i] = t.Point(v)
	}
	return BuildFromDef(def)
}

// newHull finishes construction by computing the derived quantities.
func newHull(vertices []v3.Vec, faces []Face, planes []Plane, edges []HalfEdge) *Hull {
	h := &Hull{vertices: vertices, faces: faces, planes: planes, edges: edges}
	var sum v3.Vec
	for _, v := range vertices {
		sum = sum.Add(v)
	}
	h.centroid = sum.MulScalar(1 / float64(len(vertices)))
	for _, v := range vertices {
		h.radius = math.Max(h.radius, v.Sub(h.centroid).Length())
	}
	return h
}

// IsBackEdge reports whether half-edge e belongs to the synthetic back
// loop of a single-face hull.
func (h *Hull) IsBackEdge(e int) bool {
	return len(h.faces) == 1 && e%2 == 1
}

// EdgePlane returns the plane of the face on half-edge e's side. Back loop
// edges of a single-face hull see the face plane flipped.
func (h *Hull) EdgePlane(e int) Plane {
	p := h.planes[h.edges[e].Face]
	if h.IsBackEdge(e) {
		return p.Flipped()
	}
	return p
}

// FaceLoop returns the half-edge that starts face f's loop. When back is set
// on a single-face hull it returns the start of the back loop instead.
func (h *Hull) FaceLoop(f int, back bool) int {
	e := h.faces[f].Edge
	if back && len(h.faces) == 1 {
		return h.edges[e].Twin
	}
	return e
}
