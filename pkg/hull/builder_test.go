package hull

import (
	"errors"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var cubeFaces = [][]int{
	{1, 2, 6, 5},
	{4, 7, 3, 0},
	{3, 7, 6, 2},
	{0, 1, 5, 4},
	{4, 5, 6, 7},
	{0, 3, 2, 1},
}

func cubeCorners(half float64) []v3.Vec {
	return []v3.Vec{
		{X: half, Y: half, Z: -half},
		{X: -half, Y: half, Z: -half},
		{X: -half, Y: -half, Z: -half},
		{X: half, Y: -half, Z: -half},
		{X: half, Y: half, Z: half},
		{X: -half, Y: half, Z: half},
		{X: -half, Y: -half, Z: half},
		{X: half, Y: -half, Z: half},
	}
}

// fan triangulates a convex polygon from its first vertex.
func fan(pts []v3.Vec, face []int) []sdf.Triangle3 {
	var tris []sdf.Triangle3
	for i := 1; i+1 < len(face); i++ {
		tris = append(tris, sdf.Triangle3{pts[face[0]], pts[face[i]], pts[face[i+1]]})
	}
	return tris
}

func cubeTriangles(half float64) []sdf.Triangle3 {
	pts := cubeCorners(half)
	var tris []sdf.Triangle3
	for _, f := range cubeFaces {
		tris = append(tris, fan(pts, f)...)
	}
	return tris
}

func mustBuild(t *testing.T, tris []sdf.Triangle3) *Hull {
	t.Helper()
	h, err := Build(tris)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return h
}

func checkTwins(t *testing.T, h *Hull, singleFace bool) {
	t.Helper()
	for i := 0; i < h.EdgeCount(); i++ {
		e := h.Edge(i)
		if h.Edge(e.Twin).Twin != i {
			t.Errorf("edge %d: twin(twin) = %d", i, h.Edge(e.Twin).Twin)
		}
		if !singleFace && h.Edge(e.Twin).Face == e.Face {
			t.Errorf("edge %d: twin shares face %d", i, e.Face)
		}
	}
}

// ---------------------------------------------------------------------------
// Triangle soup builds
// ---------------------------------------------------------------------------

func TestBuildCube(t *testing.T) {
	h := mustBuild(t, cubeTriangles(1))

	if h.FaceCount() != 6 {
		t.Errorf("expected 6 faces, got %d", h.FaceCount())
	}
	if h.VertexCount() != 8 {
		t.Errorf("expected 8 vertices, got %d", h.VertexCount())
	}
	if h.EdgeCount() != 24 {
		t.Errorf("expected 24 half-edges, got %d", h.EdgeCount())
	}
	for f := 0; f < h.FaceCount(); f++ {
		if n := len(h.FaceVertices(f)); n != 4 {
			t.Errorf("face %d: expected 4 vertices, got %d", f, n)
		}
	}
	if !h.IsConvex(1e-9) {
		t.Error("cube is not convex")
	}
	checkTwins(t, h, false)
}

func TestBuildPlanesPointOutward(t *testing.T) {
	h := mustBuild(t, cubeTriangles(1))
	for f := 0; f < h.FaceCount(); f++ {
		p := h.Plane(f)
		if !almostEqual(p.Offset, 1, 1e-9) {
			t.Errorf("face %d: offset = %g, want 1", f, p.Offset)
		}
		if p.Distance(h.Centroid()) >= 0 {
			t.Errorf("face %d: centroid is in front of the plane", f)
		}
	}
}

func TestBuildRemovesInteriorVertices(t *testing.T) {
	pts := cubeCorners(1)
	var tris []sdf.Triangle3
	for _, f := range cubeFaces[:4] {
		tris = append(tris, fan(pts, f)...)
	}
	// Top face as a fan around its center.
	center := v3.Vec{X: 0, Y: 0, Z: 1}
	top := cubeFaces[4]
	for i := range top {
		a := pts[top[i]]
		b := pts[top[(i+1)%len(top)]]
		tris = append(tris, sdf.Triangle3{center, a, b})
	}
	tris = append(tris, fan(pts, cubeFaces[5])...)

	h := mustBuild(t, tris)
	if h.VertexCount() != 8 {
		t.Errorf("expected 8 vertices after orphan removal, got %d", h.VertexCount())
	}
	if h.FaceCount() != 6 {
		t.Errorf("expected 6 faces, got %d", h.FaceCount())
	}
	for i := 0; i < h.VertexCount(); i++ {
		if h.Vertex(i) == center {
			t.Error("interior vertex survived")
		}
	}
}

func TestBuildWeldsNearCoincidentVertices(t *testing.T) {
	tris := cubeTriangles(1)
	for i := range tris {
		tris[i][0].X += 0.0001
	}
	h := mustBuild(t, tris)
	if h.VertexCount() != 8 {
		t.Errorf("expected 8 vertices, got %d", h.VertexCount())
	}
}

func TestBuildTetrahedron(t *testing.T) {
	a := v3.Vec{X: 0, Y: 0, Z: 0}
	b := v3.Vec{X: 1, Y: 0, Z: 0}
	c := v3.Vec{X: 0, Y: 1, Z: 0}
	d := v3.Vec{X: 0, Y: 0, Z: 1}
	h := mustBuild(t, []sdf.Triangle3{
		{a, c, b},
		{a, b, d},
		{a, d, c},
		{b, c, d},
	})
	if h.FaceCount() != 4 || h.VertexCount() != 4 || h.EdgeCount() != 12 {
		t.Errorf("got %d faces, %d vertices, %d half-edges", h.FaceCount(), h.VertexCount(), h.EdgeCount())
	}
	if !h.IsConvex(1e-9) {
		t.Error("tetrahedron is not convex")
	}
	checkTwins(t, h, false)
}

func TestBuildSingleFace(t *testing.T) {
	pts := []v3.Vec{
		{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1},
	}
	h := mustBuild(t, fan(pts, []int{0, 1, 2, 3}))

	if h.FaceCount() != 1 {
		t.Fatalf("expected 1 face, got %d", h.FaceCount())
	}
	if h.EdgeCount() != 8 {
		t.Errorf("expected 8 half-edges, got %d", h.EdgeCount())
	}
	if n := h.Plane(0).Normal; !vecAlmostEqual(n, v3.Vec{Z: 1}, 1e-9) {
		t.Errorf("normal = %v, want +z", n)
	}
	for i := 0; i < h.EdgeCount(); i++ {
		if f := h.Edge(i).Face; f != 0 {
			t.Errorf("edge %d: face %d, want 0", i, f)
		}
	}
	checkTwins(t, h, true)

	// The back loop runs the other way round.
	back := h.Edge(h.Face(0).Edge).Twin
	steps := 0
	for e := back; ; {
		steps++
		next := h.Edge(e).Next
		if h.Edge(next).Origin != h.Edge(h.Edge(e).Twin).Origin {
			t.Fatalf("back loop broken at edge %d", e)
		}
		e = next
		if e == back || steps > h.EdgeCount() {
			break
		}
	}
	if steps != 4 {
		t.Errorf("back loop has %d edges, want 4", steps)
	}
}

// ---------------------------------------------------------------------------
// Failure modes
// ---------------------------------------------------------------------------

func TestBuildErrors(t *testing.T) {
	p := v3.Vec{X: 1, Y: 2, Z: 3}
	q := v3.Vec{X: 2, Y: 2, Z: 3}

	flipped := cubeTriangles(1)
	for i := 8; i < 10; i++ {
		flipped[i][1], flipped[i][2] = flipped[i][2], flipped[i][1]
	}

	tests := []struct {
		name   string
		tris   []sdf.Triangle3
		target error
	}{
		{"empty", nil, ErrDegenerateInput},
		{"single point", []sdf.Triangle3{{p, p, p}}, ErrDegenerateInput},
		{"two points", []sdf.Triangle3{{p, q, p}, {q, p, q}}, ErrDegenerateInput},
		{"collinear", []sdf.Triangle3{{p, q, q.MulScalar(2).Sub(p)}}, ErrDegenerateInput},
		{"open mesh", cubeTriangles(1)[:10], ErrTopology},
		{"flipped face", flipped, ErrTopology},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.tris)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestTopologyErrorAs(t *testing.T) {
	_, err := Build(cubeTriangles(1)[:10])
	var te TopologyError
	if !errors.As(err, &te) {
		t.Fatalf("expected TopologyError, got %T", err)
	}
	if te.Reason == "" {
		t.Error("empty reason")
	}
}

// ---------------------------------------------------------------------------
// Definitions and generators
// ---------------------------------------------------------------------------

func TestBuildFromDef(t *testing.T) {
	h, err := BuildFromDef(Def{Vertices: cubeCorners(0.5), Faces: cubeFaces})
	if err != nil {
		t.Fatalf("BuildFromDef failed: %v", err)
	}
	if h.FaceCount() != 6 || h.EdgeCount() != 24 {
		t.Errorf("got %d faces, %d half-edges", h.FaceCount(), h.EdgeCount())
	}

	bad := []Def{
		{Vertices: cubeCorners(1)[:2], Faces: [][]int{{0, 1, 0}}},
		{Vertices: cubeCorners(1), Faces: [][]int{{0, 1}}},
		{Vertices: cubeCorners(1), Faces: [][]int{{0, 1, 42}}},
	}
	for i, def := range bad {
		if _, err := BuildFromDef(def); !errors.Is(err, ErrDegenerateInput) {
			t.Errorf("def %d: expected degenerate input error, got %v", i, err)
		}
	}
}

func TestBuildFromDefDropsUnusedPoints(t *testing.T) {
	pts := append(cubeCorners(1), v3.Vec{X: 5, Y: 5, Z: 5})
	h, err := BuildFromDef(Def{Vertices: pts, Faces: cubeFaces})
	if err != nil {
		t.Fatalf("BuildFromDef failed: %v", err)
	}
	if h.VertexCount() != 8 {
		t.Errorf("expected 8 vertices, got %d", h.VertexCount())
	}
}

func TestNewBox(t *testing.T) {
	h, err := NewBox(v3.Vec{X: 2, Y: 4, Z: 6})
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	want := map[v3.Vec]float64{
		{X: 1}: 1, {X: -1}: 1,
		{Y: 1}: 2, {Y: -1}: 2,
		{Z: 1}: 3, {Z: -1}: 3,
	}
	for f := 0; f < h.FaceCount(); f++ {
		p := h.Plane(f)
		off, ok := want[p.Normal]
		if !ok {
			t.Errorf("face %d: unexpected normal %v", f, p.Normal)
			continue
		}
		if !almostEqual(p.Offset, off, 1e-12) {
			t.Errorf("face %d: offset %g, want %g", f, p.Offset, off)
		}
		delete(want, p.Normal)
	}
	if len(want) != 0 {
		t.Errorf("missing normals: %v", want)
	}

	if _, err := NewBox(v3.Vec{}); err == nil {
		t.Error("expected error for zero-size box")
	}
}
