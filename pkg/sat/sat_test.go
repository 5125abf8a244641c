package sat_test

import (
	"math"
	"testing"

	"github.com/chazu/hullsat/pkg/hull"
	"github.com/chazu/hullsat/pkg/sat"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func vecAlmostEqual(a, b v3.Vec, tol float64) bool {
	return almostEqual(a.X, b.X, tol) && almostEqual(a.Y, b.Y, tol) && almostEqual(a.Z, b.Z, tol)
}

// unitBox returns a box with half-extent 1.
func unitBox(t *testing.T) *hull.Hull {
	t.Helper()
	h, err := hull.NewBox(v3.Vec{X: 2, Y: 2, Z: 2})
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	return h
}

// prism returns an n-sided prism of the given radius and height.
func prism(t *testing.T, n int, radius, height float64) *hull.Hull {
	t.Helper()
	var def hull.Def
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x, y := radius*math.Cos(a), radius*math.Sin(a)
		def.Vertices = append(def.Vertices,
			v3.Vec{X: x, Y: y, Z: -height / 2},
			v3.Vec{X: x, Y: y, Z: height / 2},
		)
	}
	var top, bottom []int
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		def.Faces = append(def.Faces, []int{2 * i, 2 * j, 2*j + 1, 2*i + 1})
		top = append(top, 2*i+1)
		bottom = append(bottom, 2*(n-1-i))
	}
	def.Faces = append(def.Faces, top, bottom)
	h, err := hull.BuildFromDef(def)
	if err != nil {
		t.Fatalf("BuildFromDef failed: %v", err)
	}
	return h
}

func at(x, y, z float64) hull.Transform {
	return hull.Translation(v3.Vec{X: x, Y: y, Z: z})
}

// ---------------------------------------------------------------------------
// Face queries and IsColliding
// ---------------------------------------------------------------------------

func TestSelfCollision(t *testing.T) {
	shapes := map[string]*hull.Hull{
		"box":      unitBox(t),
		"hexagon":  prism(t, 6, 1, 2),
		"triangle": prism(t, 3, 1, 0.5),
		"round":    prism(t, 24, 2, 1),
	}
	transforms := []hull.Transform{
		hull.Identity(),
		at(3, -2, 7),
		hull.TransformFromEuler(v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: 10, Y: 20, Z: 30}),
	}
	for name, h := range shapes {
		t.Run(name, func(t *testing.T) {
			for i, tr := range transforms {
				if !sat.IsColliding(tr, h, tr, h) {
					t.Errorf("transform %d: hull does not collide with itself", i)
				}
			}
		})
	}
}

func TestOverlappingBoxes(t *testing.T) {
	box := unitBox(t)
	t1, t2 := hull.Identity(), at(1.5, 0, 0)

	fq := sat.FaceQuery(t1, box, t2, box)
	if !almostEqual(fq.Distance, -0.5, 1e-9) {
		t.Errorf("face distance = %g, want -0.5", fq.Distance)
	}
	if n := box.Plane(fq.Index).Normal; !vecAlmostEqual(n, v3.Vec{X: 1}, 1e-12) {
		t.Errorf("face normal = %v, want +x", n)
	}
	if !sat.IsColliding(t1, box, t2, box) {
		t.Error("expected collision")
	}
}

func TestSeparatedBoxes(t *testing.T) {
	box := unitBox(t)
	t1, t2 := hull.Identity(), at(3, 0, 0)

	if sat.IsColliding(t1, box, t2, box) {
		t.Fatal("expected no collision")
	}
	fq := sat.FaceQuery(t1, box, t2, box)
	if !almostEqual(fq.Distance, 1, 1e-9) {
		t.Errorf("face distance = %g, want 1", fq.Distance)
	}
	r := sat.Query(t1, box, t2, box, sat.DefaultConfig())
	if r.Colliding {
		t.Error("Query reports collision")
	}
	if !almostEqual(r.Separation(), 1, 1e-9) {
		t.Errorf("Separation = %g, want 1", r.Separation())
	}
}

func TestSeparationAlongEachAxis(t *testing.T) {
	box := unitBox(t)
	tests := []struct {
		name    string
		t2      hull.Transform
		collide bool
		gap     float64
	}{
		{"x gap", at(2.25, 0, 0), false, 0.25},
		{"y gap", at(0, -4, 0), false, 2},
		{"z overlap", at(0, 0, 1.9), true, -0.1},
		{"touching", at(0, 2, 0), true, 0},
		{"diagonal", at(1.5, 1.5, 1.5), true, -0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := sat.Query(hull.Identity(), box, tc.t2, box, sat.DefaultConfig())
			if r.Colliding != tc.collide {
				t.Errorf("Colliding = %v, want %v", r.Colliding, tc.collide)
			}
			if got := sat.IsColliding(hull.Identity(), box, tc.t2, box); got != tc.collide {
				t.Errorf("IsColliding = %v, want %v", got, tc.collide)
			}
			if !almostEqual(r.Separation(), tc.gap, 1e-9) {
				t.Errorf("Separation = %g, want %g", r.Separation(), tc.gap)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Edge queries
// ---------------------------------------------------------------------------

// crossedRidges places two boxes so that a horizontal ridge of the first
// crosses a ridge of the second rotated a quarter turn, overlapping by
// depth along +y.
func crossedRidges(depth float64) (hull.Transform, hull.Transform) {
	t1 := hull.TransformFromEuler(v3.Vec{}, v3.Vec{X: 45})
	t2 := hull.TransformFromEuler(v3.Vec{Y: 2*math.Sqrt2 - depth}, v3.Vec{Z: 45})
	return t1, t2
}

func TestEdgeQueryCrossedRidges(t *testing.T) {
	box := unitBox(t)
	t1, t2 := crossedRidges(0.1)

	eq := sat.EdgeQuery(t1, box, t2, box)
	if !eq.Valid() {
		t.Fatal("no edge pair found")
	}
	if !almostEqual(eq.Distance, -0.1, 1e-9) {
		t.Errorf("edge distance = %g, want -0.1", eq.Distance)
	}
	if eq.Index1%2 != 0 || eq.Index2%2 != 0 {
		t.Errorf("expected representative (even) edges, got %d, %d", eq.Index1, eq.Index2)
	}

	fq := sat.FaceQuery(t1, box, t2, box)
	if fq.Distance > -0.5 {
		t.Errorf("face distance = %g, expected a much deeper face axis", fq.Distance)
	}
	if !sat.IsColliding(t1, box, t2, box) {
		t.Error("expected collision")
	}

	t1, t2 = crossedRidges(-0.1)
	if sat.IsColliding(t1, box, t2, box) {
		t.Error("ridges 0.1 apart reported as colliding")
	}
	if eq := sat.EdgeQuery(t1, box, t2, box); !almostEqual(eq.Distance, 0.1, 1e-9) {
		t.Errorf("separated edge distance = %g, want 0.1", eq.Distance)
	}
}

func TestEdgeQueryParallelEdges(t *testing.T) {
	box := unitBox(t)
	// Aligned boxes have no crossing Gauss map arcs.
	eq := sat.EdgeQuery(hull.Identity(), box, at(1.5, 0.5, 0), box)
	if eq.Valid() {
		t.Errorf("unexpected edge pair %d/%d", eq.Index1, eq.Index2)
	}
	if eq.Distance != -math.MaxFloat64 {
		t.Errorf("distance = %g", eq.Distance)
	}
}

func TestIsMinkowskiFace(t *testing.T) {
	x := v3.Vec{X: 1}
	y := v3.Vec{Y: 1}
	z := v3.Vec{Z: 1}
	nx, ny := x.Neg(), y.Neg()

	// Two quarter arcs crossing at +y.
	a, b := y.Add(z).Normalize(), y.Sub(z).Normalize()
	c, d := y.Add(x).Normalize(), y.Sub(x).Normalize()
	if !sat.IsMinkowskiFace(a, b, b.Cross(a), c, d, d.Cross(c)) {
		t.Error("crossing arcs not detected")
	}
	if sat.IsMinkowskiFace(y, z, z.Cross(y), nx, ny, ny.Cross(nx)) {
		t.Error("disjoint arcs reported as crossing")
	}
}

// ---------------------------------------------------------------------------
// Flat hulls
// ---------------------------------------------------------------------------

func TestFlatHullBothSides(t *testing.T) {
	disk, err := hull.BuildFromDef(hull.Def{
		Vertices: []v3.Vec{{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 2}, {X: -2, Y: 2}},
		Faces:    [][]int{{0, 1, 2, 3}},
	})
	if err != nil {
		t.Fatalf("BuildFromDef failed: %v", err)
	}
	box := unitBox(t)
	tilt := v3.Vec{X: 30, Y: 20}

	tests := []struct {
		name    string
		z       float64
		collide bool
		back    bool
	}{
		{"above", 3, false, false},
		{"below", -3, false, true},
		{"through", 0.5, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tb := hull.TransformFromEuler(v3.Vec{Z: tc.z}, tilt)
			if got := sat.IsColliding(hull.Identity(), disk, tb, box); got != tc.collide {
				t.Errorf("IsColliding = %v, want %v", got, tc.collide)
			}
			if !tc.collide {
				fq := sat.FaceQuery(hull.Identity(), disk, tb, box)
				if fq.Back != tc.back {
					t.Errorf("Back = %v, want %v", fq.Back, tc.back)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Point queries
// ---------------------------------------------------------------------------

func TestContains(t *testing.T) {
	box := unitBox(t)
	tr := at(10, 0, 0)
	tests := []struct {
		p    v3.Vec
		want bool
	}{
		{v3.Vec{X: 10}, true},
		{v3.Vec{X: 11}, true},
		{v3.Vec{X: 10.5, Y: 0.9, Z: -0.9}, true},
		{v3.Vec{X: 11.01}, false},
		{v3.Vec{}, false},
	}
	for _, tc := range tests {
		if got := sat.Contains(tr, box, tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestClosestPoint(t *testing.T) {
	box := unitBox(t)
	tests := []struct {
		name string
		p    v3.Vec
		want v3.Vec
	}{
		{"face", v3.Vec{X: 3}, v3.Vec{X: 1}},
		{"edge", v3.Vec{X: 3, Y: 3}, v3.Vec{X: 1, Y: 1}},
		{"corner", v3.Vec{X: 3, Y: 3, Z: 3}, v3.Vec{X: 1, Y: 1, Z: 1}},
		{"inside", v3.Vec{X: 0.5, Y: 0.1}, v3.Vec{X: 1, Y: 0.1}},
		{"above face", v3.Vec{X: 0.2, Y: 0.3, Z: 5}, v3.Vec{X: 0.2, Y: 0.3, Z: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sat.ClosestPoint(hull.Identity(), box, tc.p); !vecAlmostEqual(got, tc.want, 1e-9) {
				t.Errorf("ClosestPoint = %v, want %v", got, tc.want)
			}
		})
	}

	tr := hull.TransformFromEuler(v3.Vec{Y: 4}, v3.Vec{Z: 90})
	got := sat.ClosestPoint(tr, box, v3.Vec{Y: 8})
	if !vecAlmostEqual(got, v3.Vec{Y: 5}, 1e-9) {
		t.Errorf("transformed ClosestPoint = %v, want (0,5,0)", got)
	}
}
