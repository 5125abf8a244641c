package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/hullsat/pkg/hull"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func boxBody(t *testing.T, name string, at v3.Vec) *Body {
	t.Helper()
	size := v3.Vec{X: 2, Y: 2, Z: 2}
	h, err := hull.NewBox(size)
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}
	return &Body{
		Name:      name,
		Shape:     Shape{Kind: ShapeBox, Size: size},
		Hull:      h,
		Transform: hull.Translation(at),
	}
}

// threeBoxes creates a scene with boxes a, b and c along X.
func threeBoxes(t *testing.T) *Scene {
	t.Helper()
	s := New()
	for i, name := range []string{"a", "b", "c"} {
		if err := s.AddBody(boxBody(t, name, v3.Vec{X: 3 * float64(i)})); err != nil {
			t.Fatalf("AddBody(%q) failed: %v", name, err)
		}
	}
	return s
}

// hasFinding returns true if errs contains a finding of the given severity
// whose message contains substr.
func hasFinding(errs []ValidationError, sev ValidationSeverity, substr string) bool {
	for _, e := range errs {
		if e.Severity == sev && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Scene
// ---------------------------------------------------------------------------

func TestNewScene(t *testing.T) {
	s := New()
	if s.Bodies == nil {
		t.Fatal("Bodies map should be initialized")
	}
	if s.BodyCount() != 0 {
		t.Errorf("empty scene should have 0 bodies, got %d", s.BodyCount())
	}
	if s.Defaults.Build.Precision != hull.DefaultPrecision {
		t.Errorf("default precision = %d, want %d", s.Defaults.Build.Precision, hull.DefaultPrecision)
	}
	if s.Defaults.Contact.MaxPoints != 4 {
		t.Errorf("default max points = %d, want 4", s.Defaults.Contact.MaxPoints)
	}
}

func TestAddBodyAndLookup(t *testing.T) {
	s := threeBoxes(t)
	if s.BodyCount() != 3 {
		t.Errorf("body count = %d, want 3", s.BodyCount())
	}
	if b := s.Lookup("b"); b == nil || b.Name != "b" {
		t.Fatalf("Lookup(%q) = %v", "b", b)
	}
	if s.Lookup("missing") != nil {
		t.Error("Lookup of unknown name should return nil")
	}
	if got := s.MustLookup("c").Position(); got != (v3.Vec{X: 6}) {
		t.Errorf("c position = %v, want (6,0,0)", got)
	}

	if err := s.AddBody(boxBody(t, "a", v3.Vec{})); err == nil {
		t.Error("expected error for duplicate name")
	}
	if err := s.AddBody(boxBody(t, "", v3.Vec{})); err == nil {
		t.Error("expected error for empty name")
	}
	if s.BodyCount() != 3 {
		t.Errorf("failed adds changed body count to %d", s.BodyCount())
	}
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup should panic for unknown name")
		}
	}()
	New().MustLookup("nope")
}

func TestListKeepsInsertionOrder(t *testing.T) {
	s := New()
	names := []string{"zeta", "alpha", "mid"}
	for i, n := range names {
		if err := s.AddBody(boxBody(t, n, v3.Vec{Y: 5 * float64(i)})); err != nil {
			t.Fatal(err)
		}
	}
	for i, b := range s.List() {
		if b.Name != names[i] {
			t.Errorf("List()[%d] = %q, want %q", i, b.Name, names[i])
		}
	}
}

func TestPairs(t *testing.T) {
	s := threeBoxes(t)
	want := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	pairs := s.Pairs()
	if len(pairs) != len(want) {
		t.Fatalf("got %d pairs, want %d", len(pairs), len(want))
	}
	for i, p := range pairs {
		if p.A.Name != want[i][0] || p.B.Name != want[i][1] {
			t.Errorf("pair %d = (%s, %s), want %v", i, p.A.Name, p.B.Name, want[i])
		}
	}
	if n := len(New().Pairs()); n != 0 {
		t.Errorf("empty scene has %d pairs", n)
	}
}

func TestWorldBounds(t *testing.T) {
	b := boxBody(t, "a", v3.Vec{X: 10, Y: -1})
	bb := b.WorldBounds()
	wantMin := v3.Vec{X: 9, Y: -2, Z: -1}
	wantMax := v3.Vec{X: 11, Y: 0, Z: 1}
	if math.Abs(bb.Min.Sub(wantMin).Length()) > 1e-12 || math.Abs(bb.Max.Sub(wantMax).Length()) > 1e-12 {
		t.Errorf("bounds = %v..%v, want %v..%v", bb.Min, bb.Max, wantMin, wantMax)
	}
}

func TestShapeKindString(t *testing.T) {
	tests := []struct {
		kind ShapeKind
		want string
	}{
		{ShapeBox, "box"},
		{ShapeCylinder, "cylinder"},
		{ShapeCone, "cone"},
		{ShapeDisk, "disk"},
		{ShapePolyhedron, "polyhedron"},
		{ShapeKind(42), "ShapeKind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ShapeKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}
