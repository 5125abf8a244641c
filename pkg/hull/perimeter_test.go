package hull

import (
	"errors"
	"testing"
)

// rotateToMin rotates a loop so it starts at its smallest index.
func rotateToMin(loop []int) []int {
	m := 0
	for i, v := range loop {
		if v < loop[m] {
			m = i
		}
	}
	return append(append([]int(nil), loop[m:]...), loop[:m]...)
}

func TestPerimeter(t *testing.T) {
	tests := []struct {
		name string
		tris [][3]int
		want []int
	}{
		{"triangle", [][3]int{{0, 1, 2}}, []int{0, 1, 2}},
		{"quad", [][3]int{{0, 1, 2}, {0, 2, 3}}, []int{0, 1, 2, 3}},
		{"quad out of order", [][3]int{{2, 3, 0}, {1, 2, 0}}, []int{0, 1, 2, 3}},
		{"fan", [][3]int{{4, 0, 1}, {4, 1, 2}, {4, 2, 3}, {4, 3, 0}}, []int{0, 1, 2, 3}},
		{"strip", [][3]int{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}, {4, 3, 5}}, []int{0, 1, 3, 5, 4, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := perimeter(tc.tris, 0)
			if err != nil {
				t.Fatalf("perimeter failed: %v", err)
			}
			got = rotateToMin(got)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestPerimeterRejectsSplitBoundary(t *testing.T) {
	// Two triangles touching at vertex 0 form a figure eight.
	_, err := perimeter([][3]int{{0, 1, 2}, {0, 3, 4}}, 3)
	if !errors.Is(err, ErrTopology) {
		t.Fatalf("expected topology error, got %v", err)
	}
}

func TestConnectedComponents(t *testing.T) {
	comps := connectedComponents([][3]int{
		{0, 1, 2},
		{5, 6, 7},
		{2, 3, 0},
		{7, 8, 5},
	})
	if len(comps) != 2 {
		t.Fatalf("expected 2 components, got %d", len(comps))
	}
	if len(comps[0]) != 2 || len(comps[1]) != 2 {
		t.Errorf("component sizes %d, %d", len(comps[0]), len(comps[1]))
	}
	if comps[0][0] != [3]int{0, 1, 2} {
		t.Errorf("first component starts with %v", comps[0][0])
	}
}
