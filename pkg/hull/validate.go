package hull

import (
	"fmt"
	"math"
)

// Validate checks the structural invariants of the hull: twin symmetry,
// closed face loops with next/prev as inverses, index ranges and unit
// plane normals. Build runs it on every hull it returns.
func (h *Hull) Validate() error {
	if len(h.edges)%2 != 0 {
		return h.invalid(-1, "odd half-edge count %d", len(h.edges))
	}
	if len(h.planes) != len(h.faces) {
		return h.invalid(-1, "%d planes for %d faces", len(h.planes), len(h.faces))
	}
	for f, p := range h.planes {
		if math.Abs(p.Normal.Length()-1) > 1e-6 {
			return h.invalid(f, "plane normal is not unit length")
		}
	}

	for i, e := range h.edges {
		switch {
		case e.Origin < 0 || e.Origin >= len(h.vertices):
			return h.invalid(e.Face, "half-edge %d origin %d out of range", i, e.Origin)
		case e.Face < 0 || e.Face >= len(h.faces):
			return h.invalid(-1, "half-edge %d face %d out of range", i, e.Face)
		case e.Twin < 0 || e.Twin >= len(h.edges) || h.edges[e.Twin].Twin != i:
			return h.invalid(e.Face, "half-edge %d twin is not symmetric", i)
		case e.Next < 0 || e.Next >= len(h.edges) || h.edges[e.Next].Prev != i:
			return h.invalid(e.Face, "half-edge %d next/prev mismatch", i)
		case e.Prev < 0 || e.Prev >= len(h.edges) || h.edges[e.Prev].Next != i:
			return h.invalid(e.Face, "half-edge %d prev/next mismatch", i)
		case h.edges[e.Next].Origin != h.edges[e.Twin].Origin:
			return h.invalid(e.Face, "half-edge %d does not end where its successor starts", i)
		}
	}

	for f, face := range h.faces {
		if face.Edge < 0 || face.Edge >= len(h.edges) {
			return h.invalid(f, "start edge %d out of range", face.Edge)
		}
		n := 0
		e := face.Edge
		for {
			if h.edges[e].Face != f {
				return h.invalid(f, "half-edge %d in loop belongs to face %d", e, h.edges[e].Face)
			}
			n++
			e = h.edges[e].Next
			if e == face.Edge {
				break
			}
			if n > len(h.edges) {
				return h.invalid(f, "loop does not close")
			}
		}
		if n < 3 {
			return h.invalid(f, "loop has %d edges", n)
		}
	}
	return nil
}

func (h *Hull) invalid(face int, format string, args ...any) error {
	return TopologyError{Origin: -1, Dest: -1, Face: face, Reason: fmt.Sprintf(format, args...)}
}
