package sat

import (
	"math"

	"github.com/chazu/hullsat/pkg/hull"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Contains reports whether the world-space point lies inside or on the hull.
func Contains(t hull.Transform, h *hull.Hull, point v3.Vec) bool {
	local := t.Inverse().Point(point)
	for i := 0; i < h.FaceCount(); i++ {
		if h.Plane(i).IsPositiveSide(local) {
			return false
		}
	}
	return true
}

// ClosestPoint returns a point on the hull surface near the world-space
// point. Points inside project onto the least deep face. Points outside
// are clamped to the first edge of the facing face they lie beyond.
func ClosestPoint(t hull.Transform, h *hull.Hull, point v3.Vec) v3.Vec {
	local := t.Inverse().Point(point)

	face := 0
	maxDist := -math.MaxFloat64
	for i := 0; i < h.FaceCount(); i++ {
		if d := h.Plane(i).Distance(local); d > maxDist {
			face = i
			maxDist = d
		}
	}
	plane := h.Plane(face)
	onPlane := plane.ClosestPoint(local)
	if maxDist <= 0 {
		return t.Point(onPlane)
	}

	start := h.Face(face).Edge
	e := start
	for {
		he := h.Edge(e)
		a := h.Vertex(he.Origin)
		b := h.Vertex(h.Edge(he.Twin).Origin)
		out := b.Sub(a).Cross(plane.Normal)
		if out.Dot(onPlane.Sub(a)) > 0 {
			return t.Point(closestOnSegment(a, b, local))
		}
		e = he.Next
		if e == start {
			break
		}
	}
	return t.Point(onPlane)
}

func closestOnSegment(a, b, p v3.Vec) v3.Vec {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	s := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return a.Add(ab.MulScalar(s))
}
