package contact

import (
	"math"

	"github.com/chazu/hullsat/pkg/hull"
	"github.com/chazu/hullsat/pkg/sat"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// edgeContact returns the single-point manifold between the two edges of
// an edge query result.
func edgeContact(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull, eq sat.EdgeQueryResult) Manifold {
	e1 := h1.Edge(eq.Index1)
	e2 := h2.Edge(eq.Index2)
	p1 := t1.Point(h1.Vertex(e1.Origin))
	q1 := t1.Point(h1.Vertex(h1.Edge(e1.Twin).Origin))
	p2 := t2.Point(h2.Vertex(e2.Origin))
	q2 := t2.Point(h2.Vertex(h2.Edge(e2.Twin).Origin))

	n := q1.Sub(p1).Cross(q2.Sub(p2)).Normalize()
	if n.Dot(p1.Sub(t1.Point(h1.Centroid()))) < 0 {
		n = n.Neg()
	}

	c1, c2 := closestPointsOnSegments(p1, q1, p2, q2)
	return Manifold{
		Normal: n,
		Points: []ContactPoint{{
			Position:    lerp(c1, c2, 0.5),
			Penetration: -eq.Distance,
			Features: FeaturePair{
				InEdge1:  eq.Index1,
				OutEdge1: e1.Twin,
				InEdge2:  eq.Index2,
				OutEdge2: e2.Twin,
			},
		}},
	}
}

// closestPointsOnSegments returns the closest points between segments
// p1-q1 and p2-q2.
func closestPointsOnSegments(p1, q1, p2, q2 v3.Vec) (v3.Vec, v3.Vec) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= epsilon && e <= epsilon:
		return p1, p2
	case a <= epsilon:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= epsilon {
			s = clamp01(-c / a)
			break
		}
		b := d1.Dot(d2)
		denom := a*e - b*b
		if denom > epsilon {
			s = clamp01((b*f - c*e) / denom)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp01((b - c) / a)
		}
	}
	return p1.Add(d1.MulScalar(s)), p2.Add(d2.MulScalar(t))
}

const epsilon = 1e-12

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func lerp(a, b v3.Vec, s float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(s))
}
