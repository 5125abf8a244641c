package sat

import (
	"math"

	"github.com/chazu/hullsat/pkg/hull"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// EdgeQuery finds the shallowest axis built from an edge of h1 and an edge
// of h2, using the default tolerances.
func EdgeQuery(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull) EdgeQueryResult {
	return EdgeQueryWithConfig(t1, h1, t2, h2, DefaultConfig())
}

// EdgeQueryWithConfig finds the shallowest edge-pair axis. Only pairs whose
// Gauss map arcs cross contribute, and nearly parallel pairs are skipped.
// Axes are oriented away from h1's centroid. If no pair qualifies the
// distance is -math.MaxFloat64.
func EdgeQueryWithConfig(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull, cfg Config) EdgeQueryResult {
	t := t2.Inverse().Mul(t1)
	c1 := t.Point(h1.Centroid())

	best := EdgeQueryResult{Index1: -1, Index2: -1, Distance: -math.MaxFloat64}
	for i := 0; i < h1.EdgeCount(); i += 2 {
		e1 := h1.Edge(i)
		tw1 := h1.Edge(e1.Twin)
		p1 := t.Point(h1.Vertex(e1.Origin))
		q1 := t.Point(h1.Vertex(tw1.Origin))
		d1 := q1.Sub(p1)
		u1 := t.Vector(h1.EdgePlane(i).Normal)
		w1 := t.Vector(h1.EdgePlane(e1.Twin).Normal)

		for j := 0; j < h2.EdgeCount(); j += 2 {
			e2 := h2.Edge(j)
			tw2 := h2.Edge(e2.Twin)
			p2 := h2.Vertex(e2.Origin)
			d2 := h2.Vertex(tw2.Origin).Sub(p2)
			u2 := h2.EdgePlane(j).Normal
			w2 := h2.EdgePlane(e2.Twin).Normal

			if !IsMinkowskiFace(u1, w1, d1.Neg(), u2.Neg(), w2.Neg(), d2.Neg()) {
				continue
			}
			dist, ok := project(p1, d1, p2, d2, c1, cfg.EdgeParallelTolerance)
			if ok && dist > best.Distance {
				best = EdgeQueryResult{Index1: i, Index2: j, Distance: dist}
			}
		}
	}
	return best
}

// IsMinkowskiFace reports whether the arcs a-b and c-d on the unit sphere
// intersect. bxa and dxc are the arc plane normals; only their direction
// matters. Passing the face normals of one edge and the negated face
// normals of the other tests whether the edge pair builds a face of the
// Minkowski difference.
func IsMinkowskiFace(a, b, bxa, c, d, dxc v3.Vec) bool {
	cba := c.Dot(bxa)
	dba := d.Dot(bxa)
	adc := a.Dot(dxc)
	bdc := b.Dot(dxc)
	return cba*dba < 0 && adc*bdc < 0 && cba*bdc > 0
}

// project returns the distance between two edge lines along their common
// normal, oriented away from c1. It reports false for nearly parallel edges.
func project(p1, d1, p2, d2, c1 v3.Vec, tol float64) (float64, bool) {
	n := d1.Cross(d2)
	l := n.Length()
	if l < tol*d1.Length()*d2.Length() {
		return 0, false
	}
	n = n.MulScalar(1 / l)
	if n.Dot(p1.Sub(c1)) < 0 {
		n = n.Neg()
	}
	return n.Dot(p2.Sub(p1)), true
}
