package contact

import (
	"github.com/chazu/hullsat/pkg/hull"
	"github.com/chazu/hullsat/pkg/sat"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ClipVertex is a polygon vertex during clipping. Edge is the incident
// half-edge running from this vertex to the next one, or -1 when that
// segment lies on a side plane.
type ClipVertex struct {
	Position v3.Vec
	Features FeaturePair
	Edge     int
}

// SidePlane is the plane through a reference face edge, perpendicular to
// the face and facing away from its interior.
type SidePlane struct {
	Plane hull.Plane
	Edge  int
}

// SidePlanes returns the side planes of face f of h under t. When back is
// set on a single-face hull the back loop is used.
func SidePlanes(t hull.Transform, h *hull.Hull, f int, back bool) []SidePlane {
	var planes []SidePlane
	start := h.FaceLoop(f, back)
	e := start
	for {
		he := h.Edge(e)
		a := t.Point(h.Vertex(he.Origin))
		b := t.Point(h.Vertex(h.Edge(he.Twin).Origin))
		n := t.Vector(h.EdgePlane(e).Normal)
		planes = append(planes, SidePlane{
			Plane: hull.NewPlane(b.Sub(a).Cross(n), a),
			Edge:  e,
		})
		e = he.Next
		if e == start {
			break
		}
	}
	return planes
}

// ClipPolygon clips poly against the inside of one side plane
// (Sutherland-Hodgman). Points within tol of the plane count as inside.
// New vertices record the side plane's edge in their feature pair.
func ClipPolygon(poly []ClipVertex, side SidePlane, tol float64) []ClipVertex {
	if len(poly) == 0 {
		return nil
	}
	out := make([]ClipVertex, 0, len(poly)+1)
	a := poly[len(poly)-1]
	da := side.Plane.Distance(a.Position)
	for _, b := range poly {
		db := side.Plane.Distance(b.Position)
		switch {
		case da <= tol && db <= tol:
			out = append(out, b)
		case da <= tol:
			out = append(out, ClipVertex{
				Position: lerp(a.Position, b.Position, da/(da-db)),
				Features: FeaturePair{InEdge1: -1, OutEdge1: side.Edge, InEdge2: a.Edge, OutEdge2: -1},
				Edge:     -1,
			})
		case db <= tol:
			out = append(out,
				ClipVertex{
					Position: lerp(a.Position, b.Position, da/(da-db)),
					Features: FeaturePair{InEdge1: side.Edge, OutEdge1: -1, InEdge2: -1, OutEdge2: a.Edge},
					Edge:     a.Edge,
				},
				b,
			)
		}
		a, da = b, db
	}
	return out
}

// Clip clips poly against every side plane in turn.
func Clip(poly []ClipVertex, sides []SidePlane, tol float64) []ClipVertex {
	for _, s := range sides {
		poly = ClipPolygon(poly, s, tol)
	}
	return poly
}

// incidentFace returns the face of h under t most anti-parallel to n, and
// whether it is the back side of a single-face hull.
func incidentFace(t hull.Transform, h *hull.Hull, n v3.Vec) (int, bool) {
	best, back := 0, false
	minDot := 2.0
	for f := 0; f < h.FaceCount(); f++ {
		d := t.Vector(h.Plane(f).Normal).Dot(n)
		if d < minDot {
			best, back, minDot = f, false, d
		}
		if h.FaceCount() == 1 && -d < minDot {
			best, back, minDot = f, true, -d
		}
	}
	return best, back
}

// incidentPolygon returns the world-space loop of face f with each vertex
// tagged by the incident edges meeting at it.
func incidentPolygon(t hull.Transform, h *hull.Hull, f int, back bool) []ClipVertex {
	var poly []ClipVertex
	start := h.FaceLoop(f, back)
	e := start
	for {
		he := h.Edge(e)
		poly = append(poly, ClipVertex{
			Position: t.Point(h.Vertex(he.Origin)),
			Features: FeaturePair{InEdge1: -1, OutEdge1: -1, InEdge2: he.Prev, OutEdge2: e},
			Edge:     e,
		})
		e = he.Next
		if e == start {
			break
		}
	}
	return poly
}

// faceContact clips the incident face of the other hull against the
// reference face ref of hull rh under rt. Points are expressed with the reference
// hull as hull 1.
func faceContact(rt hull.Transform, rh *hull.Hull, ref sat.FaceQueryResult, it hull.Transform, ih *hull.Hull, cfg Config) Manifold {
	refPlane := rh.Plane(ref.Index)
	if ref.Back {
		refPlane = refPlane.Flipped()
	}
	refPlane = refPlane.Transform(rt)

	inc, incBack := incidentFace(it, ih, refPlane.Normal)
	poly := Clip(incidentPolygon(it, ih, inc, incBack), SidePlanes(rt, rh, ref.Index, ref.Back), cfg.ClipTolerance)

	m := Manifold{Normal: refPlane.Normal}
	for _, v := range poly {
		d := refPlane.Distance(v.Position)
		if d > 0 {
			continue
		}
		m.Points = append(m.Points, ContactPoint{
			Position:    v.Position.Sub(refPlane.Normal.MulScalar(0.5 * d)),
			Penetration: -d,
			Features:    v.Features,
		})
	}
	if cfg.MaxPoints > 0 && len(m.Points) > cfg.MaxPoints {
		m.Points = reduce(m.Points, m.Normal, cfg.MaxPoints)
	}
	return m
}
