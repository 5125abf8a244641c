// Package contact builds contact manifolds for overlapping hull pairs.
//
// The deepest-penetration axis found by the sat package decides the
// contact type. Edge-edge contacts yield one point between the two
// supporting edges. Face contacts clip the incident face of one hull
// against the side planes of the reference face of the other.
package contact

import (
	"math"

	"github.com/chazu/hullsat/pkg/hull"
	"github.com/chazu/hullsat/pkg/sat"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FeaturePair names the half-edges that produced a contact point. Index 1
// refers to the first hull passed to Generate and 2 to the second. -1
// means no feature.
type FeaturePair struct {
	InEdge1  int `json:"in_edge1"`
	OutEdge1 int `json:"out_edge1"`
	InEdge2  int `json:"in_edge2"`
	OutEdge2 int `json:"out_edge2"`
}

// swapped exchanges the roles of the two hulls.
func (f FeaturePair) swapped() FeaturePair {
	return FeaturePair{InEdge1: f.InEdge2, OutEdge1: f.OutEdge2, InEdge2: f.InEdge1, OutEdge2: f.OutEdge1}
}

// ContactPoint is one point of a manifold in world space.
type ContactPoint struct {
	Position    v3.Vec      `json:"position"`
	Penetration float64     `json:"penetration"`
	Features    FeaturePair `json:"features"`
}

// Manifold is the contact set of one hull pair. Normal points from the
// first hull toward the second.
type Manifold struct {
	Normal v3.Vec         `json:"normal"`
	Points []ContactPoint `json:"points"`
}

// MaxDepth returns the largest penetration of the manifold.
func (m Manifold) MaxDepth() float64 {
	d := 0.0
	for _, p := range m.Points {
		d = math.Max(d, p.Penetration)
	}
	return d
}

// Default tolerances. Face contacts are preferred over edge contacts and
// the first hull's face over the second's unless the alternative is
// clearly shallower.
const (
	DefaultRelTolerance  = 0.95
	DefaultAbsTolerance  = 0.005
	DefaultClipTolerance = 1e-6
	DefaultMaxPoints     = 4
)

// Config holds the manifold generation settings.
type Config struct {
	SAT           sat.Config `json:"sat"`
	RelTolerance  float64    `json:"rel_tolerance"`
	AbsTolerance  float64    `json:"abs_tolerance"`
	ClipTolerance float64    `json:"clip_tolerance"`
	MaxPoints     int        `json:"max_points"` // 0 keeps every clipped point
}

// DefaultConfig returns the default manifold settings.
func DefaultConfig() Config {
	return Config{
		SAT:           sat.DefaultConfig(),
		RelTolerance:  DefaultRelTolerance,
		AbsTolerance:  DefaultAbsTolerance,
		ClipTolerance: DefaultClipTolerance,
		MaxPoints:     DefaultMaxPoints,
	}
}

// Generate returns the contact manifold of two hulls, or false if they do
// not overlap.
func Generate(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull) (Manifold, bool) {
	return GenerateWithConfig(t1, h1, t2, h2, DefaultConfig())
}

// GenerateWithConfig is Generate with explicit settings.
func GenerateWithConfig(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull, cfg Config) (Manifold, bool) {
	r := sat.Query(t1, h1, t2, h2, cfg.SAT)
	if !r.Colliding {
		return Manifold{}, false
	}
	return FromQuery(t1, h1, t2, h2, r, cfg), true
}

// FromQuery builds the manifold for a colliding pair from a finished
// sat.Query result. When clipping the preferred face leaves no point below
// the reference plane, the edge pair is used instead. The manifold holds
// no points only when no edge pair is available either, for example when
// the hulls just touch.
func FromQuery(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull, r sat.Result, cfg Config) Manifold {
	maxFace := math.Max(r.Face1.Distance, r.Face2.Distance)
	if r.Edge.Valid() && r.Edge.Distance > cfg.RelTolerance*maxFace+cfg.AbsTolerance {
		return edgeContact(t1, h1, t2, h2, r.Edge)
	}

	var m Manifold
	if r.Face2.Distance > cfg.RelTolerance*r.Face1.Distance+cfg.AbsTolerance {
		m = faceContact(t2, h2, r.Face2, t1, h1, cfg)
		m.Normal = m.Normal.Neg()
		for i := range m.Points {
			m.Points[i].Features = m.Points[i].Features.swapped()
		}
	} else {
		m = faceContact(t1, h1, r.Face1, t2, h2, cfg)
	}
	if len(m.Points) == 0 && r.Edge.Valid() {
		return edgeContact(t1, h1, t2, h2, r.Edge)
	}
	return m
}
