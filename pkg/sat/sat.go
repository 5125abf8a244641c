// Package sat implements separating-axis queries between two transformed
// convex hulls: face axes, edge-pair axes restricted to Minkowski faces,
// and the composite overlap test.
//
// All functions are pure and may be called concurrently on shared hulls.
package sat

import (
	"math"

	"github.com/chazu/hullsat/pkg/hull"
)

// DefaultEdgeParallelTolerance is the sine of the angle below which two edges
// are treated as parallel and their cross product is not used as an axis.
const DefaultEdgeParallelTolerance = 0.005

// Config holds the query tolerances.
type Config struct {
	EdgeParallelTolerance float64 `json:"edge_parallel_tolerance"`
}

// DefaultConfig returns the default query tolerances.
func DefaultConfig() Config {
	return Config{EdgeParallelTolerance: DefaultEdgeParallelTolerance}
}

// FaceQueryResult is the shallowest face axis of one hull against another.
type FaceQueryResult struct {
	Index    int     `json:"index"` // face of the first hull, -1 if it has none
	Distance float64 `json:"distance"`
	Back     bool    `json:"back,omitempty"` // back side of a single-face hull
}

// EdgeQueryResult is the shallowest edge-pair axis. Indices are the even
// representative half-edges of each hull.
type EdgeQueryResult struct {
	Index1   int     `json:"index1"` // -1 if no valid pair was found
	Index2   int     `json:"index2"`
	Distance float64 `json:"distance"`
}

// Valid reports whether an edge pair was found.
func (r EdgeQueryResult) Valid() bool { return r.Index1 >= 0 }

// Result bundles every axis query for one pair.
type Result struct {
	Face1     FaceQueryResult `json:"face1"` // faces of hull 1 against hull 2
	Face2     FaceQueryResult `json:"face2"` // faces of hull 2 against hull 1
	Edge      EdgeQueryResult `json:"edge"`
	Colliding bool            `json:"colliding"`
}

// Separation returns the largest signed distance over all axes. It is
// positive when the hulls are apart.
func (r Result) Separation() float64 {
	return math.Max(math.Max(r.Face1.Distance, r.Face2.Distance), r.Edge.Distance)
}

// IsColliding reports whether the hulls overlap or touch. It stops at the
// first axis with positive distance.
func IsColliding(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull) bool {
	return IsCollidingWithConfig(t1, h1, t2, h2, DefaultConfig())
}

// IsCollidingWithConfig is IsColliding with explicit tolerances.
func IsCollidingWithConfig(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull, cfg Config) bool {
	if FaceQuery(t1, h1, t2, h2).Distance > 0 {
		return false
	}
	if FaceQuery(t2, h2, t1, h1).Distance > 0 {
		return false
	}
	return EdgeQueryWithConfig(t1, h1, t2, h2, cfg).Distance <= 0
}

// Query runs all three axis queries without short-circuiting.
func Query(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull, cfg Config) Result {
	r := Result{
		Face1: FaceQuery(t1, h1, t2, h2),
		Face2: FaceQuery(t2, h2, t1, h1),
		Edge:  EdgeQueryWithConfig(t1, h1, t2, h2, cfg),
	}
	r.Colliding = r.Face1.Distance <= 0 && r.Face2.Distance <= 0 && r.Edge.Distance <= 0
	return r
}
