// Package hull defines the convex half-edge hull used by the narrow phase.
// A Hull is built once from a triangle soup or a hull definition and is
// read-only afterwards, so it can be shared between goroutines freely.
//
// Storage is flat: vertices, faces, planes and half-edges live in slices
// and refer to each other by index. Half-edges come in twin pairs at
// adjacent indices; the even index of a pair is the edge's representative.
package hull
