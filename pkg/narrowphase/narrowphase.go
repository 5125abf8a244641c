// Package narrowphase runs hull queries over every pair of bodies in a
// scene. Pairs whose world bounding boxes or bounding spheres do not touch
// are culled; the rest are handed to a bounded pool of workers. Queries are pure, so
// workers share the scene without locking.
package narrowphase

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/chazu/hullsat/pkg/contact"
	"github.com/chazu/hullsat/pkg/sat"
	"github.com/chazu/hullsat/pkg/scene"
	"github.com/deadsy/sdfx/sdf"
)

// Options controls a batch run.
type Options struct {
	Workers   int  `json:"workers"`   // <= 0 uses one worker per CPU
	Manifolds bool `json:"manifolds"` // build contact manifolds for colliding pairs
}

// DefaultOptions returns one worker per CPU with manifolds enabled.
func DefaultOptions() Options {
	return Options{Workers: runtime.NumCPU(), Manifolds: true}
}

// Result is the outcome for one pair of bodies.
type Result struct {
	A         string            `json:"a"`
	B         string            `json:"b"`
	Culled    bool              `json:"culled"` // bounding volumes apart, no hull query ran
	Gap       float64           `json:"gap,omitempty"`
	Colliding bool              `json:"colliding"`
	Query     sat.Result        `json:"query"`
	Manifold  *contact.Manifold `json:"manifold,omitempty"`
}

// Separation returns the signed distance along the best separating axis.
// For culled pairs it is the gap between the bounding volumes, a lower
// bound on the true distance.
func (r Result) Separation() float64 {
	if r.Culled {
		return r.Gap
	}
	return r.Query.Separation()
}

// Collide queries every pair of bodies in s and returns one result per
// pair in scene.Pairs order. Cancelling ctx stops dispatch of pairs that
// have not started and returns the context error.
func Collide(ctx context.Context, s *scene.Scene, opts Options) ([]Result, error) {
	if s == nil {
		return nil, nil
	}
	for _, b := range s.List() {
		if b.Hull == nil {
			return nil, fmt.Errorf("narrowphase: body %q has no hull", b.Name)
		}
	}

	pairs := s.Pairs()
	results := make([]Result, len(pairs))
	var pending []int
	for i, p := range pairs {
		results[i] = Result{A: p.A.Name, B: p.B.Name}
		if gap := cullGap(p); gap > 0 {
			results[i].Culled = true
			results[i].Gap = gap
			continue
		}
		pending = append(pending, i)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pending) {
		workers = len(pending)
	}

	cfg := s.Defaults.Contact
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = collidePair(pairs[i], results[i], cfg, opts.Manifolds)
			}
		}()
	}

	var err error
dispatch:
	for _, i := range pending {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, fmt.Errorf("narrowphase: %w", err)
	}
	return results, nil
}

// collidePair runs the hull queries for one pair. Each call writes only
// its own result slot.
func collidePair(p scene.Pair, r Result, cfg contact.Config, manifolds bool) Result {
	a, b := p.A, p.B
	r.Query = sat.Query(a.Transform, a.Hull, b.Transform, b.Hull, cfg.SAT)
	r.Colliding = r.Query.Colliding
	if r.Colliding && manifolds {
		m := contact.FromQuery(a.Transform, a.Hull, b.Transform, b.Hull, r.Query, cfg)
		r.Manifold = &m
	}
	return r
}

// Colliding filters results down to the colliding pairs.
func Colliding(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Colliding {
			out = append(out, r)
		}
	}
	return out
}

// cullGap tests the bounding boxes first and then the bounding spheres.
// A positive result means the pair cannot touch.
func cullGap(p scene.Pair) float64 {
	if gap := boxGap(p.A.WorldBounds(), p.B.WorldBounds()); gap > 0 {
		return gap
	}
	ca, ra := p.A.Hull.BoundingSphere(p.A.Transform)
	cb, rb := p.B.Hull.BoundingSphere(p.B.Transform)
	return ca.Sub(cb).Length() - ra - rb
}

// boxGap returns the largest gap between two boxes along a world axis.
// It is positive only when the boxes are apart; touching boxes give 0.
func boxGap(a, b sdf.Box3) float64 {
	gap := math.Max(b.Min.X-a.Max.X, a.Min.X-b.Max.X)
	gap = math.Max(gap, math.Max(b.Min.Y-a.Max.Y, a.Min.Y-b.Max.Y))
	gap = math.Max(gap, math.Max(b.Min.Z-a.Max.Z, a.Min.Z-b.Max.Z))
	return gap
}
