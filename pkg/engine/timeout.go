package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/hullsat/pkg/scene"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned for a run that finished after a newer
	// Evaluate call started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// generations numbers Evaluate calls so a late run cannot report over a
// newer one.
type generations struct {
	mu sync.Mutex
	n  uint64
}

func (g *generations) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.n
}

func (g *generations) current(id uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n == id
}

// await blocks until ch delivers, limit elapses or ctx ends. A run that
// is abandoned keeps going in its goroutine; ch must be buffered so it
// can still deliver and exit.
func await(ctx context.Context, ch <-chan evalResult, limit time.Duration, id uint64, g *generations) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !g.current(id) {
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("evaluation abandoned: %w", ctx.Err())
	}
}
