package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/polyhedra/pkg/scene"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past Engine.Timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned for a finished evaluation whose result is
	// stale because a later Evaluate call has started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// outcome is what an evaluation goroutine sends back.
type outcome struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// stale reports whether gen is older than the latest generation.
func (e *Engine) stale(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen != e.generation
}

// await blocks until the evaluation of generation gen reports on ch or
// e.Timeout elapses. A timed out goroutine keeps running; whatever it
// sends later is never read.
func (e *Engine) await(ch <-chan outcome, gen uint64) (*scene.Scene, []EvalError, error) {
	limit := e.Timeout
	if limit <= 0 {
		limit = EvalTimeout
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case out := <-ch:
		if e.stale(gen) {
			return nil, nil, ErrSuperseded
		}
		return out.scene, out.errors, out.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}
