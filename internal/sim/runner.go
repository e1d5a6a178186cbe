package sim

import (
	"context"
	"sync"
	"time"

	"github.com/signalsfoundry/satwatch/timectrl"
)

// DefaultFrameInterval is the wall-clock time between demo frames.
const DefaultFrameInterval = 50 * time.Millisecond

// runner owns at most one repeating task. Starting again stops the
// previous task first.
type runner struct {
	mu       sync.Mutex
	interval time.Duration
	task     *timectrl.Task
}

func (r *runner) start(ctx context.Context, fn func(context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.task.Stop()
	interval := r.interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	r.task = timectrl.Repeat(ctx, interval, fn)
}

func (r *runner) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.task.Stop()
	r.task = nil
}

func (r *runner) running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.task.Running()
}
