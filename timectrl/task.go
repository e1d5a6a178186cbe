package timectrl

import (
	"context"
	"sync"
	"time"
)

// Task is a cancellable repeating callback, the server-side stand-in for a
// browser animation frame loop. The zero value is not usable; create one
// with Repeat.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Repeat calls fn every interval on a new goroutine until ctx is cancelled
// or Stop is called. The first call happens after one interval. fn is never
// invoked concurrently with itself, and no call starts after Stop returns.
func Repeat(ctx context.Context, interval time.Duration, fn func(context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			// A tick and a cancellation can be ready together.
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
		}
	}()
	return t
}

// Stop cancels the task and waits for an in-flight callback to return. It
// is safe to call more than once and on a nil Task, but not from inside
// the callback itself.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the task has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Running reports whether the task is still scheduling callbacks.
func (t *Task) Running() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}
