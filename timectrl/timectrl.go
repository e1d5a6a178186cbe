package timectrl

import (
	"sync"
	"time"
)

// SimClock is an interface for accessing simulation time. Widgets and demo
// drivers depend on it rather than on a concrete controller so that tests
// can pin time.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
}

// DefaultFrameStep is how much simulation time one animation frame covers
// at speed 1.
const DefaultFrameStep = 200 * time.Millisecond

// TimeController drives simulation time one frame at a time and notifies
// registered listeners. Simulation time advances by Step*Speed per frame,
// independent of how long the frame actually took.
type TimeController struct {
	mu          sync.RWMutex
	Step        time.Duration
	speed       float64
	currentTime time.Time

	listeners []func(time.Time)
}

// NewTimeController constructs a controller starting at start. A zero step
// falls back to DefaultFrameStep.
func NewTimeController(start time.Time, step time.Duration) *TimeController {
	if step <= 0 {
		step = DefaultFrameStep
	}
	return &TimeController{
		Step:        step,
		speed:       1,
		currentTime: start,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// SetTime jumps simulation time to t without notifying listeners.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	tc.currentTime = t
	tc.mu.Unlock()
}

// Speed returns the current speed multiplier.
func (tc *TimeController) Speed() float64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.speed
}

// SetSpeed changes the speed multiplier. Negative values run time backwards;
// zero freezes it.
func (tc *TimeController) SetSpeed(speed float64) {
	tc.mu.Lock()
	tc.speed = speed
	tc.mu.Unlock()
}

// AddListener registers a callback invoked after every Advance.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.mu.Lock()
	tc.listeners = append(tc.listeners, fn)
	tc.mu.Unlock()
}

// Advance moves simulation time forward by one frame and returns the new
// time. Listeners run on the caller's goroutine, outside the lock.
func (tc *TimeController) Advance() time.Time {
	tc.mu.Lock()
	delta := time.Duration(float64(tc.Step) * tc.speed)
	tc.currentTime = tc.currentTime.Add(delta)
	now := tc.currentTime
	listeners := append([]func(time.Time){}, tc.listeners...)
	tc.mu.Unlock()

	for _, fn := range listeners {
		fn(now)
	}
	return now
}
