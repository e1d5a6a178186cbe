package sim

import (
	"context"
	"sync"

	"github.com/signalsfoundry/satwatch/core"
	"github.com/signalsfoundry/satwatch/render"
)

// PointingSource returns where the antenna should point right now. ok is
// false when there is nothing to track.
type PointingSource func() (la core.LookAngles, ok bool)

// AzimuthDemo turns an azimuth dial by a fixed number of degrees per frame,
// or follows a PointingSource when one is set.
type AzimuthDemo struct {
	dial     *render.AzimuthDial
	speed    float64
	onChange func()
	runner   runner

	mu     sync.Mutex
	source PointingSource
}

// NewAzimuthDemo returns a sweeping demo for dial. onChange, when not nil,
// runs after every angle change.
func NewAzimuthDemo(dial *render.AzimuthDial, speed float64, onChange func()) *AzimuthDemo {
	return &AzimuthDemo{dial: dial, speed: speed, onChange: onChange}
}

// Track switches the demo to follow src. nil returns to sweeping.
func (d *AzimuthDemo) Track(src PointingSource) {
	d.mu.Lock()
	d.source = src
	d.mu.Unlock()
}

// Start begins animating, replacing any running animation.
func (d *AzimuthDemo) Start(ctx context.Context) {
	d.runner.start(ctx, func(context.Context) { d.Tick() })
}

// Stop halts the animation.
func (d *AzimuthDemo) Stop() { d.runner.stop() }

// Running reports whether the animation task is alive.
func (d *AzimuthDemo) Running() bool { return d.runner.running() }

// Tick advances the needle by one frame.
func (d *AzimuthDemo) Tick() {
	d.mu.Lock()
	src := d.source
	d.mu.Unlock()

	if src != nil {
		la, ok := src()
		if !ok {
			return
		}
		d.dial.SetAzimuth(la.AzimuthDeg)
	} else {
		d.dial.Rotate(d.speed)
	}
	d.changed()
}

// Click stops the animation and points the needle at a click on a w×h
// surface. It returns the new azimuth.
func (d *AzimuthDemo) Click(w, h int, x, y float64) float64 {
	d.Stop()
	az := render.AzimuthFromClick(w, h, x, y)
	d.dial.SetAzimuth(az)
	d.changed()
	return d.dial.Azimuth()
}

func (d *AzimuthDemo) changed() {
	if d.onChange != nil {
		d.onChange()
	}
}

// ElevationDemo swings an elevation dial between -90 and +90, reversing at
// each end, or follows a PointingSource when one is set.
type ElevationDemo struct {
	dial     *render.ElevationDial
	speed    float64
	onChange func()
	runner   runner

	mu        sync.Mutex
	source    PointingSource
	direction float64
}

// NewElevationDemo returns a swinging demo for dial.
func NewElevationDemo(dial *render.ElevationDial, speed float64, onChange func()) *ElevationDemo {
	return &ElevationDemo{dial: dial, speed: speed, onChange: onChange, direction: 1}
}

// Track switches the demo to follow src. nil returns to swinging.
func (d *ElevationDemo) Track(src PointingSource) {
	d.mu.Lock()
	d.source = src
	d.mu.Unlock()
}

// Start begins animating, replacing any running animation.
func (d *ElevationDemo) Start(ctx context.Context) {
	d.runner.start(ctx, func(context.Context) { d.Tick() })
}

// Stop halts the animation.
func (d *ElevationDemo) Stop() { d.runner.stop() }

// Running reports whether the animation task is alive.
func (d *ElevationDemo) Running() bool { return d.runner.running() }

// Tick advances the needle by one frame.
func (d *ElevationDemo) Tick() {
	d.mu.Lock()
	src := d.source
	if src == nil {
		next := d.dial.Elevation() + d.speed*d.direction
		switch {
		case next >= 90:
			d.direction = -1
		case next <= -90:
			d.direction = 1
		}
		d.dial.SetElevation(next)
	}
	d.mu.Unlock()

	if src != nil {
		la, ok := src()
		if !ok {
			return
		}
		d.dial.SetElevation(la.ElevationDeg)
	}
	if d.onChange != nil {
		d.onChange()
	}
}

// Click stops the animation and sets the elevation from a click on a w×h
// surface. It returns the new elevation.
func (d *ElevationDemo) Click(w, h int, x, y float64) float64 {
	d.Stop()
	d.dial.SetElevation(render.ElevationFromClick(w, h, x, y))
	if d.onChange != nil {
		d.onChange()
	}
	return d.dial.Elevation()
}
