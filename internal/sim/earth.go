package sim

import (
	"context"
	"time"

	"github.com/signalsfoundry/satwatch/core"
	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/kb"
	"github.com/signalsfoundry/satwatch/model"
	"github.com/signalsfoundry/satwatch/render"
	"github.com/signalsfoundry/satwatch/timectrl"
)

// TrackMetrics receives ground-track statistics.
type TrackMetrics interface {
	SetTrackPoints(n int)
	IncTrackRegenerations()
}

type noopTrackMetrics struct{}

func (noopTrackMetrics) SetTrackPoints(int)     {}
func (noopTrackMetrics) IncTrackRegenerations() {}

// EarthDemo animates a toy ISS-like orbit on an EarthView. Each frame
// advances simulation time by one clock step, regenerates the track window
// when it is due and moves the satellite to the track sample in effect.
type EarthDemo struct {
	view    *render.EarthView
	clock   *timectrl.TimeController
	store   *kb.TelemetryStore
	sampler *core.TrackSampler
	metrics TrackMetrics
	log     logging.Logger

	altitudeKm float64
	runner     runner
}

// EarthDemoOption customises EarthDemo construction.
type EarthDemoOption func(*EarthDemo)

// WithStore publishes satellite and readout updates to store.
func WithStore(store *kb.TelemetryStore) EarthDemoOption {
	return func(d *EarthDemo) { d.store = store }
}

// WithTrackMetrics records track length and regenerations.
func WithTrackMetrics(m TrackMetrics) EarthDemoOption {
	return func(d *EarthDemo) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithMotionModel replaces the toy orbit.
func WithMotionModel(m core.MotionModel) EarthDemoOption {
	return func(d *EarthDemo) { d.sampler.Model = m }
}

// WithAltitude sets the altitude reported for the demo satellite.
func WithAltitude(km float64) EarthDemoOption {
	return func(d *EarthDemo) {
		if km > 0 {
			d.altitudeKm = km
		}
	}
}

// WithFrameInterval sets the wall-clock time between frames.
func WithFrameInterval(interval time.Duration) EarthDemoOption {
	return func(d *EarthDemo) { d.runner.interval = interval }
}

// NewEarthDemo builds a demo driving view from clock. The orbit period and
// revolution count come from the view's options.
func NewEarthDemo(view *render.EarthView, clock *timectrl.TimeController, log logging.Logger, opts ...EarthDemoOption) *EarthDemo {
	if log == nil {
		log = logging.Noop()
	}
	vo := view.Options()
	orbit := core.DemoOrbit{Inclination: core.ISSDemoOrbit.Inclination, Period: vo.OrbitPeriod}
	d := &EarthDemo{
		view:       view,
		clock:      clock,
		sampler:    core.NewTrackSampler(orbit, vo.OrbitPeriod, vo.OrbitRevolutions),
		metrics:    noopTrackMetrics{},
		log:        log,
		altitudeKm: model.DefaultAltitudeKm,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start generates the first track window at the current simulation time
// and begins animating. A running demo is restarted.
func (d *EarthDemo) Start(ctx context.Context) {
	d.runner.stop()
	d.regenerate(ctx, d.clock.Now())
	d.runner.start(ctx, d.Tick)
	d.log.Info(ctx, "earth demo started",
		logging.Float64("speed", d.clock.Speed()),
		logging.Duration("orbit_period", d.sampler.Period),
	)
}

// Stop halts the animation. The last frame stays on the view.
func (d *EarthDemo) Stop() {
	d.runner.stop()
}

// Running reports whether the animation task is alive.
func (d *EarthDemo) Running() bool {
	return d.runner.running()
}

// Tick renders one demo frame.
func (d *EarthDemo) Tick(ctx context.Context) {
	now := d.clock.Advance()
	if d.sampler.Due(now) {
		d.regenerate(ctx, now)
	}
	if p, ok := d.view.TrackPointAt(now); ok {
		d.view.SetSatellitePosition(p.Lon, p.Lat, d.altitudeKm)
		if d.store != nil {
			d.store.UpdateSatellite(d.view.Satellite())
		}
	}
	if d.store != nil {
		d.store.UpdateReadout(d.view.Readout(now), now, len(d.view.GroundTrack()))
	}
}

func (d *EarthDemo) regenerate(ctx context.Context, start time.Time) {
	points := d.sampler.Generate(start)
	if err := d.view.SetGroundTrack(points); err != nil {
		d.log.Warn(ctx, "demo track rejected", logging.Err(err))
		return
	}
	d.metrics.IncTrackRegenerations()
	d.metrics.SetTrackPoints(len(points))
	d.log.Debug(ctx, "demo track regenerated",
		logging.Int("points", len(points)),
		logging.String("start", start.UTC().Format(time.RFC3339)),
	)
}
