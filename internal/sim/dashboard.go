package sim

import (
	"context"
	"sync"
	"time"

	"github.com/signalsfoundry/satwatch/core"
	"github.com/signalsfoundry/satwatch/internal/config"
	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/kb"
	"github.com/signalsfoundry/satwatch/model"
	"github.com/signalsfoundry/satwatch/render"
	"github.com/signalsfoundry/satwatch/timectrl"
)

// Metrics is everything the dashboard reports about its widgets.
type Metrics interface {
	render.Recorder
	TrackMetrics
}

// Dashboard owns the three widgets, their demos and the telemetry store.
// Widgets share nothing; the dashboard only copies state between them and
// the store.
type Dashboard struct {
	Earth     *render.EarthView
	Azimuth   *render.AzimuthDial
	Elevation *render.ElevationDial
	Store     *kb.TelemetryStore
	Clock     *timectrl.TimeController

	earthDemo *EarthDemo
	azDemo    *AzimuthDemo
	elDemo    *ElevationDemo

	cfg config.Config
	log logging.Logger

	mu       sync.Mutex
	feedLive bool
}

// DashboardOption customises Dashboard construction.
type DashboardOption func(*dashboardSettings)

type dashboardSettings struct {
	metrics  Metrics
	start    time.Time
	interval time.Duration
}

// WithMetrics installs a metrics sink on every widget.
func WithMetrics(m Metrics) DashboardOption {
	return func(s *dashboardSettings) { s.metrics = m }
}

// WithStartTime pins the initial simulation time.
func WithStartTime(t time.Time) DashboardOption {
	return func(s *dashboardSettings) { s.start = t }
}

// WithDemoInterval sets the wall-clock time between demo frames.
func WithDemoInterval(d time.Duration) DashboardOption {
	return func(s *dashboardSettings) { s.interval = d }
}

// NewDashboard wires widgets and demos from cfg. cfg must be valid.
func NewDashboard(cfg config.Config, log logging.Logger, opts ...DashboardOption) *Dashboard {
	if log == nil {
		log = logging.Noop()
	}
	s := dashboardSettings{start: time.Now().UTC(), interval: DefaultFrameInterval}
	for _, opt := range opts {
		opt(&s)
	}

	d := &Dashboard{
		Earth:     render.NewEarthView(cfg.EarthViewOptions(), log),
		Azimuth:   render.NewAzimuthDial(),
		Elevation: render.NewElevationDial(),
		Store:     kb.NewTelemetryStore(),
		Clock:     timectrl.NewTimeController(s.start, cfg.Demo.FrameStep),
		cfg:       cfg,
		log:       log.With(logging.String("component", "dashboard")),
	}
	d.Clock.SetSpeed(cfg.Demo.EarthSpeed)

	if s.metrics != nil {
		d.Earth.SetRecorder(s.metrics)
		d.Azimuth.SetRecorder(s.metrics)
		d.Elevation.SetRecorder(s.metrics)
	}

	d.Earth.SetSatelliteInfo(cfg.Demo.SatelliteName, cfg.Demo.CatalogID)
	obs := cfg.ObserverModel()
	d.Earth.SetObserver(obs)
	d.Store.UpdateObserver(obs)
	d.Store.UpdateSatellite(d.Earth.Satellite())

	d.earthDemo = NewEarthDemo(d.Earth, d.Clock, log,
		WithStore(d.Store),
		WithTrackMetrics(s.metrics),
		WithAltitude(cfg.Demo.AltitudeKm),
		WithFrameInterval(s.interval),
	)
	d.azDemo = NewAzimuthDemo(d.Azimuth, cfg.Demo.AzimuthSpeed, d.publishDials)
	d.azDemo.runner.interval = s.interval
	d.elDemo = NewElevationDemo(d.Elevation, cfg.Demo.ElevationSpeed, d.publishDials)
	d.elDemo.runner.interval = s.interval
	if cfg.Demo.DialMode == config.DialModeTrack {
		d.azDemo.Track(d.LookAngles)
		d.elDemo.Track(d.LookAngles)
	}
	d.publishDials()
	return d
}

// Start launches the demos when they are enabled.
func (d *Dashboard) Start(ctx context.Context) {
	if !d.cfg.Demo.Enabled {
		d.log.Info(ctx, "demos disabled, waiting for feed")
		return
	}
	d.earthDemo.Start(ctx)
	d.azDemo.Start(ctx)
	d.elDemo.Start(ctx)
}

// Stop halts every demo.
func (d *Dashboard) Stop() {
	d.earthDemo.Stop()
	d.azDemo.Stop()
	d.elDemo.Stop()
}

// EarthDemo exposes the map animation.
func (d *Dashboard) EarthDemo() *EarthDemo { return d.earthDemo }

// AzimuthDemo exposes the azimuth animation.
func (d *Dashboard) AzimuthDemo() *AzimuthDemo { return d.azDemo }

// ElevationDemo exposes the elevation animation.
func (d *Dashboard) ElevationDemo() *ElevationDemo { return d.elDemo }

// DialSize is the side of the square dial images.
func (d *Dashboard) DialSize() int { return d.cfg.Demo.DialSize }

// EarthSize is the width and height of the map image.
func (d *Dashboard) EarthSize() (int, int) { return d.cfg.Earth.Width, d.cfg.Earth.Height }

// LookAngles points from the observer to the satellite on the map.
func (d *Dashboard) LookAngles() (core.LookAngles, bool) {
	sat := d.Earth.Satellite()
	obs, ok := d.Earth.Observer()
	if !ok || !sat.HasPosition {
		return core.LookAngles{}, false
	}
	return core.ComputeLookAngles(obs, sat.Position, sat.EffectiveAltitudeKm(), d.Clock.Now()), true
}

// ClickAzimuth stops the azimuth demo and applies a click at (x, y).
func (d *Dashboard) ClickAzimuth(x, y float64) float64 {
	size := d.DialSize()
	return d.azDemo.Click(size, size, x, y)
}

// ClickElevation stops the elevation demo and applies a click at (x, y).
func (d *Dashboard) ClickElevation(x, y float64) float64 {
	size := d.DialSize()
	return d.elDemo.Click(size, size, x, y)
}

// SetSatellitePosition moves the satellite from an external feed.
func (d *Dashboard) SetSatellitePosition(ctx context.Context, lon, lat, altitudeKm float64) {
	d.takeOver(ctx)
	d.Earth.SetSatellitePosition(lon, lat, altitudeKm)
	d.Store.UpdateSatellite(d.Earth.Satellite())
	d.publishReadout()
}

// SetSatelliteInfo relabels the satellite.
func (d *Dashboard) SetSatelliteInfo(ctx context.Context, name string, catalogID uint32) {
	d.Earth.SetSatelliteInfo(name, catalogID)
	d.Store.UpdateSatellite(d.Earth.Satellite())
	d.publishReadout()
}

// AddTrackPoint appends a feed sample to the ground track.
func (d *Dashboard) AddTrackPoint(ctx context.Context, lon, lat float64, t time.Time) error {
	d.takeOver(ctx)
	if err := d.Earth.AddTrackPoint(lon, lat, t); err != nil {
		return err
	}
	d.publishReadout()
	return nil
}

// ClearGroundTrack drops the ground track.
func (d *Dashboard) ClearGroundTrack(ctx context.Context) {
	d.takeOver(ctx)
	d.Earth.ClearGroundTrack()
	d.publishReadout()
}

// SetObserver moves the ground station.
func (d *Dashboard) SetObserver(ctx context.Context, obs model.Observer) {
	d.Earth.SetObserver(obs)
	d.Store.UpdateObserver(obs)
	d.publishReadout()
}

// takeOver stops the map demo the first time a feed writes to the map.
// The demo's generated window runs ahead of real time, so it is dropped
// with the demo and the feed's first track point starts a fresh track.
func (d *Dashboard) takeOver(ctx context.Context) {
	d.mu.Lock()
	first := !d.feedLive
	d.feedLive = true
	d.mu.Unlock()
	if !first {
		return
	}
	if d.earthDemo.Running() {
		d.earthDemo.Stop()
		d.Earth.ClearGroundTrack()
		d.log.Info(ctx, "orbit feed attached, earth demo stopped")
	}
}

// Telemetry returns the latest store snapshot.
func (d *Dashboard) Telemetry() kb.Snapshot {
	return d.Store.Snapshot()
}

// FeedAttached reports whether an external feed has written to the map.
func (d *Dashboard) FeedAttached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.feedLive
}

func (d *Dashboard) publishReadout() {
	now := time.Now().UTC()
	d.Clock.SetTime(now)
	d.Store.UpdateReadout(d.Earth.Readout(now), now, len(d.Earth.GroundTrack()))
}

func (d *Dashboard) publishDials() {
	d.Store.UpdateDials(model.DialAngles{
		AzimuthDeg:   d.Azimuth.Azimuth(),
		ElevationDeg: d.Elevation.Elevation(),
	})
}
