package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RenderCollector exposes widget and ground-track Prometheus metrics. It
// satisfies render.Recorder.
type RenderCollector struct {
	gatherer prometheus.Gatherer

	FramesRendered        *prometheus.CounterVec
	RenderDuration        *prometheus.HistogramVec
	TrackPoints           prometheus.Gauge
	TrackRegenerations    prometheus.Counter
	CoastlineFeatures     prometheus.Gauge
	CoastlineLoadFailures prometheus.Counter
}

// NewRenderCollector registers render metrics against the provided registerer.
func NewRenderCollector(reg prometheus.Registerer) (*RenderCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satwatch_frames_rendered_total",
		Help: "Frames drawn per view (earth, azimuth, elevation).",
	}, []string{"view"})
	frames, err := register(reg, frames, "satwatch_frames_rendered_total")
	if err != nil {
		return nil, err
	}

	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "satwatch_render_duration_seconds",
		Help:    "Time spent drawing one frame, per view.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"view"})
	renderDuration, err = register(reg, renderDuration, "satwatch_render_duration_seconds")
	if err != nil {
		return nil, err
	}

	trackPoints := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satwatch_ground_track_points",
		Help: "Number of samples in the displayed ground track.",
	})
	trackPoints, err = register(reg, trackPoints, "satwatch_ground_track_points")
	if err != nil {
		return nil, err
	}

	regenerations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "satwatch_ground_track_regenerations_total",
		Help: "Cumulative number of demo ground-track window regenerations.",
	})
	regenerations, err = register(reg, regenerations, "satwatch_ground_track_regenerations_total")
	if err != nil {
		return nil, err
	}

	features := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satwatch_coastline_features",
		Help: "Number of GeoJSON features in the loaded coastline document.",
	})
	features, err = register(reg, features, "satwatch_coastline_features")
	if err != nil {
		return nil, err
	}

	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "satwatch_coastline_load_failures_total",
		Help: "Cumulative number of failed coastline loads.",
	})
	failures, err = register(reg, failures, "satwatch_coastline_load_failures_total")
	if err != nil {
		return nil, err
	}

	return &RenderCollector{
		gatherer:              gatherer,
		FramesRendered:        frames,
		RenderDuration:        renderDuration,
		TrackPoints:           trackPoints,
		TrackRegenerations:    regenerations,
		CoastlineFeatures:     features,
		CoastlineLoadFailures: failures,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *RenderCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveFrame records one drawn frame for view.
func (c *RenderCollector) ObserveFrame(view string, d time.Duration) {
	if c == nil {
		return
	}
	if c.FramesRendered != nil {
		c.FramesRendered.WithLabelValues(view).Inc()
	}
	if c.RenderDuration != nil {
		c.RenderDuration.WithLabelValues(view).Observe(d.Seconds())
	}
}

// SetTrackPoints updates the ground-track length gauge.
func (c *RenderCollector) SetTrackPoints(n int) {
	if c == nil || c.TrackPoints == nil {
		return
	}
	c.TrackPoints.Set(float64(n))
}

// IncTrackRegenerations increments the regeneration counter.
func (c *RenderCollector) IncTrackRegenerations() {
	if c == nil || c.TrackRegenerations == nil {
		return
	}
	c.TrackRegenerations.Inc()
}

// SetCoastlineFeatures records the size of the loaded coastline document.
func (c *RenderCollector) SetCoastlineFeatures(n int) {
	if c == nil || c.CoastlineFeatures == nil {
		return
	}
	c.CoastlineFeatures.Set(float64(n))
}

// CoastlineLoadFailed increments the load failure counter.
func (c *RenderCollector) CoastlineLoadFailed() {
	if c == nil || c.CoastlineLoadFailures == nil {
		return
	}
	c.CoastlineLoadFailures.Inc()
}
