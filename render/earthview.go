package render

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/signalsfoundry/satwatch/core"
	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/model"
)

const tracerName = "github.com/signalsfoundry/satwatch/render"

// EarthView is the ground-track projector: an equirectangular world map
// with coastlines, a ground track, the satellite and its visibility
// footprint. All methods are safe for concurrent use.
type EarthView struct {
	mu sync.Mutex

	opts     Options
	labels   []string
	log      logging.Logger
	metrics  Recorder
	loader   *core.CoastlineLoader
	coast    *core.Coastlines
	track    core.GroundTrack
	sat      model.SatelliteState
	observer *model.Observer
}

// NewEarthView constructs a view with defaults applied to opts.
func NewEarthView(opts Options, log logging.Logger) *EarthView {
	if log == nil {
		log = logging.Noop()
	}
	opts = opts.withDefaults()

	upper := cases.Upper(language.Und)
	labels := make([]string, len(opts.Landmarks))
	for i, lm := range opts.Landmarks {
		labels[i] = upper.String(lm.Name)
	}

	return &EarthView{
		opts:    opts,
		labels:  labels,
		log:     log.With(logging.String("view", "earth")),
		metrics: noopRecorder{},
		loader:  core.NewCoastlineLoader(),
	}
}

// SetRecorder installs a metrics sink. nil restores the no-op recorder.
func (v *EarthView) SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	v.mu.Lock()
	v.metrics = r
	v.mu.Unlock()
}

// SetCoastlineLoader replaces the loader used by Init.
func (v *EarthView) SetCoastlineLoader(l *core.CoastlineLoader) {
	v.mu.Lock()
	v.loader = l
	v.mu.Unlock()
}

// Options returns the effective options.
func (v *EarthView) Options() Options {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opts
}

// Init loads the coastline geometry. On failure the error wraps
// core.ErrCoastlineLoad and the view keeps drawing without coastlines.
func (v *EarthView) Init(ctx context.Context) error {
	v.mu.Lock()
	source, loader, metrics := v.opts.CoastlineSource, v.loader, v.metrics
	v.mu.Unlock()

	if source == "" {
		v.log.Info(ctx, "no coastline source configured")
		return nil
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "EarthView.Init")
	defer span.End()
	span.SetAttributes(attribute.String("coastline.source", source))

	c, err := loader.Load(ctx, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "coastline load failed")
		metrics.CoastlineLoadFailed()
		v.log.Error(ctx, "coastline load failed",
			logging.String("source", source),
			logging.Err(err),
		)
		return err
	}

	v.mu.Lock()
	v.coast = c
	v.mu.Unlock()

	span.SetAttributes(attribute.Int("coastline.features", c.Features))
	metrics.SetCoastlineFeatures(c.Features)
	v.log.Info(ctx, "coastlines loaded",
		logging.String("source", source),
		logging.Int("features", c.Features),
		logging.Int("lines", len(c.Lines)),
	)
	return nil
}

// InitAsync runs Init on its own goroutine. The returned channel yields
// exactly one value and is then closed.
func (v *EarthView) InitAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- v.Init(ctx)
	}()
	return done
}

// CoastlinesLoaded reports whether Init has succeeded.
func (v *EarthView) CoastlinesLoaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.coast != nil
}

// SetSatellitePosition moves the satellite marker. altitudeKm <= 0 means
// unknown; the footprint then assumes model.DefaultAltitudeKm.
func (v *EarthView) SetSatellitePosition(lon, lat, altitudeKm float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sat.Position = model.GeoPoint{Lon: lon, Lat: lat}
	v.sat.AltitudeKm = altitudeKm
	v.sat.HasPosition = true
}

// SetSatelliteInfo sets the label and catalog number shown in the readout.
func (v *EarthView) SetSatelliteInfo(name string, catalogID uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sat.Name = name
	v.sat.CatalogID = catalogID
}

// Satellite returns a copy of the satellite state.
func (v *EarthView) Satellite() model.SatelliteState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sat
}

// SetGroundTrack replaces the whole track. Points must be strictly
// increasing in time; otherwise the old track is kept.
func (v *EarthView) SetGroundTrack(points []model.TrackPoint) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.track.Replace(points); err != nil {
		return err
	}
	v.metrics.SetTrackPoints(v.track.Len())
	return nil
}

// AddTrackPoint appends one sample. A zero t stamps the point with the
// current wall-clock time.
func (v *EarthView) AddTrackPoint(lon, lat float64, t time.Time) error {
	if t.IsZero() {
		t = time.Now()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	err := v.track.Append(model.TrackPoint{GeoPoint: model.GeoPoint{Lon: lon, Lat: lat}, Time: t})
	if err != nil {
		return err
	}
	v.metrics.SetTrackPoints(v.track.Len())
	return nil
}

// ClearGroundTrack drops every track point.
func (v *EarthView) ClearGroundTrack() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.track.Clear()
	v.metrics.SetTrackPoints(0)
}

// GroundTrack returns a copy of the track points.
func (v *EarthView) GroundTrack() []model.TrackPoint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.track.Points()
}

// TrackPointAt returns the sample the satellite should be shown at for
// time t, see core.LowerBound.
func (v *EarthView) TrackPointAt(t time.Time) (model.TrackPoint, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.track.At(t)
}

// SetObserver places the ground station marker.
func (v *EarthView) SetObserver(obs model.Observer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observer = &obs
}

// Observer returns the observer, if one was set.
func (v *EarthView) Observer() (model.Observer, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.observer == nil {
		return model.Observer{}, false
	}
	return *v.observer, true
}

// SetLayerEnabled toggles one or more layers.
func (v *EarthView) SetLayerEnabled(l Layer, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if enabled {
		v.opts.DisabledLayers &^= l
	} else {
		v.opts.DisabledLayers |= l
	}
}

// LayerEnabled reports whether every layer in l is drawn.
func (v *EarthView) LayerEnabled(l Layer) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opts.DisabledLayers&l == 0
}

// SetTrackMode switches between line, dots and both.
func (v *EarthView) SetTrackMode(m TrackMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.opts.TrackMode = m
}

// Readout formats the telemetry panel for simTime.
func (v *EarthView) Readout(simTime time.Time) model.Readout {
	v.mu.Lock()
	defer v.mu.Unlock()

	r := model.Readout{
		Name:      v.sat.Name,
		CatalogID: "-----",
		Time:      simTime.UTC().Format("15:04:05"),
	}
	if r.Name == "" {
		r.Name = "Unknown"
	}
	if v.sat.CatalogID != 0 {
		r.CatalogID = strconv.FormatUint(uint64(v.sat.CatalogID), 10)
	}
	if v.sat.HasPosition {
		r.HasPosition = true
		r.Latitude = formatHemisphere(v.sat.Position.Lat, "N", "S")
		r.Longitude = formatHemisphere(v.sat.Position.Lon, "E", "W")
		r.Altitude = fmt.Sprintf("%.0f km", v.sat.EffectiveAltitudeKm())
	}
	if v.observer != nil {
		r.Observer = v.observer.Label
		if r.Observer == "" {
			r.Observer = "Unknown"
		}
	}
	return r
}

func formatHemisphere(deg float64, pos, neg string) string {
	dir := pos
	if deg < 0 {
		dir = neg
	}
	return fmt.Sprintf("%.2f°%s", math.Abs(deg), dir)
}

// Draw repaints the whole surface. The projection follows the canvas
// size, so a resized canvas is handled on the next frame.
func (v *EarthView) Draw(c Canvas) {
	start := time.Now()

	v.mu.Lock()
	defer v.mu.Unlock()

	proj := core.NewProjection(c.Width(), c.Height())
	col := v.opts.Colors

	c.SetDash()
	c.SetColor(col.Background)
	c.FillRect(0, 0, proj.Width, proj.Height)

	if v.enabled(LayerGrid) {
		v.drawGrid(c, proj)
	}
	if v.enabled(LayerLandmarks) {
		v.drawLandmarks(c, proj)
	}
	if v.enabled(LayerCoastlines) && v.coast != nil {
		v.drawCoastlines(c, proj)
	}
	if v.enabled(LayerTrack) && v.track.Len() >= 2 {
		v.drawTrack(c, proj)
	}
	if v.enabled(LayerFootprint) && v.sat.HasPosition {
		v.drawFootprint(c, proj)
	}
	if v.enabled(LayerObserver) && v.observer != nil {
		v.drawObserver(c, proj)
	}
	if v.enabled(LayerSatellite) && v.sat.HasPosition {
		v.drawSatellite(c, proj)
	}

	v.metrics.ObserveFrame("earth", time.Since(start))
}

func (v *EarthView) enabled(l Layer) bool {
	return v.opts.DisabledLayers&l == 0
}

func (v *EarthView) drawGrid(c Canvas, proj core.Projection) {
	col := v.opts.Colors
	step := v.opts.GridStep

	c.SetLineWidth(1)
	for lon := -180.0; lon <= 180; lon += step {
		if lon == 0 || lon == 180 || lon == -180 {
			c.SetColor(col.GridMajor)
		} else {
			c.SetColor(col.Grid)
		}
		top, bottom := proj.Project(lon, 90), proj.Project(lon, -90)
		c.MoveTo(top.X, top.Y)
		c.LineTo(bottom.X, bottom.Y)
		c.Stroke()
	}
	for lat := -90.0; lat <= 90; lat += step {
		if lat == 0 {
			c.SetColor(col.GridMajor)
		} else {
			c.SetColor(col.Grid)
		}
		west, east := proj.Project(-180, lat), proj.Project(180, lat)
		c.MoveTo(west.X, west.Y)
		c.LineTo(east.X, east.Y)
		c.Stroke()
	}

	c.SetColor(col.TextGrid)
	for lon := -180 + step; lon <= 180; lon += step {
		p := proj.Project(lon, -90)
		c.Text(strconv.FormatFloat(lon, 'f', -1, 64), p.X, proj.Height-14, 0.5, 1)
	}
	for lat := -80.0; lat <= 80; lat += 10 {
		if lat == 0 {
			continue
		}
		p := proj.Project(-180, lat)
		c.Text(strconv.FormatFloat(lat, 'f', -1, 64), 24, p.Y, 1, 0.5)
	}
}

func (v *EarthView) drawLandmarks(c Canvas, proj core.Projection) {
	col := v.opts.Colors
	c.SetLineWidth(1)
	for i, lm := range v.opts.Landmarks {
		p := proj.ProjectPoint(lm.Position)
		c.SetColor(col.Landmark)
		c.StrokeCircle(p.X, p.Y, 2)
		c.SetColor(col.LandmarkLabel)
		c.Text(v.labels[i], p.X+5, p.Y, 0, 0.5)
	}
}

func (v *EarthView) drawCoastlines(c Canvas, proj core.Projection) {
	c.SetColor(v.opts.Colors.Coastline)
	c.SetLineWidth(1)
	for _, line := range v.coast.Lines {
		strokeRuns(c, core.SegmentGeoPath(proj, line))
	}
}

func (v *EarthView) drawTrack(c Canvas, proj core.Projection) {
	col := v.opts.Colors
	points := v.track.Points()
	mode := v.opts.TrackMode

	if mode == TrackLine || mode == TrackBoth {
		c.SetColor(col.Orbit)
		c.SetLineWidth(0.5)
		strokeRuns(c, core.SegmentTrack(proj, points))
	}

	if mode == TrackDots || mode == TrackBoth {
		c.SetColor(col.OrbitDots)
		var last time.Time
		for i, p := range points {
			if i > 0 && p.Time.Sub(last) < v.opts.TrackDotInterval {
				continue
			}
			px := proj.ProjectPoint(p.GeoPoint)
			c.FillCircle(px.X, px.Y, 1)
			last = p.Time
		}
	}
}

func (v *EarthView) drawFootprint(c Canvas, proj core.Projection) {
	ring := core.FootprintRing(v.sat.Position, v.sat.EffectiveAltitudeKm())
	c.SetColor(v.opts.Colors.Footprint)
	c.SetLineWidth(1)
	c.SetDash(5, 5)
	strokeRuns(c, core.SegmentGeoPath(proj, ring))
	c.SetDash()
}

func (v *EarthView) drawObserver(c Canvas, proj core.Projection) {
	col := v.opts.Colors
	p := proj.ProjectPoint(v.observer.Position)
	c.SetColor(col.Observer)
	c.FillCircle(p.X, p.Y, 4)
	if v.observer.Label != "" {
		c.SetColor(col.TextPrimary)
		c.Text(v.observer.Label, p.X+8, p.Y, 0, 0.5)
	}
}

// drawSatellite paints a small ISS-like icon: body, two panels and struts.
func (v *EarthView) drawSatellite(c Canvas, proj core.Projection) {
	col := v.opts.Colors
	p := proj.ProjectPoint(v.sat.Position)

	c.SetColor(col.Satellite)
	c.FillRect(p.X-2, p.Y-6, 4, 12)
	c.FillRect(p.X-12, p.Y-2, 8, 4)
	c.FillRect(p.X+4, p.Y-2, 8, 4)

	c.SetLineWidth(1)
	for _, side := range []float64{-1, 1} {
		tip := p.X + side*12
		c.MoveTo(tip, p.Y)
		c.LineTo(tip+side*2, p.Y-3)
		c.MoveTo(tip, p.Y)
		c.LineTo(tip+side*2, p.Y+3)
	}
	c.Stroke()

	if v.sat.Name != "" {
		c.SetColor(col.TextPrimary)
		c.Text(v.sat.Name, p.X+18, p.Y-4, 0, 0)
	}
}

// strokeRuns strokes each run as its own sub-path so that no segment
// spans the antimeridian.
func strokeRuns(c Canvas, runs [][]core.Pixel) {
	for _, run := range runs {
		if len(run) == 0 {
			continue
		}
		c.MoveTo(run[0].X, run[0].Y)
		for _, p := range run[1:] {
			c.LineTo(p.X, p.Y)
		}
		c.Stroke()
	}
}
