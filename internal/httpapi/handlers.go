package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/render"
)

const (
	dialAzimuth   = "azimuth"
	dialElevation = "elevation"
)

// writeJSON encodes data as the response body with the given status.
// Encoding failures are logged; the status line has already gone out.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		ctx := r.Context()
		s.requestLog(ctx).Error(ctx, "failed to encode JSON response", logging.Err(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, map[string]string{"error": msg})
}

// HealthCheck reports liveness.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// GetConfig returns the observer and widget settings the page needs to
// lay itself out.
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	obs := s.cfg.Observer
	if live, ok := s.dash.Earth.Observer(); ok {
		obs.Lat, obs.Lon, obs.AltM, obs.Label = live.Position.Lat, live.Position.Lon, live.AltitudeM, live.Label
	}
	width, height := s.dash.EarthSize()

	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"observer": map[string]any{
			"lat":   obs.Lat,
			"lon":   obs.Lon,
			"alt":   obs.AltM,
			"label": obs.Label,
		},
		"earth": map[string]any{
			"width":      width,
			"height":     height,
			"track_mode": s.cfg.Earth.TrackMode,
			"coastlines": s.dash.Earth.CoastlinesLoaded(),
		},
		"dials": map[string]any{
			"size": s.dash.DialSize(),
			"mode": s.cfg.Demo.DialMode,
		},
		"demo": s.cfg.Demo.Enabled,
		"feed": s.dash.FeedAttached(),
	})
}

// GetTelemetry returns the latest telemetry snapshot.
func (s *Server) GetTelemetry(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.dash.Telemetry())
}

// EarthViewPNG renders one frame of the Earth view.
func (s *Server) EarthViewPNG(w http.ResponseWriter, r *http.Request) {
	width, height := s.dash.EarthSize()
	c := render.NewImageCanvas(width, height)
	s.writeFrame(w, r, "earth", func() { s.dash.Earth.Draw(c) }, c)
}

// DialPNG renders one frame of the dial named by the path, e.g.
// /api/dials/azimuth.png.
func (s *Server) DialPNG(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("dial"), ".png")
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "unknown dial image")
		return
	}
	size := s.dash.DialSize()
	c := render.NewImageCanvas(size, size)

	switch name {
	case dialAzimuth:
		s.writeFrame(w, r, name, func() { s.dash.Azimuth.Draw(c) }, c)
	case dialElevation:
		s.writeFrame(w, r, name, func() { s.dash.Elevation.Draw(c) }, c)
	default:
		s.writeError(w, r, http.StatusNotFound, "unknown dial "+strconv.Quote(name))
	}
}

func (s *Server) writeFrame(w http.ResponseWriter, r *http.Request, view string, draw func(), c *render.ImageCanvas) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "HTTP/render/"+view)
	defer span.End()
	span.SetAttributes(
		attribute.String("view", view),
		attribute.Int("width", c.Width()),
		attribute.Int("height", c.Height()),
	)

	draw()

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.requestLog(ctx).Error(ctx, "png encode failed", logging.String("view", view), logging.Err(err))
		s.writeError(w, r, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// DialClick points a dial at the clicked pixel, stopping its demo.
// Coordinates come from the x and y query parameters in dial pixels.
func (s *Server) DialClick(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("dial")
	if name != dialAzimuth && name != dialElevation {
		s.writeError(w, r, http.StatusNotFound, "unknown dial "+strconv.Quote(name))
		return
	}

	x, errX := parseCoord(r, "x")
	y, errY := parseCoord(r, "y")
	if errX != nil || errY != nil {
		s.writeError(w, r, http.StatusBadRequest, "x and y must be finite numbers")
		return
	}

	var angle float64
	if name == dialAzimuth {
		angle = s.dash.ClickAzimuth(x, y)
	} else {
		angle = s.dash.ClickElevation(x, y)
	}

	ctx := r.Context()
	s.requestLog(ctx).Debug(ctx, "dial clicked",
		logging.String("dial", name),
		logging.Float64("angle", angle),
	)
	s.writeJSON(w, r, http.StatusOK, map[string]any{"dial": name, "angle": angle})
}

func (s *Server) requestLog(ctx context.Context) logging.Logger {
	if l := logging.LoggerFromContext(ctx); l != nil {
		return l
	}
	return s.log
}

func parseCoord(r *http.Request, key string) (float64, error) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
