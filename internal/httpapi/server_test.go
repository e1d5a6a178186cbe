package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/satwatch/internal/config"
	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/internal/observability"
	"github.com/signalsfoundry/satwatch/internal/sim"
	"github.com/signalsfoundry/satwatch/kb"
)

type apiHarness struct {
	dash      *sim.Dashboard
	collector *observability.Collector
	handler   http.Handler
	server    *Server
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	cfg := config.Default()
	cfg.Earth.CoastlineSource = ""
	cfg.Demo.Enabled = false
	dash := sim.NewDashboard(cfg, nil)

	collector, err := observability.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	srv := NewServer(cfg, dash, logging.Noop(), collector)
	return &apiHarness{dash: dash, collector: collector, handler: srv.Handler(), server: srv}
}

func (h *apiHarness) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealthCheck(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newAPIHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestGetConfig(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodGet, "/api/config")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Observer struct {
			Lat   float64 `json:"lat"`
			Lon   float64 `json:"lon"`
			Alt   float64 `json:"alt"`
			Label string  `json:"label"`
		} `json:"observer"`
		Earth struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"earth"`
		Dials struct {
			Size int `json:"size"`
		} `json:"dials"`
		Demo bool `json:"demo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.InDelta(t, 47.315813, body.Observer.Lat, 1e-9)
	assert.InDelta(t, 39.788243, body.Observer.Lon, 1e-9)
	assert.InDelta(t, 70, body.Observer.Alt, 1e-9)
	assert.Equal(t, "Rostov-on-Don", body.Observer.Label)
	assert.Equal(t, 1024, body.Earth.Width)
	assert.Equal(t, 512, body.Earth.Height)
	assert.Equal(t, 300, body.Dials.Size)
	assert.False(t, body.Demo)
}

func TestGetTelemetry(t *testing.T) {
	h := newAPIHarness(t)
	h.dash.SetSatellitePosition(context.Background(), 10, 20, 500)

	rec := h.do(t, http.MethodGet, "/api/telemetry")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap kb.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.True(t, snap.Satellite.HasPosition)
	assert.Equal(t, 10.0, snap.Satellite.Position.Lon)
	require.NotNil(t, snap.Observer)
	assert.Equal(t, "Rostov-on-Don", snap.Observer.Label)
}

func TestEarthViewPNG(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodGet, "/api/earthview.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}

func TestDialPNG(t *testing.T) {
	h := newAPIHarness(t)

	for _, name := range []string{"azimuth", "elevation"} {
		rec := h.do(t, http.MethodGet, "/api/dials/"+name+".png")
		require.Equal(t, http.StatusOK, rec.Code, name)

		img, err := png.Decode(rec.Body)
		require.NoError(t, err, name)
		assert.Equal(t, 300, img.Bounds().Dx(), name)
		assert.Equal(t, 300, img.Bounds().Dy(), name)
	}

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/dials/compass.png").Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/dials/azimuth").Code)
}

func TestDialClick(t *testing.T) {
	h := newAPIHarness(t)

	// The dial is 300 px square with its pivot at (150, 150).
	rec := h.do(t, http.MethodPost, "/api/dials/azimuth/click?x=280&y=150")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Dial  string  `json:"dial"`
		Angle float64 `json:"angle"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "azimuth", body.Dial)
	assert.InDelta(t, 90, body.Angle, 1e-9)
	assert.InDelta(t, 90, h.dash.Azimuth.Azimuth(), 1e-9)

	rec = h.do(t, http.MethodPost, "/api/dials/elevation/click?x=20&y=150")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, -90, h.dash.Elevation.Elevation(), 1e-9)
	assert.InDelta(t, -90, h.dash.Telemetry().Dials.ElevationDeg, 1e-9)

	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/api/dials/azimuth/click?x=1").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/api/dials/azimuth/click?x=NaN&y=1").Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPost, "/api/dials/roll/click?x=1&y=1").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, h.do(t, http.MethodGet, "/api/dials/azimuth/click?x=1&y=1").Code)
}

func TestHTTPMetrics(t *testing.T) {
	h := newAPIHarness(t)

	h.do(t, http.MethodGet, "/api/health")
	h.do(t, http.MethodGet, "/api/health")
	h.do(t, http.MethodGet, "/nowhere")

	assert.Equal(t, 2.0, testutil.ToFloat64(h.collector.HTTPRequests.WithLabelValues("/api/health", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.collector.HTTPRequests.WithLabelValues("unmatched", "GET", "404")))

	rec := h.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "satwatch_http_requests_total")
}

func TestTelemetryWebSocket(t *testing.T) {
	h := newAPIHarness(t)
	ts := httptest.NewServer(h.handler)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/telemetry"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first telemetryMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, wsTypeSnapshot, first.Type)
	require.NotNil(t, first.Snapshot.Observer)
	assert.Equal(t, "Rostov-on-Don", first.Snapshot.Observer.Label)

	// The subscription is registered before the first snapshot is written.
	h.dash.SetSatellitePosition(context.Background(), -45, 12, 600)

	for {
		var msg telemetryMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == kb.EventSatelliteUpdated.String() && msg.Snapshot.Satellite.HasPosition {
			assert.Equal(t, -45.0, msg.Snapshot.Satellite.Position.Lon)
			break
		}
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(h.collector.WebSocketClients))
}

func TestParseCoord(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/?x=12.5&y=Inf&z=", nil)

	x, err := parseCoord(req, "x")
	require.NoError(t, err)
	assert.Equal(t, 12.5, x)

	_, err = parseCoord(req, "y")
	assert.Error(t, err)
	_, err = parseCoord(req, "z")
	assert.Error(t, err)
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Earth.CoastlineSource = ""
	cfg.Demo.Enabled = false

	var buf bytes.Buffer
	log := logging.New(logging.Config{Format: "json", Output: &buf})
	srv := NewServer(cfg, sim.NewDashboard(cfg, nil), log, nil)

	rec := httptest.NewRecorder()
	srv.writeJSON(rec, httptest.NewRequest(http.MethodGet, "/api/telemetry", nil), http.StatusOK, map[string]float64{"lat": math.NaN()})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "failed to encode JSON response")
	assert.Contains(t, buf.String(), "unsupported value")
}
