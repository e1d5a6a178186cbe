package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestUnaryInterceptorRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	interceptor := collector.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/satwatch.feed.v1.OrbitFeed/SetSatellitePosition"}

	_, err = interceptor(context.Background(), struct{}{}, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		time.Sleep(time.Millisecond)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("interceptor handler returned error: %v", err)
	}

	if got := testutil.ToFloat64(collector.RPCRequests.WithLabelValues("OrbitFeed", "SetSatellitePosition", "OK")); got != 1 {
		t.Fatalf("satwatch_feed_requests_total = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "satwatch_feed_request_duration_seconds", map[string]string{
		"service": "OrbitFeed",
		"method":  "SetSatellitePosition",
	}); count != 1 {
		t.Fatalf("satwatch_feed_request_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestUnaryInterceptorRecordsErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	interceptor := collector.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/satwatch.feed.v1.OrbitFeed/AddTrackPoint"}

	_, _ = interceptor(context.Background(), struct{}{}, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.FailedPrecondition, "boom")
	})

	if got := testutil.ToFloat64(collector.RPCRequests.WithLabelValues("OrbitFeed", "AddTrackPoint", "FailedPrecondition")); got != 1 {
		t.Fatalf("satwatch_feed_requests_total error label = %v, want 1", got)
	}
}

func TestCollectorReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}

	first.ObserveHTTP("/api/health", http.MethodGet, 200, time.Millisecond)
	second.ObserveHTTP("/api/health", http.MethodGet, 200, time.Millisecond)

	if got := testutil.ToFloat64(first.HTTPRequests.WithLabelValues("/api/health", "GET", "200")); got != 2 {
		t.Fatalf("satwatch_http_requests_total = %v, want 2", got)
	}
}

func TestRenderCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewRenderCollector(reg)
	if err != nil {
		t.Fatalf("NewRenderCollector: %v", err)
	}

	c.ObserveFrame("earth", 2*time.Millisecond)
	c.ObserveFrame("earth", 3*time.Millisecond)
	c.ObserveFrame("azimuth", time.Millisecond)
	c.SetTrackPoints(553)
	c.IncTrackRegenerations()
	c.SetCoastlineFeatures(134)
	c.CoastlineLoadFailed()

	if got := testutil.ToFloat64(c.FramesRendered.WithLabelValues("earth")); got != 2 {
		t.Fatalf("earth frames = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.TrackPoints); got != 553 {
		t.Fatalf("track points = %v", got)
	}
	if got := testutil.ToFloat64(c.TrackRegenerations); got != 1 {
		t.Fatalf("regenerations = %v", got)
	}
	if got := testutil.ToFloat64(c.CoastlineFeatures); got != 134 {
		t.Fatalf("coastline features = %v", got)
	}
	if got := testutil.ToFloat64(c.CoastlineLoadFailures); got != 1 {
		t.Fatalf("coastline failures = %v", got)
	}
	if count := histogramSampleCount(t, c.Gatherer(), "satwatch_render_duration_seconds", map[string]string{"view": "earth"}); count != 2 {
		t.Fatalf("render duration sample_count = %d, want 2", count)
	}

	var nilCollector *RenderCollector
	nilCollector.ObserveFrame("earth", time.Millisecond)
	nilCollector.SetTrackPoints(1)
}

func TestMetricsHandlerExposesServerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	renderCollector, err := NewRenderCollector(reg)
	if err != nil {
		t.Fatalf("NewRenderCollector: %v", err)
	}
	collector.RPCRequests.WithLabelValues("svc", "method", "OK").Inc()
	collector.RPCDurations.WithLabelValues("svc", "method").Observe(0.01)
	collector.ObserveHTTP("/api/earthview.png", http.MethodGet, 200, 5*time.Millisecond)
	collector.AddWebSocketClients(2)
	renderCollector.SetTrackPoints(7)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"satwatch_feed_requests_total",
		"satwatch_feed_request_duration_seconds",
		"satwatch_http_requests_total",
		"satwatch_http_request_duration_seconds",
		"satwatch_websocket_clients 2",
		"satwatch_ground_track_points 7",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output:\n%s", metric, body)
		}
	}
}

func TestSplitMethod(t *testing.T) {
	tests := []struct {
		in, service, method string
	}{
		{"/satwatch.feed.v1.OrbitFeed/GetTelemetry", "OrbitFeed", "GetTelemetry"},
		{"OrbitFeed/GetTelemetry", "OrbitFeed", "GetTelemetry"},
		{"", "unknown", "unknown"},
		{"/justone", "unknown", "unknown"},
	}
	for _, tt := range tests {
		service, method := SplitMethod(tt.in)
		if service != tt.service || method != tt.method {
			t.Errorf("SplitMethod(%q) = %q, %q; want %q, %q", tt.in, service, method, tt.service, tt.method)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
