// Package httpapi serves the dashboard over HTTP: JSON endpoints, PNG
// frames of each widget, dial clicks and a telemetry WebSocket.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/signalsfoundry/satwatch/internal/config"
	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/internal/observability"
	"github.com/signalsfoundry/satwatch/internal/sim"
)

const tracerName = "github.com/signalsfoundry/satwatch/internal/httpapi"

// Server holds the handlers' dependencies.
type Server struct {
	cfg       config.Config
	dash      *sim.Dashboard
	log       logging.Logger
	collector *observability.Collector
	upgrader  websocket.Upgrader

	// wsPing is how often idle WebSocket clients are pinged.
	wsPing time.Duration
}

// NewServer builds the API. collector may be nil.
func NewServer(cfg config.Config, dash *sim.Dashboard, log logging.Logger, collector *observability.Collector) *Server {
	if log == nil {
		log = logging.Noop()
	}
	return &Server{
		cfg:       cfg,
		dash:      dash,
		log:       log.With(logging.String("component", "http")),
		collector: collector,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		wsPing: 30 * time.Second,
	}
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.HealthCheck)
	mux.HandleFunc("GET /api/config", s.GetConfig)
	mux.HandleFunc("GET /api/telemetry", s.GetTelemetry)
	mux.HandleFunc("GET /api/earthview.png", s.EarthViewPNG)
	mux.HandleFunc("GET /api/dials/{dial}", s.DialPNG)
	mux.HandleFunc("POST /api/dials/{dial}/click", s.DialClick)
	mux.HandleFunc("GET /ws/telemetry", s.TelemetryStream)
	mux.Handle("GET /metrics", s.collector.Handler())

	return s.middleware(mux)
}

// HTTPServer wraps Handler with the timeouts used in production.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
