package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/signalsfoundry/satwatch/internal/logging"
)

// Span exporters understood by InitTracing.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

const (
	defaultServiceName  = "satwatch-server"
	defaultOTLPEndpoint = "localhost:4317"
	shutdownTimeout     = 5 * time.Second
)

// TracingConfig selects whether spans are recorded and where they go.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Exporter    string  `yaml:"exporter"` // stdout | otlp
	Endpoint    string  `yaml:"endpoint"` // otlp only
	SampleRatio float64 `yaml:"sample_ratio"`

	// Output receives stdout spans instead of os.Stdout.
	Output io.Writer `yaml:"-"`
}

// DefaultTracingConfig has tracing off, with the stdout exporter and full
// sampling ready for when it is switched on.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: defaultServiceName,
		Exporter:    ExporterStdout,
		SampleRatio: 1,
	}
}

// ApplyEnv overlays SATWATCH_TRACING_* and SATWATCH_OTLP_ENDPOINT read
// through lookup. Unparseable values are ignored.
func (c *TracingConfig) ApplyEnv(lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("SATWATCH_TRACING_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v, ok := get("SATWATCH_TRACING_EXPORTER"); ok {
		c.Exporter = strings.ToLower(v)
	}
	if v, ok := get("SATWATCH_TRACING_SERVICE_NAME"); ok {
		c.ServiceName = v
	}
	if v, ok := get("SATWATCH_TRACING_SAMPLE_RATIO"); ok {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r >= 0 && r <= 1 {
			c.SampleRatio = r
		}
	}
	if v, ok := get("SATWATCH_OTLP_ENDPOINT"); ok {
		c.Endpoint = v
	}
}

// TracingConfigFromEnv is DefaultTracingConfig with the process
// environment applied.
func TracingConfigFromEnv() TracingConfig {
	cfg := DefaultTracingConfig()
	cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

// Tracing is the installed tracer provider. The zero value and a nil
// *Tracing are valid and do nothing.
type Tracing struct {
	provider *sdktrace.TracerProvider
	log      logging.Logger
}

// InitTracing installs the global tracer provider and propagators. With
// tracing disabled a no-op provider is installed so otel.Tracer calls stay
// cheap.
func InitTracing(ctx context.Context, cfg TracingConfig, log logging.Logger) (*Tracing, error) {
	if log == nil {
		log = logging.Noop()
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Info(ctx, "tracing disabled")
		return &Tracing{log: log}, nil
	}

	exp, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	service := cfg.ServiceName
	if service == "" {
		service = defaultServiceName
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", service),
		attribute.String("service.namespace", "satwatch"),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info(ctx, "tracing enabled",
		logging.String("exporter", cfg.Exporter),
		logging.String("service_name", service),
		logging.Float64("sample_ratio", cfg.SampleRatio),
	)
	return &Tracing{provider: tp, log: log}, nil
}

func newExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(cfg.Exporter) {
	case ExporterStdout, "":
		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}
		return stdouttrace.New(
			stdouttrace.WithWriter(out),
			stdouttrace.WithoutTimestamps(),
		)
	case ExporterOTLP, "otlpgrpc":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultOTLPEndpoint
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		))
	default:
		return nil, fmt.Errorf("unsupported tracing exporter: %s", cfg.Exporter)
	}
}

// Enabled reports whether spans are being exported.
func (t *Tracing) Enabled() bool {
	return t != nil && t.provider != nil
}

// Shutdown flushes pending spans, giving up after a few seconds. Errors
// are logged, not returned.
func (t *Tracing) Shutdown(ctx context.Context) {
	if !t.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := t.provider.Shutdown(ctx); err != nil {
		t.log.Warn(ctx, "tracing shutdown failed", logging.Err(err))
	}
}
