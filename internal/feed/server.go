package feed

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/internal/observability"
)

// NewGRPCServer builds a gRPC server with the feed registered behind the
// request-id, tracing and metrics interceptors. collector may be nil.
func NewGRPCServer(svc OrbitFeedServer, log logging.Logger, collector *observability.Collector, opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			RequestIDUnaryServerInterceptor(log),
			TracingUnaryServerInterceptor(),
			collector.UnaryServerInterceptor(),
		),
	}
	server := grpc.NewServer(append(base, opts...)...)
	RegisterOrbitFeedServer(server, svc)
	return server
}
