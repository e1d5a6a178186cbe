package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/signalsfoundry/satwatch/internal/config"
	"github.com/signalsfoundry/satwatch/internal/feed"
	"github.com/signalsfoundry/satwatch/internal/httpapi"
	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/internal/observability"
	"github.com/signalsfoundry/satwatch/internal/sim"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "satwatch-server: %v\n", err)
		os.Exit(2)
	}

	log := logging.New(cfg.LoggingConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(context.Background(), "server exited", logging.Err(err))
		os.Exit(1)
	}
}

// run serves the dashboard until ctx is cancelled or a listener fails.
func run(ctx context.Context, cfg config.Config, log logging.Logger) error {
	tracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer tracing.Shutdown(context.Background())

	collector, err := observability.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	renderMetrics, err := observability.NewRenderCollector(nil)
	if err != nil {
		return fmt.Errorf("init render metrics: %w", err)
	}

	dash := sim.NewDashboard(cfg, log, sim.WithMetrics(renderMetrics))
	go func() {
		// Coastline failures are logged by the view; the map works without them.
		<-dash.Earth.InitAsync(ctx)
	}()

	httpSrv := httpapi.NewServer(cfg, dash, log, collector).HTTPServer()
	grpcSrv := feed.NewGRPCServer(feed.NewService(dash, log), log, collector)

	lis, err := net.Listen("tcp", cfg.FeedAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.FeedAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logging.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info(gctx, "starting orbit feed gRPC server", logging.String("addr", lis.Addr().String()))
		if err := grpcSrv.Serve(lis); err != nil {
			return fmt.Errorf("feed server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		dash.Start(gctx)
		<-gctx.Done()

		log.Info(context.Background(), "shutting down")
		dash.Stop()
		grpcSrv.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
