// Command groundtrack-render steps the built-in demo headlessly and writes
// PNG frames of the Earth view and both dials.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/signalsfoundry/satwatch/internal/config"
	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/internal/sim"
	"github.com/signalsfoundry/satwatch/render"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	outDir := flag.String("out", "frames", "directory the PNG frames are written to")
	frames := flag.Int("frames", 10, "number of frames to render")
	every := flag.Int("every", 50, "demo ticks between rendered frames")
	start := flag.String("start", "", "simulation start time (RFC 3339, default now)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error(ctx, "failed to load configuration", logging.Err(err))
		os.Exit(1)
	}

	startTime := time.Now().UTC()
	if *start != "" {
		if startTime, err = time.Parse(time.RFC3339, *start); err != nil {
			log.Error(ctx, "invalid start time", logging.String("start", *start), logging.Err(err))
			os.Exit(2)
		}
	}

	dash := sim.NewDashboard(cfg, log, sim.WithStartTime(startTime))
	if err := dash.Earth.Init(ctx); err != nil {
		log.Warn(ctx, "rendering without coastlines", logging.Err(err))
	}

	written, err := renderFrames(ctx, dash, *outDir, *frames, *every)
	if err != nil {
		log.Error(ctx, "render failed", logging.Err(err))
		os.Exit(1)
	}
	log.Info(ctx, "frames written",
		logging.String("dir", *outDir),
		logging.Int("files", len(written)),
		logging.String("sim_time", dash.Clock.Now().Format(time.RFC3339)),
	)
}

// renderFrames advances the demos every ticks between frames and writes
// earth, azimuth and elevation PNGs for each frame. It returns the paths
// written in frame order.
func renderFrames(ctx context.Context, dash *sim.Dashboard, dir string, frames, every int) ([]string, error) {
	if frames <= 0 || every <= 0 {
		return nil, fmt.Errorf("frames and every must be positive, got %d and %d", frames, every)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	width, height := dash.EarthSize()
	size := dash.DialSize()

	var written []string
	for i := range frames {
		for range every {
			dash.EarthDemo().Tick(ctx)
			dash.AzimuthDemo().Tick()
			dash.ElevationDemo().Tick()
		}

		earth := render.NewImageCanvas(width, height)
		dash.Earth.Draw(earth)
		az := render.NewImageCanvas(size, size)
		dash.Azimuth.Draw(az)
		el := render.NewImageCanvas(size, size)
		dash.Elevation.Draw(el)

		paths := []string{
			filepath.Join(dir, fmt.Sprintf("earth-%04d.png", i)),
			filepath.Join(dir, fmt.Sprintf("azimuth-%04d.png", i)),
			filepath.Join(dir, fmt.Sprintf("elevation-%04d.png", i)),
		}
		canvases := []*render.ImageCanvas{earth, az, el}

		var g errgroup.Group
		for j := range paths {
			g.Go(func() error { return writePNG(paths[j], canvases[j]) })
		}
		if err := g.Wait(); err != nil {
			return written, err
		}
		written = append(written, paths...)
	}
	return written, nil
}

func writePNG(path string, c *render.ImageCanvas) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.EncodePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
