package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/signalsfoundry/satwatch/internal/config"
	"github.com/signalsfoundry/satwatch/internal/sim"
)

func TestRenderFrames(t *testing.T) {
	cfg := config.Default()
	cfg.Earth.CoastlineSource = ""
	cfg.Earth.Width, cfg.Earth.Height = 360, 180
	cfg.Demo.DialSize = 120

	start := time.Date(2025, time.March, 20, 6, 0, 0, 0, time.UTC)
	dash := sim.NewDashboard(cfg, nil, sim.WithStartTime(start))
	dir := t.TempDir()

	written, err := renderFrames(context.Background(), dash, dir, 2, 5)
	if err != nil {
		t.Fatalf("renderFrames: %v", err)
	}
	if len(written) != 6 {
		t.Fatalf("wrote %d files, want 6", len(written))
	}
	if !dash.Earth.Satellite().HasPosition {
		t.Fatal("demo tick did not place the satellite")
	}
	if !dash.Clock.Now().After(start) {
		t.Fatalf("clock did not advance: %v", dash.Clock.Now())
	}

	wantSize := map[string][2]int{
		"earth-0001.png":     {360, 180},
		"azimuth-0001.png":   {120, 120},
		"elevation-0001.png": {120, 120},
	}
	for name, size := range wantSize {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		img, err := png.Decode(f)
		_ = f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != size[0] || b.Dy() != size[1] {
			t.Fatalf("%s is %dx%d, want %dx%d", name, b.Dx(), b.Dy(), size[0], size[1])
		}
	}
}

func TestRenderFramesRejectsBadCounts(t *testing.T) {
	dash := sim.NewDashboard(config.Default(), nil)
	if _, err := renderFrames(context.Background(), dash, t.TempDir(), 0, 1); err == nil {
		t.Fatal("zero frames accepted")
	}
}
