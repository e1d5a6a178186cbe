package core

import (
	"math"
	"testing"
	"time"
)

func TestProjectKnownPoints(t *testing.T) {
	proj := NewProjection(800, 400)

	tests := []struct {
		name     string
		lon, lat float64
		want     Pixel
	}{
		{name: "origin", lon: 0, lat: 0, want: Pixel{X: 400, Y: 200}},
		{name: "top-left corner", lon: -180, lat: 90, want: Pixel{X: 0, Y: 0}},
		{name: "bottom-right corner", lon: 180, lat: -90, want: Pixel{X: 800, Y: 400}},
		{name: "wrapped east", lon: 450, lat: 0, want: Pixel{X: 600, Y: 200}},
		{name: "wrapped west", lon: -270, lat: 0, want: Pixel{X: 600, Y: 200}},
		{name: "latitude beyond pole is not clamped", lon: 0, lat: 135, want: Pixel{X: 400, Y: -100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := proj.Project(tt.lon, tt.lat)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Fatalf("Project(%v, %v) = %+v, want %+v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

func TestUnprojectInvertsProject(t *testing.T) {
	proj := NewProjection(1024, 512)

	for lon := -179.5; lon <= 180; lon += 7.25 {
		for lat := -90.0; lat <= 90; lat += 5.5 {
			p := proj.Project(lon, lat)
			got := proj.Unproject(p.X, p.Y)
			if math.Abs(got.Lon-lon) > 1e-9 || math.Abs(got.Lat-lat) > 1e-9 {
				t.Fatalf("Unproject(Project(%v, %v)) = %v", lon, lat, got)
			}
		}
	}
}

func TestProjectUnprojectRoundTripOnPixels(t *testing.T) {
	proj := NewProjection(800, 400)

	for _, p := range []Pixel{{0, 0}, {800, 400}, {123.5, 77.25}, {400, 200}} {
		g := proj.Unproject(p.X, p.Y)
		got := proj.ProjectPoint(g)
		if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
			t.Fatalf("Project(Unproject(%+v)) = %+v", p, got)
		}
	}
}

func TestProjectionIsEvenlySpaced(t *testing.T) {
	proj := NewProjection(720, 360)

	var prev Pixel
	for i, lon := 0, -180.0; lon <= 180; i, lon = i+1, lon+30 {
		p := proj.Project(lon, 0)
		if i > 0 && math.Abs((p.X-prev.X)-60) > 1e-9 {
			t.Fatalf("meridian spacing at lon=%v is %v, want 60", lon, p.X-prev.X)
		}
		prev = p
	}
	for i, lat := 0, 90.0; lat >= -90; i, lat = i+1, lat-30 {
		p := proj.Project(0, lat)
		if i > 0 && math.Abs((p.Y-prev.Y)-60) > 1e-9 {
			t.Fatalf("parallel spacing at lat=%v is %v, want 60", lat, p.Y-prev.Y)
		}
		prev = p
	}
}

func TestNormalizeLongitude(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{180, 180},
		{-180, 180},
		{540, 180},
		{-540, 180},
		{0, 0},
		{190, -170},
		{-190, 170},
		{719, -1},
	}
	for _, tt := range tests {
		got := NormalizeLongitude(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLongitude(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if again := NormalizeLongitude(got); again != got {
			t.Errorf("NormalizeLongitude is not idempotent for %v: %v then %v", tt.in, got, again)
		}
	}
}

func TestWrapLargeLongitudes(t *testing.T) {
	proj := NewProjection(800, 400)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for _, lon := range []float64{1e12, -1e15, 1e20, -1e300, math.MaxFloat64} {
			px := proj.Project(lon, 10)
			if px.X < 0 || px.X > proj.Width {
				t.Errorf("Project(%v, 10).X = %v, want within [0, %v]", lon, px.X, proj.Width)
			}
			n := NormalizeLongitude(lon)
			if n <= -180 || n > 180 {
				t.Errorf("NormalizeLongitude(%v) = %v, want within (-180, 180]", lon, n)
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wrapping large longitudes did not finish")
	}
}
