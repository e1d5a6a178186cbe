package core

import (
	"testing"

	"github.com/signalsfoundry/satwatch/model"
)

func TestSplitPathAcrossAntimeridian(t *testing.T) {
	proj := NewProjection(360, 180)
	path := []model.GeoPoint{{Lon: 179, Lat: 0}, {Lon: -179, Lat: 0}}

	runs := SegmentGeoPath(proj, path)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2: %+v", len(runs), runs)
	}
	if runs[0][0].X != 359 || runs[1][0].X != 1 {
		t.Fatalf("unexpected run contents: %+v", runs)
	}
}

func TestSplitPathKeepsContinuousLine(t *testing.T) {
	proj := NewProjection(360, 180)
	path := []model.GeoPoint{{Lon: -10, Lat: 0}, {Lon: 0, Lat: 5}, {Lon: 10, Lat: 10}}

	runs := SegmentGeoPath(proj, path)
	if len(runs) != 1 || len(runs[0]) != 3 {
		t.Fatalf("got %+v, want a single run of 3 points", runs)
	}
}

func TestSplitPathDegenerateInputs(t *testing.T) {
	if runs := SplitPath(nil, 100); runs != nil {
		t.Fatalf("empty input produced %+v", runs)
	}
	if runs := SplitPath([]Pixel{{X: 1, Y: 1}}, 100); runs != nil {
		t.Fatalf("single point produced %+v", runs)
	}
}

func TestSplitPathThresholdIsHalfWidth(t *testing.T) {
	// Exactly half the width is not a wrap; anything more is.
	runs := SplitPath([]Pixel{{X: 0}, {X: 50}}, 100)
	if len(runs) != 1 {
		t.Fatalf("delta == width/2 split into %d runs", len(runs))
	}
	runs = SplitPath([]Pixel{{X: 0}, {X: 50.01}}, 100)
	if len(runs) != 2 {
		t.Fatalf("delta > width/2 gave %d runs, want 2", len(runs))
	}
}

func TestSegmentTrackMultipleCrossings(t *testing.T) {
	proj := NewProjection(720, 360)
	base := model.TrackPoint{}
	lons := []float64{170, 178, -176, -170, -178, 176, 170}
	track := make([]model.TrackPoint, len(lons))
	for i, lon := range lons {
		track[i] = base
		track[i].Lon = lon
	}

	runs := SegmentTrack(proj, track)
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	total := 0
	for _, r := range runs {
		total += len(r)
	}
	if total != len(lons) {
		t.Fatalf("runs hold %d points, want %d", total, len(lons))
	}
}
