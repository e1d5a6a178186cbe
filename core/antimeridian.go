package core

import (
	"math"

	"github.com/signalsfoundry/satwatch/model"
)

// SplitPath breaks a projected polyline into runs that can each be stroked
// as one sub-path. A new run starts wherever two consecutive points are
// more than half the surface width apart: on an equirectangular map that
// is the signature of an antimeridian crossing, and connecting the points
// would draw a line across the whole map.
//
// The half-width threshold is a heuristic. Dense tracks close to the poles
// can be split where they never actually wrapped.
//
// Inputs with fewer than two points produce no runs. A run may hold a
// single point when both of its neighbours were on the other side of a
// wrap; stroking it draws nothing.
func SplitPath(points []Pixel, width float64) [][]Pixel {
	if len(points) < 2 {
		return nil
	}

	var runs [][]Pixel
	start := 0
	for i := 1; i < len(points); i++ {
		if math.Abs(points[i].X-points[i-1].X) > width/2 {
			runs = append(runs, points[start:i])
			start = i
		}
	}
	return append(runs, points[start:])
}

// SegmentGeoPath projects a geographic polyline and splits it at
// antimeridian crossings.
func SegmentGeoPath(proj Projection, points []model.GeoPoint) [][]Pixel {
	if len(points) < 2 {
		return nil
	}
	px := make([]Pixel, len(points))
	for i, p := range points {
		px[i] = proj.ProjectPoint(p)
	}
	return SplitPath(px, proj.Width)
}

// SegmentTrack is SegmentGeoPath for timestamped track samples.
func SegmentTrack(proj Projection, points []model.TrackPoint) [][]Pixel {
	if len(points) < 2 {
		return nil
	}
	px := make([]Pixel, len(points))
	for i, p := range points {
		px[i] = proj.ProjectPoint(p.GeoPoint)
	}
	return SplitPath(px, proj.Width)
}
