package core

import (
	"math"

	"github.com/signalsfoundry/satwatch/model"
)

// Pixel is a point in canvas space. The origin is the top-left corner.
type Pixel struct {
	X, Y float64
}

// Projection is an equirectangular (Plate Carrée) map of the whole globe
// onto a Width x Height pixel surface: longitude -180 sits on the left
// edge, +180 on the right, latitude +90 on the top edge.
type Projection struct {
	Width  float64
	Height float64
}

// NewProjection returns the projection for a surface of the given size.
func NewProjection(width, height int) Projection {
	return Projection{Width: float64(width), Height: float64(height)}
}

// Project maps a geographic coordinate onto the surface. Longitude is
// brought into [-180, 180] by whole turns so both map edges stay
// reachable; latitude is not clamped, so |lat| > 90 lands off-canvas.
func (p Projection) Project(lon, lat float64) Pixel {
	lon = math.Mod(lon, 360)
	if lon > 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}
	return Pixel{
		X: (lon + 180) / 360 * p.Width,
		Y: (90 - lat) / 180 * p.Height,
	}
}

// ProjectPoint is Project for a GeoPoint.
func (p Projection) ProjectPoint(g model.GeoPoint) Pixel {
	return p.Project(g.Lon, g.Lat)
}

// Unproject is the exact inverse of the affine part of Project.
func (p Projection) Unproject(x, y float64) model.GeoPoint {
	return model.GeoPoint{
		Lon: x/p.Width*360 - 180,
		Lat: 90 - y/p.Height*180,
	}
}

// NormalizeLongitude returns the canonical representative of lon in
// (-180, 180]. It is idempotent; 180, -180 and 540 all map to 180.
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon > 180 {
		lon -= 360
	} else if lon <= -180 {
		lon += 360
	}
	return lon
}
