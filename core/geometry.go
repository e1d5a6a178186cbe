package core

import (
	"math"

	"github.com/signalsfoundry/satwatch/model"
)

// EarthRadiusKm is the mean Earth radius used for all spherical
// calculations on the map (kilometres).
const EarthRadiusKm = 6371.0

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

// DestinationPoint returns the point reached by travelling an angular
// distance distDeg along the great circle leaving from at bearing
// bearingDeg (clockwise from north). The returned longitude is not
// normalised; it may stray outside (-180, 180] near the antimeridian and
// the projection wraps it.
func DestinationPoint(from model.GeoPoint, bearingDeg, distDeg float64) model.GeoPoint {
	lat1 := deg2rad(from.Lat)
	theta := deg2rad(bearingDeg)
	delta := deg2rad(distDeg)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) +
		math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))

	dLon := math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	return model.GeoPoint{
		Lon: from.Lon + rad2deg(dLon),
		Lat: rad2deg(lat2),
	}
}

// CentralAngleDeg returns the great-circle angle between a and b in
// degrees (haversine form, dateline safe).
func CentralAngleDeg(a, b model.GeoPoint) float64 {
	lat1, lat2 := deg2rad(a.Lat), deg2rad(b.Lat)
	dLat := lat2 - lat1
	dLon := deg2rad(NormalizeLongitude(b.Lon - a.Lon))

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}
	return rad2deg(2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h)))
}
