package core

import (
	"math"

	"github.com/signalsfoundry/satwatch/model"
)

// FootprintSteps is the number of segments used to tessellate the
// visibility circle; the ring has FootprintSteps+1 points so it closes.
const FootprintSteps = 72

// FootprintRadiusDeg returns the angular radius (degrees of arc measured
// from the Earth's centre) of the region that has line of sight to a
// satellite at altitudeKm: cos(rho) = R / (R + h).
//
// Non-positive altitudes give 0; the radius tends to 90 as altitude grows.
func FootprintRadiusDeg(altitudeKm float64) float64 {
	if altitudeKm <= 0 || math.IsNaN(altitudeKm) {
		return 0
	}
	if math.IsInf(altitudeKm, 1) {
		return 90
	}
	return rad2deg(math.Acos(EarthRadiusKm / (EarthRadiusKm + altitudeKm)))
}

// FootprintRing returns the visibility circle around the sub-point as a
// closed ring of FootprintSteps+1 geographic points, starting due north
// and running clockwise.
func FootprintRing(subPoint model.GeoPoint, altitudeKm float64) []model.GeoPoint {
	rho := FootprintRadiusDeg(altitudeKm)
	ring := make([]model.GeoPoint, 0, FootprintSteps+1)
	for i := 0; i <= FootprintSteps; i++ {
		bearing := float64(i) / FootprintSteps * 360
		ring = append(ring, DestinationPoint(subPoint, bearing, rho))
	}
	return ring
}
