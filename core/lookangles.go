package core

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/satwatch/model"
)

// LookAngles is where an observer has to point to see a satellite.
type LookAngles struct {
	AzimuthDeg   float64 // clockwise from north, [0, 360)
	ElevationDeg float64 // above the local horizon
	RangeKm      float64
}

// ComputeLookAngles returns the topocentric azimuth, elevation and range
// from obs to a satellite whose sub-point and altitude are known. It does
// not propagate anything: the satellite position comes from whatever
// source drives the map, and go-satellite only supplies the geodetic to
// inertial and topocentric conversions. Both positions are converted with
// the same sidereal angle, so the result does not depend on t beyond
// rounding.
func ComputeLookAngles(obs model.Observer, sub model.GeoPoint, altitudeKm float64, t time.Time) LookAngles {
	t = t.UTC()
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	jday := satellite.JDay(year, int(month), day, hour, minute, sec)

	satLL := satellite.LatLong{Latitude: deg2rad(sub.Lat), Longitude: deg2rad(sub.Lon)}
	satECI := satellite.LLAToECI(satLL, altitudeKm, jday)

	obsLL := satellite.LatLong{Latitude: deg2rad(obs.Position.Lat), Longitude: deg2rad(obs.Position.Lon)}
	look := satellite.ECIToLookAngles(satECI, obsLL, obs.AltitudeM/1000, jday)

	az := math.Mod(rad2deg(look.Az), 360)
	if az < 0 {
		az += 360
	}
	return LookAngles{
		AzimuthDeg:   az,
		ElevationDeg: rad2deg(look.El),
		RangeKm:      look.Rg,
	}
}
