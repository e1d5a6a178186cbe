package core

import (
	"math"
	"time"

	"github.com/signalsfoundry/satwatch/model"
)

// SiderealDay is one rotation of the Earth relative to the stars.
const SiderealDay = 86164090500 * time.Nanosecond

// MotionModel reports where a satellite's sub-point is at a given time.
type MotionModel interface {
	SubPoint(t time.Time) model.GeoPoint
}

// DemoOrbit is a cosmetic stand-in for an orbit, used when no external
// feed is attached. It is NOT a propagator and must never be used for
// pointing or pass prediction:
//
//   - the position angle advances linearly with Period,
//   - longitude is that angle minus the Earth's sidereal rotation,
//   - latitude is Inclination * sin(angle).
//
// The resulting ground track looks like a LEO sine wave drifting west each
// revolution, which is all the map needs.
type DemoOrbit struct {
	Inclination float64 // degrees
	Period      time.Duration
}

// ISSDemoOrbit resembles the ISS: 51.6° inclination, 92 minute period.
var ISSDemoOrbit = DemoOrbit{Inclination: 51.6, Period: 92 * time.Minute}

// SubPoint implements MotionModel.
func (o DemoOrbit) SubPoint(t time.Time) model.GeoPoint {
	periodMs := float64(o.Period.Milliseconds())
	if periodMs <= 0 {
		return model.GeoPoint{}
	}
	ms := float64(t.UnixMilli())

	angle := math.Mod(ms*360/periodMs, 360)
	earthRotation := ms / float64(SiderealDay.Milliseconds()) * 360

	return model.GeoPoint{
		Lon: NormalizeLongitude(math.Mod(angle-earthRotation, 360)),
		Lat: o.Inclination * math.Sin(deg2rad(angle)),
	}
}
