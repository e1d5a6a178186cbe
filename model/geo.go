package model

import (
	"fmt"
	"time"
)

// GeoPoint is a geographic sample in degrees. Lon is expected in
// (-180, 180] and Lat in [-90, 90], but callers may hand in unnormalised
// values; projection code tolerates both.
type GeoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint[lon=%f, lat=%f]", p.Lon, p.Lat)
}

// TrackPoint is a GeoPoint stamped with the time the satellite was (or
// will be) above it.
type TrackPoint struct {
	GeoPoint
	Time time.Time `json:"time"`
}

// Landmark is a static labelled marker drawn on the map.
type Landmark struct {
	Name     string   `json:"name"`
	Position GeoPoint `json:"position"`
}

// DefaultLandmarks are the capital cities shown on the world map.
var DefaultLandmarks = []Landmark{
	{Name: "Moscow", Position: GeoPoint{Lon: 37.62, Lat: 55.75}},
	{Name: "Beijing", Position: GeoPoint{Lon: 116.40, Lat: 39.90}},
	{Name: "Tokyo", Position: GeoPoint{Lon: 139.69, Lat: 35.69}},
	{Name: "Delhi", Position: GeoPoint{Lon: 77.21, Lat: 28.61}},
	{Name: "New York", Position: GeoPoint{Lon: -74.01, Lat: 40.71}},
	{Name: "London", Position: GeoPoint{Lon: -0.13, Lat: 51.51}},
	{Name: "Cairo", Position: GeoPoint{Lon: 31.24, Lat: 30.04}},
	{Name: "Sydney", Position: GeoPoint{Lon: 151.21, Lat: -33.87}},
	{Name: "Rio de Janeiro", Position: GeoPoint{Lon: -43.17, Lat: -22.91}},
	{Name: "Cape Town", Position: GeoPoint{Lon: 18.42, Lat: -33.93}},
	{Name: "Nairobi", Position: GeoPoint{Lon: 36.82, Lat: -1.29}},
	{Name: "San Francisco", Position: GeoPoint{Lon: -122.42, Lat: 37.77}},
}
