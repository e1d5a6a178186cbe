package feed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/satwatch/model"
)

const (
	// maxCatalogID is the largest NORAD catalog number (nine digits).
	maxCatalogID = 999_999_999

	// maxFeedLon bounds sample longitudes to ten turns either way.
	maxFeedLon = 3600

	// maxTimeMs is 9999-12-31T23:59:59.999Z.
	maxTimeMs = 253_402_300_799_999
)

// PositionSample is a decoded SetSatellitePosition request.
type PositionSample struct {
	Lon, Lat   float64
	AltitudeKm float64 // 0 when not supplied
}

// TrackSample is a decoded AddTrackPoint request.
type TrackSample struct {
	Lon, Lat float64
	Time     time.Time // zero when not supplied
}

// SatelliteInfo is a decoded SetSatelliteInfo request.
type SatelliteInfo struct {
	Name      string
	CatalogID uint32
}

// DecodePosition validates a {lon, lat, alt} struct.
func DecodePosition(s *structpb.Struct) (PositionSample, error) {
	lon, lat, err := decodeLonLat(s)
	if err != nil {
		return PositionSample{}, err
	}
	alt, _, err := number(s, "alt")
	if err != nil {
		return PositionSample{}, err
	}
	if alt < 0 {
		return PositionSample{}, fmt.Errorf("%w: alt %v is negative", ErrInvalidSample, alt)
	}
	return PositionSample{Lon: lon, Lat: lat, AltitudeKm: alt}, nil
}

// DecodeTrackPoint validates a {lon, lat, time_ms} struct.
func DecodeTrackPoint(s *structpb.Struct) (TrackSample, error) {
	lon, lat, err := decodeLonLat(s)
	if err != nil {
		return TrackSample{}, err
	}
	ms, ok, err := number(s, "time_ms")
	if err != nil {
		return TrackSample{}, err
	}
	sample := TrackSample{Lon: lon, Lat: lat}
	if ok {
		if ms < 0 || ms != math.Trunc(ms) {
			return TrackSample{}, fmt.Errorf("%w: time_ms %v is not a non-negative integer", ErrInvalidSample, ms)
		}
		if ms > maxTimeMs {
			return TrackSample{}, fmt.Errorf("%w: time_ms %v is past year 9999", ErrInvalidSample, ms)
		}
		if ms > 0 {
			sample.Time = time.UnixMilli(int64(ms)).UTC()
		}
	}
	return sample, nil
}

// DecodeInfo validates a {name, catalog_id} struct.
func DecodeInfo(s *structpb.Struct) (SatelliteInfo, error) {
	name := strings.TrimSpace(stringField(s, "name"))
	if name == "" {
		return SatelliteInfo{}, fmt.Errorf("%w: name is required", ErrInvalidInfo)
	}
	id, _, err := number(s, "catalog_id")
	if err != nil {
		return SatelliteInfo{}, fmt.Errorf("%w: %v", ErrInvalidInfo, err)
	}
	if id < 0 || id > maxCatalogID || id != math.Trunc(id) {
		return SatelliteInfo{}, fmt.Errorf("%w: catalog_id %v out of range", ErrInvalidInfo, id)
	}
	return SatelliteInfo{Name: name, CatalogID: uint32(id)}, nil
}

// DecodeObserver validates a {lon, lat, alt, label} struct. The observer
// longitude must already be in [-180, 180].
func DecodeObserver(s *structpb.Struct) (model.Observer, error) {
	lon, lat, err := decodeLonLat(s)
	if err != nil {
		return model.Observer{}, err
	}
	if lon < -180 || lon > 180 {
		return model.Observer{}, fmt.Errorf("%w: observer lon %v out of range", ErrInvalidSample, lon)
	}
	alt, _, err := number(s, "alt")
	if err != nil {
		return model.Observer{}, err
	}
	return model.Observer{
		Position:  model.GeoPoint{Lon: lon, Lat: lat},
		AltitudeM: alt,
		Label:     strings.TrimSpace(stringField(s, "label")),
	}, nil
}

// decodeLonLat requires finite lon and lat with lat in [-90, 90].
// Longitudes within ten turns of the prime meridian are accepted and
// wrapped by projection.
func decodeLonLat(s *structpb.Struct) (lon, lat float64, err error) {
	if s == nil {
		return 0, 0, fmt.Errorf("%w: request is required", ErrInvalidSample)
	}
	lon, ok, err := number(s, "lon")
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, fmt.Errorf("%w: lon is required", ErrInvalidSample)
	}
	lat, ok, err = number(s, "lat")
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, fmt.Errorf("%w: lat is required", ErrInvalidSample)
	}
	if lon < -maxFeedLon || lon > maxFeedLon {
		return 0, 0, fmt.Errorf("%w: lon %v out of range", ErrInvalidSample, lon)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("%w: lat %v out of range", ErrInvalidSample, lat)
	}
	return lon, lat, nil
}

// number reads an optional finite numeric field.
func number(s *structpb.Struct, key string) (float64, bool, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false, nil
	}
	nv, isNum := v.GetKind().(*structpb.Value_NumberValue)
	if !isNum {
		return 0, false, fmt.Errorf("%w: %s must be a number", ErrInvalidSample, key)
	}
	f := nv.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("%w: %s must be finite", ErrInvalidSample, key)
	}
	return f, true, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}
