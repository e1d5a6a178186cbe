package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/satwatch/kb"
	"github.com/signalsfoundry/satwatch/model"
)

// PositionRequest builds a SetSatellitePosition message.
func PositionRequest(lon, lat, altitudeKm float64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"lon": structpb.NewNumberValue(lon),
		"lat": structpb.NewNumberValue(lat),
		"alt": structpb.NewNumberValue(altitudeKm),
	}}
}

// TrackPointRequest builds an AddTrackPoint message. A zero t leaves
// time_ms out so the server stamps the point.
func TrackPointRequest(lon, lat float64, t time.Time) *structpb.Struct {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{
		"lon": structpb.NewNumberValue(lon),
		"lat": structpb.NewNumberValue(lat),
	}}
	if !t.IsZero() {
		s.Fields["time_ms"] = structpb.NewNumberValue(float64(t.UnixMilli()))
	}
	return s
}

// InfoRequest builds a SetSatelliteInfo message.
func InfoRequest(name string, catalogID uint32) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"name":       structpb.NewStringValue(name),
		"catalog_id": structpb.NewNumberValue(float64(catalogID)),
	}}
}

// ObserverRequest builds a SetObserver message.
func ObserverRequest(obs model.Observer) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"lon":   structpb.NewNumberValue(obs.Position.Lon),
		"lat":   structpb.NewNumberValue(obs.Position.Lat),
		"alt":   structpb.NewNumberValue(obs.AltitudeM),
		"label": structpb.NewStringValue(obs.Label),
	}}
}

// SnapshotToStruct renders a telemetry snapshot as a Struct using the same
// field names as the HTTP API.
func SnapshotToStruct(snap kb.Snapshot) (*structpb.Struct, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode telemetry: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode telemetry: %w", err)
	}
	return structpb.NewStruct(fields)
}

// ReadoutFromStruct extracts the readout panel from a GetTelemetry reply.
func ReadoutFromStruct(s *structpb.Struct) (model.Readout, error) {
	raw, err := json.Marshal(s.GetFields()["readout"].GetStructValue().AsMap())
	if err != nil {
		return model.Readout{}, err
	}
	var r model.Readout
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.Readout{}, err
	}
	return r, nil
}
