package feed

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/kb"
	"github.com/signalsfoundry/satwatch/model"
)

// Dashboard is the part of the dashboard the feed writes to.
type Dashboard interface {
	SetSatellitePosition(ctx context.Context, lon, lat, altitudeKm float64)
	SetSatelliteInfo(ctx context.Context, name string, catalogID uint32)
	AddTrackPoint(ctx context.Context, lon, lat float64, t time.Time) error
	ClearGroundTrack(ctx context.Context)
	SetObserver(ctx context.Context, obs model.Observer)
	Telemetry() kb.Snapshot
}

// Service implements OrbitFeedServer on top of a Dashboard.
type Service struct {
	dash Dashboard
	log  logging.Logger
}

var _ OrbitFeedServer = (*Service)(nil)

// NewService binds the feed to dash.
func NewService(dash Dashboard, log logging.Logger) *Service {
	if log == nil {
		log = logging.Noop()
	}
	return &Service{dash: dash, log: log}
}

// SetSatellitePosition moves the satellite marker.
func (s *Service) SetSatellitePosition(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	ctx, reqLog := s.requestLogger(ctx, "set_position")
	if s.dash == nil {
		return nil, ToStatusError(ErrUnavailable)
	}

	p, err := DecodePosition(req)
	if err != nil {
		reqLog.Warn(ctx, "rejected satellite position", logging.Err(err))
		return nil, ToStatusError(err)
	}

	ctx, span := StartChildSpan(ctx, "Dashboard.SetSatellitePosition", "satellite", "",
		attribute.Float64("lon", p.Lon), attribute.Float64("lat", p.Lat))
	s.dash.SetSatellitePosition(ctx, p.Lon, p.Lat, p.AltitudeKm)
	span.End()

	reqLog.Debug(ctx, "satellite position updated",
		logging.Float64("lon", p.Lon),
		logging.Float64("lat", p.Lat),
		logging.Float64("alt_km", p.AltitudeKm),
	)
	return &emptypb.Empty{}, nil
}

// SetSatelliteInfo relabels the satellite.
func (s *Service) SetSatelliteInfo(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	ctx, reqLog := s.requestLogger(ctx, "set_info")
	if s.dash == nil {
		return nil, ToStatusError(ErrUnavailable)
	}

	info, err := DecodeInfo(req)
	if err != nil {
		reqLog.Warn(ctx, "rejected satellite info", logging.Err(err))
		return nil, ToStatusError(err)
	}
	s.dash.SetSatelliteInfo(ctx, info.Name, info.CatalogID)

	reqLog.Info(ctx, "satellite info updated",
		logging.String("name", info.Name),
		logging.Int("catalog_id", int(info.CatalogID)),
	)
	return &emptypb.Empty{}, nil
}

// AddTrackPoint appends a sample to the ground track.
func (s *Service) AddTrackPoint(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	ctx, reqLog := s.requestLogger(ctx, "add_track_point")
	if s.dash == nil {
		return nil, ToStatusError(ErrUnavailable)
	}

	p, err := DecodeTrackPoint(req)
	if err != nil {
		reqLog.Warn(ctx, "rejected track point", logging.Err(err))
		return nil, ToStatusError(err)
	}

	ctx, span := StartChildSpan(ctx, "Dashboard.AddTrackPoint", "ground_track", "")
	err = s.dash.AddTrackPoint(ctx, p.Lon, p.Lat, p.Time)
	if err != nil {
		span.RecordError(err)
	}
	span.End()
	if err != nil {
		reqLog.Warn(ctx, "track point not appended", logging.Err(err))
		return nil, ToStatusError(err)
	}
	return &emptypb.Empty{}, nil
}

// ClearGroundTrack drops the ground track.
func (s *Service) ClearGroundTrack(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	ctx, reqLog := s.requestLogger(ctx, "clear_track")
	if s.dash == nil {
		return nil, ToStatusError(ErrUnavailable)
	}
	s.dash.ClearGroundTrack(ctx)
	reqLog.Info(ctx, "ground track cleared")
	return &emptypb.Empty{}, nil
}

// SetObserver moves the ground station.
func (s *Service) SetObserver(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	ctx, reqLog := s.requestLogger(ctx, "set_observer")
	if s.dash == nil {
		return nil, ToStatusError(ErrUnavailable)
	}

	obs, err := DecodeObserver(req)
	if err != nil {
		reqLog.Warn(ctx, "rejected observer", logging.Err(err))
		return nil, ToStatusError(err)
	}
	s.dash.SetObserver(ctx, obs)

	reqLog.Info(ctx, "observer updated",
		logging.String("label", obs.Label),
		logging.Float64("lon", obs.Position.Lon),
		logging.Float64("lat", obs.Position.Lat),
	)
	return &emptypb.Empty{}, nil
}

// GetTelemetry returns the latest telemetry snapshot.
func (s *Service) GetTelemetry(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	ctx, reqLog := s.requestLogger(ctx, "get_telemetry")
	if s.dash == nil {
		return nil, ToStatusError(ErrUnavailable)
	}

	out, err := SnapshotToStruct(s.dash.Telemetry())
	if err != nil {
		reqLog.Error(ctx, "telemetry encoding failed", logging.Err(err))
		return nil, ToStatusError(err)
	}
	return out, nil
}

func (s *Service) requestLogger(ctx context.Context, op string) (context.Context, logging.Logger) {
	ctx, reqLog := logging.WithRequestLogger(ctx, s.log)
	return ctx, reqLog.With(logging.String("operation", op))
}
