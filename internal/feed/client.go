package feed

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/signalsfoundry/satwatch/model"
)

// Client is a typed convenience wrapper around OrbitFeedClient.
type Client struct {
	raw OrbitFeedClient
}

// NewClient wraps a connection to an orbit feed server.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{raw: NewOrbitFeedClient(cc)}
}

// SetSatellitePosition moves the satellite. altitudeKm 0 means unknown.
func (c *Client) SetSatellitePosition(ctx context.Context, lon, lat, altitudeKm float64) error {
	_, err := c.raw.SetSatellitePosition(ctx, PositionRequest(lon, lat, altitudeKm))
	return err
}

// SetSatelliteInfo relabels the satellite.
func (c *Client) SetSatelliteInfo(ctx context.Context, name string, catalogID uint32) error {
	_, err := c.raw.SetSatelliteInfo(ctx, InfoRequest(name, catalogID))
	return err
}

// AddTrackPoint appends a ground-track sample.
func (c *Client) AddTrackPoint(ctx context.Context, lon, lat float64, t time.Time) error {
	_, err := c.raw.AddTrackPoint(ctx, TrackPointRequest(lon, lat, t))
	return err
}

// ClearGroundTrack drops the ground track.
func (c *Client) ClearGroundTrack(ctx context.Context) error {
	_, err := c.raw.ClearGroundTrack(ctx, &emptypb.Empty{})
	return err
}

// SetObserver moves the ground station.
func (c *Client) SetObserver(ctx context.Context, obs model.Observer) error {
	_, err := c.raw.SetObserver(ctx, ObserverRequest(obs))
	return err
}

// Readout fetches the current telemetry panel.
func (c *Client) Readout(ctx context.Context) (model.Readout, error) {
	s, err := c.raw.GetTelemetry(ctx, &emptypb.Empty{})
	if err != nil {
		return model.Readout{}, err
	}
	return ReadoutFromStruct(s)
}
