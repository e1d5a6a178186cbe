package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/satwatch/core"
	"github.com/signalsfoundry/satwatch/internal/config"
	"github.com/signalsfoundry/satwatch/model"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Earth.CoastlineSource = ""
	cfg.Demo.Enabled = false
	return cfg
}

func TestNewDashboardPublishesInitialState(t *testing.T) {
	d := NewDashboard(testConfig(), nil, WithStartTime(demoStart))

	snap := d.Store.Snapshot()
	require.NotNil(t, snap.Observer)
	assert.Equal(t, "Rostov-on-Don", snap.Observer.Label)
	assert.Equal(t, "ISS", snap.Satellite.Name)
	assert.Equal(t, uint32(25544), snap.Satellite.CatalogID)
	assert.Equal(t, 45.0, snap.Dials.ElevationDeg)
	assert.True(t, d.Clock.Now().Equal(demoStart))
	assert.Equal(t, 300, d.DialSize())

	_, ok := d.LookAngles()
	assert.False(t, ok, "no satellite position yet")
}

func TestDashboardStartRespectsDemoSwitch(t *testing.T) {
	d := NewDashboard(testConfig(), nil, WithDemoInterval(time.Millisecond))
	d.Start(context.Background())
	assert.False(t, d.EarthDemo().Running())
	assert.False(t, d.AzimuthDemo().Running())

	cfg := testConfig()
	cfg.Demo.Enabled = true
	d = NewDashboard(cfg, nil, WithDemoInterval(time.Millisecond))
	d.Start(context.Background())
	defer d.Stop()
	assert.True(t, d.EarthDemo().Running())
	assert.True(t, d.AzimuthDemo().Running())
	assert.True(t, d.ElevationDemo().Running())
}

func TestDashboardFeedTakesOverFromDemo(t *testing.T) {
	cfg := testConfig()
	cfg.Demo.Enabled = true
	d := NewDashboard(cfg, nil, WithDemoInterval(time.Millisecond))
	ctx := context.Background()
	d.Start(ctx)
	defer d.Stop()

	d.SetSatellitePosition(ctx, 39.788243, 47.315813, 420)
	assert.True(t, d.FeedAttached())
	assert.False(t, d.EarthDemo().Running())
	assert.True(t, d.AzimuthDemo().Running(), "dial demos keep running")

	la, ok := d.LookAngles()
	require.True(t, ok)
	assert.Greater(t, la.ElevationDeg, 89.0)

	snap := d.Store.Snapshot()
	assert.Equal(t, "47.32°N", snap.Readout.Latitude)
	assert.Equal(t, "420 km", snap.Readout.Altitude)
}

func TestDashboardFeedTrackAfterDemo(t *testing.T) {
	cfg := testConfig()
	cfg.Demo.Enabled = true
	d := NewDashboard(cfg, nil, WithDemoInterval(time.Hour))
	ctx := context.Background()
	d.Start(ctx)
	defer d.Stop()

	demoTrack := d.Earth.GroundTrack()
	require.NotEmpty(t, demoTrack)
	require.True(t, demoTrack[len(demoTrack)-1].Time.After(time.Now().Add(time.Hour)),
		"demo window reaches into the future")

	now := time.Now().UTC()
	require.NoError(t, d.AddTrackPoint(ctx, 10, 20, now))
	require.NoError(t, d.AddTrackPoint(ctx, 11, 21, now.Add(time.Second)))

	track := d.Earth.GroundTrack()
	require.Len(t, track, 2)
	assert.True(t, track[0].Time.Equal(now))
	assert.Equal(t, 2, d.Store.Snapshot().TrackPoints)
	assert.False(t, d.EarthDemo().Running())
}

func TestDashboardFeedPositionDropsDemoTrack(t *testing.T) {
	cfg := testConfig()
	cfg.Demo.Enabled = true
	d := NewDashboard(cfg, nil, WithDemoInterval(time.Hour))
	ctx := context.Background()
	d.Start(ctx)
	defer d.Stop()
	require.NotEmpty(t, d.Earth.GroundTrack())

	d.SetSatellitePosition(ctx, 1e3, 10, 420)
	assert.Empty(t, d.Earth.GroundTrack())
	assert.Equal(t, 0, d.Store.Snapshot().TrackPoints)

	// Later writes leave feed-supplied points alone.
	require.NoError(t, d.AddTrackPoint(ctx, 10, 20, time.Time{}))
	d.SetSatellitePosition(ctx, 12, 21, 420)
	assert.Len(t, d.Earth.GroundTrack(), 1)
}

func TestDashboardFeedMutations(t *testing.T) {
	d := NewDashboard(testConfig(), nil)
	ctx := context.Background()
	t0 := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, d.AddTrackPoint(ctx, 10, 20, t0))
	require.NoError(t, d.AddTrackPoint(ctx, 11, 21, t0.Add(time.Minute)))
	err := d.AddTrackPoint(ctx, 12, 22, t0)
	assert.True(t, errors.Is(err, core.ErrNonMonotonicTrack))
	assert.Equal(t, 2, d.Store.Snapshot().TrackPoints)

	d.ClearGroundTrack(ctx)
	assert.Equal(t, 0, d.Store.Snapshot().TrackPoints)

	d.SetSatelliteInfo(ctx, "NOAA 19", 33591)
	snap := d.Store.Snapshot()
	assert.Equal(t, "NOAA 19", snap.Readout.Name)
	assert.Equal(t, "33591", snap.Readout.CatalogID)

	d.SetObserver(ctx, model.Observer{Position: model.GeoPoint{Lon: 37.62, Lat: 55.75}, Label: "Moscow"})
	snap = d.Store.Snapshot()
	assert.Equal(t, "Moscow", snap.Observer.Label)
	assert.Equal(t, "Moscow", snap.Readout.Observer)
}

func TestDashboardDialClicksPublish(t *testing.T) {
	d := NewDashboard(testConfig(), nil)

	// 300 px dial, centre (150, 150).
	assert.InDelta(t, 90, d.ClickAzimuth(300, 150), 1e-9)
	assert.InDelta(t, -90, d.ClickElevation(0, 150), 1e-9)

	dials := d.Store.Snapshot().Dials
	assert.InDelta(t, 90, dials.AzimuthDeg, 1e-9)
	assert.InDelta(t, -90, dials.ElevationDeg, 1e-9)
}

func TestDashboardTrackModePointsDials(t *testing.T) {
	cfg := testConfig()
	cfg.Demo.DialMode = config.DialModeTrack
	d := NewDashboard(cfg, nil)
	ctx := context.Background()

	// A satellite due east of the observer.
	obs := cfg.ObserverModel()
	east := core.DestinationPoint(obs.Position, 90, 5)
	d.SetSatellitePosition(ctx, east.Lon, east.Lat, 420)

	d.AzimuthDemo().Tick()
	d.ElevationDemo().Tick()

	la, ok := d.LookAngles()
	require.True(t, ok)
	assert.InDelta(t, la.AzimuthDeg, d.Azimuth.Azimuth(), 1e-6)
	assert.InDelta(t, 90, d.Azimuth.Azimuth(), 3)
	assert.InDelta(t, la.ElevationDeg, d.Elevation.Elevation(), 1e-6)
	assert.Greater(t, d.Elevation.Elevation(), 0.0)
}
