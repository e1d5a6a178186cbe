package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/signalsfoundry/satwatch/model"
)

// Layer identifies one stage of the Earth view draw pipeline. Layers are
// drawn in declaration order.
type Layer uint16

const (
	LayerGrid Layer = 1 << iota
	LayerLandmarks
	LayerCoastlines
	LayerTrack
	LayerFootprint
	LayerObserver
	LayerSatellite
)

var layerNames = []struct {
	layer Layer
	name  string
}{
	{LayerGrid, "grid"},
	{LayerLandmarks, "landmarks"},
	{LayerCoastlines, "coastlines"},
	{LayerTrack, "track"},
	{LayerFootprint, "footprint"},
	{LayerObserver, "observer"},
	{LayerSatellite, "satellite"},
}

func (l Layer) String() string {
	var names []string
	for _, ln := range layerNames {
		if l&ln.layer != 0 {
			names = append(names, ln.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseLayers turns a list of layer names into a mask.
func ParseLayers(names []string) (Layer, error) {
	var mask Layer
	for _, n := range names {
		found := false
		for _, ln := range layerNames {
			if strings.EqualFold(strings.TrimSpace(n), ln.name) {
				mask |= ln.layer
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown layer %q", n)
		}
	}
	return mask, nil
}

// TrackMode selects how the ground track is drawn.
type TrackMode int

const (
	TrackBoth TrackMode = iota
	TrackLine
	TrackDots
)

func (m TrackMode) String() string {
	switch m {
	case TrackLine:
		return "line"
	case TrackDots:
		return "dots"
	default:
		return "both"
	}
}

// ParseTrackMode accepts "line", "dots" or "both".
func ParseTrackMode(s string) (TrackMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line":
		return TrackLine, nil
	case "dots":
		return TrackDots, nil
	case "both", "":
		return TrackBoth, nil
	default:
		return TrackBoth, fmt.Errorf("unknown track mode %q", s)
	}
}

// Colors is the Earth view palette as #rrggbb strings.
type Colors struct {
	Background    string
	Coastline     string
	Grid          string
	GridMajor     string
	Orbit         string
	OrbitDots     string
	Satellite     string
	Footprint     string
	Observer      string
	Landmark      string
	LandmarkLabel string
	TextPrimary   string
	TextGrid      string
}

// DefaultColors is the dark blue STSPLUS-style palette.
func DefaultColors() Colors {
	return Colors{
		Background:    "#000010",
		Coastline:     "#00d4d4",
		Grid:          "#0044aa",
		GridMajor:     "#0066cc",
		Orbit:         "#00ff00",
		OrbitDots:     "#ffff00",
		Satellite:     "#ffffff",
		Footprint:     "#aaaaaa",
		Observer:      "#ffff00",
		Landmark:      "#ff0000",
		LandmarkLabel: "#ffffff",
		TextPrimary:   "#ffffff",
		TextGrid:      "#ffffff",
	}
}

func (c Colors) withDefaults() Colors {
	d := DefaultColors()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&c.Background, d.Background)
	fill(&c.Coastline, d.Coastline)
	fill(&c.Grid, d.Grid)
	fill(&c.GridMajor, d.GridMajor)
	fill(&c.Orbit, d.Orbit)
	fill(&c.OrbitDots, d.OrbitDots)
	fill(&c.Satellite, d.Satellite)
	fill(&c.Footprint, d.Footprint)
	fill(&c.Observer, d.Observer)
	fill(&c.Landmark, d.Landmark)
	fill(&c.LandmarkLabel, d.LandmarkLabel)
	fill(&c.TextPrimary, d.TextPrimary)
	fill(&c.TextGrid, d.TextGrid)
	return c
}

// Options configures an EarthView. Zero fields take the defaults from
// DefaultOptions when the view is constructed.
type Options struct {
	// CoastlineSource is a GeoJSON URL or path. Empty disables coastlines.
	CoastlineSource  string
	GridStep         float64 // degrees between graticule lines
	TrackMode        TrackMode
	TrackDotInterval time.Duration
	OrbitPeriod      time.Duration
	OrbitRevolutions int
	DisabledLayers   Layer
	Landmarks        []model.Landmark
	Colors           Colors
}

// DefaultOptions returns the settings used by the dashboard.
func DefaultOptions() Options {
	return Options{
		CoastlineSource:  "static/data/ne_110m_coastline.json",
		GridStep:         30,
		TrackMode:        TrackBoth,
		TrackDotInterval: time.Minute,
		OrbitPeriod:      92 * time.Minute,
		OrbitRevolutions: 3,
		Landmarks:        model.DefaultLandmarks,
		Colors:           DefaultColors(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.GridStep <= 0 {
		o.GridStep = d.GridStep
	}
	if o.TrackDotInterval <= 0 {
		o.TrackDotInterval = d.TrackDotInterval
	}
	if o.OrbitPeriod <= 0 {
		o.OrbitPeriod = d.OrbitPeriod
	}
	if o.OrbitRevolutions <= 0 {
		o.OrbitRevolutions = d.OrbitRevolutions
	}
	if o.Landmarks == nil {
		o.Landmarks = d.Landmarks
	}
	o.Colors = o.Colors.withDefaults()
	return o
}
