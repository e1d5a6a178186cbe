package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/satwatch/internal/logging"
	"github.com/signalsfoundry/satwatch/internal/observability"
	"github.com/signalsfoundry/satwatch/model"
	"github.com/signalsfoundry/satwatch/render"
)

// Default observer: Rostov-on-Don.
const (
	defaultObserverLat = 47.315813
	defaultObserverLon = 39.788243
	defaultObserverAlt = 70.0
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Dial demo modes.
const (
	DialModeSweep = "sweep"
	DialModeTrack = "track"
)

// Config is the complete server configuration.
type Config struct {
	Port     string          `yaml:"port"`
	FeedAddr string          `yaml:"feed_addr"`
	Observer ObserverConfig  `yaml:"observer"`
	Earth    EarthViewConfig `yaml:"earth_view"`
	Demo     DemoConfig      `yaml:"demo"`
	Log      LogConfig       `yaml:"log"`

	Tracing observability.TracingConfig `yaml:"tracing"`
}

// ObserverConfig is the ground station the dashboard is centred on.
type ObserverConfig struct {
	Lat   float64 `yaml:"lat"`
	Lon   float64 `yaml:"lon"`
	AltM  float64 `yaml:"alt"`
	Label string  `yaml:"label"`
}

// EarthViewConfig mirrors render.Options in a file-friendly form.
type EarthViewConfig struct {
	Width            int           `yaml:"width"`
	Height           int           `yaml:"height"`
	CoastlineSource  string        `yaml:"coastline_source"`
	GridStep         float64       `yaml:"grid_step"`
	TrackMode        string        `yaml:"track_mode"`
	TrackDotInterval time.Duration `yaml:"track_dot_interval"`
	OrbitPeriod      time.Duration `yaml:"orbit_period"`
	OrbitRevolutions int           `yaml:"orbit_revolutions"`
	DisabledLayers   []string      `yaml:"disabled_layers"`
}

// DemoConfig drives the built-in animations.
type DemoConfig struct {
	Enabled        bool          `yaml:"enabled"`
	SatelliteName  string        `yaml:"satellite_name"`
	CatalogID      uint32        `yaml:"catalog_id"`
	AltitudeKm     float64       `yaml:"altitude_km"`
	FrameStep      time.Duration `yaml:"frame_step"`
	EarthSpeed     float64       `yaml:"earth_speed"`
	AzimuthSpeed   float64       `yaml:"azimuth_speed"`
	ElevationSpeed float64       `yaml:"elevation_speed"`
	DialMode       string        `yaml:"dial_mode"`
	DialSize       int           `yaml:"dial_size"`
}

// LogConfig is passed through to the logging package.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	opts := render.DefaultOptions()
	return Config{
		Port:     "8080",
		FeedAddr: ":50051",
		Observer: ObserverConfig{
			Lat:   defaultObserverLat,
			Lon:   defaultObserverLon,
			AltM:  defaultObserverAlt,
			Label: "Rostov-on-Don",
		},
		Earth: EarthViewConfig{
			Width:            1024,
			Height:           512,
			CoastlineSource:  opts.CoastlineSource,
			GridStep:         opts.GridStep,
			TrackMode:        opts.TrackMode.String(),
			TrackDotInterval: opts.TrackDotInterval,
			OrbitPeriod:      opts.OrbitPeriod,
			OrbitRevolutions: opts.OrbitRevolutions,
		},
		Demo: DemoConfig{
			Enabled:        true,
			SatelliteName:  "ISS",
			CatalogID:      25544,
			AltitudeKm:     420,
			FrameStep:      200 * time.Millisecond,
			EarthSpeed:     1,
			AzimuthSpeed:   0.3,
			ElevationSpeed: 0.5,
			DialMode:       DialModeSweep,
			DialSize:       300,
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		Tracing: observability.DefaultTracingConfig(),
	}
}

// Load builds the configuration from defaults, an optional YAML file at
// path and the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

// Parse is Load driven by command-line arguments. -config names the YAML
// file; the remaining flags override everything else when set.
func Parse(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		path       = fs.String("config", "", "path to a YAML configuration file")
		port       = fs.String("port", "", "HTTP port")
		feedAddr   = fs.String("feed-addr", "", "gRPC orbit feed listen address")
		coastlines = fs.String("coastlines", "", "coastline GeoJSON URL or path")
		demo       = fs.Bool("demo", true, "run the built-in satellite and dial demos")
		logLevel   = fs.String("log-level", "", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := Default()
	if *path != "" {
		if err := cfg.mergeFile(*path); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "feed-addr":
			cfg.FeedAddr = *feedAddr
		case "coastlines":
			cfg.Earth.CoastlineSource = *coastlines
		case "demo":
			cfg.Demo.Enabled = *demo
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables read through lookup. Values that
// fail to parse are ignored and the previous setting is kept.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(key); ok && v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}

	str("PORT", &c.Port)
	float("OBSERVER_LAT", &c.Observer.Lat)
	float("OBSERVER_LON", &c.Observer.Lon)
	float("OBSERVER_ALT", &c.Observer.AltM)
	str("SATWATCH_OBSERVER_LABEL", &c.Observer.Label)

	str("SATWATCH_FEED_ADDR", &c.FeedAddr)
	str("SATWATCH_COASTLINE_SOURCE", &c.Earth.CoastlineSource)
	float("SATWATCH_GRID_STEP", &c.Earth.GridStep)
	str("SATWATCH_TRACK_MODE", &c.Earth.TrackMode)
	if v, ok := lookup("SATWATCH_DISABLED_LAYERS"); ok && v != "" {
		c.Earth.DisabledLayers = strings.Split(v, ",")
	}

	if v, ok := lookup("SATWATCH_DEMO"); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Demo.Enabled = b
		}
	}
	float("SATWATCH_EARTH_SPEED", &c.Demo.EarthSpeed)
	float("SATWATCH_AZIMUTH_SPEED", &c.Demo.AzimuthSpeed)
	float("SATWATCH_ELEVATION_SPEED", &c.Demo.ElevationSpeed)
	str("SATWATCH_DIAL_MODE", &c.Demo.DialMode)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)

	c.Tracing.ApplyEnv(lookup)
}

// Validate reports the first problem found, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: port %q is not numeric", ErrInvalidConfig, c.Port)
	}
	if c.Observer.Lat < -90 || c.Observer.Lat > 90 {
		return fmt.Errorf("%w: observer latitude %v out of range", ErrInvalidConfig, c.Observer.Lat)
	}
	if c.Observer.Lon < -180 || c.Observer.Lon > 180 {
		return fmt.Errorf("%w: observer longitude %v out of range", ErrInvalidConfig, c.Observer.Lon)
	}
	if c.Earth.Width <= 0 || c.Earth.Height <= 0 {
		return fmt.Errorf("%w: earth view size %dx%d", ErrInvalidConfig, c.Earth.Width, c.Earth.Height)
	}
	if c.Earth.GridStep <= 0 || c.Earth.GridStep > 90 {
		return fmt.Errorf("%w: grid step %v", ErrInvalidConfig, c.Earth.GridStep)
	}
	if _, err := render.ParseTrackMode(c.Earth.TrackMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := render.ParseLayers(c.Earth.DisabledLayers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Demo.EarthSpeed < 0 || math.IsNaN(c.Demo.EarthSpeed) || math.IsInf(c.Demo.EarthSpeed, 0) {
		return fmt.Errorf("%w: earth speed %v must be finite and not negative", ErrInvalidConfig, c.Demo.EarthSpeed)
	}
	for _, v := range []float64{c.Demo.AzimuthSpeed, c.Demo.ElevationSpeed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: dial speed %v is not finite", ErrInvalidConfig, v)
		}
	}
	if c.Demo.FrameStep <= 0 {
		return fmt.Errorf("%w: frame step must be positive", ErrInvalidConfig)
	}
	if c.Demo.DialSize <= 0 {
		return fmt.Errorf("%w: dial size must be positive", ErrInvalidConfig)
	}
	switch c.Demo.DialMode {
	case DialModeSweep, DialModeTrack:
	default:
		return fmt.Errorf("%w: unknown dial mode %q", ErrInvalidConfig, c.Demo.DialMode)
	}
	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case observability.ExporterStdout, observability.ExporterOTLP:
		default:
			return fmt.Errorf("%w: unknown tracing exporter %q", ErrInvalidConfig, c.Tracing.Exporter)
		}
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// ObserverModel converts the observer section to the domain type.
func (c Config) ObserverModel() model.Observer {
	return model.Observer{
		Position:  model.GeoPoint{Lon: c.Observer.Lon, Lat: c.Observer.Lat},
		AltitudeM: c.Observer.AltM,
		Label:     c.Observer.Label,
	}
}

// EarthViewOptions converts the earth view section to render.Options. The
// configuration must already be valid.
func (c Config) EarthViewOptions() render.Options {
	opts := render.DefaultOptions()
	opts.CoastlineSource = c.Earth.CoastlineSource
	opts.GridStep = c.Earth.GridStep
	if mode, err := render.ParseTrackMode(c.Earth.TrackMode); err == nil {
		opts.TrackMode = mode
	}
	if c.Earth.TrackDotInterval > 0 {
		opts.TrackDotInterval = c.Earth.TrackDotInterval
	}
	if c.Earth.OrbitPeriod > 0 {
		opts.OrbitPeriod = c.Earth.OrbitPeriod
	}
	if c.Earth.OrbitRevolutions > 0 {
		opts.OrbitRevolutions = c.Earth.OrbitRevolutions
	}
	if layers, err := render.ParseLayers(c.Earth.DisabledLayers); err == nil {
		opts.DisabledLayers = layers
	}
	return opts
}

// LoggingConfig converts the log section for logging.New.
func (c Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:     c.Log.Level,
		Format:    c.Log.Format,
		File:      c.Log.File,
		AddSource: true,
	}
}
