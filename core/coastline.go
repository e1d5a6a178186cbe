package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/signalsfoundry/satwatch/model"
)

// ErrCoastlineLoad wraps every failure to fetch or parse coastline data.
var ErrCoastlineLoad = errors.New("coastline load failed")

// Coastlines is the polyline geometry drawn as the map's land outline.
type Coastlines struct {
	Features int
	Lines    [][]model.GeoPoint
}

// CoastlineLoader fetches and decodes a GeoJSON coastline document.
type CoastlineLoader struct {
	Client *http.Client
}

// NewCoastlineLoader returns a loader with a bounded HTTP client.
func NewCoastlineLoader() *CoastlineLoader {
	return &CoastlineLoader{Client: &http.Client{Timeout: 15 * time.Second}}
}

// Load reads source, which is either an http(s) URL or a local path.
func (l *CoastlineLoader) Load(ctx context.Context, source string) (*Coastlines, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: no source configured", ErrCoastlineLoad)
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCoastlineLoad, source, err)
	}

	c, err := ParseCoastlines(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCoastlineLoad, source, err)
	}
	return c, nil
}

func (l *CoastlineLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ParseCoastlines decodes a GeoJSON FeatureCollection. LineString and
// MultiLineString geometries become polylines; lines with fewer than two
// points and every other geometry type are skipped without error.
func ParseCoastlines(data []byte) (*Coastlines, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	c := &Coastlines{Features: len(fc.Features)}
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		switch g := f.Geometry.(type) {
		case orb.LineString:
			c.appendLine(g)
		case orb.MultiLineString:
			for _, ls := range g {
				c.appendLine(ls)
			}
		}
	}
	return c, nil
}

func (c *Coastlines) appendLine(ls orb.LineString) {
	if len(ls) < 2 {
		return
	}
	line := make([]model.GeoPoint, len(ls))
	for i, p := range ls {
		line[i] = model.GeoPoint{Lon: p.Lon(), Lat: p.Lat()}
	}
	c.Lines = append(c.Lines, line)
}
