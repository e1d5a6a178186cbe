package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/signalsfoundry/satwatch/model"
)

const (
	// DefaultTrackStep is the spacing between generated track samples.
	DefaultTrackStep = 30 * time.Second
	// DefaultRevolutions is how many orbits ahead the demo track covers.
	DefaultRevolutions = 3
	// regenerateFraction of a period may elapse before the window shifts.
	regenerateFraction = 0.9
)

// ErrNonMonotonicTrack is returned when a sample would break the strictly
// increasing time order of a ground track.
var ErrNonMonotonicTrack = errors.New("track point is not after the last point")

// GroundTrack is an ordered buffer of track samples, oldest first. Time is
// strictly increasing. The zero value is an empty track.
type GroundTrack struct {
	points []model.TrackPoint
}

// Append adds p at the end of the track.
func (g *GroundTrack) Append(p model.TrackPoint) error {
	if n := len(g.points); n > 0 && !p.Time.After(g.points[n-1].Time) {
		return fmt.Errorf("%w: %s <= %s", ErrNonMonotonicTrack,
			p.Time.Format(time.RFC3339Nano), g.points[n-1].Time.Format(time.RFC3339Nano))
	}
	g.points = append(g.points, p)
	return nil
}

// Replace discards the buffer and installs points wholesale. Points must
// already be in strictly increasing time order.
func (g *GroundTrack) Replace(points []model.TrackPoint) error {
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return fmt.Errorf("%w: index %d", ErrNonMonotonicTrack, i)
		}
	}
	g.points = append([]model.TrackPoint(nil), points...)
	return nil
}

// Clear empties the track.
func (g *GroundTrack) Clear() { g.points = nil }

// Len returns the number of samples.
func (g *GroundTrack) Len() int { return len(g.points) }

// Points returns a copy of the samples.
func (g *GroundTrack) Points() []model.TrackPoint {
	return append([]model.TrackPoint(nil), g.points...)
}

// At returns the sample in effect at t, using LowerBound.
func (g *GroundTrack) At(t time.Time) (model.TrackPoint, bool) {
	i := LowerBound(g.points, t)
	if i < 0 {
		return model.TrackPoint{}, false
	}
	return g.points[i], true
}

// LowerBound returns the index of the sample in effect at t: the one just
// before the first sample whose time is >= t. Before the first sample that
// is index 0; past the last sample it is the last index. An empty track
// gives -1. There is no interpolation between samples.
func LowerBound(points []model.TrackPoint, t time.Time) int {
	for i, p := range points {
		if !p.Time.Before(t) {
			if i == 0 {
				return 0
			}
			return i - 1
		}
	}
	return len(points) - 1
}

// TrackSampler produces the rolling demo ground track: a window of
// Revolutions orbits starting at the last regeneration time, sampled every
// Step, regenerated once 90% of a period has gone by.
type TrackSampler struct {
	Model       MotionModel
	Period      time.Duration
	Revolutions int
	Step        time.Duration

	lastRegen time.Time
	generated bool
}

// NewTrackSampler returns a sampler with the default step and revolution
// count filled in when left at zero.
func NewTrackSampler(m MotionModel, period time.Duration, revolutions int) *TrackSampler {
	if revolutions <= 0 {
		revolutions = DefaultRevolutions
	}
	return &TrackSampler{
		Model:       m,
		Period:      period,
		Revolutions: revolutions,
		Step:        DefaultTrackStep,
	}
}

// Due reports whether the window must be regenerated at simTime.
func (s *TrackSampler) Due(simTime time.Time) bool {
	if !s.generated {
		return true
	}
	threshold := time.Duration(float64(s.Period) * regenerateFraction)
	return simTime.Sub(s.lastRegen) > threshold
}

// LastRegeneration returns the start of the current window.
func (s *TrackSampler) LastRegeneration() time.Time { return s.lastRegen }

// Generate samples the model over [start, start + Period*Revolutions] and
// records start as the regeneration time. The end of the window is always
// sampled even when the span is not a whole number of steps.
func (s *TrackSampler) Generate(start time.Time) []model.TrackPoint {
	step := s.Step
	if step <= 0 {
		step = DefaultTrackStep
	}
	span := s.Period * time.Duration(s.Revolutions)

	points := make([]model.TrackPoint, 0, int(span/step)+2)
	for dt := time.Duration(0); dt <= span; dt += step {
		t := start.Add(dt)
		points = append(points, model.TrackPoint{GeoPoint: s.Model.SubPoint(t), Time: t})
	}
	if end := start.Add(span); points[len(points)-1].Time.Before(end) {
		points = append(points, model.TrackPoint{GeoPoint: s.Model.SubPoint(end), Time: end})
	}

	s.lastRegen = start
	s.generated = true
	return points
}
