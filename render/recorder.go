package render

import "time"

// Recorder receives rendering measurements. observability.RenderCollector
// satisfies it.
type Recorder interface {
	ObserveFrame(view string, d time.Duration)
	SetTrackPoints(n int)
	SetCoastlineFeatures(n int)
	CoastlineLoadFailed()
}

type noopRecorder struct{}

func (noopRecorder) ObserveFrame(string, time.Duration) {}
func (noopRecorder) SetTrackPoints(int)                 {}
func (noopRecorder) SetCoastlineFeatures(int)           {}
func (noopRecorder) CoastlineLoadFailed()               {}
