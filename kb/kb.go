package kb

import (
	"sync"
	"time"

	"github.com/mohae/deepcopy"

	"github.com/signalsfoundry/satwatch/model"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventSatelliteUpdated EventType = iota
	EventObserverUpdated
	EventReadoutUpdated
	EventDialsUpdated
)

func (e EventType) String() string {
	switch e {
	case EventSatelliteUpdated:
		return "satellite"
	case EventObserverUpdated:
		return "observer"
	case EventReadoutUpdated:
		return "readout"
	case EventDialsUpdated:
		return "dials"
	default:
		return "unknown"
	}
}

// Snapshot is the dashboard state at one instant.
type Snapshot struct {
	Version     uint64               `json:"version"`
	SimTime     time.Time            `json:"sim_time"`
	Satellite   model.SatelliteState `json:"satellite"`
	Observer    *model.Observer      `json:"observer,omitempty"`
	Readout     model.Readout        `json:"readout"`
	Dials       model.DialAngles     `json:"dials"`
	TrackPoints int                  `json:"track_points"`
}

// Event is emitted to subscribers when something changes. Snapshot is a
// private copy the subscriber may keep.
type Event struct {
	Type     EventType `json:"type"`
	Snapshot Snapshot  `json:"snapshot"`
}

// TelemetryStore is an in-memory, thread-safe holder for the latest
// satellite, observer, readout and dial state.
type TelemetryStore struct {
	mu   sync.RWMutex
	snap Snapshot

	nextSub int
	subs    map[int]func(Event)
}

// NewTelemetryStore constructs an empty store.
func NewTelemetryStore() *TelemetryStore {
	return &TelemetryStore{subs: make(map[int]func(Event))}
}

// Snapshot returns a deep copy of the current state.
func (s *TelemetryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.snap)
}

// UpdateSatellite replaces the satellite state.
func (s *TelemetryStore) UpdateSatellite(sat model.SatelliteState) {
	s.update(EventSatelliteUpdated, func(snap *Snapshot) {
		snap.Satellite = sat
	})
}

// UpdateObserver replaces the observer.
func (s *TelemetryStore) UpdateObserver(obs model.Observer) {
	s.update(EventObserverUpdated, func(snap *Snapshot) {
		snap.Observer = &obs
	})
}

// UpdateReadout records the formatted panel text along with the simulation
// time it was produced for and the current track length.
func (s *TelemetryStore) UpdateReadout(r model.Readout, simTime time.Time, trackPoints int) {
	s.update(EventReadoutUpdated, func(snap *Snapshot) {
		snap.Readout = r
		snap.SimTime = simTime
		snap.TrackPoints = trackPoints
	})
}

// UpdateDials records the current needle angles.
func (s *TelemetryStore) UpdateDials(d model.DialAngles) {
	s.update(EventDialsUpdated, func(snap *Snapshot) {
		snap.Dials = d
	})
}

func (s *TelemetryStore) update(typ EventType, mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	s.snap.Version++
	if len(s.subs) == 0 {
		s.mu.Unlock()
		return
	}
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	snap := s.snap
	s.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(Event{Type: typ, Snapshot: copySnapshot(snap)})
	}
}

// Subscribe registers a callback for store events. It returns an
// unsubscribe function that is safe to call more than once.
func (s *TelemetryStore) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Subscribers reports how many callbacks are registered.
func (s *TelemetryStore) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func copySnapshot(snap Snapshot) Snapshot {
	return deepcopy.Copy(snap).(Snapshot)
}
