package feed

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denysvitali/plusfind/planner"
)

var log = logrus.StandardLogger()

var ErrUnknownStation = errors.New("unknown station")

// Snapshot is an immutable copy of the station collection. Consumers may
// filter and rank it freely.
type Snapshot struct {
	Stations  []planner.ChargingStation
	Version   uint64
	UpdatedAt time.Time
}

func (s Snapshot) AvailableStations() int {
	n := 0
	for _, st := range s.Stations {
		if st.AvailableConnectors() > 0 {
			n++
		}
	}
	return n
}

// Store owns the live station collection. Every change is published to
// subscribers as a fresh Snapshot.
type Store struct {
	mu        sync.RWMutex
	stations  []planner.ChargingStation
	index     map[string]int
	version   uint64
	updatedAt time.Time

	bus     *Bus[Snapshot]
	metrics *Metrics
}

func NewStore(stations []planner.ChargingStation, metrics *Metrics) *Store {
	s := &Store{
		bus:     NewBus[Snapshot](),
		metrics: metrics,
	}
	s.install(stations)
	metrics.observeSnapshot(s.snapshotLocked())
	return s
}

func (s *Store) install(stations []planner.ChargingStation) {
	s.stations = planner.CloneStations(stations)
	s.index = make(map[string]int, len(stations))
	for i, st := range s.stations {
		s.index[st.ID] = i
	}
	s.version++
	s.updatedAt = time.Now()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Stations:  planner.CloneStations(s.stations),
		Version:   s.version,
		UpdatedAt: s.updatedAt,
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Replace installs a freshly fetched station collection.
func (s *Store) Replace(stations []planner.ChargingStation) {
	s.mu.Lock()
	s.install(stations)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	log.Debugf("station collection replaced: %d stations", len(stations))
	s.publish(snap)
}

// Apply folds a station status update into the collection. Only the
// connectors' availability and status change. Updates of any other type are
// ignored and reported as not applied.
func (s *Store) Apply(u Update) (bool, error) {
	if u.Type != UpdateStationStatus {
		return false, nil
	}
	status, err := u.StationStatus()
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	i, ok := s.index[u.StationID]
	if !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrUnknownStation, u.StationID)
	}

	station := &s.stations[i]
	listed := make(map[string]bool, len(status.Connectors))
	for _, cs := range status.Connectors {
		listed[cs.ID] = true
		for j := range station.Connectors {
			if station.Connectors[j].ID == cs.ID {
				station.Connectors[j].Available = cs.Available
				station.Connectors[j].Status = cs.Status
			}
		}
	}
	if status.Available != nil {
		for j := range station.Connectors {
			if !listed[station.Connectors[j].ID] {
				station.Connectors[j].Available = *status.Available
			}
		}
	}

	s.version++
	s.updatedAt = time.Now()
	if !u.Timestamp.IsZero() {
		s.updatedAt = u.Timestamp
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return true, nil
}

func (s *Store) publish(snap Snapshot) {
	s.metrics.observeSnapshot(snap)
	s.bus.Publish(snap)
}

func (s *Store) Subscribe() <-chan Snapshot {
	return s.bus.Subscribe()
}

func (s *Store) Unsubscribe(ch <-chan Snapshot) {
	s.bus.Unsubscribe(ch)
}

// Close closes every subscription.
func (s *Store) Close() {
	s.bus.Close()
}
