package memory

import (
	"sync"

	"github.com/openkart/kartcore/pkg/core"
)

type key struct {
	vehicleID string
	trackID   string
}

// Store keeps best-time records in memory. Used by tests and
// ephemeral installs; records do not survive the process.
type Store struct {
	mu      sync.RWMutex
	records map[key]core.BestTimeRecord
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records: make(map[key]core.BestTimeRecord),
	}
}

// Init initializes the store.
func (s *Store) Init() error {
	return nil
}

// Close cleans up resources.
func (s *Store) Close() error {
	return nil
}

// Load returns the record for the key, or core.ErrNoRecord.
func (s *Store) Load(vehicleID, trackID string) (core.BestTimeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key{vehicleID, trackID}]
	if !ok {
		return core.BestTimeRecord{}, core.ErrNoRecord
	}
	rec.Trace = rec.Trace.Clone()
	return rec, nil
}

// Save overwrites the record for its key.
func (s *Store) Save(rec core.BestTimeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Trace = rec.Trace.Clone()
	s.records[key{rec.VehicleID, rec.TrackID}] = rec
	return nil
}
