package storage

import "github.com/openkart/kartcore/pkg/core"

// ErrNotFound marks a (vehicle, track) pair with no persisted record.
// Callers treat it as "no record yet", not a failure.
var ErrNotFound = core.ErrNoRecord

// Store is the interface all best-time persistence implementations
// must satisfy. Writes are synchronous and last-writer-wins per
// (vehicle, track) key.
type Store interface {
	// Lifecycle
	Init() error
	Close() error

	// Load returns the persisted record for the key, or ErrNotFound.
	// A malformed record loads as unset with an empty trace.
	Load(vehicleID, trackID string) (core.BestTimeRecord, error)

	// Save overwrites the record for the record's key.
	Save(rec core.BestTimeRecord) error
}
