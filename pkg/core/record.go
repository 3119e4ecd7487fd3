package core

import (
	"errors"
	"math"
)

// ErrNoRecord marks a (vehicle, track) pair with no persisted best
// time. Callers treat it as "no record yet", not a failure.
var ErrNoRecord = errors.New("no best-time record")

// UnsetBestTime compares as worse than any real lap time.
func UnsetBestTime() float64 {
	return math.Inf(1)
}

// BestTimeRecord is the persisted best attempt for one
// (vehicle, track) pair: the lap time and the ghost trace that set it.
type BestTimeRecord struct {
	VehicleID string
	TrackID   string
	BestTime  float64 // seconds; +Inf means no record yet
	Trace     GhostTrace
	// Spec snapshots the archetype that set the record, so later
	// config changes don't silently re-label an old ghost.
	Spec VehicleSpec
}

// NewUnsetRecord returns an empty record for the given key. It behaves
// as "no record yet": any finite lap time beats it and its ghost plays
// back nothing.
func NewUnsetRecord(vehicleID, trackID string) BestTimeRecord {
	return BestTimeRecord{
		VehicleID: vehicleID,
		TrackID:   trackID,
		BestTime:  UnsetBestTime(),
	}
}

// IsSet reports whether the record holds a real lap time.
func (r BestTimeRecord) IsSet() bool {
	return !math.IsInf(r.BestTime, 1)
}

// Beats reports whether a lap of the given elapsed time improves on
// this record.
func (r BestTimeRecord) Beats(elapsed float64) bool {
	return elapsed < r.BestTime
}
