package events

import (
	"sync"

	"github.com/openkart/kartcore/pkg/core"
)

// Kind discriminates race events.
type Kind string

const (
	KindModeChanged   Kind = "modeChanged"
	KindCountdownTick Kind = "countdownTick"
	KindRaceStarted   Kind = "raceStarted"
	KindLapCompleted  Kind = "lapCompleted"
	KindNewRecord     Kind = "newRecord"
	KindTrackFailed   Kind = "trackFailed"
)

// Event is one discrete occurrence for downstream collaborators
// (renderer, audio). Only the fields relevant to the Kind are set.
type Event struct {
	Kind      Kind
	Mode      core.GameMode
	Countdown int
	Lap       int
	LapTime   float64
	BestTime  float64
	Err       error
}

// Feed buffers events between ticks. The renderer drains it once per
// frame; publishing never blocks the tick.
type Feed struct {
	mu    sync.Mutex
	items []Event
}

func NewFeed() *Feed {
	return &Feed{
		items: make([]Event, 0),
	}
}

// Publish appends events to the feed.
func (f *Feed) Publish(evts ...Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, evts...)
}

// Drain returns all buffered events and clears the feed.
func (f *Feed) Drain() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := f.items
	f.items = make([]Event, 0, cap(f.items))
	return result
}

// Len returns the number of buffered events.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
