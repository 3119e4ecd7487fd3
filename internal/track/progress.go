package track

import "github.com/openkart/kartcore/pkg/core"

// Progress advances through a track's checkpoint sequence. Only the
// checkpoint at the current index is tested each tick, so gates can
// never be skipped; a missed gate blocks lap completion until
// revisited.
type Progress struct {
	track *core.Track
	index int
	laps  int
}

// NewProgress starts progress at gate zero with no completed laps.
func NewProgress(t *core.Track) *Progress {
	return &Progress{track: t}
}

// Advance tests the vehicle bounds against the active gate and moves
// the index forward on overlap. Returns true exactly when the final
// gate was passed and a lap completed; the index is then already back
// at zero and the lap count incremented.
func (p *Progress) Advance(vehicle core.Box) bool {
	gate := p.track.Checkpoints[p.index]
	if !vehicle.Intersects(gate.Box) {
		return false
	}

	p.index++
	if p.index < len(p.track.Checkpoints) {
		return false
	}
	p.index = 0
	p.laps++
	return true
}

// Reset rewinds to gate zero and clears the lap count.
func (p *Progress) Reset() {
	p.index = 0
	p.laps = 0
}

// Index returns the current checkpoint index.
func (p *Progress) Index() int { return p.index }

// Laps returns the number of completed laps.
func (p *Progress) Laps() int { return p.laps }

// CheckpointCount returns the track's gate count.
func (p *Progress) CheckpointCount() int { return len(p.track.Checkpoints) }
