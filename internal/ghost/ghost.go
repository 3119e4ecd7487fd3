package ghost

import "github.com/openkart/kartcore/pkg/core"

// Recorder samples the live vehicle's pose into the active lap trace.
// At most one sample is kept per resolution step regardless of tick
// rate: a tick whose quantized elapsed time does not strictly exceed
// the last recorded key is dropped.
type Recorder struct {
	trace core.GhostTrace
	lastT float64
}

// NewRecorder returns a recorder with an empty trace.
func NewRecorder() *Recorder {
	return &Recorder{lastT: -1}
}

// Sample records the pose at the given elapsed time if it lands on a
// new resolution step. Returns true when a sample was kept.
func (r *Recorder) Sample(elapsed float64, pose core.Pose) bool {
	key := core.RoundGhostTime(elapsed)
	if key <= r.lastT {
		return false
	}
	r.trace = r.trace.Append(elapsed, pose)
	r.lastT = key
	return true
}

// Trace returns the samples recorded so far.
func (r *Recorder) Trace() core.GhostTrace {
	return r.trace
}

// Reset discards the active trace for a fresh lap attempt.
func (r *Recorder) Reset() {
	r.trace = nil
	r.lastT = -1
}

// Player replays a persisted best trace. An empty trace plays back
// nothing until the player sets a record.
type Player struct {
	trace core.GhostTrace
}

// NewPlayer replays the given trace.
func NewPlayer(trace core.GhostTrace) *Player {
	return &Player{trace: trace}
}

// At returns the ghost pose recorded at the quantized elapsed time,
// if any.
func (p *Player) At(elapsed float64) (core.Pose, bool) {
	return p.trace.At(elapsed)
}

// SetTrace swaps in a newly promoted best trace.
func (p *Player) SetTrace(trace core.GhostTrace) {
	p.trace = trace
}

// Empty reports whether there is anything to replay.
func (p *Player) Empty() bool {
	return len(p.trace) == 0
}
