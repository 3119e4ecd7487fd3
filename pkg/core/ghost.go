package core

import (
	"math"
	"sort"
)

// GhostResolution is the sampling resolution of a ghost trace in
// seconds. One sample is kept per resolution step regardless of tick
// rate.
const GhostResolution = 0.1

// RoundGhostTime quantizes an elapsed time to the trace resolution.
func RoundGhostTime(elapsed float64) float64 {
	return math.Round(elapsed/GhostResolution) * GhostResolution
}

// GhostSample is one recorded pose at a quantized elapsed time.
type GhostSample struct {
	Elapsed float64 `json:"t"`
	Pose    Pose    `json:"pose"`
}

// GhostTrace is a time-ordered sequence of samples from one lap
// attempt. Sample times strictly increase; appending at an existing
// time overwrites that sample instead of duplicating it.
type GhostTrace []GhostSample

// Append inserts a sample at the quantized elapsed time, keeping the
// strictly-increasing time invariant.
func (t GhostTrace) Append(elapsed float64, pose Pose) GhostTrace {
	key := RoundGhostTime(elapsed)
	if n := len(t); n > 0 {
		last := t[n-1].Elapsed
		if key == last {
			t[n-1].Pose = pose
			return t
		}
		if key < last {
			return t
		}
	}
	return append(t, GhostSample{Elapsed: key, Pose: pose})
}

// At looks up the pose recorded at the quantized elapsed time.
// An empty trace plays back nothing.
func (t GhostTrace) At(elapsed float64) (Pose, bool) {
	key := RoundGhostTime(elapsed)
	i := sort.Search(len(t), func(i int) bool { return t[i].Elapsed >= key-GhostResolution/2 })
	if i < len(t) && math.Abs(t[i].Elapsed-key) < GhostResolution/2 {
		return t[i].Pose, true
	}
	return Pose{}, false
}

// Clone returns an independent copy of the trace.
func (t GhostTrace) Clone() GhostTrace {
	if t == nil {
		return nil
	}
	out := make(GhostTrace, len(t))
	copy(out, t)
	return out
}
