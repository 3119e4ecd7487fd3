package game

import "github.com/openkart/kartcore/pkg/core"

// Snapshot is the read-only view the rendering collaborator consumes
// once per frame: which overlay to draw and every HUD value on it.
type Snapshot struct {
	Mode      core.GameMode
	Loading   bool
	LastError string

	Countdown int
	ShowGo    bool

	Elapsed  float64
	BestTime float64 // +Inf when unset
	Lap      int
	Gate     int
	GateOf   int

	HasVehicle bool
	Vehicle    core.Pose
	Speed      float64

	GhostVisible bool
	Ghost        core.Pose
}

// HUD returns the current frame's snapshot.
func (c *Controller) HUD() Snapshot {
	s := Snapshot{
		Mode:     c.mode,
		Loading:  c.loading,
		BestTime: c.best.BestTime,
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	if c.mode == core.ModeCountdown {
		s.Countdown = displayCount(c.countdownLeft)
	}
	if c.mode == core.ModeRacing || c.mode == core.ModePaused {
		s.ShowGo = c.goLeft > 0
		s.Elapsed = c.timer.Elapsed()
		s.Lap = c.progress.Laps()
		s.Gate = c.progress.Index()
		s.GateOf = c.progress.CheckpointCount()
	}
	if c.vehicle != nil {
		s.HasVehicle = true
		s.Vehicle = c.vehicle.Pose()
		s.Speed = c.vehicle.Speed
	}
	if c.ghostVisible {
		s.GhostVisible = true
		s.Ghost = c.ghostPose
	}
	return s
}
