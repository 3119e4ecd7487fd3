package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkart/kartcore/internal/cache"
	"github.com/openkart/kartcore/internal/config"
	"github.com/openkart/kartcore/internal/events"
	"github.com/openkart/kartcore/internal/input"
	"github.com/openkart/kartcore/internal/storage/memory"
	"github.com/openkart/kartcore/internal/track"
	"github.com/openkart/kartcore/pkg/core"
)

// straightTrack is four gates in a line along +Z from the spawn. The
// kart reaches them in order just by accelerating.
const straightTrack = `{
	"name": "Straight",
	"spawn": { "position": {"x": 0, "y": 0, "z": 0}, "heading": 0 },
	"obstacles": [],
	"checkpoints": [
		{ "box": { "center": {"x": 0, "y": 0, "z": 5},  "halfExtents": {"x": 5, "y": 2, "z": 0.5} } },
		{ "box": { "center": {"x": 0, "y": 0, "z": 10}, "halfExtents": {"x": 5, "y": 2, "z": 0.5} } },
		{ "box": { "center": {"x": 0, "y": 0, "z": 15}, "halfExtents": {"x": 5, "y": 2, "z": 0.5} } },
		{ "box": { "center": {"x": 0, "y": 0, "z": 20}, "halfExtents": {"x": 5, "y": 2, "z": 0.5} } }
	]
}`

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type env struct {
	t     *testing.T
	clock *fakeClock
	ctrl  *Controller
	feed  *events.Feed
	store *memory.Store
	keys  *input.State
	spec  core.VehicleSpec
}

func newEnv(t *testing.T, layout string) *env {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t1.json"), []byte(layout), 0644))

	e := &env{
		t:     t,
		clock: &fakeClock{t: time.Unix(1000, 0)},
		feed:  events.NewFeed(),
		store: memory.New(),
		keys:  input.NewState(),
		spec: core.VehicleSpec{
			ID:              "standard",
			MaxForward:      1.0,
			MaxBackward:     -0.5,
			Accel:           0.02,
			SlowDownSpeed:   0.01,
			ShortDeltaAngle: 0.02,
			MaxDeltaAngle:   0.7,
			SlowDownAngle:   0.03,
			HalfExtents:     core.Vec3{X: 1.2, Y: 0.7, Z: 2.0},
			Leeway:          core.Vec3{X: 0.2, Z: 0.2},
		},
	}

	ctrl, err := New(Dependencies{
		Log:    zerolog.Nop(),
		Input:  e.keys,
		Loader: track.NewLoader(dir, zerolog.Nop()),
		Store:  e.store,
		Cache:  cache.NewRecordCache(),
		Feed:   e.feed,
		Physics: config.PhysicsConfig{
			MaxDt:          0.1,
			SpeedThreshold: 0.05,
			PushBackFactor: 1.5,
			BounceDamping:  0.4,
		},
		Countdown: config.CountdownConfig{Start: 3, GoSeconds: 1.0},
		Clock:     e.clock.now,
	})
	require.NoError(t, err)
	e.ctrl = ctrl
	return e
}

// tick advances the clock and the simulation together.
func (e *env) tick(dt float64) {
	e.clock.advance(time.Duration(dt * float64(time.Second)))
	e.ctrl.Tick(dt)
}

// startRace kicks off race setup and ticks until the async load lands.
func (e *env) startRace() {
	e.t.Helper()
	require.NoError(e.t, e.ctrl.StartRace(e.spec, "t1"))

	deadline := time.Now().Add(5 * time.Second)
	for e.ctrl.Mode() == core.ModeMenu && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
		e.tick(1.0 / 60)
	}
	require.Equal(e.t, core.ModeCountdown, e.ctrl.Mode(), "track load never completed")
}

// raceToStart runs the countdown down to the Racing transition.
func (e *env) raceToStart() {
	e.t.Helper()
	e.startRace()
	for i := 0; i < 400 && e.ctrl.Mode() == core.ModeCountdown; i++ {
		e.tick(1.0 / 60)
	}
	require.Equal(e.t, core.ModeRacing, e.ctrl.Mode())
}

func kinds(evts []events.Event) []events.Kind {
	out := make([]events.Kind, len(evts))
	for i, ev := range evts {
		out[i] = ev.Kind
	}
	return out
}

func TestScenario_MenuToRacingThroughCountdown(t *testing.T) {
	e := newEnv(t, straightTrack)

	assert.Equal(t, core.ModeMenu, e.ctrl.Mode())

	e.startRace()

	got := e.feed.Drain()
	ks := kinds(got)
	assert.Contains(t, ks, events.KindModeChanged)
	assert.Contains(t, ks, events.KindCountdownTick)
	for _, ev := range got {
		if ev.Kind == events.KindCountdownTick {
			assert.Equal(t, 3, ev.Countdown, "countdown starts from 3")
			break
		}
	}

	// input is ignored during the countdown
	e.keys.Press(core.ActionAccelerate)
	e.tick(1.0)
	assert.Equal(t, core.ModeCountdown, e.ctrl.Mode())
	assert.Equal(t, 0.0, e.ctrl.HUD().Speed, "physics must be disabled during countdown")

	// run the counter to zero
	e.tick(1.0)
	e.tick(1.0)
	require.Equal(t, core.ModeRacing, e.ctrl.Mode())

	hud := e.ctrl.HUD()
	assert.Equal(t, 0.0, hud.Elapsed, "timer zeroes exactly at the 0 transition")
	assert.True(t, hud.ShowGo, "go marker shows right after the countdown")

	ks = kinds(e.feed.Drain())
	assert.Contains(t, ks, events.KindRaceStarted)

	// input is live again
	e.tick(1.0 / 60)
	assert.Greater(t, e.ctrl.HUD().Speed, 0.0)
	e.keys.Release(core.ActionAccelerate)
}

func TestScenario_FourGateLapBecomesFirstBest(t *testing.T) {
	e := newEnv(t, straightTrack)
	e.raceToStart()

	e.keys.Press(core.ActionAccelerate)
	var lapDone bool
	for i := 0; i < 600 && !lapDone; i++ {
		e.tick(1.0 / 60)
		for _, ev := range e.feed.Drain() {
			if ev.Kind == events.KindLapCompleted {
				lapDone = true
				assert.Equal(t, 1, ev.Lap)
				assert.Greater(t, ev.LapTime, 0.0)
				assert.False(t, ev.BestTime < ev.LapTime, "no prior best should exist")
			}
		}
	}
	require.True(t, lapDone, "lap never completed")

	hud := e.ctrl.HUD()
	assert.Equal(t, 1, hud.Lap)
	assert.Equal(t, 0, hud.Gate, "gate index resets to 0 after the lap")
	assert.Equal(t, 4, hud.GateOf)

	// elapsed time compared against infinity always becomes the best
	rec, err := e.store.Load("standard", "t1")
	require.NoError(t, err)
	assert.True(t, rec.IsSet())
	assert.NotEmpty(t, rec.Trace, "promoted ghost trace persisted with the time")
	assert.Equal(t, hud.BestTime, rec.BestTime)
}

func TestScenario_PauseFreezesTimerResumeContinues(t *testing.T) {
	e := newEnv(t, straightTrack)
	e.raceToStart()

	e.keys.Press(core.ActionAccelerate)
	for i := 0; i < 30; i++ {
		e.tick(1.0 / 60)
	}
	racingElapsed := e.ctrl.HUD().Elapsed
	require.Greater(t, racingElapsed, 0.0)

	e.keys.Press(core.ActionPause)
	e.tick(1.0 / 60)
	require.Equal(t, core.ModePaused, e.ctrl.Mode())
	e.keys.Release(core.ActionPause)

	// elapsed holds the same value across calls while paused
	frozen := e.ctrl.HUD().Elapsed
	for i := 0; i < 10; i++ {
		e.tick(1.0 / 60)
		assert.Equal(t, frozen, e.ctrl.HUD().Elapsed)
	}

	// physics is disabled while paused
	pausedPose := e.ctrl.HUD().Vehicle
	e.tick(1.0 / 60)
	assert.Equal(t, pausedPose, e.ctrl.HUD().Vehicle)

	// unpause: timer resumes counting from the frozen value
	e.keys.Press(core.ActionPause)
	e.tick(1.0 / 60)
	require.Equal(t, core.ModeRacing, e.ctrl.Mode())
	e.keys.Release(core.ActionPause)

	e.tick(1.0 / 60)
	assert.Greater(t, e.ctrl.HUD().Elapsed, frozen)
	assert.InDelta(t, frozen, e.ctrl.HUD().Elapsed, 0.1)
}

func TestPauseIgnoredInMenu(t *testing.T) {
	e := newEnv(t, straightTrack)

	e.keys.Press(core.ActionPause)
	e.tick(1.0 / 60)
	assert.Equal(t, core.ModeMenu, e.ctrl.Mode())
	e.keys.Release(core.ActionPause)
}

func TestExitFromPausedDiscardsRace(t *testing.T) {
	e := newEnv(t, straightTrack)
	e.raceToStart()

	e.keys.Press(core.ActionPause)
	e.tick(1.0 / 60)
	e.keys.Release(core.ActionPause)
	require.Equal(t, core.ModePaused, e.ctrl.Mode())

	e.keys.Press(core.ActionExit)
	e.tick(1.0 / 60)
	e.keys.Release(core.ActionExit)

	assert.Equal(t, core.ModeMenu, e.ctrl.Mode())
	assert.False(t, e.ctrl.HUD().HasVehicle, "race state must be discarded")
}

func TestStartRace_RejectedOutsideMenu(t *testing.T) {
	e := newEnv(t, straightTrack)
	e.raceToStart()

	err := e.ctrl.StartRace(e.spec, "t1")
	require.Error(t, err)
}

func TestTrackLoadFailureReturnsToMenu(t *testing.T) {
	e := newEnv(t, straightTrack)

	require.NoError(t, e.ctrl.StartRace(e.spec, "missing-track"))

	deadline := time.Now().Add(5 * time.Second)
	var failed bool
	for !failed && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
		e.tick(1.0 / 60)
		for _, ev := range e.feed.Drain() {
			if ev.Kind == events.KindTrackFailed {
				failed = true
			}
		}
	}
	require.True(t, failed, "expected a track-failed event")

	assert.Equal(t, core.ModeMenu, e.ctrl.Mode())
	assert.NotEmpty(t, e.ctrl.HUD().LastError)

	// the failure is retryable
	require.NoError(t, e.ctrl.StartRace(e.spec, "t1"))
}

func TestGhostPromotion(t *testing.T) {
	e := newEnv(t, straightTrack)
	e.raceToStart()

	// attempt A: 32.4s, no prior record
	traceA := recordAttempt(e, 32.4)
	e.ctrl.completeLap()
	recA, err := e.store.Load("standard", "t1")
	require.NoError(t, err)
	assert.Equal(t, 32.4, recA.BestTime)
	assert.Equal(t, len(traceA), len(recA.Trace))

	// attempt B: 35.0s, slower, must not overwrite
	recordAttempt(e, 35.0)
	e.ctrl.completeLap()
	recB, err := e.store.Load("standard", "t1")
	require.NoError(t, err)
	assert.Equal(t, 32.4, recB.BestTime)

	// attempt C: 30.1s, faster, overwrites with trace C
	traceC := recordAttempt(e, 30.1)
	e.ctrl.completeLap()
	recC, err := e.store.Load("standard", "t1")
	require.NoError(t, err)
	assert.Equal(t, 30.1, recC.BestTime)
	assert.Equal(t, len(traceC), len(recC.Trace))
	if assert.NotEmpty(t, recC.Trace) {
		assert.Equal(t, traceC[len(traceC)-1].Pose.Position.X,
			recC.Trace[len(recC.Trace)-1].Pose.Position.X)
	}
}

// recordAttempt fills the active trace and runs the lap timer out to
// the given duration. Returns the recorded trace.
func recordAttempt(e *env, lapSeconds float64) core.GhostTrace {
	e.ctrl.timer.Restart()
	e.ctrl.recorder.Reset()

	// sample a couple of distinctive poses along the way
	for _, frac := range []float64{0.0, 0.25, 0.5, 0.75} {
		at := lapSeconds * frac
		e.ctrl.recorder.Sample(at, core.Pose{
			Position: core.Vec3{X: lapSeconds, Z: at},
		})
	}
	e.clock.advance(time.Duration(lapSeconds * float64(time.Second)))
	return e.ctrl.recorder.Trace().Clone()
}

func TestGhostPlaybackAfterRecord(t *testing.T) {
	e := newEnv(t, straightTrack)
	e.raceToStart()

	// set a record, then return to the menu
	e.keys.Press(core.ActionAccelerate)
	var lapDone bool
	for i := 0; i < 600 && !lapDone; i++ {
		e.tick(1.0 / 60)
		for _, ev := range e.feed.Drain() {
			if ev.Kind == events.KindNewRecord {
				lapDone = true
			}
		}
	}
	require.True(t, lapDone)
	e.keys.Release(core.ActionAccelerate)

	e.keys.Press(core.ActionPause)
	e.tick(1.0 / 60)
	e.keys.Release(core.ActionPause)
	e.keys.Press(core.ActionExit)
	e.tick(1.0 / 60)
	e.keys.Release(core.ActionExit)
	require.Equal(t, core.ModeMenu, e.ctrl.Mode())

	// next attempt on the same pair replays the ghost
	e.raceToStart()
	var sawGhost bool
	for i := 0; i < 120 && !sawGhost; i++ {
		e.tick(1.0 / 60)
		sawGhost = e.ctrl.HUD().GhostVisible
	}
	assert.True(t, sawGhost, "persisted ghost should replay on the next attempt")
}

func TestNoGhostWithoutRecord(t *testing.T) {
	e := newEnv(t, straightTrack)
	e.raceToStart()

	for i := 0; i < 30; i++ {
		e.tick(1.0 / 60)
		assert.False(t, e.ctrl.HUD().GhostVisible, "no record: nothing to replay")
	}
}
