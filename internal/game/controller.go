package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/openkart/kartcore/internal/cache"
	"github.com/openkart/kartcore/internal/config"
	"github.com/openkart/kartcore/internal/events"
	"github.com/openkart/kartcore/internal/ghost"
	"github.com/openkart/kartcore/internal/input"
	"github.com/openkart/kartcore/internal/physics"
	"github.com/openkart/kartcore/internal/storage"
	"github.com/openkart/kartcore/internal/telemetry"
	"github.com/openkart/kartcore/internal/timing"
	"github.com/openkart/kartcore/internal/track"
	"github.com/openkart/kartcore/pkg/core"
)

// Dependencies holds everything the controller needs. Telemetry is
// optional; a nil manager disables lap telemetry. Clock is injectable
// for tests and defaults to time.Now.
type Dependencies struct {
	Log       zerolog.Logger
	Input     *input.State
	Loader    *track.Loader
	Store     storage.Store
	Cache     *cache.RecordCache
	Feed      *events.Feed
	Telemetry *telemetry.Manager
	Physics   config.PhysicsConfig
	Countdown config.CountdownConfig
	Clock     func() time.Time
}

// Controller is the game-mode state machine. It owns the per-tick
// pipeline (input, kinematics, collision, checkpoints, ghost, mode
// transitions) and is the single mutator of all race state. Tick is
// called once per rendering frame from one goroutine.
type Controller struct {
	deps     Dependencies
	resolver physics.Resolver

	mode    core.GameMode
	loading bool
	loadCh  <-chan track.Result
	lastErr error

	spec     core.VehicleSpec
	vehicle  *core.Vehicle
	track    *core.Track
	progress *track.Progress
	timer    *timing.Timer
	recorder *ghost.Recorder
	player   *ghost.Player
	best     core.BestTimeRecord

	countdownLeft float64
	goLeft        float64

	ghostPose    core.Pose
	ghostVisible bool

	lapTopSpeed   float64
	lapCollisions int

	prevPause bool

	// OTEL metrics
	ticksTotal      metric.Int64Counter
	collisionsTotal metric.Int64Counter
	lapsTotal       metric.Int64Counter
	ghostSamples    metric.Int64Counter
	tickSeconds     metric.Float64Histogram
}

// New creates a controller in Menu mode.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(deps Dependencies) (*Controller, error) {
	c := &Controller{
		deps: deps,
		mode: core.ModeMenu,
		resolver: physics.Resolver{
			SpeedThreshold: deps.Physics.SpeedThreshold,
			PushBackFactor: deps.Physics.PushBackFactor,
			BounceDamping:  deps.Physics.BounceDamping,
		},
		timer:    timing.NewTimer(deps.Clock),
		recorder: ghost.NewRecorder(),
		player:   ghost.NewPlayer(nil),
		best:     core.NewUnsetRecord("", ""),
	}

	m := meter()

	var err error
	c.ticksTotal, err = m.Int64Counter(
		"game.ticks",
		metric.WithDescription("Total simulation ticks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}
	c.collisionsTotal, err = m.Int64Counter(
		"game.collisions",
		metric.WithDescription("Total obstacle collisions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collision counter: %w", err)
	}
	c.lapsTotal, err = m.Int64Counter(
		"game.laps",
		metric.WithDescription("Total laps completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lap counter: %w", err)
	}
	c.ghostSamples, err = m.Int64Counter(
		"game.ghost.samples",
		metric.WithDescription("Total ghost trace samples recorded"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ghost sample counter: %w", err)
	}
	c.tickSeconds, err = m.Float64Histogram(
		"game.tick.duration",
		metric.WithDescription("Wall time spent per tick"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}

	return c, nil
}

// StartRace begins race setup from the menu: the chosen track loads
// in the background while the menu stays responsive. Countdown starts
// once the load completes.
func (c *Controller) StartRace(spec core.VehicleSpec, trackID string) error {
	if c.mode != core.ModeMenu {
		return fmt.Errorf("cannot start a race from mode %s", c.mode)
	}
	if c.loading {
		return errors.New("race setup already in progress")
	}

	c.spec = spec
	c.lastErr = nil
	c.loading = true
	c.loadCh = c.deps.Loader.LoadAsync(trackID)

	c.deps.Log.Info().Str("vehicle", spec.ID).Str("track", trackID).
		Msg("Race setup started")
	return nil
}

// Tick advances the simulation by dt seconds. It never blocks and
// never fails; per-tick invariant violations are programming errors.
func (c *Controller) Tick(dt float64) {
	start := time.Now()
	defer func() {
		c.tickSeconds.Record(context.Background(), time.Since(start).Seconds())
	}()
	c.ticksTotal.Add(context.Background(), 1)

	snap := c.deps.Input.Snapshot()
	pauseEdge := snap.Pressed(core.ActionPause) && !c.prevPause
	c.prevPause = snap.Pressed(core.ActionPause)

	switch c.mode {
	case core.ModeMenu:
		// pause/escape has no meaning here
		c.tickMenu()
	case core.ModeCountdown:
		// physics disabled, input ignored; a countdown cannot be paused
		c.tickCountdown(dt)
	case core.ModeRacing:
		if pauseEdge {
			c.pause()
			return
		}
		c.tickRacing(snap, dt)
	case core.ModePaused:
		if pauseEdge {
			c.resume()
			return
		}
		if snap.Pressed(core.ActionExit) {
			c.exitToMenu()
		}
	}
}

// tickMenu polls for the asynchronous track-load completion. Until it
// arrives the tick is a no-op; a half-initialized world never races.
func (c *Controller) tickMenu() {
	if !c.loading {
		return
	}

	select {
	case res := <-c.loadCh:
		c.loading = false
		c.loadCh = nil
		if res.Err != nil {
			c.lastErr = res.Err
			c.deps.Log.Error().Err(res.Err).Msg("Track load failed")
			c.deps.Feed.Publish(events.Event{Kind: events.KindTrackFailed, Err: res.Err})
			return
		}
		c.setupRace(res.Track)
	default:
		// still loading
	}
}

// setupRace builds the race world and enters Countdown.
func (c *Controller) setupRace(t *core.Track) {
	c.track = t
	c.vehicle = core.NewVehicle(c.spec, t.Spawn)
	c.progress = track.NewProgress(t)
	c.recorder.Reset()
	c.ghostVisible = false
	c.lapTopSpeed = 0
	c.lapCollisions = 0

	c.best = c.loadBest(c.spec.ID, t.ID)
	c.player.SetTrace(c.best.Trace)

	c.countdownLeft = float64(c.deps.Countdown.Start)
	c.goLeft = 0
	c.setMode(core.ModeCountdown)
	c.deps.Feed.Publish(events.Event{
		Kind:      events.KindCountdownTick,
		Countdown: c.deps.Countdown.Start,
	})
}

// loadBest reads the record for the key through the cache. A missing
// or garbled record is "no record yet"; a failing store degrades to
// an in-session record rather than blocking the race.
func (c *Controller) loadBest(vehicleID, trackID string) core.BestTimeRecord {
	if rec, ok := c.deps.Cache.Get(vehicleID, trackID); ok {
		return rec
	}

	rec, err := c.deps.Store.Load(vehicleID, trackID)
	switch {
	case errors.Is(err, core.ErrNoRecord):
		rec = core.NewUnsetRecord(vehicleID, trackID)
	case err != nil:
		c.deps.Log.Warn().Err(err).Str("vehicle", vehicleID).Str("track", trackID).
			Msg("Best-time store unavailable, racing without a persisted record")
		rec = core.NewUnsetRecord(vehicleID, trackID)
	}

	c.deps.Cache.Put(rec)
	return rec
}

func (c *Controller) tickCountdown(dt float64) {
	before := displayCount(c.countdownLeft)
	c.countdownLeft -= dt
	after := displayCount(c.countdownLeft)

	if c.countdownLeft <= 0 {
		// input re-enables and the timer zeroes exactly at the 0
		// transition; the "go" marker is display-only
		c.goLeft = c.deps.Countdown.GoSeconds
		c.timer.Restart()
		c.setMode(core.ModeRacing)
		c.deps.Feed.Publish(events.Event{Kind: events.KindRaceStarted})
		return
	}

	if after != before {
		c.deps.Feed.Publish(events.Event{Kind: events.KindCountdownTick, Countdown: after})
	}
}

// tickRacing runs the per-tick pipeline in its fixed order:
// kinematics, collision, checkpoints, ghost.
func (c *Controller) tickRacing(snap core.InputSnapshot, dt float64) {
	if c.goLeft > 0 {
		c.goLeft -= dt
	}

	// cap dt so a long frame cannot tunnel through colliders
	if dt > c.deps.Physics.MaxDt {
		dt = c.deps.Physics.MaxDt
	}

	physics.Integrate(c.vehicle, snap, dt)

	hits := c.resolver.Resolve(c.vehicle, c.track.Obstacles)
	if hits > 0 {
		c.collisionsTotal.Add(context.Background(), int64(hits))
		c.lapCollisions += hits
	}
	if s := math.Abs(c.vehicle.Speed); s > c.lapTopSpeed {
		c.lapTopSpeed = s
	}

	if c.progress.Advance(c.vehicle.Bounds()) {
		c.completeLap()
	}

	elapsed := c.timer.Elapsed()
	if c.recorder.Sample(elapsed, c.vehicle.Pose()) {
		c.ghostSamples.Add(context.Background(), 1)
	}
	c.ghostPose, c.ghostVisible = c.player.At(elapsed)
}

// completeLap fires once per pass of the final gate. The timer resets
// for the next lap whether or not the record fell.
func (c *Controller) completeLap() {
	elapsed := c.timer.Elapsed()
	lap := c.progress.Laps()
	c.lapsTotal.Add(context.Background(), 1)

	c.deps.Feed.Publish(events.Event{
		Kind:     events.KindLapCompleted,
		Lap:      lap,
		LapTime:  elapsed,
		BestTime: c.best.BestTime,
	})
	c.deps.Log.Info().Int("lap", lap).Float64("time", elapsed).Msg("Lap completed")

	if c.best.Beats(elapsed) {
		c.best = core.BestTimeRecord{
			VehicleID: c.spec.ID,
			TrackID:   c.track.ID,
			BestTime:  elapsed,
			Trace:     c.recorder.Trace().Clone(),
			Spec:      c.spec,
		}
		if err := c.deps.Store.Save(c.best); err != nil {
			// the record still stands for this session
			c.deps.Log.Error().Err(err).Msg("Failed to persist best-time record")
		}
		c.deps.Cache.Put(c.best)
		c.player.SetTrace(c.best.Trace)
		c.deps.Feed.Publish(events.Event{Kind: events.KindNewRecord, BestTime: elapsed})
		c.deps.Log.Info().Float64("time", elapsed).Msg("New best time")
	}

	if c.deps.Telemetry != nil {
		point := telemetry.LapPoint(c.spec.ID, c.track.ID, lap,
			elapsed, c.best.BestTime, c.lapTopSpeed, c.lapCollisions)
		if err := c.deps.Telemetry.WritePoint(point); err != nil {
			c.deps.Log.Warn().Err(err).Msg("Failed to write lap telemetry")
		}
	}

	c.timer.Restart()
	c.recorder.Reset()
	c.lapTopSpeed = 0
	c.lapCollisions = 0
}

func (c *Controller) pause() {
	c.timer.Pause()
	c.setMode(core.ModePaused)
}

func (c *Controller) resume() {
	c.timer.Resume()
	c.setMode(core.ModeRacing)
}

// exitToMenu discards the current race state entirely.
func (c *Controller) exitToMenu() {
	c.vehicle = nil
	c.track = nil
	c.progress = nil
	c.recorder.Reset()
	c.player.SetTrace(nil)
	c.ghostVisible = false
	c.best = core.NewUnsetRecord("", "")
	c.setMode(core.ModeMenu)
}

func (c *Controller) setMode(m core.GameMode) {
	c.deps.Log.Debug().Str("from", c.mode.String()).Str("to", m.String()).
		Msg("Game mode change")
	c.mode = m
	c.deps.Feed.Publish(events.Event{Kind: events.KindModeChanged, Mode: m})
}

// Mode returns the active game mode.
func (c *Controller) Mode() core.GameMode {
	return c.mode
}

// ActiveGate returns the checkpoint volume the vehicle must reach
// next, when a race is underway.
func (c *Controller) ActiveGate() (core.Box, bool) {
	if c.progress == nil || c.track == nil {
		return core.Box{}, false
	}
	return c.track.Checkpoints[c.progress.Index()].Box, true
}

// displayCount is the number shown for a remaining countdown time:
// 2.3s remaining displays "3".
func displayCount(left float64) int {
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left))
}
