// kartsim is a headless demo: it wires the full stack, loads a track,
// and drives a scripted kart around it at a fixed tick rate.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/openkart/kartcore/internal/cache"
	"github.com/openkart/kartcore/internal/config"
	"github.com/openkart/kartcore/internal/events"
	"github.com/openkart/kartcore/internal/game"
	"github.com/openkart/kartcore/internal/input"
	"github.com/openkart/kartcore/internal/logging"
	"github.com/openkart/kartcore/internal/storage"
	"github.com/openkart/kartcore/internal/telemetry"
	"github.com/openkart/kartcore/internal/track"
	"github.com/openkart/kartcore/pkg/core"
)

const tickRate = 60

func main() {
	configDir := flag.String("config", ".", "directory containing kartcore.cfg.json")
	trackID := flag.String("track", "oval", "track id to load")
	vehicleID := flag.String("vehicle", "standard", "vehicle archetype id")
	laps := flag.Int("laps", 3, "laps to drive before exiting")
	flag.Parse()

	if err := run(*configDir, *trackID, *vehicleID, *laps); err != nil {
		fmt.Fprintln(os.Stderr, "kartsim:", err)
		os.Exit(1)
	}
}

func run(configDir, trackID, vehicleID string, laps int) error {
	if err := config.Load(configDir); err != nil {
		return err
	}

	log, closeLog, err := logging.Setup()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	spec, err := config.VehicleByID(vehicleID)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(config.Storage(), log)
	if err != nil {
		return err
	}
	if err := store.Init(); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var tele *telemetry.Manager
	if viper.GetBool("influx.enabled") {
		tele = telemetry.NewManager(log, viper.GetString("influx.backupPath"))
		if err := tele.Connect(); err != nil {
			log.Warn().Err(err).Msg("Telemetry unavailable")
			tele = nil
		} else {
			defer tele.Close()
		}
	}

	keys := input.NewState()
	feed := events.NewFeed()

	ctrl, err := game.New(game.Dependencies{
		Log:       log,
		Input:     keys,
		Loader:    track.NewLoader(viper.GetString("tracksDir"), log),
		Store:     store,
		Cache:     cache.NewRecordCache(),
		Feed:      feed,
		Telemetry: tele,
		Physics:   config.Physics(),
		Countdown: config.Countdown(),
	})
	if err != nil {
		return err
	}

	if err := ctrl.StartRace(spec, trackID); err != nil {
		return err
	}

	log.Info().Str("track", trackID).Str("vehicle", vehicleID).
		Int("laps", laps).Msg("Starting scripted race")

	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	dt := 1.0 / float64(tickRate)
	lapsDone := 0
	lastStatus := time.Now()

	for range ticker.C {
		ctrl.Tick(dt)
		driveScript(ctrl, keys)

		for _, ev := range feed.Drain() {
			switch ev.Kind {
			case events.KindCountdownTick:
				log.Info().Int("countdown", ev.Countdown).Msg("Countdown")
			case events.KindRaceStarted:
				log.Info().Msg("GO")
			case events.KindLapCompleted:
				lapsDone = ev.Lap
				log.Info().Int("lap", ev.Lap).Float64("time", ev.LapTime).Msg("Lap completed")
			case events.KindNewRecord:
				log.Info().Float64("time", ev.BestTime).Msg("New best time")
			case events.KindTrackFailed:
				return fmt.Errorf("track load failed: %w", ev.Err)
			}
		}

		if time.Since(lastStatus) >= time.Second {
			lastStatus = time.Now()
			hud := ctrl.HUD()
			evt := log.Debug().
				Stringer("mode", hud.Mode).
				Float64("elapsed", hud.Elapsed).
				Int("lap", hud.Lap).
				Int("gate", hud.Gate).
				Float64("speed", hud.Speed)
			if !math.IsInf(hud.BestTime, 1) {
				evt = evt.Float64("best", hud.BestTime)
			}
			evt.Msg("Status")
		}

		if lapsDone >= laps {
			break
		}
	}

	log.Info().Int("laps", lapsDone).Msg("Scripted race finished")
	return nil
}

// driveScript is a crude autopilot: full throttle, steering toward
// the active gate.
func driveScript(ctrl *game.Controller, keys *input.State) {
	hud := ctrl.HUD()
	if hud.Mode != core.ModeRacing || !hud.HasVehicle {
		keys.Reset()
		return
	}

	keys.Press(core.ActionAccelerate)

	target, ok := ctrl.ActiveGate()
	if !ok {
		keys.Release(core.ActionTurnLeft, core.ActionTurnRight)
		return
	}

	toGate := math.Atan2(target.Center.X-hud.Vehicle.Position.X,
		target.Center.Z-hud.Vehicle.Position.Z)
	diff := core.WrapAngle(toGate - hud.Vehicle.Heading)

	switch {
	case diff > 0.05 && diff < math.Pi:
		keys.Press(core.ActionTurnLeft)
		keys.Release(core.ActionTurnRight)
	case diff >= math.Pi && diff < 2*math.Pi-0.05:
		keys.Press(core.ActionTurnRight)
		keys.Release(core.ActionTurnLeft)
	default:
		keys.Release(core.ActionTurnLeft, core.ActionTurnRight)
	}
}
