package physics

import (
	"math"

	"github.com/openkart/kartcore/pkg/core"
)

// Integrate advances a vehicle's speed, turn rate, heading and
// position by one tick from the given input snapshot. This is a
// kinematic model: speed and turn rate are direct state, not derived
// from forces. dt must be positive and capped by the caller.
//
// The candidate transform is produced without collision testing; the
// resolver corrects it afterwards.
func Integrate(v *core.Vehicle, in core.InputSnapshot, dt float64) {
	spec := v.Spec

	// speed: accelerate/brake step per tick, otherwise decay toward
	// zero without overshooting
	switch {
	case in.Pressed(core.ActionAccelerate):
		v.Speed = math.Min(v.Speed+spec.Accel, spec.MaxForward)
	case in.Pressed(core.ActionBrake):
		v.Speed = math.Max(v.Speed-spec.Accel, spec.MaxBackward)
	default:
		v.Speed = decay(v.Speed, spec.SlowDownSpeed)
	}

	// turn rate: same shape, but snaps exactly to zero once within one
	// decay step so no residual drift survives
	switch {
	case in.Pressed(core.ActionTurnLeft):
		v.TurnRate = math.Min(v.TurnRate+spec.ShortDeltaAngle, spec.MaxDeltaAngle)
	case in.Pressed(core.ActionTurnRight):
		v.TurnRate = math.Max(v.TurnRate-spec.ShortDeltaAngle, -spec.MaxDeltaAngle)
	default:
		v.TurnRate = decay(v.TurnRate, spec.SlowDownAngle)
	}

	v.Heading = core.WrapAngle(v.Heading + dt*v.TurnRate)
	v.Position = v.Position.Add(core.HeadingDir(v.Heading).Scale(v.Speed))
}

// decay moves x one step toward zero, returning exactly zero once
// within one step.
func decay(x, step float64) float64 {
	switch {
	case x > step:
		return x - step
	case x < -step:
		return x + step
	default:
		return 0
	}
}
