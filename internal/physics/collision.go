package physics

import (
	"math"

	"github.com/openkart/kartcore/pkg/core"
)

// Resolver corrects a vehicle's candidate transform against the static
// obstacle set. Obstacles are resolved independently in iteration
// order within the same tick; this is an approximation, not a combined
// solve, and the resulting feel is load-bearing.
type Resolver struct {
	// SpeedThreshold separates grazing contact from a real impact.
	SpeedThreshold float64
	// PushBackFactor scales the impact speed into a push-back distance.
	PushBackFactor float64
	// BounceDamping is the fraction of impact speed kept (negated) as
	// the rebound.
	BounceDamping float64
}

// Resolve tests the vehicle against every obstacle and applies the
// response policy. Returns the number of obstacles hit this tick.
func (r Resolver) Resolve(v *core.Vehicle, obstacles []core.Obstacle) int {
	hits := 0
	for _, ob := range obstacles {
		if !v.Bounds().Intersects(ob.Box) {
			continue
		}
		hits++

		// near-stationary: nosing into a wall. Reverse the turn-rate
		// sign so the kart pivots off at an angle instead of sticking.
		if math.Abs(v.Speed) < r.SpeedThreshold {
			v.TurnRate = -v.TurnRate
			continue
		}

		impact := v.Speed
		pushBack := math.Abs(impact) * r.PushBackFactor
		dir := core.HeadingDir(v.Heading)

		v.Speed = 0
		v.Position = v.Position.Add(dir.Scale(-pushBack))

		// corner-wedged: still overlapping after the snap-back, escape
		// forward by twice the push-back. A remaining overlap after
		// this is tolerated.
		if v.Bounds().Intersects(ob.Box) {
			v.Position = v.Position.Add(dir.Scale(2 * pushBack))
		}

		v.Speed = -impact * r.BounceDamping
	}
	return hits
}
