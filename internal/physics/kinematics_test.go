package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/openkart/kartcore/pkg/core"
)

func testSpec() core.VehicleSpec {
	return core.VehicleSpec{
		ID:              "test",
		MaxForward:      1.0,
		MaxBackward:     -0.5,
		Accel:           0.02,
		SlowDownSpeed:   0.01,
		ShortDeltaAngle: 0.02,
		MaxDeltaAngle:   0.7,
		SlowDownAngle:   0.03,
		HalfExtents:     core.Vec3{X: 1, Y: 0.5, Z: 2},
		Leeway:          core.Vec3{X: 0.2, Z: 0.2},
	}
}

func TestSpeedNeverExceedsClamps(t *testing.T) {
	v := core.NewVehicle(testSpec(), core.Pose{})
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		in := core.InputSnapshot{}
		switch rng.Intn(3) {
		case 0:
			in[core.ActionAccelerate] = true
		case 1:
			in[core.ActionBrake] = true
		}
		Integrate(v, in, 1.0/60)

		if v.Speed > v.Spec.MaxForward {
			t.Fatalf("tick %d: speed %f exceeds maxForward %f", i, v.Speed, v.Spec.MaxForward)
		}
		if v.Speed < v.Spec.MaxBackward {
			t.Fatalf("tick %d: speed %f below maxBackward %f", i, v.Speed, v.Spec.MaxBackward)
		}
	}
}

func TestHeadingAlwaysWrapped(t *testing.T) {
	v := core.NewVehicle(testSpec(), core.Pose{})
	rng := rand.New(rand.NewSource(2))

	in := core.InputSnapshot{core.ActionTurnLeft: true}
	for i := 0; i < 5000; i++ {
		dt := 0.001 + rng.Float64()*0.099
		Integrate(v, in, dt)
		if v.Heading < 0 || v.Heading >= 2*math.Pi {
			t.Fatalf("tick %d: heading %f outside [0, 2π)", i, v.Heading)
		}
	}

	in = core.InputSnapshot{core.ActionTurnRight: true}
	for i := 0; i < 5000; i++ {
		dt := 0.001 + rng.Float64()*0.099
		Integrate(v, in, dt)
		if v.Heading < 0 || v.Heading >= 2*math.Pi {
			t.Fatalf("tick %d: heading %f outside [0, 2π)", i, v.Heading)
		}
	}
}

func TestTurnRateDecayConvergence(t *testing.T) {
	spec := testSpec()
	v := core.NewVehicle(spec, core.Pose{})

	// saturate the turn rate
	in := core.InputSnapshot{core.ActionTurnLeft: true}
	for i := 0; i < 100; i++ {
		Integrate(v, in, 1.0/60)
	}
	if v.TurnRate != spec.MaxDeltaAngle {
		t.Fatalf("turn rate not saturated: %f", v.TurnRate)
	}

	// with no turn input it must reach exactly zero within
	// ceil(maxDeltaAngle / slowDownAngle) ticks and stay there
	n := int(math.Ceil(spec.MaxDeltaAngle / spec.SlowDownAngle))
	for i := 0; i < n; i++ {
		Integrate(v, core.InputSnapshot{}, 1.0/60)
	}
	if v.TurnRate != 0 {
		t.Fatalf("turn rate %f after %d decay ticks, want exactly 0", v.TurnRate, n)
	}

	Integrate(v, core.InputSnapshot{}, 1.0/60)
	if v.TurnRate != 0 {
		t.Fatalf("turn rate drifted off zero: %f", v.TurnRate)
	}
}

func TestSpeedDecayNeverOvershootsZero(t *testing.T) {
	v := core.NewVehicle(testSpec(), core.Pose{})
	v.Speed = 0.005 // below one decay step

	Integrate(v, core.InputSnapshot{}, 1.0/60)
	if v.Speed != 0 {
		t.Fatalf("speed %f, want exactly 0", v.Speed)
	}

	v.Speed = -0.005
	Integrate(v, core.InputSnapshot{}, 1.0/60)
	if v.Speed != 0 {
		t.Fatalf("reverse speed %f, want exactly 0", v.Speed)
	}
}

func TestPositionFollowsHeading(t *testing.T) {
	v := core.NewVehicle(testSpec(), core.Pose{})
	v.Speed = 0.5
	v.Heading = 0 // +Z

	// no accel/brake: one decay step applies before the move
	Integrate(v, core.InputSnapshot{}, 1.0/60)
	if v.Position.X != 0 {
		t.Errorf("no lateral slip expected, got X=%f", v.Position.X)
	}
	want := 0.5 - v.Spec.SlowDownSpeed
	if math.Abs(v.Position.Z-want) > 1e-12 {
		t.Errorf("Z=%f, want %f", v.Position.Z, want)
	}
}
