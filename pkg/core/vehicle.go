package core

// VehicleSpec is an immutable vehicle archetype. Presets are
// configuration data, never hard-coded at call sites.
type VehicleSpec struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`

	// Speed limits and per-tick speed steps, world units.
	MaxForward    float64 `json:"maxForward" mapstructure:"maxForward"`
	MaxBackward   float64 `json:"maxBackward" mapstructure:"maxBackward"` // negative
	Accel         float64 `json:"accel" mapstructure:"accel"`
	SlowDownSpeed float64 `json:"slowDownSpeed" mapstructure:"slowDownSpeed"`

	// Turn-rate limits and per-tick steps, radians.
	ShortDeltaAngle float64 `json:"shortDeltaAngle" mapstructure:"shortDeltaAngle"`
	MaxDeltaAngle   float64 `json:"maxDeltaAngle" mapstructure:"maxDeltaAngle"`
	SlowDownAngle   float64 `json:"slowDownAngle" mapstructure:"slowDownAngle"`

	// Collision volume.
	HalfExtents Vec3 `json:"halfExtents" mapstructure:"halfExtents"`
	Leeway      Vec3 `json:"leeway" mapstructure:"leeway"`
}

// Vehicle is the live kart state, mutated every tick by the kinematics
// integrator and by the collision resolver.
type Vehicle struct {
	Spec     VehicleSpec
	Position Vec3
	Heading  float64 // radians, [0, 2π)
	Speed    float64 // signed, [MaxBackward, MaxForward]
	TurnRate float64 // radians/sec, [-MaxDeltaAngle, MaxDeltaAngle]
}

// NewVehicle places a vehicle of the given archetype at a spawn pose,
// at rest.
func NewVehicle(spec VehicleSpec, spawn Pose) *Vehicle {
	return &Vehicle{
		Spec:     spec,
		Position: spawn.Position,
		Heading:  WrapAngle(spawn.Heading),
	}
}

// Pose returns the vehicle's current transform.
func (v *Vehicle) Pose() Pose {
	return Pose{Position: v.Position, Heading: v.Heading}
}

// Bounds returns the vehicle's collision volume at its current position.
func (v *Vehicle) Bounds() Box {
	return Box{Center: v.Position, HalfExtents: v.Spec.HalfExtents, Leeway: v.Spec.Leeway}
}
