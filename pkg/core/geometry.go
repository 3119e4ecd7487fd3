package core

import "math"

// Vec3 is a point or offset in world space. Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Pose is a position plus a heading angle in radians, wrapped to [0, 2π).
type Pose struct {
	Position Vec3    `json:"position"`
	Heading  float64 `json:"heading"`
}

// Box is an axis-aligned bounding volume. Leeway is per-axis slack
// added to the half extents when testing overlap, used to tune
// collision forgiveness per volume.
type Box struct {
	Center      Vec3 `json:"center"`
	HalfExtents Vec3 `json:"halfExtents"`
	Leeway      Vec3 `json:"leeway,omitempty"`
}

// At returns a copy of b re-centered on p.
func (b Box) At(p Vec3) Box {
	b.Center = p
	return b
}

// Intersects reports axis-aligned overlap between b and o.
// Both boxes contribute their leeway to the test.
func (b Box) Intersects(o Box) bool {
	dx := b.HalfExtents.X + b.Leeway.X + o.HalfExtents.X + o.Leeway.X
	dy := b.HalfExtents.Y + b.Leeway.Y + o.HalfExtents.Y + o.Leeway.Y
	dz := b.HalfExtents.Z + b.Leeway.Z + o.HalfExtents.Z + o.Leeway.Z
	return math.Abs(b.Center.X-o.Center.X) <= dx &&
		math.Abs(b.Center.Y-o.Center.Y) <= dy &&
		math.Abs(b.Center.Z-o.Center.Z) <= dz
}

// WrapAngle normalizes an angle in radians to [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// HeadingDir returns the unit direction vector for a heading angle.
// Velocity is always heading-aligned, there is no lateral slip.
func HeadingDir(heading float64) Vec3 {
	return Vec3{X: math.Sin(heading), Y: 0, Z: math.Cos(heading)}
}
