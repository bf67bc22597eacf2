// Package camera provides an orbit camera for viewing the flock in 3D.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch keeps the camera just short of the poles so the up vector stays defined.
const MaxPitch = math.Pi/2 - 0.01

// Camera orbits a target point at a given distance.
// Yaw rotates around +Y; pitch tilts toward +Y.
type Camera struct {
	// Target is the orbit center in world coordinates
	Target mgl32.Vec3

	// Orientation in radians
	Yaw, Pitch float32

	// Distance from target to eye
	Distance float32

	// Zoom constraints
	MinDistance, MaxDistance float32

	home pose
}

// pose is the part of the camera state restored by Reset.
type pose struct {
	target     mgl32.Vec3
	yaw, pitch float32
	distance   float32
}

// New creates a camera looking at target from distance, raised 30 degrees.
func New(target mgl32.Vec3, distance float32) *Camera {
	c := &Camera{
		Target:      target,
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 6,
		Distance:    distance,
		MinDistance: distance / 20,
		MaxDistance: distance * 5,
	}
	c.home = pose{target: target, yaw: c.Yaw, pitch: c.Pitch, distance: distance}
	return c
}

// Position returns the eye position.
func (c *Camera) Position() mgl32.Vec3 {
	return c.Target.Add(c.offset())
}

// Forward returns the unit viewing direction.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.offset().Mul(-1 / c.Distance)
}

func (c *Camera) offset() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	return mgl32.Vec3{
		float32(cp * sy),
		float32(sp),
		float32(cp * cy),
	}.Mul(c.Distance)
}

// Orbit rotates the eye around the target. Yaw wraps to [0, 2pi);
// pitch is clamped to +-MaxPitch.
func (c *Camera) Orbit(dyaw, dpitch float32) {
	c.Yaw = mod(c.Yaw+dyaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dpitch, -MaxPitch, MaxPitch)
}

// Pan moves the target across the view plane. dx and dy are fractions of the
// orbit distance.
func (c *Camera) Pan(dx, dy float32) {
	fwd := c.Forward()
	right := fwd.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := right.Cross(fwd)
	c.Target = c.Target.Add(right.Mul(dx * c.Distance)).Add(up.Mul(dy * c.Distance))
}

// Follow moves the target toward p by rate in [0, 1].
func (c *Camera) Follow(p mgl32.Vec3, rate float32) {
	rate = clamp(rate, 0, 1)
	c.Target = c.Target.Add(p.Sub(c.Target).Mul(rate))
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float32) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the orbit distance by factor; factor > 1 moves closer.
func (c *Camera) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// IsVisible returns true if a sphere at p could be in front of the eye
// (conservative check for culling).
func (c *Camera) IsVisible(p mgl32.Vec3, radius float32) bool {
	return p.Sub(c.Position()).Dot(c.Forward()) > -radius
}

// Reset returns the camera to the state it was created with.
func (c *Camera) Reset() {
	c.Target = c.home.target
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
	c.Distance = c.home.distance
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
