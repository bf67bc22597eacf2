package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	worldUp      = mgl32.Vec3{0, 1, 0}
	worldForward = mgl32.Vec3{0, 0, 1}
)

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isNaN(f float32) bool {
	return math.IsNaN(float64(f))
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}

func floorf(f float32) float32 {
	return float32(math.Floor(float64(f)))
}

// div divides each component by s.
func div(v mgl32.Vec3, s float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0] / s, v[1] / s, v[2] / s}
}

// unit returns v scaled to length one. ok is false for zero-length or
// non-finite input, in which case the zero vector is returned.
func unit(v mgl32.Vec3) (u mgl32.Vec3, ok bool) {
	l := v.Len()
	if l == 0 || !finite(v) {
		return mgl32.Vec3{}, false
	}
	return div(v, l), true
}

// unitOrZero is unit without the flag. A degenerate direction contributes nothing.
func unitOrZero(v mgl32.Vec3) mgl32.Vec3 {
	u, _ := unit(v)
	return u
}

// lerp returns a + (b-a)*t.
func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// lookRotation returns the rotation taking +Z to forward and +Y as close to
// up as possible. forward must be unit length.
func lookRotation(forward, up mgl32.Vec3) mgl32.Quat {
	right, ok := unit(up.Cross(forward))
	if !ok {
		// forward is parallel to up
		return mgl32.QuatBetweenVectors(worldForward, forward)
	}
	newUp := forward.Cross(right)
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(right, newUp, forward).Mat4()).Normalize()
}
