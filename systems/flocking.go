package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/flock/components"
)

// orientationRate scales dt into the per-tick slerp amount.
const orientationRate = 10

// Steering holds the weighted flocking contributions computed from one bucket.
type Steering struct {
	Separation mgl32.Vec3
	Alignment  mgl32.Vec3
	Cohesion   mgl32.Vec3
	Total      int // neighbors inside the perception radius
}

// Steer walks bucket and returns the separation, alignment and cohesion
// vectors for an agent at pos. A snapshot at exactly pos is the agent itself
// and is skipped, as is any other agent sharing that exact point.
func Steer(pos mgl32.Vec3, b *components.Boid, bucket []Snapshot) Steering {
	var st Steering
	var separation, alignment, cohesion mgl32.Vec3

	for i := range bucket {
		s := &bucket[i]
		if s.Position == pos {
			continue
		}
		away := pos.Sub(s.Position)
		dist := away.Len()
		if dist >= b.PerceptionRadius {
			continue
		}
		separation = separation.Add(div(away, dist))
		cohesion = cohesion.Add(s.Position)
		alignment = alignment.Add(s.Velocity)
		st.Total++
	}

	if st.Total == 0 {
		return st
	}

	n := float32(st.Total)
	st.Cohesion = unitOrZero(div(cohesion, n).Sub(pos.Add(b.Velocity))).Mul(b.CohesionBias)
	st.Separation = unitOrZero(div(separation, n).Sub(b.Velocity)).Mul(b.SeparationBias)
	st.Alignment = unitOrZero(div(alignment, n).Sub(b.Velocity)).Mul(b.AlignmentBias)
	return st
}

// ChunkStats counts what happened to the agents of one flocking chunk.
type ChunkStats struct {
	Agents          int // agents updated
	Neighbors       int // neighbor contributions summed over agents
	Isolated        int // agents that saw no neighbor
	VelocityHeld    int // agents whose velocity was left unchanged
	OrientationHeld int // agents whose orientation was left unchanged
}

func (c *ChunkStats) add(o ChunkStats) {
	c.Agents += o.Agents
	c.Neighbors += o.Neighbors
	c.Isolated += o.Isolated
	c.VelocityHeld += o.VelocityHeld
	c.OrientationHeld += o.OrientationHeld
}

// FlockRange updates agents [lo, hi) from the neighbors bucketed in grid.
// Each agent's record is written only by the caller that owns [lo, hi).
func FlockRange(grid *SpatialHash, a Agents, lo, hi int, dt float32) ChunkStats {
	var stats ChunkStats
	turn := clamp01(dt * orientationRate)

	for i := lo; i < hi; i++ {
		pos := a.Positions[i]
		b := &a.Boids[i]

		bucket := grid.Lookup(KeyFor(pos, b.CellSize))
		if len(bucket) == 0 {
			// Not bucketed this tick
			continue
		}
		stats.Agents++

		st := Steer(pos, b, bucket)
		stats.Neighbors += st.Total
		if st.Total == 0 {
			stats.Isolated++
		}

		prevVel := b.Velocity
		accel := b.Acceleration.Add(st.Cohesion).Add(st.Alignment).Add(st.Separation)

		newVel := prevVel
		if dir, ok := unit(prevVel.Add(accel)); ok && !isNaN(accel[0]) {
			newVel = dir.Mul(b.Speed)
		} else {
			stats.VelocityHeld++
		}

		b.Velocity = newVel
		// Target seeking replaces the flocking acceleration as next tick's base.
		b.Acceleration = unitOrZero(b.Target.Sub(pos)).Mul(b.TargetBias)

		if look, ok := unit(newVel); ok {
			a.Rotations[i] = mgl32.QuatSlerp(a.Rotations[i], lookRotation(look, worldUp), turn)
		} else {
			stats.OrientationHeld++
		}

		a.Positions[i] = lerp(pos, pos.Add(prevVel), dt*b.Step)
	}

	return stats
}
