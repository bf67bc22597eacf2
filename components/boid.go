package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/flock/config"
)

// Boid holds the flocking state and per-agent steering parameters.
type Boid struct {
	Velocity     mgl32.Vec3
	Acceleration mgl32.Vec3

	PerceptionRadius float32 // neighbor distance cutoff
	Speed            float32 // velocity magnitude after each update
	Step             float32 // position integration rate

	CohesionBias   float32
	SeparationBias float32
	AlignmentBias  float32
	TargetBias     float32

	Target   mgl32.Vec3 // attraction point
	CellSize int32      // spatial hash cell edge length
}

// BoidFromConfig returns a boid stamped from the configured parameters with
// the given initial velocity and zero acceleration.
func BoidFromConfig(cfg *config.BoidConfig, velocity mgl32.Vec3) Boid {
	return Boid{
		Velocity:         velocity,
		PerceptionRadius: float32(cfg.PerceptionRadius),
		Speed:            float32(cfg.MaxSpeed),
		Step:             float32(cfg.Step),
		CohesionBias:     float32(cfg.CohesionBias),
		SeparationBias:   float32(cfg.SeparationBias),
		AlignmentBias:    float32(cfg.AlignmentBias),
		TargetBias:       float32(cfg.TargetBias),
		Target:           cfg.Target.Vec(),
		CellSize:         int32(cfg.CellSize),
	}
}
