package systems

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/flock/components"
)

// Agents is a column view over the flock. Index i of every column belongs to
// the same agent. The pipeline reads and writes the columns in place.
type Agents struct {
	Positions []mgl32.Vec3
	Rotations []mgl32.Quat
	Boids     []components.Boid
}

// Len returns the number of agents.
func (a Agents) Len() int {
	return len(a.Positions)
}

// Validate reports column length mismatches and agents that violate the
// record invariants.
func (a Agents) Validate() error {
	n := len(a.Positions)
	if len(a.Rotations) != n || len(a.Boids) != n {
		return fmt.Errorf("column length mismatch: positions=%d rotations=%d boids=%d",
			n, len(a.Rotations), len(a.Boids))
	}

	var errs []error
	for i := range a.Boids {
		b := &a.Boids[i]
		if b.Speed <= 0 {
			errs = append(errs, fmt.Errorf("agent %d: speed must be > 0, got %v", i, b.Speed))
		}
		if b.CellSize <= 0 {
			errs = append(errs, fmt.Errorf("agent %d: cell size must be > 0, got %d", i, b.CellSize))
		}
		if b.CohesionBias < 0 || b.SeparationBias < 0 || b.AlignmentBias < 0 || b.TargetBias < 0 {
			errs = append(errs, fmt.Errorf("agent %d: biases must be non-negative", i))
		}
	}
	return errors.Join(errs...)
}

// Reset truncates the columns, keeping their storage.
func (a *Agents) Reset() {
	a.Positions = a.Positions[:0]
	a.Rotations = a.Rotations[:0]
	a.Boids = a.Boids[:0]
}

// Append adds one agent to the end of the view.
func (a *Agents) Append(pos mgl32.Vec3, rot mgl32.Quat, b components.Boid) {
	a.Positions = append(a.Positions, pos)
	a.Rotations = append(a.Rotations, rot)
	a.Boids = append(a.Boids, b)
}
