// Package components defines the ECS component types stored per agent.
package components

import "github.com/go-gl/mathgl/mgl32"

// Translation represents an agent's world position.
type Translation struct {
	Value mgl32.Vec3
}

// Rotation represents an agent's render-facing orientation.
// The flocking math never reads it.
type Rotation struct {
	Value mgl32.Quat
}
