// Package renderer draws the flock in 3D with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/systems"
)

// Agent mesh dimensions in world units
const (
	bodyLength = 0.9
	bodyRadius = 0.25
	bodySides  = 5
)

// ColorMode selects how agents are tinted.
type ColorMode int

const (
	ColorPlain  ColorMode = iota // single color
	ColorSteer                   // hue by angle between heading and velocity
	ColorBucket                  // hue by spatial hash key
)

// DrawOptions selects what FlockRenderer draws besides the agents.
type DrawOptions struct {
	Colors     ColorMode
	Velocity   bool // velocity vectors
	Headings   bool // forward and up axes from the rotation
	Perception bool // perception radius wire spheres
	Target     bool // seek target marker
	GridCells  bool // occupied spatial hash cells
}

// FlockRenderer draws agents as cones pointing along their rotation.
type FlockRenderer struct {
	view  rl.Camera3D
	cells map[[3]int32]struct{}

	// Agents further than this from the eye are drawn as points
	LODDistance float32
}

// NewFlockRenderer creates a renderer with a 45 degree perspective camera.
func NewFlockRenderer() *FlockRenderer {
	return &FlockRenderer{
		view: rl.Camera3D{
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       45,
			Projection: rl.CameraPerspective,
		},
		cells:       make(map[[3]int32]struct{}),
		LODDistance: 150,
	}
}

// Draw renders agents as seen from cam.
func (f *FlockRenderer) Draw(agents systems.Agents, cam *camera.Camera, opts DrawOptions) {
	f.view.Position = vec(cam.Position())
	f.view.Target = vec(cam.Target)

	rl.BeginMode3D(f.view)
	defer rl.EndMode3D()

	rl.DrawGrid(40, 4)

	if opts.GridCells {
		f.drawCells(agents)
	}

	eye := cam.Position()
	lod2 := f.LODDistance * f.LODDistance
	for i := 0; i < agents.Len(); i++ {
		pos := agents.Positions[i]
		b := &agents.Boids[i]
		if !cam.IsVisible(pos, bodyLength) {
			continue
		}

		rot := agents.Rotations[i]
		forward := rot.Rotate(mgl32.Vec3{0, 0, 1})
		color := agentColor(opts.Colors, forward, pos, b.Velocity, b.CellSize)

		if d := pos.Sub(eye); d.Dot(d) > lod2 {
			rl.DrawPoint3D(vec(pos), color)
			continue
		}

		tail := pos.Sub(forward.Mul(bodyLength / 2))
		tip := pos.Add(forward.Mul(bodyLength / 2))
		rl.DrawCylinderEx(vec(tail), vec(tip), bodyRadius, 0, bodySides, color)

		if opts.Velocity {
			rl.DrawLine3D(vec(pos), vec(pos.Add(b.Velocity.Mul(0.25))), rl.SkyBlue)
		}
		if opts.Headings {
			up := rot.Rotate(mgl32.Vec3{0, 1, 0})
			rl.DrawLine3D(vec(pos), vec(pos.Add(forward)), rl.Red)
			rl.DrawLine3D(vec(pos), vec(pos.Add(up.Mul(0.5))), rl.Green)
		}
		if opts.Perception {
			rl.DrawSphereWires(vec(pos), b.PerceptionRadius, 4, 6, rl.Fade(rl.LightGray, 0.15))
		}
	}

	if opts.Target && agents.Len() > 0 {
		target := agents.Boids[0].Target
		rl.DrawSphere(vec(target), 0.6, rl.Gold)
		rl.DrawSphereWires(vec(target), 1.2, 6, 8, rl.Orange)
	}
}

// drawCells outlines every cell holding at least one agent.
func (f *FlockRenderer) drawCells(agents systems.Agents) {
	clear(f.cells)
	for i := 0; i < agents.Len(); i++ {
		f.cells[systems.CellOf(agents.Positions[i], agents.Boids[i].CellSize)] = struct{}{}
	}
	if agents.Len() == 0 {
		return
	}

	size := float32(agents.Boids[0].CellSize)
	color := rl.Fade(rl.DarkGreen, 0.5)
	for c := range f.cells {
		center := rl.NewVector3(
			(float32(c[0])+0.5)*size,
			(float32(c[1])+0.5)*size,
			(float32(c[2])+0.5)*size,
		)
		rl.DrawCubeWires(center, size, size, size, color)
	}
}

// agentColor picks the tint for one agent under mode.
func agentColor(mode ColorMode, forward, pos, velocity mgl32.Vec3, cellSize int32) rl.Color {
	switch mode {
	case ColorSteer:
		// Heading lags velocity by up to pi radians
		var angle float64
		if l := velocity.Len(); l > 0 {
			cos := float64(forward.Dot(velocity) / l)
			angle = math.Acos(math.Max(-1, math.Min(1, cos)))
		}
		hue := float32(120 * (1 - angle/math.Pi))
		return rl.ColorFromHSV(hue, 0.8, 0.95)
	case ColorBucket:
		key := systems.KeyFor(pos, cellSize)
		hue := float32(uint32(key)*37%360)
		return rl.ColorFromHSV(hue, 0.7, 0.95)
	default:
		return rl.RayWhite
	}
}

// vec converts an mgl32 vector to a raylib one.
func vec(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}
