// Package viewer is the graphical front end: it owns the camera, the 3D
// renderer and the UI panels, and forwards input to the game.
package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/game"
	"github.com/pthm-cable/flock/renderer"
	"github.com/pthm-cable/flock/telemetry"
	"github.com/pthm-cable/flock/ui"
)

const controlsLegend = "SPACE pause | , . speed | RMB drag orbit | MMB drag pan | wheel zoom | F follow | HOME reset | O overlays | P perf | S sliders"

// Viewer renders a running Game and handles its keyboard and mouse input.
type Viewer struct {
	game *game.Game

	camera   *camera.Camera
	flock    *renderer.FlockRenderer
	overlays *ui.OverlayRegistry

	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	statsPanel *ui.FlockStatsPanel
	controls   *ui.ControlsPanel
	biasPanel  *ui.BiasPanel

	lastStats telemetry.WindowStats
	hasStats  bool

	follow   bool
	showPerf bool

	screenWidth, screenHeight float32
}

// New creates a viewer for g. Must be called after the raylib window is created.
func New(g *game.Game) *Viewer {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	// Frame the spawn origin and the target
	origin := cfg.Spawner.Origin.Vec()
	target := cfg.Boid.Target.Vec()
	center := origin.Add(target).Mul(0.5)
	distance := max(target.Sub(origin).Len()*1.5, 30)

	v := &Viewer{
		game:       g,
		camera:     camera.New(center, distance),
		flock:      renderer.NewFlockRenderer(),
		overlays:   ui.NewOverlayRegistry(),
		hud:        ui.NewHUD(),
		perfPanel:  ui.NewPerfPanel(int32(w)-260, 10),
		statsPanel: ui.NewFlockStatsPanel(10, 100, 280),
		controls:   ui.NewControlsPanel(10, 260, 200),
		biasPanel:  ui.NewBiasPanel(int32(w)-260, int32(h)-250, 250, g.Biases()),
		showPerf:   true,

		screenWidth:  w,
		screenHeight: h,
	}
	v.overlays.SetEnabled(ui.OverlaySteerColors, true)
	v.overlays.SetEnabled(ui.OverlayTarget, true)

	return v
}

// OnStats records a flushed stats window for the stats panel.
// Pass it as game.Options.StatsCallback.
func (v *Viewer) OnStats(stats telemetry.WindowStats) {
	v.lastStats = stats
	v.hasStats = true
}

// Frame handles input, advances the game by the last frame time and draws.
func (v *Viewer) Frame() {
	v.handleInput()
	v.game.Update(rl.GetFrameTime())
	if v.follow {
		v.camera.Follow(flockCenter(v.game), 0.05)
	}
	v.draw()
}

// draw renders the flock and the UI for one frame.
func (v *Viewer) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.Color{R: 18, G: 22, B: 30, A: 255})

	v.flock.Draw(v.game.Agents(), v.camera, v.drawOptions())

	cfg := v.game.Config()
	tick := v.game.LastTick()
	v.hud.Draw(ui.HUDData{
		Title:          "Flock",
		Agents:         v.game.Population(),
		SpawnLimit:     cfg.Spawner.BoidsToSpawn,
		Buckets:        tick.Buckets,
		Tick:           v.game.Tick(),
		StepsPerUpdate: v.game.StepsPerUpdate(),
		FPS:            rl.GetFPS(),
		Paused:         v.game.Paused(),
	})

	if v.hasStats {
		v.statsPanel.Draw(v.lastStats)
	}
	v.controls.Draw(v.overlays)

	if v.showPerf {
		v.perfPanel.Draw(v.game.Perf(), v.game.Registry())
	}

	biases, changed, action := v.biasPanel.Draw(v.game.Biases())
	if action.Reset {
		biases, changed = v.biasPanel.Initial(), true
	}
	if changed {
		v.game.SetBiases(biases)
		slog.Info("biases changed",
			"cohesion", biases.Cohesion,
			"separation", biases.Separation,
			"alignment", biases.Alignment,
			"target", biases.Target,
		)
	}
	if action.Pause {
		v.game.TogglePause()
	}

	v.hud.DrawControls(int32(v.screenHeight), controlsLegend)
}

// drawOptions maps enabled overlays to renderer options.
func (v *Viewer) drawOptions() renderer.DrawOptions {
	opts := renderer.DrawOptions{
		Velocity:   v.overlays.IsEnabled(ui.OverlayVelocity),
		Headings:   v.overlays.IsEnabled(ui.OverlayHeadings),
		Perception: v.overlays.IsEnabled(ui.OverlayPerception),
		Target:     v.overlays.IsEnabled(ui.OverlayTarget),
		GridCells:  v.overlays.IsEnabled(ui.OverlayGridCells),
	}
	switch {
	case v.overlays.IsEnabled(ui.OverlaySteerColors):
		opts.Colors = renderer.ColorSteer
	case v.overlays.IsEnabled(ui.OverlayBucketColors):
		opts.Colors = renderer.ColorBucket
	}
	return opts
}

// flockCenter returns the mean agent position, or the spawn origin before
// the first agent exists.
func flockCenter(g *game.Game) mgl32.Vec3 {
	agents := g.Agents()
	if agents.Len() == 0 {
		return g.Config().Spawner.Origin.Vec()
	}
	var sum mgl32.Vec3
	for _, p := range agents.Positions {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float32(agents.Len()))
}
