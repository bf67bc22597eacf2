// Package game hosts the flock: an ark ECS world holding the agents, the
// spawner, and the core pipeline that updates them every tick.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// maxFrameSteps bounds the frame time a single graphical update may simulate.
const maxFrameSteps = 4

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	StepsPerUpdate int
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	boidMapper *ecs.Map3[components.Translation, components.Rotation, components.Boid]
	boidFilter *ecs.Filter3[components.Translation, components.Rotation, components.Boid]

	// Individual component mappers for write-back
	posMap  *ecs.Map1[components.Translation]
	rotMap  *ecs.Map1[components.Rotation]
	boidMap *ecs.Map1[components.Boid]

	spawner  *Spawner
	pipeline *systems.Pipeline
	registry *systems.SystemRegistry

	// Column view handed to the pipeline, rebuilt from ECS every tick
	view     systems.Agents
	entities []ecs.Entity
	lastTick systems.TickStats

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewGameWithOptions creates a game, validating the configuration it runs with.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),

		boidMapper: ecs.NewMap3[components.Translation, components.Rotation, components.Boid](world),
		boidFilter: ecs.NewFilter3[components.Translation, components.Rotation, components.Boid](world),
		posMap:     ecs.NewMap1[components.Translation](world),
		rotMap:     ecs.NewMap1[components.Rotation](world),
		boidMap:    ecs.NewMap1[components.Boid](world),

		spawner: NewSpawner(&cfg.Spawner),
		pipeline: systems.NewPipeline(systems.PipelineOptions{
			Workers:           cfg.Pipeline.Workers,
			BatchSize:         cfg.Pipeline.BatchSize,
			Shards:            cfg.Pipeline.Shards,
			ParallelThreshold: cfg.Pipeline.ParallelThreshold,
		}),
		registry: systems.NewSystemRegistry(),

		stepsPerUpdate: steps,

		collector:     telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		outputManager: outputManager,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	slog.Debug("game created",
		"seed", opts.Seed,
		"boids_to_spawn", cfg.Spawner.BoidsToSpawn,
		"cell_size", cfg.Boid.CellSize,
		"workers", cfg.Pipeline.Workers,
	)

	return g, nil
}

// Update advances the simulation by one rendered frame. frameTime is the
// wall-clock length of the frame; 0 uses the configured dt.
func (g *Game) Update(frameTime float32) {
	g.perfCollector.RecordFrame()
	if g.paused {
		return
	}

	dt := g.cfg.Derived.DT32
	if frameTime > 0 {
		dt = min(frameTime, maxFrameSteps*dt)
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep(dt)
	}
}

// UpdateHeadless runs stepsPerUpdate fixed-dt ticks.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep(g.cfg.Derived.DT32)
	}
}

// Step runs a single tick of dt seconds, ignoring pause.
func (g *Game) Step(dt float32) {
	g.simulationStep(dt)
}

// Unload stops the pipeline workers and closes telemetry output.
func (g *Game) Unload() {
	g.pipeline.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of ticks simulated.
func (g *Game) Tick() int32 {
	return g.tick
}

// Population returns the number of live agents.
func (g *Game) Population() int {
	return g.spawner.Spawned()
}

// Agents returns the column view as updated by the last tick.
// The view is rebuilt every tick; callers must not retain it.
func (g *Game) Agents() systems.Agents {
	return g.view
}

// LastTick returns the pipeline stats of the last tick.
func (g *Game) LastTick() systems.TickStats {
	return g.lastTick
}

// Perf returns timing statistics over the perf window.
func (g *Game) Perf() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// Registry returns the system metadata used to label perf phases.
func (g *Game) Registry() *systems.SystemRegistry {
	return g.registry
}

// Config returns the configuration the game runs with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Paused reports whether Update is currently a no-op.
func (g *Game) Paused() bool {
	return g.paused
}

// TogglePause pauses or resumes the simulation.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// StepsPerUpdate returns the ticks simulated per update call.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate sets the ticks simulated per update call, at least 1.
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(n, 1)
}
