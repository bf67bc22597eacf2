// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Sim       SimConfig       `yaml:"sim"`
	Screen    ScreenConfig    `yaml:"screen"`
	Spawner   SpawnerConfig   `yaml:"spawner"`
	Boid      BoidConfig      `yaml:"boid"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Vec3 is a YAML-friendly 3D vector.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec returns v as a float32 vector.
func (v Vec3) Vec() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// SimConfig holds tick parameters for headless runs.
type SimConfig struct {
	DT       float64 `yaml:"dt"`
	MaxTicks int     `yaml:"max_ticks"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SpawnerConfig holds periodic spawning parameters.
type SpawnerConfig struct {
	Interval         float64 `yaml:"interval"`           // Seconds between bursts
	BoidsPerInterval int     `yaml:"boids_per_interval"` // Burst size is this plus one
	BoidsToSpawn     int     `yaml:"boids_to_spawn"`     // Population cap
	Origin           Vec3    `yaml:"origin"`
}

// BoidConfig holds the per-agent parameters stamped onto every spawned agent.
type BoidConfig struct {
	PerceptionRadius float64 `yaml:"perception_radius"`
	MaxSpeed         float64 `yaml:"max_speed"`
	Step             float64 `yaml:"step"`
	CohesionBias     float64 `yaml:"cohesion_bias"`
	SeparationBias   float64 `yaml:"separation_bias"`
	AlignmentBias    float64 `yaml:"alignment_bias"`
	TargetBias       float64 `yaml:"target_bias"`
	Target           Vec3    `yaml:"target"`
	CellSize         int     `yaml:"cell_size"`
}

// PipelineConfig holds parallel update parameters.
type PipelineConfig struct {
	Workers           int `yaml:"workers"`            // 0 = GOMAXPROCS
	BatchSize         int `yaml:"batch_size"`         // Agents per chunk
	Shards            int `yaml:"shards"`             // Spatial hash lock stripes
	ParallelThreshold int `yaml:"parallel_threshold"` // Inline below this population
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
	PerfWindow  int     `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32 // Sim.DT as float32
	StatsWindowT int32   // Telemetry.StatsWindow in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the invariants every spawned agent must satisfy.
func (c *Config) Validate() error {
	var errs []error
	b := c.Boid
	if b.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("boid.max_speed must be > 0, got %v", b.MaxSpeed))
	}
	if b.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("boid.cell_size must be > 0, got %d", b.CellSize))
	}
	biases := []struct {
		name string
		v    float64
	}{
		{"cohesion_bias", b.CohesionBias},
		{"separation_bias", b.SeparationBias},
		{"alignment_bias", b.AlignmentBias},
		{"target_bias", b.TargetBias},
	}
	for _, bias := range biases {
		if bias.v < 0 {
			errs = append(errs, fmt.Errorf("boid.%s must be >= 0, got %v", bias.name, bias.v))
		}
	}
	if c.Spawner.BoidsPerInterval < 0 {
		errs = append(errs, fmt.Errorf("spawner.boids_per_interval must be >= 0, got %d", c.Spawner.BoidsPerInterval))
	}
	if c.Spawner.BoidsToSpawn < 0 {
		errs = append(errs, fmt.Errorf("spawner.boids_to_spawn must be >= 0, got %d", c.Spawner.BoidsToSpawn))
	}
	if c.Spawner.Interval < 0 {
		errs = append(errs, fmt.Errorf("spawner.interval must be >= 0, got %v", c.Spawner.Interval))
	}
	if c.Sim.DT <= 0 {
		errs = append(errs, fmt.Errorf("sim.dt must be > 0, got %v", c.Sim.DT))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Sim.DT)
	c.Derived.StatsWindowT = int32(c.Telemetry.StatsWindow / c.Sim.DT)
	if c.Derived.StatsWindowT < 1 {
		c.Derived.StatsWindowT = 1
	}
	if c.Pipeline.BatchSize <= 0 {
		c.Pipeline.BatchSize = 10
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
