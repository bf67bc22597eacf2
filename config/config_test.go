package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Boid.CellSize <= 0 {
		t.Errorf("default cell_size = %d, want > 0", cfg.Boid.CellSize)
	}
	if cfg.Boid.MaxSpeed <= 0 {
		t.Errorf("default max_speed = %v, want > 0", cfg.Boid.MaxSpeed)
	}
	if cfg.Pipeline.BatchSize != 10 {
		t.Errorf("default batch_size = %d, want 10", cfg.Pipeline.BatchSize)
	}
	if cfg.Derived.DT32 <= 0 {
		t.Error("expected derived DT32 to be populated")
	}
	if cfg.Derived.StatsWindowT < 1 {
		t.Errorf("StatsWindowT = %d, want >= 1", cfg.Derived.StatsWindowT)
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "boid:\n  cell_size: 3\n  target: {x: 1, y: 2, z: 3}\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Boid.CellSize != 3 {
		t.Errorf("cell_size = %d, want 3", cfg.Boid.CellSize)
	}
	if got := cfg.Boid.Target.Vec(); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("target = %v, want (1,2,3)", got)
	}
	// Untouched keys keep their defaults
	if cfg.Boid.MaxSpeed != 6.0 {
		t.Errorf("max_speed = %v, want default 6.0", cfg.Boid.MaxSpeed)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults valid", func(c *Config) {}, ""},
		{"zero speed", func(c *Config) { c.Boid.MaxSpeed = 0 }, "max_speed"},
		{"zero cell size", func(c *Config) { c.Boid.CellSize = 0 }, "cell_size"},
		{"negative bias", func(c *Config) { c.Boid.TargetBias = -1 }, "target_bias"},
		{"zero dt", func(c *Config) { c.Sim.DT = 0 }, "sim.dt"},
		{"negative burst", func(c *Config) { c.Spawner.BoidsPerInterval = -5 }, "boids_per_interval"},
		{"negative cap", func(c *Config) { c.Spawner.BoidsToSpawn = -1 }, "boids_to_spawn"},
		{"empty flock", func(c *Config) { c.Spawner.BoidsToSpawn = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Boid.PerceptionRadius = 7.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if loaded.Boid.PerceptionRadius != 7.5 {
		t.Errorf("perception_radius = %v, want 7.5", loaded.Boid.PerceptionRadius)
	}
}
