package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/telemetry"
)

func TestParamVector_NormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestParamVector_ApplyClamps(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()
	pv.ApplyToConfig(cfg, []float64{-1, 10, 2, 3, 0.5})

	got := pv.ExtractFromConfig(cfg)
	want := []float64{0, 5, 2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestParamVector_DefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()
	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: config has %v, param default %v", spec.Name, got[i], spec.Default)
		}
	}
}

func TestComputeQuality(t *testing.T) {
	fe := &FitnessEvaluator{}

	ideal := telemetry.WindowStats{
		Agents:         100,
		MeanNeighbors:  idealNeighbors,
		IsolatedFrac:   0,
		TargetDistMean: 0,
		SpeedMean:      6,
		SpeedStd:       0,
	}
	poor := telemetry.WindowStats{
		Agents:         100,
		MeanNeighbors:  0,
		IsolatedFrac:   1,
		TargetDistMean: 500,
		SpeedMean:      6,
		SpeedStd:       6,
	}

	warmup := make([]telemetry.WindowStats, qualityWarmupWindows)
	if q := fe.computeQuality(warmup, 50); q != 0 {
		t.Errorf("warmup only: got %v, want 0", q)
	}

	good := fe.computeQuality(append(warmup, ideal, ideal), 50)
	if math.Abs(good-1) > 1e-9 {
		t.Errorf("ideal flock: got %v, want 1", good)
	}

	bad := fe.computeQuality(append(warmup, poor, poor), 50)
	if bad >= good || bad < 0 {
		t.Errorf("poor flock: got %v, want in [0, %v)", bad, good)
	}

	// Windows with too few agents are ignored
	tiny := ideal
	tiny.Agents = qualityMinAgents - 1
	if q := fe.computeQuality(append(warmup, tiny), 50); q != 0 {
		t.Errorf("tiny flock: got %v, want 0", q)
	}
}

func TestEvaluate_FailedRunScoresZero(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Not touched by the parameter vector, so every run fails to start
	cfg.Boid.CellSize = 0

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 10, []int64{1, 2}, cfg)

	if _, err := fe.runSimulation(pv.DefaultVector(), 1); err == nil {
		t.Fatal("runSimulation: expected error for invalid config")
	}

	if fitness := fe.Evaluate(pv.DefaultVector()); fitness != 0 {
		t.Errorf("fitness = %v, want 0", fitness)
	}
	if got := fe.FailedRuns(); got != 2 {
		t.Errorf("FailedRuns = %d, want 2", got)
	}
}
