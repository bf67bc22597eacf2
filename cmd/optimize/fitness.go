package main

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/game"
	"github.com/pthm-cable/flock/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
	failedRuns  int     // runs that could not start, scored as zero quality
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 2.0,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// FailedRuns returns the number of simulation runs that failed to start.
func (fe *FitnessEvaluator) FailedRuns() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.failedRuns
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean flock quality over all seeds; a run that
// fails to start is logged and scores zero.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows, err := fe.runSimulation(x, s)
			if err != nil {
				slog.Error("simulation run failed", "seed", s, "params", x, "error", err)
				fe.mu.Lock()
				fe.failedRuns++
				fe.mu.Unlock()
				return
			}
			results[idx] = fe.computeQuality(windows, fe.initialTargetDist())
		}(i, seed)
	}
	wg.Wait()

	quality := stat.Mean(results, nil)
	fitness := -quality

	fe.mu.Lock()
	fe.bestFitness = min(fe.bestFitness, fitness)
	fe.lastQuality = quality
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) ([]telemetry.WindowStats, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	// Seeds already run in parallel
	cfg.Pipeline.Workers = 1

	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows, nil
}

// copyConfig returns a private copy of the base config. Config holds no
// pointers, so a value copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// initialTargetDist is the distance every agent starts from its target.
func (fe *FitnessEvaluator) initialTargetDist() float64 {
	d := fe.baseConfig.Boid.Target.Vec().Sub(fe.baseConfig.Spawner.Origin.Vec()).Len()
	return max(float64(d), 1)
}

// Quality component weights.
const (
	qualityWeightCohesion = 0.30
	qualityWeightSpacing  = 0.25
	qualityWeightTarget   = 0.25
	qualityWeightSpeed    = 0.20

	qualityWarmupWindows = 2 // skip first N windows (spawning)
	qualityMinAgents     = 3 // exclude windows with fewer agents than this

	// Neighbor count that reads as a flock rather than a clump or a cloud
	idealNeighbors = 6.0
)

// computeQuality computes flock quality in [0, 1] from window stats.
// targetDist normalizes the mean distance to the seek target.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats, targetDist float64) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var cohesion, spacing, target, speed []float64
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Agents < qualityMinAgents {
			continue
		}

		// 1. Few isolated agents
		cohesion = append(cohesion, 1-w.IsolatedFrac)

		// 2. Neighborhoods near the ideal size
		logErr := math.Log((w.MeanNeighbors + 1) / (idealNeighbors + 1))
		spacing = append(spacing, math.Exp(-logErr*logErr))

		// 3. Progress toward the target
		target = append(target, math.Exp(-w.TargetDistMean/targetDist))

		// 4. Uniform speeds
		if w.SpeedMean > 0 {
			cv := w.SpeedStd / w.SpeedMean
			speed = append(speed, math.Exp(-cv*cv))
		}
	}

	if len(cohesion) == 0 {
		return 0
	}

	quality := qualityWeightCohesion*stat.Mean(cohesion, nil) +
		qualityWeightSpacing*stat.Mean(spacing, nil) +
		qualityWeightTarget*stat.Mean(target, nil)
	if len(speed) > 0 {
		quality += qualityWeightSpeed * stat.Mean(speed, nil)
	}

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
