package game

import (
	"log/slog"

	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and emits it.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleFlock())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleFlock collects per-agent speeds and target distances from the view,
// and bucket occupancy from the grid the last tick built.
func (g *Game) sampleFlock() telemetry.FlockSample {
	n := g.view.Len()
	sample := telemetry.FlockSample{
		Speeds:          make([]float64, n),
		TargetDistances: make([]float64, n),
		Entries:         g.lastTick.Entries,
		Buckets:         g.lastTick.Buckets,
		Updated:         g.lastTick.Agents,
		Neighbors:       g.lastTick.Neighbors,
		Isolated:        g.lastTick.Isolated,
	}

	g.pipeline.Grid().ForEach(func(_ int32, bucket []systems.Snapshot) {
		sample.MaxBucket = max(sample.MaxBucket, len(bucket))
	})

	for i := 0; i < n; i++ {
		b := &g.view.Boids[i]
		sample.Speeds[i] = float64(b.Velocity.Len())
		sample.TargetDistances[i] = float64(b.Target.Sub(g.view.Positions[i]).Len())
	}

	return sample
}
