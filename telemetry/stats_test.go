package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
		{"clamped high", []float64{1, 2, 3}, 1.5, 3.0},
		{"clamped low", []float64{1, 2, 3}, -1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", d.Mean)
	}
	// Sample standard deviation of 1..10
	if math.Abs(d.Std-3.02765) > 0.001 {
		t.Errorf("std = %v, want ~3.028", d.Std)
	}
	if d.P10 != 1 || d.P50 != 5 || d.P90 != 9 {
		t.Errorf("percentiles = %v/%v/%v, want 1/5/9", d.P10, d.P50, d.P90)
	}

	// Input must be left unsorted
	if values[0] != 10 || values[1] != 1 {
		t.Error("ComputeDistribution modified its input")
	}
}

func TestComputeDistributionSmall(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty input = %+v, want zero", d)
	}

	d := ComputeDistribution([]float64{4})
	if d.Mean != 4 || d.Std != 0 || d.P50 != 4 {
		t.Errorf("single value = %+v, want mean 4, std 0, p50 4", d)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(5.0, 0.5)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("WindowDurationTicks = %d, want 10", c.WindowDurationTicks())
	}
	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) = true before window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Error("ShouldFlush(10) = false after window elapsed")
	}

	for i := 0; i < 10; i++ {
		c.RecordTick(0.5)
	}
	c.RecordSpawned(50)
	c.RecordSpawned(25)
	c.RecordHeld(2, 3)
	c.RecordHeld(1, 0)

	stats := c.Flush(10, FlockSample{
		Speeds:          []float64{2, 2, 2, 2},
		TargetDistances: []float64{1, 2, 3, 4},
		Entries:         4,
		Buckets:         2,
		MaxBucket:       3,
		Updated:         4,
		Neighbors:       6,
		Isolated:        1,
	})

	if stats.Agents != 4 || stats.Spawned != 75 {
		t.Errorf("agents/spawned = %d/%d, want 4/75", stats.Agents, stats.Spawned)
	}
	if stats.VelocityHeld != 3 || stats.OrientationHeld != 3 {
		t.Errorf("held = %d/%d, want 3/3", stats.VelocityHeld, stats.OrientationHeld)
	}
	if stats.SpeedMean != 2 || stats.SpeedStd != 0 {
		t.Errorf("speed mean/std = %v/%v, want 2/0", stats.SpeedMean, stats.SpeedStd)
	}
	if stats.MeanBucketSize != 2 || stats.MaxBucketSize != 3 {
		t.Errorf("bucket size mean/max = %v/%d, want 2/3", stats.MeanBucketSize, stats.MaxBucketSize)
	}
	if stats.MeanNeighbors != 1.5 || stats.IsolatedFrac != 0.25 {
		t.Errorf("neighbors/isolated = %v/%v, want 1.5/0.25", stats.MeanNeighbors, stats.IsolatedFrac)
	}
	if stats.SimTimeSec != 5 || stats.WindowSec != 5 {
		t.Errorf("sim time/window = %v/%v, want 5/5", stats.SimTimeSec, stats.WindowSec)
	}

	// Counters reset and the window restarts at the flush tick
	if c.ShouldFlush(15) {
		t.Error("ShouldFlush(15) = true right after flush at 10")
	}
	next := c.Flush(20, FlockSample{})
	if next.Spawned != 0 || next.VelocityHeld != 0 || next.WindowStartTick != 10 {
		t.Errorf("second window = %+v, want reset counters starting at 10", next)
	}
}

func TestCollectorSimTimeFollowsTickDt(t *testing.T) {
	// Nominal dt sizes the window; the ticks themselves run shorter and longer
	c := NewCollector(1.0, 0.25)
	if c.WindowDurationTicks() != 4 {
		t.Fatalf("WindowDurationTicks = %d, want 4", c.WindowDurationTicks())
	}

	for _, dt := range []float32{0.5, 0.5, 0.125, 0.125} {
		c.RecordTick(dt)
	}
	first := c.Flush(4, FlockSample{})
	if first.SimTimeSec != 1.25 || first.WindowSec != 1.25 {
		t.Errorf("first window sim time/window = %v/%v, want 1.25/1.25", first.SimTimeSec, first.WindowSec)
	}

	for i := 0; i < 4; i++ {
		c.RecordTick(0.0625)
	}
	second := c.Flush(8, FlockSample{})
	if second.SimTimeSec != 1.5 || second.WindowSec != 0.25 {
		t.Errorf("second window sim time/window = %v/%v, want 1.5/0.25", second.SimTimeSec, second.WindowSec)
	}
}
