package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseBucketing)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseFlocking)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseBucketing]; !ok {
		t.Error("expected bucketing phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseFlocking]; !ok {
		t.Error("expected flocking phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseBucketing)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Uneven phase durations, recorded directly so timer resolution cannot
	// flatten them
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.RecordPhase(PhaseGather, 10*time.Microsecond)
		pc.RecordPhase(PhaseFlocking, 500*time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct[PhaseGather]
	slowPct := stats.PhasePct[PhaseFlocking]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
	if ratio := slowPct / fastPct; ratio < 49.9 || ratio > 50.1 {
		t.Errorf("expected slow/fast share ratio 50, got %v", ratio)
	}
	if total := slowPct + fastPct; total > 100.001 {
		t.Errorf("phase shares sum to %v%%, want <= 100", total)
	}
}

func TestPerfCollector_RecordPhase(t *testing.T) {
	pc := NewPerfCollector(4)

	for i := 0; i < 4; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseGather)
		pc.EndPhase()
		pc.RecordPhase(PhaseBucketing, 2*time.Millisecond)
		pc.RecordPhase(PhaseFlocking, 6*time.Millisecond)
		pc.StartPhase(PhaseApply)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhaseAvg[PhaseBucketing] != 2*time.Millisecond {
		t.Errorf("bucketing avg = %v, want 2ms", stats.PhaseAvg[PhaseBucketing])
	}
	if stats.PhaseAvg[PhaseFlocking] != 6*time.Millisecond {
		t.Errorf("flocking avg = %v, want 6ms", stats.PhaseAvg[PhaseFlocking])
	}
	if _, ok := stats.PhaseAvg[PhaseApply]; !ok {
		t.Error("expected apply phase to be tracked after EndPhase")
	}

	csv := stats.ToCSV(100)
	if csv.WindowEnd != 100 || csv.FlockingPct != stats.PhasePct[PhaseFlocking] {
		t.Errorf("ToCSV = %+v, want window 100 and matching flocking pct", csv)
	}
}

func TestPerfCollector_IgnoresUnknownPhase(t *testing.T) {
	pc := NewPerfCollector(2)

	pc.StartTick()
	pc.StartPhase("resources")
	pc.RecordPhase("resources", time.Millisecond)
	pc.StartPhase(PhaseSpawn)
	pc.EndTick()

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["resources"]; ok {
		t.Error("unknown phase should not be reported")
	}
	if _, ok := stats.PhaseAvg[PhaseSpawn]; !ok {
		t.Error("expected spawn phase after an unknown one")
	}
	if _, ok := stats.PhaseAvg[PhaseGather]; ok {
		t.Error("untimed phase should be absent")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}
