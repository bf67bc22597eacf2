package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step. IDs match systems.SystemRegistry.
const (
	PhaseSpawn     = "spawn"
	PhaseGather    = "gather"
	PhaseBucketing = "bucketing"
	PhaseFlocking  = "flocking"
	PhaseApply     = "apply"
	PhaseTelemetry = "telemetry"
)

// phaseOrder is the order phases are reported in. A tick sample keeps one
// duration per entry.
var phaseOrder = [...]string{
	PhaseSpawn, PhaseGather, PhaseBucketing, PhaseFlocking, PhaseApply, PhaseTelemetry,
}

const numPhases = len(phaseOrder)

// phaseIndex returns the slot of phase, or -1 for names outside phaseOrder.
func phaseIndex(phase string) int {
	for i, p := range phaseOrder {
		if p == phase {
			return i
		}
	}
	return -1
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       [numPhases]time.Duration

	timed uint8 // bit i set when phase i was timed this tick
}

// PerfCollector tracks tick and phase timings over a rolling window of ticks.
// Unknown phase names are ignored.
type PerfCollector struct {
	samples     []PerfSample // ring buffer
	writeIndex  int
	sampleCount int

	current    PerfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // -1 = no open phase

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 if windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		samples: make([]PerfSample, windowSize),
		phase:   -1,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = PerfSample{}
	p.phase = -1
}

// StartPhase closes the open phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phaseIndex(phase)
}

// EndPhase stops timing the current phase without starting another.
func (p *PerfCollector) EndPhase() {
	p.closePhase(time.Now())
	p.phase = -1
}

// RecordPhase adds a duration measured elsewhere to the current tick.
// Used for the pipeline passes, which time themselves.
func (p *PerfCollector) RecordPhase(phase string, d time.Duration) {
	if i := phaseIndex(phase); i >= 0 {
		p.current.Phases[i] += d
		p.current.timed |= 1 << i
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
		p.current.timed |= 1 << p.phase
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.current.TickDuration = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	p.sampleCount = min(p.sampleCount+1, len(p.samples))
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of the average tick, keyed by phase name.
	// Shares are of the larger of the tick and the summed phases. Phases
	// never timed in the window are absent.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, numPhases),
		PhasePct:      make(map[string]float64, numPhases),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	var timed uint8
	for i, s := range p.samples[:p.sampleCount] {
		total += s.TickDuration
		if i == 0 || s.TickDuration < stats.MinTickDuration {
			stats.MinTickDuration = s.TickDuration
		}
		stats.MaxTickDuration = max(stats.MaxTickDuration, s.TickDuration)

		for j, d := range s.Phases {
			phaseSum[j] += d
		}
		timed |= s.timed
	}

	n := time.Duration(p.sampleCount)
	stats.AvgTickDuration = total / n
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}

	// Recorded phases can add up to more than the measured tick
	var phaseTotal time.Duration
	for j := range phaseOrder {
		if timed&(1<<j) != 0 {
			phaseTotal += phaseSum[j] / n
		}
	}
	span := max(stats.AvgTickDuration, phaseTotal)

	for j, name := range phaseOrder {
		if timed&(1<<j) == 0 {
			continue
		}
		avg := phaseSum[j] / n
		stats.PhaseAvg[name] = avg
		if span > 0 {
			stats.PhasePct[name] = float64(avg) / float64(span) * 100
		}
	}

	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SpawnPct     float64 `csv:"spawn_pct"`
	GatherPct    float64 `csv:"gather_pct"`
	BucketingPct float64 `csv:"bucketing_pct"`
	FlockingPct  float64 `csv:"flocking_pct"`
	ApplyPct     float64 `csv:"apply_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SpawnPct:     s.PhasePct[PhaseSpawn],
		GatherPct:    s.PhasePct[PhaseGather],
		BucketingPct: s.PhasePct[PhaseBucketing],
		FlockingPct:  s.PhasePct[PhaseFlocking],
		ApplyPct:     s.PhasePct[PhaseApply],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
