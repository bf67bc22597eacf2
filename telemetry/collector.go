package telemetry

// Collector accumulates per-tick counters within time windows and produces WindowStats.
// Windows are counted in ticks of the nominal dt; simulated time is the sum of
// the dt each tick actually ran with.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32
	windowStartTime float64
	simTime         float64

	// Counters for current window
	spawned         int
	velocityHeld    int
	orientationHeld int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: nominal seconds per tick (used to size the window in ticks)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
	}
}

// RecordTick adds the dt one tick was simulated with.
func (c *Collector) RecordTick(dt float32) {
	c.simTime += float64(dt)
}

// RecordSpawned records n agents added this tick.
func (c *Collector) RecordSpawned(n int) {
	c.spawned += n
}

// RecordHeld records agents whose velocity or orientation was left unchanged.
func (c *Collector) RecordHeld(velocity, orientation int) {
	c.velocityHeld += velocity
	c.orientationHeld += orientation
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// FlockSample is the state of the flock at the end of a window.
type FlockSample struct {
	Speeds          []float64 // |velocity| per agent
	TargetDistances []float64 // |target - position| per agent

	// From the last pipeline tick
	Entries   int
	Buckets   int
	MaxBucket int // snapshots in the fullest bucket
	Updated   int
	Neighbors int
	Isolated  int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample FlockSample) WindowStats {
	speed := ComputeDistribution(sample.Speeds)
	target := ComputeDistribution(sample.TargetDistances)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      c.simTime,
		WindowSec:       c.simTime - c.windowStartTime,

		Agents:  len(sample.Speeds),
		Spawned: c.spawned,

		Buckets:       sample.Buckets,
		MaxBucketSize: sample.MaxBucket,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP10:  speed.P10,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,

		TargetDistMean: target.Mean,
		TargetDistP50:  target.P50,

		VelocityHeld:    c.velocityHeld,
		OrientationHeld: c.orientationHeld,
	}
	if sample.Buckets > 0 {
		stats.MeanBucketSize = float64(sample.Entries) / float64(sample.Buckets)
	}
	if sample.Updated > 0 {
		stats.MeanNeighbors = float64(sample.Neighbors) / float64(sample.Updated)
		stats.IsolatedFrac = float64(sample.Isolated) / float64(sample.Updated)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartTime = c.simTime
	c.spawned = 0
	c.velocityHeld = 0
	c.orientationHeld = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
