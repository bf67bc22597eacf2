package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated flock statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	WindowSec       float64 `csv:"window_sec"` // simulated seconds covered by the window

	// Population at window end
	Agents  int `csv:"agents"`
	Spawned int `csv:"spawned"` // agents added during the window

	// Grid occupancy from the last tick
	Buckets        int     `csv:"buckets"`
	MeanBucketSize float64 `csv:"mean_bucket_size"`
	MaxBucketSize  int     `csv:"max_bucket_size"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Neighborhoods from the last tick
	MeanNeighbors float64 `csv:"mean_neighbors"`
	IsolatedFrac  float64 `csv:"isolated_frac"`

	// Distance to the seek target (sampled at window end)
	TargetDistMean float64 `csv:"target_dist_mean"`
	TargetDistP50  float64 `csv:"target_dist_p50"`

	// Degenerate updates summed over the window
	VelocityHeld    int `csv:"velocity_held"`
	OrientationHeld int `csv:"orientation_held"`
}

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile returns the empirical p-quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeDistribution calculates mean, sample standard deviation and
// percentiles. The input slice is not modified.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	d.Mean = stat.Mean(values, nil)
	if n > 1 {
		d.Std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("window_sec", s.WindowSec),
		slog.Int("agents", s.Agents),
		slog.Int("spawned", s.Spawned),
		slog.Int("buckets", s.Buckets),
		slog.Float64("mean_bucket_size", s.MeanBucketSize),
		slog.Int("max_bucket_size", s.MaxBucketSize),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("mean_neighbors", s.MeanNeighbors),
		slog.Float64("isolated_frac", s.IsolatedFrac),
		slog.Float64("target_dist_mean", s.TargetDistMean),
		slog.Float64("target_dist_p50", s.TargetDistP50),
		slog.Int("velocity_held", s.VelocityHeld),
		slog.Int("orientation_held", s.OrientationHeld),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.Agents,
		"spawned", s.Spawned,
		"buckets", s.Buckets,
		"mean_bucket_size", s.MeanBucketSize,
		"max_bucket_size", s.MaxBucketSize,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"mean_neighbors", s.MeanNeighbors,
		"isolated_frac", s.IsolatedFrac,
		"target_dist_mean", s.TargetDistMean,
		"velocity_held", s.VelocityHeld,
		"orientation_held", s.OrientationHeld,
	)
}
