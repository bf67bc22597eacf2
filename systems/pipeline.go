package systems

import (
	"time"
)

// defaultParallelThreshold is the minimum agent count to use the worker pool.
// Below this, both passes run on the calling goroutine.
const defaultParallelThreshold = 64

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Workers           int // worker goroutines, 0 = GOMAXPROCS
	BatchSize         int // agents per chunk, 0 = 10
	Shards            int // spatial hash lock stripes, 0 = 4 per worker
	ParallelThreshold int // 0 = defaultParallelThreshold, < 0 always parallel
}

// TickStats summarizes one pipeline tick.
type TickStats struct {
	ChunkStats

	Entries   int // snapshots bucketed
	Buckets   int // distinct non-empty keys
	Bucketing time.Duration
	Flocking  time.Duration
}

// Pipeline owns the spatial hash and runs the bucketing and flocking passes
// over a population once per tick.
type Pipeline struct {
	grid      *SpatialHash
	pool      *workerPool
	batch     int
	threshold int

	// per-worker flocking counters, reset every tick
	counters []ChunkStats
}

// NewPipeline creates a pipeline. Workers start lazily on the first parallel tick.
func NewPipeline(opts PipelineOptions) *Pipeline {
	pool := newWorkerPool(opts.Workers)

	batch := opts.BatchSize
	if batch <= 0 {
		batch = 10
	}
	shards := opts.Shards
	if shards <= 0 {
		shards = 4 * pool.numWorkers
	}
	threshold := opts.ParallelThreshold
	if threshold == 0 {
		threshold = defaultParallelThreshold
	}

	return &Pipeline{
		grid:      NewSpatialHash(shards),
		pool:      pool,
		batch:     batch,
		threshold: threshold,
		counters:  make([]ChunkStats, pool.numWorkers),
	}
}

// Grid returns the spatial hash as populated by the last tick. It is
// read-only and valid until the next Tick or Close.
func (p *Pipeline) Grid() *SpatialHash {
	return p.grid
}

// Tick runs one bucketing and one flocking pass over agents. Flocking starts
// only after every bucketing chunk has finished. agents must not change
// length while Tick runs.
func (p *Pipeline) Tick(agents Agents, dt float32) TickStats {
	var stats TickStats
	n := agents.Len()

	p.grid.Clear()
	p.grid.Reserve(n)

	for i := range p.counters {
		p.counters[i] = ChunkStats{}
	}

	bucketStart := time.Now()
	p.run(n, func(lo, hi, _ int) {
		BucketRange(p.grid, agents, lo, hi)
	})
	stats.Bucketing = time.Since(bucketStart)

	flockStart := time.Now()
	p.run(n, func(lo, hi, worker int) {
		p.counters[worker].add(FlockRange(p.grid, agents, lo, hi, dt))
	})
	stats.Flocking = time.Since(flockStart)

	for i := range p.counters {
		stats.ChunkStats.add(p.counters[i])
	}
	stats.Entries = p.grid.Len()
	stats.Buckets = p.grid.BucketCount()

	return stats
}

// run executes fn over [0, n), inline for small populations.
func (p *Pipeline) run(n int, fn chunkFunc) {
	if n == 0 {
		return
	}
	if p.threshold > 0 && n < p.threshold {
		fn(0, n, 0)
		return
	}
	p.pool.parallelFor(n, p.batch, fn)
}

// Close stops the worker goroutines and releases the grid's storage.
// The pipeline can still be used afterwards; workers restart on demand.
func (p *Pipeline) Close() {
	p.pool.stop()
	p.grid = NewSpatialHash(len(p.grid.shards))
}
