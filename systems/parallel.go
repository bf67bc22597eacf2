package systems

import (
	"runtime"
	"sync"
)

// chunkFunc processes agents [lo, hi) on the given worker.
type chunkFunc func(lo, hi, worker int)

// workChunk represents a range of agents for a worker to process.
type workChunk struct {
	start, end int
	fn         chunkFunc
	wg         *sync.WaitGroup
}

// workerPool runs chunk functions on persistent goroutines.
type workerPool struct {
	numWorkers int

	workChan chan workChunk // sends work to workers
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: numWorkers}
}

// start launches persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *workerPool) worker(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end, workerID)
			chunk.wg.Done()
		}
	}
}

// parallelFor splits [0, n) into chunks of batch agents, runs fn over every
// chunk and returns once all of them have finished.
func (p *workerPool) parallelFor(n, batch int, fn chunkFunc) {
	if !p.running {
		p.start()
	}
	if batch < 1 {
		batch = 1
	}

	var done sync.WaitGroup
	done.Add((n + batch - 1) / batch)
	for start := 0; start < n; start += batch {
		end := min(start+batch, n)
		p.workChan <- workChunk{start: start, end: end, fn: fn, wg: &done}
	}
	done.Wait()
}
