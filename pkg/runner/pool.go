package runner

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool validates independent jobs in parallel. Each comparison is a
// single sequential pass; the pool only parallelizes across jobs.
type Pool struct {
	NumWorkers int
	ran        atomic.Int64
	diverged   atomic.Int64
}

// NewPool creates a pool with the given number of workers.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers}
}

// Stats returns run counters.
func (p *Pool) Stats() (ran, diverged int64) {
	return p.ran.Load(), p.diverged.Load()
}

// Run executes all jobs and returns their results in job order.
func (p *Pool) Run(jobs []Job) []Result {
	ch := make(chan int, len(jobs))
	for idx := range jobs {
		ch <- idx
	}
	close(ch)

	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for w := 0; w < p.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range ch {
				res := RunJob(jobs[idx])
				p.ran.Add(1)
				if res.Divergence != nil {
					p.diverged.Add(1)
				}
				results[idx] = res
			}
		}()
	}
	wg.Wait()

	return results
}
