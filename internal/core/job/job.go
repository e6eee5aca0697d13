// Package job fans a system's work out over a fixed worker pool. Each call to
// Run is a full barrier: it returns only after every worker has finished.
package job

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Func processes the half-open range [lo, hi) on behalf of worker.
type Func func(worker, lo, hi int) error

// Executor partitions n items and runs fn over each partition.
type Executor interface {
	Workers() int
	Run(n int, fn Func) error
}

// Sequential runs every partition on the calling goroutine as worker 0.
type Sequential struct{}

func (Sequential) Workers() int { return 1 }

func (Sequential) Run(n int, fn Func) error {
	if n <= 0 {
		return nil
	}
	return fn(0, 0, n)
}

// Parallel splits n items into contiguous chunks of ceil(n/workers), one per
// goroutine. Worker w always owns the w-th chunk.
type Parallel struct {
	workers int
}

// NewParallel creates a pool of the given size; workers <= 0 means GOMAXPROCS.
func NewParallel(workers int) *Parallel {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Parallel{workers: workers}
}

func (p *Parallel) Workers() int { return p.workers }

func (p *Parallel) Run(n int, fn Func) error {
	if n <= 0 {
		return nil
	}
	chunk := (n + p.workers - 1) / p.workers
	var g errgroup.Group
	for w := 0; w < p.workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return fn(w, lo, hi)
		})
	}
	return g.Wait()
}

// New returns Sequential for a single worker and Parallel otherwise.
func New(workers int) Executor {
	if workers == 1 {
		return Sequential{}
	}
	return NewParallel(workers)
}
