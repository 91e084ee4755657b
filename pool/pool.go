// Package pool runs engine chunks on a fixed set of long-lived worker
// goroutines.
//
// Each worker owns an unbuffered start channel and an unbuffered done
// channel. A submission hands one job to each participating worker and then
// waits for every one of them to report back, so Run is a full fan-out/fan-in
// barrier. Closing a start channel is the shutdown sentinel.
package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-tensor/internal/cpu"
)

var (
	// ErrClosed reports use of a pool after Close or Shutdown.
	ErrClosed = errors.New("pool: closed")

	// ErrTooManyJobs reports a submission larger than the pool.
	ErrTooManyJobs = errors.New("pool: more jobs than workers")

	// ErrJobPanicked wraps a panic raised inside a job.
	ErrJobPanicked = errors.New("pool: job panicked")
)

// Job is one unit of work handed to a worker.
type Job func() error

// Option configures a Pool.
type Option func(*config)

type config struct {
	workers int
}

func defaultConfig() config {
	return config{workers: cpu.LogicalCPUs()}
}

// WithWorkers sets the number of workers. Non-positive values keep the
// logical CPU count.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

type worker struct {
	start chan Job
	done  chan error
}

func (w *worker) loop(wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range w.start {
		w.done <- runJob(job)
	}
}

func runJob(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return job()
}

// Pool is a fixed set of workers. Submissions are serialised: one Run is in
// flight at a time.
type Pool struct {
	mu      sync.Mutex
	workers []*worker
	wg      sync.WaitGroup
	closed  bool
}

// New starts the workers.
func New(opts ...Option) *Pool {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := &Pool{workers: make([]*worker, cfg.workers)}
	p.wg.Add(cfg.workers)
	for i := range p.workers {
		w := &worker{start: make(chan Job), done: make(chan error)}
		p.workers[i] = w
		go w.loop(&p.wg)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Run hands jobs[i] to worker i and blocks until all of them finish. The
// returned slice holds each job's error; the second result reports a
// submission failure (closed pool, too many jobs).
func (p *Pool) Run(jobs []Job) ([]error, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if len(jobs) > len(p.workers) {
		return nil, fmt.Errorf("%w: %d jobs, %d workers", ErrTooManyJobs, len(jobs), len(p.workers))
	}

	for i, job := range jobs {
		p.workers[i].start <- job
	}
	errs := make([]error, len(jobs))
	for i := range jobs {
		errs[i] = <-p.workers[i].done
	}
	return errs, nil
}

// Close stops every worker and waits for them to exit. A second Close
// returns ErrClosed.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	p.closed = true
	for _, w := range p.workers {
		close(w.start)
	}
	p.wg.Wait()
	return nil
}
