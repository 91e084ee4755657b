package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-tensor/internal/cpu"
	"github.com/cwbudde/algo-tensor/internal/logging"
	"github.com/cwbudde/algo-tensor/internal/vecmath"
	"github.com/cwbudde/algo-tensor/internal/vecmath/registry"
	"github.com/cwbudde/algo-tensor/pool"
	"github.com/cwbudde/algo-tensor/tensor"
)

// TaskResult is the outcome of Execute. Scalar holds the result of Reduce
// and Dot tasks. On failure the output buffer contents are unspecified.
type TaskResult struct {
	Success bool
	Scalar  tensor.Value
	Err     error
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	threshold int
	pool      *pool.Pool
	generic   bool
}

func defaultConfig() config {
	return config{threshold: DefaultThreshold}
}

// WithThreshold sets the Auto cut-over. Negative values are ignored.
func WithThreshold(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.threshold = n
		}
	}
}

// WithPool runs multi-threaded tasks on p instead of the process-wide pool.
func WithPool(p *pool.Pool) Option {
	return func(c *config) {
		if p != nil {
			c.pool = p
		}
	}
}

// WithGenericKernels disables the batched kernels.
func WithGenericKernels() Option {
	return func(c *config) {
		c.generic = true
	}
}

// Engine executes tasks. It holds no per-task state; one Engine may be
// shared, but multi-threaded tasks on the same pool run one at a time.
type Engine struct {
	threshold int
	pool      *pool.Pool
	kernels   registry.OpEntry
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	e := &Engine{threshold: cfg.threshold, pool: cfg.pool}
	if cfg.generic {
		e.kernels = vecmath.For(cpu.Features{ForceGeneric: true})
	} else {
		e.kernels = vecmath.Selected()
	}
	return e
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns a shared Engine with default options.
func Default() *Engine {
	defaultEngineOnce.Do(func() { defaultEngine = New() })
	return defaultEngine
}

// Execute runs t on the default engine.
func Execute(t *Task, mode Mode) TaskResult {
	return Default().Execute(t, mode)
}

// Threshold returns the Auto cut-over.
func (e *Engine) Threshold() int { return e.threshold }

// KernelName returns the name of the selected kernel set.
func (e *Engine) KernelName() string { return e.kernels.Name }

// Lanes returns the batch width of the selected kernel set.
func (e *Engine) Lanes() int { return e.kernels.Lanes }

// Workers returns the pool the engine dispatches to, starting the
// process-wide pool if none was configured.
func (e *Engine) Workers() *pool.Pool {
	if e.pool != nil {
		return e.pool
	}
	return pool.Default()
}

// Execute runs t. A nil task is a programmer error and is fatal.
func (e *Engine) Execute(t *Task, mode Mode) TaskResult {
	logging.NotNil(t, "engine task")

	if t.data == TensorData {
		logging.Logger().Error("engine: tensor task rejected", "op", t.op)
		return TaskResult{Err: ErrTensorUnsupported}
	}
	if err := t.validate(); err != nil {
		return TaskResult{Err: err}
	}

	var (
		scalar tensor.Value
		err    error
	)
	switch e.resolve(mode, t.count) {
	case SingleThread:
		scalar, err = e.run(t, 0, t.count)
		if err == nil {
			scalar, err = t.finish([]tensor.Value{scalar})
		}
	case MultiThread:
		scalar, err = e.runParallel(t)
	default:
		err = fmt.Errorf("%w: mode %s", ErrInvalidTask, mode)
	}
	if err != nil {
		return TaskResult{Err: err}
	}
	return TaskResult{Success: true, Scalar: scalar}
}

// resolve turns Auto into a concrete mode.
func (e *Engine) resolve(mode Mode, count int) Mode {
	if mode != Auto {
		return mode
	}
	if count > e.threshold {
		return MultiThread
	}
	return SingleThread
}

// partition splits [0, count) into min(workers, count) contiguous chunks.
// Every chunk gets count/n elements and the last one also takes the
// remainder.
func partition(count, workers int) [][2]int {
	n := min(workers, count)
	if n <= 0 {
		return nil
	}
	chunk := count / n
	out := make([][2]int, n)
	for i := range out {
		lo := i * chunk
		hi := lo + chunk
		if i == n-1 {
			hi = count
		}
		out[i] = [2]int{lo, hi}
	}
	return out
}

func (e *Engine) runParallel(t *Task) (tensor.Value, error) {
	p := e.Workers()
	chunks := partition(t.count, p.Size())
	if len(chunks) == 0 {
		v, err := e.run(t, 0, 0)
		if err != nil {
			return tensor.Value{}, err
		}
		return t.finish([]tensor.Value{v})
	}

	n := len(chunks)
	partials := make([]tensor.Value, n)
	jobs := make([]pool.Job, n)
	for i, c := range chunks {
		lo, hi := c[0], c[1]
		jobs[i] = func() error {
			v, err := e.run(t, lo, hi)
			partials[i] = v
			return err
		}
	}

	errs, err := p.Run(jobs)
	if err != nil {
		logging.Logger().Error("engine: submission failed", "op", t.op, "error", err)
		return tensor.Value{}, fmt.Errorf("%w: %w", ErrWorkerFailed, err)
	}

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != n {
		logging.Logger().Error("engine: task failed", "op", t.op, "chunks", n, "succeeded", succeeded)
		return tensor.Value{}, fmt.Errorf("%w: %d of %d chunks failed: %w",
			ErrWorkerFailed, n-succeeded, n, errors.Join(errs...))
	}
	return t.finish(partials)
}

// finish combines per-chunk results into the task's scalar.
func (t *Task) finish(partials []tensor.Value) (tensor.Value, error) {
	switch t.op {
	case Reduce:
		acc := partials[0]
		for _, v := range partials[1:] {
			var err error
			if acc, err = apply2(t.fn.(Binary).Fn, acc, v, t.a.Type()); err != nil {
				return tensor.Value{}, err
			}
		}
		return acc, nil
	case Dot:
		acc := t.seed
		for _, v := range partials {
			var err error
			if acc, err = apply2(t.acc.Fn, acc, v, t.a.Type()); err != nil {
				return tensor.Value{}, err
			}
		}
		return acc, nil
	default:
		return tensor.Value{}, nil
	}
}

func apply2(fn func(a, b tensor.Value) tensor.Value, a, b tensor.Value, typ tensor.ElementType) (tensor.Value, error) {
	r := fn(a, b)
	if r.Type() != typ {
		return tensor.Value{}, fmt.Errorf("%w: got %s, want %s", ErrBadResult, r.Type(), typ)
	}
	return r, nil
}
