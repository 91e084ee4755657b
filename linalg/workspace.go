package linalg

import (
	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/engine"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Option configures a Workspace.
type Option func(*config)

type config struct {
	engine          *engine.Engine
	scratch         *arena.Arena
	scratchCapacity int
	mode            engine.Mode
}

func defaultConfig() config {
	return config{scratchCapacity: arena.DefaultBlockCapacity, mode: engine.Auto}
}

// WithEngine runs operations on e instead of engine.Default().
func WithEngine(e *engine.Engine) Option {
	return func(c *config) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithScratch makes a the scratch arena. The workspace resets it after
// every in-place call, so nothing else may keep data in it. Close does not
// free a caller-supplied arena.
func WithScratch(a *arena.Arena) Option {
	return func(c *config) {
		if a != nil {
			c.scratch = a
		}
	}
}

// WithScratchCapacity sets the block capacity of the scratch arena the
// workspace creates for itself. Non-positive values are ignored.
func WithScratchCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.scratchCapacity = n
		}
	}
}

// WithMode sets the execution mode for every task. The default is Auto.
func WithMode(m engine.Mode) Option {
	return func(c *config) {
		c.mode = m
	}
}

// Workspace owns the engine handle and the scratch arena used by in-place
// operations and norm temporaries.
type Workspace struct {
	engine      *engine.Engine
	scratch     *arena.Arena
	capacity    int
	ownsScratch bool
	mode        engine.Mode
}

// NewWorkspace creates a Workspace. The scratch arena is created on first
// use unless one is supplied.
func NewWorkspace(opts ...Option) *Workspace {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.engine == nil {
		cfg.engine = engine.Default()
	}
	return &Workspace{
		engine:   cfg.engine,
		scratch:  cfg.scratch,
		capacity: cfg.scratchCapacity,
		mode:     cfg.mode,
	}
}

// Engine returns the engine the workspace dispatches to.
func (w *Workspace) Engine() *engine.Engine { return w.engine }

// Mode returns the execution mode.
func (w *Workspace) Mode() engine.Mode { return w.mode }

// Scratch returns the scratch arena, creating it if needed.
func (w *Workspace) Scratch() *arena.Arena {
	if w.scratch == nil {
		w.scratch = arena.New(arena.WithBlockCapacity(w.capacity))
		w.ownsScratch = true
	}
	return w.scratch
}

// Close frees a scratch arena the workspace created itself.
func (w *Workspace) Close() {
	if w.ownsScratch && w.scratch != nil {
		w.scratch.Free()
	}
	w.scratch = nil
	w.ownsScratch = false
}

func (w *Workspace) execute(t *engine.Task) (tensor.Value, error) {
	r := w.engine.Execute(t, w.mode)
	if !r.Success {
		return tensor.Value{}, r.Err
	}
	return r.Scalar, nil
}

// into allocates an output shaped like a and runs the task build returns.
func (w *Workspace) into(a *tensor.Vector, alloc arena.Allocator, build func(out *tensor.Vector) *engine.Task) (*tensor.Vector, error) {
	out, err := tensor.NewVector(a.Size(), a.Type(), alloc)
	if err != nil {
		return nil, err
	}
	if _, err := w.execute(build(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// inPlace computes into scratch and copies the result over a.
func (w *Workspace) inPlace(a *tensor.Vector, build func(out *tensor.Vector) *engine.Task) (*tensor.Vector, error) {
	s := w.Scratch()
	defer s.Reset()

	out, err := w.into(a, s, build)
	if err != nil {
		return nil, err
	}
	if err := a.CopyFrom(out); err != nil {
		return nil, err
	}
	return a, nil
}
