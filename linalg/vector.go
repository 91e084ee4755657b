package linalg

import (
	"fmt"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/engine"
	"github.com/cwbudde/algo-tensor/tensor"
)

func (w *Workspace) elementWise(a, b *tensor.Vector, fn engine.Binary, alloc arena.Allocator) (*tensor.Vector, error) {
	if err := tensor.SameShape(a, b); err != nil {
		return nil, err
	}
	return w.into(a, alloc, func(out *tensor.Vector) *engine.Task {
		return engine.NewElementWise(a, b, out, fn)
	})
}

func (w *Workspace) elementWiseInPlace(a, b *tensor.Vector, fn engine.Binary) (*tensor.Vector, error) {
	if err := tensor.SameShape(a, b); err != nil {
		return nil, err
	}
	return w.inPlace(a, func(out *tensor.Vector) *engine.Task {
		return engine.NewElementWise(a, b, out, fn)
	})
}

func checkScalar(a *tensor.Vector, s tensor.Value) error {
	if a.Type() != s.Type() {
		return fmt.Errorf("%w: vector is %s, scalar is %s", tensor.ErrTypeMismatch, a.Type(), s.Type())
	}
	return nil
}

func (w *Workspace) scalar(a *tensor.Vector, s tensor.Value, fn engine.Binary, alloc arena.Allocator) (*tensor.Vector, error) {
	if err := checkScalar(a, s); err != nil {
		return nil, err
	}
	return w.into(a, alloc, func(out *tensor.Vector) *engine.Task {
		return engine.NewScalarBroadcast(a, s, out, fn)
	})
}

func (w *Workspace) scalarInPlace(a *tensor.Vector, s tensor.Value, fn engine.Binary) (*tensor.Vector, error) {
	if err := checkScalar(a, s); err != nil {
		return nil, err
	}
	return w.inPlace(a, func(out *tensor.Vector) *engine.Task {
		return engine.NewScalarBroadcast(a, s, out, fn)
	})
}

// Add returns a + b element-wise.
func (w *Workspace) Add(a, b *tensor.Vector, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.elementWise(a, b, AddOp, alloc)
}

// AddInPlace stores a + b into a and returns a.
func (w *Workspace) AddInPlace(a, b *tensor.Vector) (*tensor.Vector, error) {
	return w.elementWiseInPlace(a, b, AddOp)
}

// Sub returns a - b element-wise.
func (w *Workspace) Sub(a, b *tensor.Vector, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.elementWise(a, b, SubOp, alloc)
}

// SubInPlace stores a - b into a.
func (w *Workspace) SubInPlace(a, b *tensor.Vector) (*tensor.Vector, error) {
	return w.elementWiseInPlace(a, b, SubOp)
}

// MulElementWise returns the Hadamard product of a and b.
func (w *Workspace) MulElementWise(a, b *tensor.Vector, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.elementWise(a, b, MulOp, alloc)
}

// MulElementWiseInPlace stores a * b into a.
func (w *Workspace) MulElementWiseInPlace(a, b *tensor.Vector) (*tensor.Vector, error) {
	return w.elementWiseInPlace(a, b, MulOp)
}

// DivElementWise returns a / b element-wise.
func (w *Workspace) DivElementWise(a, b *tensor.Vector, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.elementWise(a, b, DivOp, alloc)
}

// DivElementWiseInPlace stores a / b into a.
func (w *Workspace) DivElementWiseInPlace(a, b *tensor.Vector) (*tensor.Vector, error) {
	return w.elementWiseInPlace(a, b, DivOp)
}

// AddScalar returns a[i] + s.
func (w *Workspace) AddScalar(a *tensor.Vector, s tensor.Value, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.scalar(a, s, AddOp, alloc)
}

// AddScalarInPlace stores a[i] + s into a.
func (w *Workspace) AddScalarInPlace(a *tensor.Vector, s tensor.Value) (*tensor.Vector, error) {
	return w.scalarInPlace(a, s, AddOp)
}

// SubScalar returns a[i] - s.
func (w *Workspace) SubScalar(a *tensor.Vector, s tensor.Value, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.scalar(a, s, SubOp, alloc)
}

// SubScalarInPlace stores a[i] - s into a.
func (w *Workspace) SubScalarInPlace(a *tensor.Vector, s tensor.Value) (*tensor.Vector, error) {
	return w.scalarInPlace(a, s, SubOp)
}

// MulScalar returns a[i] * s.
func (w *Workspace) MulScalar(a *tensor.Vector, s tensor.Value, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.scalar(a, s, MulOp, alloc)
}

// MulScalarInPlace stores a[i] * s into a.
func (w *Workspace) MulScalarInPlace(a *tensor.Vector, s tensor.Value) (*tensor.Vector, error) {
	return w.scalarInPlace(a, s, MulOp)
}

// DivScalar returns a[i] / s.
func (w *Workspace) DivScalar(a *tensor.Vector, s tensor.Value, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.scalar(a, s, DivOp, alloc)
}

// DivScalarInPlace stores a[i] / s into a.
func (w *Workspace) DivScalarInPlace(a *tensor.Vector, s tensor.Value) (*tensor.Vector, error) {
	return w.scalarInPlace(a, s, DivOp)
}

// Map returns fn applied to every element of a.
func (w *Workspace) Map(a *tensor.Vector, fn engine.Unary, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.into(a, alloc, func(out *tensor.Vector) *engine.Task {
		return engine.NewMap(a, out, fn)
	})
}

// MapInPlace replaces every element of a with fn of it.
func (w *Workspace) MapInPlace(a *tensor.Vector, fn engine.Unary) (*tensor.Vector, error) {
	return w.inPlace(a, func(out *tensor.Vector) *engine.Task {
		return engine.NewMap(a, out, fn)
	})
}

// MapWithArg returns fn(a[i], arg) for every element.
func (w *Workspace) MapWithArg(a *tensor.Vector, fn engine.BinaryArg, arg any, alloc arena.Allocator) (*tensor.Vector, error) {
	return w.into(a, alloc, func(out *tensor.Vector) *engine.Task {
		return engine.NewMapWithArg(a, out, fn, arg)
	})
}

// MapWithArgInPlace replaces a[i] with fn(a[i], arg).
func (w *Workspace) MapWithArgInPlace(a *tensor.Vector, fn engine.BinaryArg, arg any) (*tensor.Vector, error) {
	return w.inPlace(a, func(out *tensor.Vector) *engine.Task {
		return engine.NewMapWithArg(a, out, fn, arg)
	})
}

// Reduce folds a with fn starting from initial. When the task runs
// multi-threaded each chunk starts from initial and the partials are folded
// with fn, so fn must be associative and initial its identity.
func (w *Workspace) Reduce(a *tensor.Vector, fn engine.Binary, initial tensor.Value) (tensor.Value, error) {
	if err := checkScalar(a, initial); err != nil {
		return tensor.Value{}, err
	}
	return w.execute(engine.NewReduce(a, initial, fn))
}
