package engine

import (
	"fmt"

	"github.com/cwbudde/algo-tensor/tensor"
)

// Task describes one dispatch. Build it with the constructor for its
// OpKind; the zero Task is invalid.
type Task struct {
	data  DataKind
	op    OpKind
	a, b  tensor.Buffer
	out   tensor.Buffer
	seed  tensor.Value
	arg   any
	fn    Func
	acc   Binary
	count int
}

// NewElementWise builds out[i] = fn(a[i], b[i]).
func NewElementWise(a, b, out tensor.Buffer, fn Binary) *Task {
	return newTask(ElementWise, a, b, out, fn)
}

// NewScalarBroadcast builds out[i] = fn(a[i], s).
func NewScalarBroadcast(a tensor.Buffer, s tensor.Value, out tensor.Buffer, fn Binary) *Task {
	t := newTask(ScalarBroadcast, a, nil, out, fn)
	t.seed = s
	return t
}

// NewReduce builds a fold of a with fn starting from seed. Multi-threaded
// execution folds each chunk from seed and then folds the partials with fn,
// so fn must be associative and seed must be its identity.
func NewReduce(a tensor.Buffer, seed tensor.Value, fn Binary) *Task {
	t := newTask(Reduce, a, nil, nil, fn)
	t.seed = seed
	return t
}

// NewMap builds out[i] = fn(a[i]).
func NewMap(a, out tensor.Buffer, fn Unary) *Task {
	return newTask(Map, a, nil, out, fn)
}

// NewMapWithArg builds out[i] = fn(a[i], arg).
func NewMapWithArg(a, out tensor.Buffer, fn BinaryArg, arg any) *Task {
	t := newTask(MapWithArg, a, nil, out, fn)
	t.arg = arg
	return t
}

// NewDot builds seed + sum of mul(a[i], b[i]), accumulated with add. add
// must be associative with zero as its identity.
func NewDot(a, b tensor.Buffer, seed tensor.Value, mul, add Binary) *Task {
	t := newTask(Dot, a, b, nil, mul)
	t.seed = seed
	t.acc = add
	return t
}

func newTask(op OpKind, a, b, out tensor.Buffer, fn Func) *Task {
	t := &Task{op: op, a: a, b: b, out: out, fn: fn}
	for _, buf := range []tensor.Buffer{a, b, out} {
		if _, ok := buf.(*tensor.Tensor); ok {
			t.data = TensorData
		}
	}
	if a != nil {
		t.count = a.Len()
	}
	return t
}

// Kind returns the operation kind.
func (t *Task) Kind() OpKind { return t.op }

// Data returns the operand container family.
func (t *Task) Data() DataKind { return t.data }

// Count returns the operation count.
func (t *Task) Count() int { return t.count }

// Type returns the element type of the first operand.
func (t *Task) Type() tensor.ElementType {
	if t.a == nil {
		return tensor.Invalid
	}
	return t.a.Type()
}

// Known returns the kernel tag of the task's function.
func (t *Task) Known() Kernel {
	if t.fn == nil {
		return KernelNone
	}
	return t.fn.known()
}

func (t *Task) validate() error {
	if t.a == nil || t.fn == nil {
		return fmt.Errorf("%w: %s task without operand or function", ErrInvalidTask, t.op)
	}
	typ := t.a.Type()
	if !typ.Valid() {
		return fmt.Errorf("%w: %s", tensor.ErrUnsupportedType, typ)
	}

	switch t.op {
	case ElementWise, Dot:
		if t.b == nil {
			return fmt.Errorf("%w: %s task without second operand", ErrInvalidTask, t.op)
		}
		if err := sameShape(t.a, t.b); err != nil {
			return err
		}
	}
	switch t.op {
	case ElementWise, ScalarBroadcast, Map, MapWithArg:
		if t.out == nil {
			return fmt.Errorf("%w: %s task without output", ErrInvalidTask, t.op)
		}
		if err := sameShape(t.a, t.out); err != nil {
			return err
		}
	}
	switch t.op {
	case ScalarBroadcast, Reduce, Dot:
		if t.seed.Type() != typ {
			return fmt.Errorf("%w: scalar is %s, operand is %s", tensor.ErrTypeMismatch, t.seed.Type(), typ)
		}
	}

	ok := false
	switch t.fn.(type) {
	case Binary:
		ok = t.op == ElementWise || t.op == ScalarBroadcast || t.op == Reduce || t.op == Dot
	case Unary:
		ok = t.op == Map
	case BinaryArg:
		ok = t.op == MapWithArg
	}
	if !ok || nilFn(t.fn) || (t.op == Dot && t.acc.Fn == nil) {
		return fmt.Errorf("%w: %s task with %T function", ErrInvalidTask, t.op, t.fn)
	}
	return nil
}

func nilFn(f Func) bool {
	switch f := f.(type) {
	case Binary:
		return f.Fn == nil
	case Unary:
		return f.Fn == nil
	case BinaryArg:
		return f.Fn == nil
	}
	return true
}

func sameShape(a, b tensor.Buffer) error {
	if a.Type() != b.Type() {
		return fmt.Errorf("%w: %s vs %s", tensor.ErrTypeMismatch, a.Type(), b.Type())
	}
	if a.Len() != b.Len() {
		return fmt.Errorf("%w: %d vs %d", tensor.ErrSizeMismatch, a.Len(), b.Len())
	}
	return nil
}
