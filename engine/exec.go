package engine

import (
	"fmt"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/internal/vecmath/registry"
	"github.com/cwbudde/algo-tensor/tensor"
)

// span returns the bytes of elements [lo, hi) of buf.
func span(buf tensor.Buffer, lo, hi int) []byte {
	es := buf.Type().Size()
	return buf.Raw()[lo*es : hi*es]
}

// run executes elements [lo, hi) of t. For Reduce and Dot it returns the
// partial accumulated over the range.
func (e *Engine) run(t *Task, lo, hi int) (tensor.Value, error) {
	typ := t.a.Type()
	n := hi - lo
	a := span(t.a, lo, hi)

	switch t.op {
	case ElementWise:
		fn := t.fn.(Binary)
		b, out := span(t.b, lo, hi), span(t.out, lo, hi)
		for i := e.fastBinary(fn.Known, typ, out, a, b); i < n; i++ {
			r := fn.Fn(tensor.LoadAt(a, typ, i), tensor.LoadAt(b, typ, i))
			if r.Type() != typ {
				return tensor.Value{}, badResult(lo+i, r, typ)
			}
			tensor.StoreAt(out, typ, i, r)
		}

	case ScalarBroadcast:
		fn := t.fn.(Binary)
		out := span(t.out, lo, hi)
		for i := e.fastScalar(fn.Known, typ, out, a, t.seed); i < n; i++ {
			r := fn.Fn(tensor.LoadAt(a, typ, i), t.seed)
			if r.Type() != typ {
				return tensor.Value{}, badResult(lo+i, r, typ)
			}
			tensor.StoreAt(out, typ, i, r)
		}

	case Map:
		fn := t.fn.(Unary)
		out := span(t.out, lo, hi)
		for i := e.fastUnary(fn.Known, typ, out, a); i < n; i++ {
			r := fn.Fn(tensor.LoadAt(a, typ, i))
			if r.Type() != typ {
				return tensor.Value{}, badResult(lo+i, r, typ)
			}
			tensor.StoreAt(out, typ, i, r)
		}

	case MapWithArg:
		fn := t.fn.(BinaryArg)
		out := span(t.out, lo, hi)
		start := 0
		if s, ok := argValue(t.arg); ok && s.Type() == typ {
			start = e.fastScalar(fn.Known, typ, out, a, s)
		}
		for i := start; i < n; i++ {
			r := fn.Fn(tensor.LoadAt(a, typ, i), t.arg)
			if r.Type() != typ {
				return tensor.Value{}, badResult(lo+i, r, typ)
			}
			tensor.StoreAt(out, typ, i, r)
		}

	case Reduce:
		fn := t.fn.(Binary)
		acc := t.seed
		for i := 0; i < n; i++ {
			acc = fn.Fn(acc, tensor.LoadAt(a, typ, i))
			if acc.Type() != typ {
				return tensor.Value{}, badResult(lo+i, acc, typ)
			}
		}
		return acc, nil

	case Dot:
		mul := t.fn.(Binary)
		b := span(t.b, lo, hi)
		acc := tensor.ToValue(0, typ)
		for i := 0; i < n; i++ {
			p := mul.Fn(tensor.LoadAt(a, typ, i), tensor.LoadAt(b, typ, i))
			if p.Type() != typ {
				return tensor.Value{}, badResult(lo+i, p, typ)
			}
			acc = t.acc.Fn(acc, p)
			if acc.Type() != typ {
				return tensor.Value{}, badResult(lo+i, acc, typ)
			}
		}
		return acc, nil

	default:
		return tensor.Value{}, fmt.Errorf("%w: op %s", ErrInvalidTask, t.op)
	}
	return tensor.Value{}, nil
}

func badResult(i int, r tensor.Value, typ tensor.ElementType) error {
	return fmt.Errorf("%w: element %d is %s, want %s", ErrBadResult, i, r.Type(), typ)
}

// batched returns the largest multiple of the kernel width not above n.
func (e *Engine) batched(n int) int {
	return n - n%e.kernels.Lanes
}

// fastBinary runs the batched prefix of an element-wise op and returns the
// number of elements done.
func (e *Engine) fastBinary(k Kernel, typ tensor.ElementType, out, a, b []byte) int {
	switch typ {
	case tensor.F32:
		kern := e.binary32(k)
		if kern == nil {
			return 0
		}
		d, x, y := arena.View[float32](out), arena.View[float32](a), arena.View[float32](b)
		m := e.batched(len(d))
		kern(d[:m], x[:m], y[:m])
		return m
	case tensor.F64:
		if k != KernelMul || e.kernels.Mul64 == nil {
			return 0
		}
		d := arena.View[float64](out)
		e.kernels.Mul64(d, arena.View[float64](a), arena.View[float64](b))
		return len(d)
	}
	return 0
}

// fastScalar runs the batched prefix of out[i] = a[i] op s.
func (e *Engine) fastScalar(k Kernel, typ tensor.ElementType, out, a []byte, s tensor.Value) int {
	if typ != tensor.F32 {
		return 0
	}
	kern := e.scalar32(k)
	if kern == nil {
		return 0
	}
	d, x := arena.View[float32](out), arena.View[float32](a)
	m := e.batched(len(d))
	kern(d[:m], x[:m], s.Float32())
	return m
}

// fastUnary runs the batched prefix of a known map.
func (e *Engine) fastUnary(k Kernel, typ tensor.ElementType, out, a []byte) int {
	if typ != tensor.F32 || k != KernelAbs || e.kernels.Abs32 == nil {
		return 0
	}
	d, x := arena.View[float32](out), arena.View[float32](a)
	m := e.batched(len(d))
	e.kernels.Abs32(d[:m], x[:m])
	return m
}

func (e *Engine) binary32(k Kernel) registry.Binary32 {
	switch k {
	case KernelAdd:
		return e.kernels.Add32
	case KernelSub:
		return e.kernels.Sub32
	case KernelMul:
		return e.kernels.Mul32
	case KernelDiv:
		return e.kernels.Div32
	default:
		return nil
	}
}

func (e *Engine) scalar32(k Kernel) registry.Scalar32 {
	switch k {
	case KernelAdd:
		return e.kernels.AddScalar32
	case KernelSub:
		return e.kernels.SubScalar32
	case KernelMul:
		return e.kernels.MulScalar32
	case KernelDiv:
		return e.kernels.DivScalar32
	default:
		return nil
	}
}
