package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/pool"
	"github.com/cwbudde/algo-tensor/tensor"
)

var allTypes = []tensor.ElementType{tensor.F16, tensor.F32, tensor.F64}

// lift turns a float64 operator into a typed scalar function. For
// +, -, *, / on float32 the result equals native float32 arithmetic.
func lift(op func(x, y float64) float64) func(a, b tensor.Value) tensor.Value {
	return func(a, b tensor.Value) tensor.Value {
		if a.Type() != b.Type() {
			return tensor.Value{}
		}
		return tensor.ToValue(op(a.Float64(), b.Float64()), a.Type())
	}
}

var (
	addOp = Binary{Fn: lift(func(x, y float64) float64 { return x + y }), Known: KernelAdd}
	subOp = Binary{Fn: lift(func(x, y float64) float64 { return x - y }), Known: KernelSub}
	mulOp = Binary{Fn: lift(func(x, y float64) float64 { return x * y }), Known: KernelMul}
	divOp = Binary{Fn: lift(func(x, y float64) float64 { return x / y }), Known: KernelDiv}
	absOp = Unary{Fn: func(a tensor.Value) tensor.Value {
		return tensor.ToValue(math.Abs(a.Float64()), a.Type())
	}, Known: KernelAbs}
	addArgOp = BinaryArg{Fn: func(a tensor.Value, arg any) tensor.Value {
		b, ok := argValue(arg)
		if !ok {
			return tensor.Value{}
		}
		return addOp.Fn(a, b)
	}, Known: KernelAdd}
)

func testPool(t *testing.T, workers int) *pool.Pool {
	t.Helper()
	p := pool.New(pool.WithWorkers(workers))
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func newArena() *arena.Arena {
	return arena.New(arena.WithBlockCapacity(1 << 20))
}

func ramp(t testing.TB, a arena.Allocator, n int, typ tensor.ElementType, f func(i int) float64) *tensor.Vector {
	t.Helper()
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = f(i)
	}
	v, err := tensor.FromFloat64s(xs, typ, a)
	require.NoError(t, err)
	return v
}

func vec(t testing.TB, a arena.Allocator, n int, typ tensor.ElementType) *tensor.Vector {
	t.Helper()
	v, err := tensor.NewVector(n, typ, a)
	require.NoError(t, err)
	return v
}

func TestPartition(t *testing.T) {
	tests := []struct {
		count, workers int
		want           [][2]int
	}{
		{10, 4, [][2]int{{0, 2}, {2, 4}, {4, 6}, {6, 10}}},
		{3, 8, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{8, 1, [][2]int{{0, 8}}},
		{0, 4, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, partition(tt.count, tt.workers), "count=%d workers=%d", tt.count, tt.workers)
	}
}

func TestAutoThreshold(t *testing.T) {
	e := New(WithPool(testPool(t, 2)))
	assert.Equal(t, DefaultThreshold, e.Threshold())
	assert.Equal(t, SingleThread, e.resolve(Auto, DefaultThreshold))
	assert.Equal(t, MultiThread, e.resolve(Auto, DefaultThreshold+1))
	assert.Equal(t, SingleThread, e.resolve(SingleThread, 1<<20))
	assert.Equal(t, MultiThread, e.resolve(MultiThread, 1))

	small := New(WithThreshold(8), WithThreshold(-1))
	assert.Equal(t, 8, small.Threshold())
}

// Single-threaded and forced multi-threaded runs must produce identical
// buffers on both sides of the threshold.
func TestSingleMultiEquivalence(t *testing.T) {
	e := New(WithPool(testPool(t, 4)))
	a := newArena()

	custom := Binary{Fn: lift(func(x, y float64) float64 { return 2*x - y })}
	for _, typ := range allTypes {
		for _, n := range []int{DefaultThreshold, DefaultThreshold + 1} {
			x := ramp(t, a, n, typ, func(i int) float64 { return float64(i%97) - 40.5 })
			y := ramp(t, a, n, typ, func(i int) float64 { return float64(i%13) + 1 })

			tasks := map[string]func(out *tensor.Vector) *Task{
				"add":    func(out *tensor.Vector) *Task { return NewElementWise(x, y, out, addOp) },
				"div":    func(out *tensor.Vector) *Task { return NewElementWise(x, y, out, divOp) },
				"custom": func(out *tensor.Vector) *Task { return NewElementWise(x, y, out, custom) },
				"scalar": func(out *tensor.Vector) *Task {
					return NewScalarBroadcast(x, tensor.ToValue(3, typ), out, mulOp)
				},
				"abs":    func(out *tensor.Vector) *Task { return NewMap(x, out, absOp) },
				"addarg": func(out *tensor.Vector) *Task { return NewMapWithArg(x, out, addArgOp, tensor.ToValue(0.5, typ)) },
			}
			for name, build := range tasks {
				single, multi := vec(t, a, n, typ), vec(t, a, n, typ)
				rs := e.Execute(build(single), SingleThread)
				rm := e.Execute(build(multi), MultiThread)
				require.True(t, rs.Success, "%s %s n=%d: %v", name, typ, n, rs.Err)
				require.True(t, rm.Success, "%s %s n=%d: %v", name, typ, n, rm.Err)
				assert.Equal(t, single.Raw(), multi.Raw(), "%s %s n=%d", name, typ, n)
			}
		}
	}
}

// Batched kernels and scalar loops agree bit for bit, including the tail.
func TestKernelsMatchGeneric(t *testing.T) {
	fast := New(WithPool(testPool(t, 2)))
	slow := New(WithGenericKernels())
	assert.Equal(t, "generic", slow.KernelName())
	assert.Equal(t, 1, slow.Lanes())

	a := newArena()
	const n = 1027
	for _, typ := range []tensor.ElementType{tensor.F32, tensor.F64} {
		x := ramp(t, a, n, typ, func(i int) float64 { return float64(i)*0.37 - 100 })
		y := ramp(t, a, n, typ, func(i int) float64 { return float64(i%7) + 0.25 })

		for _, op := range []Binary{addOp, subOp, mulOp, divOp} {
			o1, o2 := vec(t, a, n, typ), vec(t, a, n, typ)
			require.True(t, fast.Execute(NewElementWise(x, y, o1, op), SingleThread).Success)
			require.True(t, slow.Execute(NewElementWise(x, y, o2, op), SingleThread).Success)
			assert.Equal(t, o2.Raw(), o1.Raw(), "%s %s", typ, op.Known)

			s1, s2 := vec(t, a, n, typ), vec(t, a, n, typ)
			s := tensor.ToValue(1.75, typ)
			require.True(t, fast.Execute(NewScalarBroadcast(x, s, s1, op), SingleThread).Success)
			require.True(t, slow.Execute(NewScalarBroadcast(x, s, s2, op), SingleThread).Success)
			assert.Equal(t, s2.Raw(), s1.Raw(), "scalar %s %s", typ, op.Known)
		}

		o1, o2 := vec(t, a, n, typ), vec(t, a, n, typ)
		require.True(t, fast.Execute(NewMap(x, o1, absOp), SingleThread).Success)
		require.True(t, slow.Execute(NewMap(x, o2, absOp), SingleThread).Success)
		assert.Equal(t, o2.Raw(), o1.Raw())
	}
}

func TestElementWiseValues(t *testing.T) {
	a := newArena()
	x := ramp(t, a, 10, tensor.F32, func(i int) float64 { return float64(i) })
	y := ramp(t, a, 10, tensor.F32, func(i int) float64 { return float64(2 * i) })
	out := vec(t, a, 10, tensor.F32)

	r := Execute(NewElementWise(x, y, out, addOp), Auto)
	require.True(t, r.Success, "%v", r.Err)
	for i, v := range out.Float32s() {
		assert.Equal(t, float32(3*i), v)
	}
}

func TestInPlaceAliasing(t *testing.T) {
	e := New(WithPool(testPool(t, 3)))
	a := newArena()
	x := ramp(t, a, 2000, tensor.F32, func(i int) float64 { return float64(i) })
	r := e.Execute(NewScalarBroadcast(x, tensor.FromF32(1), x, addOp), MultiThread)
	require.True(t, r.Success)
	assert.Equal(t, float32(1), x.Float32s()[0])
	assert.Equal(t, float32(2000), x.Float32s()[1999])
}

// Sum of 0..N-1 must equal N(N-1)/2 in both modes.
func TestReduceSum(t *testing.T) {
	e := New(WithPool(testPool(t, 4)))
	a := newArena()
	for _, typ := range []tensor.ElementType{tensor.F32, tensor.F64} {
		for _, n := range []int{0, 1, 10, 1000, 1025, 3001} {
			v := ramp(t, a, n, typ, func(i int) float64 { return float64(i) })
			want := float64(n) * float64(n-1) / 2
			if n == 0 {
				want = 0
			}
			for _, mode := range []Mode{SingleThread, MultiThread, Auto} {
				r := e.Execute(NewReduce(v, tensor.ToValue(0, typ), addOp), mode)
				require.True(t, r.Success, "%v", r.Err)
				assert.Equal(t, typ, r.Scalar.Type())
				assert.Equal(t, want, r.Scalar.Float64(), "%s n=%d %s", typ, n, mode)
			}
		}
	}
}

func TestDot(t *testing.T) {
	e := New(WithPool(testPool(t, 4)))
	a := newArena()

	x := ramp(t, a, 10, tensor.F32, func(i int) float64 { return float64(i) })
	y := ramp(t, a, 10, tensor.F32, func(i int) float64 { return float64(2 * i) })
	for _, mode := range []Mode{SingleThread, MultiThread} {
		r := e.Execute(NewDot(x, y, tensor.FromF32(0), mulOp, addOp), mode)
		require.True(t, r.Success)
		assert.Equal(t, float32(570), r.Scalar.Float32(), "%s", mode)
	}

	seeded := e.Execute(NewDot(x, y, tensor.FromF32(30), mulOp, addOp), MultiThread)
	require.True(t, seeded.Success)
	assert.Equal(t, float32(600), seeded.Scalar.Float32(), "seed is added once")
}

func TestValidation(t *testing.T) {
	e := New(WithPool(testPool(t, 2)))
	a := newArena()
	f32 := vec(t, a, 4, tensor.F32)
	f64 := vec(t, a, 4, tensor.F64)
	short := vec(t, a, 3, tensor.F32)

	r := e.Execute(NewElementWise(f32, f64, f32, addOp), SingleThread)
	assert.False(t, r.Success)
	assert.ErrorIs(t, r.Err, tensor.ErrTypeMismatch)

	r = e.Execute(NewElementWise(f32, short, f32, addOp), SingleThread)
	assert.ErrorIs(t, r.Err, tensor.ErrSizeMismatch)

	r = e.Execute(NewScalarBroadcast(f32, tensor.FromF64(1), f32, addOp), SingleThread)
	assert.ErrorIs(t, r.Err, tensor.ErrTypeMismatch)

	r = e.Execute(NewReduce(f32, tensor.FromF64(0), addOp), SingleThread)
	assert.ErrorIs(t, r.Err, tensor.ErrTypeMismatch)

	r = e.Execute(NewElementWise(f32, nil, f32, addOp), SingleThread)
	assert.ErrorIs(t, r.Err, ErrInvalidTask)

	r = e.Execute(NewMap(f32, f32, Unary{}), SingleThread)
	assert.ErrorIs(t, r.Err, ErrInvalidTask)

	r = e.Execute(NewElementWise(f32, f32, f32, addOp), Mode(42))
	assert.ErrorIs(t, r.Err, ErrInvalidTask)

	assert.Panics(t, func() { e.Execute(nil, Auto) })
}

func TestTensorTaskRejected(t *testing.T) {
	a := newArena()
	tt, err := tensor.NewTensor(tensor.NewDimensions(a, 2, 2), tensor.F32, a)
	require.NoError(t, err)

	task := NewMap(tt, tt, absOp)
	assert.Equal(t, TensorData, task.Data())
	r := Execute(task, SingleThread)
	assert.False(t, r.Success)
	assert.ErrorIs(t, r.Err, ErrTensorUnsupported)

	flat := NewMap(tt.Flat(), tt.Flat(), absOp)
	assert.Equal(t, VectorData, flat.Data())
	assert.True(t, Execute(flat, SingleThread).Success)
}

func TestBadResultFailsTask(t *testing.T) {
	e := New(WithPool(testPool(t, 4)))
	a := newArena()
	x := ramp(t, a, 2048, tensor.F32, func(i int) float64 { return float64(i) })
	out := vec(t, a, 2048, tensor.F32)

	// Fails only on the last chunk's range.
	broken := Unary{Fn: func(v tensor.Value) tensor.Value {
		if v.Float64() >= 2040 {
			return tensor.Value{}
		}
		return v
	}}

	r := e.Execute(NewMap(x, out, broken), SingleThread)
	assert.ErrorIs(t, r.Err, ErrBadResult)

	r = e.Execute(NewMap(x, out, broken), MultiThread)
	assert.False(t, r.Success)
	assert.ErrorIs(t, r.Err, ErrWorkerFailed)
	assert.ErrorIs(t, r.Err, ErrBadResult)
}

func TestMapWithArgNonValueArg(t *testing.T) {
	a := newArena()
	x := ramp(t, a, 16, tensor.F32, func(i int) float64 { return float64(i) })
	out := vec(t, a, 16, tensor.F32)

	scale := BinaryArg{Fn: func(v tensor.Value, arg any) tensor.Value {
		return tensor.ToValue(v.Float64()*float64(arg.(int)), v.Type())
	}}
	r := Execute(NewMapWithArg(x, out, scale, 3), SingleThread)
	require.True(t, r.Success, "%v", r.Err)
	assert.Equal(t, float32(45), out.Float32s()[15])

	s := tensor.FromF32(2)
	r = Execute(NewMapWithArg(x, out, addArgOp, &s), SingleThread)
	require.True(t, r.Success)
	assert.Equal(t, float32(17), out.Float32s()[15])
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "auto", Auto.String())
	assert.Equal(t, "multi", MultiThread.String())
	assert.Equal(t, "map-with-arg", MapWithArg.String())
	assert.Equal(t, "abs", KernelAbs.String())
	assert.Equal(t, "vector", VectorData.String())

	task := NewElementWise(nil, nil, nil, addOp)
	assert.Equal(t, KernelAdd, task.Known())
	assert.Equal(t, ElementWise, task.Kind())
	assert.Equal(t, tensor.Invalid, task.Type())
}
