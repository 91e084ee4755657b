package linalg

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/engine"
	"github.com/cwbudde/algo-tensor/internal/testutil"
	"github.com/cwbudde/algo-tensor/pool"
	"github.com/cwbudde/algo-tensor/tensor"
)

var allTypes = []tensor.ElementType{tensor.F16, tensor.F32, tensor.F64}

func newWorkspace(t *testing.T, opts ...Option) (*Workspace, *arena.Arena) {
	t.Helper()
	p := pool.New(pool.WithWorkers(4))
	t.Cleanup(func() { _ = p.Close() })

	base := []Option{
		WithEngine(engine.New(engine.WithPool(p))),
		WithScratchCapacity(1 << 20),
	}
	w := NewWorkspace(append(base, opts...)...)
	t.Cleanup(w.Close)
	return w, arena.New(arena.WithBlockCapacity(1 << 20))
}

func fromSeq(t *testing.T, a arena.Allocator, typ tensor.ElementType, xs []float64) *tensor.Vector {
	t.Helper()
	v, err := tensor.FromFloat64s(xs, typ, a)
	require.NoError(t, err)
	return v
}

func TestDotCrossNorm(t *testing.T) {
	w, a := newWorkspace(t)

	x := fromSeq(t, a, tensor.F32, testutil.Sequence(10, 0, 1))
	y := fromSeq(t, a, tensor.F32, testutil.Sequence(10, 0, 2))

	dot, err := w.Dot(x, y)
	require.NoError(t, err)
	assert.Equal(t, float32(570), dot.Float32())

	fused, err := w.DotFused(x, y)
	require.NoError(t, err)
	assert.Equal(t, dot, fused)

	c, err := w.Cross(
		fromSeq(t, a, tensor.F32, []float64{0, 1, 2}),
		fromSeq(t, a, tensor.F32, []float64{1, 2, 3}), a)
	require.NoError(t, err)
	assert.Equal(t, []float32{-1, 2, -1}, c.Float32s())

	n1, err := w.Norm(x, 1, a)
	require.NoError(t, err)
	assert.Equal(t, float32(45), n1.Float32())

	n2, err := w.Norm(x, 2, nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(285), n2.Float64(), 1e-5)

	n3, err := w.Norm(x, 3, nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Cbrt(2025), n3.Float64(), 1e-4)

	_, err = w.Norm(x, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidNorm)
}

func TestDotAllTypes(t *testing.T) {
	w, a := newWorkspace(t)
	for _, typ := range allTypes {
		x := fromSeq(t, a, typ, testutil.Sequence(10, 0, 1))
		y := fromSeq(t, a, typ, testutil.Sequence(10, 0, 2))
		d, err := w.Dot(x, y)
		require.NoError(t, err)
		assert.Equal(t, typ, d.Type())
		if typ == tensor.F16 {
			// 408 + 162 = 570 is a tie between 568 and 572 in bf16.
			assert.Equal(t, 568.0, d.Float64())
			continue
		}
		assert.Equal(t, 570.0, d.Float64(), typ.String())
	}
}

func TestNormAllTypes(t *testing.T) {
	w, a := newWorkspace(t)
	tests := []struct {
		typ  tensor.ElementType
		p    uint32
		want float64
	}{
		{tensor.F16, 1, 45},
		{tensor.F32, 1, 45},
		{tensor.F64, 1, 45},
		// The bf16 sum of squares rounds 285 to 284; sqrt(284) rounds to 16.875.
		{tensor.F16, 2, 16.875},
		{tensor.F32, 2, float64(float32(math.Sqrt(285)))},
		{tensor.F64, 2, math.Sqrt(285)},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/p=%d", tt.typ, tt.p), func(t *testing.T) {
			x := fromSeq(t, a, tt.typ, testutil.Sequence(10, 0, 1))
			n, err := w.Norm(x, tt.p, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, n.Type())
			assert.Equal(t, tt.want, n.Float64())
		})
	}
}

func TestNormalizeAllTypes(t *testing.T) {
	w, a := newWorkspace(t)
	tests := []struct {
		typ  tensor.ElementType
		want []float64
	}{
		{tensor.F16, []float64{0.6015625, 0.80078125}},
		{tensor.F32, []float64{float64(float32(0.6)), float64(float32(0.8))}},
		{tensor.F64, []float64{0.6, 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			x := fromSeq(t, a, tt.typ, []float64{3, 4})
			u, err := w.Normalize(x, a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.ToFloat64s())

			_, err = w.NormalizeInPlace(x)
			require.NoError(t, err)
			assert.Equal(t, tt.want, x.ToFloat64s())
		})
	}
}

func TestNormEmptyVector(t *testing.T) {
	w, a := newWorkspace(t)
	empty := fromSeq(t, a, tensor.F32, nil)

	_, err := w.Norm(empty, 2, nil)
	assert.ErrorIs(t, err, tensor.ErrInvalidSize)
	_, err = w.Normalize(empty, a)
	assert.ErrorIs(t, err, tensor.ErrInvalidSize)
}

func TestElementWiseOps(t *testing.T) {
	w, a := newWorkspace(t)

	ops := []struct {
		name    string
		alloc   func(x, y *tensor.Vector) (*tensor.Vector, error)
		inPlace func(x, y *tensor.Vector) (*tensor.Vector, error)
		scalar  func(x, y tensor.Value) tensor.Value
	}{
		{"add", func(x, y *tensor.Vector) (*tensor.Vector, error) { return w.Add(x, y, a) }, w.AddInPlace, Add},
		{"sub", func(x, y *tensor.Vector) (*tensor.Vector, error) { return w.Sub(x, y, a) }, w.SubInPlace, Sub},
		{"mul", func(x, y *tensor.Vector) (*tensor.Vector, error) { return w.MulElementWise(x, y, a) }, w.MulElementWiseInPlace, Mul},
		{"div", func(x, y *tensor.Vector) (*tensor.Vector, error) { return w.DivElementWise(x, y, a) }, w.DivElementWiseInPlace, Div},
	}

	for _, typ := range allTypes {
		for _, n := range []int{10, engine.DefaultThreshold + 5} {
			xs := testutil.Sequence(n, -3.5, 0.25)
			ys := testutil.Sequence(n, 1, 0.5)
			for _, op := range ops {
				t.Run(op.name+"/"+typ.String(), func(t *testing.T) {
					x := fromSeq(t, a, typ, xs)
					y := fromSeq(t, a, typ, ys)

					got, err := op.alloc(x, y)
					require.NoError(t, err)
					for i := 0; i < n; i++ {
						xi, _ := x.Get(i)
						yi, _ := y.Get(i)
						gi, _ := got.Get(i)
						require.Equal(t, op.scalar(xi, yi), gi, "element %d", i)
					}

					same, err := op.inPlace(x, y)
					require.NoError(t, err)
					assert.Same(t, x, same)
					assert.Equal(t, got.Raw(), x.Raw(), "allocating and in-place forms agree")
				})
			}
		}
	}
}

func TestScalarBroadcastOps(t *testing.T) {
	w, a := newWorkspace(t)
	for _, typ := range allTypes {
		s := tensor.ToValue(2, typ)
		x := fromSeq(t, a, typ, testutil.Sequence(20, 0, 1))

		sum, err := w.AddScalar(x, s, a)
		require.NoError(t, err)
		diff, err := w.SubScalar(x, s, a)
		require.NoError(t, err)
		prod, err := w.MulScalar(x, s, a)
		require.NoError(t, err)
		quot, err := w.DivScalar(x, s, a)
		require.NoError(t, err)

		for i := 0; i < 20; i++ {
			f := float64(i)
			g := func(v *tensor.Vector) float64 { e, _ := v.Get(i); return e.Float64() }
			assert.Equal(t, f+2, g(sum))
			assert.Equal(t, f-2, g(diff))
			assert.Equal(t, f*2, g(prod))
			assert.Equal(t, f/2, g(quot))
		}

		y := x.Clone(a)
		for _, step := range []func(*tensor.Vector, tensor.Value) (*tensor.Vector, error){
			w.AddScalarInPlace, w.MulScalarInPlace, w.SubScalarInPlace, w.DivScalarInPlace,
		} {
			_, err := step(y, s)
			require.NoError(t, err)
		}
		// ((x + 2) * 2 - 2) / 2 = x + 1
		for i := 0; i < 20; i++ {
			e, _ := y.Get(i)
			assert.Equal(t, float64(i)+1, e.Float64())
		}

		_, err = w.AddScalar(x, tensor.ToValue(1, otherType(typ)), a)
		assert.ErrorIs(t, err, tensor.ErrTypeMismatch)
	}
}

func otherType(t tensor.ElementType) tensor.ElementType {
	if t == tensor.F64 {
		return tensor.F32
	}
	return tensor.F64
}

func TestMapAndReduce(t *testing.T) {
	w, a := newWorkspace(t)
	x := fromSeq(t, a, tensor.F64, testutil.Sequence(10, -5, 1))

	abs, err := w.Map(x, AbsOp, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 4, 3, 2, 1, 0, 1, 2, 3, 4}, abs.Float64s())

	sq, err := w.MapWithArg(x, PowArgOp, tensor.FromF64(2), a)
	require.NoError(t, err)
	assert.Equal(t, 25.0, sq.Float64s()[0])

	sum, err := w.Reduce(abs, AddOp, tensor.FromF64(0))
	require.NoError(t, err)
	assert.Equal(t, 25.0, sum.Float64())

	_, err = w.MapInPlace(x, AbsOp)
	require.NoError(t, err)
	assert.Equal(t, abs.Float64s(), x.Float64s())

	_, err = w.MapWithArgInPlace(x, AddArgOp, tensor.FromF64(1))
	require.NoError(t, err)
	assert.Equal(t, 6.0, x.Float64s()[0])

	_, err = w.Reduce(abs, AddOp, tensor.FromF32(0))
	assert.ErrorIs(t, err, tensor.ErrTypeMismatch)
}

// Sum of 0..N-1 equals N(N-1)/2 whether the reduce runs on one goroutine or
// across the pool.
func TestReduceClosedForm(t *testing.T) {
	for _, mode := range []engine.Mode{engine.SingleThread, engine.MultiThread} {
		w, a := newWorkspace(t, WithMode(mode))
		for _, n := range []int{100, 4097} {
			x := fromSeq(t, a, tensor.F64, testutil.Sequence(n, 0, 1))
			sum, err := w.Reduce(x, AddOp, tensor.FromF64(0))
			require.NoError(t, err)
			assert.Equal(t, float64(n*(n-1)/2), sum.Float64(), "%s n=%d", mode, n)
		}
	}
}

func TestSingleMultiAgree(t *testing.T) {
	single, a := newWorkspace(t, WithMode(engine.SingleThread))
	multi, _ := newWorkspace(t, WithMode(engine.MultiThread))

	for _, n := range []int{engine.DefaultThreshold, engine.DefaultThreshold + 1} {
		x := fromSeq(t, a, tensor.F32, testutil.Sequence(n, -100, 0.3))
		y := fromSeq(t, a, tensor.F32, testutil.Sequence(n, 1, 0.1))

		s, err := single.DivElementWise(x, y, a)
		require.NoError(t, err)
		m, err := multi.DivElementWise(x, y, a)
		require.NoError(t, err)
		assert.Equal(t, s.Raw(), m.Raw(), "n=%d", n)

		s, err = single.Map(x, AbsOp, a)
		require.NoError(t, err)
		m, err = multi.Map(x, AbsOp, a)
		require.NoError(t, err)
		assert.Equal(t, s.Raw(), m.Raw(), "abs n=%d", n)
	}
}

func TestCrossInPlaceAndErrors(t *testing.T) {
	w, a := newWorkspace(t)

	x := fromSeq(t, a, tensor.F64, []float64{1, 0, 0})
	y := fromSeq(t, a, tensor.F64, []float64{0, 1, 0})
	got, err := w.CrossInPlace(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, got.Float64s())

	four := fromSeq(t, a, tensor.F64, []float64{1, 2, 3, 4})
	_, err = w.Cross(four, four, a)
	assert.ErrorIs(t, err, ErrNotThreeD)

	_, err = w.Cross(x, fromSeq(t, a, tensor.F32, []float64{1, 2, 3}), a)
	assert.ErrorIs(t, err, tensor.ErrTypeMismatch)
}

func TestNormalize(t *testing.T) {
	w, a := newWorkspace(t)

	x := fromSeq(t, a, tensor.F64, []float64{3, 4})
	u, err := w.Normalize(x, a)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, u.Float64s(), []float64{0.6, 0.8}, 1e-12)

	_, err = w.NormalizeInPlace(x)
	require.NoError(t, err)
	assert.Equal(t, u.Float64s(), x.Float64s())

	zero := fromSeq(t, a, tensor.F64, []float64{0, 0, 0})
	_, err = w.Normalize(zero, a)
	assert.ErrorIs(t, err, ErrZeroNorm)
	_, err = w.NormalizeInPlace(zero)
	assert.ErrorIs(t, err, ErrZeroNorm)
}

func TestTypeMismatchRejected(t *testing.T) {
	w, a := newWorkspace(t)
	x := fromSeq(t, a, tensor.F32, []float64{1, 2, 3})
	y := fromSeq(t, a, tensor.F64, []float64{1, 2, 3})

	_, err := w.Add(x, y, a)
	assert.ErrorIs(t, err, tensor.ErrTypeMismatch)
	_, err = w.SubInPlace(x, y)
	assert.ErrorIs(t, err, tensor.ErrTypeMismatch)
	_, err = w.Dot(x, y)
	assert.ErrorIs(t, err, tensor.ErrTypeMismatch)
	_, err = w.DotFused(x, y)
	assert.ErrorIs(t, err, tensor.ErrTypeMismatch)
	assert.Equal(t, []float32{1, 2, 3}, x.Float32s(), "failed in-place op leaves operand untouched")

	_, err = w.Add(x, fromSeq(t, a, tensor.F32, []float64{1, 2}), a)
	assert.ErrorIs(t, err, tensor.ErrSizeMismatch)
}

func TestScratchIsResetAfterInPlace(t *testing.T) {
	scratch := arena.New(arena.WithBlockCapacity(1 << 16))
	w, a := newWorkspace(t, WithScratch(scratch))

	x := fromSeq(t, a, tensor.F64, testutil.Sequence(1000, 0, 1))
	for i := 0; i < 50; i++ {
		_, err := w.AddScalarInPlace(x, tensor.FromF64(1))
		require.NoError(t, err)
		assert.Zero(t, scratch.Used())
	}
	assert.Equal(t, 1, scratch.Blocks())
	assert.Equal(t, 50.0, x.Float64s()[0])

	_, err := w.Dot(x, x)
	require.NoError(t, err)
	assert.Zero(t, scratch.Used())

	w.Close()
	assert.NotPanics(t, func() { scratch.Alloc(8) }, "caller-owned scratch survives Close")
}

func TestWorkspaceDefaults(t *testing.T) {
	w := NewWorkspace(WithEngine(nil), WithScratch(nil), WithScratchCapacity(4096))
	defer w.Close()

	assert.Same(t, engine.Default(), w.Engine())
	assert.Equal(t, engine.Auto, w.Mode())
	assert.Equal(t, 4096, w.Scratch().BlockCapacity())
	assert.Same(t, w.Scratch(), w.Scratch())
}
