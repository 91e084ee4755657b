package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/engine"
	"github.com/cwbudde/algo-tensor/linalg"
	"github.com/cwbudde/algo-tensor/tensor"
)

var errCheckFailed = errors.New("check failed")

// check runs one scenario against a workspace. Results are written to
// alloc, which the caller frees.
type check struct {
	name string
	run  func(w *linalg.Workspace, alloc arena.Allocator, typ tensor.ElementType, size int) (string, error)
}

var checks = []check{
	{"dot", checkDot},
	{"cross", checkCross},
	{"norm1", checkNorm(1, 45)},
	{"norm2", checkNorm(2, math.Sqrt(285))},
	{"normalize", checkNormalize},
	{"sub-tensor", checkSubTensor},
	{"slice", checkSlice},
	{"reduce", checkReduce},
	{"single=multi", checkModes},
}

func seq(alloc arena.Allocator, typ tensor.ElementType, n int, step float64) (*tensor.Vector, error) {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) * step
	}
	return tensor.FromFloat64s(xs, typ, alloc)
}

func want(got, expected, tol float64) error {
	if math.Abs(got-expected) > tol {
		return fmt.Errorf("%w: got %g, want %g", errCheckFailed, got, expected)
	}
	return nil
}

// tolerance covers bf16 rounding of sums above 256.
func tolerance(typ tensor.ElementType, magnitude float64) float64 {
	switch typ {
	case tensor.F16:
		return magnitude / 128
	case tensor.F32:
		return magnitude * 1e-6
	}
	return magnitude * 1e-12
}

func checkDot(w *linalg.Workspace, alloc arena.Allocator, typ tensor.ElementType, _ int) (string, error) {
	a, err := seq(alloc, typ, 10, 1)
	if err != nil {
		return "", err
	}
	b, err := seq(alloc, typ, 10, 2)
	if err != nil {
		return "", err
	}
	d, err := w.Dot(a, b)
	if err != nil {
		return "", err
	}
	return d.String(), want(d.Float64(), 570, tolerance(typ, 570))
}

func checkCross(w *linalg.Workspace, alloc arena.Allocator, typ tensor.ElementType, _ int) (string, error) {
	a, err := seq(alloc, typ, 3, 1)
	if err != nil {
		return "", err
	}
	b, err := tensor.FromFloat64s([]float64{1, 2, 3}, typ, alloc)
	if err != nil {
		return "", err
	}
	c, err := w.Cross(a, b, alloc)
	if err != nil {
		return "", err
	}
	got := c.ToFloat64s()
	for i, e := range []float64{-1, 2, -1} {
		if got[i] != e {
			return fmt.Sprint(got), fmt.Errorf("%w: component %d is %g, want %g", errCheckFailed, i, got[i], e)
		}
	}
	return fmt.Sprint(got), nil
}

func checkNorm(p uint32, expected float64) func(*linalg.Workspace, arena.Allocator, tensor.ElementType, int) (string, error) {
	return func(w *linalg.Workspace, alloc arena.Allocator, typ tensor.ElementType, _ int) (string, error) {
		a, err := seq(alloc, typ, 10, 1)
		if err != nil {
			return "", err
		}
		n, err := w.Norm(a, p, alloc)
		if err != nil {
			return "", err
		}
		return n.String(), want(n.Float64(), expected, tolerance(typ, expected))
	}
}

func checkNormalize(w *linalg.Workspace, alloc arena.Allocator, typ tensor.ElementType, _ int) (string, error) {
	a, err := tensor.FromFloat64s([]float64{3, 4}, typ, alloc)
	if err != nil {
		return "", err
	}
	u, err := w.Normalize(a, alloc)
	if err != nil {
		return "", err
	}
	n, err := w.Norm(u, 2, nil)
	if err != nil {
		return "", err
	}
	return n.String(), want(n.Float64(), 1, tolerance(typ, 1)*4)
}

func checkSubTensor(_ *linalg.Workspace, alloc arena.Allocator, typ tensor.ElementType, _ int) (string, error) {
	t, err := tensor.NewTensor(tensor.NewDimensions(alloc, 4, 4, 4), typ, alloc)
	if err != nil {
		return "", err
	}
	flat := t.Flat()
	for i := 0; i < flat.Size(); i++ {
		if err := flat.Set(i, tensor.ToValue(float64(i), typ)); err != nil {
			return "", err
		}
	}
	sub, err := t.SubTensor(tensor.NewIndex(alloc, 1, 0), alloc)
	if err != nil {
		return "", err
	}
	got := sub.Flat().ToFloat64s()
	for i, e := range []float64{16, 17, 18, 19} {
		if got[i] != e {
			return fmt.Sprint(got), fmt.Errorf("%w: element %d is %g, want %g", errCheckFailed, i, got[i], e)
		}
	}
	return fmt.Sprint(got), nil
}

func checkSlice(_ *linalg.Workspace, alloc arena.Allocator, typ tensor.ElementType, _ int) (string, error) {
	v, err := seq(alloc, typ, 10, 1)
	if err != nil {
		return "", err
	}
	out, err := v.Slice(tensor.NewRange(alloc, 2, 7), alloc)
	if err != nil {
		return "", err
	}
	got := out.ToFloat64s()
	for i, x := range got {
		if x != float64(i+2) {
			return fmt.Sprint(got), fmt.Errorf("%w: element %d is %g", errCheckFailed, i, x)
		}
	}
	if _, err := v.Slice(tensor.NewRange(alloc, 2, 11), alloc); !errors.Is(err, tensor.ErrInvalidSlice) {
		return fmt.Sprint(got), fmt.Errorf("%w: slice past the end accepted", errCheckFailed)
	}
	return fmt.Sprint(got), nil
}

func checkReduce(w *linalg.Workspace, alloc arena.Allocator, typ tensor.ElementType, size int) (string, error) {
	if typ == tensor.F16 {
		// Partial sums lose integer precision past 256.
		size = min(size, 16)
	}
	v, err := seq(alloc, typ, size, 1)
	if err != nil {
		return "", err
	}
	sum, err := w.Reduce(v, linalg.AddOp, tensor.ToValue(0, typ))
	if err != nil {
		return "", err
	}
	expected := float64(size) * float64(size-1) / 2
	return sum.String(), want(sum.Float64(), expected, tolerance(typ, expected))
}

// checkModes runs the same element-wise division on one goroutine and on
// the pool and requires identical bytes.
func checkModes(w *linalg.Workspace, alloc arena.Allocator, typ tensor.ElementType, size int) (string, error) {
	a, err := seq(alloc, typ, size, 0.5)
	if err != nil {
		return "", err
	}
	b, err := seq(alloc, typ, size, 0.25)
	if err != nil {
		return "", err
	}
	if _, err := w.AddScalarInPlace(b, tensor.ToValue(1, typ)); err != nil {
		return "", err
	}

	var out [2]*tensor.Vector
	for i, mode := range []engine.Mode{engine.SingleThread, engine.MultiThread} {
		o, err := tensor.NewVector(size, typ, alloc)
		if err != nil {
			return "", err
		}
		r := w.Engine().Execute(engine.NewElementWise(a, b, o, linalg.DivOp), mode)
		if !r.Success {
			return "", r.Err
		}
		out[i] = o
	}
	sr, mr := out[0].Raw(), out[1].Raw()
	for i := range sr {
		if sr[i] != mr[i] {
			return "", fmt.Errorf("%w: byte %d differs", errCheckFailed, i)
		}
	}
	return fmt.Sprintf("%d elements", size), nil
}
