package linalg

import (
	"fmt"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/engine"
	"github.com/cwbudde/algo-tensor/tensor"
)

// Dot returns the sum of a[i] * b[i]. The products are written to scratch
// and reduced with Add from zero.
func (w *Workspace) Dot(a, b *tensor.Vector) (tensor.Value, error) {
	if err := tensor.SameShape(a, b); err != nil {
		return tensor.Value{}, err
	}
	s := w.Scratch()
	defer s.Reset()

	prod, err := w.elementWise(a, b, MulOp, s)
	if err != nil {
		return tensor.Value{}, err
	}
	return w.execute(engine.NewReduce(prod, tensor.ToValue(0, a.Type()), AddOp))
}

// DotFused computes the same sum in one pass without a temporary vector.
// Float rounding may differ from Dot because products are summed as they
// are produced.
func (w *Workspace) DotFused(a, b *tensor.Vector) (tensor.Value, error) {
	if err := tensor.SameShape(a, b); err != nil {
		return tensor.Value{}, err
	}
	return w.execute(engine.NewDot(a, b, tensor.ToValue(0, a.Type()), MulOp, AddOp))
}

func check3(a, b *tensor.Vector) error {
	if err := tensor.SameShape(a, b); err != nil {
		return err
	}
	if a.Size() != 3 {
		return fmt.Errorf("%w: got %d", ErrNotThreeD, a.Size())
	}
	return nil
}

// cross writes a x b into out, which may not alias a or b.
func cross(a, b, out *tensor.Vector) error {
	var x, y [3]tensor.Value
	for i := range x {
		x[i], _ = a.Get(i)
		y[i], _ = b.Get(i)
	}
	r := [3]tensor.Value{
		Sub(Mul(x[1], y[2]), Mul(x[2], y[1])),
		Sub(Mul(x[2], y[0]), Mul(x[0], y[2])),
		Sub(Mul(x[0], y[1]), Mul(x[1], y[0])),
	}
	for i, v := range r {
		if err := out.Set(i, v); err != nil {
			return err
		}
	}
	return nil
}

// Cross returns the 3-D cross product a x b.
func (w *Workspace) Cross(a, b *tensor.Vector, alloc arena.Allocator) (*tensor.Vector, error) {
	if err := check3(a, b); err != nil {
		return nil, err
	}
	out, err := tensor.NewVector(3, a.Type(), alloc)
	if err != nil {
		return nil, err
	}
	if err := cross(a, b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CrossInPlace stores a x b into a.
func (w *Workspace) CrossInPlace(a, b *tensor.Vector) (*tensor.Vector, error) {
	if err := check3(a, b); err != nil {
		return nil, err
	}
	s := w.Scratch()
	defer s.Reset()

	out, err := tensor.NewVector(3, a.Type(), s)
	if err != nil {
		return nil, err
	}
	if err := cross(a, b, out); err != nil {
		return nil, err
	}
	if err := a.CopyFrom(out); err != nil {
		return nil, err
	}
	return a, nil
}

// Norm returns the p-norm of a: the sum of |a[i]| for p == 1, otherwise the
// p-th root of the sum of a[i]^p. Temporaries go to tmp; with a nil tmp they
// go to the scratch arena, which is reset afterwards. An empty vector has
// no norm.
func (w *Workspace) Norm(a *tensor.Vector, p uint32, tmp arena.Allocator) (tensor.Value, error) {
	if p == 0 {
		return tensor.Value{}, ErrInvalidNorm
	}
	if a.Size() == 0 {
		return tensor.Value{}, fmt.Errorf("%w: norm of an empty vector", tensor.ErrInvalidSize)
	}
	if tmp == nil {
		s := w.Scratch()
		defer s.Reset()
		tmp = s
	}

	typ := a.Type()
	var terms *tensor.Vector
	var err error
	if p == 1 {
		terms, err = w.Map(a, AbsOp, tmp)
	} else {
		terms, err = w.MapWithArg(a, PowArgOp, tensor.ToValue(float64(p), typ), tmp)
	}
	if err != nil {
		return tensor.Value{}, err
	}

	sum, err := w.execute(engine.NewReduce(terms, tensor.ToValue(0, typ), AddOp))
	if err != nil {
		return tensor.Value{}, err
	}
	if p == 1 {
		return sum, nil
	}
	return Root(sum, tensor.ToValue(float64(p), typ)), nil
}

// Normalize returns a divided by its 2-norm.
func (w *Workspace) Normalize(a *tensor.Vector, alloc arena.Allocator) (*tensor.Vector, error) {
	n, err := w.nonZeroNorm(a)
	if err != nil {
		return nil, err
	}
	return w.DivScalar(a, n, alloc)
}

// NormalizeInPlace divides a by its 2-norm.
func (w *Workspace) NormalizeInPlace(a *tensor.Vector) (*tensor.Vector, error) {
	n, err := w.nonZeroNorm(a)
	if err != nil {
		return nil, err
	}
	return w.DivScalarInPlace(a, n)
}

func (w *Workspace) nonZeroNorm(a *tensor.Vector) (tensor.Value, error) {
	n, err := w.Norm(a, 2, nil)
	if err != nil {
		return tensor.Value{}, err
	}
	if n.Float64() == 0 {
		return tensor.Value{}, ErrZeroNorm
	}
	return n, nil
}
