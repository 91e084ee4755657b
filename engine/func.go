package engine

import "github.com/cwbudde/algo-tensor/tensor"

// Func is the function a task applies. It is one of Binary, Unary or
// BinaryArg; the task constructors fix which one each OpKind takes.
type Func interface {
	known() Kernel
	isFunc()
}

// Binary is a two-operand scalar function.
type Binary struct {
	Fn    func(a, b tensor.Value) tensor.Value
	Known Kernel
}

// Unary is a one-operand scalar function.
type Unary struct {
	Fn    func(a tensor.Value) tensor.Value
	Known Kernel
}

// BinaryArg is a scalar function with a fixed extra argument. With Known
// set, the batched path applies when the argument is a tensor.Value (or
// *tensor.Value) of the operand type.
type BinaryArg struct {
	Fn    func(a tensor.Value, arg any) tensor.Value
	Known Kernel
}

func (f Binary) known() Kernel    { return f.Known }
func (f Unary) known() Kernel     { return f.Known }
func (f BinaryArg) known() Kernel { return f.Known }

func (Binary) isFunc()    {}
func (Unary) isFunc()     {}
func (BinaryArg) isFunc() {}

// argValue extracts the scalar an arg-function was given, if any.
func argValue(arg any) (tensor.Value, bool) {
	switch v := arg.(type) {
	case tensor.Value:
		return v, true
	case *tensor.Value:
		if v != nil {
			return *v, true
		}
	}
	return tensor.Value{}, false
}
