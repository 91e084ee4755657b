package linalg

import (
	"math"

	"github.com/cwbudde/algo-tensor/internal/logging"
	"github.com/cwbudde/algo-tensor/tensor"
)

// binary applies a float32 or float64 operator according to the common
// type of a and b. bf16 is computed in float32 and rounded to nearest even. Mismatched
// or unsupported types yield the invalid Value{}.
func binary(name string, a, b tensor.Value, f32 func(x, y float32) float32, f64 func(x, y float64) float64) tensor.Value {
	if a.Type() != b.Type() {
		logging.Logger().Error("linalg: type mismatch", "op", name, "a", a.Type(), "b", b.Type())
		return tensor.Value{}
	}
	switch a.Type() {
	case tensor.F16:
		return tensor.FromBF16(tensor.RoundBF16(float64(f32(a.Float32(), b.Float32()))))
	case tensor.F32:
		return tensor.FromF32(f32(a.Float32(), b.Float32()))
	case tensor.F64:
		return tensor.FromF64(f64(a.Float64(), b.Float64()))
	default:
		logging.Logger().Error("linalg: unsupported element type", "op", name, "type", a.Type())
		return tensor.Value{}
	}
}

// Add returns a + b.
func Add(a, b tensor.Value) tensor.Value {
	return binary("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub returns a - b.
func Sub(a, b tensor.Value) tensor.Value {
	return binary("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul returns a * b.
func Mul(a, b tensor.Value) tensor.Value {
	return binary("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div returns a / b. Division by zero follows IEEE-754.
func Div(a, b tensor.Value) tensor.Value {
	return binary("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// Pow returns a raised to b.
func Pow(a, b tensor.Value) tensor.Value {
	return binary("pow", a, b,
		func(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) },
		math.Pow)
}

// Root returns a^(1/b).
func Root(a, b tensor.Value) tensor.Value {
	return binary("root", a, b,
		func(x, y float32) float32 { return float32(math.Pow(float64(x), 1/float64(y))) },
		func(x, y float64) float64 { return math.Pow(x, 1/y) })
}

// Abs returns |a|.
func Abs(a tensor.Value) tensor.Value {
	switch a.Type() {
	case tensor.F16:
		return tensor.FromBF16(a.BF16() &^ 0x8000)
	case tensor.F32:
		return tensor.FromF32(math.Float32frombits(math.Float32bits(a.Float32()) &^ (1 << 31)))
	case tensor.F64:
		return tensor.FromF64(math.Abs(a.Float64()))
	default:
		logging.Logger().Error("linalg: unsupported element type", "op", "abs", "type", a.Type())
		return tensor.Value{}
	}
}

// argValue unwraps the argument of a _WithArg function.
func argValue(name string, arg any) (tensor.Value, bool) {
	switch v := arg.(type) {
	case tensor.Value:
		return v, true
	case *tensor.Value:
		if v != nil {
			return *v, true
		}
	}
	logging.Logger().Error("linalg: argument is not a value", "op", name, "arg", arg)
	return tensor.Value{}, false
}

func withArg(name string, fn func(a, b tensor.Value) tensor.Value) func(tensor.Value, any) tensor.Value {
	return func(a tensor.Value, arg any) tensor.Value {
		b, ok := argValue(name, arg)
		if !ok {
			return tensor.Value{}
		}
		return fn(a, b)
	}
}

// The _WithArg forms take the second operand as a tensor.Value or
// *tensor.Value passed through an untyped argument, for use with MapWithArg.
var (
	AddWithArg  = withArg("add", Add)
	SubWithArg  = withArg("sub", Sub)
	MulWithArg  = withArg("mul", Mul)
	DivWithArg  = withArg("div", Div)
	PowWithArg  = withArg("pow", Pow)
	RootWithArg = withArg("root", Root)
)
