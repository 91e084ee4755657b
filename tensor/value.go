package tensor

import (
	"fmt"
	"math"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/cwbudde/algo-tensor/internal/logging"
)

// Value is a scalar tagged with its ElementType. The payload is kept as raw
// bits so a same-type round trip is exact. Value{} is the invalid sentinel.
type Value struct {
	typ  ElementType
	bits uint64
}

// ToValue converts x to type t. An unsupported t yields Value{}.
func ToValue(x float64, t ElementType) Value {
	switch t {
	case F16:
		return FromBF16(RoundBF16(x))
	case F32:
		return FromF32(float32(x))
	case F64:
		return FromF64(x)
	default:
		logging.Logger().Error("tensor: unsupported element type", "type", t)
		return Value{}
	}
}

// FromBF16 wraps a bf16 scalar.
func FromBF16(b bfloat16.BFloat16) Value {
	return Value{typ: F16, bits: uint64(b)}
}

// FromF32 wraps a float32 scalar.
func FromF32(f float32) Value {
	return Value{typ: F32, bits: uint64(math.Float32bits(f))}
}

// FromF64 wraps a float64 scalar.
func FromF64(f float64) Value {
	return Value{typ: F64, bits: math.Float64bits(f)}
}

// Type returns the tag of v.
func (v Value) Type() ElementType {
	return v.typ
}

// Valid reports whether v carries a supported type.
func (v Value) Valid() bool {
	return v.typ.Valid()
}

// Float64 widens v to float64. The sentinel converts to 0.
func (v Value) Float64() float64 {
	switch v.typ {
	case F16:
		return float64(bfloat16.BFloat16(uint16(v.bits)).Float32())
	case F32:
		return float64(math.Float32frombits(uint32(v.bits)))
	case F64:
		return math.Float64frombits(v.bits)
	default:
		logging.Logger().Error("tensor: unsupported element type", "type", v.typ)
		return 0
	}
}

// Float32 converts v to float32 (through float64 for F64).
func (v Value) Float32() float32 {
	if v.typ == F32 {
		return math.Float32frombits(uint32(v.bits))
	}
	return float32(v.Float64())
}

// BF16 converts v to bf16.
func (v Value) BF16() bfloat16.BFloat16 {
	if v.typ == F16 {
		return bfloat16.BFloat16(uint16(v.bits))
	}
	return RoundBF16(v.Float64())
}

// As converts v to t through float64. Converting to the same type returns v
// unchanged.
func (v Value) As(t ElementType) Value {
	if v.typ == t && t.Valid() {
		return v
	}
	if !v.Valid() {
		logging.Logger().Error("tensor: cast of invalid value", "target", t)
		return Value{}
	}
	return ToValue(v.Float64(), t)
}

// Equal reports bit equality of type and payload.
func (v Value) Equal(w Value) bool {
	return v == w
}

func (v Value) String() string {
	if !v.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("%s(%g)", v.typ, v.Float64())
}
