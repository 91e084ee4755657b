package tensor

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/internal/logging"
)

// payload allocates n elements of typ. A failed payload allocation is fatal.
func payload(alloc arena.Allocator, n int, typ ElementType) []byte {
	if alloc == nil {
		logging.Fatalf("tensor: nil allocator")
	}
	data := alloc.Alloc(n * typ.Size())
	if data == nil {
		logging.Fatalf("tensor: cannot allocate %d %s elements", n, typ)
	}
	return data
}

// load reads element i of data, which holds elements of typ.
func load(data []byte, typ ElementType, i int) Value {
	switch typ {
	case F16:
		return FromBF16(arena.View[bfloat16.BFloat16](data)[i])
	case F32:
		return Value{typ: F32, bits: uint64(arena.View[uint32](data)[i])}
	case F64:
		return Value{typ: F64, bits: arena.View[uint64](data)[i]}
	default:
		return Value{}
	}
}

// store writes v, which must already have type typ, into element i.
func store(data []byte, typ ElementType, i int, v Value) {
	switch typ {
	case F16:
		arena.View[uint16](data)[i] = uint16(v.bits)
	case F32:
		arena.View[uint32](data)[i] = uint32(v.bits)
	case F64:
		arena.View[uint64](data)[i] = v.bits
	}
}

// convertForStore returns v as typ, warning when a conversion happens.
func convertForStore(v Value, typ ElementType, what string) Value {
	if v.typ == typ {
		return v
	}
	logging.Logger().Warn("tensor: type mismatch, converting value",
		"container", what, "container_type", typ, "value_type", v.typ)
	return v.As(typ)
}

// fillFloat64s stores xs into data element by element.
func fillFloat64s(data []byte, typ ElementType, xs []float64) {
	switch typ {
	case F16:
		dst := arena.View[bfloat16.BFloat16](data)
		for i, x := range xs {
			dst[i] = RoundBF16(x)
		}
	case F32:
		dst := arena.View[float32](data)
		for i, x := range xs {
			dst[i] = float32(x)
		}
	case F64:
		copy(arena.View[float64](data), xs)
	}
}

// LoadAt returns element i of raw, a payload of typ. It does not bounds
// check beyond the slice itself; engine loops use it on validated ranges.
func LoadAt(raw []byte, typ ElementType, i int) Value {
	return load(raw, typ, i)
}

// StoreAt writes v into element i of raw. v must already have type typ.
func StoreAt(raw []byte, typ ElementType, i int, v Value) {
	store(raw, typ, i, v)
}

// Buffer is what the engine needs from a container.
type Buffer interface {
	Type() ElementType
	Len() int
	Raw() []byte
}

var (
	_ Buffer = (*Vector)(nil)
	_ Buffer = (*Tensor)(nil)
)
