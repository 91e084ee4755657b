package tensor

import (
	"fmt"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/internal/logging"
)

// Vector is a flat, homogeneously typed array whose payload lives in an
// arena.
type Vector struct {
	data []byte
	size int
	typ  ElementType
}

// NewVector allocates an uninitialised vector of size elements. Contents are
// whatever the arena block held.
func NewVector(size int, typ ElementType, alloc arena.Allocator) (*Vector, error) {
	if err := checkType(typ); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Vector{data: payload(alloc, size, typ), size: size, typ: typ}, nil
}

// FromFloat64s builds a vector of typ holding xs converted element-wise.
func FromFloat64s(xs []float64, typ ElementType, alloc arena.Allocator) (*Vector, error) {
	v, err := NewVector(len(xs), typ, alloc)
	if err != nil {
		return nil, err
	}
	fillFloat64s(v.data, typ, xs)
	return v, nil
}

// Size returns the element count.
func (v *Vector) Size() int { return v.size }

// Type returns the element type.
func (v *Vector) Type() ElementType { return v.typ }

// Raw returns the payload bytes.
func (v *Vector) Raw() []byte { return v.data }

// Len is Size, for callers that treat vectors as generic buffers.
func (v *Vector) Len() int { return v.size }

// Float32s views the payload as float32. It returns nil unless the type is F32.
func (v *Vector) Float32s() []float32 {
	if v.typ != F32 {
		return nil
	}
	return arena.View[float32](v.data)
}

// Float64s views the payload as float64. It returns nil unless the type is F64.
func (v *Vector) Float64s() []float64 {
	if v.typ != F64 {
		return nil
	}
	return arena.View[float64](v.data)
}

// BFloat16s views the payload as bf16. It returns nil unless the type is F16.
func (v *Vector) BFloat16s() []bfloat16.BFloat16 {
	if v.typ != F16 {
		return nil
	}
	return arena.View[bfloat16.BFloat16](v.data)
}

// ToFloat64s copies the elements out as float64.
func (v *Vector) ToFloat64s() []float64 {
	out := make([]float64, v.size)
	for i := range out {
		out[i] = load(v.data, v.typ, i).Float64()
	}
	return out
}

// Get returns element i.
func (v *Vector) Get(i int) (Value, error) {
	if i < 0 || i >= v.size {
		return Value{}, fmt.Errorf("%w: %d for vector of size %d", ErrIndexOutOfRange, i, v.size)
	}
	return load(v.data, v.typ, i), nil
}

// Set stores val at i, converting it to the vector's type with a warning
// when the types differ.
func (v *Vector) Set(i int, val Value) error {
	if i < 0 || i >= v.size {
		return fmt.Errorf("%w: %d for vector of size %d", ErrIndexOutOfRange, i, v.size)
	}
	if !val.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, val.typ)
	}
	store(v.data, v.typ, i, convertForStore(val, v.typ, "vector"))
	return nil
}

// Clone deep-copies v into alloc.
func (v *Vector) Clone(alloc arena.Allocator) *Vector {
	out := &Vector{data: payload(alloc, v.size, v.typ), size: v.size, typ: v.typ}
	copy(out.data, v.data)
	return out
}

// CopyFrom overwrites v with src. Both must have the same size and type.
func (v *Vector) CopyFrom(src *Vector) error {
	if err := SameShape(v, src); err != nil {
		return err
	}
	copy(v.data, src.data)
	return nil
}

// Load copies count elements of raw, encoded in v's type with native byte
// order, into v. Extra elements are dropped and missing ones zeroed, each
// with a warning.
func (v *Vector) Load(raw []byte, count int) error {
	return loadInto(v.data, v.size, v.typ, raw, count, "vector")
}

// Slice copies the range described by s, which must have exactly one
// dimension with 0 <= start < end <= Size.
func (v *Vector) Slice(s *Slice, alloc arena.Allocator) (*Vector, error) {
	if s.Count() != 1 {
		return nil, fmt.Errorf("%w: vector slice needs 1 range, got %d", ErrRankMismatch, s.Count())
	}
	if err := s.check(0, uint32(v.size)); err != nil {
		return nil, err
	}
	start, end := s.Range(0)
	es := v.typ.Size()

	out := &Vector{data: payload(alloc, int(end-start), v.typ), size: int(end - start), typ: v.typ}
	copy(out.data, v.data[int(start)*es:int(end)*es])
	return out, nil
}

// SameShape checks that a and b have equal type and size.
func SameShape(a, b *Vector) error {
	if a.typ != b.typ {
		return fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, a.typ, b.typ)
	}
	if a.size != b.size {
		return fmt.Errorf("%w: %d vs %d", ErrSizeMismatch, a.size, b.size)
	}
	return nil
}

func loadInto(dst []byte, size int, typ ElementType, raw []byte, count int, what string) error {
	if count < 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidSize, count)
	}
	es := typ.Size()
	if len(raw) < count*es {
		return fmt.Errorf("%w: %d bytes for %d %s elements", ErrSizeMismatch, len(raw), count, typ)
	}

	switch {
	case count > size:
		logging.Logger().Warn("tensor: data exceeds capacity, truncating",
			"container", what, "count", count, "capacity", size)
		count = size
	case count < size:
		logging.Logger().Warn("tensor: data shorter than capacity, zeroing remainder",
			"container", what, "count", count, "capacity", size)
		clear(dst[count*es : size*es])
	}
	copy(dst, raw[:count*es])
	return nil
}
