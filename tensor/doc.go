// Package tensor defines the typed scalar and array model of the engine:
// ElementType, Value, the Dimensions/Index/Slice descriptors, and the Vector
// and Tensor containers.
//
// Every payload and descriptor array is drawn from an arena.Allocator and
// lives until that arena is reset or freed. The Go structs that describe
// them are ordinary heap values. Containers are row-major: the last
// dimension varies fastest.
//
// Validation failures (type, size, index, rank, slice range) are reported
// as errors wrapping the sentinels below. Value-returning scalar helpers
// return the invalid Value{} instead and log the cause, since they have no
// error result.
package tensor

import "errors"

var (
	// ErrTypeMismatch reports operands of different element types.
	ErrTypeMismatch = errors.New("tensor: element type mismatch")

	// ErrSizeMismatch reports operands or buffers of different lengths.
	ErrSizeMismatch = errors.New("tensor: size mismatch")

	// ErrIndexOutOfRange reports a coordinate outside its dimension.
	ErrIndexOutOfRange = errors.New("tensor: index out of range")

	// ErrRankMismatch reports an index or slice whose length does not fit
	// the tensor's rank.
	ErrRankMismatch = errors.New("tensor: rank mismatch")

	// ErrInvalidSlice reports an empty or out-of-bounds range.
	ErrInvalidSlice = errors.New("tensor: invalid slice")

	// ErrUnsupportedType reports an element type outside {F16, F32, F64}.
	ErrUnsupportedType = errors.New("tensor: unsupported element type")

	// ErrInvalidSize reports a negative size or an empty shape.
	ErrInvalidSize = errors.New("tensor: invalid size")
)
