// Package engine applies scalar functions across arena buffers.
//
// A Task names the operands, the operation kind and the function to apply.
// Execute runs it on the calling goroutine or splits it into contiguous
// chunks across a pool.Pool, depending on the Mode and the operation count.
// Within each chunk, float32 functions tagged with a known Kernel run
// through the batched kernels of internal/vecmath, and a float64 multiply
// runs through algo-vecmath. The tail that does not fill a batch and every
// untagged function run as a scalar loop.
//
// Outputs are allocated by the caller before Execute. Workers only write
// disjoint ranges of them and never allocate.
package engine

import "errors"

var (
	// ErrTensorUnsupported reports a task built over tensor operands. Use
	// Tensor.Flat to run element-wise work on a tensor payload.
	ErrTensorUnsupported = errors.New("engine: tensor operands are not supported")

	// ErrWorkerFailed reports a multi-threaded task where a chunk failed.
	ErrWorkerFailed = errors.New("engine: worker failed")

	// ErrBadResult reports a function that returned a value of the wrong
	// type (typically the invalid sentinel).
	ErrBadResult = errors.New("engine: function returned a value of the wrong type")

	// ErrInvalidTask reports missing operands or an unknown operation.
	ErrInvalidTask = errors.New("engine: invalid task")
)
