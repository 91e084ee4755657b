// Package linalg implements scalar arithmetic over tensor.Value and the
// vector operations built on it.
//
// Vector operations run through an engine.Engine owned by a Workspace.
// Each has an allocating form, which writes a new vector into the given
// allocator, and an in-place form, which computes into the workspace's
// scratch arena, copies the result over the first operand and resets the
// scratch arena. A Workspace is not safe for concurrent use.
package linalg

import "errors"

var (
	// ErrZeroNorm reports normalisation of a zero vector.
	ErrZeroNorm = errors.New("linalg: zero norm")

	// ErrInvalidNorm reports a norm order of 0.
	ErrInvalidNorm = errors.New("linalg: norm order must be at least 1")

	// ErrNotThreeD reports a cross product on vectors that are not of size 3.
	ErrNotThreeD = errors.New("linalg: cross product needs vectors of size 3")
)
