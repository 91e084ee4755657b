package arena

import (
	"fmt"
	"unsafe"
)

// Plain lists the pointer-free element types that may live in arena memory.
type Plain interface {
	~uint16 | ~uint32 | ~uint64 | ~int32 | ~int64 | ~float32 | ~float64
}

// Slice allocates n elements of T from a. It returns nil when the arena
// cannot serve the request.
func Slice[T Plain](a Allocator, n int) []T {
	var zero T
	raw := a.Alloc(n * int(unsafe.Sizeof(zero)))
	if raw == nil {
		return nil
	}
	return View[T](raw)
}

// View reinterprets raw as a slice of T. raw must come from an arena (or be
// otherwise aligned for T); trailing bytes that do not fill a T are dropped.
func View[T Plain](raw []byte) []T {
	var zero T
	n := len(raw) / int(unsafe.Sizeof(zero))
	if n == 0 {
		return []T{}
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(raw))), n)
}

// Checked is Alloc with a reason attached to the failure.
func Checked(a Allocator, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("arena: negative allocation %d", size)
	}
	p := a.Alloc(size)
	if p == nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	return p, nil
}
