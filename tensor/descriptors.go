package tensor

import (
	"fmt"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/internal/logging"
)

// uint32s allocates n coordinates from alloc; a nil result is fatal.
func uint32s(alloc arena.Allocator, n int) []uint32 {
	if alloc == nil {
		logging.Fatalf("tensor: nil allocator")
	}
	if n < 0 {
		logging.Fatalf("tensor: negative descriptor length %d", n)
	}
	out := arena.Slice[uint32](alloc, n)
	if out == nil {
		logging.Fatalf("tensor: cannot allocate %d coordinates", n)
	}
	return out
}

// Dimensions is an ordered list of extents.
type Dimensions struct {
	dims []uint32
}

// NewDimensions copies dims into alloc.
func NewDimensions(alloc arena.Allocator, dims ...uint32) *Dimensions {
	d := NewEmptyDimensions(alloc, len(dims))
	copy(d.dims, dims)
	return d
}

// NewEmptyDimensions reserves count extents. Their values are unspecified
// until written through Extents.
func NewEmptyDimensions(alloc arena.Allocator, count int) *Dimensions {
	return &Dimensions{dims: uint32s(alloc, count)}
}

// Count returns the number of dimensions.
func (d *Dimensions) Count() int {
	return len(d.dims)
}

// At returns extent i.
func (d *Dimensions) At(i int) uint32 {
	return d.dims[i]
}

// Extents exposes the underlying extents.
func (d *Dimensions) Extents() []uint32 {
	return d.dims
}

// Size returns the product of all extents.
func (d *Dimensions) Size() int {
	n := 1
	for _, e := range d.dims {
		n *= int(e)
	}
	return n
}

// Strides returns the row-major stride of each dimension.
func (d *Dimensions) Strides() []int {
	strides := make([]int, len(d.dims))
	acc := 1
	for i := len(d.dims) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= int(d.dims[i])
	}
	return strides
}

// Clone deep-copies d into alloc.
func (d *Dimensions) Clone(alloc arena.Allocator) *Dimensions {
	return NewDimensions(alloc, d.dims...)
}

func (d *Dimensions) String() string {
	return formatUint32s(d.dims)
}

// Index is a coordinate per dimension, or a prefix of them.
type Index struct {
	coords []uint32
}

// NewIndex copies coords into alloc.
func NewIndex(alloc arena.Allocator, coords ...uint32) *Index {
	ix := NewEmptyIndex(alloc, len(coords))
	copy(ix.coords, coords)
	return ix
}

// NewEmptyIndex reserves count coordinates.
func NewEmptyIndex(alloc arena.Allocator, count int) *Index {
	return &Index{coords: uint32s(alloc, count)}
}

// Count returns the number of coordinates.
func (ix *Index) Count() int {
	return len(ix.coords)
}

// Coords exposes the underlying coordinates.
func (ix *Index) Coords() []uint32 {
	return ix.coords
}

// Clone deep-copies ix into alloc.
func (ix *Index) Clone(alloc arena.Allocator) *Index {
	return NewIndex(alloc, ix.coords...)
}

func (ix *Index) String() string {
	return formatUint32s(ix.coords)
}

// Slice is a half-open range [start, end) per addressed dimension.
type Slice struct {
	starts []uint32
	ends   []uint32
}

// NewSlice copies starts and ends into alloc. They must have equal length.
func NewSlice(alloc arena.Allocator, starts, ends []uint32) *Slice {
	if len(starts) != len(ends) {
		logging.Fatalf("tensor: slice has %d starts and %d ends", len(starts), len(ends))
	}
	s := NewEmptySlice(alloc, len(starts))
	copy(s.starts, starts)
	copy(s.ends, ends)
	return s
}

// NewRange is a one-dimensional slice [start, end).
func NewRange(alloc arena.Allocator, start, end uint32) *Slice {
	return NewSlice(alloc, []uint32{start}, []uint32{end})
}

// NewEmptySlice reserves count ranges.
func NewEmptySlice(alloc arena.Allocator, count int) *Slice {
	return &Slice{starts: uint32s(alloc, count), ends: uint32s(alloc, count)}
}

// Count returns the number of ranges.
func (s *Slice) Count() int {
	return len(s.starts)
}

// Range returns range i.
func (s *Slice) Range(i int) (start, end uint32) {
	return s.starts[i], s.ends[i]
}

// Starts exposes the range starts.
func (s *Slice) Starts() []uint32 {
	return s.starts
}

// Ends exposes the range ends.
func (s *Slice) Ends() []uint32 {
	return s.ends
}

// Clone deep-copies s into alloc.
func (s *Slice) Clone(alloc arena.Allocator) *Slice {
	return NewSlice(alloc, s.starts, s.ends)
}

// check validates range i against an extent.
func (s *Slice) check(i int, extent uint32) error {
	start, end := s.starts[i], s.ends[i]
	if start >= end || end > extent {
		return fmt.Errorf("%w: [%d, %d) in dimension %d of size %d", ErrInvalidSlice, start, end, i, extent)
	}
	return nil
}

func formatUint32s(xs []uint32) string {
	buf := make([]byte, 0, 2+4*len(xs))
	buf = append(buf, '[')
	for i, x := range xs {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = fmt.Appendf(buf, "%d", x)
	}
	return string(append(buf, ']'))
}
