package tensor

import (
	"fmt"

	"github.com/cwbudde/algo-tensor/arena"
)

// Tensor is an N-dimensional row-major array.
type Tensor struct {
	data    []byte
	dims    *Dimensions
	strides []int
	size    int
	typ     ElementType
}

// NewTensor allocates an uninitialised tensor. dims is cloned into alloc, so
// the caller's descriptor may come from a different arena.
func NewTensor(dims *Dimensions, typ ElementType, alloc arena.Allocator) (*Tensor, error) {
	if err := checkType(typ); err != nil {
		return nil, err
	}
	if dims == nil || dims.Count() == 0 {
		return nil, fmt.Errorf("%w: tensor needs at least one dimension", ErrInvalidSize)
	}
	owned := dims.Clone(alloc)
	size := owned.Size()
	return &Tensor{
		data:    payload(alloc, size, typ),
		dims:    owned,
		strides: owned.Strides(),
		size:    size,
		typ:     typ,
	}, nil
}

// Dims returns the tensor's own dimensions.
func (t *Tensor) Dims() *Dimensions { return t.dims }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return t.dims.Count() }

// Size returns the element count.
func (t *Tensor) Size() int { return t.size }

// Len is Size.
func (t *Tensor) Len() int { return t.size }

// Type returns the element type.
func (t *Tensor) Type() ElementType { return t.typ }

// Raw returns the payload bytes.
func (t *Tensor) Raw() []byte { return t.data }

// Flat returns a vector sharing t's payload.
func (t *Tensor) Flat() *Vector {
	return &Vector{data: t.data, size: t.size, typ: t.typ}
}

// offset flattens a full index.
func (t *Tensor) offset(ix *Index) (int, error) {
	if ix.Count() != t.Rank() {
		return 0, fmt.Errorf("%w: index has %d coordinates, tensor has %d dimensions",
			ErrRankMismatch, ix.Count(), t.Rank())
	}
	flat := 0
	for i, c := range ix.coords {
		if c >= t.dims.dims[i] {
			return 0, fmt.Errorf("%w: %d in dimension %d of size %d",
				ErrIndexOutOfRange, c, i, t.dims.dims[i])
		}
		flat += int(c) * t.strides[i]
	}
	return flat, nil
}

// Get returns the element at ix, which must address every dimension.
func (t *Tensor) Get(ix *Index) (Value, error) {
	off, err := t.offset(ix)
	if err != nil {
		return Value{}, err
	}
	return load(t.data, t.typ, off), nil
}

// Set stores val at ix, converting with a warning on type mismatch.
func (t *Tensor) Set(ix *Index, val Value) error {
	off, err := t.offset(ix)
	if err != nil {
		return err
	}
	if !val.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, val.typ)
	}
	store(t.data, t.typ, off, convertForStore(val, t.typ, "tensor"))
	return nil
}

// Clone deep-copies t into alloc.
func (t *Tensor) Clone(alloc arena.Allocator) *Tensor {
	dims := t.dims.Clone(alloc)
	out := &Tensor{
		data:    payload(alloc, t.size, t.typ),
		dims:    dims,
		strides: dims.Strides(),
		size:    t.size,
		typ:     t.typ,
	}
	copy(out.data, t.data)
	return out
}

// Load copies count elements of raw into t with the same truncate and
// zero-fill rules as Vector.Load.
func (t *Tensor) Load(raw []byte, count int) error {
	return loadInto(t.data, t.size, t.typ, raw, count, "tensor")
}

// SubTensor returns a copy of the slab at prefix over the trailing
// dimensions. The prefix must be shorter than the rank.
func (t *Tensor) SubTensor(prefix *Index, alloc arena.Allocator) (*Tensor, error) {
	k := prefix.Count()
	if k >= t.Rank() {
		return nil, fmt.Errorf("%w: prefix of %d coordinates for rank %d", ErrRankMismatch, k, t.Rank())
	}
	for i, c := range prefix.coords {
		if c >= t.dims.dims[i] {
			return nil, fmt.Errorf("%w: %d in dimension %d of size %d",
				ErrIndexOutOfRange, c, i, t.dims.dims[i])
		}
	}

	sub, err := NewTensor(NewDimensions(alloc, t.dims.dims[k:]...), t.typ, alloc)
	if err != nil {
		return nil, err
	}

	full := NewEmptyIndex(alloc, t.Rank())
	copy(full.coords, prefix.coords)
	tail := full.coords[k:]
	for flat := 0; flat < sub.size; flat++ {
		decompose(flat, sub.dims.dims, tail)
		off, _ := t.offset(full)
		store(sub.data, sub.typ, flat, load(t.data, t.typ, off))
	}
	return sub, nil
}

// Slice copies the rectangular region s, which needs one non-empty range
// per dimension.
func (t *Tensor) Slice(s *Slice, alloc arena.Allocator) (*Tensor, error) {
	if s.Count() != t.Rank() {
		return nil, fmt.Errorf("%w: slice has %d ranges, tensor has %d dimensions",
			ErrRankMismatch, s.Count(), t.Rank())
	}
	extents := make([]uint32, t.Rank())
	for i := range extents {
		if err := s.check(i, t.dims.dims[i]); err != nil {
			return nil, err
		}
		extents[i] = s.ends[i] - s.starts[i]
	}

	out, err := NewTensor(NewDimensions(alloc, extents...), t.typ, alloc)
	if err != nil {
		return nil, err
	}

	src := NewEmptyIndex(alloc, t.Rank())
	for flat := 0; flat < out.size; flat++ {
		decompose(flat, extents, src.coords)
		for i := range src.coords {
			src.coords[i] += s.starts[i]
		}
		off, _ := t.offset(src)
		store(out.data, out.typ, flat, load(t.data, t.typ, off))
	}
	return out, nil
}

// decompose writes the row-major coordinates of flat within dims to dst.
func decompose(flat int, dims []uint32, dst []uint32) {
	for i := len(dims) - 1; i >= 0; i-- {
		d := int(dims[i])
		dst[i] = uint32(flat % d)
		flat /= d
	}
}
