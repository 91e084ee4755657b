package arena

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-tensor/internal/logging"
)

// ErrRegionTooSmall reports a region that cannot hold a single block.
var ErrRegionTooSmall = errors.New("arena: region smaller than one block")

// Region is a caller-owned memory area split into equal blocks. Several
// static arenas may share one region; each takes blocks on demand.
type Region struct {
	mem      []byte
	capacity int
	inUse    []bool
}

// NewRegion splits mem into blocks of blockCapacity bytes. Bytes beyond the
// last whole block are unused.
func NewRegion(mem []byte, blockCapacity int) (*Region, error) {
	if blockCapacity <= 0 {
		return nil, fmt.Errorf("arena: invalid block capacity %d", blockCapacity)
	}
	blockCapacity = alignUp(blockCapacity)

	// Skip to the first aligned byte of mem.
	start := 0
	if len(mem) > 0 {
		if mod := addrOf(mem) % Alignment; mod != 0 {
			start = int(Alignment - mod)
		}
	}
	if start > len(mem) || (len(mem)-start)/blockCapacity == 0 {
		return nil, fmt.Errorf("%w: %d bytes, block %d", ErrRegionTooSmall, len(mem), blockCapacity)
	}

	mem = mem[start:]
	n := len(mem) / blockCapacity
	return &Region{
		mem:      mem[:n*blockCapacity],
		capacity: blockCapacity,
		inUse:    make([]bool, n),
	}, nil
}

// Blocks returns the total number of blocks in the region.
func (r *Region) Blocks() int {
	return len(r.inUse)
}

// FreeBlocks returns the number of blocks not owned by any arena.
func (r *Region) FreeBlocks() int {
	n := 0
	for _, used := range r.inUse {
		if !used {
			n++
		}
	}
	return n
}

// Reset marks every block free. Arenas built on the region must not be used
// afterwards.
func (r *Region) Reset() {
	for i := range r.inUse {
		r.inUse[i] = false
	}
}

func (r *Region) claim() *block {
	for i, used := range r.inUse {
		if used {
			continue
		}
		r.inUse[i] = true
		off := i * r.capacity
		return &block{buf: r.mem[off : off+r.capacity : off+r.capacity], id: i}
	}
	logging.Logger().Warn("arena: static region exhausted", "blocks", len(r.inUse))
	return nil
}

// StaticArena is an arena whose blocks come from a Region.
type StaticArena struct {
	chain
	region *Region
	freed  bool
}

// NewArena claims one block of the region for a new arena. It returns nil if
// the region has no free block.
func (r *Region) NewArena() *StaticArena {
	first := r.claim()
	if first == nil {
		return nil
	}
	a := &StaticArena{region: r}
	a.capacity = r.capacity
	a.grow = r.claim
	a.blocks = append(a.blocks, first)
	return a
}

// Alloc behaves like Arena.Alloc. It also returns nil when the region is
// exhausted.
func (a *StaticArena) Alloc(size int) []byte {
	if a.freed {
		logging.Fatalf("arena: Alloc after Free")
	}
	return a.alloc(size)
}

// Reset rewinds every block owned by a.
func (a *StaticArena) Reset() {
	a.reset()
}

// Free returns the arena's blocks to the region.
func (a *StaticArena) Free() {
	for _, b := range a.blocks {
		a.region.inUse[b.id] = false
	}
	a.blocks = nil
	a.freed = true
}

// Blocks returns the number of region blocks owned by a.
func (a *StaticArena) Blocks() int {
	return len(a.blocks)
}

// Used returns the bytes handed out since the last Reset.
func (a *StaticArena) Used() int {
	return a.used()
}

// BlockCapacity returns the per-block capacity.
func (a *StaticArena) BlockCapacity() int {
	return a.capacity
}
