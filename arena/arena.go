package arena

import (
	"errors"
	"unsafe"

	"github.com/cwbudde/algo-tensor/internal/logging"
)

// DefaultBlockCapacity is the size of one block when no option overrides it.
const DefaultBlockCapacity = 1 << 30

// ErrTooLarge reports a request larger than one block.
var ErrTooLarge = errors.New("arena: allocation exceeds block capacity")

// Allocator is what containers need from an arena.
// Alloc returns nil when the request cannot be served.
type Allocator interface {
	Alloc(size int) []byte
}

// Option configures an Arena.
type Option func(*config)

type config struct {
	blockCapacity int
}

func defaultConfig() config {
	return config{blockCapacity: DefaultBlockCapacity}
}

// WithBlockCapacity sets the capacity of every block in the chain.
// Non-positive values are ignored.
func WithBlockCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.blockCapacity = n
		}
	}
}

// Arena is a heap-backed chained block allocator.
type Arena struct {
	chain
	freed bool
}

// New creates an Arena holding one empty block.
func New(opts ...Option) *Arena {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	a := &Arena{}
	a.capacity = cfg.blockCapacity
	a.grow = func() *block {
		return &block{buf: alignedBlock(cfg.blockCapacity)}
	}
	first := a.grow()
	if first == nil || len(first.buf) != cfg.blockCapacity {
		logging.Fatalf("arena: cannot allocate initial block of %d bytes", cfg.blockCapacity)
	}
	a.blocks = append(a.blocks, first)
	return a
}

// alignedBlock returns n bytes whose first byte sits on an Alignment
// boundary.
func alignedBlock(n int) []byte {
	buf := make([]byte, n+Alignment-1)
	off := 0
	if mod := addrOf(buf) % Alignment; mod != 0 {
		off = int(Alignment - mod)
	}
	return buf[off : off+n : off+n]
}

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// Alloc returns size bytes from the chain, or nil if size exceeds the block
// capacity. Contents are unspecified; they are zero only for fresh blocks.
func (a *Arena) Alloc(size int) []byte {
	if a.freed {
		logging.Fatalf("arena: Alloc after Free")
	}
	return a.alloc(size)
}

// Reset restores every block to full capacity without releasing it.
func (a *Arena) Reset() {
	a.reset()
}

// Free releases the chain. The arena must not be used afterwards.
func (a *Arena) Free() {
	a.blocks = nil
	a.freed = true
}

// Blocks returns the number of blocks in the chain.
func (a *Arena) Blocks() int {
	return len(a.blocks)
}

// Used returns the bytes handed out since the last Reset, padding included.
func (a *Arena) Used() int {
	return a.used()
}

// BlockCapacity returns the per-block capacity.
func (a *Arena) BlockCapacity() int {
	return a.capacity
}
