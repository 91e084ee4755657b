package arena

// Alignment is the byte alignment of every slice returned by Alloc. It covers
// float64 payloads viewed through unsafe.Slice.
const Alignment = 8

type block struct {
	buf  []byte
	used int
	id   int // owner-specific tag; the static region stores its slot here
}

// chain is the block list and bump logic shared by Arena and StaticArena.
type chain struct {
	blocks   []*block
	capacity int
	grow     func() *block
}

func alignUp(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

func (c *chain) alloc(size int) []byte {
	if size < 0 || size > c.capacity {
		return nil
	}

	for _, b := range c.blocks {
		if p, ok := b.take(size, c.capacity); ok {
			return p
		}
	}

	b := c.grow()
	if b == nil {
		return nil
	}
	c.blocks = append(c.blocks, b)
	p, _ := b.take(size, c.capacity)
	return p
}

func (b *block) take(size, capacity int) ([]byte, bool) {
	off := alignUp(b.used)
	if off > capacity || capacity-off < size {
		return nil, false
	}
	b.used = off + size
	return b.buf[off : off+size : off+size], true
}

func (c *chain) reset() {
	for _, b := range c.blocks {
		b.used = 0
	}
}

func (c *chain) used() int {
	n := 0
	for _, b := range c.blocks {
		n += b.used
	}
	return n
}
