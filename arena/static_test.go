package arena

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegion(t *testing.T) {
	r, err := NewRegion(make([]byte, 1024), 256)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, r.Blocks(), 3)
	assert.Equal(t, r.Blocks(), r.FreeBlocks())

	_, err = NewRegion(make([]byte, 16), 256)
	assert.True(t, errors.Is(err, ErrRegionTooSmall))

	_, err = NewRegion(make([]byte, 16), 0)
	assert.Error(t, err)
}

func TestStaticArenaClaimsBlocks(t *testing.T) {
	r, err := NewRegion(make([]byte, 64*4+Alignment), 64)
	require.NoError(t, err)
	total := r.Blocks()

	a := r.NewArena()
	require.NotNil(t, a)
	assert.Equal(t, total-1, r.FreeBlocks())

	require.NotNil(t, a.Alloc(64))
	require.NotNil(t, a.Alloc(64))
	assert.Equal(t, 2, a.Blocks())
	assert.Equal(t, total-2, r.FreeBlocks())
	assert.Nil(t, a.Alloc(65))
}

func TestStaticArenaExhaustion(t *testing.T) {
	r, err := NewRegion(make([]byte, 64*2+Alignment), 64)
	require.NoError(t, err)

	a := r.NewArena()
	require.NotNil(t, a)
	for i := 1; i < r.Blocks(); i++ {
		require.NotNil(t, a.Alloc(64))
	}
	require.NotNil(t, a.Alloc(64))
	assert.Nil(t, a.Alloc(8), "no free block left in the region")
	assert.Nil(t, r.NewArena())
}

func TestStaticArenaFreeReturnsBlocks(t *testing.T) {
	r, err := NewRegion(make([]byte, 512), 64)
	require.NoError(t, err)

	a := r.NewArena()
	a.Alloc(64)
	a.Alloc(64)
	a.Free()
	assert.Equal(t, r.Blocks(), r.FreeBlocks())
	assert.Panics(t, func() { a.Alloc(1) })

	b := r.NewArena()
	require.NotNil(t, b)
	b.Reset()
	assert.Zero(t, b.Used())

	r.Reset()
	assert.Equal(t, r.Blocks(), r.FreeBlocks())
}

func TestStaticArenaIsAllocator(t *testing.T) {
	r, err := NewRegion(make([]byte, 512), 128)
	require.NoError(t, err)

	var alloc Allocator = r.NewArena()
	xs := Slice[float64](alloc, 4)
	require.Len(t, xs, 4)
	assert.Empty(t, View[uint64](nil))
}
