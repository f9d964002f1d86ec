package voxel

import (
	"testing"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGetRemoveBlock(t *testing.T) {
	c := NewChunk(ChunkCoord{})

	ok := c.AddBlock(5, 1, 2, 3)
	require.True(t, ok)
	assert.Equal(t, Block(5), c.GetBlock(1, 2, 3))
	assert.Equal(t, 1, c.BlockCount())

	prev, removed := c.RemoveBlock(1, 2, 3)
	assert.True(t, removed)
	assert.Equal(t, Block(5), prev)
	assert.Equal(t, 0, c.BlockCount())
	assert.True(t, IsAir(c.GetBlock(1, 2, 3)))
}

func TestAddBlockRefusesOccupiedCell(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	require.True(t, c.AddBlock(1, 0, 0, 0))
	assert.False(t, c.AddBlock(2, 0, 0, 0))
	assert.Equal(t, Block(1), c.GetBlock(0, 0, 0))
}

func TestBoundsGrowOnAddAndRescanOnRemove(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.AddBlock(1, 2, 2, 2)
	c.AddBlock(1, 10, 10, 10)

	assert.Equal(t, [3]int{2, 2, 2}, c.BoundsMin)
	assert.Equal(t, [3]int{11, 11, 11}, c.BoundsMax)

	c.RemoveBlock(10, 10, 10)
	assert.Equal(t, [3]int{2, 2, 2}, c.BoundsMin)
	assert.Equal(t, [3]int{3, 3, 3}, c.BoundsMax)
}

func TestPaintBlockPreservesOccupancy(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.AddBlock(1, 0, 0, 0)

	prev, ok := c.PaintBlock(0, 0, 0, 9)
	require.True(t, ok)
	assert.Equal(t, Block(1), prev)
	assert.Equal(t, Block(9), c.GetBlock(0, 0, 0))
	assert.Equal(t, 1, c.BlockCount())

	_, ok = c.PaintBlock(5, 5, 5, 9)
	assert.False(t, ok)
}

func TestLinkMutualAndGetBlockIncludingNeighbors(t *testing.T) {
	a := NewChunk(ChunkCoord{X: 0, Y: 0, Z: 0})
	b := NewChunk(ChunkCoord{X: 1, Y: 0, Z: 0})
	require.True(t, a.LinkMutual(b))

	b.AddBlock(7, 0, 0, 0)

	block, owner, lx, ly, lz := a.GetBlockIncludingNeighbors(vxconfig.ChunkSize, 0, 0)
	require.NotNil(t, owner)
	assert.Equal(t, Block(7), block)
	assert.Equal(t, b, owner)
	assert.Equal(t, 0, lx)
	assert.Equal(t, 0, ly)
	assert.Equal(t, 0, lz)

	assert.Equal(t, a, b.Neighbor(NeighborNX))
}

func TestUnlinkAllClearsReciprocalSlots(t *testing.T) {
	a := NewChunk(ChunkCoord{X: 0, Y: 0, Z: 0})
	b := NewChunk(ChunkCoord{X: 1, Y: 0, Z: 0})
	a.LinkMutual(b)

	a.UnlinkAll()
	assert.Nil(t, a.Neighbor(NeighborX))
	assert.Nil(t, b.Neighbor(NeighborNX))
}

func TestGetSetLightAtBlocks(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	assert.Equal(t, DefaultVertexLight, c.GetLight(0, 0, 0))

	c.SetLight(1, 1, 1, VertexLight{Ambient: 10, R: 3})
	got := c.GetLight(1, 1, 1)
	assert.Equal(t, uint8(10), got.Ambient)
	assert.Equal(t, uint8(3), got.R)

	// out of the [0, ChunkSize) block range falls back to default
	assert.Equal(t, DefaultVertexLight, c.GetLight(-1, 0, 0))
	assert.Equal(t, DefaultVertexLight, c.GetLight(vxconfig.ChunkSize, 0, 0))
}

func TestHashChangesWithContent(t *testing.T) {
	a := NewChunk(ChunkCoord{})
	b := NewChunk(ChunkCoord{})
	assert.Equal(t, a.Hash(0), b.Hash(0))

	a.AddBlock(1, 0, 0, 0)
	assert.NotEqual(t, a.Hash(0), b.Hash(0))
}
