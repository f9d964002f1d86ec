package shape

import (
	"testing"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveBlockShrinksModelBoxOnlyAtBoundary(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 16, Height: 16, Depth: 16}, false)
	red := addColor(s, 255, 0, 0)

	s.AddBlock(red, 0, 0, 0)
	s.AddBlock(red, 5, 5, 5)

	// Removing the interior-facing corner of the box at (5,5,5) shrinks it
	// back down to the single remaining block.
	_, removed := s.RemoveBlock(5, 5, 5)
	require.True(t, removed)

	assert.Equal(t, Box{Min: [3]int{0, 0, 0}, Max: [3]int{1, 1, 1}}, s.ModelBox())
	assert.Equal(t, uint64(1), s.BlockCount())
}

func TestPaintBlockChangesColorWithoutTouchingBox(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)
	red := addColor(s, 255, 0, 0)
	blue := addColor(s, 0, 0, 255)

	s.AddBlock(red, 1, 1, 1)
	box := s.ModelBox()

	prev, painted := s.PaintBlock(blue, 1, 1, 1)
	require.True(t, painted)
	assert.Equal(t, red, prev)
	assert.Equal(t, blue, s.GetBlock(1, 1, 1))
	assert.Equal(t, box, s.ModelBox())
}

func TestAddBlockMarksBoundaryNeighborChunkDirty(t *testing.T) {
	s := NewResizable(vxconfig.Default(), false)
	red := addColor(s, 10, 20, 30)

	// Force two adjacent chunks to exist: one block in chunk (0,0,0), one
	// in chunk (1,0,0), each at its chunk's local (0,0,0) corner.
	s.AddBlock(red, 0, 0, 0)
	s.AddBlock(red, vxconfig.ChunkSize, 0, 0)

	coordA := voxel.ChunkCoord{X: 0, Y: 0, Z: 0}
	coordB := voxel.ChunkCoord{X: 1, Y: 0, Z: 0}
	chunkA := s.chunks[coordA]
	chunkB := s.chunks[coordB]
	require.NotNil(t, chunkA)
	require.NotNil(t, chunkB)

	chunkA.SetDirty(false)
	chunkB.SetDirty(false)

	// A block placed at the last local cell of chunk A, on the boundary
	// with chunk B, should flag chunk B dirty too.
	last := int32(vxconfig.ChunkSize - 1)
	s.AddBlock(red, last, 0, 0)

	assert.True(t, chunkA.IsDirty())
	assert.True(t, chunkB.IsDirty())
}

func TestGetBlockReadsPendingTransactionBeforeModel(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)
	red := addColor(s, 255, 0, 0)

	s.StageAdd(red, 2, 2, 2)

	assert.Equal(t, red, s.GetBlock(2, 2, 2))
	assert.Equal(t, color.EntryIndex(voxel.Air), s.GetBlockImmediate(2, 2, 2))
}
