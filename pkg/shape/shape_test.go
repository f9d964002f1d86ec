package shape

import (
	"testing"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addColor(s *Shape, r, g, b uint8) color.EntryIndex {
	idx, _, _ := s.Palette().CheckAndAdd(color.RGBA{R: r, G: g, B: b, A: 255})
	return idx
}

func TestNewFixedSizeReportsItsSize(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 4, Height: 5, Depth: 6}, false)

	size, ok := s.FixedSize()
	require.True(t, ok)
	assert.Equal(t, Size{Width: 4, Height: 5, Depth: 6}, size)
	assert.False(t, s.IsResizable())
}

func TestNewResizableHasNoFixedSize(t *testing.T) {
	s := NewResizable(vxconfig.Default(), false)

	_, ok := s.FixedSize()
	assert.False(t, ok)
	assert.True(t, s.IsResizable())
}

func TestUserToInternalRoundTrips(t *testing.T) {
	s := NewResizable(vxconfig.Default(), false)
	s.offset = [3]int32{5, 0, -3}

	ix, iy, iz := s.UserToInternal(1, 2, 3)
	assert.Equal(t, [3]int32{6, 2, 0}, [3]int32{ix, iy, iz})

	ux, uy, uz := s.InternalToUser(ix, iy, iz)
	assert.Equal(t, [3]int32{1, 2, 3}, [3]int32{ux, uy, uz})
}

func TestAddBlockGrowsModelBoxAndCounts(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 16, Height: 16, Depth: 16}, false)
	red := addColor(s, 200, 10, 10)

	ok := s.AddBlock(red, 2, 3, 4)
	require.True(t, ok)

	assert.Equal(t, uint64(1), s.BlockCount())
	assert.Equal(t, red, s.GetBlock(2, 3, 4))
	assert.Equal(t, Box{Min: [3]int{2, 3, 4}, Max: [3]int{3, 4, 5}}, s.ModelBox())
}

func TestAddBlockOutOfFixedBoundsFails(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 4, Height: 4, Depth: 4}, false)
	red := addColor(s, 200, 10, 10)

	assert.False(t, s.AddBlock(red, 10, 0, 0))
	assert.Equal(t, color.EntryIndex(voxel.Air), s.GetBlock(10, 0, 0))
}

func TestWorldAABBCachesUntilTransformChanges(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)
	red := addColor(s, 1, 2, 3)
	s.AddBlock(red, 0, 0, 0)

	first := s.WorldAABB()
	assert.True(t, s.worldAABBDone)

	second := s.WorldAABB()
	assert.Equal(t, first, second)

	s.SetTransform(s.Transform())
	assert.False(t, s.worldAABBDone)
}
