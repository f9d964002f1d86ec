package shape

import (
	"testing"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBlockAtNegativeCoordinateShiftsOffset(t *testing.T) {
	s := NewResizable(vxconfig.Default(), false)
	red := addColor(s, 10, 20, 30)

	ok := s.AddBlock(red, -5, 0, 0)
	require.True(t, ok)

	assert.Equal(t, red, s.GetBlock(-5, 0, 0))

	ox, oy, oz := s.Offset()
	assert.Equal(t, int32(5), ox)
	assert.Equal(t, int32(0), oy)
	assert.Equal(t, int32(0), oz)

	assert.Equal(t, Box{Min: [3]int{0, 0, 0}, Max: [3]int{1, 1, 1}}, s.ModelBox())
}

func TestAddBlockFarAwayGrowsExtentWithoutMoving(t *testing.T) {
	s := NewResizable(vxconfig.Default(), false)
	red := addColor(s, 10, 20, 30)

	ok := s.AddBlock(red, 100, 0, 0)
	require.True(t, ok)

	assert.Equal(t, red, s.GetBlock(100, 0, 0))
	assert.True(t, s.extent >= 101)
	assert.Equal(t, int32(0), s.offset[0])
}

func TestRelocationPreservesExistingBlocksAndTriggersRebake(t *testing.T) {
	cfg := vxconfig.Default()
	s := NewResizable(cfg, true)
	red := addColor(s, 200, 10, 10)

	require.True(t, s.AddBlock(red, 0, 0, 0))
	require.True(t, s.AddBlock(red, 3, 0, 0))

	// A block far to the left forces the offset to shift; the two blocks
	// placed above must still read back at their original user-facing
	// coordinates afterwards.
	require.True(t, s.AddBlock(red, -20, 0, 0))

	assert.Equal(t, red, s.GetBlock(0, 0, 0))
	assert.Equal(t, red, s.GetBlock(3, 0, 0))
	assert.Equal(t, red, s.GetBlock(-20, 0, 0))
	assert.Equal(t, uint64(3), s.BlockCount())
}

func TestRebakeLightingPopulatesCacheOnMiss(t *testing.T) {
	cfg := vxconfig.Default()
	s := NewResizable(cfg, true)
	red := addColor(s, 1, 2, 3)
	require.True(t, s.AddBlock(red, 0, 0, 0))

	key := s.lightContentHash()
	_, ok := s.lightBake.Get(key)
	require.False(t, ok)

	s.rebakeLighting()

	_, ok = s.lightBake.Get(key)
	assert.True(t, ok)
}

func TestRebakeLightingReusesCachedGrid(t *testing.T) {
	cfg := vxconfig.Default()
	s := NewResizable(cfg, true)
	red := addColor(s, 1, 2, 3)
	require.True(t, s.AddBlock(red, 0, 0, 0))

	key := s.lightContentHash()
	fake := s.snapshotLightGrid()
	for i := range fake {
		fake[i] = voxel.VertexLight{Ambient: 1, R: 2, G: 3, B: 4}
	}
	s.lightBake.Put(key, fake)

	s.rebakeLighting()

	assert.Equal(t, voxel.VertexLight{Ambient: 1, R: 2, G: 3, B: 4}, s.Light(0, 0, 0))
}
