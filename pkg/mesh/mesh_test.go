package mesh

import (
	"testing"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMesher(t *testing.T) (*Mesher, color.EntryIndex, color.EntryIndex) {
	t.Helper()
	atlas := color.NewAtlas()
	palette := color.NewPalette(atlas, true)

	opaque, _, ok := palette.CheckAndAdd(color.RGBA{R: 200, G: 10, B: 10, A: 255})
	require.True(t, ok)
	glass, _, ok := palette.CheckAndAdd(color.RGBA{R: 10, G: 200, B: 200, A: 128})
	require.True(t, ok)

	return New(palette, vxconfig.Default()), opaque, glass
}

func TestBuildSingleBlockEmitsSixFaces(t *testing.T) {
	m, opaque, _ := newTestMesher(t)
	c := voxel.NewChunk(voxel.ChunkCoord{})
	require.True(t, c.AddBlock(opaque, 5, 5, 5))

	ob, tb := m.Build(c)
	assert.Len(t, tb.Vertices, 0)
	assert.Equal(t, 6*6, len(ob.Indices)) // 6 faces * 2 triangles * 3 indices
	assert.LessOrEqual(t, len(ob.Vertices), 6*4)
	assert.Greater(t, len(ob.Vertices), 0)
}

func TestBuildAdjacentBlocksHideSharedFace(t *testing.T) {
	m, opaque, _ := newTestMesher(t)
	c := voxel.NewChunk(voxel.ChunkCoord{})
	require.True(t, c.AddBlock(opaque, 4, 4, 4))
	require.True(t, c.AddBlock(opaque, 5, 4, 4))

	ob, _ := m.Build(c)
	// 10 visible faces (12 total - 2 touching) * 2 triangles * 3 indices
	assert.Equal(t, 10*6, len(ob.Indices))
}

func TestBuildDedupesSharedVertices(t *testing.T) {
	m, opaque, _ := newTestMesher(t)
	c := voxel.NewChunk(voxel.ChunkCoord{})
	require.True(t, c.AddBlock(opaque, 4, 4, 4))
	require.True(t, c.AddBlock(opaque, 5, 4, 4))

	ob, _ := m.Build(c)
	// The 10 visible faces would naively contribute 4 vertices each (40
	// total). The dedup key includes the face index, so only same-facing
	// quads of the two blocks share corners (top, bottom, north, south),
	// and those shared corners must dedupe some away.
	assert.Less(t, len(ob.Vertices), 10*4)
}

func TestBuildRoutesTransparentBlockToTransparentBuffer(t *testing.T) {
	m, _, glass := newTestMesher(t)
	c := voxel.NewChunk(voxel.ChunkCoord{})
	require.True(t, c.AddBlock(glass, 2, 2, 2))

	ob, tb := m.Build(c)
	assert.Len(t, ob.Indices, 0)
	assert.Greater(t, len(tb.Indices), 0)
}

func TestCombineAO(t *testing.T) {
	assert.Equal(t, uint8(3), combineAO(true, true, false))
	assert.Equal(t, uint8(2), combineAO(true, false, true))
	assert.Equal(t, uint8(1), combineAO(false, false, true))
	assert.Equal(t, uint8(0), combineAO(false, false, false))
}

func TestDimAmbientNeverNegative(t *testing.T) {
	assert.Equal(t, uint8(0), dimAmbient(0, 3))
}

func TestSmoothLightAveragesRGBMinimumAmbient(t *testing.T) {
	base := voxel.VertexLight{Ambient: 15, R: 4, G: 4, B: 4}
	casters := [3]bool{true, false, false}
	lights := [3]voxel.VertexLight{{Ambient: 5, R: 8, G: 8, B: 8}, {}, {}}

	out := smoothLight(vxconfig.SunlightMin, base, casters, lights)
	assert.Equal(t, uint8(5), out.Ambient)
	assert.Equal(t, uint8(6), out.R)
}

func TestPickTriangleShiftByAO(t *testing.T) {
	ao := [4]uint8{3, 0, 3, 0}
	light := [4]voxel.VertexLight{}
	assert.True(t, pickTriangleShift(vxconfig.TriangleShiftByAO, ao, light))
}
