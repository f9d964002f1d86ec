package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteCheckAndAddDedup(t *testing.T) {
	atlas := NewAtlas()
	p := NewPalette(atlas, true)

	red := RGBA{255, 0, 0, 255}
	e1, added1, ok1 := p.CheckAndAdd(red)
	require.True(t, ok1)
	assert.True(t, added1)

	e2, added2, ok2 := p.CheckAndAdd(red)
	require.True(t, ok2)
	assert.False(t, added2)
	assert.Equal(t, e1, e2)
}

func TestPaletteIncrementAcquiresAtlasSlot(t *testing.T) {
	atlas := NewAtlas()
	p := NewPalette(atlas, true)

	entry, _, ok := p.CheckAndAdd(RGBA{10, 20, 30, 255})
	require.True(t, ok)
	assert.Equal(t, AtlasIndexError, p.AtlasIndexOf(entry))

	p.Increment(entry)
	assert.NotEqual(t, AtlasIndexError, p.AtlasIndexOf(entry))
	assert.Equal(t, uint32(1), p.UseCount(entry))
}

func TestPaletteDecrementSharedReleasesAtlasSlot(t *testing.T) {
	atlas := NewAtlas()
	p := NewPalette(atlas, true) // shared

	entry, _, _ := p.CheckAndAdd(RGBA{10, 20, 30, 255})
	p.Increment(entry)
	assert.NotEqual(t, AtlasIndexError, p.AtlasIndexOf(entry))

	p.Decrement(entry)
	assert.Equal(t, uint32(0), p.UseCount(entry))
	assert.Equal(t, AtlasIndexError, p.AtlasIndexOf(entry))
}

func TestPaletteDecrementNonSharedRetainsAtlasSlot(t *testing.T) {
	atlas := NewAtlas()
	p := NewPalette(atlas, false) // non-shared

	entry, _, _ := p.CheckAndAdd(RGBA{10, 20, 30, 255})
	p.Increment(entry)
	idx := p.AtlasIndexOf(entry)
	require.NotEqual(t, AtlasIndexError, idx)

	p.Decrement(entry)
	assert.Equal(t, uint32(0), p.UseCount(entry))
	assert.Equal(t, idx, p.AtlasIndexOf(entry), "non-shared palette keeps the atlas slot on refcount 0")
}

func TestPaletteRemoveUnusedCompactsOrdering(t *testing.T) {
	atlas := NewAtlas()
	p := NewPalette(atlas, true)

	a, _, _ := p.CheckAndAdd(RGBA{1, 0, 0, 255})
	b, _, _ := p.CheckAndAdd(RGBA{2, 0, 0, 255})
	c, _, _ := p.CheckAndAdd(RGBA{3, 0, 0, 255})
	require.Equal(t, uint8(3), p.OrderedCount())

	ok := p.RemoveUnused(a)
	require.True(t, ok)
	assert.Equal(t, uint8(2), p.OrderedCount())

	// b and c should have shifted down by one ordered position.
	assert.Equal(t, uint8(0), p.EntryIdxToOrderedIdx(b))
	assert.Equal(t, uint8(1), p.EntryIdxToOrderedIdx(c))
}

func TestPaletteRemoveUnusedRefusesInUseEntry(t *testing.T) {
	atlas := NewAtlas()
	p := NewPalette(atlas, true)

	entry, _, _ := p.CheckAndAdd(RGBA{1, 0, 0, 255})
	p.Increment(entry)

	assert.False(t, p.RemoveUnused(entry))
}

func TestPaletteFullReturnsAirSentinel(t *testing.T) {
	atlas := NewAtlas()
	p := NewPalette(atlas, true)

	for i := 0; i < 255; i++ {
		c := RGBA{uint8(i), uint8(i / 2), uint8(i / 3), 255}
		_, _, ok := p.CheckAndAdd(c)
		require.True(t, ok)
	}

	entry, added, ok := p.CheckAndAdd(RGBA{250, 250, 250, 250})
	assert.False(t, ok)
	assert.False(t, added)
	assert.Equal(t, AirBlock, entry)
}

func TestPaletteSetColorMarksLightingDirtyOnOpacityCross(t *testing.T) {
	atlas := NewAtlas()
	p := NewPalette(atlas, true)

	entry, _, _ := p.CheckAndAdd(RGBA{100, 100, 100, 255})
	assert.False(t, p.LightingDirty())

	p.SetColor(entry, RGBA{100, 100, 100, 128})
	assert.True(t, p.LightingDirty())

	p.ClearLightingDirty()
	assert.False(t, p.LightingDirty())
}

func TestPaletteSetEmissiveMarksLightingDirty(t *testing.T) {
	atlas := NewAtlas()
	p := NewPalette(atlas, true)
	entry, _, _ := p.CheckAndAdd(RGBA{200, 0, 0, 255})

	p.SetEmissive(entry, true)
	assert.True(t, p.LightingDirty())
	assert.True(t, p.IsEmissive(entry))
}
