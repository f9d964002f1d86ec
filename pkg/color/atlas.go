package color

import (
	"math"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
)

// Index is an index into an Atlas. AtlasIndexError is the sentinel meaning
// "unused"/"not allocated".
type Index uint32

// AtlasIndexError is the sentinel atlas index meaning "no atlas slot
// allocated", equal to vxconfig.AtlasColorIndexError.
const AtlasIndexError = Index(vxconfig.AtlasColorIndexError)

// Atlas is a process- or scene-wide pool of unique RGBA colors, plus their
// complementary colors (used by the mesher for AO tinting). It is a flat
// array with even rows holding original colors and odd rows their
// complements, renderer-side; here it is just two parallel slices.
type Atlas struct {
	colors             []RGBA
	complementaryColors []RGBA
	available          []Index // pool of freed indices below count, FIFO order
	count              uint32

	dirtyMin, dirtyMax Index // sentinel AtlasIndexError when no pending dirty range
}

// NewAtlas creates an empty atlas sized for vxconfig.ColorAtlasSize.
func NewAtlas() *Atlas {
	nbColors := vxconfig.ColorAtlasSize * vxconfig.ColorAtlasSize / 2
	return &Atlas{
		colors:              make([]RGBA, 0, nbColors),
		complementaryColors: make([]RGBA, 0, nbColors),
		dirtyMin:            AtlasIndexError,
		dirtyMax:            AtlasIndexError,
	}
}

func (a *Atlas) markDirty(idx Index) {
	if a.dirtyMin != AtlasIndexError && a.dirtyMax != AtlasIndexError {
		if idx < a.dirtyMin {
			a.dirtyMin = idx
		}
		if idx > a.dirtyMax {
			a.dirtyMax = idx
		}
		return
	}
	a.dirtyMin, a.dirtyMax = idx, idx
}

// CheckAndAdd allocates a new atlas slot for color, preferring a freed index
// from the available pool over growing count. Returns AtlasIndexError if the
// atlas is at max capacity.
func (a *Atlas) CheckAndAdd(c RGBA) Index {
	var idx Index
	if n := len(a.available); n > 0 {
		idx = a.available[0]
		a.available = a.available[1:]
	} else if a.count >= vxconfig.AtlasColorIndexMaxCount {
		return AtlasIndexError
	} else {
		idx = Index(a.count)
		a.count++
	}

	if int(idx) == len(a.colors) {
		a.colors = append(a.colors, c)
		a.complementaryColors = append(a.complementaryColors, complementary(c))
	} else {
		a.colors[idx] = c
		a.complementaryColors[idx] = complementary(c)
	}

	a.markDirty(idx)
	return idx
}

// Remove frees an atlas slot back to the available pool.
func (a *Atlas) Remove(idx Index) {
	if uint32(idx) >= vxconfig.AtlasColorIndexMaxCount {
		return
	}
	a.available = append(a.available, idx)
}

// Set updates the color stored at idx, recomputing its complementary color
// and marking it dirty. No-op if the color is unchanged or idx is invalid.
func (a *Atlas) Set(idx Index, c RGBA) {
	if uint32(idx) >= vxconfig.AtlasColorIndexMaxCount || int(idx) >= len(a.colors) {
		return
	}
	if a.colors[idx] == c {
		return
	}
	a.colors[idx] = c
	a.complementaryColors[idx] = complementary(c)
	a.markDirty(idx)
}

// Get returns the color at idx, or false if idx is out of range.
func (a *Atlas) Get(idx Index) (RGBA, bool) {
	if int(idx) < 0 || int(idx) >= len(a.colors) {
		return RGBA{}, false
	}
	return a.colors[idx], true
}

// DirtySlice returns the inclusive [min, max] range of atlas indices changed
// since the last Flush, and whether any change is pending.
func (a *Atlas) DirtySlice() (min, max Index, ok bool) {
	if a.dirtyMin == AtlasIndexError {
		return 0, 0, false
	}
	return a.dirtyMin, a.dirtyMax, true
}

// Flush clears the dirty slice, as if the renderer had just uploaded it.
func (a *Atlas) Flush() {
	a.dirtyMin, a.dirtyMax = AtlasIndexError, AtlasIndexError
}

// ForceDirty marks the whole currently-allocated range dirty, e.g. after a
// full renderer reset.
func (a *Atlas) ForceDirty() {
	if a.count > 0 {
		a.dirtyMin, a.dirtyMax = 0, Index(a.count-1)
	} else {
		a.dirtyMin, a.dirtyMax = AtlasIndexError, AtlasIndexError
	}
}

// complementary computes the ambient-occlusion tinting complement of c: a
// simple hue-rotated darkening rather than a true color-theory complement,
// matching the original engine's AO-tint use case.
func complementary(c RGBA) RGBA {
	return RGBA{
		R: uint8(math.Round(float64(255-c.R) * 0.5)),
		G: uint8(math.Round(float64(255-c.G) * 0.5)),
		B: uint8(math.Round(float64(255-c.B) * 0.5)),
		A: c.A,
	}
}
