package color

import "github.com/nyxreach/voxelcore/internal/vxconfig"

// EntryIndex is a palette-local color index, matching the engine-wide
// SHAPE_COLOR_INDEX_INT_T (uint8). AirBlock is the reserved air sentinel.
type EntryIndex = uint8

// AirBlock is the reserved color index meaning "no block" (air).
const AirBlock EntryIndex = vxconfig.ShapeColorIndexAirBlock

// PaletteEntry is one slot of a Palette: its color, refcount, atlas binding,
// emissive flag, and position in the user-visible ordering.
type PaletteEntry struct {
	Color        RGBA
	BlocksCount  uint32
	AtlasIndex   Index
	OrderedIndex uint8
	Emissive     bool
}

// Palette maps a shape's 8-bit block color indices to RGBA colors, backed by
// a shared Atlas. Capacity is fixed at vxconfig.ShapeColorIndexMaxCount.
type Palette struct {
	atlas   *Atlas
	entries []PaletteEntry

	// orderedIndices[orderedPos] = entry. nil means identity (no removals
	// have happened yet, so ordered position == entry index).
	orderedIndices []uint8
	available      []uint8 // pool of free entry slots below count, FIFO order

	colorToIdx map[uint32]uint8

	count        uint8 // number of entries ever allocated (>= orderedCount)
	orderedCount uint8 // number of entries in user-visible order

	lightingDirty bool
	shared        bool
}

// NewPalette creates an empty palette bound to atlas. allowShared controls
// whether unused colors free their atlas slot (true) or retain it (false).
func NewPalette(atlas *Atlas, allowShared bool) *Palette {
	return &Palette{
		atlas:      atlas,
		entries:    make([]PaletteEntry, 0, vxconfig.ShapeColorIndexMaxCount),
		colorToIdx: make(map[uint32]uint8),
		shared:     allowShared,
	}
}

// Count returns the number of entries ever allocated (including any now
// popped to the available pool awaiting reuse).
func (p *Palette) Count() uint8 { return p.count }

// OrderedCount returns the number of entries in user-visible order.
func (p *Palette) OrderedCount() uint8 { return p.orderedCount }

// IsShared reports whether unused colors release their atlas slot.
func (p *Palette) IsShared() bool { return p.shared }

// SetShared toggles whether future 1->0 refcount transitions release the
// atlas slot.
func (p *Palette) SetShared(shared bool) { p.shared = shared }

// Find returns the entry index for an existing color, or (AirBlock, false).
func (p *Palette) Find(c RGBA) (EntryIndex, bool) {
	if idx, ok := p.colorToIdx[c.Pack()]; ok {
		return idx, true
	}
	return AirBlock, false
}

// CheckAndAdd returns the existing entry for c if present, otherwise
// allocates a new one (preferring a freed slot from the available pool).
// added is true only when a new entry was allocated. ok is false only when
// the palette is full and c is a genuinely new color.
func (p *Palette) CheckAndAdd(c RGBA) (entry EntryIndex, added, ok bool) {
	if idx, found := p.Find(c); found {
		return idx, false, true
	}

	if p.orderedCount >= vxconfig.ShapeColorIndexMaxCount {
		return AirBlock, false, false
	}

	var idx uint8
	if n := len(p.available); n > 0 {
		idx = p.available[0]
		p.available = p.available[1:]
	} else {
		idx = p.count
		p.count++
	}

	entryVal := PaletteEntry{
		Color:        c,
		AtlasIndex:   AtlasIndexError,
		OrderedIndex: p.orderedCount,
	}
	if int(idx) == len(p.entries) {
		p.entries = append(p.entries, entryVal)
	} else {
		p.entries[idx] = entryVal
	}

	p.colorToIdx[c.Pack()] = idx

	if p.orderedIndices != nil {
		p.orderedIndices[p.orderedCount] = idx
	}
	p.orderedCount++

	return idx, true, true
}

// Increment raises entry's refcount; on the 0->1 transition it acquires an
// atlas index.
func (p *Palette) Increment(entry EntryIndex) {
	if int(entry) >= len(p.entries) {
		return
	}
	e := &p.entries[entry]
	if e.BlocksCount == 0 && e.AtlasIndex == AtlasIndexError {
		e.AtlasIndex = p.atlas.CheckAndAdd(e.Color)
	}
	e.BlocksCount++
}

// Decrement lowers entry's refcount; on the 1->0 transition it releases the
// atlas index if the palette is shared, or retains it otherwise.
func (p *Palette) Decrement(entry EntryIndex) {
	if int(entry) >= len(p.entries) {
		return
	}
	e := &p.entries[entry]
	if e.BlocksCount == 0 {
		return
	}
	e.BlocksCount--
	if e.BlocksCount == 0 && p.shared {
		p.atlas.Remove(e.AtlasIndex)
		e.AtlasIndex = AtlasIndexError
	}
}

// RemoveUnused reclaims entry's slot, only valid when its refcount is 0. It
// compacts the user-visible ordering by sliding subsequent ordered positions
// down, so external (e.g. scripting) indices referencing later entries stay
// contiguous.
func (p *Palette) RemoveUnused(entry EntryIndex) bool {
	if int(entry) >= len(p.entries) || p.entries[entry].BlocksCount != 0 {
		return false
	}

	if p.orderedIndices == nil {
		size := p.count
		if size < vxconfig.ShapeColorIndexMaxCount {
			size = vxconfig.ShapeColorIndexMaxCount
		}
		p.orderedIndices = make([]uint8, size)
		for i := uint8(0); i < p.orderedCount; i++ {
			p.orderedIndices[i] = i
		}
	}

	delete(p.colorToIdx, p.entries[entry].Color.Pack())
	p.available = append(p.available, entry)

	p.orderedCount--
	for i := p.entries[entry].OrderedIndex; i < p.orderedCount; i++ {
		p.orderedIndices[i] = p.orderedIndices[i+1]
		p.entries[p.orderedIndices[i]].OrderedIndex = i
	}

	return true
}

// UseCount returns entry's current refcount.
func (p *Palette) UseCount(entry EntryIndex) uint32 {
	if int(entry) >= len(p.entries) {
		return 0
	}
	return p.entries[entry].BlocksCount
}

// SetColor updates entry's color, marking the palette lighting-dirty when
// (a) the entry is emissive, (b) opacity crosses the 255 boundary, or (c)
// both old and new alpha are in (0,255) but differ.
func (p *Palette) SetColor(entry EntryIndex, c RGBA) {
	if int(entry) >= len(p.entries) {
		return
	}
	e := &p.entries[entry]
	if e.Color == c {
		return
	}

	if e.Emissive {
		p.lightingDirty = true
	} else {
		prevOpaque, newOpaque := e.Color.IsOpaque(), c.IsOpaque()
		if prevOpaque != newOpaque {
			p.lightingDirty = true
		} else if !prevOpaque && !newOpaque && e.Color.A != c.A {
			p.lightingDirty = true
		}
	}

	delete(p.colorToIdx, e.Color.Pack())
	e.Color = c
	if e.AtlasIndex != AtlasIndexError {
		p.atlas.Set(e.AtlasIndex, c)
	}
	p.colorToIdx[c.Pack()] = entry
}

// Color returns entry's color, or false if out of range.
func (p *Palette) Color(entry EntryIndex) (RGBA, bool) {
	if int(entry) >= len(p.entries) {
		return RGBA{}, false
	}
	return p.entries[entry].Color, true
}

// SetEmissive toggles entry's emissive flag, marking lighting-dirty on
// change.
func (p *Palette) SetEmissive(entry EntryIndex, emissive bool) {
	if int(entry) >= len(p.entries) {
		return
	}
	if p.entries[entry].Emissive != emissive {
		p.entries[entry].Emissive = emissive
		p.lightingDirty = true
	}
}

// IsEmissive reports entry's emissive flag.
func (p *Palette) IsEmissive(entry EntryIndex) bool {
	if int(entry) >= len(p.entries) {
		return false
	}
	return p.entries[entry].Emissive
}

// IsTransparent reports whether entry's alpha is in (0, 255).
func (p *Palette) IsTransparent(entry EntryIndex) bool {
	if int(entry) >= len(p.entries) {
		return false
	}
	return p.entries[entry].Color.IsTransparent()
}

// LightingDirty reports whether any color/emission change since the last
// ClearLightingDirty requires the shape to rebake lighting.
func (p *Palette) LightingDirty() bool { return p.lightingDirty }

// ClearLightingDirty resets the lighting-dirty flag.
func (p *Palette) ClearLightingDirty() { p.lightingDirty = false }

// AtlasIndexOf returns entry's current atlas binding, or AtlasIndexError for
// air or an out-of-range entry.
func (p *Palette) AtlasIndexOf(entry EntryIndex) Index {
	if entry == AirBlock || int(entry) >= len(p.entries) {
		return AtlasIndexError
	}
	return p.entries[entry].AtlasIndex
}

// EmissiveLight returns the 4-bit-per-channel light contribution of an
// emissive entry (derived from its color's top 4 bits per channel), or the
// zero light if the entry is not emissive.
func (p *Palette) EmissiveLight(entry EntryIndex) (r, g, b uint8) {
	if int(entry) >= len(p.entries) || !p.entries[entry].Emissive {
		return 0, 0, 0
	}
	c := p.entries[entry].Color
	return c.R >> 4, c.G >> 4, c.B >> 4
}

// EntryIdxToOrderedIdx converts an internal entry index to its user-visible
// ordered position.
func (p *Palette) EntryIdxToOrderedIdx(entry EntryIndex) uint8 {
	if int(entry) >= len(p.entries) {
		return entry
	}
	return p.entries[entry].OrderedIndex
}

// OrderedIdxToEntryIdx converts a user-visible ordered position back to an
// internal entry index.
func (p *Palette) OrderedIdxToEntryIdx(ordered uint8) uint8 {
	if p.orderedIndices == nil {
		return ordered // identity mapping: no removals have happened yet
	}
	if int(ordered) >= len(p.orderedIndices) {
		return ordered
	}
	return p.orderedIndices[ordered]
}

// NeedsOrdering reports whether the ordered/entry index mapping is
// non-identity, i.e. at least one RemoveUnused has happened.
func (p *Palette) NeedsOrdering() bool {
	return p.orderedIndices != nil
}
