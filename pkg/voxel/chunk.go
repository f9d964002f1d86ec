package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/octree"
)

// VertexLight is the baked light at one block cell: a 4-bit ambient
// (sunlight) value plus a 4-bit-per-channel emissive RGB contribution,
// matching the engine's VERTEX_LIGHT_STRUCT_T bitfield. Despite the name
// (kept from the original, which names it for its eventual use smoothing
// quad-corner vertices) it is baked per block, not per corner — the mesher
// samples and averages the blocks around a vertex to produce that vertex's
// final smoothed light.
type VertexLight struct {
	Ambient, R, G, B uint8 // each 0-15
}

// DefaultVertexLight is full sunlight, no emissive contribution — the value
// new chunks start with before baking.
var DefaultVertexLight = VertexLight{Ambient: 15}

// ZeroVertexLight is fully dark: used once a chunk's lighting is
// invalidated and awaiting rebake.
var ZeroVertexLight = VertexLight{}

// NoBuffer is the sentinel buffer-region handle a chunk holds before it has
// ever been meshed into a vertex buffer.
const NoBuffer uint32 = 0xFFFFFFFF

// Chunk is a fixed ChunkSize^3 cube of blocks, octree-indexed, linked to its
// 26 neighbors, and (once meshed) bound to a region of a shape's vertex
// buffer.
type Chunk struct {
	Origin ChunkCoord

	blocks *octree.Octree[Block]
	light  []VertexLight // ChunkSize^3 blocks, flat-indexed by lightIndex

	neighbors [NeighborCount]*Chunk

	blockCount int
	dirty      bool

	// BoundsMin/BoundsMax is the tightest local AABB (inclusive min,
	// exclusive max) containing every non-air block; zero-volume when
	// empty. AddBlock grows it in O(1); RemoveBlock triggers a full O(volume)
	// rescan since shrinking the box requires knowing no other block still
	// touches the old boundary (see DESIGN.md open-question note).
	BoundsMin, BoundsMax [3]int

	// RtreeLeaf is an opaque handle (e.g. an rtree.ID) a shape's broad-phase
	// index associates with this chunk's world AABB. nil until inserted.
	RtreeLeaf any

	// VertexBufferID/DrawSliceIndex identify this chunk's region of a
	// shape's GPU vertex buffer once meshed.
	VertexBufferID uint32
	DrawSliceIndex int32
}

// NewChunk creates an empty chunk at the given chunk-grid coordinate.
func NewChunk(origin ChunkCoord) *Chunk {
	c := &Chunk{
		Origin:         origin,
		blocks:         octree.New[Block](vxconfig.ChunkSize, Air),
		light:          make([]VertexLight, vxconfig.ChunkSizeCube),
		VertexBufferID: NoBuffer,
		DrawSliceIndex: -1,
	}
	for i := range c.light {
		c.light[i] = DefaultVertexLight
	}
	resetBounds(c)
	return c
}

func resetBounds(c *Chunk) {
	c.BoundsMin = [3]int{vxconfig.ChunkSize, vxconfig.ChunkSize, vxconfig.ChunkSize}
	c.BoundsMax = [3]int{0, 0, 0}
}

// IsDirty reports whether the chunk's mesh needs to be regenerated.
func (c *Chunk) IsDirty() bool { return c.dirty }

// SetDirty marks (or clears) the chunk's mesh as stale.
func (c *Chunk) SetDirty(dirty bool) { c.dirty = dirty }

// BlockCount returns the number of non-air blocks in the chunk.
func (c *Chunk) BlockCount() int { return c.blockCount }

// WorldPosition returns the shape-local position of the chunk's minimum
// corner.
func (c *Chunk) WorldPosition() mgl32.Vec3 { return ChunkToWorldPos(c.Origin) }

// GetBlock returns the block at chunk-local (x,y,z), or Air if out of
// range.
func (c *Chunk) GetBlock(x, y, z int) Block {
	return c.blocks.Get(x, y, z)
}

// AddBlock places block at chunk-local (x,y,z) if that cell is currently
// air. Returns false if occupied or out of range. Grows BoundsMin/BoundsMax
// in O(1).
func (c *Chunk) AddBlock(block Block, x, y, z int) bool {
	if x < 0 || y < 0 || z < 0 || x >= vxconfig.ChunkSize || y >= vxconfig.ChunkSize || z >= vxconfig.ChunkSize {
		return false
	}
	if !IsAir(c.blocks.Get(x, y, z)) {
		return false
	}
	c.blocks.Set(x, y, z, block)
	c.blockCount++
	c.growBounds(x, y, z)
	c.dirty = true
	return true
}

func (c *Chunk) growBounds(x, y, z int) {
	if x < c.BoundsMin[0] {
		c.BoundsMin[0] = x
	}
	if y < c.BoundsMin[1] {
		c.BoundsMin[1] = y
	}
	if z < c.BoundsMin[2] {
		c.BoundsMin[2] = z
	}
	if x+1 > c.BoundsMax[0] {
		c.BoundsMax[0] = x + 1
	}
	if y+1 > c.BoundsMax[1] {
		c.BoundsMax[1] = y + 1
	}
	if z+1 > c.BoundsMax[2] {
		c.BoundsMax[2] = z + 1
	}
}

// RemoveBlock clears chunk-local (x,y,z), returning the removed color index
// and true if a block was there. Rescans the whole chunk volume to
// recompute BoundsMin/BoundsMax, since shrinking the box correctly requires
// knowing whether any other block still touches the old boundary — the
// engine's own chunk_remove_block takes the same O(volume) approach rather
// than tracking per-plane occupancy counts.
func (c *Chunk) RemoveBlock(x, y, z int) (Block, bool) {
	if x < 0 || y < 0 || z < 0 || x >= vxconfig.ChunkSize || y >= vxconfig.ChunkSize || z >= vxconfig.ChunkSize {
		return Air, false
	}
	prev, present := c.blocks.GetOrEmpty(x, y, z)
	if !present {
		return Air, false
	}
	c.blocks.Remove(x, y, z, Air)
	c.blockCount--
	c.dirty = true
	c.rescanBounds()
	return prev, true
}

// PaintBlock changes the color index of an existing (non-air) block without
// altering occupancy or bounds. Returns the previous color and true, or
// (Air, false) if the cell is air or out of range.
func (c *Chunk) PaintBlock(x, y, z int, colorIndex Block) (Block, bool) {
	prev, present := c.blocks.GetOrEmpty(x, y, z)
	if !present {
		return Air, false
	}
	c.blocks.Set(x, y, z, colorIndex)
	c.dirty = true
	return prev, true
}

func (c *Chunk) rescanBounds() {
	resetBounds(c)
	if c.blockCount == 0 {
		return
	}
	for x := 0; x < vxconfig.ChunkSize; x++ {
		for y := 0; y < vxconfig.ChunkSize; y++ {
			for z := 0; z < vxconfig.ChunkSize; z++ {
				if !IsAir(c.blocks.Get(x, y, z)) {
					c.growBounds(x, y, z)
				}
			}
		}
	}
}

// Hash returns a stable content hash of the chunk's blocks, seeded by crc,
// suitable as a baked-lighting cache key.
func (c *Chunk) Hash(crc uint64) uint64 { return c.blocks.Hash(crc) }

// Neighbor returns the linked chunk at position n, or nil.
func (c *Chunk) Neighbor(n Neighbor) *Chunk { return c.neighbors[n] }

// SetNeighbor links (or unlinks, with nil) the chunk at position n.
func (c *Chunk) SetNeighbor(n Neighbor, neighbor *Chunk) { c.neighbors[n] = neighbor }

// LinkMutual links c and other as neighbors of each other, inferring each
// one's Neighbor index from their relative chunk-grid offset.
func (c *Chunk) LinkMutual(other *Chunk) bool {
	dx := other.Origin.X - c.Origin.X
	dy := other.Origin.Y - c.Origin.Y
	dz := other.Origin.Z - c.Origin.Z
	n, ok := NeighborOf(dx, dy, dz)
	if !ok {
		return false
	}
	rn, _ := NeighborOf(-dx, -dy, -dz)
	c.neighbors[n] = other
	other.neighbors[rn] = c
	return true
}

// UnlinkAll clears c's neighbor slots and the reciprocal slot on each
// linked neighbor, as when a chunk is freed.
func (c *Chunk) UnlinkAll() {
	for n, nb := range c.neighbors {
		if nb == nil {
			continue
		}
		dx, dy, dz := neighborOffsets[n][0], neighborOffsets[n][1], neighborOffsets[n][2]
		if rn, ok := NeighborOf(-dx, -dy, -dz); ok {
			nb.neighbors[rn] = nil
		}
		c.neighbors[n] = nil
	}
}

// GetBlockIncludingNeighbors resolves chunk-local (x,y,z) even when it
// falls outside [0, ChunkSize) by stepping into the appropriate linked
// neighbor. Returns (Air, nil, 0,0,0) if that neighbor isn't linked.
func (c *Chunk) GetBlockIncludingNeighbors(x, y, z int) (block Block, owner *Chunk, lx, ly, lz int) {
	owner = c
	lx, ly, lz = x, y, z

	var dx, dy, dz int32
	if lx < 0 {
		dx = -1
		lx += vxconfig.ChunkSize
	} else if lx >= vxconfig.ChunkSize {
		dx = 1
		lx -= vxconfig.ChunkSize
	}
	if ly < 0 {
		dy = -1
		ly += vxconfig.ChunkSize
	} else if ly >= vxconfig.ChunkSize {
		dy = 1
		ly -= vxconfig.ChunkSize
	}
	if lz < 0 {
		dz = -1
		lz += vxconfig.ChunkSize
	} else if lz >= vxconfig.ChunkSize {
		dz = 1
		lz -= vxconfig.ChunkSize
	}

	if dx == 0 && dy == 0 && dz == 0 {
		return c.blocks.Get(x, y, z), c, x, y, z
	}

	n, ok := NeighborOf(dx, dy, dz)
	if !ok {
		return Air, nil, 0, 0, 0
	}
	owner = c.neighbors[n]
	if owner == nil {
		return Air, nil, 0, 0, 0
	}
	return owner.blocks.Get(lx, ly, lz), owner, lx, ly, lz
}

// lightIndex flattens a block coordinate in [0, ChunkSize) into c.light,
// x-major, then y, then z (blocks themselves live in the octree).
func lightIndex(x, y, z int) int {
	return x*vxconfig.ChunkSizeSqr + y*vxconfig.ChunkSize + z
}

// GetLight returns the baked light at block (x,y,z), or the default light
// (full sunlight, used for out-of-range/air-adjacent samples by the
// mesher) if out of [0, ChunkSize).
func (c *Chunk) GetLight(x, y, z int) VertexLight {
	if x < 0 || y < 0 || z < 0 || x >= vxconfig.ChunkSize || y >= vxconfig.ChunkSize || z >= vxconfig.ChunkSize {
		return DefaultVertexLight
	}
	return c.light[lightIndex(x, y, z)]
}

// GetLightOrDefault is GetLight, but returns DefaultVertexLight instead of
// the stored value when isDefault is true — the light propagator's way of
// treating an opaque or absent block as if fully lit, per the original's
// chunk_get_light_or_default.
func (c *Chunk) GetLightOrDefault(x, y, z int, isDefault bool) VertexLight {
	if isDefault {
		return DefaultVertexLight
	}
	return c.GetLight(x, y, z)
}

// SetLight stores the baked light at block (x,y,z).
func (c *Chunk) SetLight(x, y, z int, l VertexLight) {
	if x < 0 || y < 0 || z < 0 || x >= vxconfig.ChunkSize || y >= vxconfig.ChunkSize || z >= vxconfig.ChunkSize {
		return
	}
	c.light[lightIndex(x, y, z)] = l
}

// ResetLighting resets every block to either DefaultVertexLight (full
// sunlight, as for a freshly-generated chunk) or ZeroVertexLight (dark, as
// for a chunk awaiting rebake).
func (c *Chunk) ResetLighting(toDefault bool) {
	v := ZeroVertexLight
	if toDefault {
		v = DefaultVertexLight
	}
	for i := range c.light {
		c.light[i] = v
	}
}

// LightGrid returns a copy of the chunk's full ChunkSizeCube light array, in
// lightIndex order, suitable for a caller to stash and later restore via
// SetLightGrid without touching the propagator.
func (c *Chunk) LightGrid() []VertexLight {
	out := make([]VertexLight, len(c.light))
	copy(out, c.light)
	return out
}

// SetLightGrid overwrites the chunk's light array from grid, which must have
// come from a prior LightGrid call on a chunk of the same dimensions. Shorter
// or longer grids are ignored, as is expected to never happen in practice.
func (c *Chunk) SetLightGrid(grid []VertexLight) {
	if len(grid) != len(c.light) {
		return
	}
	copy(c.light, grid)
}

// ForEachBlock visits every non-air block in the chunk in scan order.
func (c *Chunk) ForEachBlock(fn func(x, y, z int, block Block)) {
	if c.blockCount == 0 {
		return
	}
	for x := c.BoundsMin[0]; x < c.BoundsMax[0]; x++ {
		for y := c.BoundsMin[1]; y < c.BoundsMax[1]; y++ {
			for z := c.BoundsMin[2]; z < c.BoundsMax[2]; z++ {
				if b := c.blocks.Get(x, y, z); !IsAir(b) {
					fn(x, y, z, b)
				}
			}
		}
	}
}
