package shape

import (
	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/light"
	"github.com/nyxreach/voxelcore/pkg/voxel"
)

// GetBlock returns the block at a user-facing coordinate, preferring the
// pending transaction's staged value over the committed model — callers
// that want to read what's actually in the chunk grid, bypassing any
// staged-but-not-yet-applied edit, should use GetBlockImmediate instead.
func (s *Shape) GetBlock(x, y, z int32) color.EntryIndex {
	if s.pendingTransaction != nil {
		if bc, ok := s.pendingTransaction.currentAt(x, y, z); ok {
			return bc.after
		}
	}
	return s.GetBlockImmediate(x, y, z)
}

// GetBlockImmediate returns the block at a user-facing coordinate directly
// from the committed model, ignoring any pending transaction.
func (s *Shape) GetBlockImmediate(x, y, z int32) color.EntryIndex {
	ix, iy, iz := s.UserToInternal(x, y, z)
	if !s.inBoundsInternal(int(ix), int(iy), int(iz)) {
		return voxel.Air
	}
	return s.Block(int(ix), int(iy), int(iz))
}

// addBlockInternal places colorIndex at internal (x,y,z), incrementing the
// palette refcount, growing the model box, marking the owning chunk (and
// any chunk neighbors it borders) dirty, and — if the shape bakes lighting
// — running the added-block lighting update. Returns false if the cell was
// already occupied or out of the shape's allocated extent.
func (s *Shape) addBlockInternal(colorIndex color.EntryIndex, x, y, z int32) bool {
	if !s.inBoundsInternal(int(x), int(y), int(z)) {
		return false
	}
	coord, lx, ly, lz := s.chunkAndLocal(int(x), int(y), int(z))
	c := s.ensureChunk(coord)
	if !c.AddBlock(colorIndex, lx, ly, lz) {
		return false
	}
	s.nbBlocks++
	s.palette.Increment(colorIndex)
	s.growModelBox(int(x), int(y), int(z))
	s.markNeighborsDirty(c, lx, ly, lz)
	s.clearCachedWorldAABB()

	if s.usesLighting {
		s.lightAddedBlock(int(x), int(y), int(z), colorIndex)
	}
	return true
}

// removeBlockInternal clears internal (x,y,z), decrementing the palette
// refcount, shrinking the model box if the removed block touched its
// boundary and shrinkBox is set, marking the owning chunk's neighbors
// dirty, and running the removed-block lighting update. Returns the
// removed color and true, or (Air, false) if the cell was already empty.
// shrinkBox is false during transaction application, which shrinks the
// box at most once after the whole batch instead of once per removal.
func (s *Shape) removeBlockInternal(x, y, z int32, shrinkBox bool) (color.EntryIndex, bool) {
	if !s.inBoundsInternal(int(x), int(y), int(z)) {
		return voxel.Air, false
	}
	coord, lx, ly, lz := s.chunkAndLocal(int(x), int(y), int(z))
	c := s.chunkAt(coord)
	if c == nil {
		return voxel.Air, false
	}
	prev, removed := c.RemoveBlock(lx, ly, lz)
	if !removed {
		return voxel.Air, false
	}
	s.nbBlocks--
	s.markNeighborsDirty(c, lx, ly, lz)
	s.clearCachedWorldAABB()

	touchesBoundary := int(x) <= s.box.Min[0] || int(x) >= s.box.Max[0]-1 ||
		int(y) <= s.box.Min[1] || int(y) >= s.box.Max[1]-1 ||
		int(z) <= s.box.Min[2] || int(z) >= s.box.Max[2]-1
	if touchesBoundary && shrinkBox {
		s.shrinkModelBox()
	}

	if s.usesLighting {
		s.lightRemovedBlock(int(x), int(y), int(z), prev)
	}

	s.palette.Decrement(prev)
	return prev, true
}

// paintBlockInternal changes the color of an existing block at internal
// (x,y,z) without touching occupancy or the model box. Returns the
// previous color and true, or (Air, false) if the cell is air.
func (s *Shape) paintBlockInternal(colorIndex color.EntryIndex, x, y, z int32) (color.EntryIndex, bool) {
	if !s.inBoundsInternal(int(x), int(y), int(z)) {
		return voxel.Air, false
	}
	coord, lx, ly, lz := s.chunkAndLocal(int(x), int(y), int(z))
	c := s.chunkAt(coord)
	if c == nil {
		return voxel.Air, false
	}
	prev, painted := c.PaintBlock(lx, ly, lz, colorIndex)
	if !painted {
		return voxel.Air, false
	}

	s.palette.Decrement(prev)
	s.palette.Increment(colorIndex)
	s.clearCachedWorldAABB()

	if s.usesLighting {
		s.lightReplacedBlock(int(x), int(y), int(z), prev, colorIndex)
	}
	return prev, true
}

// AddBlock places colorIndex at a user-facing coordinate immediately,
// bypassing the transaction/history layer — the direct mutation primitive
// transaction application itself is built on, also usable on its own by
// callers (e.g. procedural generation) that have no need for undo. On a
// resizable shape this grows the allocated extent first if needed.
func (s *Shape) AddBlock(colorIndex color.EntryIndex, x, y, z int32) bool {
	if s.isResizable {
		s.makeSpaceForBlock(x, y, z)
	}
	ix, iy, iz := s.UserToInternal(x, y, z)
	return s.addBlockInternal(colorIndex, ix, iy, iz)
}

// RemoveBlock clears a user-facing coordinate immediately, bypassing the
// transaction/history layer.
func (s *Shape) RemoveBlock(x, y, z int32) (color.EntryIndex, bool) {
	ix, iy, iz := s.UserToInternal(x, y, z)
	return s.removeBlockInternal(ix, iy, iz, true)
}

// PaintBlock recolors an existing block at a user-facing coordinate
// immediately, bypassing the transaction/history layer.
func (s *Shape) PaintBlock(colorIndex color.EntryIndex, x, y, z int32) (color.EntryIndex, bool) {
	ix, iy, iz := s.UserToInternal(x, y, z)
	return s.paintBlockInternal(colorIndex, ix, iy, iz)
}

func (s *Shape) growModelBox(x, y, z int) {
	if s.box.Empty() {
		s.box = Box{Min: [3]int{x, y, z}, Max: [3]int{x + 1, y + 1, z + 1}}
		return
	}
	if x < s.box.Min[0] {
		s.box.Min[0] = x
	}
	if y < s.box.Min[1] {
		s.box.Min[1] = y
	}
	if z < s.box.Min[2] {
		s.box.Min[2] = z
	}
	if x+1 > s.box.Max[0] {
		s.box.Max[0] = x + 1
	}
	if y+1 > s.box.Max[1] {
		s.box.Max[1] = y + 1
	}
	if z+1 > s.box.Max[2] {
		s.box.Max[2] = z + 1
	}
}

// shrinkModelBox recomputes the model box from scratch by sweeping every
// allocated chunk's non-empty local bounds into shape space, the same
// O(volume)-ish tradeoff the engine's own shape_shrink_box makes: shrinking
// correctly requires knowing whether any other block still touches the old
// boundary, and nothing short of a full rescan answers that cheaply once
// per-plane occupancy isn't tracked.
func (s *Shape) shrinkModelBox() {
	first := true
	var box Box
	for coord, c := range s.chunks {
		if c.BlockCount() == 0 {
			continue
		}
		ox := int(coord.X) * vxconfig.ChunkSize
		oy := int(coord.Y) * vxconfig.ChunkSize
		oz := int(coord.Z) * vxconfig.ChunkSize
		cmin := [3]int{ox + c.BoundsMin[0], oy + c.BoundsMin[1], oz + c.BoundsMin[2]}
		cmax := [3]int{ox + c.BoundsMax[0], oy + c.BoundsMax[1], oz + c.BoundsMax[2]}
		if first {
			box = Box{Min: cmin, Max: cmax}
			first = false
			continue
		}
		for axis := 0; axis < 3; axis++ {
			if cmin[axis] < box.Min[axis] {
				box.Min[axis] = cmin[axis]
			}
			if cmax[axis] > box.Max[axis] {
				box.Max[axis] = cmax[axis]
			}
		}
	}
	if first {
		box = Box{}
	}
	s.box = box
}

// markNeighborsDirty flags c and whichever of its linked neighbors border
// the edited cell as needing a mesh refresh — a block sitting on a chunk
// boundary plane changes what's visible across that face in the
// neighboring chunk too.
func (s *Shape) markNeighborsDirty(c *voxel.Chunk, lx, ly, lz int) {
	c.SetDirty(true)
	last := vxconfig.ChunkSize - 1

	notify := func(n voxel.Neighbor) {
		if nb := c.Neighbor(n); nb != nil {
			nb.SetDirty(true)
		}
	}

	atMinX, atMaxX := lx == 0, lx == last
	atMinY, atMaxY := ly == 0, ly == last
	atMinZ, atMaxZ := lz == 0, lz == last

	if atMinX {
		notify(voxel.NeighborNX)
	}
	if atMaxX {
		notify(voxel.NeighborX)
	}
	if atMinY {
		notify(voxel.NeighborNY)
	}
	if atMaxY {
		notify(voxel.NeighborY)
	}
	if atMinZ {
		notify(voxel.NeighborNZ)
	}
	if atMaxZ {
		notify(voxel.NeighborZ)
	}

	if atMinX && atMinY {
		notify(voxel.NeighborNXNY)
	}
	if atMinX && atMaxY {
		notify(voxel.NeighborNXY)
	}
	if atMaxX && atMinY {
		notify(voxel.NeighborXNY)
	}
	if atMaxX && atMaxY {
		notify(voxel.NeighborXY)
	}
	if atMinX && atMinZ {
		notify(voxel.NeighborNXNZ)
	}
	if atMinX && atMaxZ {
		notify(voxel.NeighborNXZ)
	}
	if atMaxX && atMinZ {
		notify(voxel.NeighborXNZ)
	}
	if atMaxX && atMaxZ {
		notify(voxel.NeighborXZ)
	}
	if atMinY && atMinZ {
		notify(voxel.NeighborNYNZ)
	}
	if atMinY && atMaxZ {
		notify(voxel.NeighborNYZ)
	}
	if atMaxY && atMinZ {
		notify(voxel.NeighborYNZ)
	}
	if atMaxY && atMaxZ {
		notify(voxel.NeighborYZ)
	}

	if atMinX && atMinY && atMinZ {
		notify(voxel.NeighborNXNYNZ)
	}
	if atMinX && atMinY && atMaxZ {
		notify(voxel.NeighborNXNYZ)
	}
	if atMinX && atMaxY && atMinZ {
		notify(voxel.NeighborNXYNZ)
	}
	if atMinX && atMaxY && atMaxZ {
		notify(voxel.NeighborNXYZ)
	}
	if atMaxX && atMinY && atMinZ {
		notify(voxel.NeighborXNYNZ)
	}
	if atMaxX && atMinY && atMaxZ {
		notify(voxel.NeighborXNYZ)
	}
	if atMaxX && atMaxY && atMinZ {
		notify(voxel.NeighborXYNZ)
	}
	if atMaxX && atMaxY && atMaxZ {
		notify(voxel.NeighborXYZ)
	}
}

// lightAddedBlock updates baked lighting after a block is placed at
// internal (x,y,z): the cell can no longer hold sunlight or pass-through
// emission now that it's opaque, so both channels run a removal pass
// seeded at whatever the cell held a moment ago, then — if the new color
// is itself emissive — emission is (re)seeded outward from the cell.
func (s *Shape) lightAddedBlock(x, y, z int, colorIndex color.EntryIndex) {
	s.lightProp.RemoveSunlight(s, x, y, z)
	s.lightProp.RemoveEmission(s, x, y, z, false)
	if s.palette.IsEmissive(colorIndex) {
		s.lightProp.BakeEmission(s, []light.Pos{{X: x, Y: y, Z: z}})
	}
}

// lightRemovedBlock updates baked lighting after the block at internal
// (x,y,z) is cleared to air: if it was emissive, its own emission is
// removed first; either way its six neighbors are reseeded so whatever
// light they already hold (sun or emission) flows back into the
// newly-opened cell.
func (s *Shape) lightRemovedBlock(x, y, z int, removed color.EntryIndex) {
	if s.palette.IsEmissive(removed) {
		s.lightProp.RemoveEmission(s, x, y, z, true)
	}
	l := voxel.VertexLight{}
	s.SetLight(x, y, z, l)

	seeds := make([]light.Pos, 0, 6)
	for _, d := range [6][3]int{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}} {
		nx, ny, nz := x+d[0], y+d[1], z+d[2]
		if s.InBounds(nx, ny, nz) {
			seeds = append(seeds, light.Pos{X: nx, Y: ny, Z: nz})
		}
	}
	s.lightProp.Refill(s, seeds)
}

// lightReplacedBlock updates baked lighting after a solid block's color
// changes from before to after at internal (x,y,z): a no-op unless
// emission actually changed, in which case the old emission is removed and
// the new one (if any) is seeded.
func (s *Shape) lightReplacedBlock(x, y, z int, before, after color.EntryIndex) {
	wasEmissive := s.palette.IsEmissive(before)
	isEmissive := s.palette.IsEmissive(after)
	if !wasEmissive && !isEmissive {
		return
	}
	if wasEmissive {
		s.lightProp.RemoveEmission(s, x, y, z, true)
	}
	if isEmissive {
		s.lightProp.BakeEmission(s, []light.Pos{{X: x, Y: y, Z: z}})
	}
}
