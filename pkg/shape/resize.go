package shape

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/light"
	"github.com/nyxreach/voxelcore/pkg/voxel"
)

// makeSpaceForBlock grows a resizable shape's allocated extent, if needed,
// so that a block at a user-facing coordinate has room.
func (s *Shape) makeSpaceForBlock(x, y, z int32) {
	s.makeSpace(x, y, z, x, y, z)
}

// makeSpace grows a resizable shape's allocated extent so that the
// inclusive internal range covering [minX,maxX]x[minY,maxY]x[minZ,maxZ]
// (given in user-facing coordinates, translated here with the current
// offset) fits, mirroring shape_make_space: figure out how much room is
// missing around the current model box, decide whether the existing
// extent already has that room somewhere around the box (the box just
// needs to grow into it, nothing moves) or whether blocks have to be
// relocated — either because the extent itself is too small, or because
// it's big enough overall but not positioned to leave room on the side
// that's short — then apply the resulting delta to every placed block,
// the model box, the pivot, the POIs, the cached world AABB, and finally
// the offset itself.
func (s *Shape) makeSpace(minX, minY, minZ, maxX, maxY, maxZ int32) {
	if !s.isResizable {
		return
	}

	reqMinX, reqMinY, reqMinZ := s.UserToInternal(minX, minY, minZ)
	reqMaxX, reqMaxY, reqMaxZ := s.UserToInternal(maxX, maxY, maxZ)

	if s.inBoundsInternal(int(reqMinX), int(reqMinY), int(reqMinZ)) &&
		s.inBoundsInternal(int(reqMaxX), int(reqMaxY), int(reqMaxZ)) {
		return
	}

	// shape_make_space compares against shape->box as-is, including the
	// {0,0,0}-{0,0,0} an empty shape starts with (box_new's zero value) —
	// not some region derived from the requested cell. That's what lets an
	// out-of-the-gate negative coordinate push the offset the right amount
	// on the very first block placed.
	min := s.box.Min
	max := s.box.Max

	req := [3][2]int{
		{int(reqMinX), int(reqMaxX)},
		{int(reqMinY), int(reqMaxY)},
		{int(reqMinZ), int(reqMaxZ)},
	}

	var spaceRequiredMin, spaceRequiredMax [3]int
	for axis := 0; axis < 3; axis++ {
		if req[axis][0] < min[axis] {
			spaceRequiredMin[axis] = req[axis][0] - min[axis]
		}
		if req[axis][1]+1 > max[axis] {
			spaceRequiredMax[axis] = req[axis][1] + 1 - max[axis]
		}
	}

	boxSize := [3]int{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
	requiredSize := [3]int{
		boxSize[0] + abs(spaceRequiredMin[0]) + spaceRequiredMax[0],
		boxSize[1] + abs(spaceRequiredMin[1]) + spaceRequiredMax[1],
		boxSize[2] + abs(spaceRequiredMin[2]) + spaceRequiredMax[2],
	}
	requiredSizeMax := maxOf3(requiredSize[0], requiredSize[1], requiredSize[2])

	newExtent := s.extent
	if requiredSizeMax > s.extent {
		newExtent = nextExtent(requiredSizeMax)
	}

	// Whether or not the extent itself grew, the same delta computation
	// tells us whether the box needs to slide within it: against the new
	// (possibly unchanged) extent, is there room on the short side without
	// moving anything?
	var delta [3]int32
	for axis := 0; axis < 3; axis++ {
		if spaceRequiredMin[axis] < 0 && min[axis]+spaceRequiredMin[axis] < 0 {
			delta[axis] = int32(-(min[axis] + spaceRequiredMin[axis]))
		} else if spaceRequiredMax[axis] > 0 && max[axis]+spaceRequiredMax[axis] > newExtent {
			delta[axis] = int32(newExtent - (max[axis] + spaceRequiredMax[axis]))
		}
	}

	if newExtent == s.extent && delta == ([3]int32{}) {
		// There's room around the bounding box within the current extent;
		// the box simply grows into it by itself as blocks are added.
		return
	}

	s.relocate(delta)
	s.extent = newExtent
}

// relocate shifts every placed block, and everything addressed in the same
// coordinate space, by delta: it rebuilds the chunk map from scratch since
// an arbitrary delta (not a multiple of the chunk size) moves blocks across
// chunk boundaries, then rebases the model box, the POIs, the pivot and the
// offset, and finally re-bakes lighting from scratch — unlike the engine's
// single flat light buffer, which can be copied wholesale with the same
// delta, this port's lighting lives in per-chunk arrays that are being
// reshuffled across chunks along with the blocks, so there is no cheap
// shift to apply; a full rebake is the straightforward correct substitute.
func (s *Shape) relocate(delta [3]int32) {
	type placedBlock struct {
		x, y, z int32
		color   voxel.Block
	}

	var blocks []placedBlock
	for _, c := range s.chunks {
		ox := int32(c.Origin.X) * vxconfig.ChunkSize
		oy := int32(c.Origin.Y) * vxconfig.ChunkSize
		oz := int32(c.Origin.Z) * vxconfig.ChunkSize
		c.ForEachBlock(func(lx, ly, lz int, b voxel.Block) {
			blocks = append(blocks, placedBlock{
				x:     ox + int32(lx) + delta[0],
				y:     oy + int32(ly) + delta[1],
				z:     oz + int32(lz) + delta[2],
				color: b,
			})
		})
	}

	s.chunks = make(map[voxel.ChunkCoord]*voxel.Chunk, len(s.chunks))
	s.nbChunks = 0
	s.nbBlocks = 0
	for _, b := range blocks {
		coord, lx, ly, lz := s.chunkAndLocal(int(b.x), int(b.y), int(b.z))
		c := s.ensureChunk(coord)
		if c.AddBlock(b.color, lx, ly, lz) {
			s.nbBlocks++
		}
	}

	if !s.box.Empty() {
		for axis := 0; axis < 3; axis++ {
			s.box.Min[axis] += int(delta[axis])
			s.box.Max[axis] += int(delta[axis])
		}
	}

	fdx, fdy, fdz := float32(delta[0]), float32(delta[1]), float32(delta[2])
	for name, p := range s.pois {
		s.pois[name] = p.Add(mgl32.Vec3{fdx, fdy, fdz})
	}
	if s.hasPivot {
		s.pivot[12] += fdx
		s.pivot[13] += fdy
		s.pivot[14] += fdz
	}

	s.offset[0] += delta[0]
	s.offset[1] += delta[1]
	s.offset[2] += delta[2]

	s.clearCachedWorldAABB()

	if s.usesLighting {
		s.rebakeLighting()
	}
}

// rebakeLighting recomputes baked light for the whole shape from scratch:
// every chunk touched by relocate started out at full default light (the
// value a freshly-created chunk already holds), so sunlight only needs
// seeding from above the model box and emission only needs reseeding at
// every emissive block, exactly as a first bake would. Before running that
// BFS, it checks lightBake for a grid already baked for this exact block
// layout (the same blocks in the same chunks: the key is seeded per chunk
// coordinate, so the same blocks at another offset get a different key)
// and reuses it instead, storing a freshly baked grid back under the same
// key otherwise.
func (s *Shape) rebakeLighting() {
	if s.box.Empty() {
		return
	}

	if s.lightBake != nil {
		key := s.lightContentHash()
		if grid, ok := s.lightBake.Get(key); ok {
			s.applyLightGrid(grid)
			return
		}
		s.bakeLightingFromScratch()
		s.lightBake.Put(key, s.snapshotLightGrid())
		return
	}

	s.bakeLightingFromScratch()
}

func (s *Shape) bakeLightingFromScratch() {
	s.lightProp.Reset()
	s.lightProp.BakeSunlight(s, s.box.Min[0], s.box.Max[0]-1, s.box.Min[2], s.box.Max[2]-1, s.box.Max[1])

	var emissive []light.Pos
	for coord, c := range s.chunks {
		ox := int(coord.X) * vxconfig.ChunkSize
		oy := int(coord.Y) * vxconfig.ChunkSize
		oz := int(coord.Z) * vxconfig.ChunkSize
		c.ForEachBlock(func(lx, ly, lz int, b voxel.Block) {
			if s.palette.IsEmissive(b) {
				emissive = append(emissive, light.Pos{X: ox + lx, Y: oy + ly, Z: oz + lz})
			}
		})
	}
	if len(emissive) > 0 {
		s.lightProp.BakeEmission(s, emissive)
	}
}

// lightContentHash combines every chunk's octree content hash (pkg/octree's
// FNV-1a, seeded per-chunk so two chunks with identical blocks at different
// coordinates don't collide) into one order-independent key: chunks come out
// of a map in random order, so the combination has to not care which one was
// folded in first. XOR does that.
func (s *Shape) lightContentHash() uint64 {
	var acc uint64
	for coord, c := range s.chunks {
		seed := uint64(coord.X)*2654435761 ^ uint64(coord.Y)*2246822519 ^ uint64(coord.Z)*3266489917
		acc ^= c.Hash(seed)
	}
	return acc
}

// sortedChunkCoords returns the shape's chunk coordinates in a fixed order,
// so snapshotLightGrid and applyLightGrid agree on which slice of the grid
// belongs to which chunk.
func (s *Shape) sortedChunkCoords() []voxel.ChunkCoord {
	coords := make([]voxel.ChunkCoord, 0, len(s.chunks))
	for coord := range s.chunks {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool {
		a, b := coords[i], coords[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return coords
}

// snapshotLightGrid concatenates every chunk's baked light array, in
// sortedChunkCoords order, into one slice suitable for lightBake.Put.
func (s *Shape) snapshotLightGrid() []voxel.VertexLight {
	coords := s.sortedChunkCoords()
	grid := make([]voxel.VertexLight, 0, len(coords)*vxconfig.ChunkSizeCube)
	for _, coord := range coords {
		grid = append(grid, s.chunks[coord].LightGrid()...)
	}
	return grid
}

// applyLightGrid restores a grid produced by snapshotLightGrid back onto the
// shape's chunks, in the same sortedChunkCoords order it was taken in. A
// grid whose length doesn't match the current chunk set is not applied;
// the shape's lighting is baked from scratch instead.
func (s *Shape) applyLightGrid(grid []voxel.VertexLight) {
	coords := s.sortedChunkCoords()
	if len(grid) != len(coords)*vxconfig.ChunkSizeCube {
		s.bakeLightingFromScratch()
		return
	}
	for i, coord := range coords {
		start := i * vxconfig.ChunkSizeCube
		s.chunks[coord].SetLightGrid(grid[start : start+vxconfig.ChunkSizeCube])
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxOf3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// nextExtent returns the smallest power of two at least as large as want,
// matching the octree's own dimension policy (pkg/octree.New rounds its
// requested dimension up to a power of two the same way).
func nextExtent(want int) int {
	n := 1
	for n < want {
		n *= 2
	}
	return n
}
