// Package shape implements the voxel model a mesher and a physics layer
// consume: a palette-indexed chunk grid, its lighting grid, its model and
// world bounding boxes, named points of interest, and the transaction/
// history layer that makes edits undoable.
package shape

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/light"
	"github.com/nyxreach/voxelcore/pkg/voxel"
)

// Size is a fixed shape's width/height/depth, in blocks.
type Size struct {
	Width, Height, Depth int
}

// Box is a model-space block-coordinate bounding box: Min inclusive, Max
// exclusive (Max-1 is the last occupied block on each axis), matching the
// engine's own box convention.
type Box struct {
	Min, Max [3]int
}

// Empty reports whether the box has zero volume.
func (b Box) Empty() bool {
	return b.Max[0] <= b.Min[0] || b.Max[1] <= b.Min[1] || b.Max[2] <= b.Min[2]
}

// Shape owns a palette, a chunk grid, its baked lighting, its bounding
// boxes, a transform and optional pivot, named points of interest, and the
// pending transaction/history that make edits undoable. Coordinates passed
// to its public edit methods are user-facing ("offset-stable" across
// resizes); UserToInternal/InternalToUser convert to/from the coordinate
// space the chunk grid is actually indexed by.
type Shape struct {
	palette *color.Palette
	chunks  map[voxel.ChunkCoord]*voxel.Chunk

	pois         map[string]mgl32.Vec3
	poisRotation map[string]mgl32.Vec3

	transform mgl32.Mat4
	pivot     mgl32.Mat4
	hasPivot  bool

	box           Box
	worldAABBDone bool
	worldAABB     Box

	offset [3]int32

	lightProp   *light.Propagator
	lightBake   *BakeCache
	usesLighting bool

	history                *History
	pendingTransaction     *Transaction
	historyEnabled         bool
	keepTransactionPending bool
	bakeLocked             bool

	nbBlocks uint64
	nbChunks uint64

	hasFixedSize bool
	fixedSize    Size

	extent int // resizable shapes only: current cubic allocated dimension

	isMutable   bool
	isResizable bool
}

// BakeCache is an alias so callers can build one without importing pkg/light
// directly.
type BakeCache = light.BakeCache

// NewBakeCache creates an empty lighting bake cache.
func NewBakeCache() *BakeCache { return light.NewBakeCache() }

func newShape(cfg *vxconfig.Config, usesLighting bool) *Shape {
	s := &Shape{
		palette:      color.NewPalette(color.NewAtlas(), true),
		chunks:       make(map[voxel.ChunkCoord]*voxel.Chunk),
		pois:         make(map[string]mgl32.Vec3),
		poisRotation: make(map[string]mgl32.Vec3),
		transform:    mgl32.Ident4(),
		pivot:        mgl32.Ident4(),
		isMutable:    true,
		usesLighting: usesLighting,
	}
	if usesLighting {
		s.lightProp = light.NewPropagator(cfg)
		s.lightBake = NewBakeCache()
	}
	return s
}

// NewFixedSize creates a shape with a fixed width/height/depth: edits
// outside [0,width)x[0,height)x[0,depth) are rejected and the shape is
// never resized or offset.
func NewFixedSize(cfg *vxconfig.Config, size Size, usesLighting bool) *Shape {
	s := newShape(cfg, usesLighting)
	s.hasFixedSize = true
	s.fixedSize = size
	return s
}

// NewResizable creates a shape whose allocated extent grows on demand as
// blocks are added outside it, shifting its internal offset when growth
// would otherwise require negative coordinates.
func NewResizable(cfg *vxconfig.Config, usesLighting bool) *Shape {
	s := newShape(cfg, usesLighting)
	s.isResizable = true
	s.extent = vxconfig.ChunkSize
	return s
}

// Palette returns the shape's color palette.
func (s *Shape) Palette() *color.Palette { return s.palette }

// UsesLighting reports whether this shape bakes and stores lighting.
func (s *Shape) UsesLighting() bool { return s.usesLighting }

// IsResizable reports whether the shape grows its extent on demand.
func (s *Shape) IsResizable() bool { return s.isResizable }

// IsMutable reports whether the shape currently accepts edits.
func (s *Shape) IsMutable() bool { return s.isMutable }

// SetMutable toggles whether the shape accepts edits.
func (s *Shape) SetMutable(mutable bool) { s.isMutable = mutable }

// BlockCount returns the total number of non-air blocks across the shape.
func (s *Shape) BlockCount() uint64 { return s.nbBlocks }

// ChunkCount returns the total number of allocated chunks.
func (s *Shape) ChunkCount() uint64 { return s.nbChunks }

// FixedSize returns the size this shape was constructed with, and whether
// it has one at all (a resizable shape never does).
func (s *Shape) FixedSize() (Size, bool) { return s.fixedSize, s.hasFixedSize }

// MaxExtentUsed returns the bounding-box-derived size currently used by the
// model, always available regardless of construction mode.
func (s *Shape) MaxExtentUsed() Size {
	if s.box.Empty() {
		return Size{}
	}
	return Size{
		Width:  s.box.Max[0] - s.box.Min[0],
		Height: s.box.Max[1] - s.box.Min[1],
		Depth:  s.box.Max[2] - s.box.Min[2],
	}
}

// ModelBox returns the current model-space bounding box.
func (s *Shape) ModelBox() Box { return s.box }

// Transform returns the shape's root transform.
func (s *Shape) Transform() mgl32.Mat4 { return s.transform }

// SetTransform replaces the shape's root transform, invalidating the
// cached world AABB.
func (s *Shape) SetTransform(t mgl32.Mat4) {
	s.transform = t
	s.worldAABBDone = false
}

// Pivot returns the shape's pivot transform and whether one has been set.
func (s *Shape) Pivot() (mgl32.Mat4, bool) { return s.pivot, s.hasPivot }

// SetPivot sets the shape's pivot transform.
func (s *Shape) SetPivot(p mgl32.Mat4) {
	s.pivot = p
	s.hasPivot = true
	s.worldAABBDone = false
}

// WorldAABB returns the shape's world-space bounding box, recomputing and
// caching it from the model box and current transform if the cache was
// invalidated by a transform or model change.
func (s *Shape) WorldAABB() Box {
	if s.worldAABBDone {
		return s.worldAABB
	}
	s.worldAABB = s.computeWorldAABB()
	s.worldAABBDone = true
	return s.worldAABB
}

func (s *Shape) clearCachedWorldAABB() { s.worldAABBDone = false }

func (s *Shape) computeWorldAABB() Box {
	if s.box.Empty() {
		return Box{}
	}
	min := mgl32.Vec3{float32(s.box.Min[0]), float32(s.box.Min[1]), float32(s.box.Min[2])}
	max := mgl32.Vec3{float32(s.box.Max[0]), float32(s.box.Max[1]), float32(s.box.Max[2])}

	var wmin, wmax mgl32.Vec3
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{min[0], min[1], min[2]}
		if i&1 != 0 {
			corner[0] = max[0]
		}
		if i&2 != 0 {
			corner[1] = max[1]
		}
		if i&4 != 0 {
			corner[2] = max[2]
		}
		w := mgl32.TransformCoordinate(corner, s.transform)
		if i == 0 {
			wmin, wmax = w, w
			continue
		}
		for axis := 0; axis < 3; axis++ {
			if w[axis] < wmin[axis] {
				wmin[axis] = w[axis]
			}
			if w[axis] > wmax[axis] {
				wmax[axis] = w[axis]
			}
		}
	}
	return Box{
		Min: [3]int{int(wmin[0]), int(wmin[1]), int(wmin[2])},
		Max: [3]int{int(wmax[0]) + 1, int(wmax[1]) + 1, int(wmax[2]) + 1},
	}
}

// UserToInternal converts a user-facing (offset-stable) block coordinate
// into the coordinate space the chunk grid is actually indexed by.
func (s *Shape) UserToInternal(x, y, z int32) (int32, int32, int32) {
	return x + s.offset[0], y + s.offset[1], z + s.offset[2]
}

// InternalToUser converts an internal chunk-grid coordinate back to the
// user-facing coordinate space.
func (s *Shape) InternalToUser(x, y, z int32) (int32, int32, int32) {
	return x - s.offset[0], y - s.offset[1], z - s.offset[2]
}

// Offset returns the current internal offset (internal = user + offset).
func (s *Shape) Offset() (int32, int32, int32) { return s.offset[0], s.offset[1], s.offset[2] }

// inBoundsInternal reports whether an internal-space coordinate falls
// within the shape's allocated extent: its fixed size, if it has one, or
// its current cubic extent otherwise.
func (s *Shape) inBoundsInternal(x, y, z int) bool {
	if s.hasFixedSize {
		return x >= 0 && x < s.fixedSize.Width &&
			y >= 0 && y < s.fixedSize.Height &&
			z >= 0 && z < s.fixedSize.Depth
	}
	return x >= 0 && x < s.extent && y >= 0 && y < s.extent && z >= 0 && z < s.extent
}

func (s *Shape) chunkAndLocal(x, y, z int) (voxel.ChunkCoord, int, int, int) {
	coord := voxel.WorldToChunkCoord(int32(x), int32(y), int32(z))
	lx, ly, lz := voxel.WorldToLocalCoord(int32(x), int32(y), int32(z))
	return coord, lx, ly, lz
}

func (s *Shape) chunkAt(coord voxel.ChunkCoord) *voxel.Chunk {
	return s.chunks[coord]
}

// ensureChunk returns the chunk at coord, creating and linking it to any
// already-present neighbors if it doesn't exist yet.
func (s *Shape) ensureChunk(coord voxel.ChunkCoord) *voxel.Chunk {
	if c, ok := s.chunks[coord]; ok {
		return c
	}
	c := voxel.NewChunk(coord)
	if !s.usesLighting {
		c.ResetLighting(true)
	}
	s.chunks[coord] = c
	s.nbChunks++

	voxel.ForEachNeighborOffset(func(n voxel.Neighbor, dx, dy, dz int32) {
		nb, ok := s.chunks[voxel.ChunkCoord{X: coord.X + dx, Y: coord.Y + dy, Z: coord.Z + dz}]
		if ok {
			c.LinkMutual(nb)
		}
	})
	return c
}

// --- pkg/light.World implementation, over internal coordinates ---

func (s *Shape) Block(x, y, z int) color.EntryIndex {
	if !s.inBoundsInternal(x, y, z) {
		return voxel.Air
	}
	coord, lx, ly, lz := s.chunkAndLocal(x, y, z)
	c := s.chunkAt(coord)
	if c == nil {
		return voxel.Air
	}
	return c.GetBlock(lx, ly, lz)
}

func (s *Shape) Light(x, y, z int) voxel.VertexLight {
	coord, lx, ly, lz := s.chunkAndLocal(x, y, z)
	c := s.chunkAt(coord)
	if c == nil {
		return voxel.DefaultVertexLight
	}
	return c.GetLight(lx, ly, lz)
}

// SetLight stores light at internal (x,y,z). A cell in a chunk that was
// never allocated (pure air, nothing ever placed there) is silently
// dropped: Light already returns DefaultVertexLight (full sunlight) for an
// unallocated chunk, the correct value for open air, so there is nothing
// useful to persist.
func (s *Shape) SetLight(x, y, z int, l voxel.VertexLight) {
	coord, lx, ly, lz := s.chunkAndLocal(x, y, z)
	c := s.chunkAt(coord)
	if c == nil {
		return
	}
	c.SetLight(lx, ly, lz, l)
	c.SetDirty(true)
}

func (s *Shape) InBounds(x, y, z int) bool { return s.inBoundsInternal(x, y, z) }

var _ light.World = (*Shape)(nil)
