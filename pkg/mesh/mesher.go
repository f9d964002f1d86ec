package mesh

import (
	"math"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/voxel"
)

// Buffer accumulates one chunk's deduplicated vertices and triangle
// indices for one draw bucket (opaque or transparent).
type Buffer struct {
	Vertices []Vertex
	Indices  []uint32

	keys map[uint32]uint32
}

func newBuffer() *Buffer {
	return &Buffer{keys: make(map[uint32]uint32)}
}

// emit returns the index of the vertex for key, writing v as a new vertex
// only the first time key is seen — the chunk-scoped version of the
// engine's per-mem-area vertex hash map.
func (b *Buffer) emit(key uint32, v Vertex) uint32 {
	if idx, ok := b.keys[key]; ok {
		return idx
	}
	idx := uint32(len(b.Vertices))
	b.Vertices = append(b.Vertices, v)
	b.keys[key] = idx
	return idx
}

// Mesher turns occupied blocks of a chunk into vertex/index buffers. It
// holds no per-chunk state; a single Mesher meshes any number of chunks
// sharing the same palette and config.
type Mesher struct {
	Palette *color.Palette
	Config  *vxconfig.Config

	// DrawInnerTransparentFaces renders the boundary between two
	// differently-colored transparent blocks (e.g. colored glass panes
	// touching), mirroring shape_draw_inner_transparent_faces. Off by
	// default: most shapes never rely on it and it doubles transparent
	// face count when on.
	DrawInnerTransparentFaces bool
}

// New creates a Mesher reading colors from palette and behavior flags from
// cfg (nil falls back to vxconfig.Default()).
func New(palette *color.Palette, cfg *vxconfig.Config) *Mesher {
	if cfg == nil {
		cfg = vxconfig.Default()
	}
	return &Mesher{Palette: palette, Config: cfg}
}

// classification of a single block's occupancy/opacity, gathered once per
// sampled neighbor and reused for visibility, AO, light-cast and baked-light
// lookups — it carries the owning chunk/local coords since a sampled
// neighbor can land in a chunk other than the one being meshed.
type classification struct {
	solid, opaque, transparent bool
	colorIndex                 voxel.Block

	owner      *voxel.Chunk
	lx, ly, lz int
}

func (m *Mesher) classify(chunk *voxel.Chunk, x, y, z int) classification {
	block, owner, lx, ly, lz := chunk.GetBlockIncludingNeighbors(x, y, z)
	if owner == nil || voxel.IsAir(block) {
		return classification{colorIndex: voxel.Air, owner: owner, lx: lx, ly: ly, lz: lz}
	}
	c := classification{solid: true, colorIndex: block, owner: owner, lx: lx, ly: ly, lz: lz}
	if m.Palette.IsTransparent(block) {
		c.transparent = true
	} else {
		c.opaque = true
	}
	return c
}

func (c classification) aoCaster(cfg *vxconfig.Config) bool {
	return c.solid && (c.opaque || cfg.Mesh.TransparentAOCaster)
}

func (c classification) lightCaster() bool {
	return !c.opaque
}

func (m *Mesher) faceVisible(selfTransparent bool, selfColor voxel.Block, n classification) bool {
	if selfTransparent {
		if m.DrawInnerTransparentFaces {
			return !n.solid || (n.transparent && selfColor != n.colorIndex)
		}
		return !n.solid
	}
	return !n.opaque
}

// lightAt resolves c's baked light from its owning chunk, falling back to
// full sunlight when c is air, opaque, or unresolved (no loaded neighbor).
func lightAt(c classification) voxel.VertexLight {
	if c.owner == nil {
		return voxel.DefaultVertexLight
	}
	return c.owner.GetLightOrDefault(c.lx, c.ly, c.lz, c.colorIndex == voxel.Air || c.opaque)
}

// Build meshes every occupied block in chunk's ForEachBlock range, emitting
// into separate opaque/transparent buffers.
func (m *Mesher) Build(chunk *voxel.Chunk) (opaque, transparent *Buffer) {
	opaque, transparent = newBuffer(), newBuffer()
	chunk.ForEachBlock(func(x, y, z int, block voxel.Block) {
		selfTransparent := m.Palette.IsTransparent(block)
		dst := opaque
		if selfTransparent {
			dst = transparent
		}
		for _, face := range voxel.AllFaces {
			g := faceGeometries[face]
			nx, ny, nz := x+g.normal[0], y+g.normal[1], z+g.normal[2]
			n := m.classify(chunk, nx, ny, nz)
			if !m.faceVisible(selfTransparent, block, n) {
				continue
			}
			m.emitFace(dst, chunk, x, y, z, face, block)
		}
	})
	return opaque, transparent
}

// emitFace computes AO and smoothed light for the face's 4 corners, picks
// the triangle-shift diagonal, and writes 4 (deduped) vertices plus 6
// indices into dst.
func (m *Mesher) emitFace(dst *Buffer, chunk *voxel.Chunk, x, y, z int, face voxel.Face, block voxel.Block) {
	g := faceGeometries[face]
	faceAdjacent := addOffset([3]int{x, y, z}, g.normal, 1)

	var ao [4]uint8
	var light [4]voxel.VertexLight
	var pos [4][3]int

	cFace := m.classify(chunk, faceAdjacent[0], faceAdjacent[1], faceAdjacent[2])
	baseLight := lightAt(cFace)

	for k := 0; k < 4; k++ {
		signU, signV := g.aoSigns(k)
		edgeU := addOffset(faceAdjacent, g.tangentU, signU)
		edgeV := addOffset(faceAdjacent, g.tangentV, signV)
		diag := addOffset(edgeU, g.tangentV, signV)

		cu := m.classify(chunk, edgeU[0], edgeU[1], edgeU[2])
		cv := m.classify(chunk, edgeV[0], edgeV[1], edgeV[2])
		cd := m.classify(chunk, diag[0], diag[1], diag[2])

		aoCasterU, aoCasterV, aoCasterD := cu.aoCaster(m.Config), cv.aoCaster(m.Config), cd.aoCaster(m.Config)
		ao[k] = combineAO(aoCasterU, aoCasterV, aoCasterD)

		vl := baseLight
		if m.Config.Mesh.VLightSmoothing && (cu.lightCaster() || cv.lightCaster()) {
			lu, lv, ld := lightAt(cu), lightAt(cv), lightAt(cd)
			vl = smoothLight(vxconfig.SunlightMode(m.Config.Mesh.SunlightMode), vl,
				[3]bool{cd.lightCaster(), cu.lightCaster(), cv.lightCaster()},
				[3]voxel.VertexLight{ld, lu, lv})
		}
		vl.Ambient = dimAmbient(vl.Ambient, ao[k])

		light[k] = vl
		pos[k] = g.positionOffset(k)
	}

	shift := pickTriangleShift(vxconfig.TriangleShiftMode(m.Config.Mesh.TriangleShiftMode), ao, light)

	var idx [4]uint32
	for k := 0; k < 4; k++ {
		local := [3]int{x + pos[k][0], y + pos[k][1], z + pos[k][2]}
		v := Vertex{
			X: float32(local[0]), Y: float32(local[1]), Z: float32(local[2]),
			ColorIndex: block,
			Metadata:   packMetadata(ao[k], face, light[k]),
		}
		key := dedupKey(local, block, ao[k], face, light[k].Ambient)
		idx[k] = dst.emit(key, v)
	}

	if shift {
		dst.Indices = append(dst.Indices, idx[1], idx[2], idx[3], idx[1], idx[3], idx[0])
	} else {
		dst.Indices = append(dst.Indices, idx[0], idx[1], idx[2], idx[0], idx[2], idx[3])
	}
}

// pickTriangleShift decides whether to split the quad along the 2-4
// diagonal (true) instead of the default 1-3 diagonal, following the
// configured mode's cascade of signals.
func pickTriangleShift(mode vxconfig.TriangleShiftMode, ao [4]uint8, light [4]voxel.VertexLight) bool {
	byAO := func() bool { return int(ao[0])+int(ao[2]) > int(ao[1])+int(ao[3]) }

	switch mode {
	case vxconfig.TriangleShiftByAO:
		return byAO()
	case vxconfig.TriangleShiftBySunlightDelta:
		return sunlightDelta(light, 0, 2) > sunlightDelta(light, 1, 3)
	case vxconfig.TriangleShiftBySunlightThenAO:
		d13, d24 := sunlightDelta(light, 0, 2), sunlightDelta(light, 1, 3)
		if d13 > vxconfig.TriangleShiftMixedThreshold || d24 > vxconfig.TriangleShiftMixedThreshold {
			return d13 > d24
		}
		return byAO()
	default: // TriangleShiftCascade
		d13, d24 := sunlightDelta(light, 0, 2), sunlightDelta(light, 1, 3)
		if d13 > vxconfig.TriangleShiftMixedThreshold || d24 > vxconfig.TriangleShiftMixedThreshold {
			return d13 > d24
		}
		l13, l24 := luminanceDelta(light, 0, 2), luminanceDelta(light, 1, 3)
		if l13 > vxconfig.TriangleShiftMixedThresholdLuma || l24 > vxconfig.TriangleShiftMixedThresholdLuma {
			return l13 > l24
		}
		return byAO()
	}
}

func sunlightDelta(light [4]voxel.VertexLight, a, b int) float64 {
	return math.Abs(float64(light[a].Ambient) - float64(light[b].Ambient))
}

func luminance(l voxel.VertexLight) float64 {
	return 0.299*float64(l.R) + 0.587*float64(l.G) + 0.114*float64(l.B)
}

func luminanceDelta(light [4]voxel.VertexLight, a, b int) float64 {
	return math.Abs(luminance(light[a]) - luminance(light[b]))
}
