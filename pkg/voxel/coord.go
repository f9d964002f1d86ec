package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/nyxreach/voxelcore/internal/vxconfig"
)

// ChunkCoord identifies a chunk within a shape's chunk grid.
type ChunkCoord struct {
	X, Y, Z int32
}

// WorldToChunkCoord converts a block position (shape-local) to the
// coordinate of the chunk containing it.
func WorldToChunkCoord(x, y, z int32) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(x, vxconfig.ChunkSize),
		Y: floorDiv(y, vxconfig.ChunkSize),
		Z: floorDiv(z, vxconfig.ChunkSize),
	}
}

func floorDiv(a int32, b int) int32 {
	bi := int32(b)
	q := a / bi
	if a%bi != 0 && (a < 0) != (bi < 0) {
		q--
	}
	return q
}

// WorldToLocalCoord converts a block position to its coordinates local to
// the chunk containing it (always non-negative, < vxconfig.ChunkSize).
func WorldToLocalCoord(x, y, z int32) (int, int, int) {
	return int(mod(x, vxconfig.ChunkSize)), int(mod(y, vxconfig.ChunkSize)), int(mod(z, vxconfig.ChunkSize))
}

func mod(a int32, m int) int32 {
	mi := int32(m)
	r := a % mi
	if r < 0 {
		r += mi
	}
	return r
}

// ChunkToWorldPos returns the shape-local position of a chunk's minimum
// corner.
func ChunkToWorldPos(c ChunkCoord) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X * int32(vxconfig.ChunkSize)),
		float32(c.Y * int32(vxconfig.ChunkSize)),
		float32(c.Z * int32(vxconfig.ChunkSize)),
	}
}

// Face is one of the 6 cardinal block faces, used by the mesher and by
// face-level (not chunk-level) neighbor lookups.
type Face int

const (
	FaceNorth Face = iota // -Z
	FaceSouth             // +Z
	FaceEast              // +X
	FaceWest              // -X
	FaceUp                // +Y
	FaceDown              // -Y
)

// Offset returns the unit integer step for a face.
func (f Face) Offset() (dx, dy, dz int) {
	switch f {
	case FaceNorth:
		return 0, 0, -1
	case FaceSouth:
		return 0, 0, 1
	case FaceEast:
		return 1, 0, 0
	case FaceWest:
		return -1, 0, 0
	case FaceUp:
		return 0, 1, 0
	case FaceDown:
		return 0, -1, 0
	default:
		return 0, 0, 0
	}
}

// Opposite returns the face pointing the other way.
func (f Face) Opposite() Face {
	switch f {
	case FaceNorth:
		return FaceSouth
	case FaceSouth:
		return FaceNorth
	case FaceEast:
		return FaceWest
	case FaceWest:
		return FaceEast
	case FaceUp:
		return FaceDown
	case FaceDown:
		return FaceUp
	default:
		return f
	}
}

// AllFaces enumerates the 6 faces in a fixed, stable order.
var AllFaces = [6]Face{FaceNorth, FaceSouth, FaceEast, FaceWest, FaceUp, FaceDown}
