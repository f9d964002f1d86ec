package voxel

// Neighbor indexes a chunk's 26 face/edge/corner neighbors in the 3x3x3
// grid around it, matching the original engine's Neighbor enum order (the
// 9 "+X" neighbors, then the 9 "-X" neighbors, then the 8 remaining
// Y/Z-only combinations).
type Neighbor int

const (
	NeighborX Neighbor = iota
	NeighborXY
	NeighborXYZ
	NeighborXYNZ
	NeighborXNY
	NeighborXNYZ
	NeighborXNYNZ
	NeighborXZ
	NeighborXNZ

	NeighborNX
	NeighborNXY
	NeighborNXYZ
	NeighborNXYNZ
	NeighborNXNY
	NeighborNXNYZ
	NeighborNXNYNZ
	NeighborNXZ
	NeighborNXNZ

	NeighborY
	NeighborYZ
	NeighborYNZ

	NeighborNY
	NeighborNYZ
	NeighborNYNZ

	NeighborZ
	NeighborNZ

	NeighborCount = 26
)

// neighborOffsets maps each Neighbor to its (dx,dy,dz) chunk-grid step.
var neighborOffsets = [NeighborCount][3]int32{
	NeighborX:      {1, 0, 0},
	NeighborXY:     {1, 1, 0},
	NeighborXYZ:    {1, 1, 1},
	NeighborXYNZ:   {1, 1, -1},
	NeighborXNY:    {1, -1, 0},
	NeighborXNYZ:   {1, -1, 1},
	NeighborXNYNZ:  {1, -1, -1},
	NeighborXZ:     {1, 0, 1},
	NeighborXNZ:    {1, 0, -1},

	NeighborNX:     {-1, 0, 0},
	NeighborNXY:    {-1, 1, 0},
	NeighborNXYZ:   {-1, 1, 1},
	NeighborNXYNZ:  {-1, 1, -1},
	NeighborNXNY:   {-1, -1, 0},
	NeighborNXNYZ:  {-1, -1, 1},
	NeighborNXNYNZ: {-1, -1, -1},
	NeighborNXZ:    {-1, 0, 1},
	NeighborNXNZ:   {-1, 0, -1},

	NeighborY:  {0, 1, 0},
	NeighborYZ: {0, 1, 1},
	NeighborYNZ: {0, 1, -1},

	NeighborNY:  {0, -1, 0},
	NeighborNYZ: {0, -1, 1},
	NeighborNYNZ: {0, -1, -1},

	NeighborZ:  {0, 0, 1},
	NeighborNZ: {0, 0, -1},
}

// Offset returns n's chunk-grid step.
func (n Neighbor) Offset() (dx, dy, dz int32) {
	o := neighborOffsets[n]
	return o[0], o[1], o[2]
}

// NeighborOf returns the Neighbor index for a chunk-grid step in
// {-1,0,1}^3 \ {0,0,0}, or (_, false) for the zero offset.
func NeighborOf(dx, dy, dz int32) (Neighbor, bool) {
	for n, o := range neighborOffsets {
		if o[0] == dx && o[1] == dy && o[2] == dz {
			return Neighbor(n), true
		}
	}
	return 0, false
}

// ForEachNeighborOffset calls fn once per neighbor step in the 3x3x3 grid
// around the origin, skipping the center.
func ForEachNeighborOffset(fn func(n Neighbor, dx, dy, dz int32)) {
	for n, o := range neighborOffsets {
		fn(Neighbor(n), o[0], o[1], o[2])
	}
}
