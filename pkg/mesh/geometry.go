package mesh

import "github.com/nyxreach/voxelcore/pkg/voxel"

// faceGeometry describes one cube face in terms of its outward normal and
// the two tangent axes spanning it. corners lists the face's 4 quad
// vertices in winding order, each as (u,v) in {0,1} along tangentU/tangentV
// — the same 0/1 values double as the face's AO/light sampling signs once
// remapped to -1/+1, so one table drives both vertex placement and corner
// occlusion instead of six hand-written per-face blocks.
type faceGeometry struct {
	normal             [3]int
	tangentU, tangentV [3]int
	corners            [4][2]int
}

var faceGeometries = map[voxel.Face]faceGeometry{
	voxel.FaceEast: {
		normal: [3]int{1, 0, 0}, tangentU: [3]int{0, 1, 0}, tangentV: [3]int{0, 0, 1},
		corners: [4][2]int{{1, 0}, {0, 0}, {0, 1}, {1, 1}},
	},
	voxel.FaceWest: {
		normal: [3]int{-1, 0, 0}, tangentU: [3]int{0, 1, 0}, tangentV: [3]int{0, 0, 1},
		corners: [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	},
	voxel.FaceUp: {
		normal: [3]int{0, 1, 0}, tangentU: [3]int{1, 0, 0}, tangentV: [3]int{0, 0, 1},
		corners: [4][2]int{{1, 0}, {1, 1}, {0, 1}, {0, 0}},
	},
	voxel.FaceDown: {
		normal: [3]int{0, -1, 0}, tangentU: [3]int{1, 0, 0}, tangentV: [3]int{0, 0, 1},
		corners: [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
	},
	voxel.FaceSouth: {
		normal: [3]int{0, 0, 1}, tangentU: [3]int{1, 0, 0}, tangentV: [3]int{0, 1, 0},
		corners: [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
	},
	voxel.FaceNorth: {
		normal: [3]int{0, 0, -1}, tangentU: [3]int{1, 0, 0}, tangentV: [3]int{0, 1, 0},
		corners: [4][2]int{{0, 1}, {0, 0}, {1, 0}, {1, 1}},
	},
}

// positionOffset returns the block-local corner offset (0/1 per axis) of a
// face's k-th vertex, i.e. the geometric position of that vertex relative
// to the block's minimum corner.
func (g faceGeometry) positionOffset(k int) [3]int {
	u, v := g.corners[k][0], g.corners[k][1]
	pos := clampPositive(g.normal)
	for i := 0; i < 3; i++ {
		pos[i] += u*g.tangentU[i] + v*g.tangentV[i]
	}
	return pos
}

// aoSigns returns the (+1/-1) sign along tangentU/tangentV used to find the
// edge/diagonal neighbors for a face's k-th vertex's AO and light sampling.
func (g faceGeometry) aoSigns(k int) (signU, signV int) {
	u, v := g.corners[k][0], g.corners[k][1]
	return 2*u - 1, 2*v - 1
}

func clampPositive(v [3]int) [3]int {
	out := v
	for i := range out {
		if out[i] < 0 {
			out[i] = 0
		}
	}
	return out
}

func addOffset(base [3]int, off [3]int, scale int) [3]int {
	return [3]int{base[0] + off[0]*scale, base[1] + off[1]*scale, base[2] + off[2]*scale}
}
