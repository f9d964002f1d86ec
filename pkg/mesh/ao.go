// Package mesh turns a chunk's occupied blocks into a vertex/index buffer,
// baking ambient occlusion and smoothed vertex light per corner.
package mesh

import (
	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/voxel"
)

// combineAO folds a corner's two edge-adjacent occupancy bits and one
// diagonal occupancy bit into an AO level 0-3 (0 fully lit, 3 fully
// occluded): both edges occupied always wins outright; the diagonal
// together with one edge gives 2; any single occupied neighbor, edge or
// diagonal, gives 1.
func combineAO(edgeU, edgeV, diag bool) uint8 {
	switch {
	case edgeU && edgeV:
		return 3
	case diag && (edgeU || edgeV):
		return 2
	case diag || edgeU || edgeV:
		return 1
	default:
		return 0
	}
}

// dimAmbient dims a baked ambient value by its corner's AO level before
// packing, per vxconfig.AOGradient.
func dimAmbient(ambient, ao uint8) uint8 {
	dimmed := int(float64(ambient)*vxconfig.AOAmbientDimFactor+vxconfig.AOAmbientDimBias) - int(vxconfig.AOGradient[ao])
	if dimmed < 0 {
		dimmed = 0
	}
	return uint8(dimmed) & 0x0F
}

// smoothLight combines a corner's face-adjacent ("base") light with up to
// three neighbor lights, each gated by whether that neighbor is a light
// caster (non-opaque, so its baked value is meaningful). Ambient is
// combined per mode; RGB channels are always averaged.
func smoothLight(mode vxconfig.SunlightMode, base voxel.VertexLight, casters [3]bool, lights [3]voxel.VertexLight) voxel.VertexLight {
	ambientMinMax := base.Ambient
	ambientSum := int(base.Ambient)
	r, g, b := int(base.R), int(base.G), int(base.B)
	count := 1

	for i, cast := range casters {
		if !cast {
			continue
		}
		l := lights[i]
		switch mode {
		case vxconfig.SunlightMin:
			if l.Ambient < ambientMinMax {
				ambientMinMax = l.Ambient
			}
		case vxconfig.SunlightMax:
			if l.Ambient > ambientMinMax {
				ambientMinMax = l.Ambient
			}
		default:
			ambientSum += int(l.Ambient)
		}
		r += int(l.R)
		g += int(l.G)
		b += int(l.B)
		count++
	}

	out := voxel.VertexLight{
		R: uint8((r / count) & 0x0F),
		G: uint8((g / count) & 0x0F),
		B: uint8((b / count) & 0x0F),
	}
	if mode == vxconfig.SunlightMean {
		out.Ambient = uint8((ambientSum / count) & 0x0F)
	} else {
		out.Ambient = ambientMinMax & 0x0F
	}
	return out
}
