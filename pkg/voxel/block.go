package voxel

import "github.com/nyxreach/voxelcore/pkg/color"

// Block is a chunk-local color index (0-254), or Air. It indexes into the
// shape's Palette to resolve a color, refcount, emissive flag, etc.
type Block = color.EntryIndex

// Air is the reserved "no block" sentinel.
const Air Block = color.AirBlock

// IsAir reports whether b is the air sentinel.
func IsAir(b Block) bool { return b == Air }
