// Package vxconfig holds the compile-time constants and runtime-tunable
// settings shared across voxelcore's packages.
package vxconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Fixed constants. These mirror the original engine's config.h and are not
// runtime-tunable: changing CHUNK_SIZE, for instance, changes the octree
// depth and the packed vertex layout.
const (
	ChunkSize      = 16
	ChunkSizeSqr   = ChunkSize * ChunkSize
	ChunkSizeCube  = ChunkSize * ChunkSize * ChunkSize
	ChunkSizeMask  = ChunkSize - 1
	ChunkSizeSqrt  = 4 // sqrt(ChunkSize)

	ShapeColorIndexAirBlock = 255
	ShapeColorIndexMaxCount = 255

	ColorAtlasSize          = 512
	AtlasColorIndexMaxCount = 131071
	AtlasColorIndexError    = AtlasColorIndexMaxCount

	NBUndoableActions = 20

	// TriangleShiftMixedThreshold/Luma gate the sunlight- and luminance-delta
	// triangle-shift comparisons: a diagonal delta below this is treated as
	// "no clear winner" and the mesher falls through to the next signal.
	TriangleShiftMixedThreshold     = 4.0
	TriangleShiftMixedThresholdLuma = 24.0

	// AOAmbientDimFactor/Bias dim a vertex's baked ambient value by its AO
	// level before packing: ambient' = ambient*Factor + Bias - AOGradient[ao].
	AOAmbientDimFactor = 0.9
	AOAmbientDimBias   = 0.1

	RtreeNodeMinCapacity = 2
	RtreeNodeMaxCapacity = 4

	// RtreeCastStepDistance bounds a single swept-box broadphase step: a
	// quarter of a large map, or about 10 frames at RTREE_LEAF_UPDATE's
	// sibling PHYSICS_MAX_VELOCITY (400 u/s * .016s). Casts longer than this
	// are walked in steps rather than tested as one oversized broadphase box.
	RtreeCastStepDistance = 64.0

	// RtreeLeafUpdateThreshold gates Update's in-place fast path: a leaf
	// move that changes its parent node's volume by less than this is
	// patched in place instead of triggering a full remove+reinsert.
	RtreeLeafUpdateThreshold = 25.0

	ShapeBufferMaxCount       = 1048576
	ShapeBufferMinCount       = 4096
	ShapeBufferInitScaleRate  = 0.75
	ShapeBufferRuntimeScale   = 4.0
	ShapeBufferRuntimeInitial = 4096

	// ShapeBufferVolumeOccupancy/ShellFactor/VolumeFactor feed the
	// first-buffer capacity estimate (shell vs. volume block count). The
	// original engine's shape.c references VERTEX_BUFFER_SHELL_FACTOR,
	// VERTEX_BUFFER_VOLUME_FACTOR and VERTEX_BUFFER_VOLUME_OCCUPANCY, but
	// only SHAPE_BUFFER_INITIAL_FACTOR (.25) was present in the retrieved
	// config.h; the three below reuse that value and a round occupancy
	// estimate rather than inventing unrelated constants.
	ShapeBufferVolumeOccupancy = 0.5
	ShapeBufferShellFactor     = 0.25
	ShapeBufferVolumeFactor    = 0.25
	ShapeBufferTransparentFactor = 0.25

	SunlightPropagationStep  = 1
	EmissionPropagationStep  = 1
	TransparencyAbsorptionCapToStep = true

	// DefaultLightPacked is the packed "full sun, no emission" light value,
	// 15 ambient << 5 as the original engine packs it (15 * 32 = 480).
	DefaultLightPacked = 15 * 32

	VoxFormatVersion = 150
)

// AOGradient maps a corner's AO level (0-3, fully lit to fully occluded) to
// the amount subtracted from a vertex's packed ambient value: {0, 15*0.6*0.24,
// 15*0.8*0.24, 15*1.0*0.24} truncated to uint8.
var AOGradient = [4]uint8{0, 2, 2, 3}

// TriangleShiftMode selects how the mesher picks which diagonal to split a
// quad along, mirroring the original's TRIANGLE_SHIFT_MODE compile-time
// options 0-3.
type TriangleShiftMode int

const (
	// TriangleShiftByAO always compares summed AO across each diagonal
	// (mode 0): ao1+ao3 > ao2+ao4.
	TriangleShiftByAO TriangleShiftMode = iota
	// TriangleShiftBySunlightDelta compares raw sunlight deltas across each
	// diagonal with no threshold gate (mode 1).
	TriangleShiftBySunlightDelta
	// TriangleShiftBySunlightThenAO gates on a sunlight-delta threshold,
	// falling back to the AO comparison when neither diagonal clears it
	// (mode 2).
	TriangleShiftBySunlightThenAO
	// TriangleShiftCascade is the default: sunlight delta first, luminance
	// delta next, AO sum last (mode 3).
	TriangleShiftCascade
)

// SunlightMode selects how a smoothed vertex's sunlight channel is derived
// from its contributors.
type SunlightMode int

const (
	SunlightMin SunlightMode = iota
	SunlightMax
	SunlightMean
)

// EasingKind names one of the transparency-absorption easings.
type EasingKind int

const (
	EasingLinear EasingKind = iota
	EasingQuadratic
	EasingCubic
	EasingExponential
	EasingCircular
)

// Config carries the runtime-tunable subset of the engine's behavior: mesher
// and lighting feature flags plus absorption easing selection. It is loaded
// from an optional TOML file; defaults are used for anything absent.
type Config struct {
	Mesh struct {
		GreedyMerge         bool `toml:"greedy_merge"`
		VLightSmoothing     bool `toml:"vlight_smoothing"`
		TransparentAOCaster bool `toml:"transparent_ao_caster"`
		TriangleShiftMode   int  `toml:"triangle_shift_mode"`
		SunlightMode        int  `toml:"sunlight_mode"`
	} `toml:"mesh"`

	Light struct {
		Easing               int  `toml:"easing"`
		CapAbsorptionToStep  bool `toml:"cap_absorption_to_step"`
	} `toml:"light"`

	Debug bool `toml:"debug"`
}

// Default returns the engine's documented defaults: vlight smoothing on,
// greedy merge off (so per-face AO/triangle-shift semantics stay exact),
// transparent blocks are not AO casters, triangle shift mode 3 (cascade:
// sunlight delta, then luminance delta, then AO sum), sunlight smoothing by
// min, and quadratic absorption easing capped to the current BFS step.
func Default() *Config {
	c := &Config{}
	c.Mesh.GreedyMerge = false
	c.Mesh.VLightSmoothing = true
	c.Mesh.TransparentAOCaster = false
	c.Mesh.TriangleShiftMode = int(TriangleShiftCascade)
	c.Mesh.SunlightMode = int(SunlightMin)
	c.Light.Easing = int(EasingQuadratic)
	c.Light.CapAbsorptionToStep = TransparencyAbsorptionCapToStep
	c.Debug = false
	return c
}

// Load reads a TOML config file at path, overlaying it on Default(). A
// missing file is not an error: Default() is returned unchanged.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("vxconfig: decode %s: %w", path, err)
	}
	return c, nil
}
