package buffer

import (
	"math"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
)

// allocState mirrors shape_add_vertex_buffer's per-chain capacity state
// machine: 0 the chain has never allocated, or its last shell/volume
// estimate was capped at MAX (so the next buffer is estimated afresh);
// 1 the chain allocated within the current frame and the estimate was
// uncapped (so the next buffer, if needed, scales down, and once the
// previous one is at MIN the chain returns to 0 and re-estimates); 2 the shape has survived past its first frame and its next
// buffer is the small fixed-size runtime buffer; 3 every buffer after that
// scales up from the previous one.
type allocState int

const (
	allocUninitialized allocState = iota
	allocUncappedEstimate
	allocRuntimeFirst
	allocRuntimeSubsequent
)

// Chain is one shape's ordered series of same-kind (opaque or transparent)
// buffers. Buffers are appended as the current one reaches capacity; they
// are never shrunk or reordered.
type Chain[K comparable] struct {
	Transparent bool
	Buffers     []*Buffer[K]
	state       allocState
}

// NewChain creates an empty buffer chain.
func NewChain[K comparable](transparent bool) *Chain[K] {
	return &Chain[K]{Transparent: transparent}
}

// EnterRuntimePhase marks that this chain's shape has survived past its
// first frame: the next buffer grown uses the small fixed runtime count
// instead of the shell/volume estimate, matching the engine's switch from
// "fit the whole shape" sizing to "fit a few structural edits" sizing.
func (c *Chain[K]) EnterRuntimePhase() {
	if c.state == allocUninitialized || c.state == allocUncappedEstimate {
		c.state = allocRuntimeFirst
	}
}

func (c *Chain[K]) currentBuffer() *Buffer[K] {
	if len(c.Buffers) == 0 {
		return nil
	}
	return c.Buffers[len(c.Buffers)-1]
}

func (c *Chain[K]) lastCapacity() int {
	if buf := c.currentBuffer(); buf != nil {
		return buf.Capacity
	}
	return vxconfig.ShapeBufferMinCount
}

// Grow appends and returns a new buffer, sized per the chain's current
// capacity state. estimate is called only when the chain is starting fresh
// (or restarting after bottoming out) and needs a shell/volume-based first
// guess; it is typically EstimateCapacity bound to the shape's current
// bounding box.
func (c *Chain[K]) Grow(estimate func() int) *Buffer[K] {
	capacity := c.nextCapacity(estimate)
	buf := NewBuffer[K](capacity)
	c.Buffers = append(c.Buffers, buf)
	return buf
}

func (c *Chain[K]) nextCapacity(estimate func() int) int {
	switch c.state {
	case allocUninitialized:
		capacity := clampCapacity(estimate())
		if capacity < vxconfig.ShapeBufferMaxCount {
			c.state = allocUncappedEstimate
		}
		return capacity
	case allocUncappedEstimate:
		prev := c.lastCapacity()
		if prev == vxconfig.ShapeBufferMinCount {
			c.state = allocUninitialized
			return c.nextCapacity(estimate)
		}
		return clampCapacity(int(math.Ceil(float64(prev) * vxconfig.ShapeBufferInitScaleRate)))
	case allocRuntimeFirst:
		c.state = allocRuntimeSubsequent
		return clampCapacity(vxconfig.ShapeBufferRuntimeInitial)
	default: // allocRuntimeSubsequent
		prev := c.lastCapacity()
		return clampCapacity(int(math.Ceil(float64(prev) * vxconfig.ShapeBufferRuntimeScale)))
	}
}

// EstimateCapacity computes a first-buffer capacity from a shape's
// bounding-box shell and volume block counts, following
// shape_add_vertex_buffer's shell-vs-volume heuristic.
func EstimateCapacity(shell, volume int, transparent bool) int {
	volumeOccupancy := float64(volume) * vxconfig.ShapeBufferVolumeOccupancy
	var capacity float64
	if float64(shell) >= volumeOccupancy {
		capacity = float64(shell) * vxconfig.ShapeBufferShellFactor
	} else {
		capacity = volumeOccupancy * vxconfig.ShapeBufferVolumeFactor
	}
	if transparent {
		capacity *= vxconfig.ShapeBufferTransparentFactor
	}
	return clampCapacity(int(math.Ceil(capacity)))
}

// clampCapacity clamps to [MIN, MAX] and rounds up to a perfect square, so
// a renderer may back the buffer with a square 2D texture if it wants to.
func clampCapacity(c int) int {
	if c < vxconfig.ShapeBufferMinCount {
		c = vxconfig.ShapeBufferMinCount
	}
	if c > vxconfig.ShapeBufferMaxCount {
		c = vxconfig.ShapeBufferMaxCount
	}
	side := int(math.Ceil(math.Sqrt(float64(c))))
	return side * side
}
