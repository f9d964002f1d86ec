// Package octree implements a power-of-two cubic spatial index over
// fixed-size elements, used by chunks (one byte per block) and, optionally,
// by a shape-wide index for resizable shapes.
//
// Nodes are stored in an arena (a slice) and referenced by index rather than
// pointer, per the engine's own guidance that an arena-plus-index
// representation is the natural systems-language translation of the
// original's raw-pointer node chain. A child slot of -1 means "this
// subtree is fully empty" — no node is materialized for it until something
// is Set beneath it, and a subtree collapses back to -1 once its last
// descendant is Remove'd.
package octree

import (
	"fmt"
	"hash/fnv"
)

const noChild = int32(-1)

// Box is an axis-aligned cubic region of the octree's coordinate space,
// half-open on the max corner (matching the engine's chunk-local AABB
// convention).
type Box struct {
	MinX, MinY, MinZ int
	MaxX, MaxY, MaxZ int // exclusive
}

// Contains reports whether (x,y,z) lies within the box.
func (b Box) Contains(x, y, z int) bool {
	return x >= b.MinX && x < b.MaxX &&
		y >= b.MinY && y < b.MaxY &&
		z >= b.MinZ && z < b.MaxZ
}

// Intersects reports whether two boxes overlap.
func (b Box) Intersects(o Box) bool {
	return b.MinX < o.MaxX && b.MaxX > o.MinX &&
		b.MinY < o.MaxY && b.MaxY > o.MinY &&
		b.MinZ < o.MaxZ && b.MaxZ > o.MinZ
}

type node[T any] struct {
	children [8]int32 // valid only when depth < levels; noChild == empty subtree
	value    T         // valid only when depth == levels (leaf level)
	hasValue bool
	leaf     bool
}

// Octree is a cubic spatial index over an extent in {1,2,4,...,1024},
// storing one T per point.
type Octree[T any] struct {
	dimension int
	levels    int // number of splits from root to leaf level
	nodes     []node[T]
	free      []int32 // recycled arena slots
	empty     T        // the zero/default element, returned by GetOrEmpty
}

// New creates an octree over a cubic extent of the next power of two ≥
// dimension (clamped to the {1,...,1024} range the engine supports).
// empty is the default element value, used by GetOrEmpty to distinguish
// "present with this value" from "nothing set here".
func New[T any](dimension int, empty T) *Octree[T] {
	levels := 0
	size := 1
	for size < dimension {
		size *= 2
		levels++
	}
	if size > 1024 {
		size = 1024
		levels = 10
	}
	o := &Octree[T]{
		dimension: size,
		levels:    levels,
		empty:     empty,
	}
	o.nodes = append(o.nodes, node[T]{children: [8]int32{noChild, noChild, noChild, noChild, noChild, noChild, noChild, noChild}})
	return o
}

// Dimension returns the octree's cubic extent (a power of two).
func (o *Octree[T]) Dimension() int { return o.dimension }

// Levels returns the number of splits from root to leaf level.
func (o *Octree[T]) Levels() int { return o.levels }

func (o *Octree[T]) alloc(n node[T]) int32 {
	if len(o.free) > 0 {
		idx := o.free[len(o.free)-1]
		o.free = o.free[:len(o.free)-1]
		o.nodes[idx] = n
		return idx
	}
	o.nodes = append(o.nodes, n)
	return int32(len(o.nodes) - 1)
}

func (o *Octree[T]) free_(idx int32) {
	o.free = append(o.free, idx)
}

func octantOf(x, y, z, half int) (octant int, nx, ny, nz int) {
	if x >= half {
		octant |= 1
		nx = x - half
	} else {
		nx = x
	}
	if y >= half {
		octant |= 2
		ny = y - half
	} else {
		ny = y
	}
	if z >= half {
		octant |= 4
		nz = z - half
	} else {
		nz = z
	}
	return octant, nx, ny, nz
}

// Get returns the element at (x,y,z), or the empty value if nothing is set
// there (out-of-bounds coordinates are also treated as empty).
func (o *Octree[T]) Get(x, y, z int) T {
	v, _ := o.GetOrEmpty(x, y, z)
	return v
}

// GetWithoutChecking is the hot-path variant of Get: it assumes
// (x,y,z) is within [0, Dimension) and skips the bounds check.
func (o *Octree[T]) GetWithoutChecking(x, y, z int) T {
	idx := int32(0)
	size := o.dimension
	for depth := 0; depth < o.levels; depth++ {
		half := size / 2
		var oct int
		oct, x, y, z = octantOf(x, y, z, half)
		child := o.nodes[idx].children[oct]
		if child == noChild {
			return o.empty
		}
		idx = child
		size = half
	}
	if !o.nodes[idx].hasValue {
		return o.empty
	}
	return o.nodes[idx].value
}

// GetOrEmpty returns (element, true) if something was Set at (x,y,z), or
// (emptyValue, false) otherwise — letting a caller distinguish "present"
// from "not present" when the zero value of T is itself meaningful.
func (o *Octree[T]) GetOrEmpty(x, y, z int) (elem T, present bool) {
	if x < 0 || y < 0 || z < 0 || x >= o.dimension || y >= o.dimension || z >= o.dimension {
		return o.empty, false
	}
	idx := int32(0)
	size := o.dimension
	for depth := 0; depth < o.levels; depth++ {
		half := size / 2
		var oct int
		oct, x, y, z = octantOf(x, y, z, half)
		child := o.nodes[idx].children[oct]
		if child == noChild {
			return o.empty, false
		}
		idx = child
		size = half
	}
	n := &o.nodes[idx]
	if !n.hasValue {
		return o.empty, false
	}
	return n.value, true
}

// Set stores elem at (x,y,z), materializing internal nodes along the path
// as needed (splitting). Returns false if the coordinates are out of range.
func (o *Octree[T]) Set(x, y, z int, elem T) bool {
	if x < 0 || y < 0 || z < 0 || x >= o.dimension || y >= o.dimension || z >= o.dimension {
		return false
	}
	idx := int32(0)
	size := o.dimension
	for depth := 0; depth < o.levels; depth++ {
		half := size / 2
		var oct int
		oct, x, y, z = octantOf(x, y, z, half)
		child := o.nodes[idx].children[oct]
		if child == noChild {
			var newNode node[T]
			if depth+1 == o.levels {
				newNode = node[T]{leaf: true}
			} else {
				newNode = node[T]{children: [8]int32{noChild, noChild, noChild, noChild, noChild, noChild, noChild, noChild}}
			}
			child = o.alloc(newNode)
			o.nodes[idx].children[oct] = child
		}
		idx = child
		size = half
	}
	o.nodes[idx].value = elem
	o.nodes[idx].hasValue = true
	return true
}

// Remove clears the element at (x,y,z), collapsing any internal node chain
// left fully empty by the removal (except the root, which always exists).
// emptyElement is stored as the node's nominal value once cleared, matching
// the "default element" convention GetOrEmpty relies on.
func (o *Octree[T]) Remove(x, y, z int, emptyElement T) bool {
	if x < 0 || y < 0 || z < 0 || x >= o.dimension || y >= o.dimension || z >= o.dimension {
		return false
	}

	type step struct {
		nodeIdx int32
		octant  int
	}
	path := make([]step, 0, o.levels)

	idx := int32(0)
	size := o.dimension
	for depth := 0; depth < o.levels; depth++ {
		half := size / 2
		var oct int
		oct, x, y, z = octantOf(x, y, z, half)
		child := o.nodes[idx].children[oct]
		if child == noChild {
			return false // nothing set here
		}
		path = append(path, step{nodeIdx: idx, octant: oct})
		idx = child
		size = half
	}

	if !o.nodes[idx].hasValue {
		return false
	}
	o.nodes[idx].value = emptyElement
	o.nodes[idx].hasValue = false

	// collapse: free the leaf, then walk back up freeing any internal node
	// left with no remaining children.
	o.free_(idx)
	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		o.nodes[s.nodeIdx].children[s.octant] = noChild
		if i == 0 {
			break // never collapse the root itself
		}
		hasChild := false
		for _, c := range o.nodes[s.nodeIdx].children {
			if c != noChild {
				hasChild = true
				break
			}
		}
		if !hasChild {
			o.free_(s.nodeIdx)
		} else {
			break
		}
	}
	return true
}

// Hash returns a stable FNV-1a hash of the octree's contents, seeded by
// crc, suitable as a cache key for baked-lighting files keyed by
// (octree hash, palette hash).
func (o *Octree[T]) Hash(crc uint64) uint64 {
	h := fnv.New64a()
	if crc != 0 {
		var seed [8]byte
		for i := range seed {
			seed[i] = byte(crc >> (8 * i))
		}
		h.Write(seed[:])
	}
	o.hashNode(h, 0, 0)
	return h.Sum64()
}

func (o *Octree[T]) hashNode(h interface{ Write([]byte) (int, error) }, idx int32, depth int) {
	n := &o.nodes[idx]
	if depth == o.levels {
		if n.hasValue {
			h.Write([]byte{1})
			h.Write([]byte(fmt.Sprintf("%v", n.value)))
		} else {
			h.Write([]byte{0})
		}
		return
	}
	for _, c := range n.children {
		if c == noChild {
			h.Write([]byte{0xFF})
			continue
		}
		h.Write([]byte{0xAA})
		o.hashNode(h, c, depth+1)
	}
}
