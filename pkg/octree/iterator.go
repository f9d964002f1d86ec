package octree

// Iterator walks an Octree depth-first, visiting every materialized node
// (both internal routing nodes and leaves) along with the cubic Box it
// covers. Call SkipBranch during a visit to prune the current node's
// children from the walk — mirroring the original iterator's
// skip_current_branch, used by callers that only care about a node's
// aggregate (e.g. "is this whole region opaque?") and want to avoid
// descending into chunks that will be thrown away anyway.
type Iterator[T any] struct {
	o     *Octree[T]
	stack []frame[T]
	skip  bool

	idx   int32
	box   Box
	depth int
	leaf  bool
}

type frame[T any] struct {
	idx   int32
	box   Box
	depth int
}

// NewIterator creates an iterator positioned before the root.
func NewIterator[T any](o *Octree[T]) *Iterator[T] {
	it := &Iterator[T]{o: o}
	it.stack = append(it.stack, frame[T]{
		idx:   0,
		box:   Box{0, 0, 0, o.dimension, o.dimension, o.dimension},
		depth: 0,
	})
	return it
}

// Next advances to the next node, returning false once the walk is
// exhausted.
func (it *Iterator[T]) Next() bool {
	if len(it.stack) == 0 {
		return false
	}

	it.skip = false

	f := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	it.idx = f.idx
	it.box = f.box
	it.depth = f.depth
	it.leaf = f.depth == it.o.levels

	if !it.leaf {
		half := (f.box.MaxX - f.box.MinX) / 2
		n := &it.o.nodes[f.idx]
		// push in reverse octant order so octant 0 is visited first (LIFO stack)
		for oct := 7; oct >= 0; oct-- {
			c := n.children[oct]
			if c == noChild {
				continue
			}
			cbox := f.box
			if oct&1 != 0 {
				cbox.MinX += half
			} else {
				cbox.MaxX -= half
			}
			if oct&2 != 0 {
				cbox.MinY += half
			} else {
				cbox.MaxY -= half
			}
			if oct&4 != 0 {
				cbox.MinZ += half
			} else {
				cbox.MaxZ -= half
			}
			it.stack = append(it.stack, frame[T]{idx: c, box: cbox, depth: f.depth + 1})
		}
	}

	return true
}

// SkipBranch prunes the current node's children (no-op on a leaf, which has
// none). Must be called before the next Next().
func (it *Iterator[T]) SkipBranch() {
	if it.leaf {
		return
	}
	// drop any frames just pushed for this node's children: Next pushed
	// them last, so they are the depth+1 frames on top of the stack, and
	// they are popped while the top frame's depth equals this node's depth+1.
	it.skip = true
	for len(it.stack) > 0 && it.stack[len(it.stack)-1].depth == it.depth+1 {
		it.stack = it.stack[:len(it.stack)-1]
	}
}

// Box returns the cubic region covered by the current node.
func (it *Iterator[T]) Box() Box { return it.box }

// Depth returns the current node's depth (0 == root).
func (it *Iterator[T]) Depth() int { return it.depth }

// IsLeaf reports whether the current node is at leaf level.
func (it *Iterator[T]) IsLeaf() bool { return it.leaf }

// Value returns the current leaf node's value, or (empty, false) if it has
// none set. Only meaningful when IsLeaf() is true.
func (it *Iterator[T]) Value() (T, bool) {
	if !it.leaf {
		var zero T
		return zero, false
	}
	n := &it.o.nodes[it.idx]
	if !n.hasValue {
		return it.o.empty, false
	}
	return n.value, true
}
