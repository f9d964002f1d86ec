package rtree

// ID indexes into an RTree's node arena. A value of noNode means "absent".
type ID int32

const noNode ID = -1

// node is either an internal routing node (Leaf == false, Children holds up
// to M entries) or a leaf wrapping a caller payload (Leaf == true, Payload
// set, Children unused). Nodes reference each other by arena index rather
// than pointer, and carry their Parent back-link so Remove/Update can walk
// upward without a separate stack.
type node struct {
	box      Box
	parent   ID
	children []ID
	payload  any
	groups   uint16
	collides uint16
	leaf     bool
}

// AABB returns the node's bounding box: its own box if a leaf, or the union
// of its children's boxes if internal.
func (r *RTree) AABB(id ID) Box { return r.nodes[id].box }

// ChildrenCount returns the number of children of an internal node, or 0 for
// a leaf.
func (r *RTree) ChildrenCount(id ID) int {
	if r.nodes[id].leaf {
		return 0
	}
	return len(r.nodes[id].children)
}

// Children returns the child IDs of an internal node (nil for a leaf).
func (r *RTree) Children(id ID) []ID {
	if r.nodes[id].leaf {
		return nil
	}
	return r.nodes[id].children
}

// Payload returns a leaf node's caller-supplied value.
func (r *RTree) Payload(id ID) any { return r.nodes[id].payload }

// IsLeaf reports whether id is a leaf.
func (r *RTree) IsLeaf(id ID) bool { return r.nodes[id].leaf }

// Groups returns a leaf node's collision group mask.
func (r *RTree) Groups(id ID) uint16 { return r.nodes[id].groups }

// CollidesWith returns a leaf node's collision filter mask.
func (r *RTree) CollidesWith(id ID) uint16 { return r.nodes[id].collides }

// SetCollisionMasks sets a leaf node's group/collides-with masks.
func (r *RTree) SetCollisionMasks(id ID, groups, collidesWith uint16) {
	n := &r.nodes[id]
	n.groups = groups
	n.collides = collidesWith
}

// HasParent reports whether id has a parent (false only for the root).
func (r *RTree) HasParent(id ID) bool { return r.nodes[id].parent != noNode }

func (r *RTree) alloc(n node) ID {
	if len(r.free) > 0 {
		idx := r.free[len(r.free)-1]
		r.free = r.free[:len(r.free)-1]
		r.nodes[idx] = n
		return idx
	}
	r.nodes = append(r.nodes, n)
	return ID(len(r.nodes) - 1)
}

func (r *RTree) release(id ID) {
	r.nodes[id] = node{}
	r.free = append(r.free, id)
}

// recurse visits id and, depth-first, every node beneath it.
func (r *RTree) recurse(id ID, f func(ID)) {
	f(id)
	if r.nodes[id].leaf {
		return
	}
	for _, c := range r.nodes[id].children {
		r.recurse(c, f)
	}
}
