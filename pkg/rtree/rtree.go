package rtree

import "github.com/nyxreach/voxelcore/internal/vxconfig"

// RTree is a broad-phase index of axis-aligned boxes, built for collision
// and visibility queries over a scene's colliders. m is the minimum and M
// the maximum number of children an internal node may carry before a
// quadratic split (M) or a condense (m) is triggered.
type RTree struct {
	nodes []node
	free  []ID
	root  ID
	m, M  uint8
}

// New creates an empty tree with the given minimum (m) and maximum (M) node
// fanout. The engine default is m=2, M=4.
func New(m, M uint8) *RTree {
	r := &RTree{m: m, M: M}
	r.root = r.alloc(node{leaf: true, parent: noNode})
	return r
}

// Height returns the number of edges from root to the shallowest leaf.
func (r *RTree) Height() int {
	h := 0
	id := r.root
	for !r.nodes[id].leaf {
		if len(r.nodes[id].children) == 0 {
			break
		}
		id = r.nodes[id].children[0]
		h++
	}
	return h
}

// Root returns the root node's ID.
func (r *RTree) Root() ID { return r.root }

// Insert adds a leaf for aabb/groups/collidesWith/payload and returns its
// ID.
func (r *RTree) Insert(aabb Box, groups, collidesWith uint16, payload any) ID {
	leaf := r.alloc(node{box: aabb, leaf: true, groups: groups, collides: collidesWith, payload: payload, parent: noNode})
	r.insertLeaf(leaf)
	return leaf
}

func (r *RTree) insertLeaf(leaf ID) {
	// degenerate case: empty tree (root is itself a childless leaf sentinel)
	if r.nodes[r.root].leaf && r.nodes[r.root].payload == nil && len(r.nodes[r.root].children) == 0 {
		r.release(r.root)
		r.root = leaf
		r.nodes[leaf].parent = noNode
		return
	}

	// second distinct case: the tree holds exactly one real leaf, which the
	// bootstrap above installed directly as root. A leaf has no children
	// slot to attach a second entry to, so wrap both under a fresh internal
	// root rather than letting chooseLeaf return the leaf itself.
	if r.nodes[r.root].leaf {
		oldRoot := r.root
		newRoot := r.alloc(node{children: []ID{oldRoot, leaf}, parent: noNode})
		r.nodes[oldRoot].parent = newRoot
		r.nodes[leaf].parent = newRoot
		r.root = newRoot
		r.adjustBoxUpward(newRoot)
		if len(r.nodes[newRoot].children) > int(r.M) {
			r.split(newRoot)
		}
		return
	}

	target := r.chooseLeaf(r.root, r.nodes[leaf].box)
	r.nodes[leaf].parent = target
	r.nodes[target].children = append(r.nodes[target].children, leaf)
	r.adjustBoxUpward(target)

	if len(r.nodes[target].children) > int(r.M) {
		r.split(target)
	}
}

// chooseLeaf descends from id to the internal node whose box needs the
// least enlargement to contain box, breaking ties by smaller area.
func (r *RTree) chooseLeaf(id ID, box Box) ID {
	for {
		n := &r.nodes[id]
		if n.leaf || len(n.children) == 0 {
			return id
		}
		// if any child is itself a leaf-container (internal node one level
		// above the leaves), this is our insertion target.
		if r.nodes[n.children[0]].leaf {
			return id
		}
		best := n.children[0]
		bestEnl := enlargement(r.nodes[best].box, box)
		bestArea := r.nodes[best].box.Area()
		for _, c := range n.children[1:] {
			enl := enlargement(r.nodes[c].box, box)
			area := r.nodes[c].box.Area()
			if enl < bestEnl || (enl == bestEnl && area < bestArea) {
				best, bestEnl, bestArea = c, enl, area
			}
		}
		id = best
	}
}

func (r *RTree) adjustBoxUpward(id ID) {
	for {
		n := &r.nodes[id]
		if len(n.children) > 0 {
			box := r.nodes[n.children[0]].box
			for _, c := range n.children[1:] {
				box = box.Union(r.nodes[c].box)
			}
			n.box = box
		}
		if n.parent == noNode {
			return
		}
		id = n.parent
	}
}

// split performs a quadratic-split on an overfull internal node: it picks
// the two children that would waste the most space if grouped together as
// seeds, then distributes the rest by least enlargement, keeping both
// groups at or above m.
func (r *RTree) split(id ID) {
	children := r.nodes[id].children
	seed1, seed2 := pickSeeds(r, children)

	var groupA, groupB []ID
	groupA = append(groupA, children[seed1])
	groupB = append(groupB, children[seed2])
	boxA := r.nodes[children[seed1]].box
	boxB := r.nodes[children[seed2]].box

	remaining := make([]ID, 0, len(children)-2)
	for i, c := range children {
		if i == seed1 || i == seed2 {
			continue
		}
		remaining = append(remaining, c)
	}

	for len(remaining) > 0 {
		// force remaining entries into whichever group is short of m
		if len(remaining)+len(groupA) <= int(r.m) {
			groupA = append(groupA, remaining...)
			remaining = nil
			break
		}
		if len(remaining)+len(groupB) <= int(r.m) {
			groupB = append(groupB, remaining...)
			remaining = nil
			break
		}

		bestIdx, toA := 0, true
		bestDiff := float32(-1)
		for i, c := range remaining {
			enlA := enlargement(boxA, r.nodes[c].box)
			enlB := enlargement(boxB, r.nodes[c].box)
			diff := enlA - enlB
			if diff < 0 {
				diff = -diff
			}
			if diff > bestDiff {
				bestDiff = diff
				bestIdx = i
				toA = enlA < enlB || (enlA == enlB && boxA.Area() <= boxB.Area())
			}
		}
		c := remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		if toA {
			groupA = append(groupA, c)
			boxA = boxA.Union(r.nodes[c].box)
		} else {
			groupB = append(groupB, c)
			boxB = boxB.Union(r.nodes[c].box)
		}
	}

	r.nodes[id].children = groupA
	r.nodes[id].box = boxA
	for _, c := range groupA {
		r.nodes[c].parent = id
	}

	sibling := r.alloc(node{children: groupB, box: boxB, parent: r.nodes[id].parent})
	for _, c := range groupB {
		r.nodes[c].parent = sibling
	}

	parent := r.nodes[id].parent
	if parent == noNode {
		newRoot := r.alloc(node{children: []ID{id, sibling}, parent: noNode})
		r.nodes[id].parent = newRoot
		r.nodes[sibling].parent = newRoot
		r.root = newRoot
		r.adjustBoxUpward(newRoot)
		return
	}

	r.nodes[parent].children = append(r.nodes[parent].children, sibling)
	r.adjustBoxUpward(parent)
	if len(r.nodes[parent].children) > int(r.M) {
		r.split(parent)
	}
}

// pickSeeds returns the indices (into children) of the pair with the most
// wasted space if grouped, per the classic quadratic-split PickSeeds.
func pickSeeds(r *RTree, children []ID) (i, j int) {
	bestWaste := float32(-1)
	for a := 0; a < len(children); a++ {
		for b := a + 1; b < len(children); b++ {
			boxA := r.nodes[children[a]].box
			boxB := r.nodes[children[b]].box
			waste := boxA.Union(boxB).Area() - boxA.Area() - boxB.Area()
			if waste > bestWaste {
				bestWaste, i, j = waste, a, b
			}
		}
	}
	return i, j
}

// Remove detaches leaf from the tree, condensing any internal node left
// below minimum occupancy. If free is true the leaf's arena slot is
// released; set false if the caller intends to reinsert it (e.g. Update).
func (r *RTree) Remove(leaf ID, free bool) {
	parent := r.nodes[leaf].parent
	if parent == noNode {
		// leaf was the tree's sole content (the root itself): replace the
		// root with a fresh empty sentinel rather than overwriting leaf in
		// place, so a caller that asked to keep leaf (free == false, as
		// Update does) still has its box/payload intact afterward.
		r.root = r.alloc(node{leaf: true, parent: noNode})
		if free {
			r.release(leaf)
		}
		return
	}

	siblings := r.nodes[parent].children
	for i, c := range siblings {
		if c == leaf {
			r.nodes[parent].children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if free {
		r.release(leaf)
	} else {
		r.nodes[leaf].parent = noNode
	}

	r.condense(parent)
}

// condense walks upward from id, detaching any internal node that has
// fallen below m children and collecting its remaining descendants for
// reinsertion, then adjusts boxes from the (possibly new) root down.
func (r *RTree) condense(id ID) {
	var orphans []ID
	for id != r.root {
		parent := r.nodes[id].parent
		if len(r.nodes[id].children) < int(r.m) {
			siblings := r.nodes[parent].children
			for i, c := range siblings {
				if c == id {
					r.nodes[parent].children = append(siblings[:i], siblings[i+1:]...)
					break
				}
			}
			orphans = append(orphans, r.nodes[id].children...)
			r.release(id)
		} else {
			r.adjustBoxUpward(id)
		}
		id = parent
	}

	// root special-case: if it has a single child and isn't itself a leaf,
	// collapse one level.
	for !r.nodes[r.root].leaf && len(r.nodes[r.root].children) == 1 {
		old := r.root
		r.root = r.nodes[old].children[0]
		r.nodes[r.root].parent = noNode
		r.release(old)
	}
	r.adjustBoxUpward(r.root)

	for _, o := range orphans {
		r.nodes[o].parent = noNode
		r.insertLeaf(o)
	}
}

// FindAndRemove removes the first leaf whose box equals aabb and whose
// payload equals payload (by ==), if any.
func (r *RTree) FindAndRemove(aabb Box, payload any) bool {
	var found ID = noNode
	r.recurse(r.root, func(id ID) {
		if found != noNode || !r.nodes[id].leaf {
			return
		}
		if r.nodes[id].box == aabb && r.nodes[id].payload == payload {
			found = id
		}
	})
	if found == noNode {
		return false
	}
	r.Remove(found, true)
	return true
}

// Update changes a leaf's box. If the leaf is the tree's sole content (no
// parent to patch in place against) it falls straight to the full
// remove+reinsert path. Otherwise it simulates the leaf's parent volume with
// aabb substituted in: when that volume differs from the parent's current
// volume by less than RtreeLeafUpdateThreshold, the leaf (and its parent's
// box, and every ancestor above it) is patched in place, cheaper than a
// full detach/condense/reinsert/split cycle for a leaf that barely moved.
// Anything past the threshold falls back to remove+insert so the tree stays
// balanced, matching the original's rtree_update.
func (r *RTree) Update(leaf ID, aabb Box) {
	parent := r.nodes[leaf].parent
	if parent == noNode {
		r.Remove(leaf, false)
		r.nodes[leaf].box = aabb
		r.insertLeaf(leaf)
		return
	}

	simulated := aabb
	for _, c := range r.nodes[parent].children {
		if c != leaf {
			simulated = simulated.Union(r.nodes[c].box)
		}
	}

	delta := simulated.Volume() - r.nodes[parent].box.Volume()
	if delta < 0 {
		delta = -delta
	}
	if delta < vxconfig.RtreeLeafUpdateThreshold {
		r.nodes[leaf].box = aabb
		r.nodes[parent].box = simulated
		if grandparent := r.nodes[parent].parent; grandparent != noNode {
			r.adjustBoxUpward(grandparent)
		}
		return
	}

	r.Remove(leaf, false)
	r.nodes[leaf].box = aabb
	r.insertLeaf(leaf)
}
