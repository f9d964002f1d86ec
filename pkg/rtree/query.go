package rtree

import "github.com/go-gl/mathgl/mgl32"

// passesMasks reports whether a leaf with the given groups should be
// reported to a query filtering by collidesWith (and, for reciprocal
// queries such as collision checks, by groups too).
func passesMasks(leafGroups, leafCollides, queryGroups, queryCollidesWith uint16, reciprocal bool) bool {
	if queryCollidesWith != 0 && leafGroups&queryCollidesWith == 0 {
		return false
	}
	if reciprocal && queryGroups != 0 && leafCollides&queryGroups == 0 {
		return false
	}
	return true
}

// QueryOverlapBox returns every leaf whose box intersects aabb (grown by
// epsilon) and whose groups pass collidesWith, excluding anything in
// exclude.
func (r *RTree) QueryOverlapBox(aabb Box, groups, collidesWith uint16, exclude map[ID]bool, epsilon mgl32.Vec3) []ID {
	var out []ID
	r.overlapBox(r.root, aabb, groups, collidesWith, exclude, epsilon, &out)
	return out
}

func (r *RTree) overlapBox(id ID, aabb Box, groups, collidesWith uint16, exclude map[ID]bool, epsilon mgl32.Vec3, out *[]ID) {
	n := &r.nodes[id]
	if !n.box.Intersects(aabb, epsilon) {
		return
	}
	if n.leaf {
		if exclude != nil && exclude[id] {
			return
		}
		if passesMasks(n.groups, n.collides, groups, collidesWith, groups != 0) {
			*out = append(*out, id)
		}
		return
	}
	for _, c := range n.children {
		r.overlapBox(c, aabb, groups, collidesWith, exclude, epsilon, out)
	}
}

// QueryOverlapFunc is like QueryOverlapBox, but consults a caller predicate
// instead of a box for the overlap test. It visits every leaf in the tree:
// internal nodes are not tested, so no branch is pruned.
func (r *RTree) QueryOverlapFunc(groups, collidesWith uint16, exclude map[ID]bool, test func(leaf ID) bool) []ID {
	var out []ID
	r.recurse(r.root, func(id ID) {
		n := &r.nodes[id]
		if !n.leaf {
			return
		}
		if exclude != nil && exclude[id] {
			return
		}
		if !passesMasks(n.groups, n.collides, groups, collidesWith, groups != 0) {
			return
		}
		if test(id) {
			out = append(out, id)
		}
	})
	return out
}
