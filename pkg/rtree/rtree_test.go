package rtree

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x, y, z, s float32) Box {
	return Box{
		Min: mgl32.Vec3{x, y, z},
		Max: mgl32.Vec3{x + s, y + s, z + s},
	}
}

func TestInsertAndOverlapQuery(t *testing.T) {
	r := New(2, 4)
	a := r.Insert(box(0, 0, 0, 1), 1, 1, "a")
	b := r.Insert(box(10, 0, 0, 1), 1, 1, "b")
	r.Insert(box(20, 0, 0, 1), 1, 1, "c")

	hits := r.QueryOverlapBox(box(-0.5, -0.5, -0.5, 2), 0, 1, nil, mgl32.Vec3{})
	require.Len(t, hits, 1)
	assert.Equal(t, a, hits[0])
	assert.Equal(t, "a", r.Payload(hits[0]))
	_ = b
}

func TestSplitKeepsAllLeavesReachable(t *testing.T) {
	r := New(2, 4)
	ids := make([]ID, 0, 20)
	for i := 0; i < 20; i++ {
		ids = append(ids, r.Insert(box(float32(i)*2, 0, 0, 1), 1, 1, i))
	}

	seen := map[ID]bool{}
	r.recurse(r.Root(), func(id ID) {
		if r.IsLeaf(id) {
			seen[id] = true
		}
	})
	for _, id := range ids {
		assert.True(t, seen[id], "leaf %d should still be reachable after splits", id)
	}
}

func TestRemoveCondensesAndPreservesRemaining(t *testing.T) {
	r := New(2, 4)
	var ids []ID
	for i := 0; i < 10; i++ {
		ids = append(ids, r.Insert(box(float32(i)*2, 0, 0, 1), 1, 1, i))
	}

	r.Remove(ids[3], true)

	seen := map[ID]bool{}
	r.recurse(r.Root(), func(id ID) {
		if r.IsLeaf(id) {
			seen[id] = true
		}
	})
	for i, id := range ids {
		if i == 3 {
			assert.False(t, seen[id])
			continue
		}
		assert.True(t, seen[id])
	}
}

func TestUpdateMovesLeaf(t *testing.T) {
	r := New(2, 4)
	a := r.Insert(box(0, 0, 0, 1), 1, 1, "a")

	r.Update(a, box(100, 100, 100, 1))

	hits := r.QueryOverlapBox(box(99, 99, 99, 3), 0, 1, nil, mgl32.Vec3{})
	require.Len(t, hits, 1)
	assert.Equal(t, a, hits[0])

	missed := r.QueryOverlapBox(box(-1, -1, -1, 3), 0, 1, nil, mgl32.Vec3{})
	assert.Len(t, missed, 0)
}

func TestUpdateSmallMoveKeepsLeafInPlace(t *testing.T) {
	r := New(2, 4)
	a := r.Insert(box(0, 0, 0, 1), 1, 1, "a")
	r.Insert(box(10, 0, 0, 1), 1, 1, "b")

	parentBefore := r.nodes[a].parent
	require.NotEqual(t, noNode, parentBefore)

	moved := box(0.2, 0, 0, 1)
	r.Update(a, moved)

	assert.Equal(t, parentBefore, r.nodes[a].parent, "a small move should patch the leaf in place")
	assert.Equal(t, moved, r.nodes[a].box)

	hits := r.QueryOverlapBox(moved, 0, 1, nil, mgl32.Vec3{})
	require.Len(t, hits, 1)
	assert.Equal(t, a, hits[0])
}

func TestUpdateLargeMoveReinsertsLeaf(t *testing.T) {
	r := New(2, 4)
	a := r.Insert(box(0, 0, 0, 1), 1, 1, "a")
	r.Insert(box(10, 0, 0, 1), 1, 1, "b")

	far := box(1000, 1000, 1000, 1)
	r.Update(a, far)

	hits := r.QueryOverlapBox(far, 0, 1, nil, mgl32.Vec3{})
	require.Len(t, hits, 1)
	assert.Equal(t, a, hits[0])

	missed := r.QueryOverlapBox(box(0, 0, 0, 1), 0, 1, nil, mgl32.Vec3{})
	assert.Len(t, missed, 0)
}

func TestCollisionMaskFiltersOverlap(t *testing.T) {
	r := New(2, 4)
	r.Insert(box(0, 0, 0, 1), 1<<0, 1<<0, "default")
	r.Insert(box(0, 0, 0, 1), 1<<1, 1<<1, "other-layer")

	hits := r.QueryOverlapBox(box(0, 0, 0, 1), 0, 1<<0, nil, mgl32.Vec3{})
	require.Len(t, hits, 1)
	assert.Equal(t, "default", r.Payload(hits[0]))
}

func TestCastAllRayOrdersByDistance(t *testing.T) {
	r := New(2, 4)
	far := r.Insert(box(10, -0.5, -0.5, 1), 1, 1, "far")
	near := r.Insert(box(2, -0.5, -0.5, 1), 1, 1, "near")

	ray := Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{1, 0, 0}, Max: 100}
	hits := r.QueryCastAllRay(ray, 0, 1, nil)
	require.Len(t, hits, 2)
	assert.Equal(t, near, hits[0].Leaf)
	assert.Equal(t, far, hits[1].Leaf)
}

func TestFindAndRemove(t *testing.T) {
	r := New(2, 4)
	b := box(5, 5, 5, 1)
	r.Insert(b, 1, 1, "x")

	ok := r.FindAndRemove(b, "x")
	assert.True(t, ok)

	hits := r.QueryOverlapBox(b, 0, 1, nil, mgl32.Vec3{})
	assert.Len(t, hits, 0)
}
