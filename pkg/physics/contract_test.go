package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nyxreach/voxelcore/pkg/rtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x, y, z, s float32) rtree.Box {
	return rtree.NewBox(mgl32.Vec3{x, y, z}, mgl32.Vec3{x + s, y + s, z + s})
}

func TestRayCastAttachesColliderPayload(t *testing.T) {
	tree := rtree.New(2, 4)
	leaf := tree.Insert(box(10, 0, 0, 1), 1, 1, Collider{ShapeID: 42})
	tree.Insert(box(-10, 0, 0, 1), 1, 1, Collider{ShapeID: 7})

	resp := RayCast(tree, RayCastRequest{
		Origin:       mgl32.Vec3{0, 0.5, 0.5},
		Dir:          mgl32.Vec3{1, 0, 0},
		Max:          100,
		Groups:       1,
		CollidesWith: 1,
	})

	require.Len(t, resp.Hits, 1)
	assert.Equal(t, leaf, resp.Hits[0].Leaf)
	assert.Equal(t, uint64(42), resp.Hits[0].Collider.ShapeID)
}

func TestRayCastDropsLeavesWithoutColliderPayload(t *testing.T) {
	tree := rtree.New(2, 4)
	tree.Insert(box(10, 0, 0, 1), 1, 1, "not a collider")

	resp := RayCast(tree, RayCastRequest{
		Origin:       mgl32.Vec3{0, 0.5, 0.5},
		Dir:          mgl32.Vec3{1, 0, 0},
		Max:          100,
		Groups:       1,
		CollidesWith: 1,
	})

	assert.Empty(t, resp.Hits)
}

func TestRayCastRespectsExclude(t *testing.T) {
	tree := rtree.New(2, 4)
	leaf := tree.Insert(box(10, 0, 0, 1), 1, 1, Collider{ShapeID: 1})

	resp := RayCast(tree, RayCastRequest{
		Origin:       mgl32.Vec3{0, 0.5, 0.5},
		Dir:          mgl32.Vec3{1, 0, 0},
		Max:          100,
		Groups:       1,
		CollidesWith: 1,
		Exclude:      []rtree.ID{leaf},
	})

	assert.Empty(t, resp.Hits)
}

func TestBoxCastAttachesColliderPayloadAndDistance(t *testing.T) {
	tree := rtree.New(2, 4)
	tree.Insert(box(5, 0, 0, 1), 1, 1, Collider{ShapeID: 99})

	resp := BoxCast(tree, BoxCastRequest{
		AABB:         box(0, 0, 0, 1),
		Unit:         mgl32.Vec3{1, 0, 0},
		MaxDist:      10,
		Groups:       1,
		CollidesWith: 1,
	})

	require.Len(t, resp.Hits, 1)
	assert.Equal(t, uint64(99), resp.Hits[0].Collider.ShapeID)
	assert.Greater(t, resp.Hits[0].Distance, float32(0))
}
