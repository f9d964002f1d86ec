// Package physics defines the broad-phase request/response contract between
// pkg/rtree and an external rigid-body solver. The solver itself, and the
// narrow-phase exact sweep it runs against each candidate, live outside this
// module; this package only shapes the data that crosses that boundary.
package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/nyxreach/voxelcore/pkg/rtree"
)

// Collider is the leaf payload every shape inserted into the scene's R-tree
// carries: its owning shape id, and an opaque handle the external solver
// attaches its own rigid-body representation to. This package never
// dereferences External.
type Collider struct {
	ShapeID  uint64
	External any
}

// RayCastRequest describes a ray broad-phase query.
type RayCastRequest struct {
	Origin, Dir  mgl32.Vec3
	Max          float32
	Groups       uint16
	CollidesWith uint16
	Exclude      []rtree.ID
}

// BoxCastRequest describes a swept-box broad-phase query. Unit must be
// normalized; the box sweeps from AABB's current position by Unit*MaxDist.
type BoxCastRequest struct {
	AABB         rtree.Box
	Unit         mgl32.Vec3
	MaxDist      float32
	Groups       uint16
	CollidesWith uint16
	Exclude      []rtree.ID
	Epsilon      mgl32.Vec3
}

// Hit pairs a collider with its entry distance along the cast that found it.
type Hit struct {
	Collider Collider
	Leaf     rtree.ID
	Distance float32
}

// Response is the broad-phase result: every leaf the query touched, nearest
// first, with non-Collider payloads silently dropped (a leaf inserted
// without a Collider payload isn't a physics participant).
type Response struct {
	Hits []Hit
}

// RayCast runs req against tree and attaches each hit's Collider payload.
func RayCast(tree *rtree.RTree, req RayCastRequest) Response {
	ray := rtree.Ray{Origin: req.Origin, Dir: req.Dir, Max: req.Max}
	return collectHits(tree, tree.QueryCastAllRay(ray, req.Groups, req.CollidesWith, excludeSet(req.Exclude)))
}

// BoxCast runs req against tree and attaches each hit's Collider payload.
func BoxCast(tree *rtree.RTree, req BoxCastRequest) Response {
	results := tree.QueryCastAllBox(req.AABB, req.Unit, req.MaxDist, req.Groups, req.CollidesWith,
		excludeSet(req.Exclude), req.Epsilon)
	return collectHits(tree, results)
}

func collectHits(tree *rtree.RTree, results []rtree.CastResult) Response {
	resp := Response{Hits: make([]Hit, 0, len(results))}
	for _, r := range results {
		collider, ok := tree.Payload(r.Leaf).(Collider)
		if !ok {
			continue
		}
		resp.Hits = append(resp.Hits, Hit{Collider: collider, Leaf: r.Leaf, Distance: r.Distance})
	}
	return resp
}

func excludeSet(ids []rtree.ID) map[rtree.ID]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[rtree.ID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
