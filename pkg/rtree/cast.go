package rtree

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nyxreach/voxelcore/internal/vxconfig"
)

// Ray is a world-space ray, Origin + t*Dir for t in [0, Max].
type Ray struct {
	Origin, Dir mgl32.Vec3
	Max         float32
}

// CastResult pairs a hit leaf with its entry distance along the cast.
type CastResult struct {
	Leaf     ID
	Distance float32
}

// intersectRayBox returns the entry distance of ray into box, and whether it
// hits at all within [0, ray.Max]. Uses the slab method.
func intersectRayBox(ray Ray, box Box) (float32, bool) {
	tmin := float32(0)
	tmax := ray.Max
	if tmax <= 0 {
		tmax = float32(math.MaxFloat32)
	}

	for axis := 0; axis < 3; axis++ {
		if ray.Dir[axis] == 0 {
			if ray.Origin[axis] < box.Min[axis] || ray.Origin[axis] > box.Max[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / ray.Dir[axis]
		t1 := (box.Min[axis] - ray.Origin[axis]) * inv
		t2 := (box.Max[axis] - ray.Origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// QueryCastAllRay returns every leaf hit by ray (passing collidesWith/groups
// filtering), sorted by increasing distance.
func (r *RTree) QueryCastAllRay(ray Ray, groups, collidesWith uint16, exclude map[ID]bool) []CastResult {
	var out []CastResult
	r.castRay(r.root, ray, groups, collidesWith, exclude, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

func (r *RTree) castRay(id ID, ray Ray, groups, collidesWith uint16, exclude map[ID]bool, out *[]CastResult) {
	n := &r.nodes[id]
	dist, hit := intersectRayBox(ray, n.box)
	if !hit {
		return
	}
	if n.leaf {
		if exclude != nil && exclude[id] {
			return
		}
		if passesMasks(n.groups, n.collides, groups, collidesWith, groups != 0) {
			*out = append(*out, CastResult{Leaf: id, Distance: dist})
		}
		return
	}
	for _, c := range n.children {
		r.castRay(c, ray, groups, collidesWith, exclude, out)
	}
}

// QueryCastAllBox sweeps aabb by unit*maxDist (unit should be normalized)
// and returns every leaf the swept volume would touch, sorted by increasing
// entry distance. This is the broad-phase pass a box-cast solver narrows
// down with exact box/box sweep tests.
//
// A single maxDist can be arbitrarily large, and one broadphase box over the
// whole distance would both under-perform (the box may straddle most of the
// tree) and flood the result with irrelevant far-away leaves, so the sweep
// is walked in RtreeCastStepDistance-sized steps, each testing its own
// smaller broadphase box against the tree; entry distance is still measured
// from aabb's original position, since unit (and so the cast's direction)
// never changes between steps.
func (r *RTree) QueryCastAllBox(aabb Box, unit mgl32.Vec3, maxDist float32, groups, collidesWith uint16, exclude map[ID]bool, epsilon mgl32.Vec3) []CastResult {
	var out []CastResult

	stepOrigin := aabb
	d := float32(0)
	step := float32(0)
	for d < maxDist {
		d += step
		step = minf(maxDist-d, vxconfig.RtreeCastStepDistance)

		broad := sweptBox(stepOrigin, unit, step)
		r.castBox(r.root, aabb, broad, unit, groups, collidesWith, exclude, epsilon, &out)

		stepOrigin = stepOrigin.Translate(unit.Mul(step))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

func sweptBox(aabb Box, unit mgl32.Vec3, dist float32) Box {
	delta := unit.Mul(dist)
	shifted := aabb.Translate(delta)
	return aabb.Union(shifted)
}

func (r *RTree) castBox(id ID, origin Box, swept Box, unit mgl32.Vec3, groups, collidesWith uint16, exclude map[ID]bool, epsilon mgl32.Vec3, out *[]CastResult) {
	n := &r.nodes[id]
	if !n.box.Intersects(swept, epsilon) {
		return
	}
	if n.leaf {
		if exclude != nil && exclude[id] {
			return
		}
		if !passesMasks(n.groups, n.collides, groups, collidesWith, groups != 0) {
			return
		}
		dist := entryDistanceBoxBox(origin, n.box, unit)
		*out = append(*out, CastResult{Leaf: id, Distance: dist})
		return
	}
	for _, c := range n.children {
		r.castBox(c, origin, swept, unit, groups, collidesWith, exclude, epsilon, out)
	}
}

// entryDistanceBoxBox estimates the distance a moving box (origin, sweeping
// along unit) first touches a static box, via per-axis slab overlap — the
// box-sweep analogue of the ray/slab test above.
func entryDistanceBoxBox(moving, static Box, unit mgl32.Vec3) float32 {
	var tEntry float32 = 0
	for axis := 0; axis < 3; axis++ {
		if unit[axis] == 0 {
			continue
		}
		var t float32
		if unit[axis] > 0 {
			t = (static.Min[axis] - moving.Max[axis]) / unit[axis]
		} else {
			t = (static.Max[axis] - moving.Min[axis]) / unit[axis]
		}
		if t > tEntry {
			tEntry = t
		}
	}
	if tEntry < 0 {
		tEntry = 0
	}
	return tEntry
}
