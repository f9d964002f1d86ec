// Package rtree implements a broad-phase spatial index over axis-aligned
// boxes: an R-tree with quadratic-split insertion (m=2, M=4 by default) and
// condense-on-remove, supporting overlap and ray/swept-box cast-all queries
// filtered by 16-bit group/collides-with masks.
package rtree

import "github.com/go-gl/mathgl/mgl32"

// Box is an axis-aligned bounding box in world space.
type Box struct {
	Min, Max mgl32.Vec3
}

// NewBox builds a box from two opposite corners, normalizing min/max.
func NewBox(a, b mgl32.Vec3) Box {
	return Box{
		Min: mgl32.Vec3{minf(a[0], b[0]), minf(a[1], b[1]), minf(a[2], b[2])},
		Max: mgl32.Vec3{maxf(a[0], b[0]), maxf(a[1], b[1]), maxf(a[2], b[2])},
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Size returns the box's extent along each axis.
func (b Box) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Area returns the box's surface area, used by quadratic split to measure
// wasted space between candidate groupings.
func (b Box) Area() float32 {
	s := b.Size()
	return 2 * (s[0]*s[1] + s[1]*s[2] + s[0]*s[2])
}

// Volume returns the box's literal 3D volume, used by Update to decide
// whether a leaf move is small enough to patch in place.
func (b Box) Volume() float32 {
	s := b.Size()
	return s[0] * s[1] * s[2]
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: mgl32.Vec3{minf(b.Min[0], o.Min[0]), minf(b.Min[1], o.Min[1]), minf(b.Min[2], o.Min[2])},
		Max: mgl32.Vec3{maxf(b.Max[0], o.Max[0]), maxf(b.Max[1], o.Max[1]), maxf(b.Max[2], o.Max[2])},
	}
}

// Intersects reports whether b and o overlap, optionally grown by epsilon on
// each axis (epsilon may be zero).
func (b Box) Intersects(o Box, epsilon mgl32.Vec3) bool {
	return b.Min[0]-epsilon[0] < o.Max[0]+epsilon[0] && b.Max[0]+epsilon[0] > o.Min[0]-epsilon[0] &&
		b.Min[1]-epsilon[1] < o.Max[1]+epsilon[1] && b.Max[1]+epsilon[1] > o.Min[1]-epsilon[1] &&
		b.Min[2]-epsilon[2] < o.Max[2]+epsilon[2] && b.Max[2]+epsilon[2] > o.Min[2]-epsilon[2]
}

// Contains reports whether o lies entirely within b.
func (b Box) Contains(o Box) bool {
	return o.Min[0] >= b.Min[0] && o.Max[0] <= b.Max[0] &&
		o.Min[1] >= b.Min[1] && o.Max[1] <= b.Max[1] &&
		o.Min[2] >= b.Min[2] && o.Max[2] <= b.Max[2]
}

// Translate returns b shifted by v.
func (b Box) Translate(v mgl32.Vec3) Box {
	return Box{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// enlargement returns the area added to b by unioning it with o, used by
// quadratic split's "pick next" and insert's "choose leaf" steps.
func enlargement(b, o Box) float32 {
	return b.Union(o).Area() - b.Area()
}
