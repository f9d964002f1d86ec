// Package light bakes the per-block lighting grid a shape's mesher samples
// when smoothing vertex corners: a breadth-first sunlight/emission
// propagation pass, its matching removal pass, and the absorption easings
// transparent blocks apply along the way.
package light

import (
	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/voxel"
)

// FullAmbient is the unobstructed sunlight value a cell starts at.
const FullAmbient uint8 = 15

// Pos is a world-space (not chunk-local) block coordinate.
type Pos struct{ X, Y, Z int }

// World is the grid a Propagator reads and writes baked light into. A shape
// implements this over its chunk index, translating world-space
// coordinates into the owning chunk and back.
type World interface {
	// Block returns the palette entry at world-space (x,y,z), or
	// color.AirBlock outside the shape's allocated extent.
	Block(x, y, z int) color.EntryIndex
	// Light returns the baked light at world-space (x,y,z).
	Light(x, y, z int) voxel.VertexLight
	// SetLight stores the baked light at world-space (x,y,z).
	SetLight(x, y, z int, l voxel.VertexLight)
	// InBounds reports whether (x,y,z) falls within the shape's allocated
	// extent.
	InBounds(x, y, z int) bool
	// Palette resolves per-block color, alpha and emissive data.
	Palette() *color.Palette
}

// Bounds is an inclusive min/max block-coordinate box.
type Bounds struct{ Min, Max Pos }

// Propagator runs sunlight/emission/removal BFS passes over a World,
// tracking the bounding box of every cell it touched so the caller knows
// which chunks need re-meshing.
type Propagator struct {
	Easing    vxconfig.EasingKind
	CapToStep bool

	touched  bool
	min, max Pos
}

// NewPropagator builds a Propagator from the runtime-tunable lighting
// settings.
func NewPropagator(cfg *vxconfig.Config) *Propagator {
	return &Propagator{
		Easing:    vxconfig.EasingKind(cfg.Light.Easing),
		CapToStep: cfg.Light.CapAbsorptionToStep,
	}
}

// Dirty returns the bounding box of cells touched since the last Reset, and
// whether anything was touched at all.
func (p *Propagator) Dirty() (Bounds, bool) {
	return Bounds{Min: p.min, Max: p.max}, p.touched
}

// Reset clears the touched bounding box, ready for the next bake.
func (p *Propagator) Reset() {
	p.touched = false
	p.min, p.max = Pos{}, Pos{}
}

func (p *Propagator) touch(x, y, z int) {
	if !p.touched {
		p.touched = true
		p.min, p.max = Pos{x, y, z}, Pos{x, y, z}
		return
	}
	if x < p.min.X {
		p.min.X = x
	}
	if y < p.min.Y {
		p.min.Y = y
	}
	if z < p.min.Z {
		p.min.Z = z
	}
	if x > p.max.X {
		p.max.X = x
	}
	if y > p.max.Y {
		p.max.Y = y
	}
	if z > p.max.Z {
		p.max.Z = z
	}
}

var axialSteps = [6]Pos{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// BakeSunlight seeds the sunlight BFS at every (x, topY, z) in
// [minX-1,maxX+1] x [minZ-1,maxZ+1] — the shape's inclusive footprint
// [minX,maxX] x [minZ,maxZ] expanded by one cell on every side, so
// sunlight can flow in under overhangs along the
// shape's edges — and runs propagation to completion.
func (p *Propagator) BakeSunlight(w World, minX, maxX, minZ, maxZ, topY int) {
	var queue []Pos
	for x := minX - 1; x <= maxX+1; x++ {
		for z := minZ - 1; z <= maxZ+1; z++ {
			if !w.InBounds(x, topY, z) {
				continue
			}
			l := w.Light(x, topY, z)
			if l.Ambient != FullAmbient {
				l.Ambient = FullAmbient
				w.SetLight(x, topY, z, l)
				p.touch(x, topY, z)
			}
			queue = append(queue, Pos{X: x, Y: topY, Z: z})
		}
	}
	p.propagate(w, queue)
}

// BakeEmission seeds the BFS for every emissive block in positions: each
// one's own cell is raised to its palette emission, and — to avoid a
// diamond-shaped hotspot from the first BFS iteration alone — all 26
// neighbors of its cell are seeded too, clamped against whatever they
// already hold ("homogeneous self-lighting").
func (p *Propagator) BakeEmission(w World, positions []Pos) {
	var queue []Pos
	for _, at := range positions {
		block := w.Block(at.X, at.Y, at.Z)
		if !w.Palette().IsEmissive(block) {
			continue
		}
		er, eg, eb := w.Palette().EmissiveLight(block)

		l := w.Light(at.X, at.Y, at.Z)
		if raiseChannels(&l, er, eg, eb) {
			w.SetLight(at.X, at.Y, at.Z, l)
			p.touch(at.X, at.Y, at.Z)
		}
		queue = append(queue, at)

		for dz := -1; dz <= 1; dz++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 && dz == 0 {
						continue
					}
					nx, ny, nz := at.X+dx, at.Y+dy, at.Z+dz
					if !w.InBounds(nx, ny, nz) {
						continue
					}
					nb := w.Block(nx, ny, nz)
					if !voxel.IsAir(nb) && !w.Palette().IsTransparent(nb) {
						continue
					}
					nr := p.absorbChannel(w, nb, int(er), vxconfig.EmissionPropagationStep)
					ng := p.absorbChannel(w, nb, int(eg), vxconfig.EmissionPropagationStep)
					nbv := p.absorbChannel(w, nb, int(eb), vxconfig.EmissionPropagationStep)

					nl := w.Light(nx, ny, nz)
					if raiseChannels(&nl, uint8(nr), uint8(ng), uint8(nbv)) {
						w.SetLight(nx, ny, nz, nl)
						p.touch(nx, ny, nz)
						queue = append(queue, Pos{X: nx, Y: ny, Z: nz})
					}
				}
			}
		}
	}
	p.propagate(w, queue)
}

// propagate drains queue, visiting each node's six axial neighbors: a
// neighbor that is air or transparent may have its ambient and emission
// channels raised from this node's current value (minus the move's step
// cost and any transparent-block absorption), and is enqueued whenever any
// channel actually rose. An emissive neighbor additionally floors its own
// channels at its palette emission; like any other neighbor it is stored
// and enqueued only when a channel rose, so every enqueue strictly raises
// a value.
func (p *Propagator) propagate(w World, queue []Pos) {
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		self := w.Light(n.X, n.Y, n.Z)

		for _, d := range axialSteps {
			nx, ny, nz := n.X+d.X, n.Y+d.Y, n.Z+d.Z
			if !w.InBounds(nx, ny, nz) {
				continue
			}
			block := w.Block(nx, ny, nz)
			if !voxel.IsAir(block) && !w.Palette().IsTransparent(block) {
				continue
			}

			ambientStep := vxconfig.SunlightPropagationStep
			if d.Y == -1 {
				ambientStep = 0
			}

			nl := w.Light(nx, ny, nz)
			changed := false

			if v := p.absorbChannel(w, block, int(self.Ambient)-ambientStep, vxconfig.SunlightPropagationStep); uint8(v) > nl.Ambient {
				nl.Ambient = uint8(v)
				changed = true
			}
			if v := p.absorbChannel(w, block, int(self.R)-vxconfig.EmissionPropagationStep, vxconfig.EmissionPropagationStep); uint8(v) > nl.R {
				nl.R = uint8(v)
				changed = true
			}
			if v := p.absorbChannel(w, block, int(self.G)-vxconfig.EmissionPropagationStep, vxconfig.EmissionPropagationStep); uint8(v) > nl.G {
				nl.G = uint8(v)
				changed = true
			}
			if v := p.absorbChannel(w, block, int(self.B)-vxconfig.EmissionPropagationStep, vxconfig.EmissionPropagationStep); uint8(v) > nl.B {
				nl.B = uint8(v)
				changed = true
			}

			if w.Palette().IsEmissive(block) {
				er, eg, eb := w.Palette().EmissiveLight(block)
				if raiseChannels(&nl, er, eg, eb) {
					changed = true
				}
				if changed {
					w.SetLight(nx, ny, nz, nl)
					p.touch(nx, ny, nz)
					queue = append(queue, Pos{X: nx, Y: ny, Z: nz})
				}
				continue
			}

			if !changed {
				continue
			}
			w.SetLight(nx, ny, nz, nl)
			p.touch(nx, ny, nz)
			queue = append(queue, Pos{X: nx, Y: ny, Z: nz})
		}
	}
}

// Refill reseeds the propagation BFS at each position in seeds, using
// whatever light those cells already hold as a source to push into their
// neighbors. Used when a block is removed: the caller zeroes the opened
// cell's own light and passes its six neighbors as seeds, so each
// neighbor's existing light (sun or emission) flows back into the cell
// that used to be blocked, exactly as if the neighbors were freshly-baked
// sources.
func (p *Propagator) Refill(w World, seeds []Pos) {
	p.propagate(w, seeds)
}

// raiseChannels sets l's R/G/B to the max of their current value and
// r/g/b, reporting whether anything changed.
func raiseChannels(l *voxel.VertexLight, r, g, b uint8) bool {
	changed := false
	if r > l.R {
		l.R = r
		changed = true
	}
	if g > l.G {
		l.G = g
		changed = true
	}
	if b > l.B {
		l.B = b
		changed = true
	}
	return changed
}

// absorbChannel clamps value to [0,15] and, if block is a transparent
// palette entry, reduces it further by this propagator's easing applied to
// the block's alpha — the absorbed amount capped at step when CapToStep is
// set, so a single thin pane of glass can't over-dim a long propagation
// run.
func (p *Propagator) absorbChannel(w World, block color.EntryIndex, value, step int) int {
	if value <= 0 {
		return 0
	}
	if value > 15 {
		value = 15
	}
	c, ok := w.Palette().Color(block)
	if !ok || !c.IsTransparent() {
		return value
	}

	alpha := float64(c.A) / 255
	absorbed := Ease(p.Easing, alpha) * float64(value)
	if p.CapToStep && absorbed > float64(step) {
		absorbed = float64(step)
	}
	remaining := float64(value) - absorbed
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining)
}
