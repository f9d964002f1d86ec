package light

import "github.com/nyxreach/voxelcore/internal/vxconfig"

// channelMask bits identify which of a VertexLight's four channels a
// removal step clears: bit 3 ambient, bit 2 red, bit 1 green, bit 0 blue.
type channelMask uint8

const (
	maskAmbient channelMask = 1 << 3
	maskRed     channelMask = 1 << 2
	maskGreen   channelMask = 1 << 1
	maskBlue    channelMask = 1 << 0
)

type removalNode struct {
	Pos
	ambient, r, g, b uint8
	mask             channelMask
	emissive         bool
}

// RemoveSunlight runs a removal BFS seeded at (x,y,z) for the ambient
// channel only — used when a newly placed opaque block blocks sunlight
// that used to reach past it — then refills from whatever still-lit
// neighbors were exposed by the removal. The cell's own ambient value is
// cleared outright: an opaque block never stores a sunlight value.
func (p *Propagator) RemoveSunlight(w World, x, y, z int) {
	l := w.Light(x, y, z)
	old := l.Ambient
	l.Ambient = 0
	w.SetLight(x, y, z, l)
	p.touch(x, y, z)
	p.remove(w, []removalNode{{Pos: Pos{X: x, Y: y, Z: z}, ambient: old, mask: maskAmbient}})
}

// RemoveEmission runs a removal BFS for the R/G/B channels at (x,y,z),
// used when an emissive block is removed or its emission changes — then
// refills. emissive reports whether the block being removed was itself
// emissive, which relaxes the removal comparison from "<" to "<=" against
// neighbors that are also emissive, so two adjacent lights of equal
// strength don't each refuse to clear the other.
func (p *Propagator) RemoveEmission(w World, x, y, z int, emissive bool) {
	l := w.Light(x, y, z)
	oldR, oldG, oldB := l.R, l.G, l.B
	l.R, l.G, l.B = 0, 0, 0
	w.SetLight(x, y, z, l)
	p.touch(x, y, z)
	p.remove(w, []removalNode{{Pos: Pos{X: x, Y: y, Z: z}, r: oldR, g: oldG, b: oldB, mask: maskRed | maskGreen | maskBlue, emissive: emissive}})
}

// remove drains a removal queue. For each masked channel, a neighbor's
// value is compared against the removal node's recorded value decayed by
// that move's step cost (the same per-direction cost propagate uses, so
// e.g. straight down costs sunlight nothing): a nonzero neighbor at or
// below that expected value only held light because of this path and is
// cleared, then queued for further removal; a neighbor strictly above it
// has its own independent light and is instead queued as a propagation
// refill source, since removing this path may have starved a cell that a
// second path still reaches.
func (p *Propagator) remove(w World, queue []removalNode) {
	var refillFrom []Pos
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		for _, d := range axialSteps {
			nx, ny, nz := n.X+d.X, n.Y+d.Y, n.Z+d.Z
			if !w.InBounds(nx, ny, nz) {
				continue
			}
			nl := w.Light(nx, ny, nz)
			block := w.Block(nx, ny, nz)
			neighborEmissive := w.Palette().IsEmissive(block)

			ambientStep := vxconfig.SunlightPropagationStep
			if d.Y == -1 {
				ambientStep = 0
			}

			changed := false
			next := removalNode{Pos: Pos{X: nx, Y: ny, Z: nz}, mask: n.mask}
			refill := false

			if n.mask&maskAmbient != 0 {
				if c, r := step(nl.Ambient, n.ambient, ambientStep, false); c {
					next.ambient = nl.Ambient
					nl.Ambient = 0
					changed = true
				} else if r {
					refill = true
				}
			}
			if n.mask&maskRed != 0 {
				if c, r := step(nl.R, n.r, vxconfig.EmissionPropagationStep, n.emissive && neighborEmissive); c {
					next.r = nl.R
					nl.R = 0
					changed = true
				} else if r {
					refill = true
				}
			}
			if n.mask&maskGreen != 0 {
				if c, r := step(nl.G, n.g, vxconfig.EmissionPropagationStep, n.emissive && neighborEmissive); c {
					next.g = nl.G
					nl.G = 0
					changed = true
				} else if r {
					refill = true
				}
			}
			if n.mask&maskBlue != 0 {
				if c, r := step(nl.B, n.b, vxconfig.EmissionPropagationStep, n.emissive && neighborEmissive); c {
					next.b = nl.B
					nl.B = 0
					changed = true
				} else if r {
					refill = true
				}
			}

			if changed {
				w.SetLight(nx, ny, nz, nl)
				p.touch(nx, ny, nz)
				next.emissive = neighborEmissive
				queue = append(queue, next)
			}
			if refill {
				refillFrom = append(refillFrom, Pos{X: nx, Y: ny, Z: nz})
			}
		}
	}
	if len(refillFrom) > 0 {
		p.propagate(w, refillFrom)
	}
}

// step reports whether neighbor should be cleared (clear) or treated as an
// independent refill source (refill), given the removal node's recorded
// value decayed by stepCost. selfEmissive widens "at or below" to include
// exact equality at the undecayed value, for equal-strength emissive
// neighbors that would otherwise refuse to clear each other.
func step(neighbor, recorded uint8, stepCost int, selfEmissive bool) (clear, refill bool) {
	if neighbor == 0 {
		return false, false
	}
	expected := int(recorded) - stepCost
	if expected < 0 {
		expected = 0
	}
	if selfEmissive && int(neighbor) == int(recorded) {
		return true, false
	}
	if int(neighbor) <= expected {
		return true, false
	}
	return false, true
}
