package light

import (
	"testing"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/nyxreach/voxelcore/pkg/color"
	"github.com/nyxreach/voxelcore/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridWorld is a small in-memory World for testing: a dense [min,max] box
// of blocks and lights with no chunk structure.
type gridWorld struct {
	min, max Pos
	blocks   map[Pos]color.EntryIndex
	lights   map[Pos]voxel.VertexLight
	palette  *color.Palette
}

func newGridWorld(min, max Pos) *gridWorld {
	return &gridWorld{
		min:     min,
		max:     max,
		blocks:  make(map[Pos]color.EntryIndex),
		lights:  make(map[Pos]voxel.VertexLight),
		palette: color.NewPalette(color.NewAtlas(), true),
	}
}

func (g *gridWorld) Block(x, y, z int) color.EntryIndex {
	if b, ok := g.blocks[Pos{x, y, z}]; ok {
		return b
	}
	return voxel.Air
}

func (g *gridWorld) Light(x, y, z int) voxel.VertexLight {
	return g.lights[Pos{x, y, z}]
}

func (g *gridWorld) SetLight(x, y, z int, l voxel.VertexLight) {
	g.lights[Pos{x, y, z}] = l
}

func (g *gridWorld) InBounds(x, y, z int) bool {
	return x >= g.min.X && x <= g.max.X && y >= g.min.Y && y <= g.max.Y && z >= g.min.Z && z <= g.max.Z
}

func (g *gridWorld) Palette() *color.Palette { return g.palette }

func (g *gridWorld) addOpaque(x, y, z int, c color.RGBA) color.EntryIndex {
	idx, _, _ := g.palette.CheckAndAdd(c)
	g.blocks[Pos{x, y, z}] = idx
	return idx
}

func testConfig() *vxconfig.Config {
	cfg := vxconfig.Default()
	cfg.Light.Easing = int(vxconfig.EasingLinear)
	cfg.Light.CapAbsorptionToStep = false
	return cfg
}

func TestBakeSunlightFillsOpenColumn(t *testing.T) {
	w := newGridWorld(Pos{0, 0, 0}, Pos{2, 5, 2})
	p := NewPropagator(testConfig())

	p.BakeSunlight(w, 0, 2, 0, 2, 5)

	for y := 0; y <= 5; y++ {
		assert.Equal(t, FullAmbient, w.Light(1, y, 1).Ambient, "y=%d should be fully lit in an open column", y)
	}

	bounds, touched := p.Dirty()
	require.True(t, touched)
	assert.Equal(t, 0, bounds.Min.Y)
	assert.Equal(t, 5, bounds.Max.Y)
}

func TestBakeSunlightStopsAtOpaqueFloor(t *testing.T) {
	w := newGridWorld(Pos{0, 0, 0}, Pos{2, 5, 2})
	floorColor := color.RGBA{R: 80, G: 40, B: 20, A: 255}
	for x := 0; x <= 2; x++ {
		for z := 0; z <= 2; z++ {
			w.addOpaque(x, 2, z, floorColor) // a full solid layer: nothing can seep around it
		}
	}
	p := NewPropagator(testConfig())

	p.BakeSunlight(w, 0, 2, 0, 2, 5)

	assert.Equal(t, FullAmbient, w.Light(1, 3, 1).Ambient)
	assert.Equal(t, uint8(0), w.Light(1, 2, 1).Ambient, "the opaque cell itself stores no light")
	assert.Equal(t, uint8(0), w.Light(1, 1, 1).Ambient, "a full opaque floor blocks light from reaching below it")
}

func TestTransparentBlockAbsorbsSunlight(t *testing.T) {
	w := newGridWorld(Pos{0, 0, 0}, Pos{0, 3, 0})
	w.addOpaque(0, 1, 0, color.RGBA{R: 200, G: 200, B: 255, A: 128}) // half-alpha glass
	cfg := testConfig()
	cfg.Light.Easing = int(vxconfig.EasingLinear)
	p := NewPropagator(cfg)

	p.BakeSunlight(w, 0, 0, 0, 0, 3)

	below := w.Light(0, 0, 0).Ambient
	assert.Less(t, below, FullAmbient, "light passing through translucent glass should dim")
	assert.Greater(t, below, uint8(0), "half-alpha glass should not fully block light")
}

func TestBakeEmissionSeedsNeighborsHomogeneously(t *testing.T) {
	w := newGridWorld(Pos{0, 0, 0}, Pos{2, 2, 2})
	torch := w.addOpaque(1, 1, 1, color.RGBA{R: 255, G: 128, B: 0, A: 255})
	w.palette.SetEmissive(torch, true)
	p := NewPropagator(testConfig())

	p.BakeEmission(w, []Pos{{X: 1, Y: 1, Z: 1}})

	er, eg, eb := w.palette.EmissiveLight(torch)
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				l := w.Light(1+dx, 1+dy, 1+dz)
				assert.Equal(t, er, l.R, "corner (%d,%d,%d)", dx, dy, dz)
				assert.Equal(t, eg, l.G)
				assert.Equal(t, eb, l.B)
			}
		}
	}
}

func TestRemoveSunlightGoesDarkBelowANewOpaqueBlockButNotAbove(t *testing.T) {
	w := newGridWorld(Pos{0, 0, 0}, Pos{0, 5, 0})
	p := NewPropagator(testConfig())

	p.BakeSunlight(w, 0, 0, 0, 0, 5)
	require.Equal(t, FullAmbient, w.Light(0, 1, 0).Ambient)

	p.Reset()
	w.addOpaque(0, 2, 0, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	p.RemoveSunlight(w, 0, 2, 0)

	assert.Equal(t, uint8(0), w.Light(0, 2, 0).Ambient, "the now-opaque cell itself is never re-lit")
	assert.Equal(t, uint8(0), w.Light(0, 1, 0).Ambient, "no longer reachable once the cell above is opaque")
	assert.Equal(t, uint8(0), w.Light(0, 0, 0).Ambient)
	assert.Equal(t, FullAmbient, w.Light(0, 3, 0).Ambient, "still directly open to the sky above the block")
	assert.Equal(t, FullAmbient, w.Light(0, 5, 0).Ambient)
}

func TestEaseLinearIsIdentity(t *testing.T) {
	assert.Equal(t, 0.0, Ease(vxconfig.EasingLinear, 0))
	assert.Equal(t, 0.5, Ease(vxconfig.EasingLinear, 0.5))
	assert.Equal(t, 1.0, Ease(vxconfig.EasingLinear, 1))
}

func TestEaseQuadraticAndCubicAreMonotonic(t *testing.T) {
	prevQ, prevC := 0.0, 0.0
	for _, a := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		q := Ease(vxconfig.EasingQuadratic, a)
		c := Ease(vxconfig.EasingCubic, a)
		assert.Greater(t, q, prevQ)
		assert.Greater(t, c, prevC)
		prevQ, prevC = q, c
	}
}
