package shape

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nyxreach/voxelcore/internal/vxconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetPOI(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)

	s.SetPOI("spawn", mgl32.Vec3{1, 2, 3})

	pos, ok := s.POI("spawn")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, pos)

	_, ok = s.POI("missing")
	assert.False(t, ok)
}

func TestSetAndGetPOIRotation(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)

	s.SetPOIRotation("turret", mgl32.Vec3{0, 1.57, 0})

	rot, ok := s.POIRotation("turret")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 1.57, 0}, rot)
}

func TestRemovePOIDropsBothPositionAndRotation(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)
	s.SetPOI("spawn", mgl32.Vec3{1, 2, 3})
	s.SetPOIRotation("spawn", mgl32.Vec3{0, 0, 0})

	removed := s.RemovePOI("spawn")
	assert.True(t, removed)

	_, ok := s.POI("spawn")
	assert.False(t, ok)
	_, ok = s.POIRotation("spawn")
	assert.False(t, ok)

	assert.False(t, s.RemovePOI("spawn"), "removing an already-removed POI reports false")
}

func TestPOINamesIsSortedAndComplete(t *testing.T) {
	s := NewFixedSize(vxconfig.Default(), Size{Width: 8, Height: 8, Depth: 8}, false)
	s.SetPOI("zeta", mgl32.Vec3{})
	s.SetPOI("alpha", mgl32.Vec3{})
	s.SetPOI("mid", mgl32.Vec3{})

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, s.POINames())
}
