package light

import (
	"math"

	"github.com/nyxreach/voxelcore/internal/vxconfig"
)

// Ease maps a transparent block's alpha a (0-1) to its absorption fraction
// for one of the five configurable curves. It always evaluates the "in"
// member of each family: absorption should ramp up from zero as alpha
// approaches full opacity, which is exactly an ease-in shape. The original
// engine's easings.c has no linear function at all (a straight ramp needs
// none), so EasingLinear returns a unchanged.
func Ease(kind vxconfig.EasingKind, a float64) float64 {
	switch kind {
	case vxconfig.EasingQuadratic:
		return a * a
	case vxconfig.EasingCubic:
		return a * a * a
	case vxconfig.EasingExponential:
		if a <= 0 {
			return 0
		}
		return math.Pow(2, 10*(a-1))
	case vxconfig.EasingCircular:
		return 1 - math.Sqrt(1-a*a)
	default: // EasingLinear
		return a
	}
}
