package shape

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// SetPOI sets (or creates) a named point of interest's position, in
// user-facing model-space coordinates — external systems (attachment
// points, spawn markers, camera anchors) address a shape's geometry by
// name rather than by a fixed coordinate.
func (s *Shape) SetPOI(name string, pos mgl32.Vec3) {
	s.pois[name] = pos
}

// POI returns the named point of interest's position, and whether it
// exists.
func (s *Shape) POI(name string) (mgl32.Vec3, bool) {
	p, ok := s.pois[name]
	return p, ok
}

// SetPOIRotation sets (or creates) a named point of interest's rotation,
// as Euler angles in radians.
func (s *Shape) SetPOIRotation(name string, rot mgl32.Vec3) {
	s.poisRotation[name] = rot
}

// POIRotation returns the named point of interest's rotation, and whether
// it exists.
func (s *Shape) POIRotation(name string) (mgl32.Vec3, bool) {
	r, ok := s.poisRotation[name]
	return r, ok
}

// RemovePOI deletes a named point of interest's position and rotation.
// Reports whether it existed.
func (s *Shape) RemovePOI(name string) bool {
	_, hadPos := s.pois[name]
	delete(s.pois, name)
	delete(s.poisRotation, name)
	return hadPos
}

// POINames returns every point-of-interest name currently set, sorted for
// deterministic iteration.
func (s *Shape) POINames() []string {
	names := make([]string, 0, len(s.pois))
	for name := range s.pois {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
