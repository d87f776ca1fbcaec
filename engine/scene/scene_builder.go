package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-exhibit/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithAnchorName binds role to a differently named node. An empty name unbinds an optional role.
//
// Parameters:
//   - role: the anchor role
//   - nodeName: the node name in the base scene
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAnchorName(role AnchorRole, nodeName string) SceneBuilderOption {
	return func(s *scene) {
		s.anchorNames[role] = nodeName
	}
}

// WithHologramOffset sets the offset added to the hologram anchor's world position.
//
// Parameters:
//   - offset: the offset in world units
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithHologramOffset(offset mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.hologramOffset = offset
	}
}

// WithLights registers initial lights.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = append(s.lights, lights...)
	}
}
