package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithUp is an option builder that sets the camera's up vector.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithPosition is an option builder that sets the starting position.
//
// Parameters:
//   - p: world-space position
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithPosition(p mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = p
	}
}

// WithTarget is an option builder that sets the starting look-at point.
//
// Parameters:
//   - t: world-space target
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithTarget(t mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = t
	}
}

// WithFov is an option builder that sets the vertical field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithClipPlanes is an option builder that sets the near and far clipping distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithDistanceBounds is an option builder that limits how close and far the camera may orbit.
//
// Parameters:
//   - min: minimum distance to target
//   - max: maximum distance to target
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithDistanceBounds(min, max float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.minDistance = min
		c.maxDistance = max
	}
}

// WithFocusSpring is an option builder that tunes the focus tween.
//
// Parameters:
//   - frequency: angular frequency of the spring
//   - damping: damping ratio; 1 is critically damped
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFocusSpring(frequency, damping float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.focusFrequency = frequency
		c.focusDamping = damping
	}
}
