package camera

import (
	"sync"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
)

// focusEpsilon is the distance below which a focus tween snaps to its goal.
const focusEpsilon = 1e-3

type cameraImpl struct {
	mu sync.Mutex

	up       mgl32.Vec3
	position mgl32.Vec3
	target   mgl32.Vec3

	fov    float32 // degrees
	aspect float32
	near   float32
	far    float32

	minDistance float32
	maxDistance float32

	focusFrequency float64
	focusDamping   float64
	focusGoal      mgl32.Vec3
	focusVelocity  [3]float64
	focusing       bool
}

// Camera defines the interface for the exhibit camera rig.
// The camera orbits a target point, never straying further than its maximum
// distance, and can glide its focus onto a new point with a critically damped spring.
// Mutations are expected from the frame goroutine; reads are safe from any goroutine.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: the target
	Target() mgl32.Vec3

	// SetPosition moves the camera, clamping its distance to the target.
	//
	// Parameters:
	//   - p: world-space position
	SetPosition(p mgl32.Vec3)

	// SetTarget moves the look-at point immediately and cancels any focus tween.
	//
	// Parameters:
	//   - t: world-space target
	SetTarget(t mgl32.Vec3)

	// FocusOn starts a spring tween moving the target to t. The camera keeps its
	// offset from the target while the tween runs.
	//
	// Parameters:
	//   - t: the new focus point
	FocusOn(t mgl32.Vec3)

	// Focusing reports whether a focus tween is in progress.
	//
	// Returns:
	//   - bool: true while tweening
	Focusing() bool

	// Zoom moves the camera along its view direction. Positive delta moves closer.
	// The resulting distance is clamped to [MinDistance, MaxDistance].
	//
	// Parameters:
	//   - delta: distance to move in world units
	Zoom(delta float32)

	// Update advances the focus tween by deltaTime seconds.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last update
	Update(deltaTime float32)

	// SetAspect sets the aspect ratio from a viewport size. Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	SetAspect(width, height int)

	// Fov returns the vertical field of view in degrees.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// MaxDistance returns the furthest the camera may be from its target.
	MaxDistance() float32

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at the origin looking down -Z with the options applied.
//
// Parameters:
//   - options: functional options for camera configuration
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		up:             mgl32.Vec3{0, 1, 0},
		position:       mgl32.Vec3{0, 0, 1},
		fov:            70,
		aspect:         16.0 / 9.0,
		near:           0.1,
		far:            10000,
		minDistance:    0,
		maxDistance:    float32(1e6),
		focusFrequency: 6,
		focusDamping:   1,
	}
	for _, opt := range options {
		opt(c)
	}
	c.clampLocked()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.clampLocked()
}

func (c *cameraImpl) SetTarget(t mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
	c.focusing = false
	c.focusVelocity = [3]float64{}
	c.clampLocked()
}

func (c *cameraImpl) FocusOn(t mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focusGoal = t
	c.focusing = true
}

func (c *cameraImpl) Focusing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focusing
}

func (c *cameraImpl) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	offset := c.position.Sub(c.target)
	dist := offset.Len()
	if dist == 0 {
		return
	}
	// clamp the distance before scaling so a large delta cannot push the camera through the target
	newDist := min(max(dist-delta, c.minDistance), c.maxDistance)
	c.position = c.target.Add(offset.Mul(newDist / dist))
}

func (c *cameraImpl) Update(deltaTime float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.focusing || deltaTime <= 0 {
		return
	}

	spring := harmonica.NewSpring(float64(deltaTime), c.focusFrequency, c.focusDamping)
	offset := c.position.Sub(c.target)
	var next mgl32.Vec3
	for i := 0; i < 3; i++ {
		pos, vel := spring.Update(float64(c.target[i]), c.focusVelocity[i], float64(c.focusGoal[i]))
		next[i] = float32(pos)
		c.focusVelocity[i] = vel
	}
	c.target = next
	c.position = next.Add(offset)

	if next.Sub(c.focusGoal).Len() < focusEpsilon {
		c.target = c.focusGoal
		c.position = c.focusGoal.Add(offset)
		c.focusing = false
		c.focusVelocity = [3]float64{}
	}
	c.clampLocked()
}

func (c *cameraImpl) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = float32(width) / float32(height)
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) MaxDistance() float32 {
	return c.maxDistance
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.LookAtV(c.position, c.target, c.up)
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.Perspective(common.DegToRad(c.fov), c.aspect, c.near, c.far)
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// clampLocked keeps the camera within [minDistance, maxDistance] of its target.
// Caller must hold c.mu.
func (c *cameraImpl) clampLocked() {
	offset := c.position.Sub(c.target)
	dist := offset.Len()
	if dist == 0 {
		return
	}
	switch {
	case dist > c.maxDistance:
		c.position = c.target.Add(offset.Mul(c.maxDistance / dist))
	case dist < c.minDistance:
		c.position = c.target.Add(offset.Mul(c.minDistance / dist))
	}
}
