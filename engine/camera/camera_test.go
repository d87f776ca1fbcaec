package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraClampsToMaxDistance(t *testing.T) {
	c := NewCamera(
		WithPosition(mgl32.Vec3{0, 0, 40}),
		WithTarget(mgl32.Vec3{}),
		WithDistanceBounds(0, 15.5),
	)
	assert.InDelta(t, 15.5, c.Position().Len(), 1e-4)
	assert.Equal(t, float32(15.5), c.MaxDistance())
}

func TestZoomRespectsBounds(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{0, 0, 10}), WithDistanceBounds(2, 12))

	c.Zoom(-100)
	assert.InDelta(t, 12, c.Position().Len(), 1e-4)

	c.Zoom(100)
	assert.InDelta(t, 2, c.Position().Len(), 1e-4)
	assert.InDelta(t, 2, c.Position()[2], 1e-4, "camera stays on the side it started")
}

func TestZoomPastTargetStopsAtMinimum(t *testing.T) {
	target := mgl32.Vec3{1, 0, 0}
	c := NewCamera(WithPosition(mgl32.Vec3{1, 0, 6}), WithDistanceBounds(2, 12))
	c.SetTarget(target)

	c.Zoom(7)
	assert.InDelta(t, 2, c.Position().Sub(target).Len(), 1e-4)
	assert.Greater(t, c.Position()[2], float32(0))

	c.Zoom(1.5)
	assert.InDelta(t, 2, c.Position().Sub(target).Len(), 1e-4)
	assert.Greater(t, c.Position()[2], float32(0))
}

func TestSetTargetPointsView(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{0, 0, 5}))
	c.SetTarget(mgl32.Vec3{1, 2.4, 3})
	assert.Equal(t, mgl32.Vec3{1, 2.4, 3}, c.Target())

	view := c.ViewMatrix()
	eyeSpace := mgl32.TransformCoordinate(c.Target(), view)
	assert.InDelta(t, 0, eyeSpace[0], 1e-4)
	assert.InDelta(t, 0, eyeSpace[1], 1e-4)
	assert.Less(t, eyeSpace[2], float32(0), "target is in front of the camera")
}

func TestFocusOnSettles(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{0, 0, 5}), WithFocusSpring(8, 1))
	goal := mgl32.Vec3{2, 0, 0}
	c.FocusOn(goal)
	assert.True(t, c.Focusing())

	for i := 0; i < 600 && c.Focusing(); i++ {
		c.Update(1.0 / 60)
	}

	assert.False(t, c.Focusing())
	assert.Equal(t, goal, c.Target())
	assert.InDelta(t, 5, c.Position().Sub(goal).Len(), 1e-3, "offset is preserved")
}

func TestSetAspect(t *testing.T) {
	c := NewCamera()
	c.SetAspect(800, 400)
	assert.Equal(t, float32(2), c.Aspect())
	c.SetAspect(0, 100)
	assert.Equal(t, float32(2), c.Aspect())
	assert.NotEqual(t, mgl32.Mat4{}, c.ProjectionMatrix())
}
