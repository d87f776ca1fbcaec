package exhibit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/model"
)

// DisplayYaw is the fixed rotation, about +Y, applied to every displayed exhibit.
const DisplayYaw = math.Pi

// NormalizeScale returns the uniform scale that fits an exhibit of the given size.
//
// Tall exhibits get more room than wide ones: when height is strictly the largest
// dimension and exceeds verticalCap the scale is verticalCap/height; otherwise, when
// the largest dimension exceeds lateralCap the scale is lateralCap/largest; otherwise 1.
//
// Parameters:
//   - size: exhibit extent (width, height, depth)
//   - verticalCap: the height limit for tall exhibits
//   - lateralCap: the limit for every other exhibit
//
// Returns:
//   - float32: the uniform scale factor
func NormalizeScale(size mgl32.Vec3, verticalCap, lateralCap float32) float32 {
	w, h, d := size[0], size[1], size[2]
	largest := max(w, h, d)
	switch {
	case h > w && h > d && h > verticalCap:
		return verticalCap / h
	case largest > lateralCap:
		return lateralCap / largest
	default:
		return 1
	}
}

// PlacedAsset is an exhibit model positioned on the hologram plate.
// At most one is attached to a stage at a time.
type PlacedAsset struct {
	name     common.ExhibitName
	model    model.Model
	position mgl32.Vec3
	scale    float32
	yaw      float32
	released bool
}

// NewPlacedAsset positions m at origin with the scale from NormalizeScale and the fixed display yaw.
//
// Parameters:
//   - name: the exhibit name
//   - m: the loaded model
//   - origin: the hologram origin
//   - verticalCap, lateralCap: scale limits
//
// Returns:
//   - *PlacedAsset: the placed asset
func NewPlacedAsset(name common.ExhibitName, m model.Model, origin mgl32.Vec3, verticalCap, lateralCap float32) *PlacedAsset {
	return &PlacedAsset{
		name:     name,
		model:    m,
		position: origin,
		scale:    NormalizeScale(m.Size(), verticalCap, lateralCap),
		yaw:      DisplayYaw,
	}
}

// Name returns the exhibit name.
func (a *PlacedAsset) Name() common.ExhibitName {
	return a.name
}

// Model returns the model, or nil once released.
func (a *PlacedAsset) Model() model.Model {
	return a.model
}

// Position returns the world-space position.
func (a *PlacedAsset) Position() mgl32.Vec3 {
	return a.position
}

// Scale returns the uniform scale.
func (a *PlacedAsset) Scale() float32 {
	return a.scale
}

// Yaw returns the rotation about +Y in radians.
func (a *PlacedAsset) Yaw() float32 {
	return a.yaw
}

// Transform returns the model matrix placing the asset in the world.
func (a *PlacedAsset) Transform() mgl32.Mat4 {
	return common.BuildModelMatrix(a.position, a.yaw, a.scale)
}

// WorldBounds returns the placed asset's bounds in world space.
func (a *PlacedAsset) WorldBounds() common.AABB {
	if a.model == nil {
		return common.EmptyAABB()
	}
	return a.model.Bounds().Transform(a.Transform())
}

// Released reports whether the asset has been detached and dropped.
func (a *PlacedAsset) Released() bool {
	return a.released
}

// release drops the asset's references so nothing keeps the previous exhibit alive.
func (a *PlacedAsset) release() {
	a.model = nil
	a.released = true
}
