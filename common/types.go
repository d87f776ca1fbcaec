// package common contains common types that are used throughout the exhibit engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ExhibitName names a directory of exhibit assets (model, preview render and lighting descriptor).
// Names are opaque and immutable once placed in a catalog.
type ExhibitName string

// String returns the exhibit name as a plain string.
func (n ExhibitName) String() string {
	return string(n)
}

// Well-known node names in the base scene.
const (
	// HologramPlateName is the node the displayed exhibit hovers above.
	HologramPlateName = "Hologram_Plate"

	// ScreenName is the node whose material receives the exhibit preview render.
	ScreenName = "Screen"

	// NextButtonName is the hit target that advances the catalog cursor.
	NextButtonName = "NextButton"

	// PrevButtonName is the hit target that retreats the catalog cursor.
	PrevButtonName = "PrevButton"
)

// AABB is an axis-aligned bounding box in world space.
// The zero value is not empty; use EmptyAABB to start an accumulation.
type AABB struct {
	// Min is the minimum corner of the box.
	Min mgl32.Vec3

	// Max is the maximum corner of the box.
	Max mgl32.Vec3
}

// EmptyAABB returns an inverted box that any call to ExpandByPoint will replace.
//
// Returns:
//   - AABB: a box with Min at +Inf and Max at -Inf
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint grows the box to include p.
//
// Parameters:
//   - p: the point to include
//
// Returns:
//   - AABB: the expanded box
func (b AABB) ExpandByPoint(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	if o.IsEmpty() {
		return b
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Size returns the extent of the box along each axis (width, height, depth).
// An empty box has zero size.
func (b AABB) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

// Transform returns the axis-aligned box enclosing b after m is applied to its corners.
//
// Parameters:
//   - m: the affine transform to apply
//
// Returns:
//   - AABB: the enclosing box in the transformed space
func (b AABB) Transform(m mgl32.Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out = out.ExpandByPoint(mgl32.TransformCoordinate(c, m))
	}
	return out
}
