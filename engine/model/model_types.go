package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
)

// Node is one entry of a model's scene graph.
// World, Visible and the model's bounds are derived when the model is built; callers
// should treat a built node as read-only.
type Node struct {
	// Index is the node's position in the model's node slice.
	Index int

	// Name is the node name from the source file, possibly empty.
	Name string

	// Parent is the index of the parent node, or -1 for roots.
	Parent int

	// Children are indices of child nodes in source order.
	Children []int

	// Local is the transform relative to the parent.
	Local mgl32.Mat4

	// World is the accumulated transform from the model root.
	World mgl32.Mat4

	// Hidden is the node's own hidden flag from the source extras.
	Hidden bool

	// Visible is false when the node or any ancestor is hidden.
	Visible bool

	// HasMesh reports whether a mesh is attached to this node.
	HasMesh bool

	// LocalBounds encloses the attached mesh in node space. Empty when HasMesh is false.
	LocalBounds common.AABB

	// Extras holds the custom properties exported with the node.
	Extras map[string]any
}

// WorldPosition returns the translation part of the node's world transform.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return common.Translation(n.World)
}

// WorldBounds returns the mesh bounds transformed into model space.
func (n *Node) WorldBounds() common.AABB {
	if !n.HasMesh {
		return common.EmptyAABB()
	}
	return n.LocalBounds.Transform(n.World)
}

// IsHiddenFlag interprets an extras value as the hidden flag.
// Booleans are taken as-is, numbers are true when non-zero, and the strings "true" and "1" are true.
//
// Parameters:
//   - v: the raw extras value
//
// Returns:
//   - bool: true if the value marks the node hidden
func IsHiddenFlag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		return t == "true" || t == "1"
	default:
		return false
	}
}
