package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
)

// HiddenExtra is the extras key that marks a node as excluded from the visible graph.
const HiddenExtra = "hidden"

// model is the implementation of the Model interface.
type model struct {
	name   string
	source string
	nodes  []*Node
	roots  []int
	byName map[string]int
	bounds common.AABB
}

// Model defines the interface for a loaded glTF scene graph.
// A Model is CPU-side data: named nodes with resolved world transforms, visibility
// and bounds. It is produced by the Loader and is immutable once built, so the same
// Model can back several placements.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Source returns the path the model was loaded from, if any.
	//
	// Returns:
	//   - string: the source path
	Source() string

	// Nodes returns every node in source order.
	//
	// Returns:
	//   - []*Node: the nodes
	Nodes() []*Node

	// Roots returns the indices of the root nodes of the displayed scene.
	//
	// Returns:
	//   - []int: root node indices
	Roots() []int

	// Node looks up the first node with the given name in depth-first order.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - *Node: the node, or nil
	//   - bool: true if found
	Node(name string) (*Node, bool)

	// VisibleNodes returns the nodes that are not hidden and have no hidden ancestor.
	//
	// Returns:
	//   - []*Node: visible nodes in depth-first order
	VisibleNodes() []*Node

	// Bounds returns the model-space box enclosing every mesh, hidden or not.
	//
	// Returns:
	//   - common.AABB: the bounds, empty when the model has no meshes
	Bounds() common.AABB

	// Size returns the extent of Bounds along each axis.
	//
	// Returns:
	//   - mgl32.Vec3: width, height and depth
	Size() mgl32.Vec3
}

var _ Model = &model{}

// NewModel builds a Model from raw nodes, resolving world transforms, visibility and bounds.
// Node Index, Parent, World and Visible fields are overwritten.
//
// Parameters:
//   - nodes: the nodes, with Local, Children, Hidden and mesh data filled in
//   - roots: indices of the root nodes to traverse
//   - options: a variadic list of ModelBuilderOption functions
//
// Returns:
//   - Model: the built model
//   - error: error if a child or root index is out of range or the graph has a cycle
func NewModel(nodes []*Node, roots []int, options ...ModelBuilderOption) (Model, error) {
	m := &model{
		nodes:  nodes,
		roots:  roots,
		byName: make(map[string]int),
		bounds: common.EmptyAABB(),
	}
	for _, opt := range options {
		opt(m)
	}

	for i, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("model %q: node %d is nil", m.name, i)
		}
		n.Index = i
		n.Parent = -1
		n.Visible = false
	}

	visited := make([]bool, len(nodes))
	var walk func(idx, parent int, parentWorld mgl32.Mat4, parentVisible bool) error
	walk = func(idx, parent int, parentWorld mgl32.Mat4, parentVisible bool) error {
		if idx < 0 || idx >= len(nodes) {
			return fmt.Errorf("model %q: node index %d out of range", m.name, idx)
		}
		if visited[idx] {
			return fmt.Errorf("model %q: node %d reached twice", m.name, idx)
		}
		visited[idx] = true

		n := nodes[idx]
		n.Parent = parent
		n.World = parentWorld.Mul4(n.Local)
		n.Visible = parentVisible && !n.Hidden
		if n.Name != "" {
			if _, exists := m.byName[n.Name]; !exists {
				m.byName[n.Name] = idx
			}
		}
		m.bounds = m.bounds.Union(n.WorldBounds())

		for _, c := range n.Children {
			if err := walk(c, idx, n.World, n.Visible); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range roots {
		if err := walk(r, -1, mgl32.Ident4(), true); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Source() string {
	return m.source
}

func (m *model) Nodes() []*Node {
	return m.nodes
}

func (m *model) Roots() []int {
	return m.roots
}

func (m *model) Node(name string) (*Node, bool) {
	idx, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.nodes[idx], true
}

func (m *model) VisibleNodes() []*Node {
	var out []*Node
	var walk func(idx int)
	walk = func(idx int) {
		n := m.nodes[idx]
		if !n.Visible {
			return
		}
		out = append(out, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range m.roots {
		walk(r)
	}
	return out
}

func (m *model) Bounds() common.AABB {
	return m.bounds
}

func (m *model) Size() mgl32.Vec3 {
	return m.bounds.Size()
}
