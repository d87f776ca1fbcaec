package loader

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/model"
)

// ErrEmptyDocument is returned when a glTF document holds no nodes.
var ErrEmptyDocument = errors.New("gltf document has no nodes")

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend turns glTF or GLB bytes into a model.Model.
type gltfLoaderBackend interface {
	// Decode parses a document and builds its node graph.
	//
	// Parameters:
	//   - name: the model name
	//   - data: GLB or glTF JSON bytes; the format is detected from the header
	//
	// Returns:
	//   - model.Model: the decoded model
	//   - error: error if decoding fails
	Decode(name string, data []byte) (model.Model, error)
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB data
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Decode(name string, data []byte) (model.Model, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode gltf %s: %w", name, err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyDocument)
	}

	nodes := make([]*model.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n := &model.Node{
			Name:     gn.Name,
			Children: append([]int(nil), gn.Children...),
			Local:    localTransform(gn),
		}
		if extras, ok := gn.Extras.(map[string]any); ok {
			n.Extras = extras
			n.Hidden = model.IsHiddenFlag(extras[model.HiddenExtra])
		}
		if gn.Mesh != nil {
			bounds, err := meshBounds(doc, *gn.Mesh)
			if err != nil {
				return nil, fmt.Errorf("%s: node %q: %w", name, gn.Name, err)
			}
			n.HasMesh = !bounds.IsEmpty()
			n.LocalBounds = bounds
		}
		nodes[i] = n
	}

	return model.NewModel(nodes, sceneRoots(doc), model.WithName(name), model.WithSource(name))
}

// localTransform reads a node's local matrix, preferring an explicit matrix over TRS.
func localTransform(n *gltf.Node) mgl32.Mat4 {
	if m := n.MatrixOrDefault(); !common.IsIdentity64(m) {
		return common.Mat4FromFloat64(m)
	}
	return common.ComposeTRS(n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault())
}

// sceneRoots picks the root nodes of the default scene, falling back to every parentless node.
func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return append([]int(nil), doc.Scenes[*doc.Scene].Nodes...)
	}
	if len(doc.Scenes) > 0 {
		return append([]int(nil), doc.Scenes[0].Nodes...)
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

// meshBounds encloses every primitive's POSITION data in mesh space.
// Accessor min/max are used when present; otherwise positions are read.
func meshBounds(doc *gltf.Document, meshIdx int) (common.AABB, error) {
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return common.AABB{}, fmt.Errorf("mesh index %d out of range", meshIdx)
	}

	box := common.EmptyAABB()
	for _, prim := range doc.Meshes[meshIdx].Primitives {
		accIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok || accIdx < 0 || accIdx >= len(doc.Accessors) {
			continue
		}
		acc := doc.Accessors[accIdx]
		if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
			box = box.ExpandByPoint(mgl32.Vec3{float32(acc.Min[0]), float32(acc.Min[1]), float32(acc.Min[2])})
			box = box.ExpandByPoint(mgl32.Vec3{float32(acc.Max[0]), float32(acc.Max[1]), float32(acc.Max[2])})
			continue
		}

		positions, err := modeler.ReadPosition(doc, acc, nil)
		if err != nil {
			return common.AABB{}, fmt.Errorf("read positions: %w", err)
		}
		for _, p := range positions {
			box = box.ExpandByPoint(mgl32.Vec3{p[0], p[1], p[2]})
		}
	}
	return box, nil
}
