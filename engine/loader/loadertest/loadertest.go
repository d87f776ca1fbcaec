// Package loadertest builds small in-memory exhibit assets for tests.
package loadertest

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader"
)

// Lighting is a well-formed descriptor: red sun of strength 2 at pitch 45 yaw 30, white ambient of strength 1.
const Lighting = "color,strength,data\n#ff0000,2,45 30\n#ffffff,1\n"

// Node describes one glTF node for Document.
type Node struct {
	Name        string
	Translation [3]float64
	Scale       [3]float64
	Children    []int
	Hidden      bool

	// Box, when non-nil, attaches a mesh whose POSITION accessor spans the unit cube scaled by Box.
	Box *[3]float64
}

// Document renders nodes as a glTF 2.0 JSON document whose single scene lists roots.
func Document(roots []int, nodes ...Node) []byte {
	type accessor struct {
		ComponentType int       `json:"componentType"`
		Count         int       `json:"count"`
		Type          string    `json:"type"`
		Min           []float64 `json:"min"`
		Max           []float64 `json:"max"`
	}
	type primitive struct {
		Attributes map[string]int `json:"attributes"`
	}
	type mesh struct {
		Primitives []primitive `json:"primitives"`
	}

	var (
		outNodes  []map[string]any
		meshes    []mesh
		accessors []accessor
	)
	for _, n := range nodes {
		node := map[string]any{"name": n.Name}
		if n.Translation != ([3]float64{}) {
			node["translation"] = n.Translation
		}
		if n.Scale != ([3]float64{}) {
			node["scale"] = n.Scale
		}
		if len(n.Children) > 0 {
			node["children"] = n.Children
		}
		if n.Hidden {
			node["extras"] = map[string]any{"hidden": true}
		}
		if n.Box != nil {
			b := *n.Box
			accessors = append(accessors, accessor{
				ComponentType: 5126,
				Count:         8,
				Type:          "VEC3",
				Min:           []float64{-b[0] / 2, -b[1] / 2, -b[2] / 2},
				Max:           []float64{b[0] / 2, b[1] / 2, b[2] / 2},
			})
			meshes = append(meshes, mesh{Primitives: []primitive{{Attributes: map[string]int{"POSITION": len(accessors) - 1}}}})
			node["mesh"] = len(meshes) - 1
		}
		outNodes = append(outNodes, node)
	}

	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []map[string]any{{"nodes": roots}},
		"nodes":  outNodes,
	}
	if len(meshes) > 0 {
		doc["meshes"] = meshes
		doc["accessors"] = accessors
	}

	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

// BoxModel is a single-node exhibit whose bounds measure w x h x d.
func BoxModel(w, h, d float64) []byte {
	return Document([]int{0}, Node{Name: "Exhibit", Box: &[3]float64{w, h, d}})
}

// HallScene is a base scene with the hologram plate at (1, 2, 3), a screen, both buttons
// and a hidden decoy button.
func HallScene() []byte {
	return Document([]int{0},
		Node{Name: "Hall", Children: []int{1, 2, 3, 4, 5}},
		Node{Name: common.HologramPlateName, Translation: [3]float64{1, 2, 3}, Box: &[3]float64{2, 0.1, 2}},
		Node{Name: common.ScreenName, Translation: [3]float64{0, 3, 5}, Box: &[3]float64{4, 2, 0.1}},
		Node{Name: common.NextButtonName, Translation: [3]float64{1, 1, 0}},
		Node{Name: common.PrevButtonName, Translation: [3]float64{-1, 1, 0}},
		Node{Name: "Monitor", Hidden: true},
	)
}

// PNG encodes a solid w x h image.
func PNG(w, h int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// AddExhibit writes a full bundle for name under modelsDir into fsys.
func AddExhibit(fsys fstest.MapFS, modelsDir string, name common.ExhibitName, modelData, preview []byte, lighting string) {
	b := loader.BundleFor(modelsDir, name)
	if modelData != nil {
		fsys[b.Model] = &fstest.MapFile{Data: modelData}
	}
	if preview != nil {
		fsys[b.Preview] = &fstest.MapFile{Data: preview}
	}
	if lighting != "" {
		fsys[b.Lighting] = &fstest.MapFile{Data: []byte(lighting)}
	}
}
