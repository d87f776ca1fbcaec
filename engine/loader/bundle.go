package loader

import (
	"path"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
)

// Bundle file names inside an exhibit directory.
const (
	ModelFile    = "model.glb"
	PreviewFile  = "render.png"
	LightingFile = "light_info.csv"
)

// Bundle is the set of asset paths making up one exhibit.
type Bundle struct {
	Name     common.ExhibitName
	Model    string
	Preview  string
	Lighting string
}

// BundleFor returns the asset paths for an exhibit stored under modelsDir.
//
// Parameters:
//   - modelsDir: the directory holding one folder per exhibit
//   - name: the exhibit name
//
// Returns:
//   - Bundle: model, preview and lighting paths
func BundleFor(modelsDir string, name common.ExhibitName) Bundle {
	dir := path.Join(modelsDir, name.String())
	return Bundle{
		Name:     name,
		Model:    path.Join(dir, ModelFile),
		Preview:  path.Join(dir, PreviewFile),
		Lighting: path.Join(dir, LightingFile),
	}
}
