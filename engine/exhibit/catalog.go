package exhibit

import (
	"fmt"

	"cogentcore.org/core/base/ordmap"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/loader"
)

// Catalog is the fixed, ordered list of exhibits. Insertion order is navigation order.
type Catalog struct {
	entries *ordmap.Map[common.ExhibitName, loader.Bundle]
}

// NewCatalog builds a catalog of exhibits stored under modelsDir.
//
// Parameters:
//   - modelsDir: the directory holding one folder per exhibit
//   - names: exhibit names in navigation order
//
// Returns:
//   - *Catalog: the catalog
//   - error: ErrEmptyCatalog or ErrDuplicateExhibit
func NewCatalog(modelsDir string, names ...common.ExhibitName) (*Catalog, error) {
	if len(names) == 0 {
		return nil, ErrEmptyCatalog
	}
	entries := ordmap.New[common.ExhibitName, loader.Bundle]()
	for _, name := range names {
		if _, dup := entries.IndexByKeyTry(name); dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateExhibit, name)
		}
		entries.Add(name, loader.BundleFor(modelsDir, name))
	}
	return &Catalog{entries: entries}, nil
}

// Len returns the number of exhibits.
func (c *Catalog) Len() int {
	return c.entries.Len()
}

// At returns the exhibit name at index i. i must be in [0, Len()).
func (c *Catalog) At(i int) common.ExhibitName {
	return c.entries.KeyByIndex(i)
}

// Index returns the position of name, or false if it is not in the catalog.
func (c *Catalog) Index(name common.ExhibitName) (int, bool) {
	return c.entries.IndexByKeyTry(name)
}

// Bundle returns the asset paths for name.
func (c *Catalog) Bundle(name common.ExhibitName) (loader.Bundle, error) {
	b, ok := c.entries.ValueByKeyTry(name)
	if !ok {
		return loader.Bundle{}, fmt.Errorf("%w: %q", ErrUnknownExhibit, name)
	}
	return b, nil
}

// Names returns every exhibit name in order.
func (c *Catalog) Names() []common.ExhibitName {
	return c.entries.Keys()
}
