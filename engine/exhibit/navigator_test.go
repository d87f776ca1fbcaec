package exhibit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
	"github.com/Carmen-Shannon/oxy-exhibit/engine/exhibit"
)

type recordingRequester struct {
	requests []common.ExhibitName
}

func (r *recordingRequester) Request(name common.ExhibitName) exhibit.Token {
	r.requests = append(r.requests, name)
	return exhibit.Token(len(r.requests))
}

func newNavigator(t *testing.T, names ...common.ExhibitName) (*exhibit.Navigator, *recordingRequester) {
	t.Helper()
	catalog, err := exhibit.NewCatalog(modelsDir, names...)
	require.NoError(t, err)
	r := &recordingRequester{}
	return exhibit.NewNavigator(catalog, r), r
}

func TestNavigatorWrapsForward(t *testing.T) {
	nav, r := newNavigator(t, "a", "b", "c")

	for range 3 {
		nav.Advance()
	}
	assert.Equal(t, 0, nav.Cursor())
	assert.Equal(t, []common.ExhibitName{"b", "c", "a"}, r.requests)
}

func TestNavigatorWrapsBackward(t *testing.T) {
	nav, r := newNavigator(t, "a", "b", "c")

	nav.Retreat()
	assert.Equal(t, 2, nav.Cursor())
	assert.Equal(t, common.ExhibitName("c"), nav.Current())

	nav.Retreat()
	nav.Retreat()
	assert.Equal(t, 0, nav.Cursor())
	assert.Equal(t, []common.ExhibitName{"c", "b", "a"}, r.requests)
}

func TestNavigatorSingleEntry(t *testing.T) {
	nav, r := newNavigator(t, "only")

	nav.Advance()
	nav.Retreat()
	assert.Equal(t, 0, nav.Cursor())
	assert.Equal(t, []common.ExhibitName{"only", "only"}, r.requests)
}

func TestNavigatorSelect(t *testing.T) {
	nav, r := newNavigator(t, "a", "b", "c")

	token, err := nav.Select("c")
	require.NoError(t, err)
	assert.Equal(t, exhibit.Token(1), token)
	assert.Equal(t, 2, nav.Cursor())

	_, err = nav.Select("zeta")
	assert.ErrorIs(t, err, exhibit.ErrUnknownExhibit)
	assert.Equal(t, 2, nav.Cursor())

	nav.Reload()
	assert.Equal(t, []common.ExhibitName{"c", "c"}, r.requests)
}

func TestCatalog(t *testing.T) {
	_, err := exhibit.NewCatalog(modelsDir)
	assert.ErrorIs(t, err, exhibit.ErrEmptyCatalog)

	_, err = exhibit.NewCatalog(modelsDir, "a", "b", "a")
	assert.ErrorIs(t, err, exhibit.ErrDuplicateExhibit)

	c, err := exhibit.NewCatalog(modelsDir, "bunker", "chr_knight")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, common.ExhibitName("chr_knight"), c.At(1))
	assert.Equal(t, []common.ExhibitName{"bunker", "chr_knight"}, c.Names())

	idx, ok := c.Index("chr_knight")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	b, err := c.Bundle("bunker")
	require.NoError(t, err)
	assert.Equal(t, "models/bunker/model.glb", b.Model)
	assert.Equal(t, "models/bunker/render.png", b.Preview)
	assert.Equal(t, "models/bunker/light_info.csv", b.Lighting)

	_, err = c.Bundle("nope")
	assert.ErrorIs(t, err, exhibit.ErrUnknownExhibit)
}
