package exhibit

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
)

// Requester starts loading an exhibit. Controller implements it.
type Requester interface {
	Request(name common.ExhibitName) Token
}

// Navigator is a cyclic cursor over a catalog. Every move requests a swap for the
// exhibit under the new cursor; the cursor itself is owned by the navigator alone.
type Navigator struct {
	mu        sync.Mutex
	catalog   *Catalog
	cursor    int
	requester Requester
}

// NewNavigator creates a navigator positioned at the first catalog entry.
// It does not request anything until a move or Select.
//
// Parameters:
//   - catalog: a non-empty catalog
//   - requester: receives a request for every move
//
// Returns:
//   - *Navigator: the navigator
func NewNavigator(catalog *Catalog, requester Requester) *Navigator {
	return &Navigator{catalog: catalog, requester: requester}
}

// Cursor returns the current index.
func (n *Navigator) Cursor() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cursor
}

// Current returns the exhibit under the cursor.
func (n *Navigator) Current() common.ExhibitName {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.catalog.At(n.cursor)
}

// Advance moves the cursor to (cursor+1) mod N and requests that exhibit.
func (n *Navigator) Advance() Token {
	return n.move(1)
}

// Retreat moves the cursor to (cursor-1+N) mod N and requests that exhibit.
func (n *Navigator) Retreat() Token {
	return n.move(-1)
}

// Reload requests the exhibit under the cursor without moving.
func (n *Navigator) Reload() Token {
	return n.move(0)
}

// Select jumps to name and requests it.
//
// Parameters:
//   - name: an exhibit in the catalog
//
// Returns:
//   - Token: the request token
//   - error: ErrUnknownExhibit if name is not in the catalog
func (n *Navigator) Select(name common.ExhibitName) (Token, error) {
	idx, ok := n.catalog.Index(name)
	if !ok {
		_, err := n.catalog.Bundle(name)
		return 0, err
	}
	n.mu.Lock()
	n.cursor = idx
	n.mu.Unlock()
	return n.requester.Request(name), nil
}

func (n *Navigator) move(step int) Token {
	n.mu.Lock()
	size := n.catalog.Len()
	n.cursor = ((n.cursor+step)%size + size) % size
	name := n.catalog.At(n.cursor)
	n.mu.Unlock()
	return n.requester.Request(name)
}
