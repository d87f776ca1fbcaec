package exhibit

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-exhibit/common"
)

var (
	// ErrEmptyCatalog is returned when a catalog is built without entries.
	ErrEmptyCatalog = errors.New("exhibit: catalog is empty")

	// ErrDuplicateExhibit is returned when a catalog lists the same name twice.
	ErrDuplicateExhibit = errors.New("exhibit: duplicate exhibit name")

	// ErrUnknownExhibit is returned when a name is not in the catalog.
	ErrUnknownExhibit = errors.New("exhibit: unknown exhibit")

	// ErrControllerClosed is returned by operations on a closed controller.
	ErrControllerClosed = errors.New("exhibit: controller closed")

	// errStaleResponse marks a completion superseded by a newer request. It is never returned to callers.
	errStaleResponse = errors.New("exhibit: stale response")
)

// NonFatalLoadError reports a part of an exhibit that failed to load without aborting the swap.
type NonFatalLoadError struct {
	Exhibit common.ExhibitName
	Part    string
	Err     error
}

func (e *NonFatalLoadError) Error() string {
	return fmt.Sprintf("exhibit %s: %s not loaded: %v", e.Exhibit, e.Part, e.Err)
}

func (e *NonFatalLoadError) Unwrap() error {
	return e.Err
}
