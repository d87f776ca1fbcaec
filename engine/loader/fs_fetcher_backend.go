package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// fsFetcherBackendImpl is the implementation of fsFetcherBackend.
type fsFetcherBackendImpl struct {
	fsys fs.FS
	name string
}

// fsFetcherBackend is a fetcherBackend that reads assets from an fs.FS,
// mapping filesystem failures onto HTTP-like status codes.
type fsFetcherBackend interface {
	fetcherBackend
}

var _ fsFetcherBackend = &fsFetcherBackendImpl{}

// newFSFetcherBackend creates a fetcher over fsys.
//
// Parameters:
//   - fsys: the filesystem holding the assets
//   - name: a label for logs, usually the directory the fs was opened on
//
// Returns:
//   - fsFetcherBackend: the fetcher
func newFSFetcherBackend(fsys fs.FS, name string) fsFetcherBackend {
	return &fsFetcherBackendImpl{fsys: fsys, name: name}
}

func (b *fsFetcherBackendImpl) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Path: p, Err: err}
	}

	clean := path.Clean(strings.TrimPrefix(p, "/"))
	if !fs.ValidPath(clean) {
		return nil, &TransportError{Path: p, StatusCode: http.StatusBadRequest, Err: fs.ErrInvalid}
	}

	data, err := fs.ReadFile(b.fsys, clean)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, &TransportError{Path: p, StatusCode: http.StatusNotFound, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return nil, &TransportError{Path: p, StatusCode: http.StatusForbidden, Err: err}
	default:
		return nil, &TransportError{Path: p, Err: err}
	}
}

func (b *fsFetcherBackendImpl) Describe() string {
	return b.name
}
