package loader

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/Carmen-Shannon/oxy-exhibit/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRoot is an option builder that sets the asset root: a base URL for the HTTP
// backend or a directory for the filesystem backend.
//
// Parameters:
//   - root: the base URL or directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root option to a loader
func WithRoot(root string) LoaderBuilderOption {
	return func(l *loader) {
		l.root = root
	}
}

// WithHTTPClient is an option builder that sets the client used by the HTTP backend.
//
// Parameters:
//   - client: the HTTP client
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client option to a loader
func WithHTTPClient(client *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		l.httpClient = client
	}
}

// WithFS is an option builder that reads assets from fsys instead of a directory on disk.
// It selects the filesystem backend regardless of the backend type passed to NewLoader.
//
// Parameters:
//   - fsys: the filesystem holding the assets
//
// Returns:
//   - LoaderBuilderOption: a function that applies the filesystem option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.backend = newFSFetcherBackend(fsys, "fs")
	}
}

// WithFetchTimeout is an option builder that bounds each fetch. 0 disables the bound.
//
// Parameters:
//   - d: the per-fetch timeout
//
// Returns:
//   - LoaderBuilderOption: a function that applies the timeout option to a loader
func WithFetchTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		l.fetchTimeout = d
	}
}

// WithPreviewBorder is an option builder that sets the black outline width added around previews.
//
// Parameters:
//   - px: outline width in pixels on each side
//
// Returns:
//   - LoaderBuilderOption: a function that applies the border option to a loader
func WithPreviewBorder(px int) LoaderBuilderOption {
	return func(l *loader) {
		l.borderPx = px
	}
}

// WithPreviewMaxSize is an option builder that sets the largest preview side kept before downscaling.
//
// Parameters:
//   - px: maximum width or height, 0 to keep previews at full size
//
// Returns:
//   - LoaderBuilderOption: a function that applies the size option to a loader
func WithPreviewMaxSize(px int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxPreview = px
	}
}

// WithLogger is an option builder that sets the logger for fetch diagnostics.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
