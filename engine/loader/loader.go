package loader

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-exhibit/engine/model"
)

// LoaderBackendType identifies the transport used to fetch assets.
type LoaderBackendType int

const (
	// BackendTypeHTTP fetches assets with GET requests relative to a base URL.
	BackendTypeHTTP LoaderBackendType = iota

	// BackendTypeFS reads assets from an fs.FS (a local directory by default).
	BackendTypeFS
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend fetcherBackend
	gltf    gltfLoaderBackend

	root         string
	httpClient   *http.Client
	fetchTimeout time.Duration
	borderPx     int
	maxPreview   int
	logger       *slog.Logger
}

// Loader defines the public-facing interface for fetching exhibit assets.
// It abstracts the transport (HTTP or filesystem) behind a backend and keeps a cache
// of decoded models so revisiting an exhibit does not refetch its geometry.
// A Loader is safe for concurrent use.
type Loader interface {
	// Fetch reads raw asset bytes.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//   - path: the asset path relative to the asset root
	//
	// Returns:
	//   - []byte: the asset contents
	//   - error: a *TransportError if the asset cannot be read
	Fetch(ctx context.Context, path string) ([]byte, error)

	// LoadText fetches an asset and returns it as a string.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//   - path: the asset path
	//
	// Returns:
	//   - string: the asset contents
	//   - error: a *TransportError if the asset cannot be read
	LoadText(ctx context.Context, path string) (string, error)

	// LoadModel fetches and decodes a glTF/GLB model, caching the result by path.
	// If the model is already cached, the cached version is returned without fetching.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//   - path: the model path (.glb or .gltf)
	//
	// Returns:
	//   - model.Model: the decoded model
	//   - error: error if fetching or decoding fails
	LoadModel(ctx context.Context, path string) (model.Model, error)

	// LoadPreview fetches a preview render, fits it within the configured maximum size
	// and surrounds it with the configured black outline.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//   - path: the image path
	//
	// Returns:
	//   - *image.RGBA: the screen-ready texture
	//   - error: error if fetching or decoding fails
	LoadPreview(ctx context.Context, path string) (*image.RGBA, error)

	// Get retrieves a cached model by path. Returns nil if not found.
	//
	// Parameters:
	//   - path: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(path string) model.Model

	// Evict drops a model from the cache so it can be collected once nothing else holds it.
	// Evicting a path that is not cached is a no-op.
	//
	// Parameters:
	//   - path: the cache key to remove
	Evict(path string)

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by path
	Models() map[string]model.Model

	// Root describes where assets are read from.
	//
	// Returns:
	//   - string: the base URL or directory
	Root() string
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
// BackendTypeHTTP uses WithRoot as the base URL; BackendTypeFS opens WithRoot as a directory
// unless WithFS supplies a filesystem.
//
// Parameters:
//   - backendType: the transport to use
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		modelCache: make(map[string]model.Model),
		gltf:       newGLTFLoaderBackend(),
		root:       ".",
		borderPx:   3,
		maxPreview: 2048,
		logger:     slog.Default(),
	}

	for _, option := range options {
		option(l)
	}

	if l.backend == nil {
		switch backendType {
		case BackendTypeHTTP:
			l.backend = newHTTPFetcherBackend(l.root, l.httpClient)
		case BackendTypeFS:
			l.backend = newFSFetcherBackend(os.DirFS(l.root), l.root)
		}
	}
	return l
}

// NewLoaderForRoot picks the HTTP backend for http(s) roots and the filesystem backend otherwise.
//
// Parameters:
//   - root: a base URL or a directory
//   - options: additional LoaderBuilderOption functions
//
// Returns:
//   - Loader: the configured Loader
func NewLoaderForRoot(root string, options ...LoaderBuilderOption) Loader {
	backendType := BackendTypeFS
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		backendType = BackendTypeHTTP
	}
	return NewLoader(backendType, append([]LoaderBuilderOption{WithRoot(root)}, options...)...)
}

func (l *loader) Fetch(ctx context.Context, path string) ([]byte, error) {
	if l.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	data, err := l.backend.Fetch(ctx, path)
	if err != nil {
		l.logger.Debug("fetch failed", "path", path, "root", l.backend.Describe(), "error", err)
		return nil, err
	}
	l.logger.Debug("fetched", "path", path, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}

func (l *loader) LoadText(ctx context.Context, path string) (string, error) {
	data, err := l.Fetch(ctx, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (l *loader) LoadModel(ctx context.Context, path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if err := checkModelExt(path); err != nil {
		return nil, err
	}

	data, err := l.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	m, err := l.gltf.Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadPreview(ctx context.Context, path string) (*image.RGBA, error) {
	data, err := l.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	img, format, err := DecodePreview(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	l.logger.Debug("preview decoded", "path", path, "format", format, "size", img.Bounds().Size())

	return AddBorder(FitWithin(img, l.maxPreview), l.borderPx), nil
}

func (l *loader) Get(path string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[path]
}

func (l *loader) Evict(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.modelCache[path]; ok {
		delete(l.modelCache, path)
		l.logger.Debug("model evicted", "path", path)
	}
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) Root() string {
	return l.backend.Describe()
}

// checkModelExt rejects paths that are not glTF or GLB files.
func checkModelExt(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return nil
	default:
		return fmt.Errorf("unsupported model format: %s", ext)
	}
}
