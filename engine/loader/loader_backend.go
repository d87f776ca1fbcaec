package loader

import (
	"context"
	"fmt"
	"net/http"
)

// fetcherBackend defines the generic interface for reading asset bytes by relative path.
// Concrete implementations (httpFetcherBackend, fsFetcherBackend) handle transport details.
type fetcherBackend interface {
	// Fetch reads the asset at path.
	// A missing asset or a non-2xx response is reported as *TransportError.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//   - path: the asset path relative to the backend root
	//
	// Returns:
	//   - []byte: the asset contents
	//   - error: error if the asset cannot be read
	Fetch(ctx context.Context, path string) ([]byte, error)

	// Describe returns a human readable location for log lines.
	//
	// Returns:
	//   - string: the backend root
	Describe() string
}

// TransportError reports a fetch that completed with a failure status, or failed to complete.
type TransportError struct {
	// Path is the asset path that was requested.
	Path string

	// StatusCode is the HTTP status, or the closest equivalent for filesystem backends.
	// 0 means the request never produced a response.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("fetch %s: %d %s: %v", e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	default:
		return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
