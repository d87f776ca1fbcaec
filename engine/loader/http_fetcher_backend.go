package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// httpFetcherBackendImpl is the implementation of httpFetcherBackend.
type httpFetcherBackendImpl struct {
	baseURL string
	client  *http.Client
}

// httpFetcherBackend is a fetcherBackend that GETs assets relative to a base URL.
type httpFetcherBackend interface {
	fetcherBackend
}

var _ httpFetcherBackend = &httpFetcherBackendImpl{}

// newHTTPFetcherBackend creates a fetcher rooted at baseURL.
//
// Parameters:
//   - baseURL: the asset root, e.g. https://example.com/public
//   - client: the HTTP client to use; http.DefaultClient when nil
//
// Returns:
//   - httpFetcherBackend: the fetcher
func newHTTPFetcherBackend(baseURL string, client *http.Client) httpFetcherBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpFetcherBackendImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (b *httpFetcherBackendImpl) Fetch(ctx context.Context, path string) ([]byte, error) {
	target, err := url.JoinPath(b.baseURL, path)
	if err != nil {
		return nil, &TransportError{Path: path, Err: fmt.Errorf("join url: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{Path: path, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

func (b *httpFetcherBackendImpl) Describe() string {
	return b.baseURL
}
