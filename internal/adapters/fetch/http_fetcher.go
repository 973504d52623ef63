package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxAssetSize = 64 << 20 // 64 MiB, well above any of the site's PDFs

// HTTPFetcher retrieves whole remote resources over HTTP. It is the
// "remote asset source" behind the cache's fallback-populate path.
type HTTPFetcher struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*HTTPFetcher)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.httpClient = httpClient
	}
}

func NewHTTPFetcher(baseURL string, opts ...Option) (*HTTPFetcher, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("fetch: base URL must not be empty")
	}

	f := &HTTPFetcher{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch downloads the resource at path relative to the base URL and
// returns its bytes, or an error on any non-2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := f.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: create request: %w", err)
	}

	res, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", url, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch: %s: unexpected status %d", url, res.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s: %w", url, err)
	}
	return data, nil
}

// NoRemote is an AssetFetcher with no upstream configured: every fetch
// fails, so only uploaded assets can be served.
type NoRemote struct{}

func (NoRemote) Fetch(_ context.Context, path string) ([]byte, error) {
	return nil, fmt.Errorf("fetch: no remote source configured for %s", path)
}
