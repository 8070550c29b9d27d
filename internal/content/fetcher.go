package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

// Fetcher retrieves the raw text stored at a resource path.
type Fetcher interface {
	Fetch(ctx context.Context, resourcePath string) (string, error)
}

// ResolvePath builds {basePath}/posts/{category}/{filename}. The base path
// may be given with or without leading and trailing slashes.
func ResolvePath(basePath, category, filename string) string {
	return path.Join("/", basePath, "posts", category, filename)
}

// HTTPFetcher fetches resources from an HTTP origin
type HTTPFetcher struct {
	origin     string
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher for origin (scheme and host, e.g.
// http://localhost:6893). A zero timeout defaults to 30 seconds.
func NewHTTPFetcher(origin string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		origin: strings.TrimRight(origin, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch GETs origin+resourcePath and returns the body verbatim. A non-2xx
// response yields a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, resourcePath string) (string, error) {
	url := f.origin + resourcePath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Path: resourcePath, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return string(body), nil
}
