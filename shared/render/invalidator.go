// Package render talks to the rendering frontend that serves the blog.
package render

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AquilaXk/aquila-log/blog/domain"
)

const defaultTimeout = 10 * time.Second

// HTTPInvalidator purges one rendered path at a time by calling the
// frontend's revalidation hook.
type HTTPInvalidator struct {
	httpClient *http.Client
	baseURL    string
}

var _ domain.PathInvalidator = (*HTTPInvalidator)(nil)

// NewHTTPInvalidator creates an invalidator against the frontend at baseURL.
// httpClient may be nil, in which case a default client with a request
// timeout is used.
func NewHTTPInvalidator(httpClient *http.Client, baseURL string) *HTTPInvalidator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPInvalidator{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

func (i *HTTPInvalidator) Invalidate(ctx context.Context, path string) error {
	target := i.baseURL + "/_revalidate?path=" + url.QueryEscape(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return fmt.Errorf("creating invalidation request for %s: %w", path, err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invalidating %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("invalidating %s: frontend returned status %d", path, resp.StatusCode)
	}
	return nil
}

// LogInvalidator only records invalidations. It stands in when no frontend
// URL is configured, e.g. in development.
type LogInvalidator struct{}

var _ domain.PathInvalidator = LogInvalidator{}

func (LogInvalidator) Invalidate(_ context.Context, path string) error {
	log.Info().Str("path", path).Msg("Would invalidate path")
	return nil
}
