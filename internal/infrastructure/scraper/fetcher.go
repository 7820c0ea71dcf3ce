package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shophub/backend/internal/domain"
)

const (
	fetchTimeout = 20 * time.Second

	// Browser-like identity; several retailers serve stripped-down or empty
	// markup to obvious bot user agents.
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.9"

	// maxPageBytes caps how much of a page body is read.
	maxPageBytes = 10 << 20
)

// Fetcher performs the single blocking GET of the import path. Redirects are
// followed; the final resolved URL becomes the catalog's canonical source URL.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a page fetcher with the import timeout applied.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
	}
}

// Fetch issues one GET against url and returns the redirect-resolved final
// URL and the body text. Any network failure or non-2xx status is a terminal
// ErrFetchFailed; there is no retry.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", "", fmt.Errorf("%w: read body: %v", domain.ErrFetchFailed, err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return finalURL, string(body), nil
}
