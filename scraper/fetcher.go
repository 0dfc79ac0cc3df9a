package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"habitat_watch/config"
	"habitat_watch/httputil"
)

// Fetcher retrieves the markup of one page. The HTTP implementation
// covers the current site; the browser implementation is available for
// the day the reservation widget moves behind client-side rendering.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

func NewFetcher(cfg *config.SourceConfig, clients *httputil.Clients) (Fetcher, error) {
	switch cfg.Fetcher {
	case "", "http":
		return NewHTTPFetcher(cfg, clients), nil
	case "browser":
		return NewBrowserFetcher(cfg)
	default:
		return nil, fmt.Errorf("unknown fetcher kind: %s", cfg.Fetcher)
	}
}

type HTTPFetcher struct {
	cfg     *config.SourceConfig
	clients *httputil.Clients
}

func NewHTTPFetcher(cfg *config.SourceConfig, clients *httputil.Clients) *HTTPFetcher {
	return &HTTPFetcher{cfg: cfg, clients: clients}
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	httputil.ApplyHeaders(req, f.cfg.Headers)

	resp, err := f.clients.Scraping.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}
