package httputil

import (
	"net/http"
	"time"
)

type Clients struct {
	Scraping *http.Client // target site: catalog, residence pages, fragments
	API      *http.Client // outbound APIs: Telegram, S3-compatible endpoints
}

// NewClients builds the two HTTP clients. Every scraping fetch carries
// the timeout so one unresponsive residence cannot stall a run.
func NewClients(fetchTimeout time.Duration) *Clients {
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}

	return &Clients{
		Scraping: &http.Client{Timeout: fetchTimeout},
		API:      &http.Client{Timeout: 10 * time.Second},
	}
}

// ApplyHeaders sets the configured request headers (User-Agent,
// Accept-Language) on an outgoing scraping request.
func ApplyHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
