package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"habitat_watch/config"
)

// ResolveFragmentURL fetches a residence detail page and locates the
// reservation iframe. A missing iframe is not an error: the residence
// simply has no reservation widget this run and is reported as such.
// Relative iframe sources are absolutized against the fragment host.
func ResolveFragmentURL(ctx context.Context, f Fetcher, cfg *config.SourceConfig, residenceID string) (string, error) {
	html, err := f.FetchPage(ctx, cfg.ResidenceURL(residenceID))
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", nil
	}

	src, ok := doc.Find("iframe.reservation").First().Attr("src")
	if !ok || src == "" {
		return "", nil
	}

	if !strings.HasPrefix(src, "http") {
		src = cfg.FragmentHost + src
	}
	return src, nil
}
