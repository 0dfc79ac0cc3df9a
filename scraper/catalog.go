package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"habitat_watch/config"
	"habitat_watch/httputil"
	"habitat_watch/models"
)

// CatalogEntry is one raw record from the residence catalog endpoint.
// The title lives under alternate keys depending on the entry.
type CatalogEntry struct {
	Titre   string `json:"titre"`
	TitreFR string `json:"titre_fr"`
	Ville   string `json:"ville"`
	CP      string `json:"cp"`
	Adresse string `json:"adresse"`
}

func (e CatalogEntry) Title() string {
	if e.Titre != "" {
		return e.Titre
	}
	return e.TitreFR
}

// ExcludeFunc reports whether a catalog entry should be dropped from
// the directory. The zero filter keeps everything.
type ExcludeFunc func(CatalogEntry) bool

func NoExclusion(CatalogEntry) bool { return false }

// BrandExclusion drops entries whose title contains the given substring,
// case-insensitive. The two historical run modes of the watcher disagree
// on whether this applies, so it is opt-in via config.
func BrandExclusion(substring string) ExcludeFunc {
	lower := strings.ToLower(substring)
	return func(e CatalogEntry) bool {
		return strings.Contains(strings.ToLower(e.Title()), lower)
	}
}

// ExcludeFilter resolves the configured filter name.
func ExcludeFilter(cfg *config.SourceConfig) ExcludeFunc {
	if cfg.ExcludeFilter == "brand" && cfg.BrandSubstring != "" {
		return BrandExclusion(cfg.BrandSubstring)
	}
	return NoExclusion
}

type CatalogClient struct {
	cfg     *config.SourceConfig
	clients *httputil.Clients
}

func NewCatalogClient(cfg *config.SourceConfig, clients *httputil.Clients) *CatalogClient {
	return &CatalogClient{cfg: cfg, clients: clients}
}

// Fetch downloads the full residence catalog keyed by residence id.
func (c *CatalogClient) Fetch(ctx context.Context) (map[string]CatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.cfg.CatalogURL(), nil)
	if err != nil {
		return nil, err
	}
	httputil.ApplyHeaders(req, c.cfg.Headers)

	resp, err := c.clients.Scraping.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var catalog map[string]CatalogEntry
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return catalog, nil
}

// FilterDirectory selects residences whose postal code starts with one
// of the configured prefixes, applies the exclusion filter and returns
// them sorted by (postal code, name). Entries without a postal code are
// treated as non-matching, not as errors.
func FilterDirectory(catalog map[string]CatalogEntry, prefixes []string, exclude ExcludeFunc) []models.Residence {
	if exclude == nil {
		exclude = NoExclusion
	}

	var residences []models.Residence
	for id, entry := range catalog {
		if entry.CP == "" || !hasAnyPrefix(entry.CP, prefixes) {
			continue
		}
		if exclude(entry) {
			continue
		}

		name := entry.Title()
		if name == "" {
			name = "Résidence " + id
		}
		city := entry.Ville
		if city == "" {
			city = "?"
		}

		residences = append(residences, models.Residence{
			ID:         id,
			Name:       name,
			City:       city,
			PostalCode: entry.CP,
		})
	}

	sort.Slice(residences, func(i, j int) bool {
		if residences[i].PostalCode != residences[j].PostalCode {
			return residences[i].PostalCode < residences[j].PostalCode
		}
		return residences[i].Name < residences[j].Name
	})

	return residences
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
