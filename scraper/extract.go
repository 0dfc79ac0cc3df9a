package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"habitat_watch/models"
)

// FallbackMode controls how complete the raw-markup fallback cascade is.
// The reduced mode stops at request-open, matching the behavior of the
// static-page run mode of the original site watcher.
type FallbackMode string

const (
	FallbackFull    FallbackMode = "full"
	FallbackReduced FallbackMode = "reduced"
)

var (
	unitTypeRe  = regexp.MustCompile(`^T\d`)
	immediateRe = regexp.MustCompile(`(?i)disponibilit[eé]\s*imm[eé]diate`)
	noneRe      = regexp.MustCompile(`(?i)aucune\s*disponibilit[eé]`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Extract parses a reservation fragment into unit records. It is total:
// malformed rows are skipped and parse failures degrade to the raw
// fallback below, so it always returns a (possibly empty) slice.
func Extract(html string, mode FallbackMode) []models.UnitRecord {
	var units []models.UnitRecord

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cols := row.Find("td")
			if cols.Length() < 2 {
				return
			}

			// Row gate: only rows whose first cell looks like a unit
			// type label (T1, T2 Bis, ...) are unit rows. Headers, ads
			// and spacer rows fail the gate and are skipped silently.
			unitType := collapse(cols.First().Text())
			if !unitTypeRe.MatchString(unitType) {
				return
			}

			rent := collapse(cols.Eq(1).Text())
			surface := ""
			if cols.Length() > 2 {
				surface = collapse(cols.Eq(2).Text())
			}

			last := cols.Eq(cols.Length() - 1)
			lastText := collapse(last.Text())

			sig := Signals{
				HasReserveButton: last.Find("a.btn_reserver").Length() > 0,
				HasImmediateText: immediateRe.MatchString(lastText),
				IsGreenBadge:     last.Find("span.dispo.green").Length() > 0,
				HasNoneText:      noneRe.MatchString(lastText),
			}

			units = append(units, models.UnitRecord{
				UnitType: unitType,
				Rent:     rent,
				Surface:  surface,
				Status:   Classify(sig),
			})
		})
	}

	if len(units) == 0 {
		return extractFallback(html, mode)
	}
	return units
}

// extractFallback scans the whole raw markup when no tabular rows were
// found, synthesizing at most one record with unitType "?". At this
// granularity there is no single cell to inspect, so badge and
// immediate-span signals collapse into plain text checks.
func extractFallback(html string, mode FallbackMode) []models.UnitRecord {
	lower := strings.ToLower(html)

	hasButton := strings.Contains(lower, "poser une demande") || strings.Contains(html, "btn_reserver")
	hasImmediate := strings.Contains(html, "immédiate") || strings.Contains(html, "imm&eacute;diate")
	hasNone := strings.Contains(lower, "aucune disponibilit")

	var status models.Status
	switch {
	case hasImmediate:
		status = models.StatusImmediate
	case hasButton && !hasNone:
		status = models.StatusRequestOpen
	case hasButton && mode == FallbackFull:
		status = models.StatusRequestPossible
	default:
		return nil
	}

	return []models.UnitRecord{{UnitType: "?", Status: status}}
}
