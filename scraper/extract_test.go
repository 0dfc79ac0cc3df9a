package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"habitat_watch/models"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func TestExtract_Table(t *testing.T) {
	units := Extract(loadFixture(t, "fragment_table.html"), FallbackFull)

	if len(units) != 4 {
		t.Fatalf("expected 4 units, got %d", len(units))
	}

	if units[0].UnitType != "T1" {
		t.Fatalf("expected unit type T1, got %s", units[0].UnitType)
	}
	if units[0].Rent != "605 € / mois" {
		t.Fatalf("unexpected rent %q", units[0].Rent)
	}
	if units[0].Surface != "18 m²" {
		t.Fatalf("unexpected surface %q", units[0].Surface)
	}
	if units[0].Status != models.StatusImmediate {
		t.Fatalf("T1: expected immediate, got %v", units[0].Status)
	}

	if units[1].UnitType != "T1 Bis" {
		t.Fatalf("expected unit type T1 Bis, got %s", units[1].UnitType)
	}
	if units[1].Status != models.StatusRequestPossible {
		t.Fatalf("T1 Bis: expected request possible, got %v", units[1].Status)
	}

	if units[2].UnitType != "T2" {
		t.Fatalf("expected unit type T2, got %s", units[2].UnitType)
	}
	if units[2].Status != models.StatusRequestOpen {
		t.Fatalf("T2: expected request open, got %v", units[2].Status)
	}

	if units[3].UnitType != "T3" {
		t.Fatalf("expected unit type T3, got %s", units[3].UnitType)
	}
	if units[3].Status != models.StatusUnavailable {
		t.Fatalf("T3: expected unavailable, got %v", units[3].Status)
	}
}

func TestExtract_RowGate(t *testing.T) {
	cases := []struct {
		label    string
		accepted bool
	}{
		{"T1", true},
		{"T2 Bis", true},
		{"Studio", false},
		{"T", false},
		{"Type", false},
	}

	for _, tc := range cases {
		html := `<table><tr><td>` + tc.label + `</td><td>500 €</td><td>20 m²</td><td><a class="btn_reserver" href="#">Réserver</a></td></tr></table>`
		units := Extract(html, FallbackReduced)
		// The reserve button in the cell means the fallback would also
		// produce a record if the gate rejected the row, so assert on
		// the unit type to tell the two paths apart.
		if tc.accepted {
			if len(units) != 1 || units[0].UnitType != tc.label {
				t.Fatalf("%s: expected accepted row, got %+v", tc.label, units)
			}
		} else {
			if len(units) == 1 && units[0].UnitType == tc.label {
				t.Fatalf("%s: row should have been rejected", tc.label)
			}
		}
	}
}

func TestExtract_MissingCells(t *testing.T) {
	html := `<table><tr><td>T2</td><td>700 €</td></tr></table>`
	units := Extract(html, FallbackReduced)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if units[0].Surface != "" {
		t.Fatalf("expected empty surface, got %q", units[0].Surface)
	}
	// The rent cell doubles as the last cell here; no signals in it.
	if units[0].Status != models.StatusUnavailable {
		t.Fatalf("expected unavailable, got %v", units[0].Status)
	}
}

func TestExtract_FallbackImmediate(t *testing.T) {
	units := Extract(loadFixture(t, "fragment_fallback_immediate.html"), FallbackFull)
	if len(units) != 1 {
		t.Fatalf("expected exactly 1 synthetic unit, got %d", len(units))
	}
	if units[0].UnitType != "?" {
		t.Fatalf("expected unit type ?, got %s", units[0].UnitType)
	}
	if units[0].Rent != "" || units[0].Surface != "" {
		t.Fatalf("synthetic unit should have empty rent/surface")
	}
	if units[0].Status != models.StatusImmediate {
		t.Fatalf("expected immediate, got %v", units[0].Status)
	}
}

func TestExtract_FallbackRequestOpen(t *testing.T) {
	units := Extract(loadFixture(t, "fragment_fallback_request.html"), FallbackFull)
	if len(units) != 1 {
		t.Fatalf("expected 1 synthetic unit, got %d", len(units))
	}
	if units[0].Status != models.StatusRequestOpen {
		t.Fatalf("expected request open, got %v", units[0].Status)
	}
}

func TestExtract_FallbackModes(t *testing.T) {
	// Button plus "aucune disponibilité": only the full fallback keeps
	// the request-possible branch.
	html := loadFixture(t, "fragment_fallback_caveat.html")

	full := Extract(html, FallbackFull)
	if len(full) != 1 || full[0].Status != models.StatusRequestPossible {
		t.Fatalf("full fallback: expected request possible, got %+v", full)
	}

	reduced := Extract(html, FallbackReduced)
	if len(reduced) != 0 {
		t.Fatalf("reduced fallback: expected no units, got %+v", reduced)
	}
}

func TestExtract_NoMarkers(t *testing.T) {
	units := Extract(loadFixture(t, "fragment_empty.html"), FallbackFull)
	if len(units) != 0 {
		t.Fatalf("expected no units, got %+v", units)
	}
}
