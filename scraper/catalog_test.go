package scraper

import (
	"testing"

	"habitat_watch/config"
	"habitat_watch/models"
)

var idfPrefixes = []string{"75", "77", "78", "91", "92", "93", "94", "95"}

func TestFilterDirectory_PrefixMatch(t *testing.T) {
	catalog := map[string]CatalogEntry{
		"1": {CP: "75001", Titre: "A"},
		"2": {CP: "69001", Titre: "B"},
	}

	residences := FilterDirectory(catalog, idfPrefixes, nil)
	if len(residences) != 1 {
		t.Fatalf("expected 1 residence, got %d", len(residences))
	}
	if residences[0].ID != "1" {
		t.Fatalf("expected residence 1, got %s", residences[0].ID)
	}
}

func TestFilterDirectory_MissingPostalCode(t *testing.T) {
	catalog := map[string]CatalogEntry{
		"1": {Titre: "No postal code"},
		"2": {CP: "92100", Titre: "Kept"},
	}

	residences := FilterDirectory(catalog, idfPrefixes, nil)
	if len(residences) != 1 || residences[0].ID != "2" {
		t.Fatalf("malformed entry should be skipped, got %+v", residences)
	}
}

func TestFilterDirectory_Sorting(t *testing.T) {
	catalog := map[string]CatalogEntry{
		"1": {CP: "94200", Titre: "Zola"},
		"2": {CP: "75012", Titre: "Bercy"},
		"3": {CP: "94200", Titre: "Anatole"},
	}

	residences := FilterDirectory(catalog, idfPrefixes, nil)
	want := []string{"2", "3", "1"}
	if len(residences) != 3 {
		t.Fatalf("expected 3 residences, got %d", len(residences))
	}
	for i, id := range want {
		if residences[i].ID != id {
			t.Fatalf("position %d: expected id %s, got %s", i, id, residences[i].ID)
		}
	}
}

func TestFilterDirectory_BrandExclusion(t *testing.T) {
	catalog := map[string]CatalogEntry{
		"1": {CP: "75001", Titre: "Résidence LOGIFAC Centre"},
		"2": {CP: "75002", Titre: "Résidence Autre"},
	}

	kept := FilterDirectory(catalog, idfPrefixes, NoExclusion)
	if len(kept) != 2 {
		t.Fatalf("no exclusion: expected 2, got %d", len(kept))
	}

	filtered := FilterDirectory(catalog, idfPrefixes, BrandExclusion("logifac"))
	if len(filtered) != 1 || filtered[0].ID != "2" {
		t.Fatalf("brand exclusion: expected only id 2, got %+v", filtered)
	}
}

func TestFilterDirectory_TitleFallbacks(t *testing.T) {
	catalog := map[string]CatalogEntry{
		"7": {CP: "78000", TitreFR: "Versailles FR"},
		"8": {CP: "78000"},
	}

	residences := FilterDirectory(catalog, idfPrefixes, nil)
	byID := make(map[string]models.Residence)
	for _, r := range residences {
		byID[r.ID] = r
	}

	if byID["7"].Name != "Versailles FR" {
		t.Fatalf("expected titre_fr fallback, got %q", byID["7"].Name)
	}
	if byID["8"].Name != "Résidence 8" {
		t.Fatalf("expected placeholder name, got %q", byID["8"].Name)
	}
	if byID["8"].City != "?" {
		t.Fatalf("expected placeholder city, got %q", byID["8"].City)
	}
}

func TestExcludeFilter_Config(t *testing.T) {
	src := &config.SourceConfig{ExcludeFilter: "brand", BrandSubstring: "logifac"}
	exclude := ExcludeFilter(src)
	if !exclude(CatalogEntry{Titre: "Le Logifac"}) {
		t.Fatalf("brand filter should exclude matching title")
	}
	if exclude(CatalogEntry{Titre: "Autre"}) {
		t.Fatalf("brand filter should keep non-matching title")
	}

	src = &config.SourceConfig{}
	if ExcludeFilter(src)(CatalogEntry{Titre: "Le Logifac"}) {
		t.Fatalf("default filter should keep everything")
	}
}
