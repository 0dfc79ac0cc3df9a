package scraper

import (
	"testing"

	"habitat_watch/models"
)

// expected applies the documented cascade independently so the table
// below covers all 16 signal combinations without hand-enumeration.
func expected(sig Signals) models.Status {
	switch {
	case sig.HasImmediateText || sig.IsGreenBadge:
		return models.StatusImmediate
	case sig.HasReserveButton && !sig.HasNoneText:
		return models.StatusRequestOpen
	case sig.HasReserveButton && sig.HasNoneText:
		return models.StatusRequestPossible
	default:
		return models.StatusUnavailable
	}
}

func TestClassify_AllCombinations(t *testing.T) {
	for i := 0; i < 16; i++ {
		sig := Signals{
			HasReserveButton: i&1 != 0,
			HasImmediateText: i&2 != 0,
			IsGreenBadge:     i&4 != 0,
			HasNoneText:      i&8 != 0,
		}
		got := Classify(sig)
		if got != expected(sig) {
			t.Fatalf("Classify(%+v) = %v, want %v", sig, got, expected(sig))
		}
	}
}

func TestClassify_ContradictorySignals(t *testing.T) {
	// Contradictory upstream markup: both immediate and none text.
	// Immediate wins by cascade order.
	got := Classify(Signals{HasImmediateText: true, HasNoneText: true})
	if got != models.StatusImmediate {
		t.Fatalf("immediate+none = %v, want %v", got, models.StatusImmediate)
	}
}

func TestClassify_ButtonWithCaveat(t *testing.T) {
	got := Classify(Signals{HasReserveButton: true, HasNoneText: true})
	if got != models.StatusRequestPossible {
		t.Fatalf("button+none = %v, want %v", got, models.StatusRequestPossible)
	}
}

func TestClassify_NoSignals(t *testing.T) {
	if got := Classify(Signals{}); got != models.StatusUnavailable {
		t.Fatalf("no signals = %v, want %v", got, models.StatusUnavailable)
	}
}

func TestStatusOrdering(t *testing.T) {
	order := []models.Status{
		models.StatusUnavailable,
		models.StatusRequestPossible,
		models.StatusRequestOpen,
		models.StatusImmediate,
	}
	for i := 1; i < len(order); i++ {
		if order[i] <= order[i-1] {
			t.Fatalf("expected %v > %v", order[i], order[i-1])
		}
	}
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []models.Status{
		models.StatusUnavailable,
		models.StatusRequestPossible,
		models.StatusRequestOpen,
		models.StatusImmediate,
	} {
		parsed, err := models.ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", s.String(), err)
		}
		if parsed != s {
			t.Fatalf("round trip %v -> %v", s, parsed)
		}
	}

	if _, err := models.ParseStatus("BOGUS"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
