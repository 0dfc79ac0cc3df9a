package report

import (
	"fmt"

	"habitat_watch/models"
)

// ANSI colors for the interactive scan output.
const (
	green  = "\033[92m"
	red    = "\033[91m"
	yellow = "\033[93m"
	cyan   = "\033[96m"
	bold   = "\033[1m"
	reset  = "\033[0m"
)

// maxErrorLabels bounds the failing-residence sample in the summary.
const maxErrorLabels = 5

func label(r models.Residence) string {
	return fmt.Sprintf("%s (%s, %s)", r.Name, r.City, r.PostalCode)
}

// Progress prints one line per residence as the scan advances.
func Progress(i, total int, rr models.ResidenceResult) {
	prefix := fmt.Sprintf("  [%2d/%d] %s... ", i, total, label(rr.Residence))

	switch {
	case rr.Outcome == models.OutcomeNoFragment:
		fmt.Printf("%s%sno reservation iframe%s\n", prefix, yellow, reset)
	case rr.Outcome == models.OutcomeFetchError:
		fmt.Printf("%s%sfetch error%s\n", prefix, red, reset)
	case len(rr.Units) == 0:
		fmt.Printf("%s%s✗ no data%s\n", prefix, red, reset)
	default:
		switch rr.BestStatus() {
		case models.StatusImmediate:
			fmt.Printf("%s%s%s★ IMMEDIATE!%s\n", prefix, green, bold, reset)
		case models.StatusRequestOpen:
			fmt.Printf("%s%s● request open%s\n", prefix, green, reset)
		case models.StatusRequestPossible:
			fmt.Printf("%s%s○ request possible%s\n", prefix, yellow, reset)
		default:
			fmt.Printf("%s%s✗%s\n", prefix, red, reset)
		}
	}
}

// FormatStatus renders one status with color for unit detail lines.
func FormatStatus(s models.Status) string {
	switch s {
	case models.StatusImmediate:
		return green + bold + "★ immediately available" + reset
	case models.StatusRequestOpen:
		return green + "● request open" + reset
	case models.StatusRequestPossible:
		return yellow + "○ request possible (nothing free)" + reset
	default:
		return red + "✗ unavailable" + reset
	}
}

// Summary prints the end-of-run recap: positive residences with their
// unit details, upgrade events, and a bounded sample of failures.
func Summary(result *models.ScanResult, events []models.UpgradeEvent, src func(id string) string) {
	immediate, requests, _ := Buckets(result)

	fmt.Printf("\n%s  SUMMARY%s\n", bold, reset)

	if len(immediate)+len(requests) == 0 {
		fmt.Printf("\n%s  ✗ No availability across the directory.%s\n", red, reset)
	}

	for _, rr := range append(immediate, requests...) {
		fmt.Printf("\n    %s%s%s — %s (%s)\n", bold, rr.Residence.Name, reset, rr.Residence.City, rr.Residence.PostalCode)
		fmt.Printf("    %s%s%s\n", cyan, src(rr.Residence.ID), reset)
		for _, u := range rr.Units {
			if u.Status > models.StatusUnavailable {
				fmt.Printf("      %-10s %-30s %s\n", u.UnitType, u.Rent, FormatStatus(u.Status))
			}
		}
	}

	if len(events) > 0 {
		fmt.Printf("\n%s%s  ! %d new opportunity(ies) since last run%s\n", green, bold, len(events), reset)
		for _, e := range events {
			fmt.Printf("    %s - %s: %s → %s\n", e.Residence.Name, e.UnitType, e.PreviousStatus, e.NewStatus)
		}
	}

	if failed := result.Failed(); len(failed) > 0 {
		fmt.Printf("\n%s  ⚠ %d residence(s) failed:%s", yellow, len(failed), reset)
		for i, rr := range failed {
			if i == maxErrorLabels {
				fmt.Printf(" …")
				break
			}
			if i > 0 {
				fmt.Printf(",")
			}
			fmt.Printf(" %s", rr.Residence.Name)
		}
		fmt.Println()
	}
}

// List prints the filtered directory, one residence per line.
func List(residences []models.Residence, src func(id string) string) {
	fmt.Printf("\n%sResidences (%d):%s\n\n", bold, len(residences), reset)
	for i, r := range residences {
		fmt.Printf("  %2d. %-30s %-25s (%s)  %s\n", i+1, r.Name, r.City, r.PostalCode, src(r.ID))
	}
}
