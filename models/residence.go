package models

type Residence struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// UnitRecord is one housing-unit row extracted from a reservation fragment.
// Rent and Surface are kept verbatim (whitespace-collapsed) as the site
// formats them; UnitType is the raw label ("T1", "T2 Bis", or "?" for
// records synthesized by the fallback scan).
type UnitRecord struct {
	UnitType string `json:"unit_type"`
	Rent     string `json:"rent"`
	Surface  string `json:"surface"`
	Status   Status `json:"status"`
}

// ResidenceOutcome records how the scan of one residence ended. Failed
// residences stay in the result set with an empty unit slice so the
// report can show them instead of silently dropping them.
type ResidenceOutcome string

const (
	OutcomeOK         ResidenceOutcome = "ok"
	OutcomeNoFragment ResidenceOutcome = "no_fragment"
	OutcomeFetchError ResidenceOutcome = "fetch_error"
)

type ResidenceResult struct {
	Residence Residence        `json:"residence"`
	Units     []UnitRecord     `json:"units"`
	Outcome   ResidenceOutcome `json:"outcome"`
}

// BestStatus returns the highest status among the residence's units, or
// StatusUnavailable when no units were extracted.
func (r ResidenceResult) BestStatus() Status {
	best := StatusUnavailable
	for _, u := range r.Units {
		if u.Status > best {
			best = u.Status
		}
	}
	return best
}

// ScanResult holds one entry per residence attempted, in directory order.
type ScanResult struct {
	Results []ResidenceResult `json:"results"`
}

func (s *ScanResult) Failed() []ResidenceResult {
	var failed []ResidenceResult
	for _, r := range s.Results {
		if r.Outcome != OutcomeOK {
			failed = append(failed, r)
		}
	}
	return failed
}
