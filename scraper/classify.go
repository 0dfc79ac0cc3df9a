package scraper

import "habitat_watch/models"

// Signals are the raw availability markers extracted from the last cell
// of a unit row.
type Signals struct {
	HasReserveButton bool
	HasImmediateText bool
	IsGreenBadge     bool
	HasNoneText      bool
}

// The classification is a priority cascade: rules are evaluated top to
// bottom and the first match wins. Explicit "disponibilité immédiate"
// text or a green badge beats a plain reserve button; a reserve button
// with an "aucune disponibilité" caveat means a request can be filed
// but nothing is free yet. A row carrying both immediate and none text
// (contradictory upstream markup) still classifies as immediate.
type rule struct {
	match  func(Signals) bool
	status models.Status
}

var rules = []rule{
	{func(s Signals) bool { return s.HasImmediateText || s.IsGreenBadge }, models.StatusImmediate},
	{func(s Signals) bool { return s.HasReserveButton && !s.HasNoneText }, models.StatusRequestOpen},
	{func(s Signals) bool { return s.HasReserveButton && s.HasNoneText }, models.StatusRequestPossible},
}

func Classify(sig Signals) models.Status {
	for _, r := range rules {
		if r.match(sig) {
			return r.status
		}
	}
	return models.StatusUnavailable
}
