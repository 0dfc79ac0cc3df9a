package notify

import (
	"fmt"
	"strings"

	"habitat_watch/models"
)

var statusEmoji = map[models.Status]string{
	models.StatusImmediate:       "🟢",
	models.StatusRequestOpen:     "🔵",
	models.StatusRequestPossible: "🟡",
	models.StatusUnavailable:     "⚪",
}

var statusLabel = map[models.Status]string{
	models.StatusImmediate:       "Dispo immédiate",
	models.StatusRequestOpen:     "Demande ouverte",
	models.StatusRequestPossible: "Demande possible",
	models.StatusUnavailable:     "Indisponible",
}

// FormatUpgrades renders the upgrade events of one run as a single
// notification message (HTML, consumed as-is by Telegram; plain enough
// for the desktop channel too).
func FormatUpgrades(events []models.UpgradeEvent) (title, text string) {
	title = fmt.Sprintf("🏠 %d nouvelle(s) disponibilité(s) !", len(events))

	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "%s <b>%s</b> — %s\n", statusEmoji[e.NewStatus], e.Residence.Name, e.Residence.City)
		if e.Rent != "" {
			fmt.Fprintf(&b, "   %s | %s\n", e.UnitType, e.Rent)
		} else {
			fmt.Fprintf(&b, "   %s\n", e.UnitType)
		}
		fmt.Fprintf(&b, "   %s → <b>%s</b>\n", statusLabel[e.PreviousStatus], statusLabel[e.NewStatus])
		fmt.Fprintf(&b, "   <a href=\"%s\">Voir / Réserver</a>\n\n", e.URL)
	}
	return title, strings.TrimRight(b.String(), "\n")
}
