package models

// UpgradeEvent is emitted when a key's status strictly improved since
// the previous run. Regressions and no-changes produce nothing.
type UpgradeEvent struct {
	Residence      Residence `json:"residence"`
	UnitType       string    `json:"unit_type"`
	Rent           string    `json:"rent"`
	NewStatus      Status    `json:"new_status"`
	PreviousStatus Status    `json:"previous_status"`
	URL            string    `json:"url"`
}
