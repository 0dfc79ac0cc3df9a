package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type ScanRun struct {
	ID               int64      `json:"id" db:"id"`
	UUID             string     `json:"uuid" db:"uuid"`
	StartedAt        time.Time  `json:"started_at" db:"started_at"`
	FinishedAt       *time.Time `json:"finished_at" db:"finished_at"`
	Status           RunStatus  `json:"status" db:"status"`
	ResidencesTotal  int        `json:"residences_total" db:"residences_total"`
	ResidencesFailed int        `json:"residences_failed" db:"residences_failed"`
	UnitsFound       int        `json:"units_found" db:"units_found"`
	Upgrades         int        `json:"upgrades" db:"upgrades"`
}
