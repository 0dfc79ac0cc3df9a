package services

import (
	"habitat_watch/config"
	"habitat_watch/models"
)

// DetectUpgrades compares this run's observations against the previous
// snapshot and returns one event per key whose status strictly improved.
// A key never seen before counts as previously UNAVAILABLE. Events come
// out in observation order; regressions and no-changes are absorbed
// silently into the merged snapshot.
func DetectUpgrades(observations []models.Observation, prev models.Snapshot, src *config.SourceConfig) []models.UpgradeEvent {
	var events []models.UpgradeEvent
	for _, obs := range observations {
		prevStatus := models.StatusUnavailable
		if s, ok := prev[obs.Key]; ok {
			prevStatus = s
		}
		if obs.Unit.Status <= prevStatus {
			continue
		}

		events = append(events, models.UpgradeEvent{
			Residence:      obs.Residence,
			UnitType:       obs.Unit.UnitType,
			Rent:           obs.Unit.Rent,
			NewStatus:      obs.Unit.Status,
			PreviousStatus: prevStatus,
			URL:            src.ResidenceURL(obs.Residence.ID),
		})
	}
	return events
}

// MergeSnapshot overlays this run's observations on the previous
// snapshot. Keys not observed this run carry over untouched, so the
// stored mapping accumulates history instead of being rebuilt.
func MergeSnapshot(prev models.Snapshot, observations []models.Observation) models.Snapshot {
	merged := prev.Clone()
	if merged == nil {
		merged = models.Snapshot{}
	}
	for _, obs := range observations {
		merged[obs.Key] = obs.Unit.Status
	}
	return merged
}

// ObservedKeys lists the distinct keys seen this run, in order.
func ObservedKeys(observations []models.Observation) []string {
	seen := make(map[string]bool, len(observations))
	var keys []string
	for _, obs := range observations {
		if !seen[obs.Key] {
			seen[obs.Key] = true
			keys = append(keys, obs.Key)
		}
	}
	return keys
}
