package models

// Snapshot maps SnapshotKey -> last known status. It accumulates across
// runs: keys not observed this run keep their previous value.
type Snapshot map[string]Status

// SnapshotKey joins residence id and unit-type label. Stable as long as
// the upstream site keeps both unchanged; a renamed unit-type label
// starts fresh history under a new key.
func SnapshotKey(residenceID, unitType string) string {
	return residenceID + "_" + unitType
}

func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Observation is one (key, status) pair seen during a run, kept in
// observation order (residence order, then unit order within residence)
// so upgrade events come out deterministically.
type Observation struct {
	Key       string
	Residence Residence
	Unit      UnitRecord
}
