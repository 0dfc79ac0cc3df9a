package models

import "fmt"

// Status is the ordered availability classification for one unit type.
// Higher values are strictly more desirable; change detection compares
// successive values of the same key with plain >.
type Status int

const (
	StatusUnavailable Status = iota
	StatusRequestPossible
	StatusRequestOpen
	StatusImmediate
)

var statusNames = map[Status]string{
	StatusUnavailable:     "UNAVAILABLE",
	StatusRequestPossible: "REQUEST_POSSIBLE",
	StatusRequestOpen:     "REQUEST_OPEN",
	StatusImmediate:       "IMMEDIATELY_AVAILABLE",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus is the inverse of String, used when reading persisted snapshots.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return StatusUnavailable, fmt.Errorf("unknown status %q", name)
}
