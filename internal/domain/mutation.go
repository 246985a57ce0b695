package domain

// MutationKind selects one of the three roster edits.
type MutationKind string

const (
	// MutationNoCrew marks a unit off duty over the window; the unit
	// stays listed with empty zones.
	MutationNoCrew MutationKind = "noCrew"
	// MutationAddShift puts a unit on duty over the window.
	MutationAddShift MutationKind = "addShift"
	// MutationObliterate removes a unit from the window entirely.
	MutationObliterate MutationKind = "obliterateShift"
)

func (k MutationKind) Valid() bool {
	switch k {
	case MutationNoCrew, MutationAddShift, MutationObliterate:
		return true
	}
	return false
}

// MutationRequest is one roster edit against a single calendar day.
// WindowStart == WindowEnd is the reserved sentinel for the whole
// 24-hour day. Preview requests skip the backup and the sheet write.
type MutationRequest struct {
	Kind        MutationKind `json:"action"`
	Date        string       `json:"date"` // YYYYMMDD
	WindowStart TimeOfDay    `json:"windowStart"`
	WindowEnd   TimeOfDay    `json:"windowEnd"`
	UnitID      int          `json:"unit"`
	Preview     bool         `json:"preview"`
}
