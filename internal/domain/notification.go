package domain

import "time"

// ChangeNotification is the message published to the roster_changes
// queue after a mutation is written to the sheet. The notify worker
// turns it into an email to the duty officers.
type ChangeNotification struct {
	To        []string     `json:"to"`
	Action    MutationKind `json:"action"`
	Date      string       `json:"date"` // YYYYMMDD
	UnitID    int          `json:"unit"`
	Window    string       `json:"window"` // "HHMM-HHMM"
	ChangeID  string       `json:"changeId"`
	AppliedAt time.Time    `json:"appliedAt"`
}
