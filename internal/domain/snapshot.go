package domain

import "time"

// Snapshot is the metadata of one backed-up day grid. The grid itself
// is stored CSV-encoded next to it and expires together with it.
type Snapshot struct {
	ID          string    `json:"id"`
	Day         string    `json:"day"` // YYYYMMDD
	Description string    `json:"description"`
	Command     string    `json:"command"` // audit trail of the command that triggered the backup
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
