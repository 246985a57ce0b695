package domain

import "time"

// DutyOfficer is a person notified when the roster changes. Officers do
// not log in; the command API is operated by the station admin.
type DutyOfficer struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
