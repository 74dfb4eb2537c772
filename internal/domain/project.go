package domain

import "time"

// Project groups tasks and points at the team that works on them.
type Project struct {
	ID          string
	OwnerID     string
	TeamID      string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
