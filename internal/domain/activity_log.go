package domain

import "time"

// ActivityLog is an immutable record of one reassignment move.
// Member names are copied so the entry survives member removal.
type ActivityLog struct {
	ID         string
	OwnerID    string
	TaskID     string
	ProjectID  string
	TaskTitle  string
	FromMember string
	ToMember   string
	Timestamp  time.Time
}
