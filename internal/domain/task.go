package domain

import "time"

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority enumerates task urgency.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task belongs to one project and optionally to one member of that project's team.
type Task struct {
	ID               string
	OwnerID          string
	ProjectID        string
	AssignedMemberID *string
	Title            string
	Description      string
	Priority         TaskPriority
	Status           TaskStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsOpen reports whether the task still counts towards a member's load.
func (t *Task) IsOpen() bool {
	return t.Status != TaskStatusDone
}

// AssignedTo reports whether the task is assigned to memberID.
func (t *Task) AssignedTo(memberID string) bool {
	return t.AssignedMemberID != nil && *t.AssignedMemberID == memberID
}
