package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskAutoAssigned      EventType = "task_auto_assigned"
	EventTaskReassigned        EventType = "task_reassigned"
	EventReassignmentCompleted EventType = "reassignment_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OwnerID   string      `json:"owner_id"`
	ProjectID string      `json:"project_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TaskAutoAssignedPayload payload.
type TaskAutoAssignedPayload struct {
	TaskID     string `json:"task_id"`
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
}

// TaskReassignedPayload payload.
type TaskReassignedPayload struct {
	TaskID     string `json:"task_id"`
	TaskTitle  string `json:"task_title"`
	FromMember string `json:"from_member"`
	ToMember   string `json:"to_member"`
}

// ReassignmentCompletedPayload payload.
type ReassignmentCompletedPayload struct {
	MovedCount int  `json:"moved_count"`
	Partial    bool `json:"partial"`
}
