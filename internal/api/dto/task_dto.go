package dto

import (
	"time"

	"github.com/spec-kit/task-manager/internal/domain"
)

// CreateTaskRequest payload. Priority defaults to Medium and status to Pending.
type CreateTaskRequest struct {
	Project        string              `json:"project" validate:"required"`
	AssignedMember *string             `json:"assignedMember"`
	Title          string              `json:"title" validate:"required,max=200"`
	Description    string              `json:"description" validate:"max=5000"`
	Priority       domain.TaskPriority `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Status         domain.TaskStatus   `json:"status" validate:"omitempty,oneof=Pending 'In Progress' Done"`
}

// UpdateTaskRequest payload. An empty assignedMember unassigns the task.
type UpdateTaskRequest struct {
	AssignedMember *string              `json:"assignedMember"`
	Title          *string              `json:"title" validate:"omitempty,min=1,max=200"`
	Description    *string              `json:"description" validate:"omitempty,max=5000"`
	Priority       *domain.TaskPriority `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Status         *domain.TaskStatus   `json:"status" validate:"omitempty,oneof=Pending 'In Progress' Done"`
}

// AutoAssignRequest payload.
type AutoAssignRequest struct {
	TaskID string `json:"taskId" validate:"required"`
}

// TaskResponse view.
type TaskResponse struct {
	ID             string              `json:"id"`
	Project        string              `json:"project"`
	AssignedMember *string             `json:"assignedMember"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Priority       domain.TaskPriority `json:"priority"`
	Status         domain.TaskStatus   `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// NewTaskResponse maps a task.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		Project:        t.ProjectID,
		AssignedMember: t.AssignedMemberID,
		Title:          t.Title,
		Description:    t.Description,
		Priority:       t.Priority,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// MemberWorkloadResponse is one row of a workload report.
type MemberWorkloadResponse struct {
	MemberID     string `json:"memberId"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Capacity     int    `json:"capacity"`
	CurrentTasks int    `json:"currentTasks"`
	IsOverloaded bool   `json:"isOverloaded"`
}

// NewWorkloadResponse maps a workload snapshot.
func NewWorkloadResponse(loads []domain.MemberWorkload) []MemberWorkloadResponse {
	out := make([]MemberWorkloadResponse, 0, len(loads))
	for _, l := range loads {
		out = append(out, newMemberWorkload(l))
	}
	return out
}

func newMemberWorkload(l domain.MemberWorkload) MemberWorkloadResponse {
	return MemberWorkloadResponse{
		MemberID:     l.MemberID,
		Name:         l.Name,
		Role:         l.Role,
		Capacity:     l.Capacity,
		CurrentTasks: l.CurrentTasks,
		IsOverloaded: l.IsOverloaded,
	}
}

// ReassignResponse reports one reassignment pass.
type ReassignResponse struct {
	Message       string                      `json:"message"`
	MovedCount    int                         `json:"movedCount"`
	Reassignments []domain.ReassignmentRecord `json:"reassignments"`
}
