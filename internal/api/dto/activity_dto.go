package dto

import (
	"time"

	"github.com/spec-kit/task-manager/internal/domain"
)

// ActivityLogResponse view.
type ActivityLogResponse struct {
	ID         string    `json:"id"`
	Task       string    `json:"task"`
	Project    string    `json:"project"`
	TaskTitle  string    `json:"taskTitle"`
	FromMember string    `json:"fromMember"`
	ToMember   string    `json:"toMember"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewActivityLogResponses maps log entries.
func NewActivityLogResponses(logs []domain.ActivityLog) []ActivityLogResponse {
	out := make([]ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, ActivityLogResponse{
			ID:         l.ID,
			Task:       l.TaskID,
			Project:    l.ProjectID,
			TaskTitle:  l.TaskTitle,
			FromMember: l.FromMember,
			ToMember:   l.ToMember,
			Timestamp:  l.Timestamp,
		})
	}
	return out
}

// TeamMemberSummaryResponse is a dashboard row.
type TeamMemberSummaryResponse struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	MemberWorkloadResponse
}

// DashboardResponse view.
type DashboardResponse struct {
	TotalProjects       int                         `json:"totalProjects"`
	TotalTasks          int                         `json:"totalTasks"`
	TeamSummary         []TeamMemberSummaryResponse `json:"teamSummary"`
	RecentReassignments []ActivityLogResponse       `json:"recentReassignments"`
}

// NewDashboardResponse maps dashboard stats.
func NewDashboardResponse(totalProjects, totalTasks int, summary []domain.TeamMemberSummary, recent []domain.ActivityLog) DashboardResponse {
	rows := make([]TeamMemberSummaryResponse, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, TeamMemberSummaryResponse{
			TeamID:                 s.TeamID,
			TeamName:               s.TeamName,
			MemberWorkloadResponse: newMemberWorkload(s.MemberWorkload),
		})
	}
	return DashboardResponse{
		TotalProjects:       totalProjects,
		TotalTasks:          totalTasks,
		TeamSummary:         rows,
		RecentReassignments: NewActivityLogResponses(recent),
	}
}
