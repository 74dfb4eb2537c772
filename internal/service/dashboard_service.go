package service

import (
	"context"

	"github.com/spec-kit/task-manager/internal/domain"
	"github.com/spec-kit/task-manager/internal/repository"
	"github.com/spec-kit/task-manager/internal/workload"
	apperrors "github.com/spec-kit/task-manager/pkg/util/errorutil"
)

// recentReassignments is how many log entries the dashboard shows.
const recentReassignments = 5

// DashboardStats is the overview of one owner's workspace.
type DashboardStats struct {
	TotalProjects       int
	TotalTasks          int
	TeamSummary         []domain.TeamMemberSummary
	RecentReassignments []domain.ActivityLog
}

// DashboardService aggregates counts and loads across the caller's teams.
type DashboardService struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	teams    repository.TeamRepository
	logs     repository.ActivityLogRepository
}

// DashboardDependencies bundles repositories for dashboard service.
type DashboardDependencies struct {
	ProjectRepo  repository.ProjectRepository
	TaskRepo     repository.TaskRepository
	TeamRepo     repository.TeamRepository
	ActivityRepo repository.ActivityLogRepository
}

// NewDashboardService creates the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	return &DashboardService{
		projects: deps.ProjectRepo,
		tasks:    deps.TaskRepo,
		teams:    deps.TeamRepo,
		logs:     deps.ActivityRepo,
	}
}

// Stats computes the dashboard. Member load counts the owner's open tasks
// across every project.
func (s *DashboardService) Stats(ctx context.Context, ownerID string) (*DashboardStats, error) {
	totalProjects, err := s.projects.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	totalTasks, err := s.tasks.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	teams, err := s.teams.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	done := domain.TaskStatusDone
	open, err := s.tasks.List(ctx, repository.TaskFilter{OwnerID: ownerID, ExcludeStatus: &done})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := make([]domain.TeamMemberSummary, 0)
	for _, team := range teams {
		for _, entry := range workload.Calculate(team.Members, open) {
			summary = append(summary, domain.TeamMemberSummary{
				TeamID:         team.ID,
				TeamName:       team.Name,
				MemberWorkload: entry,
			})
		}
	}

	recent, err := s.logs.ListByOwner(ctx, ownerID, recentReassignments)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &DashboardStats{
		TotalProjects:       totalProjects,
		TotalTasks:          totalTasks,
		TeamSummary:         summary,
		RecentReassignments: recent,
	}, nil
}
