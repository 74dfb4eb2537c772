package service

import (
	"context"

	"github.com/spec-kit/task-manager/internal/domain"
	"github.com/spec-kit/task-manager/internal/repository"
	apperrors "github.com/spec-kit/task-manager/pkg/util/errorutil"
)

// MaxActivityLimit caps a single activity log page.
const MaxActivityLimit = 100

// ActivityService reads the reassignment audit trail.
type ActivityService struct {
	logs     repository.ActivityLogRepository
	projects repository.ProjectRepository
}

// ActivityDependencies bundles repositories for activity service.
type ActivityDependencies struct {
	ActivityRepo repository.ActivityLogRepository
	ProjectRepo  repository.ProjectRepository
}

// NewActivityService creates the service.
func NewActivityService(deps ActivityDependencies) *ActivityService {
	return &ActivityService{logs: deps.ActivityRepo, projects: deps.ProjectRepo}
}

// ListRecent returns the caller's newest entries across all projects.
func (s *ActivityService) ListRecent(ctx context.Context, ownerID string, limit int) ([]domain.ActivityLog, error) {
	logs, err := s.logs.ListByOwner(ctx, ownerID, clampLimit(limit))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return logs, nil
}

// ListByProject returns the newest entries of one project.
func (s *ActivityService) ListByProject(ctx context.Context, ownerID, projectID string, limit int) ([]domain.ActivityLog, error) {
	if _, err := loadProject(ctx, s.projects, ownerID, projectID); err != nil {
		return nil, err
	}
	logs, err := s.logs.ListByProject(ctx, ownerID, projectID, clampLimit(limit))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return logs, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return repository.DefaultActivityLimit
	case limit > MaxActivityLimit:
		return MaxActivityLimit
	}
	return limit
}
