package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/task-manager/internal/domain"
	"github.com/spec-kit/task-manager/internal/repository"
	apperrors "github.com/spec-kit/task-manager/pkg/util/errorutil"
)

// validID reports whether id can be a stored primary key.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// notFoundOr maps a missing row to NotFound and anything else to a DomainError.
func notFoundOr(err error, resource string, details map[string]any) error {
	if apperrors.IsNoRows(err) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}

func loadProject(ctx context.Context, projects repository.ProjectRepository, ownerID, projectID string) (*domain.Project, error) {
	details := map[string]any{"project_id": projectID}
	if !validID(projectID) {
		return nil, apperrors.NewNotFound("project", details)
	}
	project, err := projects.GetByID(ctx, ownerID, projectID)
	if err != nil {
		return nil, notFoundOr(err, "project", details)
	}
	return project, nil
}

// loadProjectTeam resolves the project and the team that works on it.
func loadProjectTeam(ctx context.Context, projects repository.ProjectRepository, teams repository.TeamRepository, ownerID, projectID string) (*domain.Project, *domain.Team, error) {
	project, err := loadProject(ctx, projects, ownerID, projectID)
	if err != nil {
		return nil, nil, err
	}
	team, err := teams.GetByID(ctx, ownerID, project.TeamID)
	if err != nil {
		return nil, nil, notFoundOr(err, "team", map[string]any{"team_id": project.TeamID})
	}
	return project, team, nil
}
