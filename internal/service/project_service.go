package service

import (
	"context"
	"strings"

	"github.com/spec-kit/task-manager/internal/domain"
	"github.com/spec-kit/task-manager/internal/repository"
	apperrors "github.com/spec-kit/task-manager/pkg/util/errorutil"
)

// ProjectService coordinates project workflows.
type ProjectService struct {
	projects repository.ProjectRepository
	teams    repository.TeamRepository
}

// ProjectDependencies bundles repositories for project service.
type ProjectDependencies struct {
	ProjectRepo repository.ProjectRepository
	TeamRepo    repository.TeamRepository
}

// ProjectInput describes project creation payload.
type ProjectInput struct {
	Name        string
	Description string
	TeamID      string
}

// ProjectUpdateInput carries optional fields.
type ProjectUpdateInput struct {
	Name        *string
	Description *string
	TeamID      *string
}

// NewProjectService creates the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	return &ProjectService{projects: deps.ProjectRepo, teams: deps.TeamRepo}
}

// ListProjects returns the caller's projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, ownerID string) ([]domain.Project, error) {
	projects, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// GetProject fetches one project.
func (s *ProjectService) GetProject(ctx context.Context, ownerID, projectID string) (*domain.Project, error) {
	return loadProject(ctx, s.projects, ownerID, projectID)
}

// CreateProject stores a project bound to one of the caller's teams.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID string, input ProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("project name is required", nil)
	}
	if err := s.ensureTeam(ctx, ownerID, input.TeamID); err != nil {
		return nil, err
	}

	project := &domain.Project{
		OwnerID:     ownerID,
		TeamID:      input.TeamID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// UpdateProject applies the provided fields.
func (s *ProjectService) UpdateProject(ctx context.Context, ownerID, projectID string, input ProjectUpdateInput) (*domain.Project, error) {
	project, err := loadProject(ctx, s.projects, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("project name is required", nil)
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.TeamID != nil && *input.TeamID != project.TeamID {
		if err := s.ensureTeam(ctx, ownerID, *input.TeamID); err != nil {
			return nil, err
		}
		project.TeamID = *input.TeamID
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, notFoundOr(err, "project", map[string]any{"project_id": projectID})
	}
	return project, nil
}

// DeleteProject removes the project and its tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, ownerID, projectID string) error {
	details := map[string]any{"project_id": projectID}
	if !validID(projectID) {
		return apperrors.NewNotFound("project", details)
	}
	if err := s.projects.Delete(ctx, ownerID, projectID); err != nil {
		return notFoundOr(err, "project", details)
	}
	return nil
}

func (s *ProjectService) ensureTeam(ctx context.Context, ownerID, teamID string) error {
	details := map[string]any{"team_id": teamID}
	if !validID(teamID) {
		return apperrors.NewValidationError("invalid team", details)
	}
	if _, err := s.teams.GetByID(ctx, ownerID, teamID); err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewValidationError("invalid team", details)
		}
		return apperrors.MapError(err)
	}
	return nil
}
