package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-manager/internal/domain"
	apperrors "github.com/spec-kit/task-manager/pkg/util/errorutil"
)

func TestCreateProjectRequiresOwnTeam(t *testing.T) {
	f := newFixture(teamMember("Alice", 2))
	svc := NewProjectService(ProjectDependencies{ProjectRepo: f.projects, TeamRepo: f.teams})

	project, err := svc.CreateProject(context.Background(), f.ownerID, ProjectInput{
		Name:        "Website",
		Description: "relaunch",
		TeamID:      f.team.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.team.ID, project.TeamID)

	_, err = svc.CreateProject(context.Background(), uuid.NewString(), ProjectInput{Name: "x", TeamID: f.team.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed), "team of another owner")

	_, err = svc.CreateProject(context.Background(), f.ownerID, ProjectInput{Name: "x", TeamID: "nope"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	_, err = svc.CreateProject(context.Background(), f.ownerID, ProjectInput{TeamID: f.team.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestUpdateProjectSwitchesTeam(t *testing.T) {
	f := newFixture(teamMember("Alice", 2))
	other := &domain.Team{OwnerID: f.ownerID, Name: "Other"}
	f.teams.put(other)
	svc := NewProjectService(ProjectDependencies{ProjectRepo: f.projects, TeamRepo: f.teams})

	project, err := svc.UpdateProject(context.Background(), f.ownerID, f.project.ID, ProjectUpdateInput{
		TeamID:      &other.ID,
		Description: ptr("moved"),
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, project.TeamID)
	assert.Equal(t, "moved", project.Description)
	assert.Equal(t, "Launch", project.Name)

	_, err = svc.UpdateProject(context.Background(), f.ownerID, f.project.ID, ProjectUpdateInput{TeamID: ptr(uuid.NewString())})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestGetAndDeleteProject(t *testing.T) {
	f := newFixture(teamMember("Alice", 2))
	svc := NewProjectService(ProjectDependencies{ProjectRepo: f.projects, TeamRepo: f.teams})

	got, err := svc.GetProject(context.Background(), f.ownerID, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, f.project.ID, got.ID)

	_, err = svc.GetProject(context.Background(), uuid.NewString(), f.project.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	require.NoError(t, svc.DeleteProject(context.Background(), f.ownerID, f.project.ID))
	err = svc.DeleteProject(context.Background(), f.ownerID, f.project.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
