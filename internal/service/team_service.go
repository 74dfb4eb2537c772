package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/task-manager/internal/domain"
	"github.com/spec-kit/task-manager/internal/repository"
	apperrors "github.com/spec-kit/task-manager/pkg/util/errorutil"
)

// TeamService manages teams and their member lists.
type TeamService struct {
	teams  repository.TeamRepository
	logger *zap.Logger
}

// TeamDependencies bundles repositories for team service.
type TeamDependencies struct {
	TeamRepo repository.TeamRepository
	Logger   *zap.Logger
}

// TeamMemberInput describes one member in a create or update payload.
// An empty ID adds a new member; a known ID keeps that member.
type TeamMemberInput struct {
	ID       string
	Name     string
	Role     string
	Capacity *int
}

// TeamInput describes team creation payload.
type TeamInput struct {
	Name    string
	Members []TeamMemberInput
}

// TeamUpdateInput carries optional fields. A non-nil Members replaces the whole list.
type TeamUpdateInput struct {
	Name    *string
	Members *[]TeamMemberInput
}

// NewTeamService creates the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamService{teams: deps.TeamRepo, logger: logger}
}

// ListTeams returns the caller's teams.
func (s *TeamService) ListTeams(ctx context.Context, ownerID string) ([]domain.Team, error) {
	teams, err := s.teams.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// GetTeam fetches one team with its members.
func (s *TeamService) GetTeam(ctx context.Context, ownerID, teamID string) (*domain.Team, error) {
	details := map[string]any{"team_id": teamID}
	if !validID(teamID) {
		return nil, apperrors.NewNotFound("team", details)
	}
	team, err := s.teams.GetByID(ctx, ownerID, teamID)
	if err != nil {
		return nil, notFoundOr(err, "team", details)
	}
	return team, nil
}

// CreateTeam validates and stores a new team.
func (s *TeamService) CreateTeam(ctx context.Context, ownerID string, input TeamInput) (*domain.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("team name is required", nil)
	}
	members, err := buildMembers(nil, input.Members)
	if err != nil {
		return nil, err
	}

	team := &domain.Team{
		OwnerID: ownerID,
		Name:    name,
		Members: members,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("team created", zap.String("team_id", team.ID), zap.Int("members", len(team.Members)))
	return team, nil
}

// UpdateTeam renames the team and/or replaces its member list. Members
// that are left out are removed and their tasks become unassigned.
func (s *TeamService) UpdateTeam(ctx context.Context, ownerID, teamID string, input TeamUpdateInput) (*domain.Team, error) {
	team, err := s.GetTeam(ctx, ownerID, teamID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("team name is required", nil)
		}
		team.Name = name
	}
	if input.Members != nil {
		members, err := buildMembers(team, *input.Members)
		if err != nil {
			return nil, err
		}
		team.Members = members
	}

	if err := s.teams.Update(ctx, team); err != nil {
		return nil, notFoundOr(err, "team", map[string]any{"team_id": teamID})
	}
	return team, nil
}

// DeleteTeam removes a team that no project references anymore.
func (s *TeamService) DeleteTeam(ctx context.Context, ownerID, teamID string) error {
	details := map[string]any{"team_id": teamID}
	if !validID(teamID) {
		return apperrors.NewNotFound("team", details)
	}
	if err := s.teams.Delete(ctx, ownerID, teamID); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return apperrors.NewConflict("team is still used by a project", details)
		}
		return notFoundOr(err, "team", details)
	}
	return nil
}

// buildMembers validates inputs in order. existing is nil on create.
func buildMembers(existing *domain.Team, inputs []TeamMemberInput) ([]domain.TeamMember, error) {
	members := make([]domain.TeamMember, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))

	for i, in := range inputs {
		member := domain.TeamMember{
			Name:     strings.TrimSpace(in.Name),
			Role:     strings.TrimSpace(in.Role),
			Capacity: domain.DefaultCapacity,
		}
		if member.Name == "" || member.Role == "" {
			return nil, apperrors.NewValidationError("member name and role are required", map[string]any{"index": i})
		}
		if in.Capacity != nil {
			member.Capacity = *in.Capacity
		}
		if member.Capacity < domain.MinCapacity || member.Capacity > domain.MaxCapacity {
			return nil, apperrors.NewValidationError("member capacity out of range", map[string]any{
				"index": i,
				"min":   domain.MinCapacity,
				"max":   domain.MaxCapacity,
			})
		}

		if id := strings.TrimSpace(in.ID); id != "" {
			if existing == nil {
				return nil, apperrors.NewValidationError("member id not allowed on create", map[string]any{"index": i})
			}
			if _, ok := existing.Member(id); !ok {
				return nil, apperrors.NewValidationError("unknown team member", map[string]any{"member_id": id})
			}
			if _, dup := seen[id]; dup {
				return nil, apperrors.NewValidationError("duplicate team member", map[string]any{"member_id": id})
			}
			seen[id] = struct{}{}
			member.ID = id
			member.TeamID = existing.ID
		}
		members = append(members, member)
	}
	return members, nil
}
