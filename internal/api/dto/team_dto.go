package dto

import (
	"time"

	"github.com/spec-kit/task-manager/internal/domain"
)

// TeamMemberRequest is one member in a team payload. Capacity defaults to 3.
type TeamMemberRequest struct {
	ID       string `json:"id,omitempty" validate:"omitempty,uuid"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,max=100"`
	Capacity *int   `json:"capacity" validate:"omitempty,min=0,max=5"`
}

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	Name    string              `json:"name" validate:"required,max=100"`
	Members []TeamMemberRequest `json:"members" validate:"dive"`
}

// UpdateTeamRequest payload. A present members list replaces the current one.
type UpdateTeamRequest struct {
	Name    *string              `json:"name" validate:"omitempty,min=1,max=100"`
	Members *[]TeamMemberRequest `json:"members" validate:"omitempty,dive"`
}

// TeamMemberResponse view.
type TeamMemberResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Capacity int    `json:"capacity"`
}

// TeamResponse view.
type TeamResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Members   []TeamMemberResponse `json:"members"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// NewTeamResponse maps a team.
func NewTeamResponse(team *domain.Team) TeamResponse {
	members := make([]TeamMemberResponse, 0, len(team.Members))
	for _, m := range team.Members {
		members = append(members, TeamMemberResponse{
			ID:       m.ID,
			Name:     m.Name,
			Role:     m.Role,
			Capacity: m.Capacity,
		})
	}
	return TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		Members:   members,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}
}
