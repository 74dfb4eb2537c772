package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-manager/internal/api/dto"
	"github.com/spec-kit/task-manager/internal/auth"
	"github.com/spec-kit/task-manager/internal/service"
)

// TeamsHandler manages team endpoints.
type TeamsHandler struct {
	service *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService) *TeamsHandler {
	return &TeamsHandler{service: teamService}
}

// ListTeams GET /api/teams.
func (h *TeamsHandler) ListTeams(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	teams, err := h.service.ListTeams(c.UserContext(), principal.OwnerID())
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, dto.NewTeamResponse(&teams[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTeam GET /api/teams/:id.
func (h *TeamsHandler) GetTeam(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	team, err := h.service.GetTeam(c.UserContext(), principal.OwnerID(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// CreateTeam POST /api/teams.
func (h *TeamsHandler) CreateTeam(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTeamRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	team, err := h.service.CreateTeam(c.UserContext(), principal.OwnerID(), service.TeamInput{
		Name:    req.Name,
		Members: memberInputs(req.Members),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// UpdateTeam PUT /api/teams/:id.
func (h *TeamsHandler) UpdateTeam(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTeamRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	input := service.TeamUpdateInput{Name: req.Name}
	if req.Members != nil {
		members := memberInputs(*req.Members)
		input.Members = &members
	}
	team, err := h.service.UpdateTeam(c.UserContext(), principal.OwnerID(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// DeleteTeam DELETE /api/teams/:id.
func (h *TeamsHandler) DeleteTeam(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTeam(c.UserContext(), principal.OwnerID(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "team deleted"}})
}

func memberInputs(reqs []dto.TeamMemberRequest) []service.TeamMemberInput {
	out := make([]service.TeamMemberInput, 0, len(reqs))
	for _, m := range reqs {
		out = append(out, service.TeamMemberInput{
			ID:       m.ID,
			Name:     m.Name,
			Role:     m.Role,
			Capacity: m.Capacity,
		})
	}
	return out
}
