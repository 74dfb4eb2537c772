package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-manager/internal/api/dto"
	"github.com/spec-kit/task-manager/internal/auth"
	"github.com/spec-kit/task-manager/internal/service"
)

// ProjectsHandler manages project endpoints.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// ListProjects GET /api/projects.
func (h *ProjectsHandler) ListProjects(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	projects, err := h.service.ListProjects(c.UserContext(), principal.OwnerID())
	if err != nil {
		return err
	}
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, dto.NewProjectResponse(&projects[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetProject GET /api/projects/:id.
func (h *ProjectsHandler) GetProject(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	project, err := h.service.GetProject(c.UserContext(), principal.OwnerID(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// CreateProject POST /api/projects.
func (h *ProjectsHandler) CreateProject(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateProjectRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	project, err := h.service.CreateProject(c.UserContext(), principal.OwnerID(), service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.Team,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// UpdateProject PUT /api/projects/:id.
func (h *ProjectsHandler) UpdateProject(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProjectRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	project, err := h.service.UpdateProject(c.UserContext(), principal.OwnerID(), c.Params("id"), service.ProjectUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.Team,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// DeleteProject DELETE /api/projects/:id. Tasks of the project go with it.
func (h *ProjectsHandler) DeleteProject(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteProject(c.UserContext(), principal.OwnerID(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "project deleted"}})
}
