package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-manager/internal/api/dto"
	"github.com/spec-kit/task-manager/internal/auth"
	"github.com/spec-kit/task-manager/internal/service"
)

// ActivityHandler exposes the reassignment audit trail and the dashboard.
type ActivityHandler struct {
	activity  *service.ActivityService
	dashboard *service.DashboardService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService, dashboardService *service.DashboardService) *ActivityHandler {
	return &ActivityHandler{activity: activityService, dashboard: dashboardService}
}

// ListRecent GET /api/activity-logs?limit=.
func (h *ActivityHandler) ListRecent(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	logs, err := h.activity.ListRecent(c.UserContext(), principal.OwnerID(), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityLogResponses(logs)})
}

// ListByProject GET /api/activity-logs/project/:projectId?limit=.
func (h *ActivityHandler) ListByProject(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	logs, err := h.activity.ListByProject(c.UserContext(), principal.OwnerID(), c.Params("projectId"), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityLogResponses(logs)})
}

// DashboardStats GET /api/dashboard/stats.
func (h *ActivityHandler) DashboardStats(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	stats, err := h.dashboard.Stats(c.UserContext(), principal.OwnerID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardResponse(
		stats.TotalProjects,
		stats.TotalTasks,
		stats.TeamSummary,
		stats.RecentReassignments,
	)})
}
