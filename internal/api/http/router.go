package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-manager/internal/api/http/handlers"
	"github.com/spec-kit/task-manager/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Teams          *handlers.TeamsHandler
	Projects       *handlers.ProjectsHandler
	Tasks          *handlers.TasksHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)
	app.Get("/metrics", cfg.Health.Prometheus)

	api := app.Group("/api")
	api.Get("/health", cfg.Health.API)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	requireAuth := cfg.AuthMiddleware.Handle

	teams := api.Group("/teams", requireAuth)
	teams.Get("/", cfg.Teams.ListTeams)
	teams.Post("/", cfg.Teams.CreateTeam)
	teams.Get("/:id", cfg.Teams.GetTeam)
	teams.Put("/:id", cfg.Teams.UpdateTeam)
	teams.Delete("/:id", cfg.Teams.DeleteTeam)

	projects := api.Group("/projects", requireAuth)
	projects.Get("/", cfg.Projects.ListProjects)
	projects.Post("/", cfg.Projects.CreateProject)
	projects.Get("/:id", cfg.Projects.GetProject)
	projects.Put("/:id", cfg.Projects.UpdateProject)
	projects.Delete("/:id", cfg.Projects.DeleteProject)

	tasks := api.Group("/tasks", requireAuth)
	tasks.Get("/", cfg.Tasks.ListTasks)
	tasks.Post("/", cfg.Tasks.CreateTask)
	// Registered before /:id so the literal segments win.
	tasks.Get("/workload/:projectId", cfg.Tasks.Workload)
	tasks.Post("/auto-assign/:projectId", cfg.Tasks.AutoAssign)
	tasks.Post("/reassign/:projectId", cfg.Tasks.Reassign)
	tasks.Get("/:id", cfg.Tasks.GetTask)
	tasks.Put("/:id", cfg.Tasks.UpdateTask)
	tasks.Delete("/:id", cfg.Tasks.DeleteTask)

	logs := api.Group("/activity-logs", requireAuth)
	logs.Get("/", cfg.Activity.ListRecent)
	logs.Get("/project/:projectId", cfg.Activity.ListByProject)

	api.Get("/dashboard/stats", requireAuth, cfg.Activity.DashboardStats)
}
