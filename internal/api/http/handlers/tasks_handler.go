package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-manager/internal/api/dto"
	"github.com/spec-kit/task-manager/internal/auth"
	"github.com/spec-kit/task-manager/internal/service"
)

// TasksHandler manages task endpoints, workload reads and assignment actions.
type TasksHandler struct {
	tasks    *service.TaskService
	reassign *service.ReassignmentService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService, reassignService *service.ReassignmentService) *TasksHandler {
	return &TasksHandler{tasks: taskService, reassign: reassignService}
}

// ListTasks GET /api/tasks?project=&member=&status=.
func (h *TasksHandler) ListTasks(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	tasks, err := h.tasks.ListTasks(c.UserContext(), principal.OwnerID(), service.TaskListFilter{
		ProjectID: c.Query("project"),
		Member:    c.Query("member"),
		Status:    c.Query("status"),
	})
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, dto.NewTaskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTask GET /api/tasks/:id.
func (h *TasksHandler) GetTask(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	task, err := h.tasks.GetTask(c.UserContext(), principal.OwnerID(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// CreateTask POST /api/tasks.
func (h *TasksHandler) CreateTask(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.UserContext(), principal.OwnerID(), service.TaskCreateInput{
		ProjectID:        req.Project,
		AssignedMemberID: req.AssignedMember,
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		Status:           req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// UpdateTask PUT /api/tasks/:id.
func (h *TasksHandler) UpdateTask(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.UpdateTask(c.UserContext(), principal.OwnerID(), c.Params("id"), service.TaskUpdateInput{
		AssignedMemberID: req.AssignedMember,
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		Status:           req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// DeleteTask DELETE /api/tasks/:id.
func (h *TasksHandler) DeleteTask(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.tasks.DeleteTask(c.UserContext(), principal.OwnerID(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "task deleted"}})
}

// Workload GET /api/tasks/workload/:projectId.
func (h *TasksHandler) Workload(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	loads, err := h.tasks.ComputeWorkload(c.UserContext(), principal.OwnerID(), c.Params("projectId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkloadResponse(loads)})
}

// AutoAssign POST /api/tasks/auto-assign/:projectId.
func (h *TasksHandler) AutoAssign(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AutoAssignRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.AutoAssign(c.UserContext(), principal.OwnerID(), c.Params("projectId"), req.TaskID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Reassign POST /api/tasks/reassign/:projectId.
func (h *TasksHandler) Reassign(c *fiber.Ctx) error {
	principal, err := auth.RequirePrincipal(c)
	if err != nil {
		return err
	}
	result, err := h.reassign.Reassign(c.UserContext(), principal.OwnerID(), c.Params("projectId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReassignResponse{
		Message:       fmt.Sprintf("%d task(s) reassigned successfully", result.MovedCount),
		MovedCount:    result.MovedCount,
		Reassignments: result.Reassignments,
	}})
}
