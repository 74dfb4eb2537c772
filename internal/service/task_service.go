package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/task-manager/internal/domain"
	"github.com/spec-kit/task-manager/internal/events"
	"github.com/spec-kit/task-manager/internal/observability"
	"github.com/spec-kit/task-manager/internal/repository"
	"github.com/spec-kit/task-manager/internal/workload"
	apperrors "github.com/spec-kit/task-manager/pkg/util/errorutil"
)

// UnassignedFilter selects tasks without a member in ListTasks.
const UnassignedFilter = "unassigned"

// TaskService coordinates task workflows, workload reads and auto-assignment.
type TaskService struct {
	tasks      repository.TaskRepository
	projects   repository.ProjectRepository
	teams      repository.TeamRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TaskDependencies bundles repositories for task service.
type TaskDependencies struct {
	TaskRepo    repository.TaskRepository
	ProjectRepo repository.ProjectRepository
	TeamRepo    repository.TeamRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// TaskListFilter holds raw query filters. Empty fields are ignored.
type TaskListFilter struct {
	ProjectID string
	Member    string
	Status    string
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	ProjectID        string
	AssignedMemberID *string
	Title            string
	Description      string
	Priority         domain.TaskPriority
	Status           domain.TaskStatus
}

// TaskUpdateInput carries optional fields. An empty AssignedMemberID unassigns.
type TaskUpdateInput struct {
	AssignedMemberID *string
	Title            *string
	Description      *string
	Priority         *domain.TaskPriority
	Status           *domain.TaskStatus
}

// NewTaskService creates the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		tasks:      deps.TaskRepo,
		projects:   deps.ProjectRepo,
		teams:      deps.TeamRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// ListTasks returns the caller's tasks, newest first.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, filter TaskListFilter) ([]domain.Task, error) {
	repoFilter := repository.TaskFilter{OwnerID: ownerID}

	if filter.ProjectID != "" {
		if !validID(filter.ProjectID) {
			return nil, apperrors.NewValidationError("invalid project filter", map[string]any{"project": filter.ProjectID})
		}
		repoFilter.ProjectID = &filter.ProjectID
	}
	switch {
	case filter.Member == UnassignedFilter:
		repoFilter.Unassigned = true
	case filter.Member != "":
		if !validID(filter.Member) {
			return nil, apperrors.NewValidationError("invalid member filter", map[string]any{"member": filter.Member})
		}
		repoFilter.MemberID = &filter.Member
	}
	if filter.Status != "" {
		status := domain.TaskStatus(filter.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": filter.Status})
		}
		repoFilter.Status = &status
	}

	tasks, err := s.tasks.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// GetTask fetches one task.
func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	details := map[string]any{"task_id": taskID}
	if !validID(taskID) {
		return nil, apperrors.NewNotFound("task", details)
	}
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, notFoundOr(err, "task", details)
	}
	return task, nil
}

// CreateTask stores a task in one of the caller's projects.
func (s *TaskService) CreateTask(ctx context.Context, ownerID string, input TaskCreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("task title is required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}
	status := input.Status
	if status == "" {
		status = domain.TaskStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	_, team, err := loadProjectTeam(ctx, s.projects, s.teams, ownerID, input.ProjectID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewValidationError("invalid project", map[string]any{"project_id": input.ProjectID})
		}
		return nil, err
	}

	task := &domain.Task{
		OwnerID:     ownerID,
		ProjectID:   input.ProjectID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Status:      status,
	}
	if input.AssignedMemberID != nil && *input.AssignedMemberID != "" {
		if err := requireMember(team, *input.AssignedMemberID); err != nil {
			return nil, err
		}
		task.AssignedMemberID = input.AssignedMemberID
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

// UpdateTask applies the provided fields.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("task title is required", nil)
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		task.Status = *input.Status
	}
	if input.AssignedMemberID != nil {
		if *input.AssignedMemberID == "" {
			task.AssignedMemberID = nil
		} else if !task.AssignedTo(*input.AssignedMemberID) {
			_, team, err := loadProjectTeam(ctx, s.projects, s.teams, ownerID, task.ProjectID)
			if err != nil {
				return nil, err
			}
			if err := requireMember(team, *input.AssignedMemberID); err != nil {
				return nil, err
			}
			memberID := *input.AssignedMemberID
			task.AssignedMemberID = &memberID
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, notFoundOr(err, "task", map[string]any{"task_id": taskID})
	}
	return task, nil
}

// DeleteTask removes a task. Activity log entries that mention it stay.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	details := map[string]any{"task_id": taskID}
	if !validID(taskID) {
		return apperrors.NewNotFound("task", details)
	}
	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return notFoundOr(err, "task", details)
	}
	return nil
}

// ComputeWorkload reports the open-task load of every member of the project's team.
func (s *TaskService) ComputeWorkload(ctx context.Context, ownerID, projectID string) ([]domain.MemberWorkload, error) {
	_, team, err := loadProjectTeam(ctx, s.projects, s.teams, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListOpenByProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return workload.Calculate(team.Members, tasks), nil
}

// AutoAssign gives the task to the least loaded member of the project's team.
func (s *TaskService) AutoAssign(ctx context.Context, ownerID, projectID, taskID string) (*domain.Task, error) {
	project, team, err := loadProjectTeam(ctx, s.projects, s.teams, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	task, err := s.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID != project.ID {
		return nil, apperrors.NewValidationError("task does not belong to project", map[string]any{
			"task_id":    taskID,
			"project_id": projectID,
		})
	}

	open, err := s.tasks.ListOpenByProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	choice, err := workload.LeastLoaded(workload.Calculate(team.Members, open))
	if err != nil {
		if errors.Is(err, workload.ErrNoMembers) || errors.Is(err, workload.ErrNoEligibleMember) {
			return nil, apperrors.NewNoMembersAvailable(map[string]any{"team_id": team.ID})
		}
		return nil, apperrors.MapError(err)
	}

	memberID := choice.MemberID
	task.AssignedMemberID = &memberID
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, notFoundOr(err, "task", map[string]any{"task_id": taskID})
	}

	s.metrics.RecordAutoAssignment()
	s.logger.Info("task auto-assigned",
		zap.String("task_id", task.ID),
		zap.String("project_id", projectID),
		zap.String("member_id", choice.MemberID))
	s.publish(ctx, ownerID, projectID, events.TaskAutoAssignedPayload{
		TaskID:     task.ID,
		MemberID:   choice.MemberID,
		MemberName: choice.Name,
	})
	return task, nil
}

func (s *TaskService) publish(ctx context.Context, ownerID, projectID string, payload events.TaskAutoAssignedPayload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventTaskAutoAssigned,
		OwnerID:   ownerID,
		ProjectID: projectID,
		Payload:   payload,
	})
}

func requireMember(team *domain.Team, memberID string) error {
	if _, ok := team.Member(memberID); !ok {
		return apperrors.NewValidationError("member does not belong to project team", map[string]any{
			"member_id": memberID,
			"team_id":   team.ID,
		})
	}
	return nil
}
