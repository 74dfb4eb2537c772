package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/task-manager/internal/domain"
	"github.com/spec-kit/task-manager/internal/events"
	"github.com/spec-kit/task-manager/internal/lock"
	"github.com/spec-kit/task-manager/internal/observability"
	"github.com/spec-kit/task-manager/internal/repository"
	"github.com/spec-kit/task-manager/internal/workload"
	apperrors "github.com/spec-kit/task-manager/pkg/util/errorutil"
)

// ReassignResult summarizes one reassignment pass.
type ReassignResult struct {
	MovedCount    int
	Reassignments []domain.ReassignmentRecord
}

// ReassignmentService moves open tasks off overloaded members of a project team.
type ReassignmentService struct {
	projects   repository.ProjectRepository
	teams      repository.TeamRepository
	tasks      repository.TaskRepository
	locker     lock.Locker
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// ReassignmentDependencies bundles collaborators.
type ReassignmentDependencies struct {
	ProjectRepo repository.ProjectRepository
	TeamRepo    repository.TeamRepository
	TaskRepo    repository.TaskRepository
	Locker      lock.Locker
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewReassignmentService creates the service. A nil Locker falls back to an
// in-process one.
func NewReassignmentService(deps ReassignmentDependencies) *ReassignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}
	return &ReassignmentService{
		projects:   deps.ProjectRepo,
		teams:      deps.TeamRepo,
		tasks:      deps.TaskRepo,
		locker:     locker,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

func reassignLockKey(projectID string) string {
	return "reassign:" + projectID
}

// Reassign runs one pass for the project. Each move is stored together with
// its activity log entry. When a move fails to persist the pass stops: the
// result still lists the moves that were stored and the error carries them
// in its details.
func (s *ReassignmentService) Reassign(ctx context.Context, ownerID, projectID string) (*ReassignResult, error) {
	if !validID(projectID) {
		return nil, apperrors.NewNotFound("project", map[string]any{"project_id": projectID})
	}

	release, err := s.locker.Acquire(ctx, reassignLockKey(projectID))
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			return nil, apperrors.NewConflict("reassignment already in progress", map[string]any{"project_id": projectID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	defer release()

	project, team, err := loadProjectTeam(ctx, s.projects, s.teams, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListOpenByProject(ctx, ownerID, project.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	commit := func(ctx context.Context, move workload.Move) error {
		task := move.Task
		entry := &domain.ActivityLog{
			OwnerID:    ownerID,
			TaskID:     task.ID,
			ProjectID:  project.ID,
			TaskTitle:  task.Title,
			FromMember: move.From.Name,
			ToMember:   move.To.Name,
			Timestamp:  s.now(),
		}
		return s.tasks.Reassign(ctx, &task, move.From.ID, entry)
	}

	moves, passErr := workload.Rebalance(ctx, team.Members, tasks, commit)

	result := &ReassignResult{
		MovedCount:    len(moves),
		Reassignments: make([]domain.ReassignmentRecord, 0, len(moves)),
	}
	for _, move := range moves {
		record := move.Record()
		result.Reassignments = append(result.Reassignments, record)
		s.logger.Debug("task reassigned",
			zap.String("task_id", record.TaskID),
			zap.String("from", record.From),
			zap.String("to", record.To))
		s.publish(ctx, ownerID, project.ID, events.EventTaskReassigned, events.TaskReassignedPayload{
			TaskID:     record.TaskID,
			TaskTitle:  record.TaskTitle,
			FromMember: record.From,
			ToMember:   record.To,
		})
	}

	s.metrics.RecordReassignment(result.MovedCount, passErr != nil)
	s.publish(ctx, ownerID, project.ID, events.EventReassignmentCompleted, events.ReassignmentCompletedPayload{
		MovedCount: result.MovedCount,
		Partial:    passErr != nil,
	})

	if passErr != nil {
		s.logger.Error("reassignment stopped",
			zap.String("project_id", project.ID),
			zap.Int("moved", result.MovedCount),
			zap.Error(passErr))
		return result, stoppedError(result, passErr)
	}

	s.logger.Info("reassignment completed",
		zap.String("project_id", project.ID),
		zap.Int("moved", result.MovedCount),
		zap.Int("open_tasks", len(tasks)))
	return result, nil
}

// stoppedError reports an interrupted pass. A task edited while the pass ran
// is a Conflict; any other storage failure is Internal.
func stoppedError(result *ReassignResult, cause error) error {
	code, status := apperrors.CodeInternal, http.StatusInternalServerError
	message := fmt.Sprintf("reassignment stopped after %d task(s)", result.MovedCount)
	if errors.Is(cause, repository.ErrStale) {
		code, status = apperrors.CodeConflict, http.StatusConflict
		message = fmt.Sprintf("task changed during reassignment; stopped after %d task(s)", result.MovedCount)
	}
	return &apperrors.DomainError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Details: map[string]any{
			"moved_count":   result.MovedCount,
			"reassignments": result.Reassignments,
		},
		Err: cause,
	}
}

func (s *ReassignmentService) publish(ctx context.Context, ownerID, projectID string, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		OwnerID:   ownerID,
		ProjectID: projectID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
