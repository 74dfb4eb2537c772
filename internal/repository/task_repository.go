package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-manager/internal/domain"
)

// TaskFilter narrows owner-scoped task listings.
type TaskFilter struct {
	OwnerID       string
	ProjectID     *string
	MemberID      *string
	Unassigned    bool
	Status        *domain.TaskStatus
	ExcludeStatus *domain.TaskStatus
	Limit         int
	Offset        int
}

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, ownerID, id string) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	ListOpenByProject(ctx context.Context, ownerID, projectID string) ([]domain.Task, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	// Reassign moves task from fromMemberID to task.AssignedMemberID and
	// appends the audit entry atomically. Only the assignee column is written.
	// ErrStale means the task is no longer open and held by fromMemberID.
	Reassign(ctx context.Context, task *domain.Task, fromMemberID string, entry *domain.ActivityLog) error
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, owner_id, project_id, assigned_member_id, title, description, priority, status, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (owner_id, project_id, assigned_member_id, title, description, priority, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.OwnerID,
		task.ProjectID,
		task.AssignedMemberID,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	return updateTask(ctx, r.pool, task)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func updateTask(ctx context.Context, q queryRower, task *domain.Task) error {
	const query = `
        UPDATE tasks SET assigned_member_id=$1, title=$2, description=$3, priority=$4, status=$5, updated_at=NOW()
        WHERE id=$6 AND owner_id=$7
        RETURNING updated_at`
	return q.QueryRow(ctx, query,
		task.AssignedMemberID,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.ID,
		task.OwnerID,
	).Scan(&task.UpdatedAt)
}

func (r *taskRepository) Reassign(ctx context.Context, task *domain.Task, fromMemberID string, entry *domain.ActivityLog) error {
	const query = `
        UPDATE tasks SET assigned_member_id=$1, updated_at=NOW()
        WHERE id=$2 AND owner_id=$3 AND assigned_member_id=$4 AND status<>$5
        RETURNING updated_at`
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			task.AssignedMemberID,
			task.ID,
			task.OwnerID,
			fromMemberID,
			domain.TaskStatusDone,
		).Scan(&task.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStale
		}
		if err != nil {
			return err
		}
		return insertActivityLog(ctx, tx, entry)
	})
}

func (r *taskRepository) Delete(ctx context.Context, ownerID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1 AND owner_id=$2`
	row := r.pool.QueryRow(ctx, query, id, ownerID)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListOpenByProject returns the project's non-Done tasks in creation order,
// which is the order the balancer walks a member's tasks in.
func (r *taskRepository) ListOpenByProject(ctx context.Context, ownerID, projectID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks WHERE owner_id=$1 AND project_id=$2 AND status <> $3
        ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ownerID, projectID, domain.TaskStatusDone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	clauses := []string{"owner_id=$1"}
	args := []any{filter.OwnerID}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		clauses = append(clauses, fmt.Sprintf("project_id=$%d", len(args)))
	}
	if filter.Unassigned {
		clauses = append(clauses, "assigned_member_id IS NULL")
	} else if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		clauses = append(clauses, fmt.Sprintf("assigned_member_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.ExcludeStatus != nil {
		args = append(args, *filter.ExcludeStatus)
		clauses = append(clauses, fmt.Sprintf("status<>$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY created_at DESC`, taskColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE owner_id=$1`, ownerID).Scan(&count)
	return count, err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.ProjectID,
		&task.AssignedMemberID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	var result []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *task)
	}
	return result, rows.Err()
}
