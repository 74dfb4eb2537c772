package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-manager/internal/domain"
)

// DefaultActivityLimit applies when a caller asks for no particular page size.
const DefaultActivityLimit = 10

// ActivityLogRepository stores reassignment audit entries. Entries are never
// updated or deleted.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.ActivityLog, error)
	ListByProject(ctx context.Context, ownerID, projectID string, limit int) ([]domain.ActivityLog, error)
}

type activityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository builds repository.
func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	return insertActivityLog(ctx, r.pool, entry)
}

func insertActivityLog(ctx context.Context, q queryRower, entry *domain.ActivityLog) error {
	const query = `
        INSERT INTO activity_logs (owner_id, task_id, project_id, task_title, from_member, to_member, timestamp)
        VALUES ($1,$2,$3,$4,$5,$6,COALESCE($7::timestamptz, NOW()))
        RETURNING id, timestamp`
	return q.QueryRow(ctx, query,
		entry.OwnerID,
		entry.TaskID,
		entry.ProjectID,
		entry.TaskTitle,
		entry.FromMember,
		entry.ToMember,
		loggedAt(entry.Timestamp),
	).Scan(&entry.ID, &entry.Timestamp)
}

// loggedAt leaves an unset timestamp to the database clock.
func loggedAt(ts time.Time) *time.Time {
	if ts.IsZero() {
		return nil
	}
	return &ts
}

func (r *activityLogRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.ActivityLog, error) {
	const query = `
        SELECT id, owner_id, task_id, project_id, task_title, from_member, to_member, timestamp
        FROM activity_logs WHERE owner_id=$1 ORDER BY timestamp DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, ownerID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivityLogs(rows)
}

func (r *activityLogRepository) ListByProject(ctx context.Context, ownerID, projectID string, limit int) ([]domain.ActivityLog, error) {
	const query = `
        SELECT id, owner_id, task_id, project_id, task_title, from_member, to_member, timestamp
        FROM activity_logs WHERE owner_id=$1 AND project_id=$2 ORDER BY timestamp DESC LIMIT $3`
	rows, err := r.pool.Query(ctx, query, ownerID, projectID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivityLogs(rows)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultActivityLimit
	}
	return limit
}

func scanActivityLogs(rows pgx.Rows) ([]domain.ActivityLog, error) {
	var result []domain.ActivityLog
	for rows.Next() {
		var entry domain.ActivityLog
		if err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.TaskID,
			&entry.ProjectID,
			&entry.TaskTitle,
			&entry.FromMember,
			&entry.ToMember,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
