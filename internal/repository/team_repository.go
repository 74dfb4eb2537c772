package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-manager/internal/domain"
)

// TeamRepository manages persistence for teams and their ordered members.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	Delete(ctx context.Context, ownerID, id string) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Team, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Team, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO teams (owner_id, name)
            VALUES ($1,$2)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, query, team.OwnerID, team.Name).
			Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return err
		}
		return syncMembers(ctx, tx, team)
	})
}

// Update replaces name and member list. Members keep their id when it is set;
// members missing from the list are removed and their tasks become unassigned.
func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            UPDATE teams SET name=$1, updated_at=NOW()
            WHERE id=$2 AND owner_id=$3
            RETURNING updated_at`
		if err := tx.QueryRow(ctx, query, team.Name, team.ID, team.OwnerID).Scan(&team.UpdatedAt); err != nil {
			return err
		}
		return syncMembers(ctx, tx, team)
	})
}

func syncMembers(ctx context.Context, tx pgx.Tx, team *domain.Team) error {
	keep := make([]string, 0, len(team.Members))
	for i := range team.Members {
		m := &team.Members[i]
		m.TeamID = team.ID
		if m.ID == "" {
			const insert = `
                INSERT INTO team_members (team_id, name, role, capacity, position)
                VALUES ($1,$2,$3,$4,$5)
                RETURNING id`
			if err := tx.QueryRow(ctx, insert, team.ID, m.Name, m.Role, m.Capacity, i).Scan(&m.ID); err != nil {
				return err
			}
		} else {
			const update = `
                UPDATE team_members SET name=$1, role=$2, capacity=$3, position=$4
                WHERE id=$5 AND team_id=$6`
			cmd, err := tx.Exec(ctx, update, m.Name, m.Role, m.Capacity, i, m.ID, team.ID)
			if err != nil {
				return err
			}
			if cmd.RowsAffected() == 0 {
				return pgx.ErrNoRows
			}
		}
		keep = append(keep, m.ID)
	}

	const prune = `DELETE FROM team_members WHERE team_id=$1 AND NOT (id = ANY($2::uuid[]))`
	_, err := tx.Exec(ctx, prune, team.ID, keep)
	return err
}

func (r *teamRepository) Delete(ctx context.Context, ownerID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrInUse
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Team, error) {
	const query = `
        SELECT id, owner_id, name, created_at, updated_at
        FROM teams WHERE id=$1 AND owner_id=$2`
	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&team.ID,
		&team.OwnerID,
		&team.Name,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}

	members, err := r.membersOf(ctx, []string{team.ID})
	if err != nil {
		return nil, err
	}
	team.Members = members[team.ID]
	return &team, nil
}

func (r *teamRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Team, error) {
	const query = `
        SELECT id, owner_id, name, created_at, updated_at
        FROM teams WHERE owner_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.OwnerID, &team.Name, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	ids := make([]string, len(result))
	for i := range result {
		ids[i] = result[i].ID
	}
	members, err := r.membersOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Members = members[result[i].ID]
	}
	return result, nil
}

func (r *teamRepository) membersOf(ctx context.Context, teamIDs []string) (map[string][]domain.TeamMember, error) {
	const query = `
        SELECT id, team_id, name, role, capacity
        FROM team_members WHERE team_id = ANY($1::uuid[])
        ORDER BY team_id, position ASC`
	rows, err := r.pool.Query(ctx, query, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]domain.TeamMember, len(teamIDs))
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.Name, &m.Role, &m.Capacity); err != nil {
			return nil, err
		}
		result[m.TeamID] = append(result[m.TeamID], m)
	}
	return result, rows.Err()
}
