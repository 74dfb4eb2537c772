package http

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-manager/internal/domain"
	"github.com/spec-kit/task-manager/internal/repository"
)

// memStore backs every repository with maps so routes can run end to end.
type memStore struct {
	mu       sync.Mutex
	users    map[string]domain.User
	teams    map[string]domain.Team
	projects map[string]domain.Project
	tasks    []domain.Task
	logs     []domain.ActivityLog
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]domain.User{},
		teams:    map[string]domain.Team{},
		projects: map[string]domain.Project{},
	}
}

type (
	memUsers    struct{ *memStore }
	memTeams    struct{ *memStore }
	memProjects struct{ *memStore }
	memTasks    struct{ *memStore }
	memLogs     struct{ *memStore }
)

var (
	_ repository.UserRepository        = memUsers{}
	_ repository.TeamRepository        = memTeams{}
	_ repository.ProjectRepository     = memProjects{}
	_ repository.TaskRepository        = memTasks{}
	_ repository.ActivityLogRepository = memLogs{}
)

func (s memUsers) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	s.users[user.ID] = *user
	return nil
}

func (s memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s memTeams) save(team *domain.Team) {
	for i := range team.Members {
		if team.Members[i].ID == "" {
			team.Members[i].ID = uuid.NewString()
		}
		team.Members[i].TeamID = team.ID
	}
	stored := *team
	stored.Members = append([]domain.TeamMember(nil), team.Members...)
	s.teams[team.ID] = stored
}

func (s memTeams) Create(_ context.Context, team *domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team.ID = uuid.NewString()
	team.CreatedAt = time.Now()
	s.save(team)
	return nil
}

func (s memTeams) Update(_ context.Context, team *domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[team.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.save(team)
	return nil
}

func (s memTeams) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok || t.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	for _, p := range s.projects {
		if p.TeamID == id {
			return repository.ErrInUse
		}
	}
	delete(s.teams, id)
	return nil
}

func (s memTeams) GetByID(_ context.Context, ownerID, id string) (*domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok || t.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	t.Members = append([]domain.TeamMember(nil), t.Members...)
	return &t, nil
}

func (s memTeams) ListByOwner(_ context.Context, ownerID string) ([]domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Team
	for _, t := range s.teams {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s memProjects) Create(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	s.projects[p.ID] = *p
	return nil
}

func (s memProjects) Update(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = *p
	return nil
}

func (s memProjects) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok || p.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	delete(s.projects, id)
	return nil
}

func (s memProjects) GetByID(_ context.Context, ownerID, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (s memProjects) ListByOwner(_ context.Context, ownerID string) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Project
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s memProjects) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	list, err := s.ListByOwner(ctx, ownerID)
	return len(list), err
}

func (s memTasks) Create(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	s.tasks = append(s.tasks, *t)
	return nil
}

func (s memTasks) Update(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID && s.tasks[i].OwnerID == t.OwnerID {
			s.tasks[i] = *t
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s memTasks) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id && s.tasks[i].OwnerID == ownerID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s memTasks) GetByID(_ context.Context, ownerID, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id && t.OwnerID == ownerID {
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s memTasks) List(_ context.Context, f repository.TaskFilter) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Task
	for i := len(s.tasks) - 1; i >= 0; i-- {
		t := s.tasks[i]
		switch {
		case t.OwnerID != f.OwnerID,
			f.ProjectID != nil && t.ProjectID != *f.ProjectID,
			f.Unassigned && t.AssignedMemberID != nil,
			f.MemberID != nil && !t.AssignedTo(*f.MemberID),
			f.Status != nil && t.Status != *f.Status,
			f.ExcludeStatus != nil && t.Status == *f.ExcludeStatus:
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s memTasks) ListOpenByProject(_ context.Context, ownerID, projectID string) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Task
	for _, t := range s.tasks {
		if t.OwnerID == ownerID && t.ProjectID == projectID && t.IsOpen() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s memTasks) CountByOwner(_ context.Context, ownerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s memTasks) Reassign(ctx context.Context, t *domain.Task, fromMemberID string, entry *domain.ActivityLog) error {
	s.mu.Lock()
	moved := false
	for i := range s.tasks {
		stored := &s.tasks[i]
		if stored.ID == t.ID && stored.OwnerID == t.OwnerID && stored.IsOpen() && stored.AssignedTo(fromMemberID) {
			to := *t.AssignedMemberID
			stored.AssignedMemberID = &to
			moved = true
		}
	}
	s.mu.Unlock()
	if !moved {
		return repository.ErrStale
	}
	return memLogs(s).Create(ctx, entry)
}

func (s memLogs) Create(_ context.Context, entry *domain.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = uuid.NewString()
	s.logs = append(s.logs, *entry)
	return nil
}

func (s memLogs) ListByOwner(_ context.Context, ownerID string, limit int) ([]domain.ActivityLog, error) {
	return s.list(limit, func(e domain.ActivityLog) bool { return e.OwnerID == ownerID })
}

func (s memLogs) ListByProject(_ context.Context, ownerID, projectID string, limit int) ([]domain.ActivityLog, error) {
	return s.list(limit, func(e domain.ActivityLog) bool { return e.OwnerID == ownerID && e.ProjectID == projectID })
}

func (s memLogs) list(limit int, keep func(domain.ActivityLog) bool) ([]domain.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ActivityLog
	for i := len(s.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if keep(s.logs[i]) {
			out = append(out, s.logs[i])
		}
	}
	return out, nil
}
