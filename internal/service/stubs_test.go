package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-manager/internal/domain"
	"github.com/spec-kit/task-manager/internal/repository"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*domain.User{}}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type stubTeamRepo struct {
	teams    map[string]*domain.Team
	inUse    map[string]bool
	order    []string
	failWith error
}

func newStubTeamRepo() *stubTeamRepo {
	return &stubTeamRepo{teams: map[string]*domain.Team{}, inUse: map[string]bool{}}
}

func (r *stubTeamRepo) put(team *domain.Team) {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	for i := range team.Members {
		if team.Members[i].ID == "" {
			team.Members[i].ID = uuid.NewString()
		}
		team.Members[i].TeamID = team.ID
	}
	if _, ok := r.teams[team.ID]; !ok {
		r.order = append(r.order, team.ID)
	}
	copied := cloneTeam(team)
	r.teams[team.ID] = copied
}

func (r *stubTeamRepo) Create(_ context.Context, team *domain.Team) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.put(team)
	return nil
}

func (r *stubTeamRepo) Update(_ context.Context, team *domain.Team) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.teams[team.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.put(team)
	return nil
}

func (r *stubTeamRepo) Delete(_ context.Context, ownerID, id string) error {
	team, ok := r.teams[id]
	if !ok || team.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	if r.inUse[id] {
		return repository.ErrInUse
	}
	delete(r.teams, id)
	return nil
}

func (r *stubTeamRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Team, error) {
	team, ok := r.teams[id]
	if !ok || team.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	return cloneTeam(team), nil
}

func (r *stubTeamRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Team, error) {
	var result []domain.Team
	for _, id := range r.order {
		if team, ok := r.teams[id]; ok && team.OwnerID == ownerID {
			result = append(result, *cloneTeam(team))
		}
	}
	return result, nil
}

func cloneTeam(team *domain.Team) *domain.Team {
	copied := *team
	copied.Members = append([]domain.TeamMember(nil), team.Members...)
	return &copied
}

type stubProjectRepo struct {
	projects map[string]*domain.Project
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: map[string]*domain.Project{}}
}

func (r *stubProjectRepo) Create(_ context.Context, project *domain.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	copied := *project
	r.projects[project.ID] = &copied
	return nil
}

func (r *stubProjectRepo) Update(_ context.Context, project *domain.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *project
	r.projects[project.ID] = &copied
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, ownerID, id string) error {
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	delete(r.projects, id)
	return nil
}

func (r *stubProjectRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (r *stubProjectRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Project, error) {
	var result []domain.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProjectRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	list, _ := r.ListByOwner(ctx, ownerID)
	return len(list), nil
}

// stubTaskRepo keeps tasks in insertion order, which stands in for created_at.
type stubTaskRepo struct {
	mu       sync.Mutex
	tasks    []*domain.Task
	logs     *stubActivityRepo
	reassign int
	// failAfter makes Reassign fail once that many calls succeeded; negative disables.
	failAfter int
	onList    func()
	// afterList runs once the open tasks of a pass have been read.
	afterList func()
}

func newStubTaskRepo(logs *stubActivityRepo) *stubTaskRepo {
	return &stubTaskRepo{logs: logs, failAfter: -1}
}

func (r *stubTaskRepo) find(ownerID, id string) (*domain.Task, bool) {
	for _, t := range r.tasks {
		if t.ID == id && t.OwnerID == ownerID {
			return t, true
		}
	}
	return nil, false
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now()
	copied := *task
	r.tasks = append(r.tasks, &copied)
	return nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.find(task.OwnerID, task.ID)
	if !ok {
		return pgx.ErrNoRows
	}
	*stored = *task
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.ID == id && t.OwnerID == ownerID {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *stubTaskRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.find(ownerID, id)
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *stubTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Task
	for i := len(r.tasks) - 1; i >= 0; i-- {
		t := r.tasks[i]
		if t.OwnerID != filter.OwnerID {
			continue
		}
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Unassigned && t.AssignedMemberID != nil {
			continue
		}
		if filter.MemberID != nil && !t.AssignedTo(*filter.MemberID) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.ExcludeStatus != nil && t.Status == *filter.ExcludeStatus {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (r *stubTaskRepo) ListOpenByProject(_ context.Context, ownerID, projectID string) ([]domain.Task, error) {
	if r.onList != nil {
		r.onList()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID && t.ProjectID == projectID && t.IsOpen() {
			result = append(result, *t)
		}
	}
	if r.afterList != nil {
		r.mu.Unlock()
		r.afterList()
		r.mu.Lock()
	}
	return result, nil
}

func (r *stubTaskRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

var errCommitFailed = errors.New("stub: commit failed")

func (r *stubTaskRepo) Reassign(_ context.Context, task *domain.Task, fromMemberID string, entry *domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAfter >= 0 && r.reassign >= r.failAfter {
		return errCommitFailed
	}
	stored, ok := r.find(task.OwnerID, task.ID)
	if !ok || !stored.IsOpen() || !stored.AssignedTo(fromMemberID) {
		return repository.ErrStale
	}
	to := *task.AssignedMemberID
	stored.AssignedMemberID = &to
	r.reassign++
	if r.logs != nil {
		return r.logs.Create(context.Background(), entry)
	}
	return nil
}

// edit changes a stored task in place, as a concurrent request would.
func (r *stubTaskRepo) edit(id string, fn func(*domain.Task)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id {
			fn(t)
		}
	}
}

func (r *stubTaskRepo) statusOf(id string) domain.TaskStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id {
			return t.Status
		}
	}
	return ""
}

func (r *stubTaskRepo) assigneeOf(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id && t.AssignedMemberID != nil {
			return *t.AssignedMemberID
		}
	}
	return ""
}

type stubActivityRepo struct {
	mu      sync.Mutex
	entries []domain.ActivityLog
	limits  []int
}

func (r *stubActivityRepo) Create(_ context.Context, entry *domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.NewString()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubActivityRepo) ListByOwner(_ context.Context, ownerID string, limit int) ([]domain.ActivityLog, error) {
	return r.list(limit, func(e domain.ActivityLog) bool { return e.OwnerID == ownerID })
}

func (r *stubActivityRepo) ListByProject(_ context.Context, ownerID, projectID string, limit int) ([]domain.ActivityLog, error) {
	return r.list(limit, func(e domain.ActivityLog) bool {
		return e.OwnerID == ownerID && e.ProjectID == projectID
	})
}

func (r *stubActivityRepo) list(limit int, keep func(domain.ActivityLog) bool) ([]domain.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits = append(r.limits, limit)
	var result []domain.ActivityLog
	for _, e := range r.entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Timestamp.After(result[j].Timestamp) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// fixture wires a single owner with one team and one project.
type fixture struct {
	ownerID  string
	team     *domain.Team
	project  *domain.Project
	teams    *stubTeamRepo
	projects *stubProjectRepo
	tasks    *stubTaskRepo
	logs     *stubActivityRepo
}

func newFixture(members ...domain.TeamMember) *fixture {
	f := &fixture{
		ownerID:  uuid.NewString(),
		teams:    newStubTeamRepo(),
		projects: newStubProjectRepo(),
		logs:     &stubActivityRepo{},
	}
	f.tasks = newStubTaskRepo(f.logs)

	f.team = &domain.Team{OwnerID: f.ownerID, Name: "Core", Members: members}
	f.teams.put(f.team)
	f.project = &domain.Project{OwnerID: f.ownerID, TeamID: f.team.ID, Name: "Launch"}
	_ = f.projects.Create(context.Background(), f.project)
	return f
}

func (f *fixture) member(name string) domain.TeamMember {
	for _, m := range f.team.Members {
		if m.Name == name {
			return m
		}
	}
	panic("unknown member " + name)
}

// addTask stores a task in the fixture project assigned to the named member ("" for none).
func (f *fixture) addTask(title, assignee string, priority domain.TaskPriority, status domain.TaskStatus) *domain.Task {
	task := &domain.Task{
		OwnerID:   f.ownerID,
		ProjectID: f.project.ID,
		Title:     title,
		Priority:  priority,
		Status:    status,
	}
	if assignee != "" {
		id := f.member(assignee).ID
		task.AssignedMemberID = &id
	}
	_ = f.tasks.Create(context.Background(), task)
	return task
}

func teamMember(name string, capacity int) domain.TeamMember {
	return domain.TeamMember{Name: name, Role: "Engineer", Capacity: capacity}
}

var (
	_ repository.UserRepository        = (*stubUserRepo)(nil)
	_ repository.TeamRepository        = (*stubTeamRepo)(nil)
	_ repository.ProjectRepository     = (*stubProjectRepo)(nil)
	_ repository.TaskRepository        = (*stubTaskRepo)(nil)
	_ repository.ActivityLogRepository = (*stubActivityRepo)(nil)
)
