package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/timer"
)

// MemoryStore is a Store held in process memory. It enforces the same
// constraints as SQLiteStore and backs tests and dry runs.
type MemoryStore struct {
	state *memState
	inTx  bool
}

type memState struct {
	mu   sync.Mutex
	txMu sync.Mutex

	categories map[string]entry.Category
	projects   map[string]entry.Project
	sessions   map[string]timer.Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memState{
		categories: make(map[string]entry.Category),
		projects:   make(map[string]entry.Project),
		sessions:   make(map[string]timer.Session),
	}}
}

func (s *MemoryStore) Close() error { return nil }

// WithTx runs fn and rolls every change back if it returns an error.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.state.txMu.Lock()
	defer s.state.txMu.Unlock()

	s.state.mu.Lock()
	categories, projects, sessions := s.state.clone()
	s.state.mu.Unlock()

	if err := fn(&MemoryStore{state: s.state, inTx: true}); err != nil {
		s.state.mu.Lock()
		s.state.categories, s.state.projects, s.state.sessions = categories, projects, sessions
		s.state.mu.Unlock()
		return err
	}
	return nil
}

func (st *memState) clone() (map[string]entry.Category, map[string]entry.Project, map[string]timer.Session) {
	categories := make(map[string]entry.Category, len(st.categories))
	for k, v := range st.categories {
		categories[k] = v
	}
	projects := make(map[string]entry.Project, len(st.projects))
	for k, v := range st.projects {
		projects[k] = copyProject(v)
	}
	sessions := make(map[string]timer.Session, len(st.sessions))
	for k, v := range st.sessions {
		sessions[k] = copySession(v)
	}
	return categories, projects, sessions
}

// Categories

func (s *MemoryStore) CreateCategory(ctx context.Context, c entry.Category) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.categories[c.ID]; exists {
		return fmt.Errorf("%w: category id %s", ErrDuplicateName, c.ID)
	}
	if st.categoryNameTaken(c.Name, "") {
		return fmt.Errorf("%w: %s", ErrDuplicateName, c.Name)
	}
	st.categories[c.ID] = c
	return nil
}

func (s *MemoryStore) UpdateCategory(ctx context.Context, c entry.Category) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	existing, ok := st.categories[c.ID]
	if !ok {
		return ErrNotFound
	}
	if st.categoryNameTaken(c.Name, c.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateName, c.Name)
	}
	c.CreatedAt = existing.CreatedAt
	st.categories[c.ID] = c
	return nil
}

func (s *MemoryStore) DeleteCategory(ctx context.Context, id string) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.categories[id]; !ok {
		return ErrNotFound
	}
	for _, p := range st.projects {
		if p.CategoryID != nil && *p.CategoryID == id {
			return ErrCategoryInUse
		}
	}
	delete(st.categories, id)
	return nil
}

func (s *MemoryStore) GetCategory(ctx context.Context, id string) (entry.Category, error) {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	c, ok := st.categories[id]
	if !ok {
		return entry.Category{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) FindCategoryByName(ctx context.Context, name string) (entry.Category, error) {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, c := range st.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return entry.Category{}, ErrNotFound
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]entry.Category, error) {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	categories := make([]entry.Category, 0, len(st.categories))
	for _, c := range st.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (st *memState) categoryNameTaken(name, exceptID string) bool {
	for _, c := range st.categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

// Projects

func (s *MemoryStore) CreateProject(ctx context.Context, p entry.Project) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.projects[p.ID]; exists {
		return fmt.Errorf("%w: project id %s", ErrDuplicateName, p.ID)
	}
	if st.projectNameTaken(p.Name, "") {
		return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
	}
	if err := st.checkCategory(p.CategoryID); err != nil {
		return err
	}
	st.projects[p.ID] = copyProject(p)
	return nil
}

func (s *MemoryStore) UpdateProject(ctx context.Context, p entry.Project) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	existing, ok := st.projects[p.ID]
	if !ok {
		return ErrNotFound
	}
	if st.projectNameTaken(p.Name, p.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
	}
	if err := st.checkCategory(p.CategoryID); err != nil {
		return err
	}
	p.CreatedAt = existing.CreatedAt
	st.projects[p.ID] = copyProject(p)
	return nil
}

func (s *MemoryStore) DeleteProject(ctx context.Context, id string) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.projects[id]; !ok {
		return ErrNotFound
	}
	delete(st.projects, id)
	for sid, ws := range st.sessions {
		if ws.ProjectID == id {
			delete(st.sessions, sid)
		}
	}
	return nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id string) (entry.Project, error) {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.projects[id]
	if !ok {
		return entry.Project{}, ErrNotFound
	}
	return copyProject(p), nil
}

func (s *MemoryStore) FindProjectByName(ctx context.Context, name string) (entry.Project, error) {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, p := range st.projects {
		if p.Name == name {
			return copyProject(p), nil
		}
	}
	return entry.Project{}, ErrNotFound
}

func (s *MemoryStore) ListProjects(ctx context.Context) ([]entry.Project, error) {
	return s.listProjects(func(entry.Project) bool { return true }), nil
}

func (s *MemoryStore) ListProjectsByCategory(ctx context.Context, categoryID string) ([]entry.Project, error) {
	return s.listProjects(func(p entry.Project) bool {
		return p.CategoryID != nil && *p.CategoryID == categoryID
	}), nil
}

func (s *MemoryStore) listProjects(keep func(entry.Project) bool) []entry.Project {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	projects := []entry.Project{}
	for _, p := range st.projects {
		if keep(p) {
			projects = append(projects, copyProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects
}

func (st *memState) projectNameTaken(name, exceptID string) bool {
	for _, p := range st.projects {
		if p.Name == name && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (st *memState) checkCategory(id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, ok := st.categories[*id]; !ok {
		return fmt.Errorf("category: %w", ErrNotFound)
	}
	return nil
}

// Sessions

func (s *MemoryStore) CreateSession(ctx context.Context, ws timer.Session) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.sessions[ws.ID]; exists {
		return fmt.Errorf("%w: session id %s", ErrDuplicateName, ws.ID)
	}
	if _, ok := st.projects[ws.ProjectID]; !ok {
		return fmt.Errorf("project: %w", ErrNotFound)
	}
	st.sessions[ws.ID] = copySession(ws)
	return nil
}

func (s *MemoryStore) UpdateSession(ctx context.Context, ws timer.Session) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[ws.ID]; !ok {
		return ErrNotFound
	}
	if _, ok := st.projects[ws.ProjectID]; !ok {
		return fmt.Errorf("project: %w", ErrNotFound)
	}
	st.sessions[ws.ID] = copySession(ws)
	return nil
}

func (s *MemoryStore) DeleteSession(ctx context.Context, id string) error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (s *MemoryStore) GetSession(ctx context.Context, id string) (timer.Session, error) {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	ws, ok := st.sessions[id]
	if !ok {
		return timer.Session{}, ErrNotFound
	}
	return copySession(ws), nil
}

func (s *MemoryStore) ListSessionsByProject(ctx context.Context, projectID string) ([]timer.Session, error) {
	return s.listSessions(func(ws timer.Session) bool { return ws.ProjectID == projectID }), nil
}

func (s *MemoryStore) ListSessionsInRange(ctx context.Context, from, to time.Time) ([]timer.Session, error) {
	return s.listSessions(func(ws timer.Session) bool {
		return !ws.Start.Before(from) && ws.Start.Before(to)
	}), nil
}

func (s *MemoryStore) ListSessions(ctx context.Context) ([]timer.Session, error) {
	return s.listSessions(func(timer.Session) bool { return true }), nil
}

func (s *MemoryStore) ListOpenSessions(ctx context.Context) ([]timer.Session, error) {
	return s.listSessions(func(ws timer.Session) bool { return ws.End == nil }), nil
}

func (s *MemoryStore) listSessions(keep func(timer.Session) bool) []timer.Session {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	sessions := []timer.Session{}
	for _, ws := range st.sessions {
		if keep(ws) {
			sessions = append(sessions, copySession(ws))
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].Start.Equal(sessions[j].Start) {
			return sessions[i].Start.Before(sessions[j].Start)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions
}

func copyProject(p entry.Project) entry.Project {
	if p.CategoryID != nil && *p.CategoryID == "" {
		p.CategoryID = nil
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		p.CategoryID = &id
	}
	return p
}

func copySession(ws timer.Session) timer.Session {
	if ws.End != nil {
		end := *ws.End
		ws.End = &end
	}
	if ws.LastResume != nil {
		resume := *ws.LastResume
		ws.LastResume = &resume
	}
	return ws
}
