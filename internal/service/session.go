package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/timer"
)

// SessionService backfills, lists and deletes sessions.
type SessionService struct {
	env *env
}

// LogPast records a finished session covering [start, end].
func (s *SessionService) LogPast(ctx context.Context, projectName string, start, end time.Time) (SessionView, error) {
	e := s.env
	p, err := e.findProject(ctx, projectName)
	if err != nil {
		return SessionView{}, err
	}

	ws, err := timer.NewLogged(e.newID(), p.ID, start, end)
	if err != nil {
		return SessionView{}, err
	}
	if err := e.store.CreateSession(ctx, ws); err != nil {
		return SessionView{}, fmt.Errorf("failed to save session: %w", err)
	}
	return e.sessionView(ctx, ws, p, e.now())
}

// LogDuration records a finished session of the given "H:MM" (or "2h30m")
// length ending at end. A zero end means now. Invalid input creates nothing.
func (s *SessionService) LogDuration(ctx context.Context, projectName string, end time.Time, input string) (SessionView, error) {
	d, err := entry.ParseDuration(input)
	if err != nil {
		return SessionView{}, err
	}
	if end.IsZero() {
		end = s.env.now()
	}
	return s.LogPast(ctx, projectName, end.Add(-d), end)
}

// List returns the sessions of a project, or of every project when the name
// is empty, ordered by start.
func (s *SessionService) List(ctx context.Context, projectName string) ([]SessionView, error) {
	e := s.env
	at := e.now()

	if strings.TrimSpace(projectName) != "" {
		p, err := e.findProject(ctx, projectName)
		if err != nil {
			return nil, err
		}
		sessions, err := e.store.ListSessionsByProject(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load sessions: %w", err)
		}
		views := make([]SessionView, 0, len(sessions))
		for _, ws := range sessions {
			v, err := e.sessionView(ctx, ws, p, at)
			if err != nil {
				return nil, err
			}
			views = append(views, v)
		}
		return views, nil
	}

	projects, err := e.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	byID := make(map[string]entry.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	sessions, err := e.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	views := make([]SessionView, 0, len(sessions))
	for _, ws := range sessions {
		v, err := e.sessionView(ctx, ws, byID[ws.ProjectID], at)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Get returns the session with the given id or unique id prefix.
func (s *SessionService) Get(ctx context.Context, id string) (SessionView, error) {
	e := s.env
	ws, err := resolveSession(ctx, e, id)
	if err != nil {
		return SessionView{}, err
	}
	p, err := e.store.GetProject(ctx, ws.ProjectID)
	if err != nil {
		return SessionView{}, fmt.Errorf("failed to load project: %w", err)
	}
	return e.sessionView(ctx, ws, p, e.now())
}

// Delete removes a session by id or unique id prefix. Its reminders are
// cancelled, and the live display is cleared when it was open.
func (s *SessionService) Delete(ctx context.Context, id string) (timer.Session, error) {
	e := s.env
	ws, err := resolveSession(ctx, e, id)
	if err != nil {
		return timer.Session{}, err
	}

	e.cancelReminders(ws.ID)
	if err := e.store.DeleteSession(ctx, ws.ID); err != nil {
		return timer.Session{}, fmt.Errorf("failed to delete session: %w", err)
	}
	if ws.IsOpen() {
		e.clearLive(ctx, ws.ID)
	}
	return ws, nil
}
