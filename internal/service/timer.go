package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/live"
	"github.com/xolan/punch/internal/storage"
	"github.com/xolan/punch/internal/timer"
)

// TimerService runs session transitions. Every command follows the same
// path: load, transition, persist, then reminders and the live display.
// A failed save returns the new state together with a *PersistenceError.
type TimerService struct {
	env *env
}

// Start opens a session on the project. If the project already has an open
// session it is resumed instead (a no-op when it is already running).
func (s *TimerService) Start(ctx context.Context, projectName string) (*TransitionResult, error) {
	e := s.env
	p, err := e.findProject(ctx, projectName)
	if err != nil {
		return nil, err
	}

	open, err := s.openForProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return s.resume(ctx, *open, p)
	}

	at := e.now()
	return s.create(ctx, timer.New(e.newID(), p.ID, at), p, at)
}

// StartFromPast opens a session that began at past, with the time up to now
// already counted. The project must not have an open session.
func (s *TimerService) StartFromPast(ctx context.Context, projectName string, past time.Time) (*TransitionResult, error) {
	e := s.env
	p, err := e.findProject(ctx, projectName)
	if err != nil {
		return nil, err
	}

	open, err := s.openForProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, &timer.PreconditionError{Op: "start-from-past", State: open.State(), Err: timer.ErrOpenSession}
	}

	at := e.now()
	ws, err := timer.NewFromPast(e.newID(), p.ID, past, at)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, ws, p, at)
}

// create saves a new running session, then schedules its reminders and
// publishes it. A session that could not be saved has no id anything can
// resolve later, so it gets neither.
func (s *TimerService) create(ctx context.Context, ws timer.Session, p entry.Project, at time.Time) (*TransitionResult, error) {
	e := s.env
	if err := e.store.CreateSession(ctx, ws); err != nil {
		v, verr := e.sessionView(ctx, ws, p, at)
		if verr != nil {
			return nil, verr
		}
		return &TransitionResult{SessionView: v, Changed: true, Created: true}, &PersistenceError{Op: "start", Err: err}
	}

	e.scheduleReminders(ws, p.Name, at)
	return s.finish(ctx, ws, p, at, true, true, nil)
}

// Pause pauses the project's open session. An empty name targets the only
// open session.
func (s *TimerService) Pause(ctx context.Context, projectName string) (*TransitionResult, error) {
	ws, p, err := s.target(ctx, projectName)
	if err != nil {
		return nil, err
	}
	return s.pause(ctx, ws, p)
}

// Resume resumes the project's open session. An empty name targets the only
// open session.
func (s *TimerService) Resume(ctx context.Context, projectName string) (*TransitionResult, error) {
	ws, p, err := s.target(ctx, projectName)
	if err != nil {
		return nil, err
	}
	return s.resume(ctx, ws, p)
}

// Stop stops the project's open session. An empty name targets the only
// open session.
func (s *TimerService) Stop(ctx context.Context, projectName string) (*TransitionResult, error) {
	ws, p, err := s.target(ctx, projectName)
	if err != nil {
		return nil, err
	}
	return s.stop(ctx, ws, p)
}

// PauseSession pauses the session with the given id.
func (s *TimerService) PauseSession(ctx context.Context, id string) (*TransitionResult, error) {
	ws, p, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.pause(ctx, ws, p)
}

// ResumeSession resumes the session with the given id.
func (s *TimerService) ResumeSession(ctx context.Context, id string) (*TransitionResult, error) {
	ws, p, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resume(ctx, ws, p)
}

// StopSession stops the session with the given id. Stopping a stopped
// session is refused with a precondition error and changes nothing.
func (s *TimerService) StopSession(ctx context.Context, id string) (*TransitionResult, error) {
	ws, p, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.stop(ctx, ws, p)
}

// Status returns every open session as of now, running ones first.
func (s *TimerService) Status(ctx context.Context) ([]SessionView, error) {
	e := s.env
	open, err := e.openSessions(ctx)
	if err != nil {
		return nil, err
	}

	at := e.now()
	views := make([]SessionView, 0, len(open))
	for _, ws := range open {
		p, err := e.store.GetProject(ctx, ws.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to load project: %w", err)
		}
		v, err := e.sessionView(ctx, ws, p, at)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// LiveStatus returns the status the live display should show, or nil when
// no session is open.
func (s *TimerService) LiveStatus(ctx context.Context) (*live.Status, error) {
	return s.env.liveStatus(ctx, "")
}

func (s *TimerService) pause(ctx context.Context, ws timer.Session, p entry.Project) (*TransitionResult, error) {
	e := s.env
	at := e.now()

	changed, err := ws.Pause(at)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.finish(ctx, ws, p, at, false, false, nil)
	}

	saveErr := s.save(ctx, "pause", ws)
	e.cancelReminders(ws.ID)
	return s.finish(ctx, ws, p, at, true, false, saveErr)
}

func (s *TimerService) resume(ctx context.Context, ws timer.Session, p entry.Project) (*TransitionResult, error) {
	e := s.env
	at := e.now()

	changed, err := ws.Resume(at)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.finish(ctx, ws, p, at, false, false, nil)
	}

	saveErr := s.save(ctx, "resume", ws)
	e.scheduleReminders(ws, p.Name, at)
	return s.finish(ctx, ws, p, at, true, false, saveErr)
}

func (s *TimerService) stop(ctx context.Context, ws timer.Session, p entry.Project) (*TransitionResult, error) {
	e := s.env
	at := e.now()

	if err := ws.Stop(at); err != nil {
		return nil, err
	}

	saveErr := s.save(ctx, "stop", ws)
	e.cancelReminders(ws.ID)

	v, err := e.sessionView(ctx, ws, p, at)
	if err != nil {
		return nil, err
	}
	e.clearLive(ctx, ws.ID)

	return &TransitionResult{SessionView: v, Changed: true}, saveErr
}

// finish builds the result and publishes it to the live display when the
// session changed.
func (s *TimerService) finish(ctx context.Context, ws timer.Session, p entry.Project, at time.Time, changed, created bool, saveErr error) (*TransitionResult, error) {
	v, err := s.env.sessionView(ctx, ws, p, at)
	if err != nil {
		return nil, err
	}
	if changed {
		s.env.publish(v)
	}
	return &TransitionResult{SessionView: v, Changed: changed, Created: created}, saveErr
}

func (s *TimerService) save(ctx context.Context, op string, ws timer.Session) error {
	if err := s.env.store.UpdateSession(ctx, ws); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

func (s *TimerService) openForProject(ctx context.Context, projectID string) (*timer.Session, error) {
	sessions, err := s.env.store.ListSessionsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].IsOpen() {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// target resolves the open session a project-name command applies to.
func (s *TimerService) target(ctx context.Context, projectName string) (timer.Session, entry.Project, error) {
	e := s.env

	if strings.TrimSpace(projectName) != "" {
		p, err := e.findProject(ctx, projectName)
		if err != nil {
			return timer.Session{}, entry.Project{}, err
		}
		open, err := s.openForProject(ctx, p.ID)
		if err != nil {
			return timer.Session{}, entry.Project{}, err
		}
		if open == nil {
			return timer.Session{}, entry.Project{}, fmt.Errorf("%w for %s", ErrNoOpenSession, p.Name)
		}
		return *open, p, nil
	}

	open, err := e.openSessions(ctx)
	if err != nil {
		return timer.Session{}, entry.Project{}, err
	}
	switch len(open) {
	case 0:
		return timer.Session{}, entry.Project{}, ErrNoOpenSession
	case 1:
	default:
		return timer.Session{}, entry.Project{}, ErrAmbiguousSession
	}

	p, err := e.store.GetProject(ctx, open[0].ProjectID)
	if err != nil {
		return timer.Session{}, entry.Project{}, fmt.Errorf("failed to load project: %w", err)
	}
	return open[0], p, nil
}

func (s *TimerService) byID(ctx context.Context, id string) (timer.Session, entry.Project, error) {
	ws, err := resolveSession(ctx, s.env, id)
	if err != nil {
		return timer.Session{}, entry.Project{}, err
	}
	p, err := s.env.store.GetProject(ctx, ws.ProjectID)
	if err != nil {
		return timer.Session{}, entry.Project{}, fmt.Errorf("failed to load project: %w", err)
	}
	return ws, p, nil
}

// resolveSession finds a session by full id or unique id prefix.
func resolveSession(ctx context.Context, e *env, id string) (timer.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return timer.Session{}, ErrSessionNotFound
	}

	ws, err := e.store.GetSession(ctx, id)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return timer.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	all, err := e.store.ListSessions(ctx)
	if err != nil {
		return timer.Session{}, fmt.Errorf("failed to load sessions: %w", err)
	}
	var matches []timer.Session
	for _, candidate := range all {
		if strings.HasPrefix(candidate.ID, id) {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 0:
		return timer.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return timer.Session{}, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}
