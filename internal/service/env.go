package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/live"
	"github.com/xolan/punch/internal/storage"
	"github.com/xolan/punch/internal/timer"
)

func (e *env) now() time.Time {
	return e.clock.Now()
}

func (e *env) findProject(ctx context.Context, name string) (entry.Project, error) {
	name, err := entry.NormalizeName(name)
	if err != nil {
		return entry.Project{}, err
	}
	p, err := e.store.FindProjectByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return entry.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, name)
	}
	if err != nil {
		return entry.Project{}, fmt.Errorf("failed to load project: %w", err)
	}
	return p, nil
}

func (e *env) findCategory(ctx context.Context, name string) (entry.Category, error) {
	name, err := entry.NormalizeName(name)
	if err != nil {
		return entry.Category{}, err
	}
	c, err := e.store.FindCategoryByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return entry.Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	if err != nil {
		return entry.Category{}, fmt.Errorf("failed to load category: %w", err)
	}
	return c, nil
}

// categoryOf returns the project's category, or nil when it has none.
func (e *env) categoryOf(ctx context.Context, p entry.Project) (*entry.Category, error) {
	if !p.HasCategory() {
		return nil, nil
	}
	c, err := e.store.GetCategory(ctx, *p.CategoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &c, nil
}

func (e *env) projectView(ctx context.Context, p entry.Project) (ProjectView, error) {
	c, err := e.categoryOf(ctx, p)
	if err != nil {
		return ProjectView{}, err
	}
	return ProjectView{
		Project:  p,
		Category: c,
		Color:    entry.EffectiveColor(p, c, e.config.Color()),
	}, nil
}

// sessionView shows ws in the clock's location; stores hand instants back
// in whatever zone they decode to.
func (e *env) sessionView(ctx context.Context, ws timer.Session, p entry.Project, at time.Time) (SessionView, error) {
	ws = ws.In(at.Location())
	pv, err := e.projectView(ctx, p)
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{
		Session:  ws,
		Project:  p,
		Category: pv.Category,
		Color:    pv.Color,
		State:    ws.State(),
		Duration: ws.CurrentDuration(at),
		At:       at,
	}, nil
}

// openSessions returns every open session, running before paused, most
// recently active first.
func (e *env) openSessions(ctx context.Context) ([]timer.Session, error) {
	open, err := e.store.ListOpenSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load open sessions: %w", err)
	}
	sort.SliceStable(open, func(i, j int) bool {
		ri, rj := open[i].State() == timer.StateRunning, open[j].State() == timer.StateRunning
		if ri != rj {
			return ri
		}
		return lastActive(open[i]).After(lastActive(open[j]))
	})
	return open, nil
}

// lastActive orders open sessions for the live display: a running session's
// last resume, otherwise its start.
func lastActive(ws timer.Session) time.Time {
	if ws.LastResume != nil {
		return *ws.LastResume
	}
	return ws.Start
}

func (e *env) scheduleReminders(ws timer.Session, projectName string, from time.Time) {
	if err := e.reminders.ScheduleHourlyReminders(ws.ID, projectName, from); err != nil {
		e.logger.Warn("failed to schedule reminders", "session", ws.ID, "error", err)
	}
}

func (e *env) cancelReminders(sessionID string) {
	if err := e.reminders.CancelReminders(sessionID); err != nil {
		e.logger.Warn("failed to cancel reminders", "session", sessionID, "error", err)
	}
}

func (e *env) statusOf(v SessionView) live.Status {
	return live.Status{
		Snapshot:    v.Session.Snapshot(v.At),
		ProjectName: v.Project.Name,
		Color:       v.Color,
	}
}

func (e *env) publish(v SessionView) {
	if err := e.projector.Publish(e.statusOf(v)); err != nil {
		e.logger.Warn("failed to publish live status", "session", v.Session.ID, "error", err)
	}
}

// clearLive removes the live display, then shows the next open session other
// than closedID if one remains.
func (e *env) clearLive(ctx context.Context, closedID string) {
	if err := e.projector.Clear(); err != nil {
		e.logger.Warn("failed to clear live status", "error", err)
	}

	status, err := e.liveStatus(ctx, closedID)
	if err != nil {
		e.logger.Warn("failed to load live status", "error", err)
		return
	}
	if status == nil {
		return
	}
	if err := e.projector.Publish(*status); err != nil {
		e.logger.Warn("failed to publish live status", "session", status.SessionID, "error", err)
	}
}

// liveStatus is the status of the most recently active open session,
// skipping the session with id exclude.
func (e *env) liveStatus(ctx context.Context, exclude string) (*live.Status, error) {
	open, err := e.openSessions(ctx)
	if err != nil {
		return nil, err
	}

	var ws timer.Session
	found := false
	for _, candidate := range open {
		if candidate.ID != exclude {
			ws, found = candidate, true
			break
		}
	}
	if !found {
		return nil, nil
	}

	p, err := e.store.GetProject(ctx, ws.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	v, err := e.sessionView(ctx, ws, p, e.now())
	if err != nil {
		return nil, err
	}
	status := e.statusOf(v)
	return &status, nil
}
