package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/timeutil"
)

// LogOptions describe a finished session. Either Duration is set (with an
// optional End, default now) or both Start and End are.
type LogOptions struct {
	Start    string
	End      string
	Duration string
}

// LogSession records a finished session
func LogSession(ctx context.Context, deps *cli.Deps, project string, opts LogOptions) {
	now := deps.Services.Clock.Now()

	var end time.Time
	if opts.End != "" {
		t, err := timeutil.ParseDateTime(opts.End, now)
		if err != nil {
			fail(deps, err)
			return
		}
		end = t
	}

	var v service.SessionView
	var err error
	switch {
	case opts.Duration != "":
		if opts.Start != "" {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Use either --start or --duration, not both")
			deps.Exit(1)
			return
		}
		v, err = deps.Services.Session.LogDuration(ctx, project, end, opts.Duration)
	case opts.Start != "" && opts.End != "":
		start, perr := timeutil.ParseDateTime(opts.Start, now)
		if perr != nil {
			fail(deps, perr)
			return
		}
		v, err = deps.Services.Session.LogPast(ctx, project, start, end)
	default:
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Missing session times")
		_, _ = fmt.Fprintln(deps.Stderr, "Usage: punch log <project> --start 09:00 --end 10:30")
		_, _ = fmt.Fprintln(deps.Stderr, "       punch log <project> --duration 1:30 [--end 10:30]")
		deps.Exit(1)
		return
	}
	if err != nil {
		fail(deps, err)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Logged: %s %s (%s - %s)\n",
		v.Project.Name,
		cli.FormatDuration(v.Duration),
		v.Session.Start.Format("2006-01-02 15:04"),
		v.Session.End.Format("15:04"))
}

// ListSessions lists the sessions of one project, or all of them
func ListSessions(ctx context.Context, deps *cli.Deps, project string) {
	sessions, err := deps.Services.Session.List(ctx, project)
	if err != nil {
		fail(deps, err)
		return
	}

	if len(sessions) == 0 {
		if project != "" {
			_, _ = fmt.Fprintf(deps.Stdout, "No sessions found for %s\n", strings.TrimSpace(project))
		} else {
			_, _ = fmt.Fprintln(deps.Stdout, "No sessions found")
		}
		return
	}

	var total time.Duration
	for _, v := range sessions {
		_, _ = fmt.Fprintln(deps.Stdout, cli.FormatSession(v))
		total += v.Duration
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Total: %s (%d %s)\n",
		cli.FormatDuration(total), len(sessions), cli.Pluralize("session", len(sessions)))
}

// DeleteSession deletes a session after confirmation (skipped with yes)
func DeleteSession(ctx context.Context, deps *cli.Deps, id string, yes bool) {
	v, err := deps.Services.Session.Get(ctx, id)
	if err != nil {
		fail(deps, err)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Session to delete:")
	_, _ = fmt.Fprintf(deps.Stdout, "  %s\n", cli.FormatSession(v))

	if !yes && !confirm(deps, "Delete this session?") {
		_, _ = fmt.Fprintln(deps.Stdout, "Deletion cancelled")
		return
	}

	deleted, err := deps.Services.Session.Delete(ctx, v.Session.ID)
	if err != nil {
		fail(deps, err)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Deleted: %s %s (%s)\n",
		cli.ShortID(deleted.ID), v.Project.Name, cli.FormatDuration(v.Duration))
}
