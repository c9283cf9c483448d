package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/timeutil"
)

// StartOptions backdate a start. At most one of Since and From is set.
type StartOptions struct {
	// Since is how long ago the session began, e.g. "30m" or "1:15"
	Since string
	// From is when the session began, e.g. "09:30" or "2024-01-15 09:30"
	From string
}

// StartSession starts (or resumes) a session on a project
func StartSession(ctx context.Context, deps *cli.Deps, project string, opts StartOptions) {
	if strings.TrimSpace(project) == "" {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Project name cannot be empty")
		_, _ = fmt.Fprintln(deps.Stderr, "Usage: punch start <project> [--since 30m | --from 09:30]")
		deps.Exit(1)
		return
	}
	if opts.Since != "" && opts.From != "" {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Use either --since or --from, not both")
		deps.Exit(1)
		return
	}

	now := deps.Services.Clock.Now()
	var past time.Time
	switch {
	case opts.Since != "":
		d, err := entry.ParseDuration(opts.Since)
		if err != nil {
			fail(deps, err)
			return
		}
		past = now.Add(-d)
	case opts.From != "":
		t, err := timeutil.ParseDateTime(opts.From, now)
		if err != nil {
			fail(deps, err)
			return
		}
		past = t
	}

	var res *service.TransitionResult
	var err error
	if past.IsZero() {
		res, err = deps.Services.Timer.Start(ctx, project)
	} else {
		res, err = deps.Services.Timer.StartFromPast(ctx, project, past)
	}
	if !check(deps, err) {
		return
	}

	switch {
	case res.Created:
		_, _ = fmt.Fprintf(deps.Stdout, "Started: %s (%s)\n",
			res.Project.Name, cli.FormatStartTime(res.Session.Start, res.At))
		if res.Duration > 0 {
			_, _ = fmt.Fprintf(deps.Stdout, "Already counted: %s\n", cli.FormatDuration(res.Duration))
		}
	case res.Changed:
		_, _ = fmt.Fprintf(deps.Stdout, "Resumed: %s (%s so far)\n", res.Project.Name, cli.FormatDuration(res.Duration))
	default:
		_, _ = fmt.Fprintf(deps.Stdout, "Already running: %s (%s)\n", res.Project.Name, cli.FormatDuration(res.Duration))
	}
}

// PauseSession pauses the open session of a project. With an empty project
// the only open session is paused; sessionID targets a session directly.
func PauseSession(ctx context.Context, deps *cli.Deps, project, sessionID string) {
	var res *service.TransitionResult
	var err error
	if sessionID != "" {
		res, err = deps.Services.Timer.PauseSession(ctx, sessionID)
	} else {
		res, err = deps.Services.Timer.Pause(ctx, project)
	}
	if !check(deps, err) {
		return
	}

	if !res.Changed {
		_, _ = fmt.Fprintf(deps.Stdout, "Already paused: %s (%s)\n", res.Project.Name, cli.FormatDuration(res.Duration))
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Paused: %s (%s)\n", res.Project.Name, cli.FormatDuration(res.Duration))
}

// ResumeSession resumes a paused session
func ResumeSession(ctx context.Context, deps *cli.Deps, project, sessionID string) {
	var res *service.TransitionResult
	var err error
	if sessionID != "" {
		res, err = deps.Services.Timer.ResumeSession(ctx, sessionID)
	} else {
		res, err = deps.Services.Timer.Resume(ctx, project)
	}
	if !check(deps, err) {
		return
	}

	if !res.Changed {
		_, _ = fmt.Fprintf(deps.Stdout, "Already running: %s (%s)\n", res.Project.Name, cli.FormatDuration(res.Duration))
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Resumed: %s (%s so far)\n", res.Project.Name, cli.FormatDuration(res.Duration))
}

// StopSession stops a session and prints its final duration
func StopSession(ctx context.Context, deps *cli.Deps, project, sessionID string) {
	var res *service.TransitionResult
	var err error
	if sessionID != "" {
		res, err = deps.Services.Timer.StopSession(ctx, sessionID)
	} else {
		res, err = deps.Services.Timer.Stop(ctx, project)
	}
	if !check(deps, err) {
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Stopped: %s (%s)\n", res.Project.Name, cli.FormatDuration(res.Duration))
}

// ShowStatus lists every open session
func ShowStatus(ctx context.Context, deps *cli.Deps) {
	open, err := deps.Services.Timer.Status(ctx)
	if err != nil {
		fail(deps, err)
		return
	}

	if len(open) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No session running")
		_, _ = fmt.Fprintln(deps.Stdout, "Start one with: punch start <project>")
		return
	}

	for _, v := range open {
		_, _ = fmt.Fprintf(deps.Stdout, "%s %s  %s\n", cli.Swatch(v.Color), v.Project.Name, cli.FormatState(v.State))
		_, _ = fmt.Fprintf(deps.Stdout, "  Session: %s\n", cli.ShortID(v.Session.ID))
		_, _ = fmt.Fprintf(deps.Stdout, "  Started: %s\n", cli.FormatStartTime(v.Session.Start, v.At))
		_, _ = fmt.Fprintf(deps.Stdout, "  Elapsed: %s\n", cli.FormatDuration(v.Duration))
	}
}
