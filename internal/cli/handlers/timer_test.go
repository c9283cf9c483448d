package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/live"
	"github.com/xolan/punch/internal/storage"
	"github.com/xolan/punch/internal/timer"
)

func TestStartSession(t *testing.T) {
	deps, stdout, _, exitCode := setupTestDeps(t)
	mustProject(t, deps, "Acme", "")

	StartSession(ctx, deps, "Acme", StartOptions{})

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *exitCode)
	}
	assertContains(t, stdout, "Started: Acme", "today at 9:00 AM")

	st, err := live.Read(deps.Services.Paths.Live)
	if err != nil || st == nil || st.ProjectName != "Acme" || !st.IsRunning {
		t.Errorf("expected live status for Acme, got %+v (%v)", st, err)
	}
}

func TestStartSession_Since(t *testing.T) {
	deps, stdout, _, exitCode := setupTestDeps(t)
	mustProject(t, deps, "Acme", "")

	StartSession(ctx, deps, "Acme", StartOptions{Since: "45m"})

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *exitCode)
	}
	assertContains(t, stdout, "Started: Acme", "today at 8:15 AM", "Already counted: 45m")
}

func TestStartSession_From(t *testing.T) {
	deps, stdout, _, exitCode := setupTestDeps(t)
	mustProject(t, deps, "Acme", "")

	StartSession(ctx, deps, "Acme", StartOptions{From: "07:30"})

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *exitCode)
	}
	assertContains(t, stdout, "Already counted: 1h 30m")
}

func TestStartSession_Errors(t *testing.T) {
	tests := []struct {
		name    string
		project string
		opts    StartOptions
		want    string
	}{
		{"empty project", " ", StartOptions{}, "Project name cannot be empty"},
		{"both flags", "Acme", StartOptions{Since: "1h", From: "08:00"}, "either --since or --from"},
		{"bad since", "Acme", StartOptions{Since: "soon"}, "Hint: Use a format like"},
		{"bad from", "Acme", StartOptions{From: "yesterday-ish"}, "invalid time"},
		{"future from", "Acme", StartOptions{From: "10:00"}, "must not be later than now"},
		{"unknown project", "Nope", StartOptions{}, "punch project add"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, _, stderr, exitCode := setupTestDeps(t)
			mustProject(t, deps, "Acme", "")

			StartSession(ctx, deps, tt.project, tt.opts)

			if *exitCode != 1 {
				t.Errorf("expected exit code 1, got %d", *exitCode)
			}
			assertContains(t, stderr, tt.want)
		})
	}
}

func TestStartSession_ResumesAndNoOp(t *testing.T) {
	deps, stdout, _, _ := setupTestDeps(t)
	mustProject(t, deps, "Acme", "")
	clk := testClock(t, deps)

	StartSession(ctx, deps, "Acme", StartOptions{})
	clk.Advance(10 * time.Minute)
	StartSession(ctx, deps, "Acme", StartOptions{})
	assertContains(t, stdout, "Already running: Acme (10m)")

	PauseSession(ctx, deps, "Acme", "")
	clk.Advance(time.Hour)
	stdout.Reset()
	StartSession(ctx, deps, "Acme", StartOptions{})
	assertContains(t, stdout, "Resumed: Acme (10m so far)")
}

func TestPauseResumeStop(t *testing.T) {
	deps, stdout, stderr, exitCode := setupTestDeps(t)
	mustProject(t, deps, "Acme", "")
	clk := testClock(t, deps)

	StartSession(ctx, deps, "Acme", StartOptions{})
	clk.Advance(30 * time.Second)
	PauseSession(ctx, deps, "", "")
	assertContains(t, stdout, "Paused: Acme (30s)")

	PauseSession(ctx, deps, "", "")
	assertContains(t, stdout, "Already paused: Acme (30s)")

	clk.Advance(60 * time.Second)
	ResumeSession(ctx, deps, "Acme", "")
	assertContains(t, stdout, "Resumed: Acme (30s so far)")

	ResumeSession(ctx, deps, "Acme", "")
	assertContains(t, stdout, "Already running: Acme")

	clk.Advance(60 * time.Second)
	StopSession(ctx, deps, "", "")
	assertContains(t, stdout, "Stopped: Acme (1m)")

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d (stderr %q)", *exitCode, stderr.String())
	}

	st, _ := live.Read(deps.Services.Paths.Live)
	if st != nil {
		t.Errorf("expected live status cleared after stop, got %+v", st)
	}
}

func TestStopSession_ByID(t *testing.T) {
	deps, stdout, stderr, exitCode := setupTestDeps(t)
	mustProject(t, deps, "Acme", "")

	StartSession(ctx, deps, "Acme", StartOptions{})
	// The project takes the first id, the session the second
	StopSession(ctx, deps, "", "00000002")
	assertContains(t, stdout, "Stopped: Acme")

	StopSession(ctx, deps, "", "00000002")
	if *exitCode != 1 {
		t.Errorf("expected exit code 1 for a second stop, got %d", *exitCode)
	}
	assertContains(t, stderr, "already stopped", "Stopped sessions are final")
}

func TestPauseSession_NothingOpen(t *testing.T) {
	deps, _, stderr, exitCode := setupTestDeps(t)

	PauseSession(ctx, deps, "", "")

	if *exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", *exitCode)
	}
	assertContains(t, stderr, "no open session", "punch start <project>")
}

func TestPauseSession_Ambiguous(t *testing.T) {
	deps, _, stderr, exitCode := setupTestDeps(t)
	mustProject(t, deps, "Acme", "")
	mustProject(t, deps, "Beta", "")

	StartSession(ctx, deps, "Acme", StartOptions{})
	StartSession(ctx, deps, "Beta", StartOptions{})
	PauseSession(ctx, deps, "", "")

	if *exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", *exitCode)
	}
	assertContains(t, stderr, "more than one open session", "Name the project")
}

// brokenStore fails every session write
type brokenStore struct {
	storage.Store
}

func (brokenStore) UpdateSession(context.Context, timer.Session) error {
	return errors.New("disk full")
}

func TestPauseSession_PersistenceFailureWarns(t *testing.T) {
	store := storage.NewMemoryStore()
	services := newTestServices(t, brokenStore{Store: store}, filepath.Join(t.TempDir(), config.ConfigFile))
	deps, stdout, stderr, exitCode := newTestDeps(services)
	mustProject(t, deps, "Acme", "")

	StartSession(ctx, deps, "Acme", StartOptions{})
	testClock(t, deps).Advance(time.Minute)
	PauseSession(ctx, deps, "Acme", "")

	if *exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", *exitCode)
	}
	assertContains(t, stderr, "Warning:", "not saved", "disk full")
	assertContains(t, stdout, "Paused: Acme (1m)")
}

func TestShowStatus(t *testing.T) {
	deps, stdout, _, _ := setupTestDeps(t)

	ShowStatus(ctx, deps)
	assertContains(t, stdout, "No session running")

	mustProject(t, deps, "Acme", "Clients")
	StartSession(ctx, deps, "Acme", StartOptions{})
	testClock(t, deps).Advance(90 * time.Minute)
	stdout.Reset()

	ShowStatus(ctx, deps)
	assertContains(t, stdout, "Acme", "running", "Session: 00000003", "Elapsed: 1h 30m")
	if strings.Contains(stdout.String(), "No session running") {
		t.Error("did not expect the empty message")
	}
}
