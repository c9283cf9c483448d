package handlers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/clock"
	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/live"
	"github.com/xolan/punch/internal/notify"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/storage"
)

// Monday, January 15, 2024 09:00 UTC
var t0 = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

var ctx = context.Background()

func newTestServices(t *testing.T, store storage.Store, configPath string) *service.Services {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"

	n := 0
	return service.NewServicesWith(service.Options{
		Store:      store,
		Clock:      clock.NewManual(t0),
		Reminders:  notify.NewFileScheduler(filepath.Join(tmpDir, notify.RemindersFile)),
		Projector:  live.NewFileProjector(filepath.Join(tmpDir, live.LiveFile)),
		Config:     cfg,
		ConfigPath: configPath,
		Paths: service.Paths{
			DataDir:   tmpDir,
			Reminders: filepath.Join(tmpDir, notify.RemindersFile),
			Live:      filepath.Join(tmpDir, live.LiveFile),
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("%08d-session", n)
		},
	})
}

func newTestDeps(services *service.Services) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	exitCode := 0

	deps := &cli.Deps{
		Stdout:   stdout,
		Stderr:   stderr,
		Stdin:    strings.NewReader(""),
		Exit:     func(code int) { exitCode = code },
		Services: services,
	}
	return deps, stdout, stderr, &exitCode
}

func setupTestDeps(t *testing.T) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), config.ConfigFile)
	return newTestDeps(newTestServices(t, storage.NewMemoryStore(), configPath))
}

// setupBrokenConfigDeps points the config file below a regular file so it
// can never be written
func setupBrokenConfigDeps(t *testing.T) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return newTestDeps(newTestServices(t, storage.NewMemoryStore(), filepath.Join(blocker, config.ConfigFile)))
}

// testClock returns the manual clock behind deps
func testClock(t *testing.T, deps *cli.Deps) *clock.Manual {
	t.Helper()
	clk, ok := deps.Services.Clock.(*clock.Manual)
	if !ok {
		t.Fatalf("expected a manual clock, got %T", deps.Services.Clock)
	}
	return clk
}

// mustProject creates a project, failing the test on error
func mustProject(t *testing.T, deps *cli.Deps, name, category string) {
	t.Helper()
	if category != "" {
		if _, err := deps.Services.Catalog.AddCategory(ctx, category, "#FF0000"); err != nil {
			t.Fatalf("AddCategory() returned unexpected error: %v", err)
		}
	}
	if _, err := deps.Services.Catalog.AddProject(ctx, name, category); err != nil {
		t.Fatalf("AddProject() returned unexpected error: %v", err)
	}
}

func assertContains(t *testing.T, out *bytes.Buffer, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out.String(), w) {
			t.Errorf("expected %q in output, got %q", w, out.String())
		}
	}
}

// testDepsT bundles deps with its captured output for table tests
type testDepsT struct {
	deps     *cli.Deps
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	exitCode *int
}

func newTestDepsT(t *testing.T) *testDepsT {
	t.Helper()
	deps, stdout, stderr, exitCode := setupTestDeps(t)
	return &testDepsT{deps: deps, stdout: stdout, stderr: stderr, exitCode: exitCode}
}
