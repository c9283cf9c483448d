package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/clock"
	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/service"
)

// Monday, January 15, 2024 09:00 UTC
var t0 = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	deps     *cli.Deps
	services *service.Services
	clock    *clock.Manual
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	exitCode int
}

// newTestEnv installs deps backed by in-memory services
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clk := clock.NewManual(t0)
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"

	n := 0
	services := service.NewServicesWith(service.Options{
		Clock:      clk,
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), config.ConfigFile),
		NewID: func() string {
			n++
			return fmt.Sprintf("%08d-session", n)
		},
	})

	env := &testEnv{
		services: services,
		clock:    clk,
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
	}
	env.deps = &cli.Deps{
		Stdout:   env.stdout,
		Stderr:   env.stderr,
		Stdin:    strings.NewReader(""),
		Exit:     func(code int) { env.exitCode = code },
		Services: services,
	}

	SetDeps(env.deps)
	t.Cleanup(func() {
		ResetDeps()
		resetFlags()
	})
	return env
}

// run executes the root command with args and returns stdout
func (e *testEnv) run(t *testing.T, args ...string) string {
	t.Helper()
	e.stdout.Reset()
	e.stderr.Reset()
	resetFlags()

	// nil args would make cobra fall back to os.Args
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(e.stdout)
	rootCmd.SetErr(e.stderr)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute(%v) returned unexpected error: %v", args, err)
	}
	return e.stdout.String()
}

// resetFlags restores flag variables, which outlive a single Execute
func resetFlags() {
	sinceFlag, fromFlag, sessionFlag = "", "", ""
	logStartFlag, logEndFlag, logDurationFlag = "", "", ""
	yesFlag = false
	formatFlag = "text"
	lastFlag = false
	colorFlag, categoryFlag = "", ""
	initFlag = false
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, output)
	}
}
