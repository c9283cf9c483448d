package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/cli/handlers"
)

var rootCmd = &cobra.Command{
	Use:   "punch",
	Short: "A work session timer",
	Long: `punch tracks time spent on projects as pausable work sessions.

Usage:
  punch                                  Show open sessions
  punch start <project>                  Start (or resume) a session
  punch pause [project]                  Pause the open session
  punch resume [project]                 Resume a paused session
  punch stop [project]                   Stop the open session
  punch log <project> --duration 1:30    Record a finished session
  punch sessions [project]               List sessions
  punch totals                           Time per project and category
  punch report [--last]                  Weekly report
  punch category | project               Manage categories and projects
  punch watch                            Live display with reminders

Durations: H:MM, Xh, Xm or XhYm (e.g. 1:30, 2h, 45m, 1h30m)
Times: HH:MM (today) or YYYY-MM-DD HH:MM`,
	Args: cobra.NoArgs,
	Run: withDeps(func(ctx context.Context, d *cli.Deps, _ []string) {
		handlers.ShowStatus(ctx, d)
	}),
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"punch version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt by the caller
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
