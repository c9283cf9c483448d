package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/cli/handlers"
)

var (
	sinceFlag   string
	fromFlag    string
	sessionFlag string
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <project>",
	Short: "Start a session on a project",
	Long: `Start a work session on a project. If the project already has an open
session it is resumed instead.

Use --since or --from to start a session that began earlier; the time up to
now is counted. This is refused while the project has an open session.

Examples:
  punch start Acme
  punch start Acme --since 20m
  punch start Acme --from 08:45`,
	Args: cobra.ExactArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.StartSession(ctx, d, args[0], handlers.StartOptions{Since: sinceFlag, From: fromFlag})
	}),
}

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause [project]",
	Short: "Pause the open session",
	Long: `Pause the open session of a project. Without a project, the only open
session is paused. Pausing a paused session changes nothing.`,
	Args: cobra.MaximumNArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.PauseSession(ctx, d, optionalArg(args), sessionFlag)
	}),
}

// resumeCmd represents the resume command
var resumeCmd = &cobra.Command{
	Use:   "resume [project]",
	Short: "Resume a paused session",
	Args:  cobra.MaximumNArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.ResumeSession(ctx, d, optionalArg(args), sessionFlag)
	}),
}

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop [project]",
	Short: "Stop the open session",
	Long: `Stop the open session of a project and print its final duration.
Without a project, the only open session is stopped.`,
	Args: cobra.MaximumNArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.StopSession(ctx, d, optionalArg(args), sessionFlag)
	}),
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show open sessions",
	Args:  cobra.NoArgs,
	Run: withDeps(func(ctx context.Context, d *cli.Deps, _ []string) {
		handlers.ShowStatus(ctx, d)
	}),
}

func init() {
	startCmd.Flags().StringVar(&sinceFlag, "since", "", "session began this long ago (e.g. 30m, 1:15)")
	startCmd.Flags().StringVar(&fromFlag, "from", "", "session began at this time (HH:MM or YYYY-MM-DD HH:MM)")

	for _, c := range []*cobra.Command{pauseCmd, resumeCmd, stopCmd} {
		c.Flags().StringVar(&sessionFlag, "session", "", "target a session by id (or unique id prefix)")
	}

	rootCmd.AddCommand(startCmd, pauseCmd, resumeCmd, stopCmd, statusCmd)
}
