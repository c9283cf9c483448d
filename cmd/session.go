package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/cli/handlers"
)

var (
	logStartFlag    string
	logEndFlag      string
	logDurationFlag string
	yesFlag         bool
)

// logCmd represents the log command
var logCmd = &cobra.Command{
	Use:   "log <project>",
	Short: "Record a finished session",
	Long: `Record a session that already happened, either with explicit start and
end times or with a duration ending at --end (default now).

Examples:
  punch log Acme --start 09:00 --end 10:30
  punch log Acme --duration 1:30
  punch log Acme --duration 45m --end "2024-01-15 18:00"`,
	Args: cobra.ExactArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.LogSession(ctx, d, args[0], handlers.LogOptions{
			Start:    logStartFlag,
			End:      logEndFlag,
			Duration: logDurationFlag,
		})
	}),
}

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions [project]",
	Short: "List sessions",
	Args:  cobra.MaximumNArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.ListSessions(ctx, d, optionalArg(args))
	}),
}

// sessionsDeleteCmd represents the sessions delete command
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session by id",
	Long: `Delete a session by id or unique id prefix (as shown by 'punch sessions').
A confirmation prompt will be shown unless --yes is specified.`,
	Args: cobra.ExactArgs(1),
	Run: withDeps(func(ctx context.Context, d *cli.Deps, args []string) {
		handlers.DeleteSession(ctx, d, args[0], yesFlag)
	}),
}

func init() {
	logCmd.Flags().StringVar(&logStartFlag, "start", "", "start time (HH:MM or YYYY-MM-DD HH:MM)")
	logCmd.Flags().StringVar(&logEndFlag, "end", "", "end time (HH:MM or YYYY-MM-DD HH:MM)")
	logCmd.Flags().StringVarP(&logDurationFlag, "duration", "d", "", "duration (H:MM, Xh, Xm or XhYm)")

	sessionsDeleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation prompt")
	sessionsCmd.AddCommand(sessionsDeleteCmd)

	rootCmd.AddCommand(logCmd, sessionsCmd)
}
