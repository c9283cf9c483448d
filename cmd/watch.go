package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/tui"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live display of open sessions",
	Long: `Open a live terminal display of the running session.

While it is open, punch watch republishes the live status every
refresh_interval and shows hourly "still working?" reminders as they
fall due (when reminders_enabled is set).

Views available:
  - Live: elapsed time of every open session, pause/resume and stop
  - Week: this week's and last week's totals per day and project
  - Config: current settings and theme selection

Keyboard shortcuts:
  - Tab/Shift+Tab or 1-3: switch views
  - j/k: select a session
  - p/space: pause or resume, x: stop
  - d: dismiss a reminder
  - ?: show help, q: quit`,
	Args: cobra.NoArgs,
	Run: withDeps(func(ctx context.Context, d *cli.Deps, _ []string) {
		if err := tui.Run(ctx, d.Services); err != nil {
			_, _ = fmt.Fprintf(d.Stderr, "Error: Failed to run watch screen: %v\n", err)
			d.Exit(1)
		}
	}),
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
