package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/cli/handlers"
)

var (
	formatFlag string
	lastFlag   bool
)

// totalsCmd represents the totals command
var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show time per project and category",
	Long: `Show the all-time total of every project and category. Running sessions
count up to now.`,
	Args: cobra.NoArgs,
	Run: withDeps(func(ctx context.Context, d *cli.Deps, _ []string) {
		handlers.ShowTotals(ctx, d, formatFlag)
	}),
}

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the weekly report",
	Long: `Show time per day and per project for this week (or last week with
--last). Weeks start on the configured week_start_day, and a session counts
for the day it started on.

Examples:
  punch report
  punch report --last
  punch report --format json`,
	Args: cobra.NoArgs,
	Run: withDeps(func(ctx context.Context, d *cli.Deps, _ []string) {
		handlers.ShowWeek(ctx, d, lastFlag, formatFlag)
	}),
}

func init() {
	for _, c := range []*cobra.Command{totalsCmd, reportCmd} {
		c.Flags().StringVarP(&formatFlag, "format", "f", "text", "output format: text, json or yaml")
	}
	reportCmd.Flags().BoolVar(&lastFlag, "last", false, "report on last week")

	rootCmd.AddCommand(totalsCmd, reportCmd)
}
