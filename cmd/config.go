package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/cli/handlers"
)

var initFlag bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or initialise configuration settings",
	Long: `Display the current effective configuration and the files punch uses.

By default, punch works without any configuration file. Settings:
  - week_start_day: monday or sunday
  - timezone: Local (system timezone) or an IANA name
  - default_color: colour of uncategorized projects
  - reminders_enabled: hourly "still working?" reminders
  - refresh_interval: how often 'punch watch' republishes the live status
  - theme: colour theme of 'punch watch'
  - data_dir: where the database and state files live

Environment overrides: PUNCH_DATA_DIR, PUNCH_TIMEZONE, PUNCH_REMINDERS
(also read from a .env file in the working directory).

Configuration file location:
  ~/.config/punch/config.toml          Linux/macOS
  %APPDATA%\punch\config.toml          Windows

Use --init to write a commented sample file.`,
	Args: cobra.NoArgs,
	Run: withDeps(func(_ context.Context, d *cli.Deps, _ []string) {
		if initFlag {
			handlers.InitConfig(d)
			return
		}
		handlers.ShowConfig(d)
	}),
}

func init() {
	configCmd.Flags().BoolVar(&initFlag, "init", false, "create a sample config file")
	rootCmd.AddCommand(configCmd)
}
