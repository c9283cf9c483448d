package handlers

import (
	"fmt"
	"strings"

	"github.com/xolan/punch/internal/cli"
)

// ShowConfig displays the current configuration
func ShowConfig(deps *cli.Deps) {
	cfg := deps.Services.Config.Get()
	path := deps.Services.Config.GetPath()
	paths := deps.Services.Paths

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Config file: %s\n", path)
	if deps.Services.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: File exists")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: Using defaults (no config file)")
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "week_start_day:    %s\n", cfg.WeekStartDay)
	_, _ = fmt.Fprintf(deps.Stdout, "timezone:          %s\n", cfg.Timezone)
	_, _ = fmt.Fprintf(deps.Stdout, "default_color:     %s\n", cfg.Color())
	_, _ = fmt.Fprintf(deps.Stdout, "reminders_enabled: %t\n", cfg.RemindersEnabled)
	_, _ = fmt.Fprintf(deps.Stdout, "refresh_interval:  %s\n", cfg.Refresh())
	_, _ = fmt.Fprintf(deps.Stdout, "theme:             %s\n", cfg.Theme)
	if overrides := deps.Services.Config.Overrides(); len(overrides) > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "Overridden by:     %s\n", strings.Join(overrides, ", "))
	}

	if paths.DataDir != "" {
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
		_, _ = fmt.Fprintf(deps.Stdout, "Data directory: %s\n", paths.DataDir)
		_, _ = fmt.Fprintf(deps.Stdout, "Database:       %s\n", paths.Database)
		_, _ = fmt.Fprintf(deps.Stdout, "Reminders:      %s\n", paths.Reminders)
		_, _ = fmt.Fprintf(deps.Stdout, "Live status:    %s\n", paths.Live)
	}
}

// InitConfig creates a sample config file
func InitConfig(deps *cli.Deps) {
	err := deps.Services.Config.Init()
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return
	}

	path := deps.Services.Config.GetPath()
	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", path)
	_, _ = fmt.Fprintln(deps.Stdout, "Edit this file to customize your settings.")
}
