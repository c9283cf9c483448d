// Package cli provides the CLI presentation layer for the punch application.
// It handles command-line output formatting and user interaction.
package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/timer"
)

// FormatDuration formats a duration as a human-readable string
// Examples: "45s", "30m", "2h", "1h 30m"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	totalMinutes := int(d.Minutes())
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm", totalMinutes)
	}
	hours := totalMinutes / 60
	mins := totalMinutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatClock formats a duration as H:MM:SS
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// FormatDateRangeForDisplay formats a date range for human-readable display.
func FormatDateRangeForDisplay(start, end time.Time) string {
	if start.Format("2006-01-02") == end.Format("2006-01-02") {
		return start.Format("Mon, Jan 2, 2006")
	}
	if start.Year() == end.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

// FormatStartTime formats a session start relative to now
func FormatStartTime(startedAt, now time.Time) string {
	startTime := startedAt.Format("3:04 PM")

	isToday := startedAt.Year() == now.Year() &&
		startedAt.Month() == now.Month() &&
		startedAt.Day() == now.Day()

	if isToday {
		return fmt.Sprintf("today at %s", startTime)
	}
	return fmt.Sprintf("%s at %s", startedAt.Format("Mon Jan 2"), startTime)
}

// ShortID is the prefix shown for session ids; any unique prefix is accepted
// back as input.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Swatch renders a coloured dot for a #RRGGBB colour. Terminals without
// colour support get a plain dot.
func Swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// FormatState returns the label for a session state
func FormatState(s timer.State) string {
	switch s {
	case timer.StateRunning:
		return "running"
	case timer.StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// FormatSession formats one session for list output:
// "<id>  <start>  <project>  <duration>  <state>"
func FormatSession(v service.SessionView) string {
	return fmt.Sprintf("%-8s  %s  %s %-20s  %10s  %s",
		ShortID(v.Session.ID),
		v.Session.Start.Format("2006-01-02 15:04"),
		Swatch(v.Color),
		v.Project.Name,
		FormatDuration(v.Duration),
		FormatState(v.State))
}
