package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// StartOfDay returns midnight (00:00:00) of the given day in the same timezone
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns 00:00:00 of the most recent weekStart day on or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// WeekBounds returns the half-open range [start, end) of the week containing t.
// Days are added by calendar date, so a DST change keeps boundaries at midnight.
func WeekBounds(t time.Time, weekStart time.Weekday) (start, end time.Time) {
	start = StartOfWeek(t, weekStart)
	return start, start.AddDate(0, 0, 7)
}

// DayBounds returns the half-open range [start, end) of the day containing t.
func DayBounds(t time.Time) (start, end time.Time) {
	start = StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// InRange reports whether t falls in the half-open range [start, end)
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// ParseWeekday parses "monday" or "sunday" (case-insensitive) into a week start day.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday", "":
		return time.Monday, nil
	case "sunday":
		return time.Sunday, nil
	default:
		return time.Monday, fmt.Errorf("invalid week start day %q (use monday or sunday)", s)
	}
}
