package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ParseDate parses a date string in YYYY-MM-DD or DD/MM/YYYY format.
// Returns the parsed date at midnight (start of day) in loc.
// For ambiguous dates (like 05/06/2024), ISO format (YYYY-MM-DD) is preferred.
//
// Valid inputs:
//   - "2024-01-15" (ISO format)
//   - "15/01/2024" (European format)
//
// Invalid inputs return an error with suggested formats.
func ParseDate(input string, loc *time.Location) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty (use format YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15 or 15/01/2024)")
	}

	// Try ISO format first (YYYY-MM-DD) - preferred for ambiguous dates
	t, err := time.ParseInLocation("2006-01-02", input, loc)
	if err == nil {
		return StartOfDay(t), nil
	}

	// Try European format (DD/MM/YYYY)
	t, err = time.ParseInLocation("02/01/2006", input, loc)
	if err == nil {
		return StartOfDay(t), nil
	}

	return time.Time{}, buildDateParseError(input)
}

// buildDateParseError creates a helpful error message based on the input pattern
func buildDateParseError(input string) error {
	isoPartialRe := regexp.MustCompile(`^\d{4}-\d{1,2}$`)      // YYYY-MM (missing day)
	yearOnlyRe := regexp.MustCompile(`^\d{4}$`)                // YYYY (year only)
	isoPartialDayRe := regexp.MustCompile(`^\d{1,2}-\d{1,2}$`) // MM-DD or DD-MM (missing year)
	euroPartialRe := regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)   // DD/MM (missing year)

	switch {
	case yearOnlyRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing month and day (use format YYYY-MM-DD, e.g., %s-01-15)", input, input)
	case isoPartialRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing day (use format YYYY-MM-DD, e.g., %s-15)", input, input)
	case isoPartialDayRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing year (use format YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-%s)", input, input)
	case euroPartialRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing year (use format DD/MM/YYYY, e.g., %s/2024)", input, input)
	default:
		return fmt.Errorf("invalid date format '%s' (use YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15 or 15/01/2024)", input)
	}
}

// dateTimeLayouts are the full date-time forms accepted by ParseDateTime
var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDateTime parses an instant relative to ref.
//
// Valid inputs:
//   - "2024-01-15 09:30" or "2024-01-15T09:30[:05]" (in ref's location)
//   - "09:30" (that time on ref's day)
//   - RFC 3339 ("2024-01-15T09:30:00+02:00")
func ParseDateTime(input string, ref time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("time cannot be empty (use HH:MM or YYYY-MM-DD HH:MM)")
	}

	loc := ref.Location()

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.In(loc), nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}

	if t, err := time.ParseInLocation("15:04", input, loc); err == nil {
		return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("invalid time '%s' (use HH:MM or YYYY-MM-DD HH:MM, e.g., 09:30 or 2024-01-15 09:30)", input)
}
