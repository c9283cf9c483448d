package entry

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration wraps every duration input validation failure
var ErrInvalidDuration = errors.New("invalid duration")

// clockPattern matches hours:minutes input (e.g., "1:30", "0:45", "12:05")
var clockPattern = regexp.MustCompile(`^(\d+):(\d{1,2})$`)

// combinedTimePattern matches combined time duration in XhYm format (e.g., "1h30m", "2h15m")
var combinedTimePattern = regexp.MustCompile(`^(\d+)h(\d+)m$`)

// timePattern matches time duration in Yh (hours) or Ym (minutes) format
var timePattern = regexp.MustCompile(`^(\d+)(h|m)$`)

// MaxDuration is the longest interval that can be logged in one go
const MaxDuration = 24 * time.Hour

// ParseDuration parses a user-entered duration for a logged session.
// Valid inputs: "1:30", "0:45", "2h", "30m", "1h30m"
// Invalid inputs: "abc", "-1:00", "1:60", "0:00", values exceeding 24h
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("%w: duration cannot be empty", ErrInvalidDuration)
	}
	if strings.HasPrefix(input, "-") {
		return 0, fmt.Errorf("%w: duration cannot be negative, got %s", ErrInvalidDuration, input)
	}

	var hours, minutes int
	var err error

	if m := clockPattern.FindStringSubmatch(input); m != nil {
		hours, minutes, err = atoiPair(m[1], m[2], input)
		if err != nil {
			return 0, err
		}
		if minutes >= 60 {
			return 0, fmt.Errorf("%w: minutes must be below 60, got %s", ErrInvalidDuration, input)
		}
	} else if m := combinedTimePattern.FindStringSubmatch(input); m != nil {
		hours, minutes, err = atoiPair(m[1], m[2], input)
		if err != nil {
			return 0, err
		}
		if minutes >= 60 {
			return 0, fmt.Errorf("%w: minutes must be below 60, got %s", ErrInvalidDuration, input)
		}
	} else if m := timePattern.FindStringSubmatch(input); m != nil {
		value, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, formatError(input)
		}
		if m[2] == "h" {
			hours = value
		} else {
			minutes = value
		}
	} else {
		return 0, formatError(input)
	}

	// bound the parts before multiplying so huge inputs cannot wrap around
	if hours > int(MaxDuration/time.Hour) || minutes > int(MaxDuration/time.Minute) {
		return 0, fmt.Errorf("%w: exceeds maximum of 24 hours", ErrInvalidDuration)
	}

	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if d == 0 {
		return 0, fmt.Errorf("%w: duration cannot be zero", ErrInvalidDuration)
	}
	if d > MaxDuration {
		return 0, fmt.Errorf("%w: exceeds maximum of 24 hours", ErrInvalidDuration)
	}
	return d, nil
}

func atoiPair(a, b, input string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, formatError(input)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, formatError(input)
	}
	return x, y, nil
}

func formatError(input string) error {
	return fmt.Errorf("%w: expected H:MM, Xh, Xm, or XhYm, got %s", ErrInvalidDuration, input)
}
