package timeutil

import (
	"strings"
	"testing"
	"time"
)

func TestStartOfWeek(t *testing.T) {
	// Wednesday, January 17, 2024
	wed := time.Date(2024, time.January, 17, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		t         time.Time
		weekStart time.Weekday
		expected  time.Time
	}{
		{"monday start midweek", wed, time.Monday, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"sunday start midweek", wed, time.Sunday, time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)},
		{"monday start on sunday", time.Date(2024, time.January, 21, 8, 0, 0, 0, time.UTC), time.Monday, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"sunday start on sunday", time.Date(2024, time.January, 21, 8, 0, 0, 0, time.UTC), time.Sunday, time.Date(2024, time.January, 21, 0, 0, 0, 0, time.UTC)},
		{"monday start on monday", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), time.Monday, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfWeek(tt.t, tt.weekStart)
			if !got.Equal(tt.expected) {
				t.Errorf("StartOfWeek() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestWeekBounds_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// DST starts on Sunday, March 31, 2024 in Europe
	start, end := WeekBounds(time.Date(2024, time.March, 28, 12, 0, 0, 0, loc), time.Monday)

	if !start.Equal(time.Date(2024, time.March, 25, 0, 0, 0, 0, loc)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2024, time.April, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("end = %v", end)
	}
	if end.Sub(start) != 7*24*time.Hour-time.Hour {
		t.Errorf("week length = %v, expected 167h", end.Sub(start))
	}
}

func TestInRange_HalfOpen(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	if !InRange(start, start, end) {
		t.Error("start should be in range")
	}
	if InRange(end, start, end) {
		t.Error("end should not be in range")
	}
	if InRange(start.Add(-time.Nanosecond), start, end) {
		t.Error("before start should not be in range")
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Weekday
		wantErr  bool
	}{
		{"monday", time.Monday, false},
		{"Sunday", time.Sunday, false},
		{"", time.Monday, false},
		{"friday", time.Monday, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseWeekday(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-01-15", time.UTC)
	if err != nil || !got.Equal(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate(ISO) = %v, %v", got, err)
	}

	got, err = ParseDate("15/01/2024", time.UTC)
	if err != nil || !got.Equal(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate(European) = %v, %v", got, err)
	}

	_, err = ParseDate("2024-01", time.UTC)
	if err == nil || !strings.Contains(err.Error(), "missing day") {
		t.Errorf("ParseDate(partial) error = %v", err)
	}
}

func TestParseDateTime(t *testing.T) {
	ref := time.Date(2024, time.January, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"date and time", "2024-01-14 09:30", time.Date(2024, time.January, 14, 9, 30, 0, 0, time.UTC)},
		{"T separator", "2024-01-14T09:30", time.Date(2024, time.January, 14, 9, 30, 0, 0, time.UTC)},
		{"with seconds", "2024-01-14 09:30:15", time.Date(2024, time.January, 14, 9, 30, 15, 0, time.UTC)},
		{"time only", "09:30", time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)},
		{"rfc3339", "2024-01-15T10:00:00+02:00", time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input, ref)
			if err != nil {
				t.Fatalf("ParseDateTime(%q) returned unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseDateTime(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}

	for _, input := range []string{"", "yesterday", "25:99"} {
		if _, err := ParseDateTime(input, ref); err == nil {
			t.Errorf("ParseDateTime(%q) expected error", input)
		}
	}
}
