// Package notify schedules the hourly "still working?" reminders of open
// sessions and delivers them when they fall due.
package notify

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// RemindersFile is the name of the pending reminder queue file
	RemindersFile = "reminders.json"
	// HoursAhead is how many hourly reminders one schedule call creates
	HoursAhead = 24
)

// ErrScheduling marks a reminder schedule or cancel that did not take effect.
var ErrScheduling = errors.New("reminder scheduling failed")

// Reminder is one hourly notification tagged with its session.
type Reminder struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	ProjectName string     `json:"project_name"`
	Hour        int        `json:"hour"`
	FireAt      time.Time  `json:"fire_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// Delivered reports whether the reminder has already been shown.
func (r Reminder) Delivered() bool {
	return r.DeliveredAt != nil
}

// Message is the text shown when the reminder fires.
func (r Reminder) Message() string {
	if r.Hour == 1 {
		return fmt.Sprintf("Still working on %s?", r.ProjectName)
	}
	return fmt.Sprintf("Still working on %s? (reminder %d)", r.ProjectName, r.Hour)
}

// Scheduler manages the reminders of open sessions. Failures are never
// allowed to block a timer transition; callers log and continue.
type Scheduler interface {
	// ScheduleHourlyReminders replaces the session's reminders with one per
	// top-of-hour boundary over the next HoursAhead hours after from.
	ScheduleHourlyReminders(sessionID, projectName string, from time.Time) error
	// CancelReminders drops the session's pending and delivered reminders.
	CancelReminders(sessionID string) error
}

// ReminderID is the hour-indexed identifier of a session's reminder.
func ReminderID(sessionID string, hour int) string {
	return fmt.Sprintf("%s-h%d", sessionID, hour)
}

// belongsTo reports whether r is tagged with sessionID, either directly or
// through its hour-indexed id.
func belongsTo(r Reminder, sessionID string) bool {
	return r.SessionID == sessionID || strings.HasPrefix(r.ID, sessionID+"-h")
}

// HourlyReminders builds the reminders for a session. The first fires at the
// first top of the hour strictly after from, in from's location.
func HourlyReminders(sessionID, projectName string, from time.Time) []Reminder {
	first := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), 0, 0, 0, from.Location()).Add(time.Hour)

	reminders := make([]Reminder, 0, HoursAhead)
	for hour := 1; hour <= HoursAhead; hour++ {
		reminders = append(reminders, Reminder{
			ID:          ReminderID(sessionID, hour),
			SessionID:   sessionID,
			ProjectName: projectName,
			Hour:        hour,
			FireAt:      first.Add(time.Duration(hour-1) * time.Hour),
		})
	}
	return reminders
}

// NopScheduler is used when reminders are disabled.
type NopScheduler struct{}

func (NopScheduler) ScheduleHourlyReminders(string, string, time.Time) error { return nil }

func (NopScheduler) CancelReminders(string) error { return nil }
