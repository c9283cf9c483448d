// Package service provides the business logic layer for the punch application.
// It wraps the underlying storage, timer, notify, live and stats packages,
// providing a clean API for both CLI and TUI frontends.
package service

import (
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/stats"
	"github.com/xolan/punch/internal/timer"
)

// SessionView is a session with its project, category and duration resolved
// at a single instant.
type SessionView struct {
	Session  timer.Session
	Project  entry.Project
	Category *entry.Category
	Color    string
	State    timer.State
	Duration time.Duration
	At       time.Time
}

// TransitionResult is the outcome of a timer command. Changed is false for
// the documented no-ops (pause while paused, resume while running).
type TransitionResult struct {
	SessionView
	Changed bool
	// Created is true when a new session was opened rather than an open one resumed
	Created bool
}

// CategorySummary is a category with the projects it owns.
type CategorySummary struct {
	Category entry.Category
	Projects []entry.Project
}

// ProjectView is a project with its category and effective colour.
type ProjectView struct {
	Project  entry.Project
	Category *entry.Category
	Color    string
}

// ProjectTotal is a project's all-time duration.
type ProjectTotal struct {
	Project      string        `json:"project" yaml:"project"`
	Category     string        `json:"category,omitempty" yaml:"category,omitempty"`
	Color        string        `json:"color" yaml:"color"`
	Total        time.Duration `json:"total" yaml:"total"`
	SessionCount int           `json:"session_count" yaml:"session_count"`
}

// CategoryTotal is the summed duration of a category's projects.
type CategoryTotal struct {
	Category     string        `json:"category" yaml:"category"`
	Color        string        `json:"color" yaml:"color"`
	Total        time.Duration `json:"total" yaml:"total"`
	ProjectCount int           `json:"project_count" yaml:"project_count"`
}

// Totals bundles project and category totals computed at one instant.
type Totals struct {
	At            time.Time       `json:"at" yaml:"at"`
	Projects      []ProjectTotal  `json:"projects" yaml:"projects"`
	Categories    []CategoryTotal `json:"categories" yaml:"categories"`
	Uncategorized time.Duration   `json:"uncategorized" yaml:"uncategorized"`
}

// WeekReport is the per-day and per-project summary of one week.
type WeekReport struct {
	Start    time.Time                `json:"start" yaml:"start"`
	End      time.Time                `json:"end" yaml:"end"`
	At       time.Time                `json:"at" yaml:"at"`
	Days     [7]stats.DayBucket       `json:"days" yaml:"days"`
	Total    time.Duration            `json:"total" yaml:"total"`
	Projects []stats.ProjectBreakdown `json:"projects" yaml:"projects"`
}
