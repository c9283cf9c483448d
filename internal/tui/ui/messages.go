package ui

import "github.com/xolan/punch/internal/notify"

// ThemeChangeRequestMsg is sent when a theme change is requested.
type ThemeChangeRequestMsg struct {
	ThemeName string
}

// ThemeChangedMsg is broadcast to all views when the theme changes.
type ThemeChangedMsg struct {
	ThemeName string
	Styles    Styles
}

// ReminderMsg carries a delivered reminder into the program.
type ReminderMsg struct {
	Reminder notify.Reminder
}

// SessionChangedMsg is sent after the watch screen paused, resumed or
// stopped a session, so every view reloads.
type SessionChangedMsg struct{}
