package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Styles contains all the styles used in the TUI
type Styles struct {
	// Base styles
	App lipgloss.Style

	// Tab bar
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	ViewTitle lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	// Session list
	RowSelected     lipgloss.Style
	RowNormal       lipgloss.Style
	SessionID       lipgloss.Style
	SessionTime     lipgloss.Style
	SessionDuration lipgloss.Style

	// Timer
	TimerRunning lipgloss.Style
	TimerPaused  lipgloss.Style
	TimerStopped lipgloss.Style
	TimerElapsed lipgloss.Style

	// Stats
	StatLabel lipgloss.Style
	StatValue lipgloss.Style
	Bar       lipgloss.Style

	// Dialog
	Dialog lipgloss.Style

	// Reminder banner
	Reminder lipgloss.Style

	// Errors and warnings
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

// palette maps semantic roles to colours
type palette struct {
	primary, secondary, accent, muted     lipgloss.TerminalColor
	success, warning, errorColor, fg, bg lipgloss.TerminalColor
	selected                              lipgloss.TerminalColor
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	return newStyles(palette{
		primary:    lipgloss.Color("99"),  // Purple
		secondary:  lipgloss.Color("39"),  // Cyan
		accent:     lipgloss.Color("212"), // Pink
		muted:      lipgloss.Color("240"), // Gray
		success:    lipgloss.Color("82"),
		warning:    lipgloss.Color("214"),
		errorColor: lipgloss.Color("196"),
		fg:         lipgloss.Color("252"),
		bg:         lipgloss.Color("236"),
		selected:   lipgloss.Color("237"),
	})
}

// NewStylesFromRegistry creates a Styles struct using colors from a bubbletint registry.
// This maps theme colors to semantic UI elements:
//   - Primary: Purple (tabs, titles)
//   - Secondary: Cyan (times, ids, keys)
//   - Accent: BrightPurple (durations, elapsed time)
//   - Muted: BrightBlack (inactive elements, labels)
func NewStylesFromRegistry(r *tint.Registry) Styles {
	return newStyles(palette{
		primary:    r.Purple(),
		secondary:  r.Cyan(),
		accent:     r.BrightPurple(),
		muted:      r.BrightBlack(),
		success:    r.Green(),
		warning:    r.Yellow(),
		errorColor: r.Red(),
		fg:         r.Fg(),
		bg:         r.Bg(),
		selected:   r.BrightBlack(),
	})
}

func newStyles(p palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		TabBar: lipgloss.NewStyle().
			MarginBottom(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.muted),
		TabActive: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		ViewTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			MarginBottom(1),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.fg).
			Background(p.bg).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		StatusHelp: lipgloss.NewStyle().
			Foreground(p.muted),

		RowSelected: lipgloss.NewStyle().
			Background(p.selected).
			Bold(true),
		RowNormal: lipgloss.NewStyle(),
		SessionID: lipgloss.NewStyle().
			Foreground(p.muted),
		SessionTime: lipgloss.NewStyle().
			Foreground(p.secondary),
		SessionDuration: lipgloss.NewStyle().
			Foreground(p.accent).
			Width(10).
			Align(lipgloss.Right),

		TimerRunning: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		TimerPaused: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		TimerStopped: lipgloss.NewStyle().
			Foreground(p.muted),
		TimerElapsed: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),

		StatLabel: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(20),
		StatValue: lipgloss.NewStyle().
			Foreground(p.fg).
			Bold(true),
		Bar: lipgloss.NewStyle().
			Foreground(p.secondary),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2).
			Width(50),

		Reminder: lipgloss.NewStyle().
			Foreground(p.bg).
			Background(p.warning).
			Bold(true).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(p.errorColor),
		Warning: lipgloss.NewStyle().
			Foreground(p.warning),
		Success: lipgloss.NewStyle().
			Foreground(p.success),
	}
}
