// Package tui provides `punch watch`, a live terminal display of open
// sessions that also delivers hourly reminders.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/punch/internal/live"
	"github.com/xolan/punch/internal/notify"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/tui/ui"
	"github.com/xolan/punch/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabLive Tab = iota
	TabWeek
	TabConfig
)

var tabNames = []string{"Live", "Week", "Config"}

// Model is the root TUI model
type Model struct {
	services *service.Services

	activeTab Tab
	width     int
	height    int
	showHelp  bool

	// reminder is the last delivered reminder, shown until dismissed
	reminder *notify.Reminder

	liveView   views.LiveModel
	weekView   views.WeekModel
	configView views.ConfigModel

	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a new TUI model
func New(services *service.Services) Model {
	themeProvider := ui.NewThemeProvider(services.Config.Get().Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		services:      services,
		activeTab:     TabLive,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		liveView:      views.NewLiveModel(services, styles, keys),
		weekView:      views.NewWeekModel(services, styles, keys),
		configView:    views.NewConfigModel(services, themeProvider, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.liveView.Init(),
		m.weekView.Init(),
		m.configView.Init(),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The theme selector owns every key but ctrl+c while open
		if m.activeTab == TabConfig && m.configView.IsSelecting() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.configView, cmd = m.configView.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Dismiss) && m.reminder != nil:
			m.reminder = nil
			return m, nil

		case key.Matches(msg, m.keys.NextTab):
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.activeTab = Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames))
			return m, nil

		case key.Matches(msg, m.keys.Tab1):
			m.activeTab = TabLive
			return m, nil

		case key.Matches(msg, m.keys.Tab2):
			m.activeTab = TabWeek
			return m, nil

		case key.Matches(msg, m.keys.Tab3):
			m.activeTab = TabConfig
			return m, nil
		}

		// Keys go to the active view only
		switch m.activeTab {
		case TabLive:
			m.liveView, cmd = m.liveView.Update(msg)
		case TabWeek:
			m.weekView, cmd = m.weekView.Update(msg)
		case TabConfig:
			m.configView, cmd = m.configView.Update(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // tabs and status bar
		m.liveView.SetSize(m.width, contentHeight)
		m.weekView.SetSize(m.width, contentHeight)
		m.configView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.ReminderMsg:
		r := msg.Reminder
		m.reminder = &r
		return m, nil

	case ui.ThemeChangeRequestMsg:
		m.themeProvider.SetTheme(msg.ThemeName)
		m.styles = m.themeProvider.Styles()
		return m.broadcast(ui.ThemeChangedMsg{
			ThemeName: m.themeProvider.CurrentName(),
			Styles:    m.styles,
		}, m.saveThemeConfig(m.themeProvider.CurrentName()))
	}

	// Data and tick messages reach every view
	return m.broadcast(msg, nil)
}

// broadcast sends msg to every view and batches their commands with extra
func (m Model) broadcast(msg tea.Msg, extra tea.Cmd) (tea.Model, tea.Cmd) {
	var liveCmd, weekCmd, configCmd tea.Cmd
	m.liveView, liveCmd = m.liveView.Update(msg)
	m.weekView, weekCmd = m.weekView.Update(msg)
	m.configView, configCmd = m.configView.Update(msg)
	return m, tea.Batch(liveCmd, weekCmd, configCmd, extra)
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.reminder != nil {
		b.WriteString(m.styles.Reminder.Render(fmt.Sprintf("%s  %s", m.reminder.FireAt.Format("15:04"), m.reminder.Message())))
		b.WriteString("\n\n")
	}

	switch m.activeTab {
	case TabLive:
		b.WriteString(m.liveView.View())
	case TabWeek:
		b.WriteString(m.weekView.View())
	case TabConfig:
		b.WriteString(m.configView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return m.styles.App.Render(b.String())
}

// renderTabs renders the tab bar
func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	var parts []string

	switch m.activeTab {
	case TabLive:
		parts = append(parts, m.renderKeyHelp("p", "pause/resume"))
		parts = append(parts, m.renderKeyHelp("x", "stop"))
		parts = append(parts, m.renderKeyHelp("r", "refresh"))
	case TabWeek:
		parts = append(parts, m.renderKeyHelp("w/W", "this/last week"))
	case TabConfig:
		parts = append(parts, m.renderKeyHelp("t", "themes"))
	}
	if m.reminder != nil {
		parts = append(parts, m.renderKeyHelp("d", "dismiss"))
	}
	parts = append(parts, m.renderKeyHelp("1-3", "views"))
	parts = append(parts, m.renderKeyHelp("?", "help"))
	parts = append(parts, m.renderKeyHelp("q", "quit"))

	content := strings.Join(parts, "  ")
	if padding := m.width - lipgloss.Width(content); padding > 0 {
		content += strings.Repeat(" ", padding)
	}

	return m.styles.StatusBar.Render(content)
}

func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s",
		m.styles.StatusKey.Render(key),
		m.styles.StatusHelp.Render(desc))
}

// saveThemeConfig saves the theme to the config file
func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Config.SetTheme(themeName); err != nil {
			m.services.Logger.Warn("failed to save theme", "theme", themeName, "error", err)
		}
		return nil
	}
}

// renderHelpOverlay renders the keyboard shortcuts in a dialog box
func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")

	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/1-3    Switch views\n")
	help.WriteString("  d          Dismiss reminder\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit\n")
	help.WriteString("\n")

	switch m.activeTab {
	case TabLive:
		help.WriteString(m.styles.StatLabel.Render("Live:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Select session\n")
		help.WriteString("  p/space    Pause or resume\n")
		help.WriteString("  x          Stop\n")
		help.WriteString("  r          Refresh\n")
	case TabWeek:
		help.WriteString(m.styles.StatLabel.Render("Week:"))
		help.WriteString("\n")
		help.WriteString("  w          This week\n")
		help.WriteString("  W          Last week\n")
		help.WriteString("  r          Refresh\n")
	case TabConfig:
		help.WriteString(m.styles.StatLabel.Render("Config:"))
		help.WriteString("\n")
		help.WriteString("  t/Enter    Open theme selector\n")
		help.WriteString("  j/k        Navigate themes\n")
		help.WriteString("  Esc        Cancel\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))

	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// Run starts the watch screen. While it is open the live status is
// republished every refresh_interval and due reminders are delivered into
// the screen.
func Run(ctx context.Context, services *service.Services) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(services), tea.WithAltScreen(), tea.WithContext(ctx))

	refresher := live.NewRefresher(services.Timer, services.Projector, services.Config.Get().Refresh(), services.Logger)
	go refresher.Run(ctx)

	if queue, ok := services.Reminders.(notify.Queue); ok {
		dispatcher := notify.NewDispatcher(queue, ProgramNotifier(p), services.Clock, services.Logger)
		if err := dispatcher.Start(); err != nil {
			return err
		}
		defer dispatcher.Stop()
	}

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// ProgramNotifier delivers reminders into a running program. Send is
// called from its own goroutine because it blocks until the program reads.
func ProgramNotifier(p *tea.Program) notify.Notifier {
	return notify.NotifierFunc(func(r notify.Reminder) error {
		go p.Send(ui.ReminderMsg{Reminder: r})
		return nil
	})
}
