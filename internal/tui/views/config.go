package views

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/tui/ui"
)

// maxVisibleThemes is the maximum number of themes to show at once
const maxVisibleThemes = 10

// ConfigModel shows the effective configuration and lets the user pick a theme
type ConfigModel struct {
	services      *service.Services
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap

	width     int
	height    int
	config    config.Config
	exists    bool
	themeName string

	// Theme selector state
	selectingTheme bool
	themes         []string
	themeCursor    int
	themeOffset    int
}

// NewConfigModel creates a new config view model
func NewConfigModel(services *service.Services, themeProvider *ui.ThemeProvider, styles ui.Styles, keys ui.KeyMap) ConfigModel {
	return ConfigModel{
		services:      services,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		themes:        themeProvider.AvailableThemes(),
		themeName:     themeProvider.CurrentName(),
		themeCursor:   themeProvider.IndexOf(themeProvider.CurrentName()),
	}
}

// configLoadedMsg is sent when config is loaded
type configLoadedMsg struct {
	config config.Config
	exists bool
}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return func() tea.Msg {
		return configLoadedMsg{
			config: m.services.Config.Get(),
			exists: m.services.Config.Exists(),
		}
	}
}

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.selectingTheme {
			return m.handleThemeSelection(msg)
		}
		if key.Matches(msg, m.keys.Select) || msg.String() == "t" {
			m.selectingTheme = true
			m.updateThemeOffset()
		}

	case configLoadedMsg:
		m.config = msg.config
		m.exists = msg.exists

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.themeName = msg.ThemeName
		m.themeCursor = m.themeProvider.IndexOf(msg.ThemeName)
	}

	return m, nil
}

// handleThemeSelection handles keys when theme selector is open
func (m ConfigModel) handleThemeSelection(msg tea.KeyMsg) (ConfigModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.themeCursor > 0 {
			m.themeCursor--
			m.updateThemeOffset()
		}

	case key.Matches(msg, m.keys.Down):
		if m.themeCursor < len(m.themes)-1 {
			m.themeCursor++
			m.updateThemeOffset()
		}

	case key.Matches(msg, m.keys.Select):
		selected := m.themes[m.themeCursor]
		m.selectingTheme = false
		return m, func() tea.Msg {
			return ui.ThemeChangeRequestMsg{ThemeName: selected}
		}

	case key.Matches(msg, m.keys.Back):
		m.selectingTheme = false
		m.themeCursor = m.themeProvider.IndexOf(m.themeName)
	}

	return m, nil
}

// updateThemeOffset keeps the cursor inside the visible window
func (m *ConfigModel) updateThemeOffset() {
	if m.themeCursor < m.themeOffset {
		m.themeOffset = m.themeCursor
	} else if m.themeCursor >= m.themeOffset+maxVisibleThemes {
		m.themeOffset = m.themeCursor - maxVisibleThemes + 1
	}
}

// View implements tea.Model
func (m ConfigModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Configuration"))
	b.WriteString("\n\n")

	b.WriteString(statLine(m.styles, "Config file:", m.services.Config.GetPath()))
	b.WriteString(m.styles.StatLabel.Render("Status:"))
	b.WriteString(" ")
	if m.exists {
		b.WriteString(m.styles.Success.Render("File exists"))
	} else {
		b.WriteString(m.styles.Warning.Render("Using defaults (no config file)"))
	}
	b.WriteString("\n")
	if dir := m.services.Paths.DataDir; dir != "" {
		b.WriteString(statLine(m.styles, "Data directory:", dir))
	}
	b.WriteString("\n")

	b.WriteString(statLine(m.styles, "week_start_day:", m.config.WeekStartDay))
	b.WriteString(statLine(m.styles, "timezone:", m.config.Timezone))
	b.WriteString(statLine(m.styles, "default_color:", cli.Swatch(m.config.DefaultColor)+" "+m.config.DefaultColor))
	b.WriteString(statLine(m.styles, "reminders_enabled:", strconv.FormatBool(m.config.RemindersEnabled)))
	b.WriteString(statLine(m.styles, "refresh_interval:", m.config.RefreshInterval))

	if m.selectingTheme {
		b.WriteString(m.renderThemeSelector())
	} else {
		b.WriteString(statLine(m.styles, "theme:", m.themeName))
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("Press Enter or 't' to change theme"))
	}

	return b.String()
}

// renderThemeSelector renders the theme selection list
func (m ConfigModel) renderThemeSelector() string {
	var b strings.Builder

	b.WriteString(m.styles.StatLabel.Render("theme:"))
	b.WriteString(" ")
	b.WriteString(m.styles.StatValue.Render("Select a theme"))
	b.WriteString("\n\n")

	end := min(m.themeOffset+maxVisibleThemes, len(m.themes))
	if m.themeOffset > 0 {
		b.WriteString(m.styles.StatLabel.Render("  ↑ more themes above"))
		b.WriteString("\n")
	}

	for i := m.themeOffset; i < end; i++ {
		theme := m.themes[i]
		current := ""
		if theme == m.themeName {
			current = m.styles.Success.Render(" (current)")
		}
		if i == m.themeCursor {
			b.WriteString(m.styles.RowSelected.Render("▸ " + theme))
		} else {
			b.WriteString("  " + m.styles.StatValue.Render(theme))
		}
		b.WriteString(current)
		b.WriteString("\n")
	}

	if end < len(m.themes) {
		b.WriteString(m.styles.StatLabel.Render("  ↓ more themes below"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("↑/↓ navigate  Enter select  Esc cancel"))

	return b.String()
}

// SetSize sets the view dimensions
func (m *ConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsSelecting reports whether the theme selector owns the keyboard
func (m ConfigModel) IsSelecting() bool {
	return m.selectingTheme
}
