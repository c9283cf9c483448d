package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/tui/ui"
)

// barWidth is the widest a day's bar gets
const barWidth = 30

// WeekModel is the model for the weekly report view
type WeekModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	width   int
	height  int
	report  *service.WeekReport
	loading bool
	err     error
	last    bool // true = last week, false = this week
}

// NewWeekModel creates a new week view model
func NewWeekModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) WeekModel {
	return WeekModel{
		services: services,
		styles:   styles,
		keys:     keys,
		loading:  true,
	}
}

// weekLoadedMsg is sent when the report is loaded
type weekLoadedMsg struct {
	report *service.WeekReport
	err    error
}

// Init implements tea.Model
func (m WeekModel) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m WeekModel) Update(msg tea.Msg) (WeekModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ThisWeek):
			m.last = false
			return m, m.load()
		case key.Matches(msg, m.keys.PrevWeek):
			m.last = true
			return m, m.load()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}

	case weekLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.report = msg.report

	case ui.SessionChangedMsg:
		return m, m.load()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
	}

	return m, nil
}

// View implements tea.Model
func (m WeekModel) View() string {
	var b strings.Builder

	title := "This Week"
	if m.last {
		title = "Last Week"
	}
	b.WriteString(m.styles.ViewTitle.Render(title))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading...")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		return b.String()
	}
	if m.report == nil {
		b.WriteString("No data")
		return b.String()
	}

	r := m.report
	b.WriteString(statLine(m.styles, "Week:", cli.FormatDateRangeForDisplay(r.Start, r.End.AddDate(0, 0, -1))))
	b.WriteString(statLine(m.styles, "Total time:", cli.FormatDuration(r.Total)))
	b.WriteString("\n")

	var longest time.Duration
	for _, d := range r.Days {
		longest = max(longest, d.Total)
	}
	for _, d := range r.Days {
		fmt.Fprintf(&b, "  %-10s %8s  %s\n",
			d.Date.Format("Mon Jan 2"),
			cli.FormatDuration(d.Total),
			bar(m.styles, float64(d.Total), float64(longest), barWidth))
	}

	if len(r.Projects) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.ViewTitle.Render("By Project"))
		b.WriteString("\n")
		for _, p := range r.Projects {
			fmt.Fprintf(&b, "  %-20s %10s  %5.1f%%  (%d %s)\n",
				p.Project,
				cli.FormatDuration(p.Total),
				p.Percent,
				p.SessionCount,
				cli.Pluralize("session", p.SessionCount))
		}
	}

	return b.String()
}

// SetSize sets the view dimensions
func (m *WeekModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m WeekModel) load() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var report *service.WeekReport
		var err error
		if m.last {
			report, err = m.services.Report.LastWeek(ctx)
		} else {
			report, err = m.services.Report.ThisWeek(ctx)
		}
		return weekLoadedMsg{report: report, err: err}
	}
}
