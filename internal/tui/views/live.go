package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/live"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/timer"
	"github.com/xolan/punch/internal/tui/ui"
)

// reloadEvery is how many ticks pass between reloads of the open sessions,
// so changes made from another terminal show up.
const reloadEvery = 5

// LiveModel shows the published live status and every open session. Elapsed
// times are computed locally from snapshots on each tick.
type LiveModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	width  int
	height int
	ticks  int
	now    time.Time

	published *live.Status
	sessions  []service.SessionView
	cursor    int
	loaded    bool
	err       error
}

// NewLiveModel creates the live view
func NewLiveModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) LiveModel {
	return LiveModel{
		services: services,
		styles:   styles,
		keys:     keys,
		now:      services.Clock.Now(),
	}
}

// liveLoadedMsg carries a fresh read of the published status and open sessions
type liveLoadedMsg struct {
	published *live.Status
	sessions  []service.SessionView
	err       error
}

// LiveTickMsg advances the local clock once a second
type LiveTickMsg time.Time

// Init implements tea.Model
func (m LiveModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.tick())
}

// Update implements tea.Model
func (m LiveModel) Update(msg tea.Msg) (LiveModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = clamp(m.cursor-1, 0, max(len(m.sessions)-1, 0))
		case key.Matches(msg, m.keys.Down):
			m.cursor = clamp(m.cursor+1, 0, max(len(m.sessions)-1, 0))
		case key.Matches(msg, m.keys.Pause):
			if v, ok := m.selected(); ok {
				return m, m.toggle(v)
			}
		case key.Matches(msg, m.keys.Stop):
			if v, ok := m.selected(); ok {
				return m, m.stop(v)
			}
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}

	case liveLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.published = msg.published
			m.sessions = msg.sessions
		}
		m.cursor = clamp(m.cursor, 0, max(len(m.sessions)-1, 0))
		m.now = m.services.Clock.Now()

	case LiveTickMsg:
		m.now = m.services.Clock.Now()
		m.ticks++
		if m.ticks%reloadEvery == 0 {
			return m, tea.Batch(m.load(), m.tick())
		}
		return m, m.tick()

	case ui.SessionChangedMsg:
		return m, m.load()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
	}

	return m, nil
}

// View implements tea.Model
func (m LiveModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Live"))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString("Loading...")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.published == nil {
		b.WriteString(m.styles.TimerStopped.Render("No session running"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Start one with 'punch start <project>'"))
		return b.String()
	}

	b.WriteString(m.renderHeadline(*m.published))
	b.WriteString("\n\n")

	if len(m.sessions) > 1 {
		b.WriteString(m.styles.StatLabel.Render("Open sessions:"))
		b.WriteString("\n")
	}
	for i, v := range m.sessions {
		b.WriteString(m.renderRow(i, v))
		b.WriteString("\n")
	}
	return b.String()
}

func (m LiveModel) renderHeadline(s live.Status) string {
	state := m.styles.TimerRunning.Render("● Running")
	if !s.IsRunning {
		state = m.styles.TimerPaused.Render("‖ Paused")
	}
	return fmt.Sprintf("%s  %s %s\n\n%s",
		state,
		cli.Swatch(s.Color),
		m.styles.StatValue.Render(s.ProjectName),
		m.styles.TimerElapsed.Render(cli.FormatClock(s.Elapsed(m.now))))
}

func (m LiveModel) renderRow(i int, v service.SessionView) string {
	elapsed := v.Session.Snapshot(v.At).Elapsed(m.now)
	line := fmt.Sprintf("%s %s %-20s %s  %s",
		m.styles.SessionID.Render(cli.ShortID(v.Session.ID)),
		cli.Swatch(v.Color),
		v.Project.Name,
		m.styles.SessionDuration.Render(cli.FormatClock(elapsed)),
		m.stateLabel(v.State))

	if i == m.cursor {
		return m.styles.RowSelected.Render("▸ " + line)
	}
	return m.styles.RowNormal.Render("  " + line)
}

func (m LiveModel) stateLabel(s timer.State) string {
	if s == timer.StateRunning {
		return m.styles.TimerRunning.Render(cli.FormatState(s))
	}
	return m.styles.TimerPaused.Render(cli.FormatState(s))
}

// SetSize sets the view dimensions
func (m *LiveModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m LiveModel) selected() (service.SessionView, bool) {
	if m.cursor < 0 || m.cursor >= len(m.sessions) {
		return service.SessionView{}, false
	}
	return m.sessions[m.cursor], true
}

// load reads the published status, falling back to computing it when no
// status file is configured, plus the list of open sessions.
func (m LiveModel) load() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var published *live.Status
		var err error
		if path := m.services.Paths.Live; path != "" {
			published, err = live.Read(path)
		} else {
			published, err = m.services.Timer.LiveStatus(ctx)
		}
		if err != nil {
			return liveLoadedMsg{err: err}
		}

		sessions, err := m.services.Timer.Status(ctx)
		if err != nil {
			return liveLoadedMsg{err: err}
		}
		// A status file left behind by a crashed process is ignored
		if len(sessions) == 0 {
			published = nil
		}
		return liveLoadedMsg{published: published, sessions: sessions}
	}
}

func (m LiveModel) toggle(v service.SessionView) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if v.State == timer.StateRunning {
			_, err = m.services.Timer.PauseSession(ctx, v.Session.ID)
		} else {
			_, err = m.services.Timer.ResumeSession(ctx, v.Session.ID)
		}
		if err != nil && !service.IsPersistenceError(err) {
			return liveLoadedMsg{err: err}
		}
		return ui.SessionChangedMsg{}
	}
}

func (m LiveModel) stop(v service.SessionView) tea.Cmd {
	return func() tea.Msg {
		_, err := m.services.Timer.StopSession(context.Background(), v.Session.ID)
		if err != nil && !service.IsPersistenceError(err) {
			return liveLoadedMsg{err: err}
		}
		return ui.SessionChangedMsg{}
	}
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return LiveTickMsg(t)
	})
}
