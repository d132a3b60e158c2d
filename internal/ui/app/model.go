package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	enforcedto "pomo/internal/modules/enforce/dto"
	"pomo/internal/modules/timer/dto"
	apperrors "pomo/internal/platform/errors"
	"pomo/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this view requires.

type timerPort interface {
	StartFocus(ctx context.Context) (dto.CycleStateOutput, error)
	StartBreak(ctx context.Context, forceLong bool) (dto.CycleStateOutput, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	EndSession(ctx context.Context, completed bool) (dto.CycleStateOutput, error)
	GetState(ctx context.Context) (dto.CycleStateOutput, error)
	ResetCycleCount(ctx context.Context) error
	History(ctx context.Context, limit int) ([]dto.SessionOutput, error)
}

type enforcePort interface {
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context) error
	BeginBreak(ctx context.Context) error
	EmergencyExit(ctx context.Context) error
	GetState(ctx context.Context) (enforcedto.StateOutput, error)
}

// ─── async messages ───────────────────────────────────────────────────────────

const pollInterval = 500 * time.Millisecond

type pollMsg time.Time

type stateMsg struct {
	timer   dto.CycleStateOutput
	enforce enforcedto.StateOutput
	err     error
}

type actionMsg struct {
	label string
	err   error
}

type historyMsg struct {
	sessions []dto.SessionOutput
	err      error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Focus     key.Binding
	Break     key.Binding
	LongBreak key.Binding
	Pause     key.Binding
	Resume    key.Binding
	Abandon   key.Binding
	Enforce   key.Binding
	Emergency key.Binding
	History   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Focus:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start focus")),
		Break:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "start break")),
		LongBreak: key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "long break")),
		Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Abandon:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "abandon")),
		Enforce:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "toggle enforcement")),
		Emergency: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "emergency exit")),
		History:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Break, k.Pause, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Break, k.LongBreak},
		{k.Pause, k.Resume, k.Abandon},
		{k.Enforce, k.Emergency},
		{k.History, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model: a single timer screen with a
// history overlay. It never touches the engine directly; all reads go
// through a periodic poll so the view stays consistent with ticks
// produced by the background driver.
type Model struct {
	timer   timerPort
	enforce enforcePort

	state        dto.CycleStateOutput
	enforceState enforcedto.StateOutput
	sessions     []dto.SessionOutput

	keys        keyMap
	help        help.Model
	bar         progress.Model
	showHelp    bool
	showHistory bool
	status      string
	width       int
	height      int
}

func NewModel(timer timerPort, enforce enforcePort) Model {
	bar := progress.New(progress.WithSolidFill(string(theme.Lavender)))
	bar.ShowPercentage = false
	return Model{
		timer:   timer,
		enforce: enforce,
		keys:    defaultKeys(),
		help:    help.New(),
		bar:     bar,
		status:  "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadStateCmd(), m.pollCmd())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = min(msg.Width-12, 48)

	case pollMsg:
		return m, tea.Batch(m.loadStateCmd(), m.pollCmd())

	case stateMsg:
		if msg.err != nil {
			m.status = "state: " + msg.err.Error()
		} else {
			m.state = msg.timer
			m.enforceState = msg.enforce
		}

	case actionMsg:
		switch {
		case msg.err == nil:
			m.status = msg.label
		case errors.Is(msg.err, apperrors.ErrPersistenceDesync):
			// In-memory transition went through, only the record is off.
			m.status = msg.label + " (history not saved)"
		default:
			m.status = msg.err.Error()
		}
		return m, m.loadStateCmd()

	case historyMsg:
		if msg.err != nil {
			m.status = "history: " + msg.err.Error()
		} else {
			m.sessions = msg.sessions
			m.showHistory = true
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.showHistory {
		switch msg.String() {
		case "q", "esc", "?", "h":
			m.showHelp = false
			m.showHistory = false
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.History):
		return m, m.loadHistoryCmd()
	case key.Matches(msg, m.keys.Focus):
		return m, m.timerCmd("focus started", func(ctx context.Context) error {
			_, err := m.timer.StartFocus(ctx)
			return err
		})
	case key.Matches(msg, m.keys.Break):
		return m, m.timerCmd("break started", func(ctx context.Context) error {
			_, err := m.timer.StartBreak(ctx, false)
			return err
		})
	case key.Matches(msg, m.keys.LongBreak):
		return m, m.timerCmd("long break started", func(ctx context.Context) error {
			_, err := m.timer.StartBreak(ctx, true)
			return err
		})
	case key.Matches(msg, m.keys.Pause):
		return m, m.timerCmd("paused", m.timer.Pause)
	case key.Matches(msg, m.keys.Resume):
		return m, m.timerCmd("resumed", m.timer.Resume)
	case key.Matches(msg, m.keys.Abandon):
		return m, m.timerCmd("session abandoned", func(ctx context.Context) error {
			_, err := m.timer.EndSession(ctx, false)
			return err
		})
	case key.Matches(msg, m.keys.Enforce):
		if m.enforceState.Active {
			return m, m.timerCmd("enforcement off", m.enforce.Deactivate)
		}
		return m, m.timerCmd("enforcement on", m.enforce.Activate)
	case key.Matches(msg, m.keys.Emergency):
		return m, m.timerCmd("emergency exit", m.enforce.EmergencyExit)
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var content string
	switch {
	case m.showHelp:
		content = m.help.View(m.keys)
	case m.showHistory:
		content = m.renderHistory()
	default:
		content = m.renderTimer()
	}

	pane := theme.Pane.Render(content)
	status := m.renderStatusBar()
	body := lipgloss.JoinVertical(lipgloss.Left, pane, status)
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderTimer() string {
	phase := m.state.Phase
	header := theme.Title.Render("pomo") + "  " + theme.PhaseStyle(phase).Render(phaseLabel(phase))
	if m.state.Phase != "idle" && !m.state.Running {
		header += theme.Muted.Render("  (paused)")
	}

	countdown := theme.Countdown.Render(formatRemaining(m.state.Remaining))
	bar := m.bar.ViewAs(completion(m.state))

	cycles := theme.Muted.Render(fmt.Sprintf("cycles since long break: %d", m.state.CycleCount))
	enforcement := theme.Muted.Render("enforcement: off")
	if m.enforceState.Active {
		label := "enforcement: on"
		if m.enforceState.Locked {
			label = "enforcement: locked"
		}
		enforcement = theme.Bad.Render(label)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header, "", countdown, bar, "", cycles, enforcement)
}

func (m Model) renderHistory() string {
	lines := []string{theme.Title.Render("recent sessions")}
	if len(m.sessions) == 0 {
		lines = append(lines, theme.Muted.Render("no sessions recorded"))
	}
	for _, s := range m.sessions {
		mark := theme.Bad.Render("✗")
		if s.Completed {
			mark = theme.Good.Render("✓")
		}
		lines = append(lines, fmt.Sprintf("%s %s  %-11s %s",
			mark,
			s.StartTime.Format("Jan 02 15:04"),
			s.Kind,
			formatRemaining(s.ActualDuration)))
	}
	lines = append(lines, "", theme.Muted.Render("esc to close"))
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	hint := theme.Muted.Render("?:help  q:quit")
	return " " + m.status + "  " + hint
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) pollCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m Model) loadStateCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		state, err := m.timer.GetState(ctx)
		if err != nil {
			return stateMsg{err: err}
		}
		enforceState, err := m.enforce.GetState(ctx)
		if err != nil {
			return stateMsg{err: err}
		}
		return stateMsg{timer: state, enforce: enforceState}
	}
}

func (m Model) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.timer.History(context.Background(), 15)
		return historyMsg{sessions: sessions, err: err}
	}
}

func (m Model) timerCmd(label string, call func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{label: label, err: call(context.Background())}
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func phaseLabel(phase string) string {
	switch phase {
	case "focus":
		return "focus"
	case "short_break":
		return "short break"
	case "long_break":
		return "long break"
	default:
		return "idle"
	}
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func completion(state dto.CycleStateOutput) float64 {
	if state.Planned <= 0 {
		return 0
	}
	done := float64(state.Planned-state.Remaining) / float64(state.Planned)
	if done < 0 {
		return 0
	}
	if done > 1 {
		return 1
	}
	return done
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
