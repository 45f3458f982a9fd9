// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/session"
	"github.com/verte-zerg/typetest/internal/stats"
)

const (
	defaultTick    = 250 * time.Millisecond
	resultsPlotRow = 8
	weakCharsShown = 5
	sparkWindow    = 3
)

// WordsReloadedMsg reports a reloaded word list. Err is set when the reload
// failed and the previous list is still in use.
type WordsReloadedMsg struct {
	Count int
	Err   error
}

type tickMsg struct {
	sessionID string
	at        time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	engine     *session.Engine
	logger     *slog.Logger
	difficulty model.Difficulty
	tick       time.Duration
	now        func() time.Time

	keys keyMap
	help help.Model

	width  int
	height int

	state   model.SessionState
	metrics model.Metrics
	samples []model.PerformanceSample
	notice  string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cardStyle        = lipgloss.NewStyle().
				Padding(0, 2).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// NewModel constructs a typing TUI model and starts the first session.
func NewModel(engine *session.Engine, difficulty model.Difficulty, tick time.Duration, logger *slog.Logger) (*Model, error) {
	if tick <= 0 {
		tick = defaultTick
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		engine:     engine,
		logger:     logger,
		difficulty: difficulty,
		tick:       tick,
		now:        time.Now,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
	if err := m.resetSession(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		return m, m.handleTick(msg)
	case WordsReloadedMsg:
		if msg.Err != nil {
			m.logger.Warn("word list reload failed", "err", msg.Err)
			m.notice = fmt.Sprintf("word list reload failed: %v", msg.Err)
			return m, nil
		}
		m.logger.Info("word list reloaded", "words", msg.Count)
		m.notice = fmt.Sprintf("word list reloaded (%d words), applies to the next text", msg.Count)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Difficulty):
		m.difficulty = m.difficulty.Next()
		m.reportReset()
		return nil
	case key.Matches(msg, m.keys.Restart):
		m.reportReset()
		return nil
	case m.state.Phase == model.Completed:
		if key.Matches(msg, m.keys.Retry) {
			m.reportReset()
		}
		return nil
	}

	if msg.Alt {
		return nil
	}
	now := m.now()
	switch msg.Type {
	case tea.KeyBackspace:
		if snap, ok := m.engine.OnBackspace(now); ok {
			m.apply(snap)
		}
		return nil
	case tea.KeySpace:
		return m.handleCharacter(" ", now)
	case tea.KeyRunes:
		if msg.Paste {
			return nil
		}
		return m.handleCharacter(string(msg.Runes), now)
	default:
		return nil
	}
}

func (m *Model) handleCharacter(key string, now time.Time) tea.Cmd {
	wasIdle := m.state.Phase == model.Idle
	snap, ok := m.engine.OnCharacterKey(key, now)
	if !ok {
		return nil
	}
	m.apply(snap)
	switch {
	case snap.State.Phase == model.Completed:
		m.logger.Info("session completed",
			"session", snap.State.ID,
			"difficulty", snap.State.Difficulty.String(),
			"wpm", snap.Metrics.WPM,
			"accuracy", snap.Metrics.Accuracy,
			"errors", snap.Metrics.Errors,
			"elapsed", snap.Metrics.ElapsedSeconds)
		return nil
	case wasIdle:
		m.logger.Debug("session started", "session", snap.State.ID)
		return m.scheduleTick(snap.State.ID)
	default:
		return nil
	}
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	metrics, ok := m.engine.TickSession(msg.sessionID, msg.at)
	if !ok {
		return nil
	}
	m.metrics = metrics
	if m.state.Phase != model.Running {
		return nil
	}
	return m.scheduleTick(msg.sessionID)
}

func (m *Model) scheduleTick(id string) tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg{sessionID: id, at: t}
	})
}

func (m *Model) apply(snap model.Snapshot) {
	m.state = snap.State
	m.metrics = snap.Metrics
	m.samples = m.engine.Samples()
}

func (m *Model) reportReset() {
	if err := m.resetSession(); err != nil {
		m.logger.Error("reset failed", "err", err)
		m.notice = err.Error()
	}
}

func (m *Model) resetSession() error {
	state, err := m.engine.Reset(m.difficulty)
	if err != nil {
		return err
	}
	m.state = state
	m.metrics = stats.Compute(state, 0)
	m.samples = nil
	m.logger.Debug("session reset", "session", state.ID, "difficulty", m.difficulty.String(), "length", len(state.Slots))
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.state.Slots) == 0 {
		return ""
	}
	var content string
	if m.state.Phase == model.Completed {
		content = m.renderResults()
	} else {
		content = m.renderTyping()
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderTyping() string {
	cursor := m.state.Cursor
	styled := buildStyledRunes(m.state.Slots, cursor)
	width := m.contentWidth()
	text := wrapStyledRunes(styled, width)
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(text)
	}
	lines := []string{text, "", footerStyle.Render(m.renderStatus())}
	if spark := m.renderSparkline(); spark != "" {
		lines = append(lines, footerStyle.Render(spark))
	}
	if m.notice != "" {
		lines = append(lines, noticeStyle.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus() string {
	segments := []string{
		fmt.Sprintf("Time %s", stats.FormatDuration(m.metrics.ElapsedSeconds)),
		fmt.Sprintf("%d WPM", m.metrics.WPM),
		fmt.Sprintf("Accuracy %.1f%%", m.metrics.Accuracy),
		fmt.Sprintf("Errors %d", m.metrics.Errors),
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderSparkline() string {
	if len(m.samples) < 2 {
		return ""
	}
	wpm, _ := stats.SampleSeries(m.samples)
	return "WPM per word " + stats.Sparkline(stats.MovingAverage(wpm, sparkWindow))
}

func (m *Model) renderResults() string {
	cards := []string{
		renderCard("WPM", fmt.Sprintf("%d", m.metrics.WPM)),
		renderCard("Accuracy", fmt.Sprintf("%.1f%%", m.metrics.Accuracy)),
		renderCard("Time", stats.FormatDuration(m.metrics.ElapsedSeconds)),
		renderCard("Keystrokes", fmt.Sprintf("%d", m.metrics.Keystrokes)),
		renderCard("Errors", fmt.Sprintf("%d", m.metrics.Errors)),
	}
	parts := []string{
		titleStyle.Render("Your Results"),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	}
	if weak := stats.WeakestChars(stats.TallyChars(m.state.Slots), weakCharsShown); len(weak) > 0 {
		marks := make([]string, 0, len(weak))
		for _, r := range weak {
			marks = append(marks, incorrectStyle.Render(string(r)))
		}
		parts = append(parts, footerStyle.Render("Missed ")+strings.Join(marks, " "))
	}
	var plot bytes.Buffer
	if err := stats.RenderPerformance(&plot, m.samples, m.contentWidth(), resultsPlotRow, true); err != nil {
		m.logger.Warn("failed to render performance graph", "err", err)
	} else {
		parts = append(parts, strings.TrimRight(plot.String(), "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func renderCard(title, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value))
}

func (m *Model) renderFooter() string {
	progress := 0
	if len(m.state.Slots) > 0 {
		progress = int(float64(m.state.Cursor) / float64(len(m.state.Slots)) * 100)
	}
	selector := make([]string, 0, len(model.Difficulties))
	for _, d := range model.Difficulties {
		label := d.String()
		if d == m.difficulty {
			label = "[" + label + "]"
		}
		selector = append(selector, label)
	}
	bindings := m.keys.ShortHelp()
	if m.state.Phase == model.Completed {
		bindings = m.keys.resultsHelp()
	}
	segments := []string{
		fmt.Sprintf("Progress %d%%", progress),
		strings.Join(selector, " "),
		m.help.ShortHelpView(bindings),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
