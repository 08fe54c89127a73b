// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/flashmash/internal/deck"
	"github.com/verte-zerg/flashmash/internal/input"
	"github.com/verte-zerg/flashmash/internal/model"
	"github.com/verte-zerg/flashmash/internal/options"
	"github.com/verte-zerg/flashmash/internal/session"
	statsPkg "github.com/verte-zerg/flashmash/internal/stats"
)

const directions = "Stop the cycling when the answer that matches the prompt is shown: " +
	"press space, show an open hand to the camera (g) or say \"stop\" (v). " +
	"Three correct answers in a row speed the cards up; two misses in a row slow them down."

// SessionStore is the persistence the practice screen needs.
type SessionStore interface {
	InsertSession(ctx context.Context, stats model.SessionStats, results []model.CardResult) (int64, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	DeckAccuracy(ctx context.Context, deck string) (correct, cards int, err error)
	GetWeakCards(ctx context.Context, window int, deck string) ([]model.CardAggregate, error)
}

// Deps wires a Model. Store, Arbiter and Logger may be nil.
type Deps struct {
	Store   SessionStore
	Options *options.Generator
	Arbiter *input.Arbiter
	Logger  *slog.Logger
	Clock   session.Clock
}

type wakeMsg struct{}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config  model.Config
	cards   []model.Card
	store   SessionStore
	gen     *options.Generator
	arbiter *input.Arbiter
	logger  *slog.Logger
	clock   session.Clock
	policy  session.Policy

	engine *session.Engine
	wake   chan struct{}
	state  session.State
	saved  bool
	report string

	weakSet        map[string]struct{}
	showDirections bool
	notice         string

	width  int
	height int

	lastAcc    float64
	hasLast    bool
	allCorrect int
	allCards   int
}

var (
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	optionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Padding(0, 2).Border(lipgloss.RoundedBorder())
	correctStyle   = optionStyle.Foreground(lipgloss.Color("#52C41A")).BorderForeground(lipgloss.Color("#52C41A"))
	incorrectStyle = optionStyle.Foreground(lipgloss.Color("#FF4D4F")).BorderForeground(lipgloss.Color("#FF4D4F"))
	feedbackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a practice model for cards. The session starts in Init.
func NewModel(cfg model.Config, cards []model.Card, deps Deps) (*Model, error) {
	m := &Model{
		config:  cfg,
		cards:   cards,
		store:   deps.Store,
		gen:     deps.Options,
		arbiter: deps.Arbiter,
		logger:  deps.Logger,
		clock:   deps.Clock,
		policy:  session.PolicyFromConfig(cfg),
		wake:    make(chan struct{}, 1),
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.gen == nil {
		m.gen = options.New()
	}
	if m.arbiter == nil {
		m.arbiter = input.NewArbiter(nil, m.logger)
	}
	m.arbiter.OnChange(m.poke)
	if cfg.FocusWeak {
		m.refreshWeakSet()
	}
	if err := m.newEngine(); err != nil {
		return nil, err
	}
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if err := m.engine.Start(); err != nil {
		m.logger.Error("failed to start session", "error", err)
		return tea.Quit
	}
	m.state = m.engine.State()
	return waitForWake(m.wake)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case wakeMsg:
		m.state = m.engine.State()
		if m.state.Phase == session.PhaseComplete && !m.saved {
			m.finishSession()
		}
		return m, waitForWake(m.wake)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	complete := m.state.Phase == session.PhaseComplete
	switch msg.String() {
	case "ctrl+c", "esc":
		m.Close()
		return m, tea.Quit
	case " ", "enter":
		if !complete {
			m.arbiter.Press()
		}
	case "g":
		m.toggle(input.SourceGesture)
	case "v":
		m.toggle(input.SourceVoice)
	case "?":
		m.showDirections = !m.showDirections
	case "r":
		if complete {
			m.restart()
		}
	case "q":
		if complete {
			m.Close()
			return m, tea.Quit
		}
	}
	return m, nil
}

// Close stops the engine timers and any running classifier.
func (m *Model) Close() {
	m.engine.Close()
	if err := m.arbiter.Close(); err != nil {
		m.logger.Warn("failed to stop input source", "error", err)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderBody()
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

func (m *Model) renderBody() string {
	width := m.contentWidth()
	if m.state.Phase == session.PhaseComplete {
		text := wrapText(m.report, width)
		help := helpStyle.Render("r restart · q quit")
		return text + "\n\n" + help
	}

	parts := []string{promptStyle.Render(m.state.Prompt), ""}
	style := optionStyle
	if m.state.Phase == session.PhaseLocked {
		style = incorrectStyle
		if m.state.LastCorrect {
			style = correctStyle
		}
	}
	parts = append(parts, style.Render(m.state.Displayed))
	if m.state.Feedback != "" {
		parts = append(parts, "", feedbackStyle.Render(wrapText(m.state.Feedback, width)))
	}
	if m.notice != "" {
		parts = append(parts, "", feedbackStyle.Render(wrapText(m.notice, width)))
	}
	if m.showDirections {
		parts = append(parts, "", helpStyle.Render(wrapText(directions, width)))
	}
	parts = append(parts, "", helpStyle.Render("space stop · g gesture · v voice · ? help · esc quit"))
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Card %d/%d", min(m.state.CardIndex+1, max(m.state.Total, 1)), m.state.Total),
		fmt.Sprintf("Interval %.1fs", m.state.Interval.Seconds()),
	}
	switch {
	case m.state.CorrectStreak > 0:
		segments = append(segments, fmt.Sprintf("Streak +%d", m.state.CorrectStreak))
	case m.state.IncorrectStreak > 0:
		segments = append(segments, fmt.Sprintf("Streak -%d", m.state.IncorrectStreak))
	}
	for _, src := range []input.Source{input.SourceGesture, input.SourceVoice} {
		status, _ := m.arbiter.Status(src)
		segments = append(segments, fmt.Sprintf("%s %s", titleCase(src.String()), status))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f%%", m.lastAcc*100))
	}
	if m.allCards > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f%%", float64(m.allCorrect)/float64(m.allCards)*100))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) toggle(src input.Source) {
	if err := m.arbiter.Toggle(context.Background(), src); err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = ""
}

// poke wakes the update loop without blocking; one pending wake is enough
// because every wake re-reads the full engine state.
func (m *Model) poke() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func waitForWake(wake <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-wake
		return wakeMsg{}
	}
}

func (m *Model) newEngine() error {
	cards := m.cards
	if m.config.Shuffle {
		cards = m.gen.Shuffle(cards)
	}
	if len(m.weakSet) > 0 {
		cards = deck.WeakFirst(cards, m.weakSet)
	}
	policy := m.policy
	engine, err := session.New(cards, session.Config{
		Clock:   m.clock,
		Policy:  &policy,
		Options: m.gen,
		Logger:  m.logger,
		Notify:  func(session.Event) { m.poke() },
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	m.engine = engine
	m.arbiter.SetGate(engine)
	m.state = engine.State()
	m.saved = false
	m.report = ""
	return nil
}

func (m *Model) restart() {
	m.engine.Close()
	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
	if err := m.newEngine(); err != nil {
		m.notice = err.Error()
		return
	}
	if err := m.engine.Start(); err != nil {
		m.notice = err.Error()
		return
	}
	m.state = m.engine.State()
}

func (m *Model) finishSession() {
	m.saved = true
	st := m.state
	summary := statsPkg.Summarize(st.Log, st.Total, st.StartedAt, st.CompletedAt)
	var b strings.Builder
	if err := summary.RenderSummary(&b); err != nil {
		m.logger.Error("failed to render summary", "error", err)
	}
	m.report = strings.TrimRight(b.String(), "\n")

	m.lastAcc = summary.Percent / 100
	m.hasLast = true
	m.allCorrect += summary.Correct
	m.allCards += summary.Total

	if m.store == nil {
		return
	}
	stats := model.SessionStats{
		StartedAt:     st.StartedAt,
		EndedAt:       st.CompletedAt,
		Deck:          m.config.Deck,
		DeckPath:      m.config.DeckPath,
		Cards:         st.Total,
		Correct:       summary.Correct,
		DurationMs:    summary.Elapsed.Milliseconds(),
		StartInterval: m.policy.Start,
		FinalInterval: st.Interval,
	}
	if _, err := m.store.InsertSession(context.Background(), stats, model.ResultsFromLog(st.Log)); err != nil {
		m.logger.Error("failed to save session", "error", err)
		m.notice = "failed to save session: " + err.Error()
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	sessions, err := m.store.ListSessions(ctx, model.StatsConfig{Deck: m.config.Deck})
	if err != nil {
		m.logger.Warn("failed to load session stats", "error", err)
		return
	}
	if len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		m.lastAcc, _ = statsPkg.SessionMetrics(last.Correct, last.Cards, last.DurationMs)
		m.hasLast = true
	}
	m.allCorrect, m.allCards, err = m.store.DeckAccuracy(ctx, m.config.Deck)
	if err != nil {
		m.logger.Warn("failed to load deck accuracy", "error", err)
	}
}

func (m *Model) refreshWeakSet() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.GetWeakCards(context.Background(), m.config.WeakWindow, m.config.Deck)
	if err != nil {
		m.logger.Warn("failed to load weak cards", "error", err)
		return
	}
	m.weakSet = statsPkg.SelectWeakCards(aggs, m.config.WeakTop)
	if len(m.weakSet) == 0 {
		m.logger.Info("no weak cards yet; using deck order", "deck", m.config.Deck)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
