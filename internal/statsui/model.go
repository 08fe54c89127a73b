// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/flashmash/internal/model"
	"github.com/verte-zerg/flashmash/internal/stats"
)

const (
	tabOverview = iota
	tabCardTable
	tabCardCurves
)

const (
	plotHeight   = 10
	topCardCount = 5
	dateLayout   = "2006-01-02"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tileStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	tileTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	tileValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Store is the history the stats screen reads.
type Store interface {
	stats.Source
	ListCardStatsForSessions(ctx context.Context, sessionIDs []int64, prompts []string) (map[int64]map[string]model.CardAggregate, error)
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	store Store
	cfg   model.StatsConfig

	report     stats.Report
	errMsg     string
	cardErrMsg string

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	cardTable  table.Model
	cardLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	cardSelection       []string
	cardSelectionCustom bool
	cardPerSession      map[int64]map[string]model.CardAggregate

	cardInputMode bool
	cardInput     textinput.Model
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model.
func NewModel(st Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Card Table", "Card Curves"},
	}
	m.cardSelection = parseCards(cfg.Cards)
	m.cardSelectionCustom = len(m.cardSelection) > 0
	m.initInputs()
	m.initCardInput()
	m.initCardTable()
	m.initViewports()
	m.refreshReport()
	return m
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.cardInputMode {
			return m.updateCardInput(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabCardCurves {
				return m.startCardInput()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabCardTable {
				m.cardTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabCardTable {
				m.cardTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabCardTable {
				m.cardTable, cmd = m.cardTable.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.cardInputMode {
		return fitLines(m.renderCardModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Deck: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initCardInput() {
	m.cardInput = newFilterInput("Cards: ")
	m.cardInput.Placeholder = "gato, perro"
}

func (m *Model) initCardTable() {
	cols, _ := buildCardTableData(nil, nil)
	m.cardTable = table.New(
		table.WithColumns(cols),
		table.WithHeight(1),
	)
	m.cardTable.SetStyles(cardTableStyles())
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[0].SetValue(strings.TrimSpace(m.cfg.Deck))
	m.filterInputs[1].SetValue("")
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format(dateLayout))
	}
	m.filterInputs[2].SetValue("")
	if m.cfg.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Last))
	}
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setCardTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
	promptWidth := lipgloss.Width(m.cardInput.Prompt)
	m.cardInput.Width = max(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabCardTable {
		m.cardTable.Focus()
	} else {
		m.cardTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	deck := m.cfg.Deck
	if deck == "" {
		deck = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: deck=%s  since=%s  last=%s  window=%d", deck, since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabCardCurves {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Edit cards: enter  Window: -/=  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabCardTable {
		switch {
		case len(m.report.Sessions) == 0:
			return fitLines("No sessions found.", m.width, height)
		case len(m.report.CardAggsWindow) == 0:
			return fitLines("No card stats found.", m.width, height)
		default:
			return fitLines(tableMutedStyle.Render(m.cardTable.View()), m.width, height)
		}
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.report = report
	if !m.cardSelectionCustom {
		m.cardSelection = stats.TopCardsByFrequency(m.report.CardAggsAll, topCardCount)
	}
	m.loadCardPerSession()
	_, bodyHeight, _ := m.layoutHeights()
	m.applyCardTable(m.bodyWidth(), bodyHeight)
	m.renderTabContents()
}

func (m *Model) bodyWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.bodyWidth()
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, width))
	m.viewports[tabCardCurves].SetContent(renderCardCurves(m.report.Sessions, m.cardSelection, m.cardPerSession, m.cfg.CurveWindow, width, m.cardErrMsg))
}

func renderOverview(sessions []model.SessionAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	summary := renderSummaryTiles(sessions, width)
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, sessions, window, stats.PlotOptions{Width: width, Height: plotHeight, Color: true}); err != nil {
		return summary + "\n\n" + fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderSummaryTiles(sessions []model.SessionAggregate, width int) string {
	h := stats.SummarizeHistory(sessions)
	tiles := []string{
		metricTile("Sessions", strconv.Itoa(h.Sessions)),
		metricTile("Avg Acc", fmt.Sprintf("%.1f%%", h.AvgAccuracy*100)),
		metricTile("Best Acc", fmt.Sprintf("%.1f%%", h.BestAccuracy*100)),
		metricTile("Sec/Card", fmt.Sprintf("%.2f", h.AvgSecPerCard)),
		metricTile("Fastest", fmt.Sprintf("%.1fs", float64(h.FastestMs)/1000)),
	}
	if width < 80 {
		return strings.Join(tiles, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, tiles[0], tiles[1], tiles[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, tiles[3], tiles[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricTile(label, value string) string {
	content := fmt.Sprintf("%s\n%s", tileTitleStyle.Render(label), tileValueStyle.Render(value))
	return tileStyle.Render(content)
}

func (m *Model) applyCardTable(width, height int) {
	cols, rows := buildCardTableData(m.report.Sessions, m.report.CardAggsWindow)
	m.cardTable.SetColumns(cols)
	m.cardTable.SetRows(rows)
	m.cardLayout.rowCount = len(rows)
	m.cardLayout.width = 0
	m.setCardTableSize(width, height)
}

func (m *Model) setCardTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.cardLayout.width == width && m.cardLayout.height == viewportHeight {
		return
	}
	m.cardLayout.width = width
	m.cardLayout.height = viewportHeight
	m.cardTable.SetWidth(width)
	m.cardTable.SetHeight(viewportHeight)
	if adjusted := m.adjustCardTableHeight(height); adjusted != viewportHeight {
		m.cardLayout.height = adjusted
		m.cardTable.SetHeight(adjusted)
	}
}

// adjustCardTableHeight compensates for the header border so the rendered
// table fills exactly bodyHeight lines.
func (m *Model) adjustCardTableHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.cardTable.Height()
	for i := 0; i < 2; i++ {
		viewHeight := lipgloss.Height(m.cardTable.View())
		if viewHeight == target {
			return height
		}
		height = max(1, height+target-viewHeight)
		m.cardTable.SetHeight(height)
	}
	return height
}

func cardTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func buildCardTableData(sessions []model.SessionAggregate, aggs []model.CardAggregate) ([]table.Column, []table.Row) {
	promptWidth := 12
	for _, agg := range aggs {
		promptWidth = max(promptWidth, lipgloss.Width(agg.Prompt))
	}
	columns := []table.Column{
		{Title: "Card", Width: min(promptWidth, 32)},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Interval (ms)", Width: 18},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Total", Width: 6},
	}
	rows := make([]table.Row, 0, len(aggs))
	if len(sessions) == 0 {
		return columns, rows
	}
	for _, agg := range sortWeakestFirst(aggs) {
		total := agg.Correct + agg.Incorrect
		acc, interval := 0.0, 0.0
		if total > 0 {
			acc = float64(agg.Correct) / float64(total) * 100
			interval = float64(agg.IntervalSumMs) / float64(total)
		}
		rows = append(rows, table.Row{
			agg.Prompt,
			fmt.Sprintf("%.2f%%", acc),
			fmt.Sprintf("%.0f", interval),
			strconv.Itoa(agg.Correct),
			strconv.Itoa(agg.Incorrect),
			strconv.Itoa(total),
		})
	}
	return columns, rows
}

func renderCardCurves(sessions []model.SessionAggregate, prompts []string, perSession map[int64]map[string]model.CardAggregate, window, width int, errMsg string) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	if errMsg != "" {
		return fmt.Sprintf("Failed to load card curves: %s", errMsg)
	}
	if len(prompts) == 0 {
		return "No cards selected. Press Enter to choose cards."
	}
	header := headerStyle.Render(fmt.Sprintf("Cards: %s", strings.Join(prompts, ", ")))
	var buf bytes.Buffer
	opts := stats.PlotOptions{Width: width, Height: plotHeight, Color: true}
	if err := stats.RenderCardCurves(&buf, sessions, perSession, prompts, window, opts); err != nil {
		return fmt.Sprintf("Failed to render card curves: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) startCardInput() (tea.Model, tea.Cmd) {
	m.cardInputMode = true
	m.cardInput.SetValue(strings.Join(m.cardSelection, ", "))
	return m, m.cardInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterInputs, m.cfg.Cards)
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) updateCardInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.cardInputMode = false
		return m, nil
	case tea.KeyEnter:
		m.applyCardInput()
		m.cardInputMode = false
		m.loadCardPerSession()
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.cardInput, cmd = m.cardInput.Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

// parseFilter validates the settings form: deck, since, last, window.
func parseFilter(inputs []textinput.Model, cards string) (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Deck:  strings.TrimSpace(inputs[0].Value()),
		Cards: cards,
	}
	if raw := strings.TrimSpace(inputs[1].Value()); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return cfg, errors.New("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if raw := strings.TrimSpace(inputs[2].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return cfg, errors.New("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}
	cfg.CurveWindow = 1
	if raw := strings.TrimSpace(inputs[3].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return cfg, errors.New("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func (m *Model) applyCardInput() {
	prompts := parseCards(m.cardInput.Value())
	if len(prompts) == 0 {
		m.cardSelectionCustom = false
		m.cardSelection = stats.TopCardsByFrequency(m.report.CardAggsAll, topCardCount)
		return
	}
	m.cardSelectionCustom = true
	m.cardSelection = prompts
}

func (m *Model) renderCardModal() string {
	body := []string{
		tileValueStyle.Render("Select Cards"),
		m.cardInput.View(),
		headerStyle.Render("Comma-separated prompts. Leave empty for the most practiced."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) loadCardPerSession() {
	m.cardErrMsg = ""
	m.cardPerSession = nil
	if len(m.report.Sessions) == 0 || len(m.cardSelection) == 0 {
		return
	}
	perSession, err := m.store.ListCardStatsForSessions(context.Background(), sessionIDs(m.report.Sessions), m.cardSelection)
	if err != nil {
		m.cardErrMsg = err.Error()
		return
	}
	m.cardPerSession = perSession
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

// parseCards splits a comma-separated prompt list, dropping blanks and
// duplicates.
func parseCards(input string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func modalInnerWidth(width int) int {
	// 2 border + 4 padding
	return max(10, modalWidth(width)-6)
}

func sortWeakestFirst(aggs []model.CardAggregate) []model.CardAggregate {
	out := append([]model.CardAggregate(nil), aggs...)
	accuracy := func(agg model.CardAggregate) float64 {
		total := agg.Correct + agg.Incorrect
		if total == 0 {
			return 1
		}
		return float64(agg.Correct) / float64(total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := accuracy(out[i]), accuracy(out[j])
		if ai == aj {
			return out[i].Prompt < out[j].Prompt
		}
		return ai < aj
	})
	return out
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	if lineWidth := lipgloss.Width(line); lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
