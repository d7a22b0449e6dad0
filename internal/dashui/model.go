// Package dashui provides the Bubble Tea log dashboard.
package dashui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hublog/internal/analysis"
	"github.com/verte-zerg/hublog/internal/logparse"
	"github.com/verte-zerg/hublog/internal/model"
	"github.com/verte-zerg/hublog/internal/report"
)

const (
	tabOverview = iota
	tabSummary
	tabSeries
	tabAlerts
)

const plotHeight = 10

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
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AC864")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea dashboard over one parsed log.
type Model struct {
	logfile string
	parsed  logparse.Result
	cfg     model.CheckConfig

	check analysis.CheckResult
	rows  []model.SummaryRow

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	summaryTable table.Model

	width  int
	height int
}

// NewModel constructs a dashboard model for an already-parsed log.
func NewModel(logfile string, parsed logparse.Result, cfg model.CheckConfig) *Model {
	m := &Model{
		logfile: logfile,
		parsed:  parsed,
		cfg:     cfg,
		tabs:    []string{"Overview", "Summary", "Series", "Alerts"},
	}
	m.summaryTable = buildSummaryTable(nil, 0, 1)
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.recompute()
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
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabSummary {
			m.summaryTable.Focus()
		} else {
			m.summaryTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.Window++
			m.recompute()
			m.updateLayout()
			return m, nil
		case "-":
			if m.cfg.Window > 1 {
				m.cfg.Window--
				m.recompute()
				m.updateLayout()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabSummary {
				m.summaryTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSummary {
				m.summaryTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSummary {
				var cmd tea.Cmd
				m.summaryTable, cmd = m.summaryTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
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
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) recompute() {
	m.check = analysis.CheckLog(m.parsed, m.cfg)
	m.rows = analysis.Summarize(m.parsed.Samples, m.parsed.Alerts)
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.summaryTable = buildSummaryTable(m.rows, width, maxInt(1, bodyHeight-1))
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
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
	m.summaryTable.SetWidth(m.width)
	m.summaryTable.SetHeight(maxInt(1, vpHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabSummary {
		m.summaryTable.Focus()
	} else {
		m.summaryTable.Blur()
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := padLines(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
	status := fmt.Sprintf("Log: %s  duration=%dms  lines=%d  window=%d",
		m.logfile, m.cfg.DurationMs, m.parsed.TotalLines, m.cfg.Window)
	return tabs + "\n" + padLines(headerStyle.Render(truncateLine(status, m.width)), m.width)
}

func (m *Model) renderFooter() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q")
}

func (m *Model) renderBody() string {
	_, bodyHeight, _ := m.layoutHeights()
	if m.activeTab == tabSummary {
		if len(m.rows) == 0 {
			return fitLines("No samples found.", m.width, bodyHeight)
		}
		return fitLines(tableMutedStyle.Render(m.summaryTable.View()), m.width, bodyHeight)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, bodyHeight)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabSeries].SetContent(m.renderSeries(width))
	m.viewports[tabAlerts].SetContent(m.renderAlerts(width))
}

func (m *Model) renderOverview(width int) string {
	if len(m.parsed.Samples) == 0 {
		return "No samples found."
	}
	cards := []string{
		metricCard("Samples", fmt.Sprintf("%d", len(m.parsed.Samples))),
		metricCard("Alerts", fmt.Sprintf("%d", len(m.parsed.Alerts))),
		metricCard("Skipped", fmt.Sprintf("%d", m.parsed.SkippedLines())),
		metricCard("Checks", passFailLabel(m.check.Passed())),
	}
	var row string
	if width < 80 {
		row = strings.Join(cards, "\n")
	} else {
		row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	return strings.TrimRight(row+"\n\n"+m.renderChecks(), "\n")
}

func (m *Model) renderChecks() string {
	lines := make([]string, 0, len(m.check.Completeness)+2)
	for _, c := range m.check.Completeness {
		mark := passStyle.Render("ok")
		if !c.OK {
			mark = failStyle.Render("FAIL")
		}
		lines = append(lines, fmt.Sprintf("%-5s %d samples (expected >= %d)  %s", c.Sensor, c.Observed, c.Expected, mark))
	}
	policy := m.check.AlertPolicy
	switch {
	case !policy.Applicable:
		lines = append(lines, fmt.Sprintf("TEMP alert check skipped (run shorter than %dms window fill)", policy.ThresholdMs))
	case policy.OK:
		lines = append(lines, fmt.Sprintf("TEMP alerts: %d  %s", policy.AlertCount, passStyle.Render("ok")))
	default:
		lines = append(lines, fmt.Sprintf("TEMP alerts: none after %dms  %s", policy.ThresholdMs, failStyle.Render("FAIL")))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSeries(width int) string {
	grouped := analysis.BySensor(m.parsed.Samples)
	if len(grouped) == 0 {
		return "No samples found."
	}
	plotWidth := report.PlotWidthFor(width)
	var sections []string
	for _, sensor := range model.Sensors {
		samples := grouped[sensor]
		if len(samples) == 0 {
			continue
		}
		points := analysis.MovingAverageSeries(samples, m.cfg.Window)
		raw := make([]float64, len(points))
		ma := make([]float64, len(points))
		for i, p := range points {
			raw[i] = p.Raw
			ma[i] = p.RollingMean
		}
		var buf bytes.Buffer
		err := report.PlotSeriesWithColor(&buf, string(sensor), []report.Series{
			{Name: "raw", Values: raw},
			{Name: fmt.Sprintf("moving avg (%d)", m.cfg.Window), Values: ma},
		}, plotWidth, plotHeight, true)
		if err != nil {
			sections = append(sections, fmt.Sprintf("Failed to render %s series: %v", sensor, err))
			continue
		}
		sections = append(sections, strings.TrimRight(buf.String(), "\n"))
	}
	return strings.Join(sections, "\n\n")
}

func (m *Model) renderAlerts(width int) string {
	var buf bytes.Buffer
	if err := report.WriteAlertsTimeline(&buf, m.parsed.Alerts, width); err != nil {
		return fmt.Sprintf("Failed to render alerts: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func passFailLabel(ok bool) string {
	if ok {
		return passStyle.Render("PASS")
	}
	return failStyle.Render("FAIL")
}

func buildSummaryTable(rows []model.SummaryRow, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Sensor", Width: 6},
		{Title: "Count", Width: 6},
		{Title: "Min", Width: 10},
		{Title: "Max", Width: 10},
		{Title: "Mean", Width: 10},
		{Title: "Std", Width: 10},
		{Title: "Alerts", Width: 6},
	}
	tableRows := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		std := "-"
		if row.HasStd {
			std = fmt.Sprintf("%.3f", row.Std)
		}
		tableRows = append(tableRows, table.Row{
			string(row.Sensor),
			fmt.Sprintf("%d", row.Count),
			fmt.Sprintf("%.3f", row.Min),
			fmt.Sprintf("%.3f", row.Max),
			fmt.Sprintf("%.3f", row.Mean),
			std,
			fmt.Sprintf("%d", row.AlertCount),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(maxInt(1, height)),
	)
	t.SetWidth(width)
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
	t.SetStyles(styles)
	return t
}
