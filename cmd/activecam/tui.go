package main

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/activecam/activecam/pkg/input"
	"github.com/activecam/activecam/pkg/teleop"
)

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Joint colors - one distinct color per joint.
var jointColors = []string{
	"51",  // cyan: yaw
	"208", // orange: pitch a
	"201", // magenta: pitch b
}

var jointNames = []string{"yaw", "pitch_a", "pitch_b"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func jointName(i int) string {
	if i < len(jointNames) {
		return jointNames[i]
	}
	return fmt.Sprintf("joint_%d", i)
}

func jointColor(i int) string {
	return jointColors[i%len(jointColors)]
}

type sessionModel struct {
	title    string
	ctrl     *teleop.Controller
	keys     *input.Keys // nil for tracker sessions
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	last     teleop.State
	quitting bool
}

func (m *sessionModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg teleop.State
type logMsg string

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *sessionModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *sessionModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func newSessionModel(title string, ctrl *teleop.Controller, keys *input.Keys, numJoints int) sessionModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-math.Pi, math.Pi),
	)

	for i := 0; i < numJoints; i++ {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColor(i)))
		chart.SetDataSetStyles(jointName(i), runes.ThinLineStyle, style)
	}

	return sessionModel{
		title: title,
		ctrl:  ctrl,
		keys:  keys,
		chart: &chart,
	}
}

func (m sessionModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		if m.keys != nil {
			m.keys.Handle(key)
		}
		return m, nil

	case stateMsg:
		state := teleop.State(msg)
		if state.Positions != nil {
			for i, pos := range state.Positions {
				m.chart.PushDataSet(jointName(i), pos)
			}
			m.chart.DrawAll()
			m.last = state
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m sessionModel) View() string {
	if m.quitting {
		return "Returning mount to home position...\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(renderLegend(len(m.last.Positions)))
	sb.WriteString("\n\n")
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(renderStatus(m.last)))
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9"))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend(numJoints int) string {
	if numJoints == 0 {
		numJoints = len(jointNames)
	}
	var items []string
	for i := 0; i < numJoints; i++ {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColor(i))).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+jointName(i))
	}
	return strings.Join(items, "  ")
}

func renderStatus(s teleop.State) string {
	if s.Positions == nil {
		return "waiting for feedback..."
	}
	var parts []string
	for i, p := range s.Positions {
		parts = append(parts, fmt.Sprintf("%s %+.2f", jointName(i), p))
	}
	return fmt.Sprintf("%s | %s", s.Phase, strings.Join(parts, "  "))
}
