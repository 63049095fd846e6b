package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/cluso-habitat/pkg/config"
	"github.com/dd0wney/cluso-habitat/pkg/fixtures"
	"github.com/dd0wney/cluso-habitat/pkg/habitat"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/pubsub"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	warnBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	spacesView view = iota
	coloringView
	eventsView
	viewCount
)

var tabNames = []string{"Spaces", "Coloring", "Events"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Repair   key.Binding
	Color    key.Binding
	Reset    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Repair: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "repair"),
	),
	Color: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "colour"),
	),
	Reset: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reset"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Repair, k.Color, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Repair, k.Color, k.Reset},
		{k.Up, k.Down, k.Quit},
	}
}

// maxEvents bounds the event log shown in the Events tab.
const maxEvents = 20

type model struct {
	engine      *habitat.Engine
	sub         *pubsub.Subscription[habitat.Event]
	currentView view
	spaceTable  table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	evaluation  habitat.Evaluation
	coloring    []string
	events      []string
}

// eventMsg carries one engine event into the update loop.
type eventMsg habitat.Event

// subscriptionClosedMsg is sent when the engine stops publishing.
type subscriptionClosedMsg struct{}

func waitForEvent(sub *pubsub.Subscription[habitat.Event]) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Channel()
		if !ok {
			return subscriptionClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func initialModel(engine *habitat.Engine, sub *pubsub.Subscription[habitat.Event]) model {
	columns := []table.Column{
		{Title: "Space", Width: 8},
		{Title: "Activity", Width: 12},
		{Title: "Noise dB", Width: 10},
		{Title: "Threshold", Width: 10},
		{Title: "Walls", Width: 6},
		{Title: "Verdict", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		engine:      engine,
		sub:         sub,
		currentView: spacesView,
		spaceTable:  t,
		help:        help.New(),
		keys:        keys,
	}
	m.setEvaluation(engine.Evaluate())
	return m
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.sub)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case eventMsg:
		m.setEvaluation(msg.Evaluation)
		m.events = append(m.events, fmt.Sprintf("%s  %-22s %d/%d habitable",
			msg.At.Format(time.TimeOnly), msg.Kind, msg.Evaluation.Habitable, len(msg.Evaluation.Spaces)))
		if len(m.events) > maxEvents {
			m.events = m.events[len(m.events)-maxEvents:]
		}
		return m, waitForEvent(m.sub)

	case subscriptionClosedMsg:
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			m.currentView = (m.currentView + viewCount - 1) % viewCount

		case key.Matches(msg, m.keys.Repair):
			m.runRepair()

		case key.Matches(msg, m.keys.Color):
			m.runColoring()
			m.currentView = coloringView

		case key.Matches(msg, m.keys.Reset):
			m.engine.Reset()
			m.coloring = nil
			m.setMessage("Building restored", nil)
		}
	}

	if m.currentView == spacesView {
		m.spaceTable, cmd = m.spaceTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setMessage(text string, err error) {
	if err != nil {
		m.message = err.Error()
		m.messageErr = true
		return
	}
	m.message = text
	m.messageErr = false
}

// setEvaluation refreshes the table. Engine events carry the evaluation, so
// mutations made elsewhere show up without polling.
func (m *model) setEvaluation(ev habitat.Evaluation) {
	m.evaluation = ev
	rows := make([]table.Row, 0, len(ev.Spaces))
	for _, s := range ev.Spaces {
		rows = append(rows, table.Row{
			s.ID,
			orDash(s.Activity),
			fmt.Sprintf("%.1f", s.Noise),
			formatThreshold(s.Threshold),
			fmt.Sprintf("%d", s.Degree),
			verdict(s.Habitable),
		})
	}
	m.spaceTable.SetRows(rows)
}

func (m *model) runRepair() {
	report, err := m.engine.Repair()
	if err != nil {
		m.setMessage("", err)
		return
	}
	m.setMessage(report.Message, nil)
}

func (m *model) runColoring() {
	c, err := m.engine.ColorGraph(nil)
	if err != nil {
		m.coloring = nil
		m.setMessage("", err)
		return
	}
	lines := make([]string, 0, len(c.Order))
	for _, id := range c.Order {
		lines = append(lines, fmt.Sprintf("%-8s %s", id, colorSwatch(c.Assignments[id])))
	}
	m.coloring = lines
	m.setMessage(fmt.Sprintf("Coloured with %d colour(s)", c.ColorsUsed), nil)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🏠 Habitat - " + m.evaluation.Building))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case spacesView:
		s.WriteString(m.renderSpaces())
	case coloringView:
		s.WriteString(m.renderColoring())
	case eventsView:
		s.WriteString(m.renderEvents())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	var renderedTabs []string
	for i, tab := range tabNames {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderSpaces() string {
	ev := m.evaluation
	summary := fmt.Sprintf("📊 Summary\n\nHabitable: %d/%d\nWarnings:  %d",
		ev.Habitable, len(ev.Spaces), len(ev.Warnings))
	if failing := ev.Failing(); len(failing) > 0 {
		summary += "\nFailing:   " + strings.Join(failing, ", ")
	}

	boxes := []string{statsBoxStyle.Render(summary)}
	if len(ev.Warnings) > 0 {
		lines := make([]string, 0, len(ev.Warnings))
		for _, w := range ev.Warnings {
			lines = append(lines, w.String())
		}
		boxes = append(boxes, warnBoxStyle.Render("⚠️  Warnings\n\n"+strings.Join(lines, "\n")))
	}

	return contentStyle.Render(
		m.spaceTable.View() + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, boxes...),
	)
}

func (m model) renderColoring() string {
	if len(m.coloring) == 0 {
		return contentStyle.Render("Press c to colour the adjacency graph")
	}
	return contentStyle.Render(statsBoxStyle.Render("🎨 Welch-Powell colouring\n\n" + strings.Join(m.coloring, "\n")))
}

func (m model) renderEvents() string {
	if len(m.events) == 0 {
		return contentStyle.Render("No events yet")
	}
	return contentStyle.Render(strings.Join(m.events, "\n"))
}

func colorSwatch(name string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(swatchHex(name))).Render("■ " + name)
}

func swatchHex(name string) string {
	switch name {
	case "red":
		return "#FF0000"
	case "blue":
		return "#0000FF"
	case "green":
		return "#00FF00"
	case "yellow":
		return "#FFFF00"
	case "purple":
		return "#AA00FF"
	case "orange":
		return "#FF8800"
	default:
		return "#FFFFFF"
	}
}

func verdict(ok bool) string {
	if ok {
		return "habitable"
	}
	return "UNINHABITABLE"
}

func formatThreshold(t *float64) string {
	if t == nil {
		return "none"
	}
	return fmt.Sprintf("%.1f", *t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func main() {
	env := config.LoadEnv()
	configPath := flag.String("config", env.ConfigPath, "Building YAML file (default: embedded demo)")
	logFile := flag.String("log", "", "Write logs to this file (default: discard)")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.NewTextLogger(logOut, env.LogLevel)

	cfg, err := fixtures.LoadOrDemo(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	engine, err := habitat.NewFromConfig(cfg, logger, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := engine.Events().Subscribe(ctx, pubsub.TopicBuildingUpdated)
	if err != nil {
		log.Fatal(err)
	}

	p := tea.NewProgram(initialModel(engine, sub), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
