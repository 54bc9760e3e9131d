// Package tui is a terminal explorer for a decision dataset, driven by
// a playback engine.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"energy-dashboard/internal/model"
	"energy-dashboard/internal/playback"
)

// logRows is how many records the log panel shows around the cursor.
const logRows = 8

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// changeMsg reports that the engine committed one or more changes.
type changeMsg struct{}

// Model implements tea.Model over a playback engine.
type Model struct {
	engine  *playback.Engine
	changes <-chan struct{}
	fields  []string

	view   playback.View
	width  int
	height int
}

// NewModel subscribes to engine. The returned func detaches the model
// and must be called once the program exits.
func NewModel(engine *playback.Engine) (Model, func()) {
	changes := make(chan struct{}, 1)
	unsubscribe := engine.OnChange(func(playback.View) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	view := engine.View()
	fields := append([]string(nil), model.FlowFields...)
	for _, id := range view.Current.StorageIDs() {
		fields = append(fields, model.StorageField(id))
	}
	fields = append(fields, model.FieldTokenBalance)

	return Model{
		engine:  engine,
		changes: changes,
		fields:  fields,
		view:    view,
		width:   100,
	}, unsubscribe
}

// Current returns the playback view the model last rendered from.
func (m Model) Current() playback.View { return m.view }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return listenForChange(m.changes)
}

func listenForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changeMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.engine.Pause()
			return m, tea.Quit
		case " ", "p":
			m.engine.Toggle()
		case "right", "l", "n":
			m.engine.Next()
		case "left", "h", "b":
			m.engine.Previous()
		case "home", "g":
			m.engine.Select(0)
		case "end", "G":
			m.engine.Select(m.engine.Len() - 1)
		default:
			return m, nil
		}
		m.view = m.engine.View()
		return m, nil

	case changeMsg:
		m.view = m.engine.View()
		return m, listenForChange(m.changes)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	v := m.view
	var b strings.Builder

	state := stateStyle[string(v.State)].Render(string(v.State))
	fmt.Fprintf(&b, "%s  %s  %s\n\n",
		titleStyle.Render(v.Current.Step),
		faintStyle.Render(fmt.Sprintf("[%d/%d]", v.Index+1, v.Length)),
		state)

	b.WriteString(panelStyle.Render(m.fieldTable()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "decision: %s\n\n", cursorStyle.Render(v.Current.AIDecision.String()))

	fmt.Fprintf(&b, "token balance [%s, %s]\n", formatNumber(v.Domain.Lo), formatNumber(v.Domain.Hi))
	b.WriteString(m.sparkline())
	b.WriteString("\n\n")

	b.WriteString(m.logPanel())
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("space play/pause  ←/→ step  g/G first/last  q quit"))
	return b.String()
}

func (m Model) fieldTable() string {
	current := m.view.Current.NumericFields()
	rows := make([]string, 0, len(m.fields))
	for _, field := range m.fields {
		style := valueStyle
		if m.view.IsHighlighted(field) {
			style = highlightStyle
		}
		row := labelStyle.Render(field) + style.Render(formatNumber(current[field]))
		if d, ok := m.view.Deltas[field]; ok && d != 0 {
			row += "  " + formatDelta(d)
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// sparkline draws the token balance of the visible records, scaled to
// the current domain, keeping the newest points that fit the width.
func (m Model) sparkline() string {
	visible := m.engine.Visible()
	width := m.width - 4
	if width < 10 {
		width = 10
	}
	if len(visible) > width {
		visible = visible[len(visible)-width:]
	}
	span := m.view.Domain.Hi - m.view.Domain.Lo
	out := make([]rune, 0, len(visible))
	for _, r := range visible {
		level := len(sparkBlocks) / 2
		if span > 0 {
			frac := (r.TokenBalance - m.view.Domain.Lo) / span
			level = int(math.Round(frac * float64(len(sparkBlocks)-1)))
			level = max(0, min(level, len(sparkBlocks)-1))
		}
		out = append(out, sparkBlocks[level])
	}
	return cursorStyle.Render(string(out))
}

// logPanel lists records newest first, windowed around the cursor.
func (m Model) logPanel() string {
	records := m.engine.LogView()
	cursor := len(records) - 1 - m.view.Index
	start := max(0, cursor-logRows/2)
	end := min(len(records), start+logRows)
	start = max(0, end-logRows)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := logLine(records[i])
		if i == cursor {
			lines = append(lines, cursorStyle.Render("> "+line))
			continue
		}
		lines = append(lines, faintStyle.Render("  "+line))
	}
	return strings.Join(lines, "\n")
}

func logLine(r model.DecisionRecord) string {
	return fmt.Sprintf("%s  %-22s  balance %s", r.Step, r.AIDecision.String(), formatNumber(r.TokenBalance))
}

func formatNumber(f float64) string {
	return humanize.CommafWithDigits(f, 2)
}

func formatDelta(d float64) string {
	if d > 0 {
		return upStyle.Render("+" + formatNumber(d))
	}
	return downStyle.Render(formatNumber(d))
}
