package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	stateStyle = map[string]lipgloss.Style{
		"playing": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		"stopped": lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(28)
	valueStyle = lipgloss.NewStyle().
			Width(14).
			Align(lipgloss.Right)
	highlightStyle = valueStyle.
			Bold(true).
			Foreground(lipgloss.Color("214"))
	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	faintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)
