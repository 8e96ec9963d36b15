package client

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle      = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	clockStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)
