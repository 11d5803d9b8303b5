package gui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("236"))

	// usage bar halves, gruvbox blue and green
	selfBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#83a598"))

	childBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b8bb26"))

	updatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	staleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	diagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	guideStyle = lipgloss.NewStyle().
			Faint(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("237"))

	helpStyle = lipgloss.NewStyle().
			Faint(true)
)
