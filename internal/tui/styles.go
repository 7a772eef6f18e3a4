package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorPrimary = "#5A56E0"
	colorSuccess = "#04B575"
	colorError   = "#E84855"
	colorMuted   = "#626262"
	colorBright  = "#FAFAFA"
)

// Styles for the portal client
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorBright)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	ownedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorBright)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError)).
			Italic(true)
)
