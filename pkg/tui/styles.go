package tui

import "github.com/charmbracelet/lipgloss"

// Minimal color palette, adapted from the browser's predecessor: same
// palette shape (dim/accent/error/success/warning), repurposed for
// clean/dirty verdicts instead of chat log entries.
var (
	dimColor     = lipgloss.Color("#6c6c6c")
	textColor    = lipgloss.Color("#e0e0e0")
	accentColor  = lipgloss.Color("#7aa2f7")
	cleanColor   = lipgloss.Color("#9ece6a")
	dirtyColor   = lipgloss.Color("#f7768e")
	mutedColor   = lipgloss.Color("#545454")
	warningColor = lipgloss.Color("#e0af68")

	titleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Padding(0, 1)

	cleanStyle = lipgloss.NewStyle().Foreground(cleanColor)
	dirtyStyle = lipgloss.NewStyle().Foreground(dirtyColor).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(warningColor)

	selectedStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(mutedColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Padding(1, 1, 0, 1)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1)
)
