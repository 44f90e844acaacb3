package ui

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Success renders a message with a green check mark.
func Success(msg string) string {
	return successStyle.Render(SymbolSuccess) + " " + msg
}

// Fail renders a message with a red cross.
func Fail(msg string) string {
	return errorStyle.Render(SymbolFail) + " " + msg
}

// Warn renders a message with a yellow marker.
func Warn(msg string) string {
	return warningStyle.Render(SymbolWarning) + " " + msg
}

// Muted renders secondary text.
func Muted(msg string) string {
	return mutedStyle.Render(msg)
}
