package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Accents shared with the dashboard palette
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonCyan    lipgloss.Color = "#00FFFF"
	ColorGlassBorder lipgloss.Color = "#2A2A4A"
)

// DisableColors switches every lipgloss style to plain text, for --no-color
// and for the color: false config setting.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
