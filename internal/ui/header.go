package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v1.0.0"
	Tagline string // optional
	Detail  string // optional muted line, e.g. the glftpd version
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the "glspy <version>" banner with a divider.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ColorNeonPink).
		Bold(true)
	versionStyle := lipgloss.NewStyle().
		Foreground(ColorNeonCyan)
	dividerStyle := lipgloss.NewStyle().
		Foreground(ColorGlassBorder)

	var out strings.Builder
	out.WriteString(titleStyle.Render("glspy"))
	if info.Version != "" {
		out.WriteString(" ")
		out.WriteString(versionStyle.Render(info.Version))
	}
	out.WriteString("\n")

	if info.Tagline != "" {
		out.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Render(info.Tagline))
		out.WriteString("\n")
	}
	if info.Detail != "" {
		out.WriteString(Muted(info.Detail))
		out.WriteString("\n")
	}

	out.WriteString(dividerStyle.Render(strings.Repeat("━", HeaderWidth)))
	out.WriteString("\n")
	return out.String()
}
