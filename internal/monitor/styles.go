package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glftpd/glspy/internal/session"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Session activity
	ColorUpload   = lipgloss.Color("#39FF14") // Neon green
	ColorDownload = lipgloss.Color("#00FFFF") // Neon cyan
	ColorIdle     = lipgloss.Color("#6B6B8D") // Purple-gray
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextSecondary).
				Underline(true)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorSurfaceBg).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	TotalsStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim)

	MessageStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	SearchStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

// Progress bar glyphs
const (
	BarFilled = "━"
	BarEmpty  = "─"
)

// DirectionStyle returns the style of a session's status column.
func DirectionStyle(d session.Direction) lipgloss.Style {
	switch d {
	case session.DirectionUpload:
		return lipgloss.NewStyle().Foreground(ColorUpload)
	case session.DirectionDownload:
		return lipgloss.NewStyle().Foreground(ColorDownload)
	default:
		return lipgloss.NewStyle().Foreground(ColorIdle)
	}
}

// ProgressBar renders filled cells of a session.ProgressBarWidth bar.
func ProgressBar(filled int) string {
	filled = min(max(filled, 0), session.ProgressBarWidth)
	bar := strings.Repeat(BarFilled, filled) + strings.Repeat(BarEmpty, session.ProgressBarWidth-filled)
	return lipgloss.NewStyle().Foreground(ColorDownload).Render(bar)
}
