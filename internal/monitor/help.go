package monitor

import (
	"github.com/charmbracelet/lipgloss"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines all keyboard shortcuts shown in the help screen.
var helpBindings = []HelpBinding{
	{Key: "0-9", Desc: "Show session #N"},
	{Key: "v / Enter / →", Desc: "Show selected session"},
	{Key: "↑ / ↓", Desc: "Select previous / next session"},
	{Key: "PgUp / PgDn", Desc: "Previous / next page"},
	{Key: "Home / End", Desc: "First / last session"},
	{Key: "/", Desc: "Filter by user or group"},
	{Key: "n / →", Desc: "Next session (detail)"},
	{Key: "p / ←", Desc: "Previous session (detail)"},
	{Key: "k", Desc: "Kill session (detail)"},
	{Key: "Esc", Desc: "Back to list (detail)"},
	{Key: "Ctrl+L", Desc: "Redraw screen"},
	{Key: "h / ?", Desc: "This help"},
	{Key: "q / Esc / Ctrl+C", Desc: "Quit"},
}

var (
	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(18)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// helpLines renders the help screen body.
func helpLines() []string {
	lines := []string{
		" " + helpTitleStyle.Render("Keyboard Shortcuts"),
		"",
	}
	for _, b := range helpBindings {
		lines = append(lines, "  "+helpKeyStyle.Render(b.Key)+helpDescStyle.Render(b.Desc))
	}
	lines = append(lines, "", " "+LabelStyle.Render("Press any key to return"))
	return lines
}
