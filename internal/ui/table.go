package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table with the CLI styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// nothing is selected in printed tables
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a printed table. It returns "" without rows.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	return NewTable(columns, tableRows).View()
}

// RenderKeyValues renders aligned "key  value" lines.
func RenderKeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	keyStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	var out strings.Builder
	for _, p := range pairs {
		out.WriteString(keyStyle.Render(padRight(p[0], width)))
		out.WriteString("  ")
		out.WriteString(p[1])
		out.WriteString("\n")
	}
	return out.String()
}

// padRight pads s to width visible cells.
func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
