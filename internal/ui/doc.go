// Package ui provides the styled output of glspy's non-interactive
// commands: status lines, the version banner and printed tables. The
// dashboard has its own styles in the monitor package.
//
// Colors are ANSI codes for broad terminal compatibility. DisableColors
// switches all lipgloss rendering to plain text.
package ui
