// Package styles provides shared lipgloss styles for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Folder  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	Group   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	File    = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	Default = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
)
