package styles

import (
	"charm.land/lipgloss/v2"
)

// Palette used by human-readable CLI output.
const (
	accent  = "#7D56F4"
	subtle  = "#6C7086"
	success = "#A6E3A1"
	danger  = "#F38BA8"
)

var (
	// IDStyle renders task identifiers
	IDStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(accent))

	// TitleStyle renders headings such as "Found 3 tasks"
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(accent))

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(subtle))

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(success))

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(danger))
)

// RenderTaskLine renders one task row for list output.
func RenderTaskLine(id, task, added string) string {
	return "  " + IDStyle.Render(id) + "  " + task + "  " + SubtleStyle.Render(added)
}
