package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquasafe/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked panels so
// they visually align.
func ContentWidth(frameWidth int) int {
	// Frame border (2) + inner padding (4).
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame centers content inside a bordered box filling width x height.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card at content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// Banner renders a full-width status line, such as a verdict, in style.
func Banner(text string, style lipgloss.Style, cw int) string {
	return style.
		Width(cw).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.GetForeground()).
		Render(text)
}
