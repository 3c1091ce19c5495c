package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#29c926")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#29c926")).
			PaddingLeft(1)

	rowStyle   = lipgloss.NewStyle().PaddingLeft(2)
	nameStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	headerStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	detailStyle = lipgloss.NewStyle().Padding(1, 2)
)

// statusColor mirrors the card badge: green for Alive, red for Dead, gray
// otherwise.
func statusColor(status string) lipgloss.Color {
	switch status {
	case "Alive":
		return lipgloss.Color("2")
	case "Dead":
		return lipgloss.Color("1")
	default:
		return lipgloss.Color("8")
	}
}

func badge(status string) string {
	return lipgloss.NewStyle().Foreground(statusColor(status)).Render("●")
}
