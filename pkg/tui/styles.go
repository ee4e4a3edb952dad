package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	statusStyles = map[string]lipgloss.Style{
		"To Do":       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		"In Progress": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"Done":        lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"Blocked":     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("62"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

func statusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
