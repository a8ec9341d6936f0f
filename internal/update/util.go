package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return ClockTickMsg{} })
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}
