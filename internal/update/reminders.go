package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/clockwise/internal/notify"
	"github.com/sandeepkv93/clockwise/internal/scheduler"
)

func waitForReminderCmd(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

// recordReminder keeps the most recent reminders for the notification pane.
// The desktop notification itself went out from the scheduler.
func (m *Model) recordReminder(ev scheduler.ReminderEvent) {
	m.ReminderLog = append(m.ReminderLog, ev)
	if len(m.ReminderLog) > reminderLogSize {
		m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-reminderLogSize:]
	}
	note := notify.Message(ev, ev.FiredAt)
	m.Status = StatusBar{Text: "reminder: " + note.Title + ": " + note.Body}
}

func (m Model) renderNotificationsView() string {
	if len(m.ReminderLog) == 0 {
		return ""
	}
	last := m.ReminderLog[len(m.ReminderLog)-1]
	note := notify.Message(last, last.FiredAt)
	out := "last reminder @ " + last.FiredAt.Format("15:04:05") + ": " + note.Title + " (" + note.Body + ")"
	if m.notifier != nil {
		out += " [desktop: " + string(m.notifier.Permission()) + "]"
	}
	return out
}
