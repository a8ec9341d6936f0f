package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/clockwise/internal/logger"
	"github.com/sandeepkv93/clockwise/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), textinput.Blink}
	if m.engine != nil {
		cmds = append(cmds, waitForReminderCmd(m.engine.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		switch typed.String() {
		case "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		case "ctrl+t":
			m.toggleTheme()
			return m, nil
		}

		if m.Palette.Active {
			if typed.String() == "?" {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}
		if m.Focus == PaneForm {
			return m.handleFormKey(typed)
		}
		if m.editing == "" {
			switch typed.String() {
			case "/":
				return m.openPalette(), nil
			case "?":
				m.HelpVisible = !m.HelpVisible
				if m.HelpVisible {
					m.Status = StatusBar{Text: "help shown"}
				} else {
					m.Status = StatusBar{Text: "help hidden"}
				}
				return m, nil
			case "q":
				m.Quitting = true
				return m, tea.Quit
			}
		}
		return m.handleListKey(typed)
	case tea.MouseMsg:
		return m.handleMouse(typed)
	case tea.WindowSizeMsg:
		m.resizeFace(typed.Height)
		return m, nil
	case ClockTickMsg:
		m.now = m.clk.Now()
		return m, tickCmd()
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		logger.Debug("update: status", zap.String("level", levelFromError(typed.IsError)), zap.String("text", typed.Text))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			logger.Error("update: app error", typed.Err)
		}
		return m, nil
	case ReminderDueMsg:
		m.recordReminder(typed.Event)
		if m.engine != nil {
			return m, waitForReminderCmd(m.engine.C())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	formPane := m.renderFormPane()
	if m.Palette.Active {
		formPane += "\n\n" + m.commandInput.View()
	}
	detail := strings.TrimSpace(strings.Join([]string{m.renderDetailPane(), m.renderHelpIfVisible()}, "\n\n"))

	mode := "light"
	if m.Dark {
		mode = "dark"
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("clockwise | %s | %d tasks | %s | focus: %s", m.now.Format("Mon Jan 2 15:04:05"), m.store.Len(), mode, m.Focus),
		ClockPane:    m.renderClockPane(),
		FormPane:     formPane,
		ListPane:     m.renderListPane(),
		DetailPane:   detail,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer:       "keys: esc list | a new task | / cmd | ? help | ctrl+t theme | q quit",
		Theme:        m.theme(),
	})
}
