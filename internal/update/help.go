package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/clockwise/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.paneBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "mouse", Action: "click the face to start, move, click to finish"},
		{Key: "ctrl+t", Action: "toggle dark mode"},
		{Key: "ctrl+c", Action: "quit"},
	}
}

func (m Model) paneBindings() []KeyBinding {
	switch {
	case m.editing != "":
		return []KeyBinding{
			{Key: "tab", Action: "next field"},
			{Key: "enter", Action: "save edit"},
			{Key: "esc", Action: "cancel edit"},
		}
	case m.Focus == PaneForm:
		return []KeyBinding{
			{Key: "tab/shift+tab", Action: "next / previous field"},
			{Key: "enter", Action: "add task"},
			{Key: "ctrl+d", Action: "toggle multi-day"},
			{Key: "esc", Action: "clear selection, go to list"},
		}
	default:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "x", Action: "toggle completed"},
			{Key: "d", Action: "delete"},
			{Key: "e", Action: "edit"},
			{Key: "space/enter", Action: "pick up / drop task"},
			{Key: "a", Action: "new task"},
			{Key: "/", Action: "command palette"},
			{Key: "?", Action: "toggle help"},
			{Key: "q", Action: "quit"},
		}
	}
}

func (m Model) helpBindings() []key.Binding {
	global := globalBindings()
	pane := m.paneBindings()
	out := make([]key.Binding, 0, len(global)+len(pane))
	for _, kb := range global {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range pane {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
