package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/clockwise/internal/form"
	"github.com/sandeepkv93/clockwise/internal/views"
)

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.editing != "" {
		return m.handleEditKey(msg)
	}
	ctx := context.Background()

	switch msg.String() {
	case "j", "down":
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a", "n", "tab":
		m.Focus = PaneForm
		m.picked = ""
		m.focusInput(inputDescription)
	case " ":
		t, ok := m.cursorTask()
		if !ok {
			return m, nil
		}
		if m.picked == t.ID {
			m.picked = ""
			m.Status = StatusBar{Text: "move cancelled"}
			return m, nil
		}
		m.picked = t.ID
		m.Status = StatusBar{Text: fmt.Sprintf("moving %q", t.Description)}
	case "enter":
		if m.picked == "" {
			return m, nil
		}
		target, ok := m.cursorTask()
		if !ok {
			return m, nil
		}
		if err := m.store.Reorder(ctx, m.picked, target.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		} else {
			m.Status = StatusBar{Text: "task moved"}
		}
		m.picked = ""
		m.cursor = m.indexOf(target.ID)
	case "esc":
		m.picked = ""
	case "x":
		t, ok := m.cursorTask()
		if !ok {
			return m, nil
		}
		if err := m.store.Toggle(ctx, t.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m.cursor = m.indexOf(t.ID)
		state := "completed"
		if t.Completed {
			state = "reopened"
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", state, t.Description)}
	case "d", "delete":
		t, ok := m.cursorTask()
		if !ok {
			return m, nil
		}
		if err := m.store.Delete(ctx, t.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		if m.picked == t.ID {
			m.picked = ""
		}
		m.clampCursor()
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", t.Description)}
	case "e":
		m.startEdit()
	}
	return m, nil
}

func (m Model) indexOf(id string) int {
	for i, t := range m.ordered() {
		if t.ID == id {
			return i
		}
	}
	return 0
}

func (m *Model) startEdit() {
	t, ok := m.cursorTask()
	if !ok {
		return
	}
	m.editing = t.ID
	m.edits[editDescription].SetValue(t.Description)
	m.edits[editStart].SetValue(t.StartTime.String())
	m.edits[editEnd].SetValue(t.EndTime.String())
	m.focusEdit(editDescription)
}

func (m *Model) focusEdit(i int) {
	for j := range m.edits {
		m.edits[j].Blur()
	}
	m.editPos = i
	m.edits[i].Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = ""
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "tab":
		m.focusEdit((m.editPos + 1) % editCount)
		return m, nil
	case "shift+tab":
		m.focusEdit((m.editPos + editCount - 1) % editCount)
		return m, nil
	case "enter":
		m.saveEdit()
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		in := &m.edits[m.editPos]
		in.SetValue(in.Value() + string(msg.Runes))
		return m, nil
	}
	var cmd tea.Cmd
	m.edits[m.editPos], cmd = m.edits[m.editPos].Update(msg)
	return m, cmd
}

func (m *Model) saveEdit() {
	t, ok := m.store.Get(m.editing)
	if !ok {
		m.editing = ""
		return
	}
	patch, err := form.EditPatch(t, m.edits[editDescription].Value(), m.edits[editStart].Value(), m.edits[editEnd].Value())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	if err := m.store.Update(context.Background(), t.ID, patch); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.editing = ""
	m.Status = StatusBar{Text: "task updated"}
}

func (m Model) renderListPane() string {
	data := views.TaskListData{Dragging: m.picked != "", Theme: m.theme()}
	n := 0
	for _, g := range m.store.PresentationOrder() {
		group := views.TaskGroupData{Heading: g.Date.Heading()}
		for _, t := range g.Tasks {
			row := views.TaskRowData{
				Index:       n + 1,
				ID:          t.ID,
				Description: t.Description,
				Range:       t.RangeLabel(),
				Duration:    t.DurationLabel(),
				Completed:   t.Completed,
				Cursor:      m.Focus == PaneList && n == m.cursor,
				Picked:      t.ID == m.picked,
			}
			if t.ID == m.editing {
				row.Editing = true
				row.EditView = m.edits[editDescription].View() + m.edits[editStart].View() + m.edits[editEnd].View()
			}
			group.Rows = append(group.Rows, row)
			n++
		}
		data.Groups = append(data.Groups, group)
	}
	return views.RenderTaskList(data)
}

func (m Model) renderDetailPane() string {
	if m.Focus != PaneList {
		return ""
	}
	t, ok := m.cursorTask()
	if !ok {
		return ""
	}
	md := views.TaskDetailMarkdown(views.TaskDetailData{
		Description: t.Description,
		Range:       t.RangeLabel(),
		Duration:    t.DurationLabel(),
		Completed:   t.Completed,
		Notified:    t.Notified,
		MultiDay:    t.IsMultiDay(),
	})
	key := fmt.Sprintf("%t|%s", m.Dark, md)
	if m.detail.key != key {
		m.detail.key = key
		m.detail.out = views.RenderMarkdown(md, m.Dark)
	}
	return m.detail.out
}
