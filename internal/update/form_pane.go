package update

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/clockwise/internal/dial"
	"github.com/sandeepkv93/clockwise/internal/model"
	"github.com/sandeepkv93/clockwise/internal/views"
)

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.clearForm()
		m.Focus = PaneList
		m.Status = StatusBar{Text: "selection cleared"}
		return m, nil
	case "tab":
		m.focusInput(m.nextInput(1))
		return m, nil
	case "shift+tab":
		m.focusInput(m.nextInput(-1))
		return m, nil
	case "ctrl+d":
		m.form.ToggleMultiDay()
		if m.form.MultiDay && strings.TrimSpace(m.inputs[inputEndDate].Value()) == "" {
			m.inputs[inputEndDate].SetValue(m.inputs[inputStartDate].Value())
		}
		if !m.form.MultiDay && m.inputFocus == inputEndDate {
			m.focusInput(inputStartTime)
		}
		return m, nil
	case "enter", "ctrl+s":
		m.submitForm()
		return m, nil
	}

	if m.inputFocus == inputEndDate {
		// A hand-typed end date wins over the dial's turn count.
		m.form.Days = 0
	}
	if msg.Type == tea.KeyRunes {
		in := &m.inputs[m.inputFocus]
		in.SetValue(in.Value() + string(msg.Runes))
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.inputFocus], cmd = m.inputs[m.inputFocus].Update(msg)
	return m, cmd
}

// nextInput steps through the form inputs, skipping the end date unless the
// entry spans days.
func (m Model) nextInput(step int) int {
	i := m.inputFocus
	for {
		i = (i + step + inputCount) % inputCount
		if i != inputEndDate || m.form.MultiDay {
			return i
		}
	}
}

func (m *Model) focusInput(i int) {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.inputFocus = i
	m.inputs[i].Focus()
}

func (m *Model) resetFormInputs() {
	today := m.today().String()
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.inputs[inputStartDate].SetValue(today)
	m.inputs[inputEndDate].SetValue(today)
	m.focusInput(inputDescription)
}

func (m *Model) clearForm() {
	m.form.Reset(m.today())
	m.gesture.Reset()
	m.resetFormInputs()
}

// applySelection copies a finished dial gesture into the form and its inputs.
func (m *Model) applySelection(iv dial.Interval) {
	syncErr := m.syncFormDates()
	m.form.ApplySelection(iv)
	m.inputs[inputStartTime].SetValue(m.form.StartTime.String())
	m.inputs[inputEndTime].SetValue(m.form.EndTime.String())
	m.inputs[inputEndDate].SetValue(m.form.EndDate.String())
	m.Status = StatusBar{Text: "selected " + m.form.RangeDisplay()}
	if syncErr != nil {
		m.Status = StatusBar{Text: syncErr.Error(), IsError: true}
	}
	m.focusInput(inputDescription)
}

func (m *Model) syncFormDates() error {
	start, err := model.ParseDate(strings.TrimSpace(m.inputs[inputStartDate].Value()))
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	m.form.SetStartDate(start)
	if !m.form.MultiDay {
		m.form.EndDate = start
		return nil
	}
	if m.form.Days > 0 {
		m.inputs[inputEndDate].SetValue(m.form.EndDate.String())
		return nil
	}
	end, err := model.ParseDate(strings.TrimSpace(m.inputs[inputEndDate].Value()))
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	m.form.SetEndDate(end)
	return nil
}

// syncForm reads every input back into the form. Blank times clear the
// matching half of the selection.
func (m *Model) syncForm() error {
	m.form.Description = m.inputs[inputDescription].Value()
	if err := m.syncFormDates(); err != nil {
		return err
	}
	setTime := func(raw string, set func(string) error, unset func()) error {
		if strings.TrimSpace(raw) == "" {
			unset()
			return nil
		}
		return set(strings.TrimSpace(raw))
	}
	if err := setTime(m.inputs[inputStartTime].Value(), m.form.SetStartTime, func() { m.form.HasStart = false }); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if err := setTime(m.inputs[inputEndTime].Value(), m.form.SetEndTime, func() { m.form.HasEnd = false }); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	return nil
}

func (m *Model) submitForm() {
	if err := m.syncForm(); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	fields, err := m.form.Submit()
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	task, err := m.store.Create(context.Background(), fields)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.gesture.Reset()
	m.resetFormInputs()
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", task.Description)}
}

// selectionReadout is the live "Start → End" line under the face.
func (m Model) selectionReadout() string {
	sel := m.gesture.State()
	switch sel.Phase {
	case dial.PhaseStartSelected, dial.PhaseCompleted:
	default:
		if sel.Hover != nil {
			r := dial.Quantize(m.gesture.Face(), *sel.Hover)
			return "pointer: " + dial.Label(r.Hour, r.Minute, 0, m.now)
		}
		return ""
	}
	out := "Start: " + dial.Label(sel.StartHour, sel.StartMinute, 0, m.now)
	if sel.Dragging || sel.Phase == dial.PhaseCompleted {
		out += " → End: " + dial.Label(sel.EndHour, sel.EndMinute, sel.RotationCount, m.now)
		if sel.RotationCount > 0 {
			out += fmt.Sprintf(" (+%d day", sel.RotationCount)
			if sel.RotationCount > 1 {
				out += "s"
			}
			out += ")"
		}
	}
	return out
}

func (m Model) renderFormPane() string {
	// Render against a scratch copy so the view never mutates the live form.
	preview := *m.form
	scratch := m
	scratch.form = &preview
	scratch.inputs = slices.Clone(m.inputs)
	syncErr := scratch.syncForm()

	times := m.inputs[inputStartTime].View() + "  " + m.inputs[inputEndTime].View()
	data := views.FormPanelData{
		Readout:         m.selectionReadout(),
		DescriptionView: m.inputs[inputDescription].View(),
		StartDateView:   m.inputs[inputStartDate].View(),
		EndDateView:     scratch.inputs[inputEndDate].View(),
		Times:           times,
		MultiDay:        preview.MultiDay,
		HasSelection:    syncErr == nil && preview.HasSelection(),
		Theme:           m.theme(),
	}
	if data.HasSelection {
		data.Range = preview.RangeDisplay()
		data.Duration = preview.Duration()
	}
	return views.RenderFormPanel(data)
}
