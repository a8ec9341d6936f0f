package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/clockwise/internal/commands"
	"github.com/sandeepkv93/clockwise/internal/form"
	"github.com/sandeepkv93/clockwise/internal/model"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.Focus()
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m
	}

	ctx := context.Background()
	ordered := m.ordered()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			day := m.today()
			fields := model.Fields{
				Description: a.Description,
				StartDate:   day,
				StartTime:   a.Start,
				EndDate:     day.AddDays(a.Days),
				EndTime:     a.End,
			}
			if err := fields.Validate(); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			t, err := m.store.Create(ctx, fields)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("added: %s %s", t.Description, t.RangeLabel())}, nil
		},
		Done: func(r commands.RefArgs) (commands.Result, error) {
			t, err := commands.Resolve(r.Ref, ordered)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.Toggle(ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			if t.Completed {
				return commands.Result{Message: fmt.Sprintf("reopened: %s", t.Description)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("completed: %s", t.Description)}, nil
		},
		Delete: func(r commands.RefArgs) (commands.Result, error) {
			t, err := commands.Resolve(r.Ref, ordered)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.Delete(ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			m.clampCursor()
			return commands.Result{Message: fmt.Sprintf("deleted: %s", t.Description)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			from, err := commands.Resolve(a.From, ordered)
			if err != nil {
				return commands.Result{}, err
			}
			to, err := commands.Resolve(a.To, ordered)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.Reorder(ctx, from.ID, to.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("moved %q to %q", from.Description, to.Description)}, nil
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			t, err := commands.Resolve(a.Ref, ordered)
			if err != nil {
				return commands.Result{}, err
			}
			desc, start, end := t.Description, t.StartTime.String(), t.EndTime.String()
			switch a.Field {
			case commands.EditDescription:
				desc = a.Value
			case commands.EditStart:
				start = a.Value
			case commands.EditEnd:
				end = a.Value
			}
			patch, err := form.EditPatch(t, desc, start, end)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			if err := m.store.Update(ctx, t.ID, patch); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("updated: %s", *patch.Description)}, nil
		},
		Theme: func() (commands.Result, error) {
			m.toggleTheme()
			if m.Dark {
				return commands.Result{Message: "dark mode"}, nil
			}
			return commands.Result{Message: "light mode"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.closePalette()
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}
