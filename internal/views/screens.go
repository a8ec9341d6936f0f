package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	Index       int
	ID          string
	Description string
	Range       string
	Duration    string
	Completed   bool
	Cursor      bool
	Picked      bool
	Editing     bool
	EditView    string
}

type TaskGroupData struct {
	Heading string
	Rows    []TaskRowData
}

type TaskListData struct {
	Groups   []TaskGroupData
	Dragging bool
	Theme    Theme
}

type FormPanelData struct {
	Readout         string
	DescriptionView string
	StartDateView   string
	EndDateView     string
	Times           string
	Range           string
	Duration        string
	MultiDay        bool
	HasSelection    bool
	Theme           Theme
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

type TaskDetailData struct {
	Description string
	Range       string
	Duration    string
	Completed   bool
	Notified    bool
	MultiDay    bool
}

func RenderTaskList(data TaskListData) string {
	t := data.Theme
	if len(data.Groups) == 0 {
		return t.muted.Render("No tasks yet. Click on the clock to add a new task!")
	}

	var b strings.Builder
	b.WriteString(t.header.Render("tasks"))
	if data.Dragging {
		b.WriteString(t.muted.Render("  moving: j/k to choose target, enter to drop, esc to cancel"))
	}
	b.WriteString("\n")
	for _, g := range data.Groups {
		b.WriteString(t.accent.Render(g.Heading) + "\n")
		for _, row := range g.Rows {
			b.WriteString(renderTaskRow(t, row) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTaskRow(t Theme, row TaskRowData) string {
	cursor := "  "
	switch {
	case row.Picked:
		cursor = "≡ "
	case row.Cursor:
		cursor = "> "
	}
	check := "[ ]"
	if row.Completed {
		check = "[x]"
	}
	if row.Editing {
		return fmt.Sprintf("%s%2d. %s %s", cursor, row.Index, check, row.EditView)
	}
	desc := row.Description
	if row.Completed {
		desc = t.done.Render(desc)
	}
	line := fmt.Sprintf("%s%2d. %s %s  %s %s", cursor, row.Index, check, desc, t.muted.Render(row.Range), t.muted.Render(row.Duration))
	if row.Cursor || row.Picked {
		return t.accent.Render(cursor) + line[len(cursor):]
	}
	return line
}

func RenderFormPanel(data FormPanelData) string {
	t := data.Theme
	var b strings.Builder
	b.WriteString(t.header.Render("new task") + "\n")
	if data.Readout != "" {
		b.WriteString(data.Readout + "\n")
	}
	if !data.HasSelection {
		b.WriteString(t.muted.Render("click the face to pick a start, click again to set the end") + "\n")
	}
	b.WriteString(data.DescriptionView + "\n")
	b.WriteString(data.StartDateView + "\n")
	if data.MultiDay {
		b.WriteString(data.EndDateView + "\n")
	}
	if data.Times != "" {
		b.WriteString(data.Times + "\n")
	}
	if data.HasSelection {
		b.WriteString(t.accent.Render(data.Range) + "\n")
		b.WriteString(t.muted.Render("duration: "+data.Duration) + "\n")
	}
	multi := "off"
	if data.MultiDay {
		multi = "on"
	}
	b.WriteString(t.muted.Render(fmt.Sprintf("multi-day: %s  [tab]next field [ctrl+s]save [esc]clear", multi)))
	return b.String()
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("help:\n")
	for _, line := range data.Bindings {
		b.WriteString(line + "\n")
	}
	if data.HelpView != "" {
		b.WriteString("\n" + data.HelpView)
	}
	return strings.TrimSpace(b.String())
}

// TaskDetailMarkdown describes one task for RenderMarkdown.
func TaskDetailMarkdown(d TaskDetailData) string {
	status := "pending"
	if d.Completed {
		status = "completed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", d.Description)
	fmt.Fprintf(&b, "- **When:** %s\n", d.Range)
	fmt.Fprintf(&b, "- **Duration:** %s\n", d.Duration)
	fmt.Fprintf(&b, "- **Status:** %s\n", status)
	if d.MultiDay {
		b.WriteString("- **Multi-day task**\n")
	}
	if d.Notified {
		b.WriteString("- Reminder sent\n")
	}
	return b.String()
}
