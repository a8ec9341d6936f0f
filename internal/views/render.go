package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Theme carries the palette for one of the two display modes.
type Theme struct {
	Dark     bool
	FaceFill string
	Border   string
	Text     string
	Hands    string

	header lipgloss.Style
	status lipgloss.Style
	errs   lipgloss.Style
	panel  lipgloss.Style
	footer lipgloss.Style
	muted  lipgloss.Style
	accent lipgloss.Style
	done   lipgloss.Style
	cells  map[cellClass]lipgloss.Style
}

const (
	colorPending   = "#e94c3d"
	colorCompleted = "#67c962"
	colorSelection = "#4a90e2"
)

func ThemeFor(dark bool) Theme {
	t := Theme{Dark: dark}
	if dark {
		t.FaceFill, t.Border, t.Text, t.Hands = "#1e1e1e", "#888888", "#eeeeee", "#dddddd"
	} else {
		t.FaceFill, t.Border, t.Text, t.Hands = "#ffffff", "#333333", "#222222", "#333333"
	}
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }

	t.header = fg(colorSelection).Bold(true)
	t.status = fg(colorCompleted)
	t.errs = fg(colorPending)
	t.panel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t.Border)).Padding(0, 1)
	t.footer = fg(t.Border)
	t.muted = fg(t.Border).Faint(true)
	t.accent = fg(colorSelection).Bold(true)
	t.done = fg(colorCompleted).Strikethrough(true)
	t.cells = map[cellClass]lipgloss.Style{
		cellEmpty:      lipgloss.NewStyle(),
		cellRim:        fg(t.Border),
		cellNumeral:    fg(t.Text).Bold(true),
		cellTask:       fg(colorPending),
		cellTaskDone:   fg(colorCompleted),
		cellSelection:  fg(colorSelection),
		cellHourHand:   fg(t.Hands),
		cellMinuteHand: fg(t.Hands),
		cellSecondHand: fg(colorPending),
		cellDrag:       fg(colorSelection).Bold(true),
		cellHover:      fg(colorSelection),
		cellCenter:     fg(t.Hands),
	}
	return t
}

func (t Theme) cellStyle(c cellClass) lipgloss.Style {
	if s, ok := t.cells[c]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

type AppData struct {
	Header       string
	ClockPane    string
	FormPane     string
	ListPane     string
	DetailPane   string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
	Theme        Theme
}

func RenderApp(data AppData) string {
	t := data.Theme
	left := t.panel.Render(data.ClockPane)
	side := []string{t.panel.Width(56).Render(data.FormPane)}
	if data.DetailPane != "" {
		side = append(side, t.panel.Width(56).Render(data.DetailPane))
	}
	right := lipgloss.JoinVertical(lipgloss.Left, side...)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := t.status.Render(data.StatusLine)
	if data.StatusError {
		status = t.errs.Render(data.StatusLine)
	}

	lines := []string{
		t.header.Render(data.Header),
		row,
		t.panel.Width(lipgloss.Width(row) - 4).Render(data.ListPane),
		status,
	}
	if data.Notification != "" {
		lines = append(lines, t.panel.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, t.footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md with the glamour style matching the theme. On a
// renderer error the raw markdown is returned.
func RenderMarkdown(md string, dark bool) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "light"
	if dark {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
