package views

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/clockwise/internal/dial"
	"github.com/sandeepkv93/clockwise/internal/geometry"
	"github.com/sandeepkv93/clockwise/internal/model"
)

var frameTime = time.Date(2024, 1, 1, 9, 0, 7, 0, time.Local)

func frame(tasks ...model.Task) FaceData {
	face := dial.NewFace(FaceSize)
	return FaceData{Face: face, Now: frameTime, Markers: geometry.Markers(tasks, face, frameTime)}
}

func task(id string, startH, endH int, completed bool) model.Task {
	day := model.DateOf(frameTime)
	return model.Task{
		ID:          id,
		Description: "task " + id,
		StartDate:   day,
		StartTime:   model.MustTimeOfDay(startH, 0),
		EndDate:     day,
		EndTime:     model.MustTimeOfDay(endH, 0),
		Completed:   completed,
	}
}

func TestRasterRoundTrip(t *testing.T) {
	r := NewRaster(20)
	assert.Equal(t, 40, r.Cols)
	for _, cell := range [][2]int{{0, 0}, {39, 19}, {20, 10}, {7, 13}} {
		col, row, ok := r.CellOf(r.PointAt(cell[0], cell[1]))
		require.True(t, ok)
		assert.Equal(t, cell[0], col)
		assert.Equal(t, cell[1], row)
	}
	_, _, ok := r.CellOf(dial.Point{X: -1, Y: 10})
	assert.False(t, ok)
}

func TestRasterCenterMapsToFaceCenter(t *testing.T) {
	r := NewRaster(21)
	face := dial.NewFace(FaceSize)
	col, row, ok := r.CellOf(face.Center)
	require.True(t, ok)
	p := r.PointAt(col, row)
	assert.InDelta(t, face.Center.X, p.X, r.Size/float64(r.Cols))
	assert.InDelta(t, face.Center.Y, p.Y, r.Size/float64(r.Rows))
}

func classCount(c *canvas, class cellClass, r rune) int {
	n := 0
	for _, row := range c.cells {
		for _, cl := range row {
			if cl.class == class && (r == 0 || cl.r == r) {
				n++
			}
		}
	}
	return n
}

func TestRasteriseDrawsNumerals(t *testing.T) {
	r := NewRaster(31)
	c := rasterise(r, frame())
	out := strings.Join(c.lines(), "\n")
	for _, numeral := range []string{"12", "3", "6", "9"} {
		assert.Contains(t, out, numeral)
	}

	face := dial.NewFace(FaceSize)
	col, row, ok := r.CellOf(face.Center)
	require.True(t, ok)
	assert.Equal(t, '●', c.cells[row][col].r)
}

func TestRasteriseDrawsTasks(t *testing.T) {
	r := NewRaster(31)
	c := rasterise(r, frame(task("a", 1, 3, false), task("b", 4, 5, true)))
	assert.Positive(t, classCount(c, cellTask, '━'))
	assert.Positive(t, classCount(c, cellTaskDone, 0))
	assert.Equal(t, 0, classCount(c, cellSelection, 0))

	other := task("c", 1, 3, false)
	other.StartDate = other.StartDate.AddDays(3)
	other.EndDate = other.StartDate
	c = rasterise(r, frame(other))
	assert.Equal(t, 0, classCount(c, cellTask, 0), "tasks on other days are not drawn")
}

func TestRasteriseSelection(t *testing.T) {
	r := NewRaster(31)
	data := frame()
	g := dial.NewGesture(data.Face)
	g.Click(data.Face.PointAt(0, 60))
	g.Move(data.Face.PointAt(90, 60))
	data.Selection = g.State()

	c := rasterise(r, data)
	assert.Positive(t, classCount(c, cellSelection, '┄'))
	assert.Positive(t, classCount(c, cellDrag, '◉'))

	_, done := g.Click(data.Face.PointAt(90, 60))
	require.True(t, done)
	data.Selection = g.State()
	c = rasterise(r, data)
	assert.Positive(t, classCount(c, cellSelection, '█'))
	assert.Equal(t, 0, classCount(c, cellSelection, '┄'))
}

func TestRenderFaceKeepsGeometry(t *testing.T) {
	r := NewRaster(15)
	out := RenderFace(r, frame(), ThemeFor(true))
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, r.Rows)
}

func TestFaceSVG(t *testing.T) {
	data := frame(task("a", 1, 3, false))
	svg := FaceSVG(data, ThemeFor(false))

	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, data.Markers[0].Arc.SVG())
	assert.Contains(t, svg, `stroke="rgba(233, 76, 61, 0.6)"`)
	assert.Equal(t, 12, strings.Count(svg, "<text"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(svg), "</svg>"))
}

func TestSVGEscapesDescriptions(t *testing.T) {
	tk := task("a", 1, 2, false)
	tk.Description = `<b>"x" & y</b>`
	svg := FaceSVG(frame(tk), ThemeFor(true))
	assert.Contains(t, svg, "&lt;b&gt;&quot;x&quot; &amp; y&lt;/b&gt;")
}

func TestRenderTaskList(t *testing.T) {
	theme := ThemeFor(true)
	assert.Contains(t, RenderTaskList(TaskListData{Theme: theme}), "No tasks yet")

	out := RenderTaskList(TaskListData{Theme: theme, Groups: []TaskGroupData{
		{Heading: "Mon Jan 01 2024", Rows: []TaskRowData{
			{Index: 1, Description: "Standup", Range: "09:00 - 09:15", Duration: "(0h 15m)", Cursor: true},
			{Index: 2, Description: "Review", Range: "10:00 - 11:00", Duration: "(1h 0m)", Completed: true},
		}},
	}})
	assert.Contains(t, out, "Mon Jan 01 2024")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "(0h 15m)")
}

func TestTaskDetailMarkdown(t *testing.T) {
	md := TaskDetailMarkdown(TaskDetailData{Description: "Standup", Range: "09:00 - 09:15", Duration: "(0h 15m)", MultiDay: true})
	assert.Contains(t, md, "## Standup")
	assert.Contains(t, md, "pending")
	assert.Contains(t, md, "Multi-day")

	assert.Empty(t, RenderMarkdown("  ", true))
	assert.Contains(t, RenderMarkdown(md, true), "Standup")
}

func TestRenderAppShowsPanes(t *testing.T) {
	out := RenderApp(AppData{
		Header:      "clockwise",
		ClockPane:   "FACE",
		FormPane:    "FORM",
		ListPane:    "LIST",
		StatusLine:  "status: saved",
		Footer:      "keys",
		Theme:       ThemeFor(true),
		StatusError: true,
	})
	for _, want := range []string{"clockwise", "FACE", "FORM", "LIST", "status: saved", "keys"} {
		assert.Contains(t, out, want)
	}
}
