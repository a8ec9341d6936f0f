package views

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/clockwise/internal/dial"
	"github.com/sandeepkv93/clockwise/internal/geometry"
)

// FaceSize is the side of the square the dial geometry is laid out in.
const FaceSize = 300

// Raster maps terminal cells onto the face square. Cells are about twice as
// tall as they are wide, so a round face needs twice as many columns as rows.
type Raster struct {
	Cols int
	Rows int
	Size float64
}

func NewRaster(rows int) Raster {
	if rows < 5 {
		rows = 5
	}
	return Raster{Cols: rows * 2, Rows: rows, Size: FaceSize}
}

// PointAt is the face coordinate at the middle of a cell.
func (r Raster) PointAt(col, row int) dial.Point {
	return dial.Point{
		X: (float64(col) + 0.5) * r.Size / float64(r.Cols),
		Y: (float64(row) + 0.5) * r.Size / float64(r.Rows),
	}
}

// CellOf is the cell containing p; ok is false outside the raster.
func (r Raster) CellOf(p dial.Point) (col, row int, ok bool) {
	col = int(math.Floor(p.X * float64(r.Cols) / r.Size))
	row = int(math.Floor(p.Y * float64(r.Rows) / r.Size))
	ok = col >= 0 && col < r.Cols && row >= 0 && row < r.Rows
	return col, row, ok
}

// FaceData is one frame of the clock.
type FaceData struct {
	Face      dial.Face
	Now       time.Time
	Markers   []geometry.Marker
	Selection dial.Selection
}

type cellClass int

const (
	cellEmpty cellClass = iota
	cellRim
	cellNumeral
	cellTask
	cellTaskDone
	cellSelection
	cellHourHand
	cellMinuteHand
	cellSecondHand
	cellDrag
	cellHover
	cellCenter
)

type cell struct {
	r     rune
	class cellClass
}

type canvas struct {
	raster Raster
	cells  [][]cell
}

func newCanvas(r Raster) *canvas {
	cells := make([][]cell, r.Rows)
	for i := range cells {
		cells[i] = make([]cell, r.Cols)
		for j := range cells[i] {
			cells[i][j] = cell{r: ' '}
		}
	}
	return &canvas{raster: r, cells: cells}
}

func (c *canvas) plot(p dial.Point, r rune, class cellClass) {
	col, row, ok := c.raster.CellOf(p)
	if !ok {
		return
	}
	c.cells[row][col] = cell{r: r, class: class}
}

func (c *canvas) text(p dial.Point, s string, class cellClass) {
	col, row, ok := c.raster.CellOf(p)
	if !ok {
		return
	}
	col -= len(s) / 2
	for i, r := range s {
		if x := col + i; x >= 0 && x < c.raster.Cols {
			c.cells[row][x] = cell{r: r, class: class}
		}
	}
}

func (c *canvas) line(face dial.Face, angle, length float64, r rune, class cellClass) {
	step := c.raster.Size / float64(c.raster.Cols) / 2
	for d := step * 2; d <= length; d += step {
		c.plot(face.PointAt(angle, d), r, class)
	}
}

func (c *canvas) arc(a geometry.Arc, r rune, class cellClass) {
	for _, p := range a.Sample(1) {
		c.plot(p, r, class)
	}
}

func (c *canvas) lines() []string {
	out := make([]string, 0, len(c.cells))
	for _, row := range c.cells {
		var b strings.Builder
		for _, cl := range row {
			b.WriteRune(cl.r)
		}
		out = append(out, b.String())
	}
	return out
}

// rasterise draws the frame back to front: rim, numerals, task arcs, the
// pending selection, hands and indicators.
func rasterise(r Raster, data FaceData) *canvas {
	c := newCanvas(r)
	face := data.Face

	for a := 0.0; a < 360; a += 1 {
		c.plot(face.PointAt(a, face.Radius), '·', cellRim)
	}
	for i := 0; i < 12; i++ {
		hour := i
		if hour == 0 {
			hour = 12
		}
		c.plot(face.PointAt(float64(i*30), face.Radius), '•', cellRim)
		c.text(face.PointAt(float64(i*30), face.Radius-geometry.MarkerInset), fmt.Sprint(hour), cellNumeral)
	}

	for _, m := range data.Markers {
		class := cellTask
		if m.Completed {
			class = cellTaskDone
		}
		c.arc(m.Arc, '━', class)
		c.plot(m.Start, '●', class)
		c.plot(m.End, '◆', class)
	}

	sel := data.Selection
	active := sel.Phase == dial.PhaseStartSelected || sel.Phase == dial.PhaseCompleted
	if active {
		glyph := '┄'
		if sel.Phase == dial.PhaseCompleted {
			glyph = '█'
		}
		c.arc(geometry.ArcPath(face, sel.StartAngle, sel.DragAngle, face.Radius-15, false), glyph, cellSelection)
	}

	now := data.Now
	hourAngle := float64(now.Hour()%12)*30 + float64(now.Minute())*0.5
	c.line(face, hourAngle, face.Radius*0.5, '█', cellHourHand)
	c.line(face, float64(now.Minute())*6, face.Radius*0.7, '▓', cellMinuteHand)
	c.line(face, float64(now.Second())*6, face.Radius*0.8, '░', cellSecondHand)

	if active {
		c.plot(face.PointAt(sel.StartAngle, face.Radius*0.9), '◉', cellDrag)
	}
	if sel.Dragging || sel.Phase == dial.PhaseCompleted {
		c.line(face, sel.DragAngle, face.Radius*0.9, '∙', cellDrag)
		c.plot(face.PointAt(sel.DragAngle, face.Radius*0.9), '◉', cellDrag)
		if sel.RotationCount > 0 {
			c.text(dial.Point{X: face.Center.X, Y: face.Center.Y + 40}, fmt.Sprintf("+%dd", sel.RotationCount), cellDrag)
		}
	}
	if sel.Hover != nil && !sel.Dragging && sel.Phase == dial.PhaseNone {
		c.plot(*sel.Hover, '+', cellHover)
	}
	c.plot(face.Center, '●', cellCenter)
	return c
}

// RenderFace rasterises the clock into terminal cells styled by theme.
func RenderFace(r Raster, data FaceData, theme Theme) string {
	c := rasterise(r, data)
	rows := make([]string, 0, len(c.cells))
	for _, row := range c.cells {
		var b strings.Builder
		run := make([]rune, 0, len(row))
		class := cellEmpty
		flush := func() {
			if len(run) == 0 {
				return
			}
			b.WriteString(theme.cellStyle(class).Render(string(run)))
			run = run[:0]
		}
		for _, cl := range row {
			if cl.class != class {
				flush()
				class = cl.class
			}
			run = append(run, cl.r)
		}
		flush()
		rows = append(rows, b.String())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// FaceSVG renders the same frame as a standalone SVG document.
func FaceSVG(data FaceData, theme Theme) string {
	face := data.Face
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		FaceSize, FaceSize, FaceSize, FaceSize)
	fmt.Fprintf(&b, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		face.Center.X, face.Center.Y, face.Radius, theme.FaceFill, theme.Border)

	for i := 0; i < 12; i++ {
		hour := i
		if hour == 0 {
			hour = 12
		}
		a := float64(i * 30)
		p1, p2 := face.PointAt(a, face.Radius-10), face.PointAt(a, face.Radius)
		n := face.PointAt(a, face.Radius-geometry.MarkerInset)
		fmt.Fprintf(&b, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2"/>`+"\n",
			p1.X, p1.Y, p2.X, p2.Y, theme.Border)
		fmt.Fprintf(&b, `  <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-size="12" font-weight="bold" fill="%s">%d</text>`+"\n",
			n.X, n.Y, theme.Text, hour)
	}

	for _, m := range data.Markers {
		stroke, fill := "rgba(233, 76, 61, 0.6)", "red"
		if m.Completed {
			stroke, fill = "rgba(103, 201, 98, 0.6)", "green"
		}
		fmt.Fprintf(&b, `  <path d="%s" fill="none" stroke="%s" stroke-width="5" stroke-linecap="round"><title>%s</title></path>`+"\n",
			m.Arc.SVG(), stroke, svgEscape(m.Description))
		fmt.Fprintf(&b, `  <circle cx="%.2f" cy="%.2f" r="5" fill="%s"/>`+"\n", m.Start.X, m.Start.Y, fill)
		fmt.Fprintf(&b, `  <circle cx="%.2f" cy="%.2f" r="5" fill="%s" stroke="white" stroke-width="2"/>`+"\n", m.End.X, m.End.Y, fill)
	}

	now := data.Now
	hands := []struct {
		angle, length, width float64
	}{
		{float64(now.Hour()%12)*30 + float64(now.Minute())*0.5, 0.5, 4},
		{float64(now.Minute()) * 6, 0.7, 3},
		{float64(now.Second()) * 6, 0.8, 1},
	}
	for _, h := range hands {
		p := face.PointAt(h.angle, face.Radius*h.length)
		fmt.Fprintf(&b, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.0f" stroke-linecap="round"/>`+"\n",
			face.Center.X, face.Center.Y, p.X, p.Y, theme.Hands, h.width)
	}

	sel := data.Selection
	if sel.Phase == dial.PhaseStartSelected || sel.Phase == dial.PhaseCompleted {
		arc := geometry.ArcPath(face, sel.StartAngle, sel.DragAngle, face.Radius-15, false)
		dash := ` stroke-dasharray="5,3"`
		if sel.Phase == dial.PhaseCompleted {
			dash = ""
		}
		fmt.Fprintf(&b, `  <path d="%s" fill="none" stroke="rgba(74, 144, 226, 0.5)" stroke-width="10" stroke-linecap="round"%s/>`+"\n", arc.SVG(), dash)
		s := face.PointAt(sel.StartAngle, face.Radius*0.9)
		fmt.Fprintf(&b, `  <circle cx="%.2f" cy="%.2f" r="8" fill="#4a90e2" stroke="white" stroke-width="2"/>`+"\n", s.X, s.Y)
	}

	fmt.Fprintf(&b, `  <circle cx="%.2f" cy="%.2f" r="4" fill="%s"/>`+"\n", face.Center.X, face.Center.Y, theme.Hands)
	b.WriteString("</svg>\n")
	return b.String()
}

func svgEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
