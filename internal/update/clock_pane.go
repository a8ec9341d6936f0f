package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/clockwise/internal/dial"
	"github.com/sandeepkv93/clockwise/internal/geometry"
	"github.com/sandeepkv93/clockwise/internal/views"
)

// facePoint maps a terminal cell to face coordinates. ok is false when the
// cell lies outside the clock raster.
func (m Model) facePoint(x, y int) (dial.Point, bool) {
	col, row := x-faceOriginX, y-faceOriginY
	p := m.raster.PointAt(col, row)
	ok := col >= 0 && col < m.raster.Cols && row >= 0 && row < m.raster.Rows
	return p, ok
}

// handleMouse feeds pointer events into the selection gesture. A release
// completes a click; presses and motion drive the drag.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	p, inside := m.facePoint(msg.X, msg.Y)
	if !inside {
		m.gesture.Leave()
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.gesture.Press(p)
	case tea.MouseActionRelease:
		if iv, done := m.gesture.Click(p); done {
			m.applySelection(iv)
			m.Focus = PaneForm
		}
	case tea.MouseActionMotion:
		m.gesture.Move(p)
	}
	return m, nil
}

func (m *Model) resizeFace(height int) {
	rows := height/2 - 2
	if rows > 31 {
		rows = 31
	}
	if rows < 11 {
		rows = 11
	}
	m.raster = views.NewRaster(rows)
}

func (m Model) renderClockPane() string {
	face := m.gesture.Face()
	return views.RenderFace(m.raster, views.FaceData{
		Face:      face,
		Now:       m.now,
		Markers:   geometry.Markers(m.store.Snapshot(), face, m.now),
		Selection: m.gesture.State(),
	}, m.theme())
}
