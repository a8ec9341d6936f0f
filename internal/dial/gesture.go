package dial

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseNone          Phase = "none"
	PhaseStartSelected Phase = "start-selected"
	PhaseCompleted     Phase = "completed"
)

func (p Phase) IsValid() bool {
	switch p {
	case PhaseNone, PhaseStartSelected, PhaseCompleted:
		return true
	default:
		return false
	}
}

// Selection is the whole state of one time-picking gesture.
type Selection struct {
	Phase         Phase
	StartAngle    float64
	StartHour     int
	StartMinute   int
	DragAngle     float64
	EndHour       int
	EndMinute     int
	RotationCount int
	Dragging      bool
	// Hover is the last in-face pointer position, nil when the pointer is outside.
	Hover *Point

	lastAngle float64
}

// Interval is what a finished gesture hands to the task form.
type Interval struct {
	StartHour     int
	StartMinute   int
	EndHour       int
	EndMinute     int
	RotationCount int
}

// Gesture runs the two-click selection: the first click fixes the start,
// moving drags the end (counting full turns as extra days) and a second
// click finalizes.
type Gesture struct {
	face Face
	sel  Selection
}

func NewGesture(face Face) *Gesture {
	return &Gesture{face: face, sel: Selection{Phase: PhaseNone}}
}

func (g *Gesture) Face() Face { return g.face }

// SetFace swaps the face geometry, e.g. after a resize. The selection is kept.
func (g *Gesture) SetFace(f Face) { g.face = f }

func (g *Gesture) State() Selection {
	out := g.sel
	if out.Hover != nil {
		h := *out.Hover
		out.Hover = &h
	}
	return out
}

// Click handles a full click. It returns the interval when the click finalized
// the selection.
func (g *Gesture) Click(p Point) (Interval, bool) {
	if g.sel.Dragging {
		if g.sel.Phase != PhaseStartSelected {
			return Interval{}, false
		}
		g.sel.Phase = PhaseCompleted
		g.sel.Dragging = false
		return g.interval(), true
	}
	if g.sel.Phase != PhaseNone || !g.face.Contains(p) {
		return Interval{}, false
	}
	r := Quantize(g.face, p)
	g.sel.Phase = PhaseStartSelected
	g.sel.StartAngle = r.Angle
	g.sel.StartHour = r.Hour
	g.sel.StartMinute = r.Minute
	g.sel.DragAngle = r.Angle
	g.sel.EndHour = r.Hour
	g.sel.EndMinute = r.Minute
	g.sel.Dragging = true
	g.sel.lastAngle = r.Angle
	return Interval{}, false
}

// Press resumes dragging when the button goes down inside the face while the
// start is selected. It moves the end without counting a turn.
func (g *Gesture) Press(p Point) {
	if g.sel.Phase != PhaseStartSelected || !g.face.Contains(p) {
		return
	}
	r := Quantize(g.face, p)
	g.sel.Dragging = true
	g.sel.DragAngle = r.Angle
	g.sel.EndHour = r.Hour
	g.sel.EndMinute = r.Minute
	g.sel.lastAngle = r.Angle
}

// Move tracks the pointer. Positions outside the face only clear the hover.
func (g *Gesture) Move(p Point) {
	if !g.face.Contains(p) {
		g.sel.Hover = nil
		return
	}
	hover := p
	g.sel.Hover = &hover
	if !g.sel.Dragging || g.sel.Phase != PhaseStartSelected {
		return
	}
	r := Quantize(g.face, p)
	g.sel.DragAngle = r.Angle
	g.sel.EndHour = r.Hour
	g.sel.EndMinute = r.Minute
	g.sel.RotationCount = nextRotation(g.sel.RotationCount, g.sel.lastAngle, r.Angle)
	g.sel.lastAngle = r.Angle
}

// Leave keeps the gesture alive; only the hover marker goes away.
func (g *Gesture) Leave() {
	g.sel.Hover = nil
}

func (g *Gesture) Reset() {
	g.sel = Selection{Phase: PhaseNone}
}

func (g *Gesture) interval() Interval {
	return Interval{
		StartHour:     g.sel.StartHour,
		StartMinute:   g.sel.StartMinute,
		EndHour:       g.sel.EndHour,
		EndMinute:     g.sel.EndMinute,
		RotationCount: g.sel.RotationCount,
	}
}

func nextRotation(count int, prev, next float64) int {
	switch {
	case prev > 270 && next < 90:
		return count + 1
	case prev < 90 && next > 270:
		if count > 0 {
			return count - 1
		}
		return 0
	default:
		return count
	}
}

// Label renders a live selection reading such as "3:05 PM". The face only
// knows 12 hours, so the period follows the current one, or the number of
// completed turns once the drag went past a full day.
func Label(hour, minute, rotation int, now time.Time) string {
	pm := hour < 12 && now.Hour() >= 12
	if rotation > 0 {
		pm = ((hour+rotation*24)/12)%2 == 1
	}
	display := hour
	if display == 0 {
		display = 12
	}
	period := "AM"
	if pm {
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}
