package geometry

import (
	"time"

	"github.com/sandeepkv93/clockwise/internal/dial"
	"github.com/sandeepkv93/clockwise/internal/model"
)

// MarkerInset is how far task markers and arcs sit inside the face rim.
const MarkerInset = 25

// Marker is everything a surface needs to draw one task on the face.
type Marker struct {
	TaskID      string
	Description string
	Completed   bool
	IsMultiDay  bool
	Spans       bool
	StartTime   model.TimeOfDay
	EndTime     model.TimeOfDay
	StartAngle  float64
	EndAngle    float64
	Start       dial.Point
	End         dial.Point
	Arc         Arc
}

// VisibleOn reports whether the task touches the calendar day of now.
func VisibleOn(t model.Task, now time.Time) bool {
	today := model.DateOf(now)
	if t.StartDate == today || t.EndDate == today {
		return true
	}
	return t.StartDate.Before(today) && t.EndDate.After(today)
}

// DisplayTimes clips the task to the day of now: a task that began on an
// earlier day shows from 00:00 and one that ends on a later day shows to 23:59.
func DisplayTimes(t model.Task, now time.Time) (model.TimeOfDay, model.TimeOfDay) {
	today := model.DateOf(now)
	start, end := t.StartTime, t.EndTime
	if t.StartDate.Before(today) {
		start = model.Midnight
	}
	if t.EndDate.After(today) {
		end = model.EndOfDay
	}
	return start, end
}

func MarkerAngle(t model.TimeOfDay) float64 {
	return dial.AngleFor(t.Hour(), t.Minute())
}

// SpansMultiplePeriods is true when the task crosses days or the two displayed
// times sit in different halves of the day.
func SpansMultiplePeriods(t model.Task, start, end model.TimeOfDay) bool {
	if t.IsMultiDay() {
		return true
	}
	return start.Hour()/12 != end.Hour()/12
}

// Markers describes every task visible on the day of now, in input order.
func Markers(tasks []model.Task, face dial.Face, now time.Time) []Marker {
	r := face.Radius - MarkerInset
	out := make([]Marker, 0, len(tasks))
	for _, t := range tasks {
		if !VisibleOn(t, now) {
			continue
		}
		start, end := DisplayTimes(t, now)
		sa, ea := MarkerAngle(start), MarkerAngle(end)
		spans := SpansMultiplePeriods(t, start, end)
		out = append(out, Marker{
			TaskID:      t.ID,
			Description: t.Description,
			Completed:   t.Completed,
			IsMultiDay:  t.IsMultiDay(),
			Spans:       spans,
			StartTime:   t.StartTime,
			EndTime:     t.EndTime,
			StartAngle:  sa,
			EndAngle:    ea,
			Start:       face.PointAt(sa, r),
			End:         face.PointAt(ea, r),
			Arc:         ArcPath(face, sa, ea, r, spans),
		})
	}
	return out
}
