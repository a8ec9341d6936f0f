package form

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/clockwise/internal/dial"
	"github.com/sandeepkv93/clockwise/internal/model"
)

var (
	ErrEmptyDescription = errors.New("form: task description is required")
	ErrMissingTime      = errors.New("form: start and end times are required")
)

// Form holds the task being composed from a dial selection.
type Form struct {
	Description string
	StartDate   model.Date
	EndDate     model.Date
	StartTime   model.TimeOfDay
	EndTime     model.TimeOfDay
	HasStart    bool
	HasEnd      bool
	MultiDay    bool
	// Days is the dial's full-turn count. While non-zero the end date
	// follows the start date.
	Days int

	today model.Date
}

func New(today model.Date) *Form {
	f := &Form{}
	f.reset(today)
	return f
}

func (f *Form) reset(today model.Date) {
	*f = Form{StartDate: today, EndDate: today, today: today}
}

// Reset clears the form back to an empty entry for today.
func (f *Form) Reset(today model.Date) { f.reset(today) }

// HasSelection reports whether both times came from the dial or were typed.
func (f *Form) HasSelection() bool { return f.HasStart && f.HasEnd }

// ApplySelection copies the finished dial tuple in. Each full turn of the
// dial pushes the end date one more day past the start date.
func (f *Form) ApplySelection(iv dial.Interval) {
	f.StartTime = model.MustTimeOfDay(iv.StartHour, iv.StartMinute)
	f.EndTime = model.MustTimeOfDay(iv.EndHour, iv.EndMinute)
	f.HasStart, f.HasEnd = true, true
	f.Days = iv.RotationCount
	if iv.RotationCount > 0 {
		f.MultiDay = true
		f.EndDate = f.StartDate.AddDays(iv.RotationCount)
	}
}

// SetStartDate moves the start day, carrying a turn-derived end date along.
func (f *Form) SetStartDate(d model.Date) {
	f.StartDate = d
	if f.Days > 0 {
		f.EndDate = d.AddDays(f.Days)
	}
}

// SetEndDate pins the end day and detaches it from the turn count.
func (f *Form) SetEndDate(d model.Date) {
	f.EndDate, f.Days = d, 0
}

func (f *Form) SetStartTime(raw string) error {
	t, err := model.ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	f.StartTime, f.HasStart = t, true
	return nil
}

func (f *Form) SetEndTime(raw string) error {
	t, err := model.ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	f.EndTime, f.HasEnd = t, true
	return nil
}

func (f *Form) ToggleMultiDay() { f.MultiDay = !f.MultiDay }

// endDate is the effective end day; a single-day entry ends on its start day.
func (f *Form) endDate() model.Date {
	if !f.MultiDay {
		return f.StartDate
	}
	return f.EndDate
}

// Submit validates and returns the create payload, then clears the form.
func (f *Form) Submit() (model.Fields, error) {
	desc := strings.TrimSpace(f.Description)
	if desc == "" {
		return model.Fields{}, ErrEmptyDescription
	}
	if !f.HasSelection() {
		return model.Fields{}, ErrMissingTime
	}
	out := model.Fields{
		Description: desc,
		StartDate:   f.StartDate,
		StartTime:   f.StartTime,
		EndDate:     f.endDate(),
		EndTime:     f.EndTime,
	}
	if err := model.ValidateInterval(out.StartDate, out.StartTime, out.EndDate, out.EndTime); err != nil {
		return model.Fields{}, err
	}
	f.reset(f.today)
	return out, nil
}

// Duration renders the span as "2 hours 30 minutes", with a day count once it
// exceeds 24 hours.
func (f *Form) Duration() string {
	start := f.StartDate.At(f.StartTime, time.UTC)
	end := f.endDate().At(f.EndTime, time.UTC)
	if !f.HasSelection() || !start.Before(end) {
		return "Invalid time range"
	}
	diff := end.Sub(start)
	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)
	if hours > 24 {
		return fmt.Sprintf("%s %s %s", plural(hours/24, "day"), plural(hours%24, "hour"), plural(minutes, "minute"))
	}
	return fmt.Sprintf("%s %s", plural(hours, "hour"), plural(minutes, "minute"))
}

// RangeDisplay renders "Jan 2, 2006, 9:00 AM - 11:00 AM", naming the end day
// too for multi-day entries.
func (f *Form) RangeDisplay() string {
	start, end := f.StartTime.Format12h(), f.EndTime.Format12h()
	endDate := f.endDate()
	if endDate == f.StartDate {
		return fmt.Sprintf("%s, %s - %s", f.StartDate.Short(), start, end)
	}
	return fmt.Sprintf("%s, %s - %s, %s", f.StartDate.Short(), start, endDate.Short(), end)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// EditPatch validates an inline edit of a task's description and times and
// returns the patch to apply.
func EditPatch(t model.Task, description, startTime, endTime string) (model.Patch, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return model.Patch{}, ErrEmptyDescription
	}
	if strings.TrimSpace(startTime) == "" || strings.TrimSpace(endTime) == "" {
		return model.Patch{}, ErrMissingTime
	}
	start, err := model.ParseTimeOfDay(startTime)
	if err != nil {
		return model.Patch{}, err
	}
	end, err := model.ParseTimeOfDay(endTime)
	if err != nil {
		return model.Patch{}, err
	}
	if err := model.ValidateInterval(t.StartDate, start, t.EndDate, end); err != nil {
		return model.Patch{}, err
	}
	return model.Patch{Description: &desc, StartTime: &start, EndTime: &end}, nil
}
