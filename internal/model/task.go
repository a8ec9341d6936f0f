package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidInterval = errors.New("model: end time must be after start time")

// Task is one scheduled interval in the list.
type Task struct {
	ID          string
	Description string
	StartDate   Date
	StartTime   TimeOfDay
	EndDate     Date
	EndTime     TimeOfDay
	Completed   bool
	// Notified is set once by the reminder scheduler and never cleared.
	Notified bool
	// Position is the manual sort key; nil until the first reorder.
	Position *int
}

// Fields is the create payload produced by the task form.
type Fields struct {
	Description string
	StartDate   Date
	StartTime   TimeOfDay
	EndDate     Date
	EndTime     TimeOfDay
}

// Patch carries the fields an edit may change. Nil means unchanged.
type Patch struct {
	Description *string
	StartDate   *Date
	StartTime   *TimeOfDay
	EndDate     *Date
	EndTime     *TimeOfDay
	Completed   *bool
}

func (p Patch) Apply(t Task) Task {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.EndTime != nil {
		t.EndTime = *p.EndTime
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

func (t Task) StartAt(loc *time.Location) time.Time { return t.StartDate.At(t.StartTime, loc) }
func (t Task) EndAt(loc *time.Location) time.Time   { return t.EndDate.At(t.EndTime, loc) }

func (t Task) IsMultiDay() bool { return t.StartDate != t.EndDate }

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	if t.Position != nil {
		p := *t.Position
		t.Position = &p
	}
	return t
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.New("model: task description is required")
	}
	return ValidateInterval(t.StartDate, t.StartTime, t.EndDate, t.EndTime)
}

func (f Fields) Validate() error {
	if strings.TrimSpace(f.Description) == "" {
		return errors.New("model: task description is required")
	}
	return ValidateInterval(f.StartDate, f.StartTime, f.EndDate, f.EndTime)
}

// ValidateInterval requires start date+time strictly before end date+time.
func ValidateInterval(startDate Date, startTime TimeOfDay, endDate Date, endTime TimeOfDay) error {
	if startDate.IsZero() || endDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidDate)
	}
	if !startTime.IsValid() {
		return fmt.Errorf("%w: start %d", ErrInvalidTime, int(startTime))
	}
	if !endTime.IsValid() {
		return fmt.Errorf("%w: end %d", ErrInvalidTime, int(endTime))
	}
	if !startDate.At(startTime, time.UTC).Before(endDate.At(endTime, time.UTC)) {
		return ErrInvalidInterval
	}
	return nil
}

// DurationLabel renders the span as "(2h 30m)" or "(1d 3h 0m)".
func (t Task) DurationLabel() string {
	diff := t.EndAt(time.UTC).Sub(t.StartAt(time.UTC))
	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)
	if hours >= 24 {
		return fmt.Sprintf("(%dd %dh %dm)", hours/24, hours%24, minutes)
	}
	return fmt.Sprintf("(%dh %dm)", hours, minutes)
}

// RangeLabel renders "09:00 - 11:00", with dates when the task spans days.
func (t Task) RangeLabel() string {
	if t.IsMultiDay() {
		return fmt.Sprintf("%s %s - %s %s", shortDay(t.StartDate), t.StartTime, shortDay(t.EndDate), t.EndTime)
	}
	return fmt.Sprintf("%s - %s", t.StartTime, t.EndTime)
}

func shortDay(d Date) string {
	return d.midnight(time.UTC).Format("Jan 2")
}
