package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/clockwise/internal/clock"
	"github.com/sandeepkv93/clockwise/internal/dial"
	"github.com/sandeepkv93/clockwise/internal/model"
	"github.com/sandeepkv93/clockwise/internal/scheduler"
	"github.com/sandeepkv93/clockwise/internal/storage"
	"github.com/sandeepkv93/clockwise/internal/tasklist"
)

type memoryPrefs map[string]string

func (p memoryPrefs) Preference(_ context.Context, key string) (string, bool, error) {
	v, ok := p[key]
	return v, ok, nil
}

func (p memoryPrefs) SetPreference(_ context.Context, key, value string) error {
	p[key] = value
	return nil
}

var testNow = time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)

func newTestModel(t *testing.T, prefs storage.PreferenceStore) (Model, *tasklist.Store, *clock.FakeClock) {
	t.Helper()
	n := 0
	store := tasklist.Open(context.Background(), nil, tasklist.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}))
	clk := clock.NewFakeClock(testNow)
	m := NewModel(Deps{Store: store, Prefs: prefs, Clock: clk, DarkDefault: true})
	return m, store, clk
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// cellFor returns the terminal position of the cell under the face point at
// angle, plus the reading the gesture will see for that cell.
func cellFor(t *testing.T, m Model, angle float64) (int, int, dial.Reading) {
	t.Helper()
	face := m.gesture.Face()
	col, row, ok := m.raster.CellOf(face.PointAt(angle, 60))
	if !ok {
		t.Fatalf("angle %v outside raster", angle)
	}
	return col + faceOriginX, row + faceOriginY, dial.Quantize(face, m.raster.PointAt(col, row))
}

func click(x, y int) []tea.Msg {
	return []tea.Msg{
		tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	}
}

func seed(t *testing.T, store *tasklist.Store, desc string, startH, endH int) model.Task {
	t.Helper()
	day := model.DateOf(testNow)
	task, err := store.Create(context.Background(), model.Fields{
		Description: desc,
		StartDate:   day,
		StartTime:   model.MustTimeOfDay(startH, 0),
		EndDate:     day,
		EndTime:     model.MustTimeOfDay(endH, 0),
	})
	if err != nil {
		t.Fatalf("seed %s: %v", desc, err)
	}
	return task
}

func TestNewModelDefaults(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	if m.Focus != PaneForm {
		t.Fatalf("expected form focus, got %q", m.Focus)
	}
	if !m.Dark {
		t.Fatal("expected dark mode by default")
	}
	if got := m.inputs[inputStartDate].Value(); got != "2024-01-01" {
		t.Fatalf("expected start date prefilled with today, got %q", got)
	}
	if m.Init() == nil {
		t.Fatal("expected init command")
	}
}

func TestThemePreferenceLoadedAndPersisted(t *testing.T) {
	prefs := memoryPrefs{storage.PreferenceDarkMode: "false"}
	m, _, _ := newTestModel(t, prefs)
	if m.Dark {
		t.Fatal("stored light preference ignored")
	}

	m = send(t, m, keyMsg(tea.KeyCtrlT))
	if !m.Dark {
		t.Fatal("expected dark mode after toggle")
	}
	if prefs[storage.PreferenceDarkMode] != "true" {
		t.Fatalf("expected preference persisted, got %q", prefs[storage.PreferenceDarkMode])
	}
}

func TestMouseSelectionFillsFormAndSubmits(t *testing.T) {
	m, store, _ := newTestModel(t, nil)

	sx, sy, start := cellFor(t, m, 0)
	ex, ey, end := cellFor(t, m, 90)

	m = send(t, m, click(sx, sy)...)
	if m.gesture.State().Phase != dial.PhaseStartSelected {
		t.Fatalf("expected start selected, got %q", m.gesture.State().Phase)
	}
	m = send(t, m, tea.MouseMsg{X: ex, Y: ey, Action: tea.MouseActionMotion})
	if !strings.Contains(m.selectionReadout(), "End:") {
		t.Fatalf("expected live end readout, got %q", m.selectionReadout())
	}
	m = send(t, m, click(ex, ey)...)
	if m.gesture.State().Phase != dial.PhaseCompleted {
		t.Fatalf("expected completed selection, got %q", m.gesture.State().Phase)
	}

	wantStart := model.MustTimeOfDay(start.Hour, start.Minute)
	wantEnd := model.MustTimeOfDay(end.Hour, end.Minute)
	if got := m.inputs[inputStartTime].Value(); got != wantStart.String() {
		t.Fatalf("expected start input %s, got %q", wantStart, got)
	}
	if got := m.inputs[inputEndTime].Value(); got != wantEnd.String() {
		t.Fatalf("expected end input %s, got %q", wantEnd, got)
	}

	m = send(t, m, runes("Standup"), keyMsg(tea.KeyEnter))
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	tasks := store.Snapshot()
	if len(tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Description != "Standup" || got.StartTime != wantStart || got.EndTime != wantEnd {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.StartDate != model.DateOf(testNow) || got.EndDate != got.StartDate {
		t.Fatalf("unexpected dates: %+v", got)
	}
	if m.gesture.State().Phase != dial.PhaseNone || m.inputs[inputStartTime].Value() != "" {
		t.Fatal("expected selection and form cleared after submit")
	}
}

func TestFormValidationErrors(t *testing.T) {
	m, store, _ := newTestModel(t, nil)

	m = send(t, m, keyMsg(tea.KeyEnter))
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "description") {
		t.Fatalf("expected description error, got %+v", m.Status)
	}

	m = send(t, m, runes("Lunch"), keyMsg(tea.KeyEnter))
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "times") {
		t.Fatalf("expected missing time error, got %+v", m.Status)
	}

	m.inputs[inputStartTime].SetValue("13:00")
	m.inputs[inputEndTime].SetValue("12:00")
	m = send(t, m, keyMsg(tea.KeyEnter))
	if !m.Status.IsError {
		t.Fatalf("expected interval error, got %+v", m.Status)
	}
	if store.Len() != 0 {
		t.Fatalf("invalid forms must not create tasks, got %d", store.Len())
	}

	m.inputs[inputEndTime].SetValue("14:00")
	m = send(t, m, keyMsg(tea.KeyEnter))
	if m.Status.IsError || store.Len() != 1 {
		t.Fatalf("expected task created, status %+v", m.Status)
	}
}

func TestMultiDayFormUsesEndDate(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	m = send(t, m, runes("Trip"), keyMsg(tea.KeyCtrlD))
	if !m.form.MultiDay {
		t.Fatal("expected multi-day on")
	}
	m.inputs[inputEndDate].SetValue("2024-01-03")
	m.inputs[inputStartTime].SetValue("22:00")
	m.inputs[inputEndTime].SetValue("06:00")
	m = send(t, m, keyMsg(tea.KeyEnter))
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	got := store.Snapshot()[0]
	if got.EndDate != model.NewDate(2024, 1, 3) || !got.IsMultiDay() {
		t.Fatalf("expected end date 2024-01-03, got %+v", got)
	}
}

func TestTurnDerivedEndDateFollowsStartDate(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	m.applySelection(dial.Interval{StartHour: 9, EndHour: 9, RotationCount: 1})
	if got := m.inputs[inputEndDate].Value(); got != "2024-01-02" {
		t.Fatalf("expected derived end date 2024-01-02, got %q", got)
	}

	m.inputs[inputStartDate].SetValue("2024-01-05")
	m = send(t, m, runes("Overnight"), keyMsg(tea.KeyEnter))
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	got := store.Snapshot()[0]
	if got.StartDate != model.NewDate(2024, 1, 5) || got.EndDate != model.NewDate(2024, 1, 6) {
		t.Fatalf("expected 2024-01-05 to 2024-01-06, got %s to %s", got.StartDate, got.EndDate)
	}
}

func TestTypedEndDateOverridesTurnCount(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	m.applySelection(dial.Interval{StartHour: 9, EndHour: 9, RotationCount: 1})

	m.focusInput(inputEndDate)
	m.inputs[inputEndDate].SetValue("2024-01-0")
	m = send(t, m, runes("9"))
	if m.form.Days != 0 {
		t.Fatalf("expected typed end date to detach the turn count, got %d", m.form.Days)
	}
	m.inputs[inputStartDate].SetValue("2024-01-05")
	m.inputs[inputDescription].SetValue("Trip")
	m = send(t, m, keyMsg(tea.KeyEnter))
	if m.Status.IsError {
		t.Fatalf("unexpected error: %s", m.Status.Text)
	}
	if got := store.Snapshot()[0].EndDate; got != model.NewDate(2024, 1, 9) {
		t.Fatalf("expected typed end date kept, got %s", got)
	}
}

func TestSelectionReportsBadStartDate(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m.inputs[inputStartDate].SetValue("not-a-date")
	m.applySelection(dial.Interval{StartHour: 1, EndHour: 2})
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "start date") {
		t.Fatalf("expected start date error, got %+v", m.Status)
	}
	if m.inputs[inputStartTime].Value() != "01:00" {
		t.Fatalf("expected times applied, got %q", m.inputs[inputStartTime].Value())
	}
}

func TestEscClearsSelectionAndFocusesList(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	sx, sy, _ := cellFor(t, m, 0)
	m = send(t, m, click(sx, sy)...)
	m = send(t, m, keyMsg(tea.KeyEsc))
	if m.Focus != PaneList {
		t.Fatalf("expected list focus, got %q", m.Focus)
	}
	if m.gesture.State().Phase != dial.PhaseNone {
		t.Fatal("expected gesture reset")
	}
	m = send(t, m, runes("a"))
	if m.Focus != PaneForm {
		t.Fatalf("expected form focus, got %q", m.Focus)
	}
}

func TestMouseHoverAndLeave(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	face := m.gesture.Face()
	col, row, _ := m.raster.CellOf(face.Center)
	m = send(t, m, tea.MouseMsg{X: col + faceOriginX, Y: row + faceOriginY, Action: tea.MouseActionMotion})
	if m.gesture.State().Hover == nil {
		t.Fatal("expected hover inside the face")
	}
	m = send(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	if m.gesture.State().Hover != nil {
		t.Fatal("expected hover cleared outside the face")
	}
}

func TestListKeysToggleReorderDelete(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	first := seed(t, store, "First", 9, 10)
	second := seed(t, store, "Second", 11, 12)
	m = send(t, m, keyMsg(tea.KeyEsc))

	m = send(t, m, runes("x"))
	if got, _ := store.Get(first.ID); !got.Completed {
		t.Fatal("expected first task completed")
	}

	m = send(t, m, runes("j"), keyMsg(tea.KeySpace), runes("k"), keyMsg(tea.KeyEnter))
	if m.picked != "" {
		t.Fatal("expected drop to clear the picked task")
	}
	order := m.ordered()
	if order[0].ID != second.ID || order[1].ID != first.ID {
		t.Fatalf("unexpected order after move: %s, %s", order[0].ID, order[1].ID)
	}
	if m.cursor != 1 {
		t.Fatalf("expected cursor to follow drop target, got %d", m.cursor)
	}

	m = send(t, m, runes("d"))
	if store.Len() != 1 {
		t.Fatalf("expected one task left, got %d", store.Len())
	}
	if _, ok := store.Get(first.ID); ok {
		t.Fatal("expected first task deleted")
	}
	if m.cursor != 0 {
		t.Fatalf("expected cursor clamped, got %d", m.cursor)
	}
}

func TestInlineEdit(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	task := seed(t, store, "Draft", 9, 10)
	m = send(t, m, keyMsg(tea.KeyEsc), runes("e"))
	if m.editing != task.ID {
		t.Fatalf("expected edit of %s, got %q", task.ID, m.editing)
	}

	m.edits[editEnd].SetValue("08:00")
	m = send(t, m, keyMsg(tea.KeyEnter))
	if !m.Status.IsError || m.editing == "" {
		t.Fatalf("expected invalid edit kept open, got %+v", m.Status)
	}

	m.edits[editDescription].SetValue("Final")
	m.edits[editEnd].SetValue("10:30")
	m = send(t, m, keyMsg(tea.KeyEnter))
	if m.editing != "" {
		t.Fatalf("expected edit closed, status %+v", m.Status)
	}
	got, _ := store.Get(task.ID)
	if got.Description != "Final" || got.EndTime != model.MustTimeOfDay(10, 30) || got.ID != task.ID {
		t.Fatalf("unexpected edited task: %+v", got)
	}
}

func TestPaletteCursorKeysKeepBlinking(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = send(t, m, keyMsg(tea.KeyEsc), runes("/"), runes("add"))

	updated, cmd := m.Update(keyMsg(tea.KeyLeft))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected the input's cursor command to be returned")
	}
	if m.Palette.Input != "add" || !m.Palette.Active {
		t.Fatalf("unexpected palette state: %+v", m.Palette)
	}
}

func TestPaletteCommands(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	m = send(t, m, keyMsg(tea.KeyEsc), runes("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}

	m = send(t, m, runes("add Review 10:00-11:00"), keyMsg(tea.KeyEnter))
	if m.Status.IsError || store.Len() != 1 {
		t.Fatalf("add failed: %+v", m.Status)
	}
	if m.Palette.Active {
		t.Fatal("expected palette closed after execute")
	}

	m = send(t, m, runes("/"), runes("done 1"), keyMsg(tea.KeyEnter))
	if got := store.Snapshot()[0]; !got.Completed {
		t.Fatalf("expected task completed, status %+v", m.Status)
	}

	m = send(t, m, runes("/"), runes("edit 1 desc Code review"), keyMsg(tea.KeyEnter))
	if got := store.Snapshot()[0]; got.Description != "Code review" {
		t.Fatalf("expected description updated, got %q (%+v)", got.Description, m.Status)
	}

	m = send(t, m, runes("/"), runes("add Broken 11:00-10:00"), keyMsg(tea.KeyEnter))
	if !m.Status.IsError || store.Len() != 1 {
		t.Fatalf("expected inverted range rejected, got %+v", m.Status)
	}

	m = send(t, m, runes("/"), runes("delete 7"), keyMsg(tea.KeyEnter))
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_task") {
		t.Fatalf("expected unknown task error, got %+v", m.Status)
	}

	m = send(t, m, runes("/"), runes("theme"), keyMsg(tea.KeyEnter))
	if m.Dark || m.Status.Text != "light mode" {
		t.Fatalf("expected light mode, got dark=%v %+v", m.Dark, m.Status)
	}

	m = send(t, m, runes("/"), runes("bogus"), keyMsg(tea.KeyEnter))
	if !m.Status.IsError {
		t.Fatal("expected unknown command error")
	}
}

func TestReminderDueMsg(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	ev := scheduler.ReminderEvent{
		TaskID:      "t1",
		Description: "Standup",
		EndAt:       testNow.Add(30 * time.Second),
		FiredAt:     testNow,
	}
	updated, cmd := m.Update(ReminderDueMsg{Event: ev})
	m = updated.(Model)
	if cmd != nil {
		t.Fatal("expected no follow-up without an engine")
	}
	if len(m.ReminderLog) != 1 {
		t.Fatalf("expected reminder logged, got %d", len(m.ReminderLog))
	}
	if !strings.Contains(m.Status.Text, "Standup") || !strings.Contains(m.Status.Text, "Task ends in 1 minutes") {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
	if !strings.Contains(m.View(), "last reminder") {
		t.Fatal("expected reminder in view")
	}

	for i := 0; i < reminderLogSize+5; i++ {
		m = send(t, m, ReminderDueMsg{Event: ev})
	}
	if len(m.ReminderLog) != reminderLogSize {
		t.Fatalf("expected log capped at %d, got %d", reminderLogSize, len(m.ReminderLog))
	}
}

func TestClockTickAdvancesNow(t *testing.T) {
	m, _, clk := newTestModel(t, nil)
	clk.Advance(5 * time.Second)
	updated, cmd := m.Update(ClockTickMsg{})
	m = updated.(Model)
	if !m.now.Equal(testNow.Add(5 * time.Second)) {
		t.Fatalf("expected now advanced, got %v", m.now)
	}
	if cmd == nil {
		t.Fatal("expected next tick scheduled")
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m = send(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}

	m = send(t, m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || m.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", m.LastError)
	}
	if !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}

	m = send(t, m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", m.Status)
	}
}

func TestViewAndHelp(t *testing.T) {
	m, store, _ := newTestModel(t, nil)
	if out := m.View(); !strings.Contains(out, "No tasks yet") || !strings.Contains(out, "clockwise") {
		t.Fatalf("unexpected empty view:\n%s", out)
	}

	seed(t, store, "Standup", 9, 10)
	m = send(t, m, keyMsg(tea.KeyEsc), runes("?"))
	if !m.HelpVisible {
		t.Fatal("expected help visible")
	}
	out := m.View()
	if !strings.Contains(out, "Standup") || !strings.Contains(out, "toggle completed") {
		t.Fatalf("expected task and help in view:\n%s", out)
	}

	updated, cmd := m.Update(runes("q"))
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}
