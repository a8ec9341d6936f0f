package update

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/sandeepkv93/clockwise/internal/clock"
	"github.com/sandeepkv93/clockwise/internal/dial"
	"github.com/sandeepkv93/clockwise/internal/form"
	"github.com/sandeepkv93/clockwise/internal/logger"
	"github.com/sandeepkv93/clockwise/internal/model"
	"github.com/sandeepkv93/clockwise/internal/notify"
	"github.com/sandeepkv93/clockwise/internal/scheduler"
	"github.com/sandeepkv93/clockwise/internal/storage"
	"github.com/sandeepkv93/clockwise/internal/tasklist"
	"github.com/sandeepkv93/clockwise/internal/views"
)

type Pane string

const (
	PaneForm Pane = "form"
	PaneList Pane = "list"
)

// Form input slots, in tab order.
const (
	inputDescription = iota
	inputStartDate
	inputEndDate
	inputStartTime
	inputEndTime
	inputCount
)

// Edit input slots.
const (
	editDescription = iota
	editStart
	editEnd
	editCount
)

// The face is drawn inside a bordered, padded panel one line below the header.
const (
	faceOriginX = 2
	faceOriginY = 2

	defaultFaceRows = 21
	reminderLogSize = 20
)

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Deps are the collaborators the model drives. Only Store is required.
type Deps struct {
	Store    *tasklist.Store
	Prefs    storage.PreferenceStore
	Engine   *scheduler.Engine
	Notifier *notify.Notifier
	Clock    clock.Clock
	// DarkDefault applies when no theme preference is stored.
	DarkDefault bool
}

type Model struct {
	Focus       Pane
	Dark        bool
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	ReminderLog []scheduler.ReminderEvent
	Quitting    bool
	LastError   error

	store    *tasklist.Store
	prefs    storage.PreferenceStore
	engine   *scheduler.Engine
	notifier *notify.Notifier
	clk      clock.Clock
	now      time.Time

	gesture *dial.Gesture
	raster  views.Raster
	form    *form.Form

	inputs     []textinput.Model
	inputFocus int

	cursor  int
	picked  string
	editing string
	edits   []textinput.Model
	editPos int

	commandInput textinput.Model
	helpModel    help.Model
	detail       *detailCache
}

// detailCache holds the last glamour rendering; rendering is slow enough to
// matter on every tick.
type detailCache struct {
	key string
	out string
}

type ClockTickMsg struct{}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

func NewModel(deps Deps) Model {
	clk := deps.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	now := clk.Now()
	m := Model{
		Focus:    PaneForm,
		Dark:     deps.DarkDefault,
		store:    deps.Store,
		prefs:    deps.Prefs,
		engine:   deps.Engine,
		notifier: deps.Notifier,
		clk:      clk,
		now:      now,
		gesture:  dial.NewGesture(dial.NewFace(views.FaceSize)),
		raster:   views.NewRaster(defaultFaceRows),
		form:     form.New(model.DateOf(now)),
		detail:   &detailCache{},
	}
	m.loadThemePreference()
	m.initInputs()
	m.helpModel = help.New()
	return m
}

func (m *Model) initInputs() {
	m.inputs = make([]textinput.Model, inputCount)
	for i := range m.inputs {
		m.inputs[i] = textinput.New()
	}
	m.inputs[inputDescription].Placeholder = "Task description"
	m.inputs[inputDescription].Prompt = "task > "
	m.inputs[inputStartDate].Prompt = "start date > "
	m.inputs[inputStartDate].Placeholder = "YYYY-MM-DD"
	m.inputs[inputEndDate].Prompt = "end date   > "
	m.inputs[inputEndDate].Placeholder = "YYYY-MM-DD"
	m.inputs[inputStartTime].Prompt = "start > "
	m.inputs[inputStartTime].Placeholder = "HH:MM"
	m.inputs[inputEndTime].Prompt = "end > "
	m.inputs[inputEndTime].Placeholder = "HH:MM"
	m.resetFormInputs()

	m.edits = make([]textinput.Model, editCount)
	for i := range m.edits {
		m.edits[i] = textinput.New()
	}
	m.edits[editDescription].Prompt = ""
	m.edits[editStart].Prompt = " "
	m.edits[editStart].Placeholder = "HH:MM"
	m.edits[editEnd].Prompt = " - "
	m.edits[editEnd].Placeholder = "HH:MM"

	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "add Standup 09:00-09:15"
	m.commandInput.Prompt = "/ "
}

func (m *Model) loadThemePreference() {
	if m.prefs == nil {
		return
	}
	raw, ok, err := m.prefs.Preference(context.Background(), storage.PreferenceDarkMode)
	if err != nil {
		logger.Warn("update: read theme preference", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if dark, err := strconv.ParseBool(raw); err == nil {
		m.Dark = dark
	}
}

func (m *Model) toggleTheme() {
	m.Dark = !m.Dark
	m.detail.key = ""
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SetPreference(context.Background(), storage.PreferenceDarkMode, strconv.FormatBool(m.Dark)); err != nil {
		logger.Error("update: save theme preference", err)
		m.Status = StatusBar{Text: "theme not saved: " + err.Error(), IsError: true}
	}
}

func (m Model) theme() views.Theme {
	return views.ThemeFor(m.Dark)
}

func (m Model) today() model.Date {
	return model.DateOf(m.now)
}

// ordered is the list in presentation order; list numbers index into it.
func (m Model) ordered() []model.Task {
	var out []model.Task
	for _, g := range m.store.PresentationOrder() {
		out = append(out, g.Tasks...)
	}
	return out
}

func (m Model) cursorTask() (model.Task, bool) {
	tasks := m.ordered()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	n := m.store.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
