package tasklist

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sandeepkv93/clockwise/internal/logger"
	"github.com/sandeepkv93/clockwise/internal/model"
	"github.com/sandeepkv93/clockwise/internal/storage"
)

// DayGroup is one heading of the presented list.
type DayGroup struct {
	Date  model.Date
	Tasks []model.Task
}

type Option func(*Store)

// WithIDGenerator replaces the uuid generator used by Create.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Store owns the ordered task collection. Every mutation is followed by a
// full snapshot write; a failed write is logged and returned but the
// in-memory change stands.
type Store struct {
	mu    sync.Mutex
	snap  storage.Snapshotter
	tasks []model.Task
	newID func() string
}

// Open loads the persisted collection. Unreadable or corrupt data yields an
// empty collection.
func Open(ctx context.Context, snap storage.Snapshotter, opts ...Option) *Store {
	s := &Store{
		snap:  snap,
		tasks: []model.Task{},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if snap == nil {
		return s
	}

	tasks, err := snap.Load(ctx)
	if err != nil {
		logger.Error("tasklist: load snapshot, starting empty", err)
		return s
	}
	s.tasks = tasks
	logger.Info("tasklist: loaded snapshot", zap.Int("tasks", len(tasks)))
	return s
}

// Create appends a new incomplete task. Fields are not validated here.
func (s *Store) Create(ctx context.Context, f model.Fields) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.Task{
		ID:          s.newID(),
		Description: f.Description,
		StartDate:   f.StartDate,
		StartTime:   f.StartTime,
		EndDate:     f.EndDate,
		EndTime:     f.EndTime,
	}
	s.tasks = append(s.tasks, t)
	return t.Clone(), s.persistLocked(ctx, "create")
}

// Toggle flips the completion flag. Unknown ids are ignored.
func (s *Store) Toggle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.persistLocked(ctx, "toggle")
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.persistLocked(ctx, "delete")
}

// Update merges the patch into the task. The id never changes.
func (s *Store) Update(ctx context.Context, id string, p model.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	s.tasks[i] = p.Apply(s.tasks[i])
	s.tasks[i].ID = id
	return s.persistLocked(ctx, "update")
}

// Reorder moves fromID to the storage index toID occupied before the move,
// then renumbers every position 0..N-1.
func (s *Store) Reorder(ctx context.Context, fromID, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.indexLocked(fromID)
	to := s.indexLocked(toID)
	if from < 0 || to < 0 {
		return nil
	}

	moved := s.tasks[from]
	rest := make([]model.Task, 0, len(s.tasks))
	rest = append(rest, s.tasks[:from]...)
	rest = append(rest, s.tasks[from+1:]...)

	out := make([]model.Task, 0, len(s.tasks))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	for i := range out {
		p := i
		out[i].Position = &p
	}
	s.tasks = out
	return s.persistLocked(ctx, "reorder")
}

// ClaimReminders marks every incomplete, un-notified task matching due as
// notified, saves once and returns copies of the claimed tasks. Claiming is
// serialised with every other mutation, so a task is claimed at most once.
func (s *Store) ClaimReminders(ctx context.Context, due func(model.Task) bool) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claimed := make([]model.Task, 0)
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.Completed || t.Notified || !due(*t) {
			continue
		}
		t.Notified = true
		claimed = append(claimed, t.Clone())
	}
	if len(claimed) == 0 {
		return claimed, nil
	}
	return claimed, s.persistLocked(ctx, "claim reminders")
}

// Snapshot returns a deep copy in storage order.
func (s *Store) Snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.tasks)
}

func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// PresentationOrder sorts by manual position when every task has one, else by
// start date and time, and groups the result by start date.
func (s *Store) PresentationOrder() []DayGroup {
	return Present(s.Snapshot())
}

// Present is PresentationOrder over an arbitrary slice. The slice is sorted in
// place.
func Present(tasks []model.Task) []DayGroup {
	byPosition := len(tasks) > 0
	for _, t := range tasks {
		if t.Position == nil {
			byPosition = false
			break
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if byPosition {
			return *a.Position < *b.Position
		}
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c < 0
		}
		return a.StartTime < b.StartTime
	})

	index := make(map[model.Date]int)
	groups := make([]DayGroup, 0)
	for _, t := range tasks {
		i, ok := index[t.StartDate]
		if !ok {
			i = len(groups)
			index[t.StartDate] = i
			groups = append(groups, DayGroup{Date: t.StartDate})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.Before(groups[j].Date)
	})
	return groups
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context, op string) error {
	if s.snap == nil {
		return nil
	}
	if err := s.snap.Save(ctx, cloneAll(s.tasks)); err != nil {
		logger.Error("tasklist: save snapshot", err, zap.String("op", op), zap.Int("tasks", len(s.tasks)))
		return err
	}
	return nil
}

func cloneAll(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
