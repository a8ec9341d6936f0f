package tasklist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/clockwise/internal/model"
	"github.com/sandeepkv93/clockwise/internal/storage"
)

type memorySnapshot struct {
	mu      sync.Mutex
	tasks   []model.Task
	saves   int
	loadErr error
	saveErr error
}

func (m *memorySnapshot) Load(context.Context) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]model.Task(nil), m.tasks...), nil
}

func (m *memorySnapshot) Save(_ context.Context, tasks []model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = tasks
	return nil
}

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("t%d", n)
	})
}

func fields(desc string, day model.Date, startH, endH int) model.Fields {
	return model.Fields{
		Description: desc,
		StartDate:   day,
		StartTime:   model.MustTimeOfDay(startH, 0),
		EndDate:     day,
		EndTime:     model.MustTimeOfDay(endH, 0),
	}
}

func seeded(t *testing.T, n int) (*Store, *memorySnapshot) {
	t.Helper()
	snap := &memorySnapshot{}
	s := Open(context.Background(), snap, sequentialIDs())
	day := model.NewDate(2024, 1, 1)
	for i := 0; i < n; i++ {
		_, err := s.Create(context.Background(), fields(fmt.Sprintf("task %d", i), day, i, i+1))
		require.NoError(t, err)
	}
	return s, snap
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestCreateAppendsAndPersists(t *testing.T) {
	s, snap := seeded(t, 0)
	day := model.NewDate(2024, 1, 1)

	created, err := s.Create(context.Background(), fields("Test", day, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, "t1", created.ID)
	assert.False(t, created.Completed)
	assert.False(t, created.Notified)
	assert.Nil(t, created.Position)

	assert.Equal(t, 1, snap.saves)
	require.Len(t, snap.tasks, 1)
	assert.Equal(t, "Test", snap.tasks[0].Description)
	assert.Equal(t, "03:00", snap.tasks[0].EndTime.String())
}

func TestOpenDefaultIDsAreUnique(t *testing.T) {
	s := Open(context.Background(), &memorySnapshot{})
	a, _ := s.Create(context.Background(), fields("a", model.NewDate(2024, 1, 1), 1, 2))
	b, _ := s.Create(context.Background(), fields("b", model.NewDate(2024, 1, 1), 1, 2))
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestOpenFallsBackToEmptyOnCorruptData(t *testing.T) {
	snap := &memorySnapshot{loadErr: fmt.Errorf("%w: bad json", storage.ErrCorrupt)}
	s := Open(context.Background(), snap)
	assert.Empty(t, s.Snapshot())
}

func TestToggleTwiceRestoresState(t *testing.T) {
	s, _ := seeded(t, 1)
	ctx := context.Background()

	require.NoError(t, s.Toggle(ctx, "t1"))
	got, _ := s.Get("t1")
	assert.True(t, got.Completed)

	require.NoError(t, s.Toggle(ctx, "t1"))
	got, _ = s.Get("t1")
	assert.False(t, got.Completed)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s, snap := seeded(t, 2)
	ctx := context.Background()
	before := s.Snapshot()
	saves := snap.saves

	desc := "changed"
	require.NoError(t, s.Toggle(ctx, "missing"))
	require.NoError(t, s.Delete(ctx, "missing"))
	require.NoError(t, s.Update(ctx, "missing", model.Patch{Description: &desc}))
	require.NoError(t, s.Reorder(ctx, "missing", "t1"))
	require.NoError(t, s.Reorder(ctx, "t1", "missing"))

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, saves, snap.saves)
}

func TestDeleteRemovesTask(t *testing.T) {
	s, snap := seeded(t, 3)
	require.NoError(t, s.Delete(context.Background(), "t2"))
	assert.Equal(t, []string{"t1", "t3"}, ids(s.Snapshot()))
	assert.Equal(t, []string{"t1", "t3"}, ids(snap.tasks))
}

func TestUpdateMergesPatch(t *testing.T) {
	s, _ := seeded(t, 1)
	desc := "Renamed"
	end := model.MustTimeOfDay(5, 30)
	require.NoError(t, s.Update(context.Background(), "t1", model.Patch{Description: &desc, EndTime: &end}))

	got, ok := s.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Description)
	assert.Equal(t, "05:30", got.EndTime.String())
	assert.Equal(t, "00:00", got.StartTime.String())
	assert.Equal(t, "t1", got.ID)
}

func TestReorderMovesAndRenumbers(t *testing.T) {
	s, _ := seeded(t, 4)
	ctx := context.Background()

	require.NoError(t, s.Reorder(ctx, "t1", "t3"))
	got := s.Snapshot()
	assert.Equal(t, []string{"t2", "t3", "t1", "t4"}, ids(got))
	for i, task := range got {
		require.NotNil(t, task.Position)
		assert.Equal(t, i, *task.Position)
	}

	require.NoError(t, s.Reorder(ctx, "t4", "t2"))
	assert.Equal(t, []string{"t4", "t2", "t3", "t1"}, ids(s.Snapshot()))
}

func TestReorderIsAPermutation(t *testing.T) {
	ctx := context.Background()
	for from := 1; from <= 5; from++ {
		for to := 1; to <= 5; to++ {
			s, _ := seeded(t, 5)
			require.NoError(t, s.Reorder(ctx, fmt.Sprintf("t%d", from), fmt.Sprintf("t%d", to)))

			got := ids(s.Snapshot())
			assert.ElementsMatch(t, []string{"t1", "t2", "t3", "t4", "t5"}, got)
			assert.Equal(t, fmt.Sprintf("t%d", from), got[to-1])
		}
	}
}

func TestPresentationOrderGroupsByDay(t *testing.T) {
	s := Open(context.Background(), &memorySnapshot{}, sequentialIDs())
	ctx := context.Background()
	jan1, jan2 := model.NewDate(2024, 1, 1), model.NewDate(2024, 1, 2)

	_, _ = s.Create(ctx, fields("A", jan2, 9, 10))
	_, _ = s.Create(ctx, fields("B", jan1, 8, 9))
	_, _ = s.Create(ctx, fields("C", jan1, 10, 11))

	groups := s.PresentationOrder()
	require.Len(t, groups, 2)
	assert.Equal(t, jan1, groups[0].Date)
	assert.Equal(t, []string{"t2", "t3"}, ids(groups[0].Tasks))
	assert.Equal(t, jan2, groups[1].Date)
	assert.Equal(t, []string{"t1"}, ids(groups[1].Tasks))

	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(s.Snapshot()), "storage order is untouched")
}

func TestPresentationOrderUsesPositionsWhenAllSet(t *testing.T) {
	s := Open(context.Background(), &memorySnapshot{}, sequentialIDs())
	ctx := context.Background()
	day := model.NewDate(2024, 1, 1)
	_, _ = s.Create(ctx, fields("early", day, 8, 9))
	_, _ = s.Create(ctx, fields("late", day, 15, 16))

	require.NoError(t, s.Reorder(ctx, "t2", "t1"))
	groups := s.PresentationOrder()
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"t2", "t1"}, ids(groups[0].Tasks))

	// a new task without a position sends the list back to time order
	_, _ = s.Create(ctx, fields("middle", day, 12, 13))
	groups = s.PresentationOrder()
	assert.Equal(t, []string{"t1", "t3", "t2"}, ids(groups[0].Tasks))
}

func TestClaimRemindersMarksOnce(t *testing.T) {
	s, snap := seeded(t, 3)
	ctx := context.Background()
	require.NoError(t, s.Toggle(ctx, "t3"))
	all := func(model.Task) bool { return true }

	claimed, err := s.ClaimReminders(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, ids(claimed))
	for _, task := range snap.tasks[:2] {
		assert.True(t, task.Notified)
	}

	saves := snap.saves
	again, err := s.ClaimReminders(ctx, all)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, saves, snap.saves)
}

func TestConcurrentClaimsNeverDuplicate(t *testing.T) {
	s, _ := seeded(t, 20)
	ctx := context.Background()

	var mu sync.Mutex
	seen := make(map[string]int)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, _ := s.ClaimReminders(ctx, func(model.Task) bool { return true })
			mu.Lock()
			for _, task := range claimed {
				seen[task.ID]++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 20)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	snap := &memorySnapshot{saveErr: errors.New("disk full")}
	s := Open(context.Background(), snap, sequentialIDs())

	_, err := s.Create(context.Background(), fields("kept", model.NewDate(2024, 1, 1), 1, 2))
	require.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, _ := seeded(t, 2)
	require.NoError(t, s.Reorder(context.Background(), "t1", "t2"))

	copied := s.Snapshot()
	*copied[0].Position = 99
	copied[0].Description = "mutated"

	again := s.Snapshot()
	assert.Equal(t, 0, *again[0].Position)
	assert.NotEqual(t, "mutated", again[0].Description)
}
