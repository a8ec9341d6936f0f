package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/clockwise/internal/model"
)

var (
	ErrCorrupt        = errors.New("storage: corrupt snapshot")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// PreferenceDarkMode is the stored theme preference key.
const PreferenceDarkMode = "darkMode"

// Snapshotter persists the whole task collection at once.
type Snapshotter interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
}

type PreferenceStore interface {
	Preference(ctx context.Context, key string) (string, bool, error)
	SetPreference(ctx context.Context, key, value string) error
}

type Backend interface {
	Snapshotter
	PreferenceStore
	Close() error
}

// Record is the serialised form of a task.
type Record struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	StartTime   string `json:"startTime"`
	EndDate     string `json:"endDate"`
	EndTime     string `json:"endTime"`
	Completed   bool   `json:"completed"`
	Notified    bool   `json:"notified"`
	Position    *int   `json:"position,omitempty"`
}

func FromTask(t model.Task) Record {
	rec := Record{
		ID:          t.ID,
		Description: t.Description,
		StartDate:   t.StartDate.String(),
		StartTime:   t.StartTime.String(),
		EndDate:     t.EndDate.String(),
		EndTime:     t.EndTime.String(),
		Completed:   t.Completed,
		Notified:    t.Notified,
	}
	if t.Position != nil {
		p := *t.Position
		rec.Position = &p
	}
	return rec
}

// Task converts the record back. Dates written as full ISO timestamps by older
// snapshots are accepted.
func (r Record) Task() (model.Task, error) {
	if strings.TrimSpace(r.ID) == "" {
		return model.Task{}, errors.New("storage: record id is required")
	}
	startDate, err := model.ParseDate(r.StartDate)
	if err != nil {
		return model.Task{}, fmt.Errorf("record %s start date: %w", r.ID, err)
	}
	endDate, err := model.ParseDate(r.EndDate)
	if err != nil {
		return model.Task{}, fmt.Errorf("record %s end date: %w", r.ID, err)
	}
	startTime, err := model.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return model.Task{}, fmt.Errorf("record %s start time: %w", r.ID, err)
	}
	endTime, err := model.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return model.Task{}, fmt.Errorf("record %s end time: %w", r.ID, err)
	}
	out := model.Task{
		ID:          r.ID,
		Description: r.Description,
		StartDate:   startDate,
		StartTime:   startTime,
		EndDate:     endDate,
		EndTime:     endTime,
		Completed:   r.Completed,
		Notified:    r.Notified,
	}
	if r.Position != nil {
		p := *r.Position
		out.Position = &p
	}
	return out, nil
}

func EncodeSnapshot(tasks []model.Task) ([]byte, error) {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, FromTask(t))
	}
	return json.Marshal(records)
}

// DecodeSnapshot parses a JSON snapshot. Any malformed content is ErrCorrupt.
func DecodeSnapshot(raw []byte) ([]model.Task, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return []model.Task{}, nil
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	out := make([]model.Task, 0, len(records))
	for _, rec := range records {
		t, err := rec.Task()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Open returns the backend named by kind ("sqlite" or "diskv") rooted at path.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "sqlite":
		repo, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		if err := MigrateUp(repo.db); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil
	case "diskv":
		return OpenDiskv(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
