package storage

import (
	"context"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"github.com/sandeepkv93/clockwise/internal/model"
)

const snapshotKey = "todos"

// DiskvStore keeps the snapshot and preferences as flat files, one per key.
type DiskvStore struct {
	d *diskv.Diskv
}

func OpenDiskv(basePath string) *DiskvStore {
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		TempDir:      filepath.Join(basePath, ".tmp"),
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (s *DiskvStore) Load(_ context.Context) ([]model.Task, error) {
	if !s.d.Has(snapshotKey) {
		return []model.Task{}, nil
	}
	raw, err := s.d.Read(snapshotKey)
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(raw)
}

func (s *DiskvStore) Save(_ context.Context, tasks []model.Task) error {
	raw, err := EncodeSnapshot(tasks)
	if err != nil {
		return err
	}
	return s.d.Write(snapshotKey, raw)
}

func (s *DiskvStore) Preference(_ context.Context, key string) (string, bool, error) {
	if !s.d.Has(key) {
		return "", false, nil
	}
	raw, err := s.d.Read(key)
	if err != nil {
		return "", false, err
	}
	return string(raw), true, nil
}

func (s *DiskvStore) SetPreference(_ context.Context, key, value string) error {
	return s.d.Write(key, []byte(value))
}

func (s *DiskvStore) Close() error { return nil }
