package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sandeepkv93/clockwise/internal/clock"
	"github.com/sandeepkv93/clockwise/internal/config"
	"github.com/sandeepkv93/clockwise/internal/logger"
	"github.com/sandeepkv93/clockwise/internal/storage"
	"github.com/sandeepkv93/clockwise/internal/tasklist"
)

// runtime is the opened configuration, backend and task store shared by
// every subcommand.
type runtime struct {
	cfg     config.Config
	backend storage.Backend
	store   *tasklist.Store
	clock   clock.Clock
}

func openRuntime(ctx context.Context, v *viper.Viper) (*runtime, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Development, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dir := cfg.Storage.Path
	if cfg.Storage.Backend == "sqlite" {
		dir = filepath.Dir(dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	logger.Info("cli: storage opened", zap.String("backend", cfg.Storage.Backend), zap.String("path", cfg.Storage.Path))

	return &runtime{
		cfg:     cfg,
		backend: backend,
		store:   tasklist.Open(ctx, backend),
		clock:   clock.RealClock{},
	}, nil
}

func (r *runtime) Close() {
	if err := r.backend.Close(); err != nil {
		logger.Error("cli: close storage", err)
	}
	logger.Sync()
}
