package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "CLOCKWISE"
	configName = ".clockwise"
	dataDir    = "~/.clockwise"
)

var ErrInvalid = errors.New("config: invalid value")

type Storage struct {
	Backend string
	Path    string
}

type Notifications struct {
	Enabled    bool
	Permission string
}

type Scheduler struct {
	Interval time.Duration
	Lead     time.Duration
	Grace    time.Duration
	Buffer   int
}

type Log struct {
	Development bool
	File        string
}

type UI struct {
	DarkModeDefault bool
}

type Config struct {
	Storage       Storage
	Notifications Notifications
	Scheduler     Scheduler
	Log           Log
	UI            UI
}

// New returns a viper instance with defaults, environment binding and the
// config search path set. Config files are named .clockwise.yaml and are
// searched in $CLOCKWISE_CONFIG_PATH, the working directory and home.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "")
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.permission", "unasked")
	v.SetDefault("scheduler.interval", "30s")
	v.SetDefault("scheduler.lead", "60s")
	v.SetDefault("scheduler.grace", "5m")
	v.SetDefault("scheduler.buffer", 64)
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", filepath.Join(dataDir, "clockwise.log"))
	v.SetDefault("ui.dark_mode_default", true)

	v.SetConfigName(configName) // .yaml is implicit
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(envPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME")
	return v
}

// Load reads the config file if one exists and resolves every key. A missing
// file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Storage: Storage{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString("storage.backend"))),
			Path:    v.GetString("storage.path"),
		},
		Notifications: Notifications{
			Enabled:    v.GetBool("notifications.enabled"),
			Permission: v.GetString("notifications.permission"),
		},
		Scheduler: Scheduler{
			Interval: v.GetDuration("scheduler.interval"),
			Lead:     v.GetDuration("scheduler.lead"),
			Grace:    v.GetDuration("scheduler.grace"),
			Buffer:   v.GetInt("scheduler.buffer"),
		},
		Log: Log{
			Development: v.GetBool("log.development"),
			File:        v.GetString("log.file"),
		},
		UI: UI{DarkModeDefault: v.GetBool("ui.dark_mode_default")},
	}

	switch cfg.Storage.Backend {
	case "sqlite", "diskv":
	default:
		return Config{}, fmt.Errorf("%w: storage.backend %q", ErrInvalid, cfg.Storage.Backend)
	}
	if cfg.Scheduler.Interval <= 0 || cfg.Scheduler.Lead < 0 || cfg.Scheduler.Grace < 0 {
		return Config{}, fmt.Errorf("%w: scheduler durations", ErrInvalid)
	}
	if cfg.Scheduler.Lead == 0 && cfg.Scheduler.Grace == 0 {
		// An empty window never fires and the engine reads it as unset.
		return Config{}, fmt.Errorf("%w: scheduler.lead and scheduler.grace are both zero", ErrInvalid)
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath(cfg.Storage.Backend)
	}

	var err error
	if cfg.Storage.Path, err = homedir.Expand(cfg.Storage.Path); err != nil {
		return Config{}, fmt.Errorf("expand storage.path: %w", err)
	}
	if cfg.Log.File, err = homedir.Expand(cfg.Log.File); err != nil {
		return Config{}, fmt.Errorf("expand log.file: %w", err)
	}
	return cfg, nil
}

func defaultStoragePath(backend string) string {
	if backend == "diskv" {
		return filepath.Join(dataDir, "store")
	}
	return filepath.Join(dataDir, "clockwise.db")
}
