package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sandeepkv93/clockwise/internal/logger"
	"github.com/sandeepkv93/clockwise/internal/notify"
	"github.com/sandeepkv93/clockwise/internal/scheduler"
	"github.com/sandeepkv93/clockwise/internal/update"
)

func runUI(ctx context.Context, v *viper.Viper) error {
	rt, err := openRuntime(ctx, v)
	if err != nil {
		return err
	}
	defer rt.Close()

	notifier := newNotifier(rt)
	engine := scheduler.NewEngine(rt.store, rt.clock, scheduler.Options{
		Interval:  rt.cfg.Scheduler.Interval,
		Window:    scheduler.Window{Lead: rt.cfg.Scheduler.Lead, Grace: rt.cfg.Scheduler.Grace},
		Buffer:    rt.cfg.Scheduler.Buffer,
		Deliverer: notifier,
	})
	engine.Start()
	defer engine.Stop()

	model := update.NewModel(update.Deps{
		Store:       rt.store,
		Prefs:       rt.backend,
		Engine:      engine,
		Notifier:    notifier,
		Clock:       rt.clock,
		DarkDefault: rt.cfg.UI.DarkModeDefault,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}
	logger.Info("cli: ui closed", zap.Uint64("dropped_reminders", engine.Dropped()))
	return nil
}

// newNotifier asks for desktop permission up front, like a browser prompt on
// first load. Disabled notifications are treated as denied.
func newNotifier(rt *runtime) *notify.Notifier {
	if !rt.cfg.Notifications.Enabled {
		return notify.NewNotifier(notify.NoopSender{}, nil, notify.PermissionDenied)
	}
	n := notify.NewNotifier(notify.ExecSender{}, notify.LookPathRequester{}, notify.ParsePermission(rt.cfg.Notifications.Permission))
	n.RequestPermission()
	return n
}
