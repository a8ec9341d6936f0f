package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/clockwise/internal/clock"
	"github.com/sandeepkv93/clockwise/internal/logger"
	"github.com/sandeepkv93/clockwise/internal/model"
)

var ErrStopped = errors.New("scheduler: engine stopped")

const (
	DefaultInterval = 30 * time.Second
	DefaultLead     = 60 * time.Second
	DefaultGrace    = 5 * time.Minute
)

// Window bounds how far around a task's end a reminder may fire.
type Window struct {
	Lead  time.Duration
	Grace time.Duration
}

func DefaultWindow() Window {
	return Window{Lead: DefaultLead, Grace: DefaultGrace}
}

// Due reports -Grace < end-now <= Lead.
func (w Window) Due(end, now time.Time) bool {
	diff := end.Sub(now)
	return diff > -w.Grace && diff <= w.Lead
}

type ReminderEvent struct {
	TaskID      string
	Description string
	EndAt       time.Time
	FiredAt     time.Time
	// Lead is EndAt minus FiredAt; negative once the task has ended.
	Lead time.Duration
}

// Claimer marks matching tasks as notified and returns them. tasklist.Store
// implements it.
type Claimer interface {
	ClaimReminders(ctx context.Context, due func(model.Task) bool) ([]model.Task, error)
}

// Deliverer presents a reminder to the user.
type Deliverer interface {
	Deliver(ev ReminderEvent)
}

type Options struct {
	Interval  time.Duration
	// Window defaults to DefaultWindow when left zero.
	Window    Window
	Buffer    int
	Location  *time.Location
	Deliverer Deliverer
}

// Engine polls the task store and fires each reminder at most once.
type Engine struct {
	store    Claimer
	clock    clock.Clock
	interval time.Duration
	window   Window
	loc      *time.Location
	deliver  Deliverer

	mu      sync.Mutex
	out     chan ReminderEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(store Claimer, clk clock.Clock, opts Options) *Engine {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Window == (Window{}) {
		opts.Window = DefaultWindow()
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 1
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Engine{
		store:    store,
		clock:    clk,
		interval: opts.Interval,
		window:   opts.Window,
		loc:      opts.Location,
		deliver:  opts.Deliverer,
		out:      make(chan ReminderEvent, opts.Buffer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (e *Engine) C() <-chan ReminderEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.loop()
}

// Stop is idempotent. It waits for the poll loop to exit; nothing fires after
// it returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	started := e.started
	close(e.stopCh)
	e.mu.Unlock()
	if started {
		<-e.doneCh
	}
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// Tick runs one scan. Claimed tasks are delivered and published on C.
func (e *Engine) Tick(ctx context.Context) ([]ReminderEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return nil, ErrStopped
	}

	now := e.clock.Now()
	claimed, err := e.store.ClaimReminders(ctx, func(t model.Task) bool {
		return e.window.Due(t.EndAt(e.loc), now)
	})
	if err != nil {
		// claimed tasks stay notified in memory; losing the write only risks a
		// repeat after restart
		logger.Warn("scheduler: persist claimed reminders", zap.Error(err), zap.Int("claimed", len(claimed)))
	}

	events := make([]ReminderEvent, 0, len(claimed))
	for _, t := range claimed {
		end := t.EndAt(e.loc)
		ev := ReminderEvent{
			TaskID:      t.ID,
			Description: t.Description,
			EndAt:       end,
			FiredAt:     now,
			Lead:        end.Sub(now),
		}
		events = append(events, ev)
		if e.deliver != nil {
			e.deliver.Deliver(ev)
		}
		select {
		case e.out <- ev:
		default:
			atomic.AddUint64(&e.dropped, 1)
		}
	}
	if len(events) > 0 {
		logger.Info("scheduler: reminders fired", zap.Int("count", len(events)), zap.Time("at", now))
	}
	return events, nil
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-e.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.scan(ctx)
	for {
		select {
		case <-ticker.C:
			e.scan(ctx)
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) scan(ctx context.Context) {
	if _, err := e.Tick(ctx); err != nil && !errors.Is(err, ErrStopped) {
		logger.Warn("scheduler: tick", zap.Error(err))
	}
}
