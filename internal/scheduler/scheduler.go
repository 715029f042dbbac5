// Package scheduler drives the reminder engine: a periodic due-check, a cron
// scheduled sweep and the once-per-day summary, all on a single goroutine.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hray3182/nudge/internal/logging"
	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/reminder"
)

// Engine is the part of the reminder service the scheduler drives.
type Engine interface {
	DueCheck(ctx context.Context) reminder.Result
	Sweep(ctx context.Context) (int, error)
	DailySummary(ctx context.Context, force bool) ([]models.Reminder, bool, error)
}

type Options struct {
	CheckInterval time.Duration
	// SweepSpec is a standard five-field cron expression.
	SweepSpec string
	Location  *time.Location
	// OnDailySummary, when set, receives today's reminders once per day.
	OnDailySummary func(ctx context.Context, items []models.Reminder)
	Logger         *slog.Logger
}

type Scheduler struct {
	engine        Engine
	checkInterval time.Duration
	sweepSchedule cron.Schedule
	location      *time.Location
	onSummary     func(ctx context.Context, items []models.Reminder)
	notifyCh      chan struct{}
	sweepCh       chan struct{}
	done          chan struct{}
	logger        *slog.Logger
}

func New(engine Engine, opts Options) (*Scheduler, error) {
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = time.Minute
	}
	if opts.SweepSpec == "" {
		opts.SweepSpec = "0 0 * * *"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	schedule, err := cron.ParseStandard(opts.SweepSpec)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", opts.SweepSpec, err)
	}
	return &Scheduler{
		engine:        engine,
		checkInterval: opts.CheckInterval,
		sweepSchedule: schedule,
		location:      opts.Location,
		onSummary:     opts.OnDailySummary,
		notifyCh:      make(chan struct{}, 1),
		sweepCh:       make(chan struct{}, 1),
		done:          make(chan struct{}),
		logger:        logging.Component(opts.Logger, "scheduler"),
	}, nil
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// TriggerSweep requests a sweep on the scheduler goroutine.
func (s *Scheduler) TriggerSweep() {
	select {
	case s.sweepCh <- struct{}{}:
	default:
	}
}

// Done is closed once Start has returned.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the scheduler has stopped or timeout elapses, and reports
// whether it stopped in time.
func (s *Scheduler) Wait(timeout time.Duration) bool {
	select {
	case <-s.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Start runs the scheduler until ctx is cancelled. It checks once immediately.
func (s *Scheduler) Start(ctx context.Context) {
	defer close(s.done)
	s.logger.Info("scheduler started", "interval", s.checkInterval)

	// The cron job only signals the loop, so every store write made by the
	// scheduler happens on this goroutine.
	c := cron.New(cron.WithLocation(s.location))
	c.Schedule(s.sweepSchedule, cron.FuncJob(s.TriggerSweep))
	c.Start()
	defer c.Stop()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			s.logger.Debug("scheduler triggered by notification")
			s.check(ctx)
		case <-s.sweepCh:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	res := s.engine.DueCheck(ctx)
	if res.Notified > 0 || res.Skipped > 0 {
		s.logger.Info("due check", "notified", res.Notified, "spawned", res.Spawned,
			"ended", res.Ended, "skipped", res.Skipped)
	}
	if res.SaveErr != nil {
		s.logger.Warn("due check could not persist its changes", "error", res.SaveErr)
	}
	s.checkDailySummary(ctx)
}

func (s *Scheduler) sweep(ctx context.Context) {
	removed, err := s.engine.Sweep(ctx)
	if err != nil {
		s.logger.Warn("sweep failed", "error", err)
		return
	}
	s.logger.Info("sweep finished", "removed", removed)
}

func (s *Scheduler) checkDailySummary(ctx context.Context) {
	if s.onSummary == nil {
		return
	}
	items, shown, err := s.engine.DailySummary(ctx, false)
	if err != nil {
		s.logger.Warn("daily summary state not saved", "error", err)
	}
	if shown {
		s.onSummary(ctx, items)
	}
}
