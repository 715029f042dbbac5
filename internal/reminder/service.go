// Package reminder is the reminder engine: the due-check cycle, snooze, the
// stale-reminder sweep and the queries and edits the user surfaces call.
//
// Every operation loads a fresh snapshot from the store and saves a fresh
// snapshot back. No reminder data is shared across goroutines, and concurrent
// writers follow the store's last-writer-wins semantics.
package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hray3182/nudge/internal/logging"
	"github.com/hray3182/nudge/internal/metrics"
	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/notify"
	"github.com/hray3182/nudge/internal/repository"
)

var (
	ErrNotFound      = errors.New("reminder not found")
	ErrInvalidDraft  = errors.New("invalid reminder")
	ErrInvalidSnooze = errors.New("snooze minutes must be between 1 and one year")
	ErrAmbiguousID   = errors.New("id prefix matches more than one reminder")
)

// StateStore persists the daily-summary guard.
type StateStore interface {
	Load(ctx context.Context) (models.AppState, error)
	Save(ctx context.Context, state models.AppState) error
}

type Options struct {
	Store   repository.ReminderStore
	State   StateStore
	Sink    notify.Sink
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// Now defaults to time.Now. Location defaults to time.Local.
	Now      func() time.Time
	Location *time.Location

	// EveningHour is the hour from which Upcoming looks at tomorrow instead of today.
	EveningHour int

	// NewID defaults to random UUIDs.
	NewID func() string
}

type Service struct {
	store       repository.ReminderStore
	state       StateStore
	sink        notify.Sink
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
	loc         *time.Location
	eveningHour int
	newID       func() string
}

func NewService(opts Options) *Service {
	s := &Service{
		store:       opts.Store,
		state:       opts.State,
		sink:        opts.Sink,
		metrics:     opts.Metrics,
		logger:      logging.Component(opts.Logger, "reminder"),
		now:         opts.Now,
		loc:         opts.Location,
		eveningHour: opts.EveningHour,
		newID:       opts.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.eveningHour <= 0 {
		s.eveningHour = 18
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	if s.sink == nil {
		s.sink = notify.SinkFunc(func(context.Context, notify.Notification) error { return nil })
	}
	return s
}

// SetSink replaces the notification sink. It must be called before the
// scheduler starts.
func (s *Service) SetSink(sink notify.Sink) {
	if sink != nil {
		s.sink = sink
	}
}

// clock returns the current wall-clock time in the service location.
func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) today() string {
	return models.FormatDate(models.CivilDate(s.clock()))
}

// load never fails: an unreadable store is logged and treated as empty.
func (s *Service) load(ctx context.Context) []models.Reminder {
	reminders, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.IncStoreError("load")
		s.logger.Error("failed to load reminders, continuing with an empty list", "error", err)
		return []models.Reminder{}
	}
	return reminders
}

func (s *Service) save(ctx context.Context, reminders []models.Reminder) error {
	if err := s.store.Save(ctx, reminders); err != nil {
		s.metrics.IncStoreError("save")
		s.logger.Error("failed to save reminders", "error", err)
		return err
	}
	return nil
}

func indexOf(reminders []models.Reminder, id string) int {
	for i := range reminders {
		if reminders[i].ID == id {
			return i
		}
	}
	return -1
}
