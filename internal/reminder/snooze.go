package reminder

import (
	"context"
	"time"

	"github.com/hray3182/nudge/internal/models"
)

// MaxSnoozeMinutes bounds a snooze to one year.
const MaxSnoozeMinutes = 366 * 24 * 60

// Snooze reschedules reminder id to now + minutes as a plain pending item.
// It returns false when no reminder has that id.
func (s *Service) Snooze(ctx context.Context, id string, minutes int) (bool, error) {
	if minutes <= 0 || minutes > MaxSnoozeMinutes {
		return false, ErrInvalidSnooze
	}

	reminders := s.load(ctx)
	i := indexOf(reminders, id)
	if i < 0 {
		return false, nil
	}

	at := s.clock().Add(time.Duration(minutes) * time.Minute)
	r := &reminders[i]
	if r.NotifiedIndividually && r.IsRecurring() {
		r.Snoozed = true
	}
	r.NotifiedIndividually = false
	r.Date = at.Format(models.DateLayout)
	r.Time = at.Format(models.TimeLayout)

	if err := s.save(ctx, reminders); err != nil {
		return false, err
	}
	s.metrics.IncSnoozes()
	s.logger.Info("reminder snoozed", "id", id, "minutes", minutes, "date", r.Date, "time", r.Time)
	return true, nil
}
