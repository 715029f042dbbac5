package reminder

import (
	"context"

	"github.com/hray3182/nudge/internal/models"
)

// Add validates d and stores it as a new pending reminder.
func (s *Service) Add(ctx context.Context, d Draft) (models.Reminder, error) {
	d, err := d.Normalize()
	if err != nil {
		return models.Reminder{}, err
	}

	r := models.Reminder{ID: s.newID(), CreatedAt: s.clock()}
	d.apply(&r)

	reminders := append(s.load(ctx), r)
	if err := s.save(ctx, reminders); err != nil {
		return models.Reminder{}, err
	}
	s.logger.Info("reminder added", "id", r.ID, "title", r.Title, "date", r.Date, "time", r.Time,
		"recurrence", r.RecurrenceType)
	return r, nil
}

// Update replaces the editable fields of reminder id. Moving a reminder to a
// new date or time makes it pending again. A fired occurrence of a series
// already has its successor, so its re-fire skips recurrence bookkeeping.
func (s *Service) Update(ctx context.Context, id string, d Draft) (models.Reminder, error) {
	d, err := d.Normalize()
	if err != nil {
		return models.Reminder{}, err
	}

	reminders := s.load(ctx)
	i := indexOf(reminders, id)
	if i < 0 {
		return models.Reminder{}, ErrNotFound
	}

	r := &reminders[i]
	if r.Date != d.Date || r.Time != d.Time {
		if r.NotifiedIndividually && r.IsRecurring() {
			r.Snoozed = true
		}
		r.NotifiedIndividually = false
	}
	d.apply(r)
	updated := *r

	if err := s.save(ctx, reminders); err != nil {
		return models.Reminder{}, err
	}
	s.logger.Info("reminder updated", "id", id, "date", updated.Date, "time", updated.Time)
	return updated, nil
}

// Delete removes reminder id and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	reminders := s.load(ctx)
	i := indexOf(reminders, id)
	if i < 0 {
		return false, nil
	}
	reminders = append(reminders[:i], reminders[i+1:]...)
	if err := s.save(ctx, reminders); err != nil {
		return false, err
	}
	s.logger.Info("reminder deleted", "id", id)
	return true, nil
}
