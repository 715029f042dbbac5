package reminder

import (
	"context"
	"time"

	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/notify"
	"github.com/hray3182/nudge/internal/recurrence"
)

// Result summarizes one due-check cycle.
type Result struct {
	Notified int
	Spawned  int
	Ended    int
	Skipped  int
	// SaveErr is set when the batched save failed. The notifications were
	// already delivered and will be delivered again on the next cycle.
	SaveErr error
}

// DueCheck notifies every reminder whose moment has come, marks it notified
// and materializes the next occurrence of recurring series.
//
// Notification happens before the batched save, so delivery is at least once.
// A reminder whose notification fails stays pending and is retried on the next
// cycle. Running DueCheck twice at the same instant is a no-op the second time.
func (s *Service) DueCheck(ctx context.Context) Result {
	started := time.Now()
	defer func() { s.metrics.ObserveDueCheck(time.Since(started)) }()

	var res Result
	reminders := s.load(ctx)
	now := s.clock()
	today := models.CivilDate(now)

	var successors []models.Reminder
	changed := false
	for i := range reminders {
		r := &reminders[i]
		if r.NotifiedIndividually {
			continue
		}
		at, err := r.Instant(s.loc)
		if err != nil {
			res.Skipped++
			s.metrics.IncSkipped()
			s.logger.Warn("skipping reminder with unparsable date or time", "id", r.ID, "error", err)
			continue
		}
		if at.After(now) {
			continue
		}

		n := notify.Notification{ID: r.ID, Title: r.Title, Time: r.Time}
		if err := s.sink.Notify(ctx, n); err != nil {
			s.logger.Warn("notification failed, will retry", "id", r.ID, "error", err)
			continue
		}
		r.NotifiedIndividually = true
		changed = true
		res.Notified++
		s.metrics.IncNotified()
		s.logger.Info("reminder notified", "id", r.ID, "title", r.Title, "date", r.Date, "time", r.Time)

		if !r.IsRecurring() {
			continue
		}
		if r.Snoozed {
			// The successor was created when this occurrence first fired.
			r.Snoozed = false
			continue
		}
		if next, ok := s.advance(r, today, now); ok {
			successors = append(successors, next)
			res.Spawned++
		} else {
			res.Ended++
		}
	}

	if !changed {
		return res
	}
	reminders = append(reminders, successors...)
	res.SaveErr = s.save(ctx, reminders)
	return res
}

// advance records the firing of r and builds its successor. It returns false
// when the series has ended.
func (s *Service) advance(r *models.Reminder, today, now time.Time) (models.Reminder, bool) {
	recurrence.RecordFiring(r)
	next, ok := recurrence.Next(*r, today)
	if !ok || recurrence.SeriesEnded(*r, next, ok) {
		s.metrics.IncSeriesEnded()
		s.logger.Info("recurring series ended", "id", r.ID, "title", r.Title,
			"end_type", r.RecurrenceEndType, "count", r.Count())
		return models.Reminder{}, false
	}

	successor := models.Reminder{
		ID:                s.newID(),
		Title:             r.Title,
		Date:              models.FormatDate(next),
		Time:              r.Time,
		RecurrenceType:    r.RecurrenceType,
		RecurrenceEndType: r.RecurrenceEndType,
		CreatedAt:         now,
	}
	if r.RecurrenceEndValue != nil {
		v := *r.RecurrenceEndValue
		successor.RecurrenceEndValue = &v
	}
	if r.RecurrenceEndType == models.EndAfterOccurrences {
		successor.SetCount(r.Count())
	}

	s.metrics.IncSpawned()
	s.logger.Info("scheduled next occurrence", "id", successor.ID, "parent", r.ID, "date", successor.Date)
	return successor, true
}
