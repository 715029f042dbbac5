package reminder

import (
	"context"

	"github.com/hray3182/nudge/internal/models"
)

// Sweep removes reminders dated before today and returns how many went.
// Recurring reminders that have not fired yet are kept so their successor is
// still produced, and rows with an unparsable date are left alone.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	reminders := s.load(ctx)
	today := models.CivilDate(s.clock())

	kept := make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		day, err := r.Day()
		if err != nil || !day.Before(today) {
			kept = append(kept, r)
			continue
		}
		if r.IsRecurring() && !r.NotifiedIndividually {
			kept = append(kept, r)
			continue
		}
	}

	removed := len(reminders) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(ctx, kept); err != nil {
		return 0, err
	}
	s.metrics.AddSweepRemoved(removed)
	s.logger.Info("swept stale reminders", "removed", removed, "remaining", len(kept))
	return removed, nil
}
