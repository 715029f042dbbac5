package reminder

import (
	"context"

	"github.com/hray3182/nudge/internal/models"
)

// DailySummary returns today's reminders the first time it is called on a
// given day (or always, with force) and records that the summary was shown.
// shown is false when the summary was already shown today.
func (s *Service) DailySummary(ctx context.Context, force bool) (items []models.Reminder, shown bool, err error) {
	today := s.today()

	var state models.AppState
	if s.state != nil {
		st, err := s.state.Load(ctx)
		if err != nil {
			s.logger.Warn("failed to load app state, treating as empty", "error", err)
		}
		state = st
	}
	if !force && !state.ShouldShowDailySummary(today) {
		return nil, false, nil
	}

	items = s.DueToday(ctx)
	state.LastDailyPopupDate = today
	if s.state != nil {
		if err := s.state.Save(ctx, state); err != nil {
			s.logger.Error("failed to save app state", "error", err)
			return items, true, err
		}
	}
	return items, true, nil
}
