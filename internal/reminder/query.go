package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/hray3182/nudge/internal/models"
)

const (
	LabelToday    = "Today's"
	LabelTomorrow = "Tomorrow's"
)

func (s *Service) List(ctx context.Context) []models.Reminder {
	return s.load(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (models.Reminder, error) {
	reminders := s.load(ctx)
	if i := indexOf(reminders, id); i >= 0 {
		return reminders[i], nil
	}
	return models.Reminder{}, ErrNotFound
}

// Resolve expands a unique id prefix to the full reminder id. An exact match
// always wins.
func (s *Service) Resolve(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", ErrNotFound
	}
	reminders := s.load(ctx)
	if i := indexOf(reminders, prefix); i >= 0 {
		return prefix, nil
	}
	var match string
	for _, r := range reminders {
		if !strings.HasPrefix(r.ID, prefix) {
			continue
		}
		if match != "" {
			return "", ErrAmbiguousID
		}
		match = r.ID
	}
	if match == "" {
		return "", ErrNotFound
	}
	return match, nil
}

// DueToday returns every reminder dated today, notified or not.
func (s *Service) DueToday(ctx context.Context) []models.Reminder {
	return onDate(s.load(ctx), s.today())
}

// Upcoming returns what is still ahead. From the evening hour on it lists all
// of tomorrow, otherwise today's all-day reminders and those not yet past.
// The label is "Today's" or "Tomorrow's".
func (s *Service) Upcoming(ctx context.Context) ([]models.Reminder, string) {
	reminders := s.load(ctx)
	now := s.clock()

	if now.Hour() >= s.eveningHour {
		tomorrow := models.FormatDate(models.CivilDate(now).AddDate(0, 0, 1))
		var out []models.Reminder
		for _, r := range onDate(reminders, tomorrow) {
			if r.AllDay() || validClock(r.Time) {
				out = append(out, r)
			}
		}
		return out, LabelTomorrow
	}

	var out []models.Reminder
	for _, r := range onDate(reminders, models.FormatDate(models.CivilDate(now))) {
		if r.AllDay() {
			out = append(out, r)
			continue
		}
		at, err := r.Instant(s.loc)
		if err != nil {
			continue
		}
		if !at.Before(now.Truncate(time.Minute)) {
			out = append(out, r)
		}
	}
	return out, LabelToday
}

func onDate(reminders []models.Reminder, date string) []models.Reminder {
	var out []models.Reminder
	for _, r := range reminders {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

func validClock(hhmm string) bool {
	_, err := time.Parse(models.TimeLayout, hhmm)
	return err == nil
}
