// Package export writes reminders as an iCalendar feed.
package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/recurrence"
)

const (
	productID     = "-//nudge//reminders//EN"
	eventDuration = 15 * time.Minute
)

// WriteICS writes one VEVENT per pending reminder. Recurring reminders carry
// an RRULE covering the rest of their series. Rows whose date or time cannot
// be parsed are left out. It returns the number of events written.
func WriteICS(w io.Writer, reminders []models.Reminder, now time.Time, loc *time.Location) (int, error) {
	if loc == nil {
		loc = time.Local
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	written := 0
	for _, r := range reminders {
		if r.NotifiedIndividually {
			continue
		}
		start, err := r.Instant(loc)
		if err != nil {
			continue
		}

		event := cal.AddEvent(r.ID + "@nudge")
		event.SetDtStampTime(now)
		if !r.CreatedAt.IsZero() {
			event.SetCreatedTime(r.CreatedAt)
		}
		event.SetSummary(r.Title)
		event.SetDescription(recurrence.Describe(r))

		if r.AllDay() {
			event.SetAllDayStartAt(start)
			event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		} else {
			event.SetStartAt(start)
			event.SetEndAt(start.Add(eventDuration))
		}

		// A snoozed re-fire already has its successor, which carries the series.
		if rule := recurrence.Rule(r, loc); rule != nil && !r.Snoozed {
			event.AddRrule(rule.String())
		}
		written++
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return written, fmt.Errorf("write calendar: %w", err)
	}
	return written, nil
}
