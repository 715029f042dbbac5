package reminder

import (
	"fmt"
	"strings"

	"github.com/hray3182/nudge/internal/models"
)

// Draft is user input for creating or editing a reminder.
type Draft struct {
	Title          string
	Date           string // YYYY-MM-DD
	Time           string // H:MM or HH:MM, empty for all day
	RecurrenceType models.RecurrenceType
	EndType        models.EndType
	EndValue       *models.EndValue
}

// Normalize validates d and returns it in canonical form. Errors wrap
// ErrInvalidDraft.
func (d Draft) Normalize() (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return d, fmt.Errorf("%w: title is required", ErrInvalidDraft)
	}
	if _, err := models.ParseDate(d.Date); err != nil {
		return d, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidDraft, d.Date)
	}
	clock, err := models.NormalizeClock(strings.TrimSpace(d.Time))
	if err != nil {
		return d, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidDraft, d.Time)
	}
	d.Time = clock

	if d.RecurrenceType == "" {
		d.RecurrenceType = models.RecurrenceNone
	}
	if !d.RecurrenceType.IsValid() {
		return d, fmt.Errorf("%w: unknown recurrence %q", ErrInvalidDraft, d.RecurrenceType)
	}
	if d.RecurrenceType == models.RecurrenceNone {
		d.EndType = ""
		d.EndValue = nil
		return d, nil
	}

	if d.EndType == "" {
		d.EndType = models.EndNever
	}
	switch d.EndType {
	case models.EndNever:
		d.EndValue = nil
	case models.EndAfterOccurrences:
		if d.EndValue == nil || d.EndValue.Date != "" || d.EndValue.Count <= 0 {
			return d, fmt.Errorf("%w: after_occurrences needs a positive occurrence count", ErrInvalidDraft)
		}
	case models.EndOnDate:
		if d.EndValue == nil || d.EndValue.Date == "" {
			return d, fmt.Errorf("%w: on_date needs an end date", ErrInvalidDraft)
		}
		end, err := models.ParseDate(d.EndValue.Date)
		if err != nil {
			return d, fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidDraft, d.EndValue.Date)
		}
		if start, _ := models.ParseDate(d.Date); end.Before(start) {
			return d, fmt.Errorf("%w: end date %s is before %s", ErrInvalidDraft, d.EndValue.Date, d.Date)
		}
	default:
		return d, fmt.Errorf("%w: unknown end type %q", ErrInvalidDraft, d.EndType)
	}
	if d.EndValue != nil {
		v := *d.EndValue
		d.EndValue = &v
	}
	return d, nil
}

// DraftOf returns the editable fields of r.
func DraftOf(r models.Reminder) Draft {
	d := Draft{
		Title:          r.Title,
		Date:           r.Date,
		Time:           r.Time,
		RecurrenceType: r.RecurrenceType,
		EndType:        r.RecurrenceEndType,
	}
	if r.RecurrenceEndValue != nil {
		v := *r.RecurrenceEndValue
		d.EndValue = &v
	}
	return d
}

// apply copies the draft's recurrence settings onto r, keeping the fired
// count when the series stays after_occurrences.
func (d Draft) apply(r *models.Reminder) {
	r.Title = d.Title
	r.Date = d.Date
	r.Time = d.Time
	r.RecurrenceType = d.RecurrenceType
	r.RecurrenceEndType = d.EndType
	r.RecurrenceEndValue = d.EndValue

	if d.EndType == models.EndAfterOccurrences {
		if r.RecurrenceCurrentCount == nil {
			r.SetCount(0)
		}
	} else {
		r.RecurrenceCurrentCount = nil
	}
	if !r.IsRecurring() {
		r.Snoozed = false
	}
}
