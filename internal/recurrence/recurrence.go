// Package recurrence computes the next occurrence of a recurring reminder and
// decides when a series ends. Everything here is pure: callers pass "today".
package recurrence

import (
	"time"

	"github.com/hray3182/nudge/internal/models"
)

// Next returns the date of the occurrence following r.
//
// The calculation starts from r's date, or from today when r's date is already
// in the past, so a process that was offline does not backfill missed occurrences.
// The second result is false when r does not recur or its date cannot be parsed.
func Next(r models.Reminder, today time.Time) (time.Time, bool) {
	if !r.IsRecurring() {
		return time.Time{}, false
	}
	day, err := r.Day()
	if err != nil {
		return time.Time{}, false
	}
	base := day
	if t := models.CivilDate(today); base.Before(t) {
		base = t
	}
	return Step(r.RecurrenceType, base)
}

// Step advances a calendar date (midnight UTC) by one period of kind.
func Step(kind models.RecurrenceType, base time.Time) (time.Time, bool) {
	base = models.CivilDate(base)
	switch kind {
	case models.RecurrenceMonthly:
		return addMonthsClamped(base, 1), true
	case models.RecurrenceYearly:
		return addMonthsClamped(base, 12), true
	}

	b := stepRule(kind)
	if b == nil {
		return time.Time{}, false
	}
	rule, err := b.Build(base)
	if err != nil {
		return time.Time{}, false
	}
	next := rule.After(base, false)
	if next.IsZero() {
		return time.Time{}, false
	}
	return models.CivilDate(next), true
}

// addMonthsClamped moves d forward by months, clamping the day to the last day
// of the target month (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(d time.Time, months int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
