package recurrence

import (
	"time"

	"github.com/hray3182/nudge/internal/models"
)

// Cap returns the occurrence limit of an after_occurrences series.
func Cap(r models.Reminder) (int, bool) {
	if r.RecurrenceEndValue == nil || r.RecurrenceEndValue.Date != "" || r.RecurrenceEndValue.Count <= 0 {
		return 0, false
	}
	return r.RecurrenceEndValue.Count, true
}

// EndDate returns the inclusive last date of an on_date series.
func EndDate(r models.Reminder) (time.Time, error) {
	var s string
	if r.RecurrenceEndValue != nil {
		s = r.RecurrenceEndValue.Date
	}
	return models.ParseDate(s)
}

// RecordFiring advances the progress counter of the instance that just fired.
// The counter never moves past the cap.
func RecordFiring(r *models.Reminder) {
	if r.RecurrenceEndType != models.EndAfterOccurrences {
		return
	}
	n := r.Count()
	if limit, ok := Cap(*r); ok && n < limit {
		n++
	}
	r.SetCount(n)
}

// SeriesEnded reports whether r's series stops instead of producing an
// occurrence on next. r must already carry the post-firing count.
//
// after_occurrences ends once the count has reached the cap, so a cap of N
// yields N occurrences. on_date keeps going while next is on or before the end
// date. Unusable end values end the series rather than letting it run forever.
func SeriesEnded(r models.Reminder, next time.Time, ok bool) bool {
	switch r.RecurrenceEndType {
	case models.EndAfterOccurrences:
		limit, valid := Cap(r)
		if !valid {
			return true
		}
		return r.Count() >= limit
	case models.EndOnDate:
		if !ok {
			return true
		}
		end, err := EndDate(r)
		if err != nil {
			return true
		}
		return models.CivilDate(next).After(end)
	default:
		return false
	}
}
