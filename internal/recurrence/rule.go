package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/hray3182/nudge/internal/models"
)

// RRuleBuilder creates an RRULE from components
type RRuleBuilder struct {
	Freq      rrule.Frequency
	Interval  int
	ByWeekday []rrule.Weekday
	Count     int
	Until     *time.Time
}

var workdays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}

// stepRule returns the unbounded rule for a recurrence kind, or nil if the kind
// has no RRULE equivalent.
func stepRule(kind models.RecurrenceType) *RRuleBuilder {
	switch kind {
	case models.RecurrenceDaily:
		return &RRuleBuilder{Freq: rrule.DAILY, Interval: 1}
	case models.RecurrenceWeekdays:
		return &RRuleBuilder{Freq: rrule.WEEKLY, Interval: 1, ByWeekday: workdays}
	case models.RecurrenceWeekly:
		return &RRuleBuilder{Freq: rrule.WEEKLY, Interval: 1}
	case models.RecurrenceBiweekly:
		return &RRuleBuilder{Freq: rrule.WEEKLY, Interval: 2}
	case models.RecurrenceMonthly:
		return &RRuleBuilder{Freq: rrule.MONTHLY, Interval: 1}
	case models.RecurrenceYearly:
		return &RRuleBuilder{Freq: rrule.YEARLY, Interval: 1}
	}
	return nil
}

// Rule describes the remainder of r's series, starting at r itself, as an RRULE.
// Returns nil for non-recurring reminders.
func Rule(r models.Reminder, loc *time.Location) *RRuleBuilder {
	if !r.IsRecurring() {
		return nil
	}
	b := stepRule(r.RecurrenceType)
	if b == nil {
		return nil
	}
	switch r.RecurrenceEndType {
	case models.EndAfterOccurrences:
		remaining := 1
		if limit, ok := Cap(r); ok && limit-r.Count() > 1 {
			remaining = limit - r.Count()
		}
		b.Count = remaining
	case models.EndOnDate:
		if end, err := EndDate(r); err == nil {
			if loc == nil {
				loc = time.Local
			}
			until := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc)
			b.Until = &until
		}
	}
	return b
}

func (b *RRuleBuilder) Build(dtstart time.Time) (*rrule.RRule, error) {
	opt := rrule.ROption{
		Freq:     b.Freq,
		Interval: b.Interval,
		Dtstart:  dtstart,
	}
	if len(b.ByWeekday) > 0 {
		opt.Byweekday = b.ByWeekday
	}
	if b.Count > 0 {
		opt.Count = b.Count
	}
	if b.Until != nil {
		opt.Until = *b.Until
	}
	return rrule.NewRRule(opt)
}

func (b *RRuleBuilder) String() string {
	var parts []string

	freqMap := map[rrule.Frequency]string{
		rrule.DAILY:   "DAILY",
		rrule.WEEKLY:  "WEEKLY",
		rrule.MONTHLY: "MONTHLY",
		rrule.YEARLY:  "YEARLY",
	}
	parts = append(parts, fmt.Sprintf("FREQ=%s", freqMap[b.Freq]))

	if b.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", b.Interval))
	}

	if len(b.ByWeekday) > 0 {
		days := make([]string, len(b.ByWeekday))
		dayMap := map[rrule.Weekday]string{
			rrule.MO: "MO",
			rrule.TU: "TU",
			rrule.WE: "WE",
			rrule.TH: "TH",
			rrule.FR: "FR",
			rrule.SA: "SA",
			rrule.SU: "SU",
		}
		for i, d := range b.ByWeekday {
			days[i] = dayMap[d]
		}
		parts = append(parts, fmt.Sprintf("BYDAY=%s", strings.Join(days, ",")))
	}

	if b.Count > 0 {
		parts = append(parts, fmt.Sprintf("COUNT=%d", b.Count))
	}

	if b.Until != nil {
		parts = append(parts, fmt.Sprintf("UNTIL=%s", b.Until.UTC().Format("20060102T150405Z")))
	}

	return strings.Join(parts, ";")
}

// Describe returns a short English description of r's recurrence, e.g.
// "every weekday, 2 of 5 done" or "monthly until 2025-06-30".
func Describe(r models.Reminder) string {
	if !r.IsRecurring() {
		return "one-time"
	}

	var sb strings.Builder
	switch r.RecurrenceType {
	case models.RecurrenceDaily:
		sb.WriteString("daily")
	case models.RecurrenceWeekdays:
		sb.WriteString("every weekday")
	case models.RecurrenceWeekly:
		sb.WriteString("weekly")
	case models.RecurrenceBiweekly:
		sb.WriteString("every 2 weeks")
	case models.RecurrenceMonthly:
		sb.WriteString("monthly")
	case models.RecurrenceYearly:
		sb.WriteString("yearly")
	default:
		sb.WriteString(string(r.RecurrenceType))
	}

	switch r.RecurrenceEndType {
	case models.EndAfterOccurrences:
		if limit, ok := Cap(r); ok {
			sb.WriteString(fmt.Sprintf(", %d of %d done", r.Count(), limit))
		}
	case models.EndOnDate:
		if r.RecurrenceEndValue != nil && r.RecurrenceEndValue.Date != "" {
			sb.WriteString(" until " + r.RecurrenceEndValue.Date)
		}
	}
	return sb.String()
}
