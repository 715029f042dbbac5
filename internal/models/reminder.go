package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// RecurrenceType is the rule used to materialize the next occurrence.
type RecurrenceType string

const (
	RecurrenceNone     RecurrenceType = "none"
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceWeekdays RecurrenceType = "weekdays"
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceBiweekly RecurrenceType = "biweekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
	RecurrenceYearly   RecurrenceType = "yearly"
)

func (t RecurrenceType) IsValid() bool {
	switch t {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekdays, RecurrenceWeekly,
		RecurrenceBiweekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// EndType decides when a recurring series stops producing successors.
type EndType string

const (
	EndNever            EndType = "never"
	EndAfterOccurrences EndType = "after_occurrences"
	EndOnDate           EndType = "on_date"
)

func (t EndType) IsValid() bool {
	switch t {
	case EndNever, EndAfterOccurrences, EndOnDate:
		return true
	}
	return false
}

// EndValue holds either an occurrence cap or an inclusive end date.
// It is persisted as a bare JSON number or string.
type EndValue struct {
	Count int
	Date  string
}

func CountEnd(n int) *EndValue     { return &EndValue{Count: n} }
func DateEnd(date string) *EndValue { return &EndValue{Date: date} }

func (v EndValue) MarshalJSON() ([]byte, error) {
	if v.Date != "" {
		return json.Marshal(v.Date)
	}
	return json.Marshal(v.Count)
}

func (v *EndValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err := strconv.Atoi(s); err == nil {
			*v = EndValue{Count: n}
			return nil
		}
		*v = EndValue{Date: s}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("recurrence end value: %w", err)
	}
	*v = EndValue{Count: n}
	return nil
}

func (v *EndValue) String() string {
	if v == nil {
		return ""
	}
	if v.Date != "" {
		return v.Date
	}
	return strconv.Itoa(v.Count)
}

// Reminder is one occurrence. A recurring series is a chain of reminders,
// each materialized when its predecessor fires.
type Reminder struct {
	ID                     string         `json:"id"`
	Title                  string         `json:"title"`
	Date                   string         `json:"date"`           // YYYY-MM-DD
	Time                   string         `json:"time"`           // HH:MM, empty means all day
	NotifiedIndividually   bool           `json:"notified_individually"`
	RecurrenceType         RecurrenceType `json:"recurrence_type,omitempty"`
	RecurrenceEndType      EndType        `json:"recurrence_end_type,omitempty"`
	RecurrenceEndValue     *EndValue      `json:"recurrence_end_value"`
	RecurrenceCurrentCount *int           `json:"recurrence_current_count"`
	Snoozed                bool           `json:"snoozed,omitempty"` // re-fire of an occurrence whose successor already exists
	CreatedAt              time.Time      `json:"created_at"`
}

// IsRecurring returns true if this reminder regenerates a successor when it fires
func (r *Reminder) IsRecurring() bool {
	return r.RecurrenceType != "" && r.RecurrenceType != RecurrenceNone
}

func (r *Reminder) AllDay() bool {
	return r.Time == ""
}

// Day returns the scheduled calendar date as midnight UTC.
func (r *Reminder) Day() (time.Time, error) {
	return ParseDate(r.Date)
}

// Instant combines date and time into a wall-clock instant in loc.
// All-day reminders are due at the start of their day.
func (r *Reminder) Instant(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if r.AllDay() {
		t, err := time.ParseInLocation(DateLayout, r.Date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("reminder %s: bad date %q: %w", r.ID, r.Date, err)
		}
		return t, nil
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, r.Date+" "+r.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("reminder %s: bad date/time %q %q: %w", r.ID, r.Date, r.Time, err)
	}
	return t, nil
}

// Count returns the number of occurrences already fired in the series.
func (r *Reminder) Count() int {
	if r.RecurrenceCurrentCount == nil {
		return 0
	}
	return *r.RecurrenceCurrentCount
}

func (r *Reminder) SetCount(n int) {
	r.RecurrenceCurrentCount = &n
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// CivilDate drops the clock and zone of t, keeping its wall-clock date.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeClock parses a loose "H:MM" value and returns the canonical "HH:MM" form.
func NormalizeClock(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Format(TimeLayout), nil
}

// SortReminders orders by (date, time) ascending. All-day rows sort first within a day.
func SortReminders(reminders []Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		if reminders[i].Date != reminders[j].Date {
			return reminders[i].Date < reminders[j].Date
		}
		return reminders[i].Time < reminders[j].Time
	})
}
