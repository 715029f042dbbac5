package repository

import (
	"strconv"
	"time"

	"github.com/hray3182/nudge/internal/models"
)

const reminderColumns = `id, title, date, time, notified_individually, recurrence_type,
	recurrence_end_type, recurrence_end_value, recurrence_current_count, snoozed`

// reminderRow is the column layout shared by the SQL backends.
type reminderRow struct {
	ID             string
	Title          string
	Date           string
	Time           string
	Notified       bool
	RecurrenceType string
	EndType        string
	EndValue       *string
	Count          *int64
	Snoozed        bool
}

func (row *reminderRow) dest() []any {
	return []any{&row.ID, &row.Title, &row.Date, &row.Time, &row.Notified, &row.RecurrenceType,
		&row.EndType, &row.EndValue, &row.Count, &row.Snoozed}
}

func (row *reminderRow) args() []any {
	return []any{row.ID, row.Title, row.Date, row.Time, row.Notified, row.RecurrenceType,
		row.EndType, row.EndValue, row.Count, row.Snoozed}
}

func toRow(r models.Reminder) reminderRow {
	row := reminderRow{
		ID:             r.ID,
		Title:          r.Title,
		Date:           r.Date,
		Time:           r.Time,
		Notified:       r.NotifiedIndividually,
		RecurrenceType: string(r.RecurrenceType),
		EndType:        string(r.RecurrenceEndType),
		Snoozed:        r.Snoozed,
	}
	if r.RecurrenceEndValue != nil {
		v := r.RecurrenceEndValue.String()
		row.EndValue = &v
	}
	if r.RecurrenceCurrentCount != nil {
		n := int64(*r.RecurrenceCurrentCount)
		row.Count = &n
	}
	return row
}

func (row reminderRow) model(createdAt time.Time) models.Reminder {
	r := models.Reminder{
		ID:                   row.ID,
		Title:                row.Title,
		Date:                 row.Date,
		Time:                 row.Time,
		NotifiedIndividually: row.Notified,
		RecurrenceType:       models.RecurrenceType(row.RecurrenceType),
		RecurrenceEndType:    models.EndType(row.EndType),
		Snoozed:              row.Snoozed,
		CreatedAt:            createdAt,
	}
	if row.EndValue != nil {
		if n, err := strconv.Atoi(*row.EndValue); err == nil {
			r.RecurrenceEndValue = models.CountEnd(n)
		} else {
			r.RecurrenceEndValue = models.DateEnd(*row.EndValue)
		}
	}
	if row.Count != nil {
		r.SetCount(int(*row.Count))
	}
	return r
}
