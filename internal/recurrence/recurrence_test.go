package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/nudge/internal/models"
)

func day(s string) time.Time {
	t, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func recurring(date string, kind models.RecurrenceType) models.Reminder {
	return models.Reminder{ID: "r", Title: "t", Date: date, Time: "09:00", RecurrenceType: kind, RecurrenceEndType: models.EndNever}
}

func TestNext_Table(t *testing.T) {
	today := day("2024-01-01")
	tests := []struct {
		name string
		date string
		kind models.RecurrenceType
		want string
	}{
		{"daily", "2024-03-20", models.RecurrenceDaily, "2024-03-21"},
		{"daily month rollover", "2024-01-31", models.RecurrenceDaily, "2024-02-01"},
		{"daily year rollover", "2024-12-31", models.RecurrenceDaily, "2025-01-01"},
		{"weekdays midweek", "2024-03-20", models.RecurrenceWeekdays, "2024-03-21"},
		{"weekdays friday", "2024-03-22", models.RecurrenceWeekdays, "2024-03-25"},
		{"weekdays saturday", "2024-03-23", models.RecurrenceWeekdays, "2024-03-25"},
		{"weekdays sunday", "2024-03-24", models.RecurrenceWeekdays, "2024-03-25"},
		{"weekly", "2024-03-20", models.RecurrenceWeekly, "2024-03-27"},
		{"biweekly", "2024-03-20", models.RecurrenceBiweekly, "2024-04-03"},
		{"monthly", "2024-03-15", models.RecurrenceMonthly, "2024-04-15"},
		{"monthly 31st to leap feb", "2024-01-31", models.RecurrenceMonthly, "2024-02-29"},
		{"monthly 31st to feb", "2025-01-31", models.RecurrenceMonthly, "2025-02-28"},
		{"monthly 31st to 30-day month", "2024-03-31", models.RecurrenceMonthly, "2024-04-30"},
		{"monthly december", "2024-12-31", models.RecurrenceMonthly, "2025-01-31"},
		{"yearly", "2024-03-20", models.RecurrenceYearly, "2025-03-20"},
		{"yearly feb 29", "2024-02-29", models.RecurrenceYearly, "2025-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Next(recurring(tt.date, tt.kind), today)
			require.True(t, ok)
			assert.Equal(t, tt.want, models.FormatDate(got))
		})
	}
}

func TestNext_PastDateBasesOnToday(t *testing.T) {
	r := recurring("2024-01-01", models.RecurrenceWeekly)
	got, ok := Next(r, time.Date(2024, 3, 20, 17, 45, 0, 0, time.Local))
	require.True(t, ok)
	assert.Equal(t, "2024-03-27", models.FormatDate(got))
}

func TestNext_NotRecurring(t *testing.T) {
	r := recurring("2024-01-01", models.RecurrenceNone)
	_, ok := Next(r, day("2024-01-01"))
	assert.False(t, ok)

	r.RecurrenceType = ""
	_, ok = Next(r, day("2024-01-01"))
	assert.False(t, ok)
}

func TestNext_BadDate(t *testing.T) {
	_, ok := Next(recurring("not-a-date", models.RecurrenceDaily), day("2024-01-01"))
	assert.False(t, ok)
}

func TestNext_DailyAlwaysOneDay(t *testing.T) {
	start := day("2023-01-01")
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		got, ok := Next(recurring(models.FormatDate(d), models.RecurrenceDaily), start)
		require.True(t, ok)
		assert.Equal(t, d.AddDate(0, 0, 1), got, "from %s", models.FormatDate(d))
	}
}

func TestNext_WeekdaysNeverWeekend(t *testing.T) {
	start := day("2024-01-01")
	for i := 0; i < 60; i++ {
		d := start.AddDate(0, 0, i)
		got, ok := Next(recurring(models.FormatDate(d), models.RecurrenceWeekdays), start)
		require.True(t, ok)

		assert.NotEqual(t, time.Saturday, got.Weekday(), "from %s", models.FormatDate(d))
		assert.NotEqual(t, time.Sunday, got.Weekday(), "from %s", models.FormatDate(d))

		gap := int(got.Sub(d).Hours() / 24)
		assert.GreaterOrEqual(t, gap, 1)
		assert.LessOrEqual(t, gap, 3)
	}
}

func TestRecordFiring(t *testing.T) {
	r := recurring("2024-03-20", models.RecurrenceDaily)
	r.RecurrenceEndType = models.EndAfterOccurrences
	r.RecurrenceEndValue = models.CountEnd(2)

	RecordFiring(&r)
	assert.Equal(t, 1, r.Count())
	RecordFiring(&r)
	assert.Equal(t, 2, r.Count())
	RecordFiring(&r)
	assert.Equal(t, 2, r.Count(), "count never passes the cap")

	never := recurring("2024-03-20", models.RecurrenceDaily)
	RecordFiring(&never)
	assert.Nil(t, never.RecurrenceCurrentCount)
}

func TestSeriesEnded(t *testing.T) {
	next := day("2024-03-21")

	withCount := func(limit *models.EndValue, count int) models.Reminder {
		r := recurring("2024-03-20", models.RecurrenceDaily)
		r.RecurrenceEndType = models.EndAfterOccurrences
		r.RecurrenceEndValue = limit
		r.SetCount(count)
		return r
	}
	onDate := func(end string) models.Reminder {
		r := recurring("2024-03-20", models.RecurrenceDaily)
		r.RecurrenceEndType = models.EndOnDate
		r.RecurrenceEndValue = models.DateEnd(end)
		return r
	}

	tests := []struct {
		name string
		r    models.Reminder
		ok   bool
		want bool
	}{
		{"never", recurring("2024-03-20", models.RecurrenceDaily), true, false},
		{"below cap", withCount(models.CountEnd(3), 2), true, false},
		{"at cap", withCount(models.CountEnd(3), 3), true, true},
		{"missing cap", withCount(nil, 1), true, true},
		{"zero cap", withCount(models.CountEnd(0), 0), true, true},
		{"end after next", onDate("2024-03-25"), true, false},
		{"end equals next", onDate("2024-03-21"), true, false},
		{"end before next", onDate("2024-03-20"), true, true},
		{"no next date", onDate("2024-03-25"), false, true},
		{"bad end date", onDate("someday"), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeriesEnded(tt.r, next, tt.ok))
		})
	}
}

func TestRule_String(t *testing.T) {
	loc := time.UTC

	r := recurring("2024-03-20", models.RecurrenceWeekdays)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR", Rule(r, loc).String())

	r = recurring("2024-03-20", models.RecurrenceBiweekly)
	r.RecurrenceEndType = models.EndAfterOccurrences
	r.RecurrenceEndValue = models.CountEnd(5)
	r.SetCount(2)
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2;COUNT=3", Rule(r, loc).String())

	r = recurring("2024-03-20", models.RecurrenceMonthly)
	r.RecurrenceEndType = models.EndOnDate
	r.RecurrenceEndValue = models.DateEnd("2024-06-30")
	assert.Equal(t, "FREQ=MONTHLY;UNTIL=20240630T235959Z", Rule(r, loc).String())

	assert.Nil(t, Rule(recurring("2024-03-20", models.RecurrenceNone), loc))
}

func TestRule_BuildMatchesStep(t *testing.T) {
	r := recurring("2024-03-22", models.RecurrenceWeekdays)
	rule, err := Rule(r, time.UTC).Build(day("2024-03-22"))
	require.NoError(t, err)

	next := rule.After(day("2024-03-22"), false)
	assert.Equal(t, "2024-03-25", models.FormatDate(next))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "one-time", Describe(recurring("2024-03-20", models.RecurrenceNone)))

	r := recurring("2024-03-20", models.RecurrenceWeekdays)
	r.RecurrenceEndType = models.EndAfterOccurrences
	r.RecurrenceEndValue = models.CountEnd(5)
	r.SetCount(2)
	assert.Equal(t, "every weekday, 2 of 5 done", Describe(r))

	r = recurring("2024-03-20", models.RecurrenceMonthly)
	r.RecurrenceEndType = models.EndOnDate
	r.RecurrenceEndValue = models.DateEnd("2025-06-30")
	assert.Equal(t, "monthly until 2025-06-30", Describe(r))
}
