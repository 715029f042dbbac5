package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndValue_JSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want EndValue
	}{
		{"number", `3`, EndValue{Count: 3}},
		{"numeric string", `"5"`, EndValue{Count: 5}},
		{"date", `"2025-12-31"`, EndValue{Date: "2025-12-31"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v EndValue
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &v))
			assert.Equal(t, tt.want, v)
		})
	}

	data, err := json.Marshal(DateEnd("2025-01-02"))
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-01-02"`, string(data))

	data, err = json.Marshal(CountEnd(4))
	require.NoError(t, err)
	assert.JSONEq(t, `4`, string(data))
}

func TestEndValue_RejectsGarbage(t *testing.T) {
	var v EndValue
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &v))
}

func TestReminder_NullRecurrenceFields(t *testing.T) {
	raw := `{"id":"1","title":"t","date":"2024-03-20","time":"10:00","notified_individually":false,
		"recurrence_end_value":null,"recurrence_current_count":null}`
	var r Reminder
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Nil(t, r.RecurrenceEndValue)
	assert.Nil(t, r.RecurrenceCurrentCount)
	assert.False(t, r.IsRecurring())
	assert.Equal(t, 0, r.Count())
}

func TestReminder_Instant(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)

	r := Reminder{ID: "a", Date: "2024-03-20", Time: "15:30"}
	got, err := r.Instant(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 15, 30, 0, 0, loc), got)

	allDay := Reminder{ID: "b", Date: "2024-03-20"}
	got, err = allDay.Instant(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, loc), got)

	bad := Reminder{ID: "c", Date: "2024-13-40", Time: "10:00"}
	_, err = bad.Instant(loc)
	assert.Error(t, err)

	badTime := Reminder{ID: "d", Date: "2024-03-20", Time: "noon"}
	_, err = badTime.Instant(loc)
	assert.Error(t, err)
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)

	got, err = NormalizeClock("")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = NormalizeClock("25:00")
	assert.Error(t, err)
}

func TestSortReminders(t *testing.T) {
	rs := []Reminder{
		{ID: "3", Date: "2024-03-21", Time: "08:00"},
		{ID: "2", Date: "2024-03-20", Time: "15:30"},
		{ID: "1", Date: "2024-03-20", Time: ""},
		{ID: "0", Date: "2024-03-20", Time: "09:00"},
	}
	SortReminders(rs)

	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"1", "0", "2", "3"}, ids)
}

func TestAppState_ShouldShowDailySummary(t *testing.T) {
	s := AppState{}
	assert.True(t, s.ShouldShowDailySummary("2024-03-20"))
	s.LastDailyPopupDate = "2024-03-20"
	assert.False(t, s.ShouldShowDailySummary("2024-03-20"))
	assert.True(t, s.ShouldShowDailySummary("2024-03-21"))
}
