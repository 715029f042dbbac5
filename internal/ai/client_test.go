package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/nudge/internal/models"
)

func TestDecode(t *testing.T) {
	res, err := decode(`{"action":"create_reminder","title":"Stand-up","date":"2024-03-21","time":"09:00",
		"recurrence_type":"weekdays","end_type":"after_occurrences","end_count":10,"end_date":"",
		"need_more_info":false,"follow_up_prompt":"","ai_message":"Done"}`)
	require.NoError(t, err)
	assert.False(t, res.NeedMoreInfo)
	assert.Equal(t, "Stand-up", res.Draft.Title)
	assert.Equal(t, models.RecurrenceWeekdays, res.Draft.RecurrenceType)
	assert.Equal(t, models.CountEnd(10), res.Draft.EndValue)

	res, err = decode(`{"action":"create_reminder","title":"Rent","date":"2024-03-25","time":"",
		"recurrence_type":"monthly","end_type":"on_date","end_count":0,"end_date":"2024-12-25",
		"need_more_info":false,"follow_up_prompt":"","ai_message":""}`)
	require.NoError(t, err)
	assert.Equal(t, models.DateEnd("2024-12-25"), res.Draft.EndValue)

	res, err = decode(`{"action":"create_reminder","title":"","date":"","time":"",
		"recurrence_type":"none","end_type":"never","end_count":0,"end_date":"",
		"need_more_info":false,"follow_up_prompt":"","ai_message":""}`)
	require.NoError(t, err)
	assert.True(t, res.NeedMoreInfo)
	assert.NotEmpty(t, res.FollowUp)

	res, err = decode(`{"action":"unknown","ai_message":"Hi!"}`)
	assert.ErrorIs(t, err, ErrNotAReminder)
	assert.Equal(t, "Hi!", res.Message)

	_, err = decode(`not json`)
	assert.Error(t, err)
}

func TestClient_ParseDraft(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var req struct {
			Model string `json:"model"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model

		content := `{"action":"create_reminder","title":"Water plants","date":"2024-03-21","time":"18:30",` +
			`"recurrence_type":"weekly","end_type":"never","end_count":0,"end_date":"",` +
			`"need_more_info":false,"follow_up_prompt":"","ai_message":"Got it"}`
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	defer srv.Close()

	client := New("test-key", srv.URL, "test-model")
	res, err := client.ParseDraft(context.Background(), "water the plants every week tomorrow 6:30pm", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "test-model", gotModel)
	assert.Equal(t, "Water plants", res.Draft.Title)
	assert.Equal(t, "18:30", res.Draft.Time)
	assert.Equal(t, models.RecurrenceWeekly, res.Draft.RecurrenceType)
	assert.Nil(t, res.Draft.EndValue)
	assert.Equal(t, "Got it", res.Message)
}
