package format

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/hray3182/nudge/internal/models"
)

func TestTimeAMPM(t *testing.T) {
	tests := map[string]string{
		"10:00":   "10:00 AM",
		"15:30":   "03:30 PM",
		"00:00":   "12:00 AM",
		"12:00":   "12:00 PM",
		"":        "N/A",
		"invalid": "invalid",
	}
	for in, want := range tests {
		assert.Equal(t, want, TimeAMPM(in), "input %q", in)
	}
}

func TestNotification(t *testing.T) {
	assert.Equal(t, "Reminder: Call mom\nTime: 03:30 PM", Notification("Call mom", "15:30"))
	assert.Equal(t, "Reminder: Rent\nTime: N/A", Notification("Rent", ""))
}

func TestSummary(t *testing.T) {
	got := Summary("Today's Upcoming Reminders", []models.Reminder{
		{Title: "Rent", Time: ""},
		{Title: "Dentist", Time: "15:30"},
	})
	assert.Equal(t, "Today's Upcoming Reminders:\n\nN/A - Rent\n03:30 PM - Dentist", got)

	assert.Contains(t, Summary("Tomorrow's Upcoming Reminders", nil), "No reminders to show")
}

func TestParseMarkdown(t *testing.T) {
	res := ParseMarkdown("⏰ **Pay rent** at `09:00` \n")
	assert.Equal(t, "⏰ Pay rent at 09:00", res.Text)
	assert.Equal(t, []tgbotapi.MessageEntity{
		{Type: "bold", Offset: 2, Length: 8},
		{Type: "code", Offset: 14, Length: 5},
	}, res.Entities)

	res = ParseMarkdown("2 ** 3 and a lone `tick")
	assert.Equal(t, "2 ** 3 and a lone `tick", res.Text)
	assert.Empty(t, res.Entities)
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 5, UTF16Len("hello"))
	assert.Equal(t, 1, UTF16Len("⏰"))
	assert.Equal(t, 2, UTF16Len("😀"))
	assert.Equal(t, 1, UTF16Len("é"))
}
