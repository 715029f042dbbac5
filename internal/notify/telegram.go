package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/nudge/internal/format"
)

const snoozePrefix = "snooze:"

// SnoozeOptions are the quick-snooze buttons attached to every reminder message.
var SnoozeOptions = []struct {
	Label   string
	Minutes int
}{
	{"💤 5m", 5},
	{"💤 10m", 10},
	{"💤 1h", 60},
}

// Sender is the part of *tgbotapi.BotAPI the sink needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends reminders to a single chat.
type Telegram struct {
	api    Sender
	chatID int64
}

func NewTelegram(api Sender, chatID int64) *Telegram {
	return &Telegram{api: api, chatID: chatID}
}

func (t *Telegram) Notify(_ context.Context, n Notification) error {
	text := "⏰ **Reminder**\n\n**" + n.Title + "**\nTime: " + format.TimeAMPM(n.Time)
	parsed := format.ParseMarkdown(text)

	msg := tgbotapi.NewMessage(t.chatID, parsed.Text)
	msg.Entities = parsed.Entities

	var row []tgbotapi.InlineKeyboardButton
	for _, opt := range SnoozeOptions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(opt.Label, SnoozeCallbackData(n.ID, opt.Minutes)))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(row)

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send reminder %s: %w", n.ID, err)
	}
	return nil
}

// SnoozeCallbackData encodes a snooze button payload.
func SnoozeCallbackData(id string, minutes int) string {
	return fmt.Sprintf("%s%s:%d", snoozePrefix, id, minutes)
}

// ParseSnoozeCallback decodes a payload built by SnoozeCallbackData.
func ParseSnoozeCallback(data string) (id string, minutes int, ok bool) {
	rest, found := strings.CutPrefix(data, snoozePrefix)
	if !found {
		return "", 0, false
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 {
		return "", 0, false
	}
	minutes, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return "", 0, false
	}
	return rest[:i], minutes, true
}
