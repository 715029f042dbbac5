package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/nudge/internal/format"
	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/notify"
	"github.com/hray3182/nudge/internal/recurrence"
	"github.com/hray3182/nudge/internal/reminder"
)

const shortIDLen = 8

const remindUsage = "Usage: /remind <YYYY-MM-DD|today|tomorrow> [HH:MM] <title>\nExample: /remind tomorrow 15:30 Dentist"

func (h *Handlers) handleRemind(ctx context.Context, msg *tgbotapi.Message) {
	draft, err := h.parseRemindArgs(msg.CommandArguments())
	if err != nil {
		h.sendMessage(msg.Chat.ID, remindUsage)
		return
	}

	r, err := h.svc.Add(ctx, draft)
	if err != nil {
		if errors.Is(err, reminder.ErrInvalidDraft) {
			h.sendMessage(msg.Chat.ID, "❌ "+err.Error())
			return
		}
		h.sendMessage(msg.Chat.ID, "⚠️ Failed to save the reminder, please try again")
		return
	}
	h.wake()
	h.sendMessage(msg.Chat.ID, "⏰ Reminder set\n\n"+describe(r))
}

// parseRemindArgs reads "<date|today|tomorrow> [HH:MM] <title>".
func (h *Handlers) parseRemindArgs(args string) (reminder.Draft, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return reminder.Draft{}, errors.New("missing arguments")
	}

	today := models.CivilDate(h.now())
	var d reminder.Draft
	switch strings.ToLower(fields[0]) {
	case "today":
		d.Date = models.FormatDate(today)
	case "tomorrow":
		d.Date = models.FormatDate(today.AddDate(0, 0, 1))
	default:
		d.Date = fields[0]
	}
	fields = fields[1:]

	if len(fields) > 1 && strings.Contains(fields[0], ":") {
		if _, err := models.NormalizeClock(fields[0]); err == nil {
			d.Time = fields[0]
			fields = fields[1:]
		}
	}
	d.Title = strings.Join(fields, " ")
	return d, nil
}

func (h *Handlers) handleList(ctx context.Context, msg *tgbotapi.Message) {
	h.sendList(msg.Chat.ID, "⏰ **Reminders**", "No reminders", h.svc.List(ctx))
}

func (h *Handlers) handleToday(ctx context.Context, msg *tgbotapi.Message) {
	h.sendList(msg.Chat.ID, "📅 **Today**", "Nothing today", h.svc.DueToday(ctx))
}

func (h *Handlers) handleUpcoming(ctx context.Context, msg *tgbotapi.Message) {
	items, label := h.svc.Upcoming(ctx)
	h.sendMessage(msg.Chat.ID, format.Summary(label+" Upcoming Reminders", items))
}

func (h *Handlers) sendList(chatID int64, title, empty string, reminders []models.Reminder) {
	if len(reminders) == 0 {
		h.sendMessage(chatID, title+"\n\n"+empty)
		return
	}
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")
	for _, r := range reminders {
		sb.WriteString(listLine(r))
		sb.WriteByte('\n')
	}
	h.sendMessage(chatID, sb.String())
}

func listLine(r models.Reminder) string {
	status := "🔔"
	if r.NotifiedIndividually {
		status = "✅"
	}
	line := fmt.Sprintf("%s `%s` %s %s %s", status, shortID(r.ID), r.Date, format.TimeAMPM(r.Time), r.Title)
	if r.IsRecurring() {
		line += " 🔄 " + recurrence.Describe(r)
	}
	return line
}

func describe(r models.Reminder) string {
	text := fmt.Sprintf("**%s**\n📅 %s %s\n🆔 `%s`", r.Title, r.Date, format.TimeAMPM(r.Time), shortID(r.ID))
	if r.IsRecurring() {
		text += "\n🔄 " + recurrence.Describe(r)
	}
	return text
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func (h *Handlers) handleDelete(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /delete <id>")
		return
	}
	id, err := h.svc.Resolve(ctx, arg)
	if err != nil {
		h.sendMessage(msg.Chat.ID, idError(arg, err))
		return
	}
	ok, err := h.svc.Delete(ctx, id)
	switch {
	case err != nil:
		h.sendMessage(msg.Chat.ID, "⚠️ Failed to delete the reminder, please try again")
	case !ok:
		h.sendMessage(msg.Chat.ID, idError(arg, reminder.ErrNotFound))
	default:
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("🗑 Deleted `%s`", shortID(id)))
	}
}

func (h *Handlers) handleSnooze(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /snooze <id> <minutes>")
		return
	}
	minutes, err := strconv.Atoi(fields[1])
	if err != nil || minutes <= 0 {
		h.sendMessage(msg.Chat.ID, "Minutes must be a positive number")
		return
	}
	if minutes > reminder.MaxSnoozeMinutes {
		h.sendMessage(msg.Chat.ID, "Snoozes are limited to one year")
		return
	}
	id, err := h.svc.Resolve(ctx, fields[0])
	if err != nil {
		h.sendMessage(msg.Chat.ID, idError(fields[0], err))
		return
	}
	h.sendMessage(msg.Chat.ID, h.snooze(ctx, id, minutes))
}

func (h *Handlers) snooze(ctx context.Context, id string, minutes int) string {
	ok, err := h.svc.Snooze(ctx, id, minutes)
	switch {
	case err != nil:
		return "⚠️ Failed to snooze, please try again"
	case !ok:
		return "This reminder no longer exists"
	}
	h.wake()
	return fmt.Sprintf("💤 Snoozed for %s", snoozeLabel(minutes))
}

func snoozeLabel(minutes int) string {
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%d min", minutes)
}

func idError(arg string, err error) string {
	if errors.Is(err, reminder.ErrAmbiguousID) {
		return fmt.Sprintf("`%s` matches more than one reminder, use a longer id", arg)
	}
	return fmt.Sprintf("No reminder with id `%s`", arg)
}

func isSnoozeCallback(data string) bool {
	_, _, ok := notify.ParseSnoozeCallback(data)
	return ok
}

func (h *Handlers) handleSnoozeCallback(ctx context.Context, chatID int64, messageID int, data string) {
	id, minutes, _ := notify.ParseSnoozeCallback(data)
	h.editMessageText(chatID, messageID, h.snooze(ctx, id, minutes))
}
