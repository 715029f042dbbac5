package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/hray3182/nudge/internal/ai"
	"github.com/hray3182/nudge/internal/format"
	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/recurrence"
	"github.com/hray3182/nudge/internal/reminder"
)

const (
	confirmTimeout = 5 * time.Minute
	confirmPrefix  = "confirm:"
	cancelPrefix   = "cancel:"
)

// pendingDraft is a parsed reminder waiting for the user's confirmation.
type pendingDraft struct {
	Token     string
	Draft     reminder.Draft
	ExpiresAt time.Time
}

func (h *Handlers) handleAIMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	res, err := h.ai.ParseDraft(ctx, text, h.now())
	if errors.Is(err, ai.ErrNotAReminder) {
		reply := "I can only help with reminders. See /help"
		if res != nil && res.Message != "" {
			reply = res.Message
		}
		h.sendMessage(msg.Chat.ID, reply)
		return
	}
	if err != nil {
		h.logger.Warn("AI parse failed", "error", err)
		h.sendMessage(msg.Chat.ID, "⚠️ I could not understand that, try /remind instead")
		return
	}
	if res.NeedMoreInfo {
		h.sendMessage(msg.Chat.ID, res.FollowUp)
		return
	}

	draft, err := res.Draft.Normalize()
	if err != nil {
		h.sendMessage(msg.Chat.ID, "❌ "+err.Error())
		return
	}

	token := uuid.NewString()[:shortIDLen]
	h.pendingMu.Lock()
	h.pending = &pendingDraft{Token: token, Draft: draft, ExpiresAt: h.now().Add(confirmTimeout)}
	h.pendingMu.Unlock()

	preview := models.Reminder{
		Title: draft.Title, Date: draft.Date, Time: draft.Time,
		RecurrenceType: draft.RecurrenceType, RecurrenceEndType: draft.EndType, RecurrenceEndValue: draft.EndValue,
	}
	body := "Create this reminder?\n\n**" + draft.Title + "**\n📅 " + draft.Date + " " + clockOrAllDay(draft.Time)
	if preview.IsRecurring() {
		body += "\n🔄 " + recurrence.Describe(preview)
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, "")
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Create", confirmPrefix+token),
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", cancelPrefix+token),
	))
	h.sendWithMarkup(out, body)
}

func (h *Handlers) sendWithMarkup(out tgbotapi.MessageConfig, text string) {
	parsed := format.ParseMarkdown(text)
	out.Text = parsed.Text
	out.Entities = parsed.Entities
	if _, err := h.api.Send(out); err != nil {
		h.logger.Warn("failed to send message", "error", err)
	}
}

func isDraftCallback(data string) bool {
	return strings.HasPrefix(data, confirmPrefix) || strings.HasPrefix(data, cancelPrefix)
}

func (h *Handlers) handleDraftCallback(ctx context.Context, chatID int64, messageID int, data string) {
	confirm := strings.HasPrefix(data, confirmPrefix)
	token := strings.TrimPrefix(strings.TrimPrefix(data, confirmPrefix), cancelPrefix)

	h.pendingMu.Lock()
	pending := h.pending
	if pending != nil && pending.Token == token {
		h.pending = nil
	}
	h.pendingMu.Unlock()

	if pending == nil || pending.Token != token || h.now().After(pending.ExpiresAt) {
		h.editMessageText(chatID, messageID, "⏰ This confirmation has expired")
		return
	}
	if !confirm {
		h.editMessageText(chatID, messageID, "❌ Cancelled")
		return
	}

	r, err := h.svc.Add(ctx, pending.Draft)
	if err != nil {
		h.editMessageText(chatID, messageID, "⚠️ Failed to save the reminder: "+err.Error())
		return
	}
	h.wake()
	h.editMessageText(chatID, messageID, "⏰ Reminder set\n\n"+describe(r))
}

func clockOrAllDay(hhmm string) string {
	if hhmm == "" {
		return "(all day)"
	}
	return hhmm
}
