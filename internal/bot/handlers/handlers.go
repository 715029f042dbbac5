package handlers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/nudge/internal/ai"
	"github.com/hray3182/nudge/internal/format"
	"github.com/hray3182/nudge/internal/logging"
	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/reminder"
)

// API is the part of *tgbotapi.BotAPI the handlers use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Service is the reminder engine as seen from the chat.
type Service interface {
	Add(ctx context.Context, d reminder.Draft) (models.Reminder, error)
	List(ctx context.Context) []models.Reminder
	Resolve(ctx context.Context, prefix string) (string, error)
	DueToday(ctx context.Context) []models.Reminder
	Upcoming(ctx context.Context) ([]models.Reminder, string)
	Delete(ctx context.Context, id string) (bool, error)
	Snooze(ctx context.Context, id string, minutes int) (bool, error)
}

// DraftParser turns free text into a reminder draft.
type DraftParser interface {
	ParseDraft(ctx context.Context, text string, now time.Time) (*ai.Result, error)
}

// Waker asks the scheduler for an immediate due-check.
type Waker interface {
	Notify()
}

type Options struct {
	ChatID int64
	AI     DraftParser // optional
	Waker  Waker       // optional
	Now    func() time.Time
	Logger *slog.Logger
}

type Handlers struct {
	api    API
	svc    Service
	ai     DraftParser
	waker  Waker
	chatID int64
	now    func() time.Time
	logger *slog.Logger

	pendingMu sync.Mutex
	pending   *pendingDraft
}

func New(api API, svc Service, opts Options) *Handlers {
	h := &Handlers{
		api:    api,
		svc:    svc,
		ai:     opts.AI,
		waker:  opts.Waker,
		chatID: opts.ChatID,
		now:    opts.Now,
		logger: logging.Component(opts.Logger, "bot"),
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// allowed reports whether chatID is the configured chat. Everyone else is ignored.
func (h *Handlers) allowed(chatID int64) bool {
	return chatID == h.chatID
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if !h.allowed(msg.Chat.ID) {
		h.logger.Warn("ignoring command from unknown chat", "chat_id", msg.Chat.ID)
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(msg)
	case "help":
		h.handleHelp(msg)
	case "remind":
		h.handleRemind(ctx, msg)
	case "reminders":
		h.handleList(ctx, msg)
	case "today":
		h.handleToday(ctx, msg)
	case "upcoming":
		h.handleUpcoming(ctx, msg)
	case "delete":
		h.handleDelete(ctx, msg)
	case "snooze":
		h.handleSnooze(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command, see /help")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !h.allowed(msg.Chat.ID) {
		return
	}
	if h.ai == nil {
		h.sendMessage(msg.Chat.ID, "Natural language input is not configured. Use /remind, see /help")
		return
	}
	h.handleAIMessage(ctx, msg)
}

func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || !h.allowed(callback.Message.Chat.ID) {
		return
	}

	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(answer); err != nil {
		h.logger.Warn("failed to answer callback", "error", err)
	}

	chatID, messageID := callback.Message.Chat.ID, callback.Message.MessageID
	switch {
	case isSnoozeCallback(callback.Data):
		h.handleSnoozeCallback(ctx, chatID, messageID, callback.Data)
	case isDraftCallback(callback.Data):
		h.handleDraftCallback(ctx, chatID, messageID, callback.Data)
	}
}

func (h *Handlers) wake() {
	if h.waker != nil {
		h.waker.Notify()
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	parsed := format.ParseMarkdown(text)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, parsed.Text)
	edit.Entities = parsed.Entities
	if _, err := h.api.Send(edit); err != nil {
		h.logger.Warn("failed to edit message", "error", err)
	}
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(chatID, parsed.Text)
	msg.Entities = parsed.Entities
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", "error", err)
	}
}

func (h *Handlers) handleStart(msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID, "👋 Hi! I will nudge you when your reminders are due.\n\nSee /help for the commands.")
}

func (h *Handlers) handleHelp(msg *tgbotapi.Message) {
	text := `**Commands**

/remind <YYYY-MM-DD|today|tomorrow> [HH:MM] <title>
/reminders - all reminders
/today - today's reminders
/upcoming - what is still ahead
/delete <id>
/snooze <id> <minutes>`
	if h.ai != nil {
		text += "\n\nOr just write what to remember, e.g. `remind me every weekday at 9 to stand up`"
	}
	h.sendMessage(msg.Chat.ID, text)
}
