// Package bot runs the Telegram long-poll loop and routes updates to handlers.
package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/nudge/internal/logging"
)

// Updater is the polling side of *tgbotapi.BotAPI.
type Updater interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Handler reacts to a single kind of update.
type Handler interface {
	HandleCommand(ctx context.Context, msg *tgbotapi.Message)
	HandleMessage(ctx context.Context, msg *tgbotapi.Message)
	HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery)
}

type Bot struct {
	api      Updater
	handlers Handler
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func New(api Updater, handlers Handler, logger *slog.Logger) *Bot {
	return &Bot{
		api:      api,
		handlers: handlers,
		logger:   logging.Component(logger, "bot"),
	}
}

// Start polls for updates until ctx is cancelled, then waits for in-flight
// handlers to return.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("polling for updates")

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked", "panic", r, "update_id", update.UpdateID)
		}
	}()

	if update.CallbackQuery != nil {
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}
	b.handlers.HandleMessage(ctx, update.Message)
}
