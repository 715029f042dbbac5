package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hray3182/nudge/internal/ai"
	"github.com/hray3182/nudge/internal/bot"
	"github.com/hray3182/nudge/internal/bot/handlers"
	"github.com/hray3182/nudge/internal/format"
	"github.com/hray3182/nudge/internal/metrics"
	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/notify"
	"github.com/hray3182/nudge/internal/scheduler"
)

const queueSize = 64

func newRunCmd(opts *rootOptions) *cobra.Command {
	var minimized, autostart bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reminder scheduler until interrupted",
		Long: `Run the reminder scheduler until SIGINT or SIGTERM.

By default the upcoming reminders are printed first. --minimized skips that,
--autostart prints today's summary once per day and then runs minimized.`,
		Args: cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			out := cmd.OutOrStdout()
			switch {
			case autostart:
				if err := printDailySummary(cmd.Context(), out, a, false); err != nil {
					a.logger.Warn("daily summary state not saved", "error", err)
				}
			case !minimized:
				items, label := a.svc.Upcoming(cmd.Context())
				fmt.Fprintln(out, format.Summary(label+" Upcoming Reminders", items))
				fmt.Fprintln(out)
			}
			return run(cmd.Context(), out, a)
		}),
	}
	cmd.Flags().BoolVar(&minimized, "minimized", false, "start without printing upcoming reminders")
	cmd.Flags().BoolVar(&autostart, "autostart", false, "print today's summary once per day, then run minimized")
	return cmd
}

func newStartupCheckCmd(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "startup-check",
		Short: "Print today's reminders if not yet shown today, then exit",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			return printDailySummary(cmd.Context(), cmd.OutOrStdout(), a, force)
		}),
	}
	cmd.Flags().BoolVar(&force, "force", false, "print even if already shown today")
	return cmd
}

func printDailySummary(ctx context.Context, out io.Writer, a *app, force bool) error {
	items, shown, err := a.svc.DailySummary(ctx, force)
	if shown {
		fmt.Fprintln(out, dailySummaryText(time.Now().In(a.cfg.Location()), items))
	}
	return err
}

func dailySummaryText(now time.Time, items []models.Reminder) string {
	return format.Summary(fmt.Sprintf("Reminders for Today (%s)", models.FormatDate(now)), items)
}

// run wires the queue, sinks, scheduler and optional bot and metrics server,
// and blocks until ctx is cancelled or one of them fails.
func run(ctx context.Context, out io.Writer, a *app) error {
	cfg := a.cfg
	queue := notify.NewQueue(queueSize, a.logger)
	a.svc.SetSink(queue)
	console := notify.NewConsole(out)
	sinks := notify.Multi{console}

	var api *tgbotapi.BotAPI
	if cfg.TelegramEnabled() {
		var err error
		api, err = tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
		a.logger.Info("telegram enabled", "account", api.Self.UserName)
		sinks = append(sinks, notify.NewTelegram(api, cfg.TelegramChatID))
	}

	schedOpts := scheduler.Options{
		CheckInterval: cfg.CheckInterval,
		SweepSpec:     cfg.SweepCron,
		Location:      cfg.Location(),
		Logger:        a.logger,
	}
	if cfg.DailySummary {
		schedOpts.OnDailySummary = func(ctx context.Context, items []models.Reminder) {
			console.Println(dailySummaryText(time.Now().In(cfg.Location()), items))
		}
	}
	sched, err := scheduler.New(a.svc, schedOpts)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		queue.Run(gctx, sinks)
		return nil
	})
	g.Go(func() error {
		sched.Start(gctx)
		return nil
	})

	if api != nil {
		var parser handlers.DraftParser
		if cfg.AIAPIKey != "" {
			parser = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
			a.logger.Info("AI client initialized", "model", cfg.AIModel)
		} else {
			a.logger.Info("AI client not configured, natural language features disabled")
		}
		h := handlers.New(api, a.svc, handlers.Options{
			ChatID: cfg.TelegramChatID,
			AI:     parser,
			Waker:  sched,
			Now:    func() time.Time { return time.Now().In(cfg.Location()) },
			Logger: a.logger,
		})
		b := bot.New(api, h, a.logger)
		g.Go(func() error { return b.Start(gctx) })
	}

	if cfg.MetricsAddr != "" {
		g.Go(func() error { return metrics.Serve(gctx, cfg.MetricsAddr, a.registry, a.logger) })
	}

	a.logger.Info("nudge running", "store", cfg.Store, "interval", cfg.CheckInterval)

	errCh := make(chan error, 1)
	go func() { errCh <- g.Wait() }()

	<-gctx.Done()
	a.logger.Info("shutting down")
	select {
	case err := <-errCh:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-time.After(cfg.ShutdownTimeout):
		return fmt.Errorf("shutdown did not finish within %s", cfg.ShutdownTimeout)
	}
}
