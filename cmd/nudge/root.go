package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/hray3182/nudge/internal/config"
	"github.com/hray3182/nudge/internal/logging"
	"github.com/hray3182/nudge/internal/metrics"
	"github.com/hray3182/nudge/internal/notify"
	"github.com/hray3182/nudge/internal/reminder"
	"github.com/hray3182/nudge/internal/repository"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "nudge",
		Short:         "Personal reminder engine",
		Long:          "nudge keeps one-time and recurring reminders and tells you when they are due.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $NUDGE_CONFIG)")

	root.AddCommand(
		newRunCmd(opts),
		newStartupCheckCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newListCmd(opts),
		newTodayCmd(opts),
		newDeleteCmd(opts),
		newSnoozeCmd(opts),
		newSweepCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// app is everything a command needs, built from the loaded configuration.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	svc      *reminder.Service
	close    func()
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()})

	store, closeStore, err := repository.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := reminder.NewService(reminder.Options{
		Store:       store,
		State:       repository.NewStateStore(cfg.StateFile),
		Sink:        notify.NewConsole(cmd.OutOrStdout()),
		Metrics:     metrics.MustNew(reg),
		Logger:      logger,
		Location:    cfg.Location(),
		EveningHour: cfg.EveningHour,
	})

	return &app{cfg: cfg, logger: logger, registry: reg, svc: svc, close: closeStore}, nil
}

// withApp runs fn with a freshly built app and releases it afterwards.
func withApp(opts *rootOptions, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, opts)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, a, args)
	}
}
