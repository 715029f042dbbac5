// Package metrics exposes Prometheus collectors for the reminder engine.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nudge"

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	notified      prometheus.Counter
	spawned       prometheus.Counter
	seriesEnded   prometheus.Counter
	skipped       prometheus.Counter
	storeErrors   *prometheus.CounterVec
	sweepRemoved  prometheus.Counter
	snoozes       prometheus.Counter
	dueCheckTimer prometheus.Histogram
}

// MustNew registers the collectors on reg and panics on a registration error,
// like the promauto helpers. Tests should pass a fresh prometheus.NewRegistry().
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	m := &Metrics{
		notified:     counter("reminders_notified_total", "Reminders delivered to the notification sink."),
		spawned:      counter("reminders_spawned_total", "Successor occurrences created for recurring reminders."),
		seriesEnded:  counter("series_ended_total", "Recurring series that reached their end condition."),
		skipped:      counter("records_skipped_total", "Reminders skipped because their date or time could not be parsed."),
		sweepRemoved: counter("sweep_removed_total", "Stale reminders removed by the daily sweep."),
		snoozes:      counter("snoozes_total", "Reminders rescheduled by snooze."),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Reminder store failures by operation.",
			},
			[]string{"op"},
		),
		dueCheckTimer: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "due_check_duration_seconds",
			Help:      "Duration of one due-check cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.notified, m.spawned, m.seriesEnded, m.skipped, m.storeErrors,
		m.sweepRemoved, m.snoozes, m.dueCheckTimer)
	return m
}

func (m *Metrics) IncNotified() {
	if m == nil {
		return
	}
	m.notified.Inc()
}

func (m *Metrics) IncSpawned() {
	if m == nil {
		return
	}
	m.spawned.Inc()
}

func (m *Metrics) IncSeriesEnded() {
	if m == nil {
		return
	}
	m.seriesEnded.Inc()
}

func (m *Metrics) IncSkipped() {
	if m == nil {
		return
	}
	m.skipped.Inc()
}

// IncStoreError counts a failed store operation ("load" or "save").
func (m *Metrics) IncStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) AddSweepRemoved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sweepRemoved.Add(float64(n))
}

func (m *Metrics) IncSnoozes() {
	if m == nil {
		return
	}
	m.snoozes.Inc()
}

func (m *Metrics) ObserveDueCheck(d time.Duration) {
	if m == nil {
		return
	}
	m.dueCheckTimer.Observe(d.Seconds())
}

// Serve exposes gatherer on addr at /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
