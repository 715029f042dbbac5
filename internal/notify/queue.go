package notify

import (
	"context"
	"log/slog"

	"github.com/hray3182/nudge/internal/logging"
)

// Queue hands notifications from the scheduler goroutine to the goroutine that
// owns the presentation layer. Notifications are delivered in enqueue order.
type Queue struct {
	ch     chan Notification
	logger *slog.Logger
}

func NewQueue(size int, logger *slog.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		ch:     make(chan Notification, size),
		logger: logging.Component(logger, "notify"),
	}
}

// Notify enqueues n. It blocks while the queue is full, until ctx is done.
func (q *Queue) Notify(ctx context.Context, n Notification) error {
	select {
	case q.ch <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run delivers queued notifications to sink until ctx is cancelled, then
// flushes whatever is still buffered.
func (q *Queue) Run(ctx context.Context, sink Sink) {
	for {
		select {
		case n := <-q.ch:
			q.deliver(ctx, sink, n)
		case <-ctx.Done():
			q.flush(sink)
			return
		}
	}
}

func (q *Queue) flush(sink Sink) {
	for {
		select {
		case n := <-q.ch:
			q.deliver(context.Background(), sink, n)
		default:
			return
		}
	}
}

func (q *Queue) deliver(ctx context.Context, sink Sink, n Notification) {
	if err := sink.Notify(ctx, n); err != nil {
		q.logger.Warn("notification delivery failed", "id", n.ID, "title", n.Title, "error", err)
	}
}
