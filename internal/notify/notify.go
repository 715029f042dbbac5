// Package notify delivers due reminders to the user-facing surfaces.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hray3182/nudge/internal/format"
)

// Notification is what the due-check hands to a sink when a reminder fires.
type Notification struct {
	ID    string
	Title string
	Time  string // HH:MM, empty for all-day reminders
}

type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n Notification) error

func (f SinkFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// Console prints notifications to a terminal.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(_ context.Context, n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "%s\n\n", format.Notification(n.Title, n.Time))
	return err
}

// Println writes text on its own, serialized with notifications.
func (c *Console) Println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s\n\n", text)
}

// Multi fans a notification out to every sink. All sinks are attempted and the
// first error is returned.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
