// Package repository persists reminder snapshots and the daily-summary state.
//
// Stores have full-snapshot semantics: Load returns every reminder and Save
// replaces them all. The last writer wins.
package repository

import (
	"context"
	"errors"

	"github.com/hray3182/nudge/internal/models"
)

// ErrCorrupt marks a stored snapshot that exists but cannot be decoded.
// Callers treat it as an empty store.
var ErrCorrupt = errors.New("store corrupt")

type ReminderStore interface {
	// Load returns all reminders sorted by (date, time). On failure it returns an
	// empty, non-nil slice together with the error.
	Load(ctx context.Context) ([]models.Reminder, error)
	// Save sorts and persists reminders atomically.
	Save(ctx context.Context, reminders []models.Reminder) error
}

func sorted(reminders []models.Reminder) []models.Reminder {
	out := make([]models.Reminder, len(reminders))
	copy(out, reminders)
	models.SortReminders(out)
	return out
}
