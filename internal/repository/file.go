package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/hray3182/nudge/internal/models"
)

// FileStore keeps the reminder list as an indented JSON array.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) ([]models.Reminder, error) {
	empty := []models.Reminder{}
	if err := ctx.Err(); err != nil {
		return empty, err
	}

	data, err := readFileOrEmpty(s.path)
	if err != nil {
		return empty, fmt.Errorf("%w: read %s: %w", ErrCorrupt, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return empty, nil
	}

	var reminders []models.Reminder
	if err := json.Unmarshal(data, &reminders); err != nil {
		return empty, fmt.Errorf("%w: decode %s: %w", ErrCorrupt, s.path, err)
	}
	if reminders == nil {
		return empty, nil
	}
	models.SortReminders(reminders)
	return reminders, nil
}

func (s *FileStore) Save(ctx context.Context, reminders []models.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sorted(reminders), "", "  ")
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
