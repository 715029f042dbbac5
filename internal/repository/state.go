package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/hray3182/nudge/internal/models"
)

// StateStore persists AppState as a small JSON object.
type StateStore struct {
	path string
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load returns the zero state when the file is absent, and the zero state plus
// an ErrCorrupt error when it cannot be decoded.
func (s *StateStore) Load(ctx context.Context) (models.AppState, error) {
	var state models.AppState
	if err := ctx.Err(); err != nil {
		return state, err
	}
	data, err := readFileOrEmpty(s.path)
	if err != nil {
		return state, fmt.Errorf("%w: read %s: %w", ErrCorrupt, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return models.AppState{}, fmt.Errorf("%w: decode %s: %w", ErrCorrupt, s.path, err)
	}
	return state, nil
}

func (s *StateStore) Save(ctx context.Context, state models.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
