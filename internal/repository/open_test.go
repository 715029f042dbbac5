package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/nudge/internal/config"
)

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.RemindersFile = filepath.Join(dir, "reminders.json")
	cfg.SQLitePath = filepath.Join(dir, "reminders.db")

	store, closeFn, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &FileStore{}, store)

	cfg.Store = config.StoreSQLite
	store, closeFn, err = Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &SQLiteStore{}, store)
}
