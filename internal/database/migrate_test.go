package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Sorted(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_reminders.sql", files[0])
	assert.IsIncreasing(t, files)
}

func TestMigrate_Idempotent(t *testing.T) {
	uri := os.Getenv("NUDGE_TEST_DATABASE_URI")
	if uri == "" {
		t.Skip("NUDGE_TEST_DATABASE_URI not set")
	}
	ctx := context.Background()

	db, err := New(ctx, uri, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))
}
