package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hray3182/nudge/internal/database"
)

func TestPostgresStore_Contract(t *testing.T) {
	uri := os.Getenv("NUDGE_TEST_DATABASE_URI")
	if uri == "" {
		t.Skip("NUDGE_TEST_DATABASE_URI not set")
	}
	ctx := context.Background()

	db, err := database.New(ctx, uri, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	store := NewPostgresStore(db)
	require.NoError(t, store.Save(ctx, nil))
	storeContract(t, store)
}
