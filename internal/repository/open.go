package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hray3182/nudge/internal/config"
	"github.com/hray3182/nudge/internal/database"
)

// Open builds the reminder store selected by cfg.Store. The returned close
// function releases the backend and is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ReminderStore, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case config.StorePostgres:
		db, err := database.New(ctx, cfg.DatabaseURI, logger)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, func() {}, fmt.Errorf("run migrations: %w", err)
		}
		return NewPostgresStore(db), db.Close, nil
	default:
		return NewFileStore(cfg.RemindersFile), func() {}, nil
	}
}
