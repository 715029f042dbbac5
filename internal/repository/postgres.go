package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hray3182/nudge/internal/database"
	"github.com/hray3182/nudge/internal/models"
)

// PostgresStore keeps reminders in the reminders table created by the
// embedded migrations.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) ([]models.Reminder, error) {
	empty := []models.Reminder{}
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+`, created_at FROM reminders ORDER BY seq`,
	)
	if err != nil {
		return empty, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var row reminderRow
		var createdAt time.Time
		if err := rows.Scan(append(row.dest(), &createdAt)...); err != nil {
			return empty, fmt.Errorf("%w: scan reminder: %w", ErrCorrupt, err)
		}
		reminders = append(reminders, row.model(createdAt))
	}
	if err := rows.Err(); err != nil {
		return empty, fmt.Errorf("iterate reminders: %w", err)
	}
	if reminders == nil {
		return empty, nil
	}
	models.SortReminders(reminders)
	return reminders, nil
}

func (s *PostgresStore) Save(ctx context.Context, reminders []models.Reminder) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("clear reminders: %w", err)
	}
	batch := &pgx.Batch{}
	for i, r := range sorted(reminders) {
		row := toRow(r)
		batch.Queue(
			`INSERT INTO reminders (`+reminderColumns+`, seq, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			append(row.args(), i, r.CreatedAt)...,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert reminders: %w", err)
	}
	return tx.Commit(ctx)
}
