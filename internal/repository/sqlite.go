package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hray3182/nudge/internal/models"
)

// SQLiteStore keeps reminders in a single-file SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	seq INTEGER NOT NULL DEFAULT 0,
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	time TEXT NOT NULL DEFAULT '',
	notified_individually INTEGER NOT NULL DEFAULT 0,
	recurrence_type TEXT NOT NULL DEFAULT '',
	recurrence_end_type TEXT NOT NULL DEFAULT '',
	recurrence_end_value TEXT DEFAULT NULL,
	recurrence_current_count INTEGER DEFAULT NULL,
	snoozed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) ([]models.Reminder, error) {
	empty := []models.Reminder{}
	rows, err := s.db.QueryContext(ctx, `SELECT `+reminderColumns+`, created_at FROM reminders ORDER BY seq`)
	if err != nil {
		return empty, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var row reminderRow
		var createdAt string
		if err := rows.Scan(append(row.dest(), &createdAt)...); err != nil {
			return empty, fmt.Errorf("%w: scan reminder: %w", ErrCorrupt, err)
		}
		created, _ := time.Parse(time.RFC3339Nano, createdAt)
		reminders = append(reminders, row.model(created))
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

func (s *SQLiteStore) Save(ctx context.Context, reminders []models.Reminder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reminders`); err != nil {
		return fmt.Errorf("clear reminders: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO reminders (`+reminderColumns+`, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range sorted(reminders) {
		row := toRow(r)
		args := append(row.args(), i, r.CreatedAt.UTC().Format(time.RFC3339Nano))
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert reminder %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
