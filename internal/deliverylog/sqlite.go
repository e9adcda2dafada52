package deliverylog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS deliveries (
	id             TEXT PRIMARY KEY,
	recipient_id   TEXT NOT NULL,
	recipient_name TEXT NOT NULL,
	status         TEXT NOT NULL,
	error          TEXT,
	payload_bytes  INTEGER NOT NULL,
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deliveries_created_at ON deliveries(created_at);
`

// SQLiteStore persists entries in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("deliverylog: sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("deliverylog: create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("deliverylog: open sqlite: %w", err)
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("deliverylog: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts one entry.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deliveries(id, recipient_id, recipient_name, status, error, payload_bytes, created_at)
		 VALUES(?,?,?,?,?,?,?)`,
		e.ID, e.RecipientID, e.RecipientName, string(e.Status), nullStr(e.Error),
		e.PayloadBytes, e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recipient_id, recipient_name, status, error, payload_bytes, created_at
		 FROM deliveries ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			status  string
			errText sql.NullString
			created string
		)
		if err := rows.Scan(&e.ID, &e.RecipientID, &e.RecipientName, &status, &errText, &e.PayloadBytes, &created); err != nil {
			return nil, err
		}
		e.Status = Status(status)
		if errText.Valid {
			e.Error = errText.String
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
