package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps sessions in a local SQLite file. The CLI uses it for its
// single "local" session; the service can use it for single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and writes serialised
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS storefront_sessions (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session_id, key)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM storefront_sessions WHERE session_id = ? AND key = ?`,
		sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQLiteStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO storefront_sessions (session_id, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, key) DO UPDATE SET
		   value = excluded.value,
		   updated_at = excluded.updated_at`,
		sessionID, key, string(value), time.Now().UTC(),
	)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, sessionID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM storefront_sessions WHERE session_id = ? AND key = ?`,
		sessionID, key,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
