// Package sqlitestore persists the session in a SQLite key/value table.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrsteele09/gymflow/session"

	_ "modernc.org/sqlite"
)

var _ session.Store = (*Store)(nil)

const schema = `CREATE TABLE IF NOT EXISTS session_kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store implements session.Store on SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dsn and ensures the table exists.
// Use ":memory:" for an in-memory database (useful in tests).
func New(dsn string) (*Store, error) {
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
			return nil, fmt.Errorf("create session directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session_kv: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(context.Background(), "SELECT value FROM session_kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO session_kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	if _, err := s.db.ExecContext(context.Background(), "DELETE FROM session_kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Clear() error {
	if _, err := s.db.ExecContext(context.Background(), "DELETE FROM session_kv"); err != nil {
		return fmt.Errorf("clear session_kv: %w", err)
	}
	return nil
}
