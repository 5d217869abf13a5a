package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
)

// SQLiteBackend persists entries in a single SQLite table
type SQLiteBackend struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite backend
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/leitstand.db",
	}
}

// NewSQLiteBackend opens (or creates) the database and its schema
func NewSQLiteBackend(cfg SQLiteConfig) (*SQLiteBackend, error) {
	if cfg.Path == "" {
		cfg = DefaultSQLiteConfig()
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create directory").
			WithCode(mdwerror.CodeStorageUnavailable).
			WithOperation("storage.NewSQLiteBackend").
			WithDetail("path", cfg.Path)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open database").
			WithCode(mdwerror.CodeStorageUnavailable).
			WithOperation("storage.NewSQLiteBackend").
			WithDetail("path", cfg.Path)
	}

	backend := &SQLiteBackend{db: db, path: cfg.Path}
	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, mdwerror.Wrap(err, "failed to initialize schema").
			WithCode(mdwerror.CodeDatabaseError).
			WithOperation("storage.NewSQLiteBackend").
			WithDetail("path", cfg.Path)
	}

	return backend, nil
}

func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file
func (s *SQLiteBackend) Path() string {
	return s.path
}

// Get implements Backend
func (s *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, s.dbError(err, "storage.Get", key)
	}
	return value, true, nil
}

// Set implements Backend
func (s *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return s.dbError(err, "storage.Set", key)
	}
	return nil
}

// Delete implements Backend
func (s *SQLiteBackend) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return s.dbError(err, "storage.Delete", key)
	}
	return nil
}

// Keys implements Backend
func (s *SQLiteBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, s.dbError(err, "storage.Keys", prefix)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, s.dbError(err, "storage.Keys", prefix)
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, s.dbError(err, "storage.Keys", prefix)
	}
	return keys, nil
}

// Close implements Backend
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

func (s *SQLiteBackend) dbError(err error, op, key string) error {
	return mdwerror.Wrap(err, "database operation failed").
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(op).
		WithDetail("key", key)
}
