package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ashureev/nextgen-minds/internal/shared"
	"github.com/ashureev/nextgen-minds/internal/state"
)

// KVStore is a durable state.Storage backed by a single SQLite table. It
// plays the role browser local storage plays for the web clients.
type KVStore struct {
	db      *sql.DB
	timeout time.Duration
}

var _ state.Storage = (*KVStore)(nil)

// OpenKV opens (or creates) a key/value database at dbPath.
func OpenKV(dbPath string) (*KVStore, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv schema: %w", err)
	}
	return &KVStore{db: db, timeout: 5 * time.Second}, nil
}

// Get returns the value stored under key or state.ErrKeyNotFound.
func (k *KVStore) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	var value []byte
	err := k.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, state.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

// Set writes value under key, replacing any previous value.
func (k *KVStore) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	query := `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	err := shared.RetryOnConflict(ctx, retryAttempts, retryBaseDelay, "kv_set", func() error {
		_, err := k.db.ExecContext(ctx, query, key, value, time.Now().Unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (k *KVStore) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	if _, err := k.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (k *KVStore) Close() error {
	if err := k.db.Close(); err != nil {
		return fmt.Errorf("close kv database: %w", err)
	}
	return nil
}
