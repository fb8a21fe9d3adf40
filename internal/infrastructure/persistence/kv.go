// Package persistence provides the key-value storage engines the card
// store writes through to: SQLite for the default local setup, Postgres
// for shared deployments, and a plain JSON file.
package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"flashdeck/internal/domain/storage"
)

// Store is a closable persistence collaborator.
type Store interface {
	storage.KV
	Close() error
}

// queries holds the dialect-specific SQL for the kv_store table.
type queries struct {
	get string
	set string
}

// SQLStore implements the key-value contract over a single kv_store
// table in a SQL database.
type SQLStore struct {
	db *sql.DB
	q  queries
}

// Get returns the value for the key, or (nil, nil) if it was never set.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

// Set writes the value for the key, inserting or replacing it.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.q.set, key, value); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
