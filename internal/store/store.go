// Package store keeps captured tasks in a private in-memory SQLite database.
//
// Nothing is written to disk: the database lives exactly as long as the
// Store. IDs are random UUIDs assigned on Create; List returns newest first.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store holds the task tables.
type Store struct {
	sql *sql.DB
}

// Open creates an empty in-memory store.
func Open(ctx context.Context) (*Store, error) {
	if ctx == nil {
		return nil, errors.New("open store: context is nil")
	}

	db, err := openMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	version, err := storedSchemaVersion(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open store: %w", err)
	}

	if version != currentSchemaVersion {
		err = createSchema(ctx, db)
		if err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	return &Store{sql: db}, nil
}

// Close releases the database. All tasks are gone afterwards.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}

	err := s.sql.Close()
	if err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}

	s.sql = nil

	return nil
}

func (s *Store) db() (*sql.DB, error) {
	if s == nil || s.sql == nil {
		return nil, ErrClosed
	}

	return s.sql, nil
}
