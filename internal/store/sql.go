package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// currentSchemaVersion is stored in SQLite's user_version pragma.
const currentSchemaVersion = 1

// openMemory opens a private in-memory database. The pool is pinned to one
// connection that is never recycled, because every new connection to
// ":memory:" would see an empty database.
func openMemory(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

// applyPragmas configures the SQLite connection using a single batch statement.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		PRAGMA foreign_keys = ON;
		PRAGMA temp_store = MEMORY;
	`)
	if err != nil {
		return fmt.Errorf("apply pragmas: %w", err)
	}

	return nil
}

// storedSchemaVersion reads the current SQLite PRAGMA user_version.
func storedSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	row := db.QueryRowContext(ctx, "PRAGMA user_version")

	var version int

	err := row.Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}

	return version, nil
}

// createSchema creates the task tables and stamps the schema version.
func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema txn: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	statements := []string{
		`CREATE TABLE tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			summary TEXT NOT NULL,
			full_text TEXT NOT NULL,
			kind TEXT NOT NULL,
			reminder_type TEXT NOT NULL,
			reminder_at INTEGER,
			has_audio INTEGER NOT NULL,
			has_checklist INTEGER NOT NULL,
			is_buy_intent INTEGER NOT NULL,
			buy_link TEXT,
			created_at INTEGER NOT NULL,
			completed_at INTEGER,
			is_completed INTEGER NOT NULL
		)`,
		`CREATE TABLE task_checklist (
			task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			item TEXT NOT NULL,
			PRIMARY KEY (task_id, position)
		) WITHOUT ROWID`,
		"CREATE INDEX idx_created ON tasks(created_at)",
		"CREATE INDEX idx_completed_reminder ON tasks(is_completed, reminder_type, reminder_at)",
		fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion),
	}

	for i, stmt := range statements {
		_, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}

	committed = true

	return nil
}
