package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/handled/internal/task"

	"github.com/google/uuid"
)

const taskColumns = `id, summary, full_text, kind, reminder_type, reminder_at, has_audio,
	has_checklist, is_buy_intent, buy_link, created_at, completed_at, is_completed`

// Create inserts t with a freshly assigned ID and returns the stored task.
// Any ID already set on t is ignored.
func (s *Store) Create(ctx context.Context, t task.Task) (task.Task, error) {
	db, err := s.db()
	if err != nil {
		return task.Task{}, err
	}

	if !task.IsValidKind(t.Kind) {
		return task.Task{}, fmt.Errorf("create: %w: %q", task.ErrInvalidKind, t.Kind)
	}

	err = t.Reminder.Validate()
	if err != nil {
		return task.Task{}, fmt.Errorf("create: %w", err)
	}

	t.ID = uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return task.Task{}, fmt.Errorf("create: begin: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Summary,
		t.FullText,
		t.Kind,
		t.Reminder.Type,
		nullTime(reminderTime(t.Reminder)),
		t.HasAudio,
		t.HasChecklist,
		t.IsBuyIntent,
		sql.NullString{String: t.BuyLink, Valid: t.BuyLink != ""},
		t.CreatedAt.UnixNano(),
		nullTime(t.CompletedAt),
		t.IsCompleted,
	)
	if err != nil {
		return task.Task{}, fmt.Errorf("create: insert %s: %w", t.ID, err)
	}

	for i, item := range t.ChecklistItems {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO task_checklist (task_id, position, item) VALUES (?, ?, ?)", t.ID, i, item)
		if err != nil {
			return task.Task{}, fmt.Errorf("create: insert checklist %s: %w", t.ID, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return task.Task{}, fmt.Errorf("create: commit: %w", err)
	}

	committed = true

	return s.Get(ctx, t.ID)
}

// Get returns the task with the given id.
func (s *Store) Get(ctx context.Context, id string) (task.Task, error) {
	db, err := s.db()
	if err != nil {
		return task.Task{}, err
	}

	row := db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err != nil {
		return task.Task{}, fmt.Errorf("get %s: %w", id, err)
	}

	items, err := s.checklist(ctx, db, []string{id})
	if err != nil {
		return task.Task{}, err
	}

	t.ChecklistItems = items[id]

	return t, nil
}

// Resolve returns the single task whose id starts with prefix.
func (s *Store) Resolve(ctx context.Context, prefix string) (task.Task, error) {
	db, err := s.db()
	if err != nil {
		return task.Task{}, err
	}

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return task.Task{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	rows, err := db.QueryContext(ctx, "SELECT id FROM tasks WHERE id LIKE ? ESCAPE '\\' LIMIT 2",
		escapeLike(prefix)+"%")
	if err != nil {
		return task.Task{}, fmt.Errorf("resolve %s: %w", prefix, err)
	}

	var ids []string

	for rows.Next() {
		var id string

		err = rows.Scan(&id)
		if err != nil {
			_ = rows.Close()

			return task.Task{}, fmt.Errorf("resolve %s: %w", prefix, err)
		}

		ids = append(ids, id)
	}

	err = errors.Join(rows.Err(), rows.Close())
	if err != nil {
		return task.Task{}, fmt.Errorf("resolve %s: %w", prefix, err)
	}

	switch len(ids) {
	case 0:
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return s.Get(ctx, ids[0])
	default:
		return task.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// List returns all tasks, newest first.
func (s *Store) List(ctx context.Context) ([]task.Task, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY created_at DESC, seq DESC")
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	var (
		tasks []task.Task
		ids   []string
	)

	for rows.Next() {
		t, scanErr := scanTask(rows)
		if scanErr != nil {
			_ = rows.Close()

			return nil, fmt.Errorf("list: %w", scanErr)
		}

		tasks = append(tasks, t)
		ids = append(ids, t.ID)
	}

	err = errors.Join(rows.Err(), rows.Close())
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	items, err := s.checklist(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		tasks[i].ChecklistItems = items[tasks[i].ID]
	}

	return tasks, nil
}

// Count returns the number of stored tasks.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.db()
	if err != nil {
		return 0, err
	}

	var n int

	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	return n, nil
}

// Complete marks the task done at the given time.
func (s *Store) Complete(ctx context.Context, id string, at time.Time) (task.Task, error) {
	return s.update(ctx, id, "complete",
		"UPDATE tasks SET is_completed = 1, completed_at = ? WHERE id = ?", at.UnixNano(), id)
}

// Uncomplete reopens a task and clears its completion time.
func (s *Store) Uncomplete(ctx context.Context, id string) (task.Task, error) {
	return s.update(ctx, id, "uncomplete",
		"UPDATE tasks SET is_completed = 0, completed_at = NULL WHERE id = ?", id)
}

// SetReminder replaces the task's reminder.
func (s *Store) SetReminder(ctx context.Context, id string, r task.Reminder) (task.Task, error) {
	err := r.Validate()
	if err != nil {
		return task.Task{}, fmt.Errorf("set reminder %s: %w", id, err)
	}

	return s.update(ctx, id, "set reminder",
		"UPDATE tasks SET reminder_type = ?, reminder_at = ? WHERE id = ?",
		r.Type, nullTime(reminderTime(r)), id)
}

// ClearAudio drops the recording attached to a task.
func (s *Store) ClearAudio(ctx context.Context, id string) (task.Task, error) {
	return s.update(ctx, id, "clear audio", "UPDATE tasks SET has_audio = 0 WHERE id = ?", id)
}

// ClearAllAudio drops every recording and returns how many tasks had one.
func (s *Store) ClearAllAudio(ctx context.Context) (int, error) {
	return s.exec(ctx, "clear all audio", "UPDATE tasks SET has_audio = 0 WHERE has_audio = 1")
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.exec(ctx, "delete "+id, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// DeleteAll removes every task and returns how many there were.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	return s.exec(ctx, "delete all", "DELETE FROM tasks")
}

func (s *Store) update(ctx context.Context, id, op, query string, args ...any) (task.Task, error) {
	n, err := s.exec(ctx, op+" "+id, query, args...)
	if err != nil {
		return task.Task{}, err
	}

	if n == 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s.Get(ctx, id)
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) (int, error) {
	db, err := s.db()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}

	return int(n), nil
}

func (s *Store) checklist(ctx context.Context, db *sql.DB, ids []string) (map[string][]string, error) {
	out := make(map[string][]string)
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx,
		"SELECT task_id, item FROM task_checklist WHERE task_id IN ("+placeholders+") ORDER BY task_id, position",
		args...)
	if err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}

	for rows.Next() {
		var id, item string

		err = rows.Scan(&id, &item)
		if err != nil {
			_ = rows.Close()

			return nil, fmt.Errorf("load checklist: %w", err)
		}

		out[id] = append(out[id], item)
	}

	err = errors.Join(rows.Err(), rows.Close())
	if err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (task.Task, error) {
	var (
		t           task.Task
		reminderAt  sql.NullInt64
		buyLink     sql.NullString
		createdAt   int64
		completedAt sql.NullInt64
	)

	err := row.Scan(
		&t.ID,
		&t.Summary,
		&t.FullText,
		&t.Kind,
		&t.Reminder.Type,
		&reminderAt,
		&t.HasAudio,
		&t.HasChecklist,
		&t.IsBuyIntent,
		&buyLink,
		&createdAt,
		&completedAt,
		&t.IsCompleted,
	)
	if err != nil {
		return task.Task{}, err
	}

	if reminderAt.Valid {
		t.Reminder.At = time.Unix(0, reminderAt.Int64).UTC()
	}

	t.BuyLink = buyLink.String
	t.CreatedAt = time.Unix(0, createdAt).UTC()

	if completedAt.Valid {
		t.CompletedAt = time.Unix(0, completedAt.Int64).UTC()
	}

	return t, nil
}

func reminderTime(r task.Reminder) time.Time {
	if !r.IsSpecific() {
		return time.Time{}
	}

	return r.At
}

func nullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return r.Replace(s)
}
