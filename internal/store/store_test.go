package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calvinalkan/handled/internal/store"
	"github.com/calvinalkan/handled/internal/task"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(t.Context())
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func mustCreate(t *testing.T, s *store.Store, text string, created time.Time) task.Task {
	t.Helper()

	got, err := s.Create(t.Context(), task.FromTranscription(text, created))
	require.NoError(t, err)

	return got
}

func Test_Create_Assigns_ID_And_Roundtrips_When_Task_Has_Checklist(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	in := task.FromTranscription("Pick up groceries on the way home - milk, eggs, and bread", t0)
	in.ID = "ignored"

	got, err := s.Create(t.Context(), in)
	require.NoError(t, err)

	if got.ID == "" || got.ID == "ignored" {
		t.Fatalf("ID = %q, want a fresh uuid", got.ID)
	}

	want := in
	want.ID = got.ID

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Create mismatch (-want +got):\n%s", diff)
	}

	fetched, err := s.Get(t.Context(), got.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(got, fetched); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}
}

func Test_Create_Rejects_Invalid_Task_When_Kind_Or_Reminder_Bad(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	bad := task.FromTranscription("x", t0)
	bad.Kind = "memo"

	_, err := s.Create(t.Context(), bad)
	if !errors.Is(err, task.ErrInvalidKind) {
		t.Errorf("kind err = %v, want ErrInvalidKind", err)
	}

	bad = task.FromTranscription("x", t0)
	bad.Reminder = task.Reminder{Type: task.ReminderSpecific}

	_, err = s.Create(t.Context(), bad)
	if !errors.Is(err, task.ErrReminderTimeMissing) {
		t.Errorf("reminder err = %v, want ErrReminderTimeMissing", err)
	}
}

func Test_List_Returns_Newest_First_When_Many_Tasks(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	first := mustCreate(t, s, "first", t0)
	second := mustCreate(t, s, "second", t0.Add(time.Minute))
	// Same timestamp as second: insertion order breaks the tie.
	third := mustCreate(t, s, "third", t0.Add(time.Minute))

	got, err := s.List(t.Context())
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, tk := range got {
		ids = append(ids, tk.ID)
	}

	if diff := cmp.Diff([]string{third.ID, second.ID, first.ID}, ids); diff != "" {
		t.Errorf("List order mismatch (-want +got):\n%s", diff)
	}

	n, err := s.Count(t.Context())
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func Test_Lifecycle_Updates_Task_When_Completed_Snoozed_And_Cleared(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := t.Context()
	tk := mustCreate(t, s, "water the plants", t0)

	done, err := s.Complete(ctx, tk.ID, t0.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, done.IsCompleted)
	require.True(t, done.CompletedAt.Equal(t0.Add(time.Hour)))

	reopened, err := s.Uncomplete(ctx, tk.ID)
	require.NoError(t, err)
	require.False(t, reopened.IsCompleted)
	require.True(t, reopened.CompletedAt.IsZero())

	snoozed, err := s.SetReminder(ctx, tk.ID, task.At(t0.Add(15*time.Minute)))
	require.NoError(t, err)

	if diff := cmp.Diff(task.At(t0.Add(15*time.Minute)), snoozed.Reminder); diff != "" {
		t.Errorf("reminder mismatch (-want +got):\n%s", diff)
	}

	cleared, err := s.SetReminder(ctx, tk.ID, task.NoReminder())
	require.NoError(t, err)
	require.True(t, cleared.Reminder.At.IsZero())

	silent, err := s.ClearAudio(ctx, tk.ID)
	require.NoError(t, err)
	require.False(t, silent.HasAudio)
}

func Test_SetReminder_Rejects_Time_When_Outside_Storable_Range(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := t.Context()
	tk := mustCreate(t, s, "water the plants", t0)

	_, err := s.SetReminder(ctx, tk.ID, task.At(time.Date(3000, time.January, 1, 10, 0, 0, 0, time.UTC)))
	require.ErrorIs(t, err, task.ErrReminderOutOfRange)

	got, err := s.Get(ctx, tk.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(tk.Reminder, got.Reminder); diff != "" {
		t.Errorf("reminder changed after rejected update (-want +got):\n%s", diff)
	}

	far := time.Date(2262, time.January, 1, 10, 0, 0, 0, time.UTC)

	stored, err := s.SetReminder(ctx, tk.ID, task.At(far))
	require.NoError(t, err)
	require.True(t, stored.Reminder.At.Equal(far), "read back %v, want %v", stored.Reminder.At, far)
}

func Test_Operations_Return_ErrNotFound_When_ID_Unknown(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := t.Context()

	for name, op := range map[string]func() error{
		"get":        func() error { _, err := s.Get(ctx, "nope"); return err },
		"complete":   func() error { _, err := s.Complete(ctx, "nope", t0); return err },
		"uncomplete": func() error { _, err := s.Uncomplete(ctx, "nope"); return err },
		"reminder":   func() error { _, err := s.SetReminder(ctx, "nope", task.Anytime()); return err },
		"audio":      func() error { _, err := s.ClearAudio(ctx, "nope"); return err },
		"delete":     func() error { return s.Delete(ctx, "nope") },
		"resolve":    func() error { _, err := s.Resolve(ctx, "zzzz"); return err },
	} {
		if err := op(); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("%s: err = %v, want ErrNotFound", name, err)
		}
	}
}

func Test_Resolve_Matches_Prefix_When_Unique(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	tk := mustCreate(t, s, "call mom", t0)

	got, err := s.Resolve(t.Context(), tk.ID[:8])
	require.NoError(t, err)
	require.Equal(t, tk.ID, got.ID)

	// "%" must not act as a wildcard.
	_, err = s.Resolve(t.Context(), "%")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("wildcard err = %v, want ErrNotFound", err)
	}
}

func Test_Resolve_Fails_When_Prefix_Ambiguous(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	// With enough tasks, some pair shares its first hex digit.
	seen := map[byte]bool{}

	var prefix string

	for i := 0; prefix == ""; i++ {
		tk := mustCreate(t, s, "task", t0.Add(time.Duration(i)*time.Second))
		if seen[tk.ID[0]] {
			prefix = tk.ID[:1]
		}

		seen[tk.ID[0]] = true
	}

	_, err := s.Resolve(t.Context(), prefix)
	if !errors.Is(err, store.ErrAmbiguousID) {
		t.Errorf("err = %v, want ErrAmbiguousID", err)
	}
}

func Test_Bulk_Operations_Count_Rows_When_Clearing(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	ctx := t.Context()

	a := mustCreate(t, s, "one, two", t0)
	mustCreate(t, s, "three", t0)
	mustCreate(t, s, "four", t0)

	_, err := s.ClearAudio(ctx, a.ID)
	require.NoError(t, err)

	n, err := s.ClearAllAudio(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, s.Delete(ctx, a.ID))

	n, err = s.DeleteAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	got, err := s.List(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff([]task.Task(nil), got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("List after DeleteAll (-want +got):\n%s", diff)
	}
}

func Test_Closed_Store_Returns_ErrClosed(t *testing.T) {
	t.Parallel()

	s, err := store.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.List(t.Context())
	if !errors.Is(err, store.ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}

	require.NoError(t, s.Close())
}
