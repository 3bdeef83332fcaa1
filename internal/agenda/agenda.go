// Package agenda buckets tasks into the lists a user sees: overdue, today,
// upcoming, saved and completed.
//
// Everything here is a pure function of the task slice and a reference time.
// Calendar comparisons ("is today", "tomorrow") use the location of the
// reference time, so callers control the user's time zone by passing
// now.In(loc).
package agenda

import (
	"time"

	"github.com/calvinalkan/handled/internal/task"
)

// DefaultUpcomingDays is how far ahead the upcoming list looks.
const DefaultUpcomingDays = 7

// Buckets is a partition of tasks. Every incomplete task lands in at most one
// of Overdue, Today, Upcoming or Saved; every completed task lands in
// Completed. Input order is preserved within each bucket.
type Buckets struct {
	Overdue   []task.Task `json:"overdue"`
	Today     []task.Task `json:"today"`
	Upcoming  []task.Task `json:"upcoming"`
	Saved     []task.Task `json:"saved"`
	Completed []task.Task `json:"completed"`
}

// EmptyState describes what an empty agenda should say.
type EmptyState string

// Empty states.
const (
	EmptyNone    EmptyState = ""
	EmptyNoTasks EmptyState = "no-tasks"
	EmptyAllDone EmptyState = "all-done"
)

// Options tunes Partition. The zero value uses the defaults.
type Options struct {
	// UpcomingDays bounds the upcoming list. Values <= 0 mean
	// DefaultUpcomingDays.
	UpcomingDays int
}

// Partition categorizes tasks relative to now using the default options.
func Partition(tasks []task.Task, now time.Time) Buckets {
	return PartitionWith(tasks, now, Options{})
}

// PartitionWith categorizes tasks relative to now.
func PartitionWith(tasks []task.Task, now time.Time, opts Options) Buckets {
	days := opts.UpcomingDays
	if days <= 0 {
		days = DefaultUpcomingDays
	}

	horizon := now.AddDate(0, 0, days)

	var b Buckets

	for _, t := range tasks {
		if t.IsCompleted {
			b.Completed = append(b.Completed, t)

			continue
		}

		switch {
		case isOverdue(t, now):
			b.Overdue = append(b.Overdue, t)
		case isToday(t, now):
			b.Today = append(b.Today, t)
		case isUpcoming(t, now, horizon):
			b.Upcoming = append(b.Upcoming, t)
		case task.IsSaveable(t.Kind):
			b.Saved = append(b.Saved, t)
		}
	}

	return b
}

func isOverdue(t task.Task, now time.Time) bool {
	r := t.Reminder

	return r.IsSpecific() && r.At.Before(now) && !SameDay(r.At, now)
}

func isToday(t task.Task, now time.Time) bool {
	r := t.Reminder
	if r.Type == task.ReminderAnytime {
		return true
	}

	return r.IsSpecific() && SameDay(r.At, now)
}

func isUpcoming(t task.Task, now, horizon time.Time) bool {
	r := t.Reminder

	return r.IsSpecific() && r.At.After(now) && !SameDay(r.At, now) && r.At.Before(horizon)
}

// SameDay reports whether t falls on the same calendar date as ref, in ref's
// location.
func SameDay(t, ref time.Time) bool {
	t = t.In(ref.Location())

	y1, m1, d1 := t.Date()
	y2, m2, d2 := ref.Date()

	return y1 == y2 && m1 == m2 && d1 == d2
}

// Open returns the number of incomplete tasks shown on any list.
func (b Buckets) Open() int {
	return len(b.Overdue) + len(b.Today) + len(b.Upcoming) + len(b.Saved)
}

// State reports which empty state, if any, applies.
func (b Buckets) State() EmptyState {
	if b.Open() > 0 {
		return EmptyNone
	}

	if len(b.Completed) > 0 {
		return EmptyAllDone
	}

	return EmptyNoTasks
}
