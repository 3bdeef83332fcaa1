package agenda

import (
	"cmp"
	"slices"
	"time"

	"github.com/calvinalkan/handled/internal/task"
)

// DefaultReminderWindow is how far ahead Due looks for reminders to fire.
const DefaultReminderWindow = 5 * time.Second

// Due returns the incomplete tasks whose specific reminder falls in
// (now, now+window], soonest first.
func Due(tasks []task.Task, now time.Time, window time.Duration) []task.Task {
	var due []task.Task

	for _, t := range tasks {
		if t.IsCompleted || !t.Reminder.IsSpecific() {
			continue
		}

		until := t.Reminder.At.Sub(now)
		if until > 0 && until <= window {
			due = append(due, t)
		}
	}

	slices.SortStableFunc(due, func(a, b task.Task) int {
		return cmp.Compare(a.Reminder.At.UnixNano(), b.Reminder.At.UnixNano())
	})

	return due
}

// FormatReminder renders a reminder the way task cards label it.
func FormatReminder(r task.Reminder, now time.Time) string {
	switch r.Type {
	case task.ReminderAnytime:
		return "Anytime today"
	case task.ReminderSpecific:
	default:
		return "No reminder"
	}

	at := r.At.In(now.Location())

	switch {
	case SameDay(at, now):
		return "Today, " + at.Format("3:04 PM")
	case SameDay(at, now.AddDate(0, 0, 1)):
		return "Tomorrow, " + at.Format("3:04 PM")
	default:
		return at.Format("Mon, Jan 2")
	}
}
