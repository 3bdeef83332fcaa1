package task

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Task is one captured item.
type Task struct {
	ID             string    `json:"id"`
	Summary        string    `json:"summary"`
	FullText       string    `json:"full_text"`
	Kind           string    `json:"kind"`
	Reminder       Reminder  `json:"reminder"`
	HasAudio       bool      `json:"has_audio"`
	HasChecklist   bool      `json:"has_checklist"`
	ChecklistItems []string  `json:"checklist_items,omitempty"`
	IsBuyIntent    bool      `json:"is_buy_intent"`
	BuyLink        string    `json:"buy_link,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	CompletedAt    time.Time `json:"completed_at,omitzero"`
	IsCompleted    bool      `json:"is_completed"`
}

// Reminder says when a task should surface. At is only meaningful for
// ReminderSpecific.
type Reminder struct {
	Type string    `json:"type"`
	At   time.Time `json:"at,omitzero"`
}

// At returns a specific reminder for t.
func At(t time.Time) Reminder {
	return Reminder{Type: ReminderSpecific, At: t}
}

// Anytime returns a reminder for "today, no particular time".
func Anytime() Reminder {
	return Reminder{Type: ReminderAnytime}
}

// NoReminder returns the empty reminder.
func NoReminder() Reminder {
	return Reminder{Type: ReminderNone}
}

// IsSpecific reports whether the reminder carries a date.
func (r Reminder) IsSpecific() bool {
	return r.Type == ReminderSpecific
}

// Stored times are int64 nanoseconds since the Unix epoch.
var (
	minStorableTime = time.Unix(0, math.MinInt64)
	maxStorableTime = time.Unix(0, math.MaxInt64)
)

// InStorableRange reports whether t survives a round trip through the store.
func InStorableRange(t time.Time) bool {
	return !t.Before(minStorableTime) && !t.After(maxStorableTime)
}

// Validate checks the reminder type and, for specific reminders, the time.
func (r Reminder) Validate() error {
	switch r.Type {
	case ReminderSpecific:
		if r.At.IsZero() {
			return ErrReminderTimeMissing
		}

		if !InStorableRange(r.At) {
			return fmt.Errorf("%w: %s", ErrReminderOutOfRange, r.At.Format(time.RFC3339))
		}
	case ReminderAnytime, ReminderNone:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidReminderType, r.Type)
	}

	return nil
}

var validKinds = []string{KindAction, KindNote, KindDraft}

// IsValidKind checks if the kind is valid.
func IsValidKind(kind string) bool {
	return slices.Contains(validKinds, kind)
}

// IsSaveable reports whether the kind belongs on the saved list.
func IsSaveable(kind string) bool {
	return kind == KindNote || kind == KindDraft
}

// User is the signed-in account. A nil *User means signed out.
type User struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Provider            string `json:"provider"`
	WatchCaptureEnabled bool   `json:"watch_capture_enabled"`
	WatchCaptures       int    `json:"watch_captures"`
}

// Provider constants.
const (
	ProviderApple  = "apple"
	ProviderGoogle = "google"
)

// IsValidProvider checks if the sign-in provider is supported.
func IsValidProvider(p string) bool {
	return p == ProviderApple || p == ProviderGoogle
}
