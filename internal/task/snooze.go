package task

import (
	"fmt"
	"time"
)

// Hour of day a "tomorrow" snooze lands on.
const snoozeTomorrowHour = 9

// ParseSnooze validates a snooze duration name.
func ParseSnooze(s string) (string, error) {
	switch s {
	case Snooze15Min, Snooze1Hr, SnoozeTomorrow:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSnooze, s)
	}
}

// SnoozeUntil returns the reminder time a snooze of the given duration
// produces when applied at now.
func SnoozeUntil(duration string, now time.Time) (time.Time, error) {
	switch duration {
	case Snooze15Min:
		return now.Add(15 * time.Minute), nil
	case Snooze1Hr:
		return now.Add(time.Hour), nil
	case SnoozeTomorrow:
		return time.Date(now.Year(), now.Month(), now.Day()+1, snoozeTomorrowHour, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSnooze, duration)
	}
}
