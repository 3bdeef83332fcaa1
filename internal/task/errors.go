package task

import "errors"

// Kind constants.
const (
	KindAction = "action"
	KindNote   = "note"
	KindDraft  = "draft"
)

// Reminder type constants.
const (
	ReminderSpecific = "specific"
	ReminderAnytime  = "anytime"
	ReminderNone     = "none"
)

// Snooze duration constants.
const (
	Snooze15Min    = "15min"
	Snooze1Hr      = "1hr"
	SnoozeTomorrow = "tomorrow"
)

// Error variables for task operations.
var (
	ErrInvalidKind         = errors.New("invalid kind")
	ErrInvalidReminderType = errors.New("invalid reminder type")
	ErrReminderTimeMissing = errors.New("specific reminder requires a time")
	ErrReminderOutOfRange  = errors.New("reminder time out of range (years 1678-2262)")
	ErrInvalidSnooze       = errors.New("invalid snooze duration (must be 15min|1hr|tomorrow)")
	ErrInvalidProvider     = errors.New("invalid provider (must be apple|google)")
)
