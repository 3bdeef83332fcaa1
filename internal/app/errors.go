package app

import "errors"

// Sign-in triggers.
const (
	TriggerNudge   = "nudge"
	TriggerOrganic = "organic"
)

// Capture sources, as logged.
const (
	SourcePhone     = "phone"
	SourceWatch     = "watch"
	SourceRecording = "recording"
)

// Error variables for session operations.
var (
	ErrNotSignedIn         = errors.New("not signed in")
	ErrAlreadySignedIn     = errors.New("already signed in")
	ErrWatchNotEnabled     = errors.New("watch capture is not enabled")
	ErrWatchAlreadyEnabled = errors.New("watch capture is already enabled")
	ErrInvalidTrigger      = errors.New("invalid sign-in trigger (must be nudge|organic)")
	ErrEmptyCapture        = errors.New("capture produced no text")
	ErrRecordingInProgress = errors.New("a recording is in progress")
	ErrNotManualClock      = errors.New("clock cannot be advanced (start with --now)")
	ErrTaskAlreadyDone     = errors.New("task is already completed")
	ErrTaskNotDone         = errors.New("task is not completed")
	ErrNoAudio             = errors.New("task has no recording")
)
