// Package nudge decides which single promotional prompt, if any, a user
// should see.
//
// Selection is a pure function of the user's state, their capture counters
// and the per-nudge dismiss history. Each nudge type has a policy: after a
// dismissal it stays hidden for a cooldown window, and once it has been
// dismissed MaxDismissals times it stays hidden for the longer suppression
// window.
package nudge

import (
	"errors"
	"fmt"
	"time"
)

// Type identifies a nudge.
type Type string

// Nudge types, in priority order.
const (
	SignIn     Type = "sign-in"
	WatchSetup Type = "watch-setup"
	WatchUsage Type = "watch-usage"
)

// Types lists every nudge type in priority order.
var Types = []Type{SignIn, WatchSetup, WatchUsage}

// Selection thresholds.
const (
	// SignInMinCaptures is how many captures a signed-out user makes before
	// being asked to sign in.
	SignInMinCaptures = 3

	// WatchUsageMaxCaptures is how many watch captures it takes for the
	// watch-usage nudge to retire.
	WatchUsageMaxCaptures = 2
)

const day = 24 * time.Hour

// ErrUnknownType is returned for a nudge type outside Types.
var ErrUnknownType = errors.New("unknown nudge type")

// ParseType validates a nudge type name.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Policy controls how long a dismissed nudge stays hidden.
type Policy struct {
	Cooldown      time.Duration
	Suppression   time.Duration
	MaxDismissals int
}

// DefaultPolicies returns the built-in policy for every type.
func DefaultPolicies() map[Type]Policy {
	return map[Type]Policy{
		SignIn:     {Cooldown: 7 * day, Suppression: 30 * day, MaxDismissals: 2},
		WatchSetup: {Cooldown: 3 * day, Suppression: 14 * day, MaxDismissals: 2},
		WatchUsage: {Cooldown: 3 * day, Suppression: 14 * day, MaxDismissals: 1},
	}
}

// Record is the dismiss history of one nudge type. A zero LastDismissedAt
// means the nudge was never dismissed.
type Record struct {
	DismissCount    int       `json:"dismiss_count"`
	LastDismissedAt time.Time `json:"last_dismissed_at,omitzero"`
}

// History maps each nudge type to its dismiss record. A nil History is
// valid and means nothing was ever dismissed.
type History map[Type]Record

// Dismiss records a dismissal of t at now.
func (h History) Dismiss(t Type, now time.Time) {
	rec := h[t]
	rec.DismissCount++
	rec.LastDismissedAt = now
	h[t] = rec
}

// Input is the user state the engine selects from.
type Input struct {
	SignedIn            bool
	WatchCaptureEnabled bool
	WatchCaptures       int
	CaptureCount        int
	Recording           bool
}

// Engine selects nudges using a policy per type.
type Engine struct {
	Policies map[Type]Policy
}

// NewEngine returns an engine using DefaultPolicies.
func NewEngine() *Engine {
	return &Engine{Policies: DefaultPolicies()}
}

// Select returns the highest-priority nudge that applies, or false when none
// does. Nothing is selected while a recording is in progress.
func (e *Engine) Select(in Input, hist History, now time.Time) (Type, bool) {
	if in.Recording {
		return "", false
	}

	for _, t := range Types {
		if applies(t, in) && !e.Suppressed(t, hist, now) {
			return t, true
		}
	}

	return "", false
}

func applies(t Type, in Input) bool {
	switch t {
	case SignIn:
		return !in.SignedIn && in.CaptureCount >= SignInMinCaptures
	case WatchSetup:
		return in.SignedIn && !in.WatchCaptureEnabled
	case WatchUsage:
		return in.SignedIn && in.WatchCaptureEnabled && in.WatchCaptures < WatchUsageMaxCaptures
	default:
		return false
	}
}

// Suppressed reports whether t is hidden at now because of its dismiss
// history. Types without a policy are never suppressed.
func (e *Engine) Suppressed(t Type, hist History, now time.Time) bool {
	rec, ok := hist[t]
	if !ok || rec.LastDismissedAt.IsZero() {
		return false
	}

	policy, ok := e.Policies[t]
	if !ok {
		return false
	}

	since := now.Sub(rec.LastDismissedAt)

	if rec.DismissCount >= policy.MaxDismissals && since < policy.Suppression {
		return true
	}

	return since < policy.Cooldown
}
