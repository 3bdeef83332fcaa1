// Package capture simulates voice recording.
//
// A Recorder moves through idle -> recording <-> paused -> stopped. Stopping
// (by hand or when the time limit runs out) emits one Result whose text comes
// from a Transcriber. No audio is involved.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is the recorder state.
type State string

// Recorder states.
const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
)

// DefaultLimit is the longest a single recording may run.
const DefaultLimit = 60 * time.Second

// ErrInvalidTransition is returned when an operation does not apply to the
// current state.
var ErrInvalidTransition = errors.New("invalid recorder transition")

// Result is what a finished recording produces.
type Result struct {
	Text        string        `json:"text"`
	Duration    time.Duration `json:"duration"`
	AutoStopped bool          `json:"auto_stopped"`
}

// Transcriber turns a finished recording into text.
type Transcriber interface {
	Transcribe() string
}

// Recorder is safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	limit       time.Duration
	transcriber Transcriber

	state    State
	elapsed  time.Duration // accumulated before the current segment
	segStart time.Time     // start of the current recording segment
}

// NewRecorder returns an idle recorder. A limit <= 0 means DefaultLimit.
func NewRecorder(limit time.Duration, tr Transcriber) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}

	return &Recorder{limit: limit, transcriber: tr, state: StateIdle}
}

// Limit returns the recording time limit.
func (r *Recorder) Limit() time.Duration {
	return r.limit
}

// State returns the current state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Recording reports whether a recording is in progress, paused or not.
func (r *Recorder) Recording() bool {
	s := r.State()

	return s == StateRecording || s == StatePaused
}

// Start begins a new recording from idle or stopped.
func (r *Recorder) Start(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle && r.state != StateStopped {
		return r.transitionErr("start")
	}

	r.state = StateRecording
	r.elapsed = 0
	r.segStart = now

	return nil
}

// Pause freezes the countdown.
func (r *Recorder) Pause(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return r.transitionErr("pause")
	}

	r.elapsed = r.elapsedLocked(now)
	r.state = StatePaused

	return nil
}

// Resume continues a paused recording.
func (r *Recorder) Resume(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePaused {
		return r.transitionErr("resume")
	}

	r.state = StateRecording
	r.segStart = now

	return nil
}

// Stop finishes the recording and transcribes it.
func (r *Recorder) Stop(now time.Time) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording && r.state != StatePaused {
		return Result{}, r.transitionErr("stop")
	}

	return r.finishLocked(min(r.elapsedLocked(now), r.limit), false), nil
}

// Cancel discards any recording and returns to idle. Nothing is emitted.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateIdle
	r.elapsed = 0
	r.segStart = time.Time{}
}

// Elapsed returns the recorded time so far.
func (r *Recorder) Elapsed(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return min(r.elapsedLocked(now), r.limit)
}

// Remaining returns the time left before the recording stops by itself.
func (r *Recorder) Remaining(now time.Time) time.Duration {
	return r.limit - r.Elapsed(now)
}

// Tick stops the recording when the limit has run out. It reports whether a
// result was produced.
func (r *Recorder) Tick(now time.Time) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording || r.elapsedLocked(now) < r.limit {
		return Result{}, false
	}

	return r.finishLocked(r.limit, true), true
}

// Run calls Tick on every value from ticks until ctx is done or ticks is
// closed, passing auto-stopped results to emit. When clock is nil the tick
// value is used as the current time.
func (r *Recorder) Run(ctx context.Context, ticks <-chan time.Time, clock func() time.Time, emit func(Result)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tick, ok := <-ticks:
			if !ok {
				return nil
			}

			now := tick
			if clock != nil {
				now = clock()
			}

			if res, stopped := r.Tick(now); stopped && emit != nil {
				emit(res)
			}
		}
	}
}

func (r *Recorder) elapsedLocked(now time.Time) time.Duration {
	if r.state != StateRecording {
		return r.elapsed
	}

	return r.elapsed + max(now.Sub(r.segStart), 0)
}

func (r *Recorder) finishLocked(d time.Duration, auto bool) Result {
	r.state = StateStopped
	r.elapsed = d

	text := ""
	if r.transcriber != nil {
		text = r.transcriber.Transcribe()
	}

	return Result{Text: text, Duration: d, AutoStopped: auto}
}

func (r *Recorder) transitionErr(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, op, r.state)
}
