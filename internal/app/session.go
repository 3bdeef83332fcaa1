// Package app holds the in-memory state of one user session: tasks, the
// signed-in user, capture counters, nudge history and the recorder.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/calvinalkan/handled/internal/agenda"
	"github.com/calvinalkan/handled/internal/capture"
	"github.com/calvinalkan/handled/internal/nudge"
	"github.com/calvinalkan/handled/internal/store"
	"github.com/calvinalkan/handled/internal/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a Session. Zero fields get defaults.
type Options struct {
	Clock          Clock
	Location       *time.Location
	Engine         *nudge.Engine
	Transcriber    capture.Transcriber
	CaptureLimit   time.Duration
	UpcomingDays   int
	ReminderWindow time.Duration
	Logger         *zap.Logger

	// OnAutoCapture is called when a recording stops by itself and its task
	// has been stored (or failed to be).
	OnAutoCapture func(task.Task, error)
}

// Session is safe for concurrent use.
type Session struct {
	store    *store.Store
	recorder *capture.Recorder
	engine   *nudge.Engine
	clock    Clock
	loc      *time.Location
	log      *zap.Logger

	transcriber    capture.Transcriber
	upcomingDays   int
	reminderWindow time.Duration
	onAutoCapture  func(task.Task, error)

	mu           sync.Mutex
	user         *task.User
	captureCount int
	history      nudge.History
	bridge       bool
}

// New opens an empty session.
func New(ctx context.Context, opts Options) (*Session, error) {
	st, err := store.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}

	if opts.Location == nil {
		opts.Location = time.Local
	}

	if opts.Engine == nil {
		opts.Engine = nudge.NewEngine()
	}

	if opts.Transcriber == nil {
		opts.Transcriber = capture.NewSampleTranscriber(task.SampleTranscriptions, 0)
	}

	if opts.ReminderWindow <= 0 {
		opts.ReminderWindow = agenda.DefaultReminderWindow
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Session{
		store:          st,
		recorder:       capture.NewRecorder(opts.CaptureLimit, opts.Transcriber),
		engine:         opts.Engine,
		clock:          opts.Clock,
		loc:            opts.Location,
		log:            opts.Logger,
		transcriber:    opts.Transcriber,
		upcomingDays:   opts.UpcomingDays,
		reminderWindow: opts.ReminderWindow,
		onAutoCapture:  opts.OnAutoCapture,
		history:        nudge.History{},
	}, nil
}

// Close releases the task store. The session's tasks are gone afterwards.
func (s *Session) Close() error {
	return s.store.Close()
}

// Now returns the session time in the session's location.
func (s *Session) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Advance moves a manual clock forward and lets a running recording hit its
// limit. It returns the task an auto-stopped recording produced, if any.
func (s *Session) Advance(ctx context.Context, d time.Duration) (task.Task, bool, error) {
	mc, ok := s.clock.(*ManualClock)
	if !ok {
		return task.Task{}, false, ErrNotManualClock
	}

	mc.Advance(d)

	return s.Tick(ctx)
}

// Tick stops the recording if its limit has run out and stores the result.
func (s *Session) Tick(ctx context.Context) (task.Task, bool, error) {
	res, stopped := s.recorder.Tick(s.Now())
	if !stopped {
		return task.Task{}, false, nil
	}

	t, err := s.storeCapture(ctx, res.Text, SourceRecording)

	return t, true, err
}

// RunRecorder drives recording auto-stop from ticks until ctx is done.
func (s *Session) RunRecorder(ctx context.Context, ticks <-chan time.Time) error {
	return s.recorder.Run(ctx, ticks, s.Now, func(res capture.Result) {
		t, err := s.storeCapture(ctx, res.Text, SourceRecording)
		if s.onAutoCapture != nil {
			s.onAutoCapture(t, err)
		}
	})
}

// Capture stores a one-shot phone capture. An empty text is replaced by a
// simulated transcription.
func (s *Session) Capture(ctx context.Context, text string) (task.Task, error) {
	if s.recorder.Recording() {
		return task.Task{}, ErrRecordingInProgress
	}

	if text == "" {
		text = s.transcriber.Transcribe()
	}

	return s.storeCapture(ctx, text, SourcePhone)
}

// WatchCapture stores a capture made from the watch.
func (s *Session) WatchCapture(ctx context.Context, text string) (task.Task, error) {
	if s.recorder.Recording() {
		return task.Task{}, ErrRecordingInProgress
	}

	s.mu.Lock()
	err := s.requireWatchLocked()
	s.mu.Unlock()

	if err != nil {
		return task.Task{}, err
	}

	if text == "" {
		text = s.transcriber.Transcribe()
	}

	return s.storeCapture(ctx, text, SourceWatch)
}

func (s *Session) requireWatchLocked() error {
	if s.user == nil {
		return ErrNotSignedIn
	}

	if !s.user.WatchCaptureEnabled {
		return ErrWatchNotEnabled
	}

	return nil
}

func (s *Session) storeCapture(ctx context.Context, text, source string) (task.Task, error) {
	if text == "" {
		return task.Task{}, ErrEmptyCapture
	}

	t, err := s.store.Create(ctx, task.FromTranscription(text, s.Now()))
	if err != nil {
		s.log.Error("capture failed", zap.String("source", source), zap.Error(err))

		return task.Task{}, err
	}

	s.mu.Lock()
	s.captureCount++

	if source == SourceWatch && s.user != nil {
		s.user.WatchCaptures++
	}

	count := s.captureCount
	s.mu.Unlock()

	s.log.Info("task captured",
		zap.String("id", t.ID),
		zap.String("source", source),
		zap.String("reminder", t.Reminder.Type),
		zap.Int("capture_count", count))

	return t, nil
}

// StartRecording begins a simulated voice recording.
func (s *Session) StartRecording() error {
	err := s.recorder.Start(s.Now())
	if err != nil {
		return err
	}

	s.log.Debug("recording started", zap.Duration("limit", s.recorder.Limit()))

	return nil
}

// PauseRecording pauses the countdown.
func (s *Session) PauseRecording() error {
	return s.recorder.Pause(s.Now())
}

// ResumeRecording resumes a paused recording.
func (s *Session) ResumeRecording() error {
	return s.recorder.Resume(s.Now())
}

// StopRecording finishes the recording and stores its transcription.
func (s *Session) StopRecording(ctx context.Context) (task.Task, capture.Result, error) {
	res, err := s.recorder.Stop(s.Now())
	if err != nil {
		return task.Task{}, capture.Result{}, err
	}

	t, err := s.storeCapture(ctx, res.Text, SourceRecording)

	return t, res, err
}

// CancelRecording discards the recording.
func (s *Session) CancelRecording() {
	s.recorder.Cancel()
	s.log.Debug("recording cancelled")
}

// RecorderState returns the recorder state and the time left.
func (s *Session) RecorderState() (capture.State, time.Duration) {
	return s.recorder.State(), s.recorder.Remaining(s.Now())
}

// Recording reports whether a recording is running or paused.
func (s *Session) Recording() bool {
	return s.recorder.Recording()
}

// Task returns the task whose id is or starts with idOrPrefix.
func (s *Session) Task(ctx context.Context, idOrPrefix string) (task.Task, error) {
	return s.store.Resolve(ctx, idOrPrefix)
}

// Tasks returns every task, newest first.
func (s *Session) Tasks(ctx context.Context) ([]task.Task, error) {
	return s.store.List(ctx)
}

// Complete marks a task done.
func (s *Session) Complete(ctx context.Context, idOrPrefix string) (task.Task, error) {
	t, err := s.Task(ctx, idOrPrefix)
	if err != nil {
		return task.Task{}, err
	}

	if t.IsCompleted {
		return task.Task{}, fmt.Errorf("%w: %s", ErrTaskAlreadyDone, t.ID)
	}

	t, err = s.store.Complete(ctx, t.ID, s.Now())
	if err != nil {
		return task.Task{}, err
	}

	s.log.Info("task completed", zap.String("id", t.ID))

	return t, nil
}

// Uncomplete reopens a completed task.
func (s *Session) Uncomplete(ctx context.Context, idOrPrefix string) (task.Task, error) {
	t, err := s.Task(ctx, idOrPrefix)
	if err != nil {
		return task.Task{}, err
	}

	if !t.IsCompleted {
		return task.Task{}, fmt.Errorf("%w: %s", ErrTaskNotDone, t.ID)
	}

	t, err = s.store.Uncomplete(ctx, t.ID)
	if err != nil {
		return task.Task{}, err
	}

	s.log.Info("task reopened", zap.String("id", t.ID))

	return t, nil
}

// Delete removes a task and returns it.
func (s *Session) Delete(ctx context.Context, idOrPrefix string) (task.Task, error) {
	t, err := s.Task(ctx, idOrPrefix)
	if err != nil {
		return task.Task{}, err
	}

	err = s.store.Delete(ctx, t.ID)
	if err != nil {
		return task.Task{}, err
	}

	s.log.Info("task deleted", zap.String("id", t.ID))

	return t, nil
}

// Snooze pushes a task's reminder out by one of the snooze durations.
func (s *Session) Snooze(ctx context.Context, idOrPrefix, duration string) (task.Task, error) {
	until, err := task.SnoozeUntil(duration, s.Now())
	if err != nil {
		return task.Task{}, err
	}

	t, err := s.Task(ctx, idOrPrefix)
	if err != nil {
		return task.Task{}, err
	}

	t, err = s.store.SetReminder(ctx, t.ID, task.At(until))
	if err != nil {
		return task.Task{}, err
	}

	s.log.Info("task snoozed", zap.String("id", t.ID), zap.String("duration", duration), zap.Time("until", until))

	return t, nil
}

// SetReminder replaces a task's reminder.
func (s *Session) SetReminder(ctx context.Context, idOrPrefix string, r task.Reminder) (task.Task, error) {
	t, err := s.Task(ctx, idOrPrefix)
	if err != nil {
		return task.Task{}, err
	}

	t, err = s.store.SetReminder(ctx, t.ID, r)
	if err != nil {
		return task.Task{}, err
	}

	s.log.Info("reminder updated", zap.String("id", t.ID), zap.String("type", r.Type))

	return t, nil
}

// DeleteRecording drops the audio attached to one task.
func (s *Session) DeleteRecording(ctx context.Context, idOrPrefix string) (task.Task, error) {
	t, err := s.Task(ctx, idOrPrefix)
	if err != nil {
		return task.Task{}, err
	}

	if !t.HasAudio {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNoAudio, t.ID)
	}

	return s.store.ClearAudio(ctx, t.ID)
}

// DeleteAllRecordings drops every recording and returns how many there were.
func (s *Session) DeleteAllRecordings(ctx context.Context) (int, error) {
	n, err := s.store.ClearAllAudio(ctx)
	if err != nil {
		return 0, err
	}

	s.log.Info("recordings deleted", zap.Int("count", n))

	return n, nil
}

// Agenda partitions the current tasks.
func (s *Session) Agenda(ctx context.Context) (agenda.Buckets, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return agenda.Buckets{}, err
	}

	return agenda.PartitionWith(tasks, s.Now(), agenda.Options{UpcomingDays: s.upcomingDays}), nil
}

// DueReminders returns tasks whose reminder fires within the reminder window.
func (s *Session) DueReminders(ctx context.Context) ([]task.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	return agenda.Due(tasks, s.Now(), s.reminderWindow), nil
}

// SignIn signs a simulated user in. A nudge-triggered sign-in raises the
// post-sign-in bridge toward watch setup.
func (s *Session) SignIn(provider, trigger string) (task.User, error) {
	if !task.IsValidProvider(provider) {
		return task.User{}, fmt.Errorf("%w: %q", task.ErrInvalidProvider, provider)
	}

	if trigger != TriggerNudge && trigger != TriggerOrganic {
		return task.User{}, fmt.Errorf("%w: %q", ErrInvalidTrigger, trigger)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		return task.User{}, ErrAlreadySignedIn
	}

	email := "jane@gmail.com"
	if provider == task.ProviderApple {
		email = "jane@icloud.com"
	}

	s.user = &task.User{
		ID:       uuid.NewString(),
		Name:     "Jane Doe",
		Email:    email,
		Provider: provider,
	}
	s.bridge = trigger == TriggerNudge

	s.log.Info("signed in", zap.String("provider", provider), zap.String("trigger", trigger))

	return *s.user, nil
}

// SignOut forgets the user. Tasks and counters stay.
func (s *Session) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return ErrNotSignedIn
	}

	s.user = nil
	s.bridge = false

	s.log.Info("signed out")

	return nil
}

// User returns the signed-in user.
func (s *Session) User() (task.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return task.User{}, false
	}

	return *s.user, true
}

// EnableWatch turns on watch capture for the signed-in user and retires the
// post-sign-in bridge.
func (s *Session) EnableWatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return ErrNotSignedIn
	}

	if s.user.WatchCaptureEnabled {
		return ErrWatchAlreadyEnabled
	}

	s.user.WatchCaptureEnabled = true
	s.bridge = false

	s.log.Info("watch capture enabled")

	return nil
}

// Bridge reports whether the post-sign-in bridge should show.
func (s *Session) Bridge() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bridge
}

// DismissBridge hides the post-sign-in bridge.
func (s *Session) DismissBridge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bridge = false
}

// DeleteAccount removes every task, the user and the capture counter.
func (s *Session) DeleteAccount(ctx context.Context) error {
	s.recorder.Cancel()

	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.captureCount = 0
	s.bridge = false
	s.mu.Unlock()

	s.log.Info("account deleted", zap.Int("tasks", n))

	return nil
}

// CaptureCount returns how many captures this session has stored.
func (s *Session) CaptureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.captureCount
}

// CurrentNudge returns the nudge to show right now, if any.
func (s *Session) CurrentNudge() (nudge.Type, bool) {
	recording := s.recorder.Recording()
	now := s.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Select(s.nudgeInputLocked(recording), s.history, now)
}

func (s *Session) nudgeInputLocked(recording bool) nudge.Input {
	in := nudge.Input{CaptureCount: s.captureCount, Recording: recording}

	if s.user != nil {
		in.SignedIn = true
		in.WatchCaptureEnabled = s.user.WatchCaptureEnabled
		in.WatchCaptures = s.user.WatchCaptures
	}

	return in
}

// DismissNudge records a dismissal of t.
func (s *Session) DismissNudge(t nudge.Type) error {
	_, err := nudge.ParseType(string(t))
	if err != nil {
		return err
	}

	now := s.Now()

	s.mu.Lock()
	s.history.Dismiss(t, now)
	rec := s.history[t]
	s.mu.Unlock()

	s.log.Info("nudge dismissed", zap.String("type", string(t)), zap.Int("dismiss_count", rec.DismissCount))

	return nil
}

// History returns a copy of the nudge dismiss history.
func (s *Session) History() nudge.History {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(nudge.History, len(s.history))
	for k, v := range s.history {
		out[k] = v
	}

	return out
}

// IsNotFound reports whether err means an unknown task.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
