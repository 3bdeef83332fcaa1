package capture_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/calvinalkan/handled/internal/capture"
	"github.com/calvinalkan/handled/internal/task"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)

func Test_Recorder_Moves_Through_States_When_Driven(t *testing.T) {
	t.Parallel()

	rec := capture.NewRecorder(0, capture.Fixed("call the bank"))
	require.Equal(t, capture.DefaultLimit, rec.Limit())
	require.Equal(t, capture.StateIdle, rec.State())
	require.False(t, rec.Recording())

	require.NoError(t, rec.Start(t0))
	require.True(t, rec.Recording())

	require.NoError(t, rec.Pause(t0.Add(10*time.Second)))
	require.True(t, rec.Recording(), "paused still counts as recording")

	// Time spent paused does not count.
	if got := rec.Remaining(t0.Add(40 * time.Second)); got != 50*time.Second {
		t.Errorf("Remaining while paused = %v, want 50s", got)
	}

	require.NoError(t, rec.Resume(t0.Add(40*time.Second)))

	res, err := rec.Stop(t0.Add(45 * time.Second))
	require.NoError(t, err)

	if res.Text != "call the bank" || res.Duration != 15*time.Second || res.AutoStopped {
		t.Errorf("Stop() = %+v", res)
	}

	require.Equal(t, capture.StateStopped, rec.State())

	// A stopped recorder can start over.
	require.NoError(t, rec.Start(t0.Add(time.Minute)))
}

func Test_Recorder_Rejects_Transition_When_State_Wrong(t *testing.T) {
	t.Parallel()

	rec := capture.NewRecorder(time.Minute, capture.Fixed("x"))

	for name, err := range map[string]error{
		"pause idle":  rec.Pause(t0),
		"resume idle": rec.Resume(t0),
	} {
		if !errors.Is(err, capture.ErrInvalidTransition) {
			t.Errorf("%s: err = %v, want ErrInvalidTransition", name, err)
		}
	}

	_, err := rec.Stop(t0)
	if !errors.Is(err, capture.ErrInvalidTransition) {
		t.Errorf("stop idle: err = %v", err)
	}

	require.NoError(t, rec.Start(t0))

	if err := rec.Start(t0); !errors.Is(err, capture.ErrInvalidTransition) {
		t.Errorf("double start: err = %v", err)
	}

	if err := rec.Resume(t0); !errors.Is(err, capture.ErrInvalidTransition) {
		t.Errorf("resume recording: err = %v", err)
	}
}

func Test_Recorder_Returns_To_Idle_When_Cancelled(t *testing.T) {
	t.Parallel()

	rec := capture.NewRecorder(time.Minute, capture.Fixed("x"))
	require.NoError(t, rec.Start(t0))

	rec.Cancel()

	require.Equal(t, capture.StateIdle, rec.State())

	if _, ok := rec.Tick(t0.Add(2 * time.Minute)); ok {
		t.Error("cancelled recorder must not auto-stop")
	}
}

func Test_Recorder_Tick_Stops_When_Limit_Reached(t *testing.T) {
	t.Parallel()

	rec := capture.NewRecorder(60*time.Second, capture.Fixed("water plants"))
	require.NoError(t, rec.Start(t0))

	if _, ok := rec.Tick(t0.Add(59 * time.Second)); ok {
		t.Fatal("tick before limit must not stop")
	}

	res, ok := rec.Tick(t0.Add(61 * time.Second))
	require.True(t, ok)

	if res.Duration != 60*time.Second || !res.AutoStopped || res.Text != "water plants" {
		t.Errorf("Tick() = %+v", res)
	}

	if _, ok := rec.Tick(t0.Add(62 * time.Second)); ok {
		t.Error("second tick must not emit again")
	}
}

func Test_Recorder_Run_Emits_Result_When_Limit_Reached(t *testing.T) {
	t.Parallel()

	rec := capture.NewRecorder(3*time.Second, capture.Fixed("pay the bill"))
	require.NoError(t, rec.Start(t0))

	ticks := make(chan time.Time)
	results := make(chan capture.Result, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- rec.Run(ctx, ticks, nil, func(r capture.Result) { results <- r })
	}()

	ticks <- t0.Add(time.Second)
	ticks <- t0.Add(2 * time.Second)
	ticks <- t0.Add(3 * time.Second)

	res := <-results
	if res.Text != "pay the bill" || !res.AutoStopped {
		t.Errorf("emitted %+v", res)
	}

	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() err = %v, want context.Canceled", err)
	}
}

func Test_Recorder_Run_Returns_When_Ticks_Close(t *testing.T) {
	t.Parallel()

	rec := capture.NewRecorder(time.Second, capture.Fixed("x"))
	ticks := make(chan time.Time)
	close(ticks)

	require.NoError(t, rec.Run(context.Background(), ticks, nil, nil))
}

func Test_SampleTranscriber_Repeats_When_Seed_Same(t *testing.T) {
	t.Parallel()

	a := capture.NewSampleTranscriber(task.SampleTranscriptions, 42)
	b := capture.NewSampleTranscriber(task.SampleTranscriptions, 42)

	for range 20 {
		got := a.Transcribe()
		if got != b.Transcribe() {
			t.Fatal("same seed must produce the same sequence")
		}

		if !slices.Contains(task.SampleTranscriptions, got) {
			t.Fatalf("%q is not a sample transcription", got)
		}
	}

	if got := capture.NewSampleTranscriber(nil, 1).Transcribe(); got != "" {
		t.Errorf("empty pool = %q, want empty", got)
	}
}
