package cli

import (
	"context"
	"time"

	flag "github.com/spf13/pflag"
)

// RecordCmd returns the record command.
func RecordCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("record", flag.ContinueOnError),
		Usage: "record",
		Short: "Start a voice recording",
		Long: `Start a simulated voice recording.

The recording stops by itself when the capture limit runs out. Use
pause/resume to hold the countdown, stop to keep the capture and cancel
to throw it away.`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			err := d.sess.StartRecording()
			if err != nil {
				return err
			}

			_, left := d.sess.RecorderState()
			io.Printf("recording (%s left)\n", left.Round(time.Second))

			return nil
		},
	}
}

// PauseCmd returns the pause command.
func PauseCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("pause", flag.ContinueOnError),
		Usage: "pause",
		Short: "Pause the recording",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			err := d.sess.PauseRecording()
			if err != nil {
				return err
			}

			_, left := d.sess.RecorderState()
			io.Printf("paused (%s left)\n", left.Round(time.Second))

			return nil
		},
	}
}

// ResumeCmd returns the resume command.
func ResumeCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("resume", flag.ContinueOnError),
		Usage: "resume",
		Short: "Resume a paused recording",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			err := d.sess.ResumeRecording()
			if err != nil {
				return err
			}

			_, left := d.sess.RecorderState()
			io.Printf("recording (%s left)\n", left.Round(time.Second))

			return nil
		},
	}
}

// StopCmd returns the stop command.
func StopCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("stop", flag.ContinueOnError),
		Usage: "stop",
		Short: "Stop recording and capture it",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			t, res, err := d.sess.StopRecording(ctx)
			if err != nil {
				return err
			}

			io.Printf("stopped after %s\n", res.Duration.Round(time.Second))
			io.Println(formatTaskLine(t, d.sess.Now()))
			printNudgeHint(io, d)

			return nil
		},
	}
}

// CancelCmd returns the cancel command.
func CancelCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("cancel", flag.ContinueOnError),
		Usage: "cancel",
		Short: "Discard the recording",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			d.sess.CancelRecording()
			io.Println("recording discarded")

			return nil
		},
	}
}
