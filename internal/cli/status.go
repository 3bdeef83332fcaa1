package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"
)

var (
	errDurationArgRequired = errors.New("duration is required (e.g. 30s, 2h)")
	errNegativeDuration    = errors.New("duration must not be negative")
	errPathRequired        = errors.New("export path is required")
)

// AdvanceCmd returns the advance command.
func AdvanceCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("advance", flag.ContinueOnError),
		Usage: "advance <duration>",
		Short: "Move the frozen clock forward",
		Long: `Move the clock forward by a Go duration (30s, 15m, 2h).

Only works when started with --now. A recording that reaches its limit
stops and is captured.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errDurationArgRequired
			}

			dur, err := time.ParseDuration(args[0])
			if err != nil {
				return err
			}

			if dur < 0 {
				return fmt.Errorf("%w: %s", errNegativeDuration, args[0])
			}

			t, stopped, err := d.sess.Advance(ctx, dur)
			if err != nil {
				return err
			}

			io.Println("now", d.sess.Now().Format(time.RFC3339))

			if stopped {
				io.Println("recording stopped at limit")
				io.Println(formatTaskLine(t, d.sess.Now()))
			}

			return nil
		},
	}
}

// StatusCmd returns the status command.
func StatusCmd(d *deps) *Command {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.Bool("json", false, "Print the full session snapshot as JSON")

	return &Command{
		Flags: fs,
		Usage: "status [flags]",
		Short: "Show session state",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			snap, err := d.sess.Snapshot(ctx)
			if err != nil {
				return err
			}

			if asJSON, _ := fs.GetBool("json"); asJSON {
				data, marshalErr := json.MarshalIndent(snap, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("failed to encode snapshot: %w", marshalErr)
				}

				io.Println(string(data))

				return nil
			}

			io.Println("now:", snap.Now.Format(time.RFC3339))

			if snap.User != nil {
				io.Printf("user: %s <%s> via %s\n", snap.User.Name, snap.User.Email, snap.User.Provider)
				io.Printf("watch: enabled=%t captures=%d\n", snap.User.WatchCaptureEnabled, snap.User.WatchCaptures)
			} else {
				io.Println("user: signed out")
			}

			io.Println("captures:", snap.CaptureCount)
			io.Println("open tasks:", snap.Agenda.Open())
			io.Println("recorder:", snap.Recorder)

			if snap.Nudge != nil {
				io.Printf("nudge: %s (%s)\n", snap.Nudge.Title, snap.NudgeType)
			} else {
				io.Println("nudge: none")
			}

			return nil
		},
	}
}

// ExportCmd returns the export command.
func ExportCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("export", flag.ContinueOnError),
		Usage: "export <path>",
		Short: "Write a JSON snapshot of the session",
		Long:  "Write the session snapshot to <path> atomically. Relative paths resolve against the working directory.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errPathRequired
			}

			path := args[0]
			if !filepath.IsAbs(path) {
				path = filepath.Join(d.cfg.EffectiveCwd, path)
			}

			_, err := d.sess.Export(ctx, path)
			if err != nil {
				return err
			}

			io.Println("exported", path)

			return nil
		},
	}
}
