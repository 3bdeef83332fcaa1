package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// RmAudioCmd returns the rm-audio command.
func RmAudioCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm-audio", flag.ContinueOnError),
		Usage: "rm-audio <id>",
		Short: "Delete a task's recording",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			id, err := d.taskID(ctx, args[0])
			if err != nil {
				return err
			}

			t, err := d.sess.DeleteRecording(ctx, id)
			if err != nil {
				return err
			}

			io.Println("recording deleted", shortID(t.ID))

			return nil
		},
	}
}

// WipeAudioCmd returns the wipe-audio command.
func WipeAudioCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("wipe-audio", flag.ContinueOnError),
		Usage: "wipe-audio",
		Short: "Delete every recording",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			n, err := d.sess.DeleteAllRecordings(ctx)
			if err != nil {
				return err
			}

			io.Printf("%d recordings deleted\n", n)

			return nil
		},
	}
}
