package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// DoneCmd returns the done command.
func DoneCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("done", flag.ContinueOnError),
		Usage: "done <id>...",
		Short: "Mark tasks done",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			for _, arg := range args {
				id, err := d.taskID(ctx, arg)
				if err != nil {
					return err
				}

				t, err := d.sess.Complete(ctx, id)
				if err != nil {
					return err
				}

				io.Println("done", shortID(t.ID))
			}

			return nil
		},
	}
}

// UndoCmd returns the undo command.
func UndoCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("undo", flag.ContinueOnError),
		Usage: "undo <id>",
		Short: "Reopen a completed task",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			id, err := d.taskID(ctx, args[0])
			if err != nil {
				return err
			}

			t, err := d.sess.Uncomplete(ctx, id)
			if err != nil {
				return err
			}

			io.Println("reopened", shortID(t.ID))

			return nil
		},
	}
}

// RmCmd returns the rm command.
func RmCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <id>",
		Short: "Delete a task",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			id, err := d.taskID(ctx, args[0])
			if err != nil {
				return err
			}

			t, err := d.sess.Delete(ctx, id)
			if err != nil {
				return err
			}

			io.Println("deleted", shortID(t.ID))

			return nil
		},
	}
}
