package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"
)

// ShowCmd returns the show command.
func ShowCmd(d *deps) *Command {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.Bool("json", false, "Print the task as JSON")

	return &Command{
		Flags: fs,
		Usage: "show <id>",
		Short: "Show task details",
		Long:  "Display every field of a task. Any unique id prefix works; 'last' is the newest task.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			id, err := d.taskID(ctx, args[0])
			if err != nil {
				return err
			}

			t, err := d.sess.Task(ctx, id)
			if err != nil {
				return err
			}

			if asJSON, _ := fs.GetBool("json"); asJSON {
				data, marshalErr := json.MarshalIndent(t, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("failed to encode task: %w", marshalErr)
				}

				io.Println(string(data))

				return nil
			}

			io.Printf("%s", formatTask(t, d.sess.Now()))

			return nil
		},
	}
}
