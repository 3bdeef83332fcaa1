package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calvinalkan/handled/internal/task"

	flag "github.com/spf13/pflag"
)

// LsCmd returns the ls command.
func LsCmd(d *deps) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.Bool("json", false, "Print the agenda as JSON")
	fs.Bool("open", false, "Hide completed tasks")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List tasks by agenda section",
		Long: `List tasks grouped into Overdue, Today, Upcoming, Saved and Completed.

Empty sections are omitted.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			asJSON, _ := fs.GetBool("json")
			openOnly, _ := fs.GetBool("open")

			return execLs(ctx, io, d, asJSON, openOnly)
		},
	}
}

func execLs(ctx context.Context, io *IO, d *deps, asJSON, openOnly bool) error {
	b, err := d.sess.Agenda(ctx)
	if err != nil {
		return err
	}

	if openOnly {
		b.Completed = nil
	}

	if asJSON {
		data, marshalErr := json.MarshalIndent(b, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to encode agenda: %w", marshalErr)
		}

		io.Println(string(data))

		return nil
	}

	if msg := emptyStateMessage(b.State()); msg != "" {
		io.Println(msg)

		if len(b.Completed) == 0 {
			return nil
		}
	}

	now := d.sess.Now()

	sections := []struct {
		title string
		tasks []task.Task
	}{
		{"Overdue", b.Overdue},
		{"Today", b.Today},
		{"Upcoming", b.Upcoming},
		{"Saved", b.Saved},
		{"Completed", b.Completed},
	}

	for _, s := range sections {
		if len(s.tasks) == 0 {
			continue
		}

		io.Printf("%s (%d)\n", s.title, len(s.tasks))

		for _, t := range s.tasks {
			io.Println(formatTaskLine(t, now))
		}
	}

	return nil
}
