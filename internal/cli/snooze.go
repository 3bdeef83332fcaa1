package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/handled/internal/agenda"
	"github.com/calvinalkan/handled/internal/task"

	flag "github.com/spf13/pflag"
)

var (
	errDurationRequired = errors.New("snooze duration is required (15min|1hr|tomorrow)")
	errReminderRequired = errors.New("reminder is required (anytime|none|HH:MM|YYYY-MM-DD HH:MM)")
	errInvalidReminder  = errors.New("invalid reminder (use anytime|none|HH:MM|YYYY-MM-DD HH:MM)")
)

// SnoozeCmd returns the snooze command.
func SnoozeCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("snooze", flag.ContinueOnError),
		Usage: "snooze <id> <duration>",
		Short: "Snooze a task (15min|1hr|tomorrow)",
		Long: `Push a task's reminder out.

15min and 1hr count from now; tomorrow means 9:00 AM tomorrow.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			if len(args) < 2 {
				return errDurationRequired
			}

			id, err := d.taskID(ctx, args[0])
			if err != nil {
				return err
			}

			t, err := d.sess.Snooze(ctx, id, args[1])
			if err != nil {
				return err
			}

			if t.IsCompleted {
				io.Warn("task "+shortID(t.ID)+" is already done", "run 'undo "+shortID(t.ID)+"' to see its reminder on the agenda")
			}

			io.Println(formatTaskLine(t, d.sess.Now()))

			return nil
		},
	}
}

// RemindCmd returns the remind command.
func RemindCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("remind", flag.ContinueOnError),
		Usage: "remind <id> <when>",
		Short: "Set a task's reminder",
		Long: `Replace a task's reminder.

<when> is anytime, none, a time of day (HH:MM, today) or a date and time
(YYYY-MM-DD HH:MM).`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errIDRequired
			}

			if len(args) < 2 {
				return errReminderRequired
			}

			r, err := parseReminder(strings.Join(args[1:], " "), d.sess.Now())
			if err != nil {
				return err
			}

			id, err := d.taskID(ctx, args[0])
			if err != nil {
				return err
			}

			t, err := d.sess.SetReminder(ctx, id, r)
			if err != nil {
				return err
			}

			io.Println(formatTaskLine(t, d.sess.Now()))

			return nil
		},
	}
}

func parseReminder(value string, now time.Time) (task.Reminder, error) {
	switch value {
	case task.ReminderAnytime:
		return task.Anytime(), nil
	case task.ReminderNone:
		return task.NoReminder(), nil
	}

	if clock, err := time.Parse("15:04", value); err == nil {
		at := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())

		return task.At(at), nil
	}

	for _, layout := range nowLayouts {
		at, err := time.ParseInLocation(layout, value, now.Location())
		if err == nil {
			return task.At(at), nil
		}
	}

	return task.Reminder{}, fmt.Errorf("%w: %q", errInvalidReminder, value)
}

// RemindersCmd returns the reminders command.
func RemindersCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("reminders", flag.ContinueOnError),
		Usage: "reminders",
		Short: "Show reminders about to fire",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			due, err := d.sess.DueReminders(ctx)
			if err != nil {
				return err
			}

			if len(due) == 0 {
				io.Println("no reminders due")

				return nil
			}

			now := d.sess.Now()

			for _, t := range due {
				io.Printf("reminder: %s  %s  (%s)\n", shortID(t.ID), t.Summary, agenda.FormatReminder(t.Reminder, now))
			}

			return nil
		},
	}
}
