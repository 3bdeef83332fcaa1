package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/calvinalkan/handled/internal/nudge"

	flag "github.com/spf13/pflag"
)

var (
	errNoNudge          = errors.New("no nudge is showing")
	errUnknownBridgeArg = errors.New("unknown bridge argument (only 'dismiss')")
)

// NudgeCmd returns the nudge command.
func NudgeCmd(d *deps) *Command {
	fs := flag.NewFlagSet("nudge", flag.ContinueOnError)
	fs.Bool("json", false, "Print the nudge as JSON")

	return &Command{
		Flags: fs,
		Usage: "nudge [flags]",
		Short: "Show the current nudge",
		Long: `Show the nudge that applies right now, if any.

At most one nudge shows at a time, in priority order sign-in, watch-setup,
watch-usage. None shows while a recording is in progress.`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			typ, ok := d.sess.CurrentNudge()

			asJSON, _ := fs.GetBool("json")
			if asJSON {
				return printNudgeJSON(io, typ, ok, d.sess.CaptureCount())
			}

			if !ok {
				io.Println("no nudge")

				return nil
			}

			content := nudge.ContentFor(typ, d.sess.CaptureCount())

			io.Printf("[%s]\n", typ)

			if content.Label != "" {
				io.Println(content.Label)
			}

			io.Println(content.Title)
			io.Println(content.Description)
			io.Printf("> %s\n", content.CTA)

			return nil
		},
	}
}

func printNudgeJSON(io *IO, typ nudge.Type, ok bool, captureCount int) error {
	if !ok {
		io.Println("null")

		return nil
	}

	data, err := json.Marshal(struct {
		Type nudge.Type `json:"type"`
		nudge.Content
	}{typ, nudge.ContentFor(typ, captureCount)})
	if err != nil {
		return fmt.Errorf("failed to encode nudge: %w", err)
	}

	io.Println(string(data))

	return nil
}

// DismissCmd returns the dismiss command.
func DismissCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("dismiss", flag.ContinueOnError),
		Usage: "dismiss [type]",
		Short: "Dismiss a nudge (default: the current one)",
		Exec: func(_ context.Context, io *IO, args []string) error {
			var typ nudge.Type

			if len(args) > 0 {
				parsed, err := nudge.ParseType(args[0])
				if err != nil {
					return err
				}

				typ = parsed
			} else {
				current, ok := d.sess.CurrentNudge()
				if !ok {
					return errNoNudge
				}

				typ = current
			}

			err := d.sess.DismissNudge(typ)
			if err != nil {
				return err
			}

			io.Printf("dismissed %s (%d times)\n", typ, d.sess.History()[typ].DismissCount)

			return nil
		},
	}
}

// BridgeCmd returns the bridge command.
func BridgeCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("bridge", flag.ContinueOnError),
		Usage: "bridge [dismiss]",
		Short: "Show or dismiss the post-sign-in watch prompt",
		Exec: func(_ context.Context, io *IO, args []string) error {
			if len(args) > 0 {
				if args[0] != "dismiss" {
					return fmt.Errorf("%w: %s", errUnknownBridgeArg, args[0])
				}

				d.sess.DismissBridge()
				io.Println("bridge dismissed")

				return nil
			}

			if !d.sess.Bridge() {
				io.Println("no bridge")

				return nil
			}

			io.Println("You're signed in. Capture from your wrist next: run 'watch' to set it up.")

			return nil
		},
	}
}
