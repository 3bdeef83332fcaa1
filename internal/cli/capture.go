package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/handled/internal/nudge"

	flag "github.com/spf13/pflag"
)

// CaptureCmd returns the capture command.
func CaptureCmd(d *deps) *Command {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	fs.BoolP("watch", "w", false, "Capture from the watch (requires 'watch' to be enabled)")

	return &Command{
		Flags: fs,
		Usage: "capture [text...]",
		Short: "Capture a thought as a task",
		Long: `Capture a thought and turn it into a task.

Without text, a simulated transcription is used. The task's reminder,
checklist and buy link are derived from the text.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			watch, _ := fs.GetBool("watch")

			return execCapture(ctx, io, d, strings.Join(args, " "), watch)
		},
	}
}

func execCapture(ctx context.Context, io *IO, d *deps, text string, watch bool) error {
	capt := d.sess.Capture
	if watch {
		capt = d.sess.WatchCapture
	}

	t, err := capt(ctx, text)
	if err != nil {
		return err
	}

	io.Println(formatTaskLine(t, d.sess.Now()))
	printNudgeHint(io, d)

	return nil
}

// printNudgeHint mentions the current nudge, if any, after a command that may
// have changed it.
func printNudgeHint(io *IO, d *deps) {
	typ, ok := d.sess.CurrentNudge()
	if !ok {
		return
	}

	content := nudge.ContentFor(typ, d.sess.CaptureCount())
	io.Printf("nudge: %s (%s)\n", content.Title, typ)
}
