package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/handled/internal/cli"
)

// FuzzCLI_DoesNotCrash_When_Session_Gets_Arbitrary_Input feeds arbitrary
// lines into a session and checks the session is still usable afterwards.
func FuzzCLI_DoesNotCrash_When_Session_Gets_Arbitrary_Input(f *testing.F) {
	// === Empty/whitespace/help ===
	f.Add("")
	f.Add(" ")
	f.Add("\t")
	f.Add("help")
	f.Add("-h")

	// === capture ===
	f.Add("capture")
	f.Add("capture Call mom tomorrow")
	f.Add("capture --watch")
	f.Add("capture -w buy milk")
	f.Add("capture 日本語")
	f.Add("capture " + strings.Repeat("x", 500))

	// === recording ===
	f.Add("record\nadvance 30s\npause\nresume\nstop")
	f.Add("record\nadvance 2m")
	f.Add("pause")
	f.Add("stop")
	f.Add("cancel")
	f.Add("advance -5s")
	f.Add("advance forever")

	// === task ops ===
	f.Add("capture x\ndone last\nundo last\nrm last")
	f.Add("done")
	f.Add("done zzzzzzzz")
	f.Add("show last")
	f.Add("snooze last 1h")
	f.Add("capture x\nsnooze last 3d")
	f.Add("capture x\nsnooze last never")
	f.Add("capture x\nremind last 09:30")
	f.Add("capture x\nremind last 25:99")
	f.Add("rm-audio last")
	f.Add("wipe-audio")
	f.Add("ls --json")
	f.Add("ls --open")
	f.Add("reminders")

	// === account and nudges ===
	f.Add("signin apple --via nudge\nwatch\ncapture -w\nsignout")
	f.Add("signin myspace")
	f.Add("signin google --via carrier-pigeon")
	f.Add("signout")
	f.Add("watch")
	f.Add("delete-account")
	f.Add("capture\ncapture\ncapture\nnudge\ndismiss\ndismiss sign-in")
	f.Add("dismiss power")
	f.Add("bridge dismiss")

	// === Unknown commands ===
	f.Add("unknown")
	f.Add("ls --invalid-flag")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 4096 {
			t.Skip()
		}

		for line := range strings.SplitSeq(input, "\n") {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}

			// serve blocks and export writes wherever it is pointed.
			switch fields[0] {
			case "serve", "export", "exit", "quit":
				t.Skip()
			}
		}

		c := cli.NewCLI(t)

		stdout, stderr, code := c.Session(input, "status")
		if code != 0 && code != 1 {
			t.Fatalf("exit code = %d, want 0 or 1\nstderr: %s", code, stderr)
		}

		if !strings.Contains(stdout, "captures:") {
			t.Fatalf("status did not run after input %q\nstdout: %s\nstderr: %s", input, stdout, stderr)
		}
	})
}
