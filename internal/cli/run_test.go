package cli_test

import (
	"bytes"
	"testing"

	"github.com/calvinalkan/handled/internal/cli"
)

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("--invalid-flag", "ls")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")
	cli.AssertContains(t, stderr, "--cwd")
	cli.AssertContains(t, stderr, "--now")
}

func Test_Help_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	exitCode := cli.Run(nil, &stdout, &stderr, []string{"handled", "--help"}, nil, nil)

	if got, want := exitCode, 0; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stderr.String(), ""; got != want {
		t.Errorf("stderr=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stdout.String(), "handled - capture thoughts")
	cli.AssertContains(t, stdout.String(), "capture [text...]")
	cli.AssertContains(t, stdout.String(), "snooze <id> <duration>")
	cli.AssertContains(t, stdout.String(), "print-config")
}

func Test_Help_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("help")

	cli.AssertContains(t, stdout, "Commands:")
	cli.AssertContains(t, stdout, "serve [flags]")
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("frobnicate")

	cli.AssertContains(t, stderr, "unknown command: frobnicate")
}

func Test_Command_Help_When_Flag_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("snooze", "--help")

	cli.AssertContains(t, stdout, "Usage: handled snooze <id> <duration>")
	cli.AssertContains(t, stdout, "tomorrow means 9:00 AM tomorrow")
}

func Test_Invalid_Now_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Now = "yesterday-ish"

	stderr := c.MustFail("ls")

	cli.AssertContains(t, stderr, "invalid --now")
}

func Test_Invalid_Now_When_Year_Cannot_Be_Stored(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Now = "3000-01-01T10:00:00Z"

	stderr := c.MustFail("capture", "Water the plants")

	cli.AssertContains(t, stderr, "invalid --now")
}

func Test_Invalid_Timezone_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	_, stderr, code := c.Run("--tz", "Mars/Olympus_Mons", "ls")

	if code != 1 {
		t.Errorf("exitCode=%d, want=1", code)
	}

	cli.AssertContains(t, stderr, "invalid timezone")
}

func Test_Advance_Fails_When_Clock_Is_Real(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Now = ""

	stderr := c.MustFail("advance", "1s")

	cli.AssertContains(t, stderr, "clock cannot be advanced")
}

func Test_Advance_Rejects_Bad_Durations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing", args: []string{"advance"}, want: "duration is required"},
		{name: "garbage", args: []string{"advance", "soon"}, want: "invalid duration"},
		{name: "negative", args: []string{"advance", "-5m"}, want: "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stderr := c.MustFail(tt.args...)

			cli.AssertContains(t, stderr, tt.want)
		})
	}
}

func Test_Session_Continues_After_Failed_Line(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, code := c.Session(
		"done nope",
		"capture Water the plants",
		"# comments and blank lines are skipped",
		"",
		"ls",
	)

	if code != 1 {
		t.Errorf("exitCode=%d, want=1", code)
	}

	cli.AssertContains(t, stderr, "task not found")
	cli.AssertContains(t, stdout, "Today (1)")
	cli.AssertContains(t, stdout, "Water the plants")
}

func Test_Session_Stops_At_Exit(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustSession(
		"capture Water the plants",
		"exit",
		"capture Never runs",
	)

	cli.AssertContains(t, stdout, "Water the plants")
	cli.AssertNotContains(t, stdout, "Never runs")
}
