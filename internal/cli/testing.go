package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNow is the frozen clock every test CLI starts at.
const TestNow = "2025-06-11T10:00:00Z"

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp directory, environment variables and a frozen clock.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string

	// Now is passed as --now; empty runs on the real clock.
	Now string
}

// NewCLI creates a new test CLI with a temp directory, UTC and the clock
// frozen at TestNow.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	dir := t.TempDir()

	return &CLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{"XDG_CONFIG_HOME": filepath.Join(dir, ".config")},
		Now: TestNow,
	}
}

func (r *CLI) args(args []string) []string {
	full := []string{"handled", "--cwd", r.Dir, "--tz", "UTC"}
	if r.Now != "" {
		full = append(full, "--now", r.Now)
	}

	return append(full, args...)
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "handled", "--cwd", "--tz" or "--now" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	code := Run(nil, &outBuf, &errBuf, r.args(args), r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// RunWithInput executes the CLI with stdin and returns stdout, stderr, and exit code.
// stdin must be a string or io.Reader; panics otherwise.
func (r *CLI) RunWithInput(stdin any, args ...string) (string, string, int) {
	var inReader io.Reader

	switch v := stdin.(type) {
	case string:
		inReader = strings.NewReader(v)
	case io.Reader:
		inReader = v
	default:
		panic(fmt.Sprintf("stdin must be string or io.Reader, got %T", stdin))
	}

	var outBuf, errBuf bytes.Buffer

	code := Run(inReader, &outBuf, &errBuf, r.args(args), r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// Session runs the given lines as one interactive session and returns stdout,
// stderr and the exit code.
func (r *CLI) Session(lines ...string) (string, string, int) {
	return r.RunWithInput(strings.Join(lines, "\n") + "\n")
}

// MustSession runs a session and fails the test if any line failed.
// Returns trimmed stdout on success.
func (r *CLI) MustSession(lines ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Session(lines...)
	if code != 0 {
		r.t.Fatalf("session %q failed with exit code %d\nstdout: %s\nstderr: %s", lines, code, stdout, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// WriteConfig writes the project config file.
func (r *CLI) WriteConfig(content string) {
	r.t.Helper()

	err := os.WriteFile(filepath.Join(r.Dir, ".handled.json"), []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write config: %v", err)
	}
}

// ReadFile reads a file relative to the CLI's directory.
func (r *CLI) ReadFile(name string) string {
	r.t.Helper()

	content, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		r.t.Fatalf("failed to read %s: %v", name, err)
	}

	return string(content)
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
