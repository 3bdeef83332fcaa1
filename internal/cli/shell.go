package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
)

// How often the real-clock recorder timer checks the limit.
const recorderTick = 200 * time.Millisecond

// Default history file name under the user's home directory.
const historyFileName = ".handled_history"

const historyFilePerms = 0o600

// runShell reads commands until EOF or exit. An interactive terminal gets a
// line editor; anything else is read one command per line, and the exit code
// is 1 if any command failed.
func runShell(ctx context.Context, d *deps, in io.Reader, out, errOut io.Writer) int {
	if !d.manual {
		stop := d.watchRecorder(ctx)
		defer stop()
	}

	if isTerminal(in) {
		err := runInteractive(ctx, d, out, errOut)
		if err != nil {
			fprintln(errOut, "error:", err)

			return 1
		}

		return 0
	}

	return runScript(ctx, d, in, out, errOut)
}

// watchRecorder stops recordings at their limit while the shell waits for
// input. The returned func stops the timer and waits for it.
func (d *deps) watchRecorder(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	ticker := time.NewTicker(recorderTick)
	done := make(chan struct{})
	d.recorderWatched = true

	go func() {
		defer close(done)

		_ = d.sess.RunRecorder(ctx, ticker.C)
	}()

	return func() {
		cancel()
		ticker.Stop()
		<-done

		d.recorderWatched = false
	}
}

func runScript(ctx context.Context, d *deps, in io.Reader, out, errOut io.Writer) int {
	if in == nil {
		return 0
	}

	code := 0
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return 1
		}

		args := strings.Fields(scanner.Text())
		if len(args) == 0 || strings.HasPrefix(args[0], "#") {
			continue
		}

		if isExit(args[0]) {
			break
		}

		if runCommand(ctx, d, out, errOut, args) != 0 {
			code = 1
		}
	}

	err := scanner.Err()
	if err != nil {
		fprintln(errOut, "error: reading input:", err)

		return 1
	}

	return code
}

func runInteractive(ctx context.Context, d *deps, out, errOut io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		return completeCommand(d, prefix)
	})

	histPath := d.historyFile()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	defer saveHistory(line, histPath)

	fprintln(out, "handled - type 'help' for commands, 'exit' to leave")
	printNudgeBanner(d, out)

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := line.Prompt(d.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fprintln(out)

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		args := strings.Fields(input)
		if len(args) == 0 {
			continue
		}

		line.AppendHistory(input)

		if isExit(args[0]) {
			return nil
		}

		_ = runCommand(ctx, d, out, errOut, args)
	}
}

func (d *deps) prompt() string {
	state, left := d.sess.RecorderState()
	if d.sess.Recording() {
		return fmt.Sprintf("handled [%s %s]> ", state, left.Round(time.Second))
	}

	return "handled> "
}

func (d *deps) historyFile() string {
	if d.cfg.HistoryFile != "" {
		return d.cfg.HistoryFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, historyFileName)
}

func saveHistory(line *liner.State, path string) {
	_ = writeHistory(path, line.WriteHistory)
}

// writeHistory replaces the history file in one step, so an interrupted save
// leaves the previous history intact.
func writeHistory(path string, write func(io.Writer) (int, error)) error {
	if path == "" {
		return nil
	}

	var buf bytes.Buffer

	_, err := write(&buf)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	err = atomic.WriteFile(path, &buf)
	if err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	// atomic.WriteFile doesn't set permissions for new files
	err = os.Chmod(path, historyFilePerms)
	if err != nil {
		return fmt.Errorf("failed to set history file permissions: %w", err)
	}

	return nil
}

func printNudgeBanner(d *deps, out io.Writer) {
	if typ, ok := d.sess.CurrentNudge(); ok {
		fprintln(out, "nudge:", typ, "(run 'nudge' for details)")
	}
}

func completeCommand(d *deps, prefix string) []string {
	var completions []string

	lower := strings.ToLower(prefix)

	for _, cmd := range commands(d) {
		if strings.HasPrefix(cmd.Name(), lower) {
			completions = append(completions, cmd.Name())
		}
	}

	for _, name := range []string{"help", "exit"} {
		if strings.HasPrefix(name, lower) {
			completions = append(completions, name)
		}
	}

	return completions
}

func isExit(name string) bool {
	return name == "exit" || name == "quit"
}
