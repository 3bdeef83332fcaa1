package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/calvinalkan/handled/internal/app"
	"github.com/calvinalkan/handled/internal/capture"
	"github.com/calvinalkan/handled/internal/config"
	"github.com/calvinalkan/handled/internal/nudge"
	"github.com/calvinalkan/handled/internal/store"
	"github.com/calvinalkan/handled/internal/task"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errInvalidNow     = errors.New("invalid --now (use RFC 3339 or YYYY-MM-DD HH:MM)")
	errIDRequired     = errors.New("task id is required")
)

// Layouts accepted by --now, tried in order.
var nowLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// deps is what every command needs.
type deps struct {
	cfg    *config.Config
	sess   *app.Session
	log    *zap.Logger
	out    io.Writer
	manual bool

	// recorderWatched is set while the shell's recorder timer runs.
	recorderWatched bool
}

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	out = &lockedWriter{w: out}
	errOut = &lockedWriter{w: errOut}

	globals := flag.NewFlagSet("handled", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	nowFlag := globals.String("now", "", "Freeze the clock at `time`; 'advance' moves it")
	seed := globals.Uint64("seed", 0, "Seed for simulated transcriptions")
	tz := globals.String("tz", "", "IANA timezone `name`")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut)

		return 1
	}

	if *help {
		printUsage(out)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride:  *workDir,
		ConfigPath:       *configPath,
		TimezoneOverride: *tz,
		SeedOverride:     *seed,
		Env:              env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = logger.Sync() }()

	var clock app.Clock = app.RealClock{}

	if *nowFlag != "" {
		start, parseErr := parseNow(*nowFlag, cfg.Location)
		if parseErr != nil {
			fprintln(errOut, "error:", parseErr)

			return 1
		}

		clock = app.NewManualClock(start)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	d := &deps{cfg: &cfg, log: logger, out: out, manual: *nowFlag != ""}

	sess, err := app.New(ctx, app.Options{
		Clock:          clock,
		Location:       cfg.Location,
		Engine:         &nudge.Engine{Policies: cfg.NudgePolicies()},
		Transcriber:    capture.NewSampleTranscriber(task.SampleTranscriptions, cfg.Seed),
		CaptureLimit:   time.Duration(cfg.CaptureLimit),
		UpcomingDays:   cfg.UpcomingDays,
		ReminderWindow: time.Duration(cfg.ReminderWindow),
		Logger:         logger,
		OnAutoCapture:  d.printAutoCapture,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = sess.Close() }()

	d.sess = sess

	rest := globals.Args()
	if len(rest) == 0 {
		return runShell(ctx, d, in, out, errOut)
	}

	return runCommand(ctx, d, out, errOut, rest)
}

// runCommand runs one command line and returns its exit code.
func runCommand(ctx context.Context, d *deps, out, errOut io.Writer, args []string) int {
	name := args[0]

	if name == "-h" || name == "--help" || name == "help" {
		printUsage(out)

		return 0
	}

	cmd := lookupCommand(d, name)
	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", errUnknownCommand, name))

		return 1
	}

	o := NewIO(out, errOut)

	code := cmd.Run(ctx, o, args[1:])
	if code != 0 {
		return code
	}

	return o.Finish()
}

// commands builds a fresh command set. Flag sets keep parse state, so every
// invocation gets its own.
func commands(d *deps) []*Command {
	return []*Command{
		CaptureCmd(d),
		RecordCmd(d),
		PauseCmd(d),
		ResumeCmd(d),
		StopCmd(d),
		CancelCmd(d),
		LsCmd(d),
		ShowCmd(d),
		DoneCmd(d),
		UndoCmd(d),
		RmCmd(d),
		SnoozeCmd(d),
		RemindCmd(d),
		RmAudioCmd(d),
		WipeAudioCmd(d),
		SignInCmd(d),
		SignOutCmd(d),
		DeleteAccountCmd(d),
		WatchCmd(d),
		NudgeCmd(d),
		DismissCmd(d),
		BridgeCmd(d),
		RemindersCmd(d),
		AdvanceCmd(d),
		StatusCmd(d),
		ExportCmd(d),
		ServeCmd(d),
		PrintConfigCmd(d.cfg),
	}
}

func lookupCommand(d *deps, name string) *Command {
	for _, cmd := range commands(d) {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

func parseNow(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range nowLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil && task.InStorableRange(t) {
			return t.In(loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", errInvalidNow, value)
}

// lastAlias names the newest task wherever an id is expected.
const lastAlias = "last"

// taskID resolves a command argument to something the session accepts as a
// task id.
func (d *deps) taskID(ctx context.Context, arg string) (string, error) {
	if arg != lastAlias {
		return arg, nil
	}

	tasks, err := d.sess.Tasks(ctx)
	if err != nil {
		return "", err
	}

	if len(tasks) == 0 {
		return "", fmt.Errorf("%w: no tasks yet", store.ErrNotFound)
	}

	return tasks[0].ID, nil
}

func (d *deps) printAutoCapture(t task.Task, err error) {
	if err != nil {
		fprintln(d.out, "recording stopped at limit, capture failed:", err)

		return
	}

	fprintln(d.out, "recording stopped at limit")
	fprintln(d.out, formatTaskLine(t, d.sess.Now()))
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer) {
	fprintln(w, `handled - capture thoughts, get them handled

Usage: handled [options] [<command> [args]]

With no command, starts an interactive session reading one command per line.

Options:
  -C, --cwd <dir>      Run as if started in <dir>
  -c, --config <file>  Use specified config file
      --now <time>     Freeze the clock; 'advance' moves it
      --seed <n>       Seed for simulated transcriptions
      --tz <name>      IANA timezone

Commands:`)

	for _, cmd := range commands(&deps{cfg: &config.Config{}}) {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w, "  help                       Show this help")
	fprintln(w, "  exit                       Leave the interactive session")
}
