package cli

import (
	"context"
	"errors"

	"github.com/calvinalkan/handled/internal/app"

	flag "github.com/spf13/pflag"
)

var errProviderRequired = errors.New("provider is required (apple|google)")

// SignInCmd returns the signin command.
func SignInCmd(d *deps) *Command {
	fs := flag.NewFlagSet("signin", flag.ContinueOnError)
	fs.String("via", app.TriggerOrganic, "What led to the sign-in: nudge|organic")

	return &Command{
		Flags: fs,
		Usage: "signin <provider> [flags]",
		Short: "Sign in (apple|google)",
		Long: `Sign in with a simulated account.

A sign-in that came from the sign-in nudge (--via nudge) is followed by a
prompt to set up watch capture; see 'bridge'.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return errProviderRequired
			}

			via, _ := fs.GetString("via")

			u, err := d.sess.SignIn(args[0], via)
			if err != nil {
				return err
			}

			io.Printf("signed in as %s <%s>\n", u.Name, u.Email)

			if d.sess.Bridge() {
				io.Println("next: set up watch capture with 'watch', or 'bridge dismiss'")
			}

			return nil
		},
	}
}

// SignOutCmd returns the signout command.
func SignOutCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("signout", flag.ContinueOnError),
		Usage: "signout",
		Short: "Sign out, keeping tasks",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			err := d.sess.SignOut()
			if err != nil {
				return err
			}

			io.Println("signed out")

			return nil
		},
	}
}

// DeleteAccountCmd returns the delete-account command.
func DeleteAccountCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("delete-account", flag.ContinueOnError),
		Usage: "delete-account",
		Short: "Delete all tasks and sign out",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			err := d.sess.DeleteAccount(ctx)
			if err != nil {
				return err
			}

			io.Println("account deleted")

			return nil
		},
	}
}

// WatchCmd returns the watch command.
func WatchCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("watch", flag.ContinueOnError),
		Usage: "watch",
		Short: "Enable watch capture",
		Long:  "Turn on watch capture for the signed-in user. Capture from the watch with 'capture --watch'.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			err := d.sess.EnableWatch()
			if err != nil {
				return err
			}

			io.Println("watch capture enabled")
			printNudgeHint(io, d)

			return nil
		},
	}
}
