package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/calvinalkan/handled/internal/api"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	shutdownTimeout = 5 * time.Second
	readTimeout     = 10 * time.Second
)

// ServeCmd returns the serve command.
func ServeCmd(d *deps) *Command {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringP("addr", "a", defaultAddr, "Listen address")

	return &Command{
		Flags: fs,
		Usage: "serve [flags]",
		Short: "Serve the session over HTTP",
		Long: `Serve the session as a JSON API until interrupted.

The server shares the session with the shell it was started from.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			addr, _ := fs.GetString("addr")

			return execServe(ctx, io, d, addr)
		},
	}
}

func execServe(ctx context.Context, io *IO, d *deps, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           api.NewRouter(d.sess, d.log),
		ReadHeaderTimeout: readTimeout,
	}

	io.Println("listening on", "http://"+ln.Addr().String())
	d.log.Info("api listening", zap.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		serveErr := srv.Serve(ln)
		if errors.Is(serveErr, http.ErrServerClosed) {
			return nil
		}

		return serveErr
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if !d.manual && !d.recorderWatched {
		g.Go(func() error {
			ticker := time.NewTicker(recorderTick)
			defer ticker.Stop()

			runErr := d.sess.RunRecorder(gctx, ticker.C)
			if errors.Is(runErr, context.Canceled) {
				return nil
			}

			return runErr
		})
	}

	err = g.Wait()

	d.log.Info("api stopped")

	return err
}
