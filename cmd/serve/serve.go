package serve

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/api"
	"github.com/nrtkbb/fsorg/app"
	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/logging"
)

type Command struct {
	addr string
	dir  string
}

func (*Command) Name() string     { return "serve" }
func (*Command) Synopsis() string { return "Start HTTP server to drive a session" }
func (*Command) Usage() string {
	return `serve [-addr <host:port>] [-dir <path>]:
  Start an HTTP server exposing listing, selection and organizing of one
  session, plus Prometheus metrics on /metrics.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "address to listen on (default: listen_addr)")
	f.StringVar(&c.dir, "dir", ".", "initial directory")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := config.FromArgs(args...)
	if c.addr == "" {
		c.addr = cfg.ListenAddr
	}
	logger := logging.L().With(zap.String("addr", c.addr))

	session, err := app.Open(cfg)
	if err != nil {
		logger.Error("failed to open session", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer session.Close()

	if _, err := session.Navigate(ctx, c.dir); err != nil {
		logger.Error("failed to read initial directory", zap.String("dir", c.dir), zap.Error(err))
		return subcommands.ExitFailure
	}

	e := api.NewServer(api.NewHandler(session))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server")
		errCh <- e.Start(c.addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", zap.Error(err))
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down server", zap.Error(err))
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
