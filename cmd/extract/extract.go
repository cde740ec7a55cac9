package extract

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/app"
	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/logging"
)

type Command struct{}

func (*Command) Name() string     { return "extract" }
func (*Command) Synopsis() string { return "Move the files of an organized directory back out" }
func (*Command) Usage() string {
	return `extract <organized directory>:
  Move every file below the directory into its parent, remove the emptied
  directories and forget the stored rules.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	source, err := filepath.Abs(f.Arg(0))
	if err != nil {
		logging.L().Error("failed to resolve path", zap.Error(err))
		return subcommands.ExitFailure
	}
	logger := logging.L().With(zap.String("path", source))

	session, err := app.Open(config.FromArgs(args...))
	if err != nil {
		logger.Error("failed to open session", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer session.Close()

	if _, err := session.Navigate(ctx, filepath.Dir(source)); err != nil {
		logger.Error("failed to read parent directory", zap.Error(err))
		return subcommands.ExitFailure
	}
	out, err := session.Extract(ctx, filepath.Base(source))
	if out != nil {
		out.Report(os.Stdout)
	}
	if err != nil {
		logger.Error("failed to extract files", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
