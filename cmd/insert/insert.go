package insert

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/app"
	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/logging"
)

type Command struct {
	dir    string
	target string
}

func (*Command) Name() string     { return "insert" }
func (*Command) Synopsis() string { return "Insert files into an organized directory" }
func (*Command) Usage() string {
	return `insert -target <organized directory> [-dir <path>] [file...]:
  Move the named files of -dir (all files when none are named) into an
  organized directory, applying the rules stored for it.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "directory holding the files")
	f.StringVar(&c.target, "target", "", "organized directory (required)")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.target == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	logger := logging.L().With(zap.String("dir", c.dir), zap.String("target", c.target))

	session, err := app.OpenAt(ctx, config.FromArgs(args...), c.dir, f.Args())
	if err != nil {
		logger.Error("failed to select files", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer session.Close()

	out, err := session.Insert(ctx, c.target)
	if out != nil {
		out.Report(os.Stdout)
	}
	if err != nil {
		logger.Error("failed to insert files", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
