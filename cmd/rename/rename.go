package rename

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
	dir   string
	input app.InputFlags
}

func (*Command) Name() string     { return "rename" }
func (*Command) Synopsis() string { return "Rename files in place" }
func (*Command) Usage() string {
	return `rename [-dir <path>] [rule flags] [file...]:
  Rename the named files of -dir (all files when none are named) by the
  renaming rule flags without moving them. -by-type and -by-date are
  rejected.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "directory holding the files")
	c.input.SetFlags(f, false)
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	in, err := c.input.Input()
	if err != nil {
		f.Usage()
		return subcommands.ExitUsageError
	}
	logger := logging.L().With(zap.String("dir", c.dir))

	session, err := app.OpenAt(ctx, config.FromArgs(args...), c.dir, f.Args())
	if err != nil {
		logger.Error("failed to select files", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer session.Close()

	out, err := session.Rename(ctx, in)
	if out != nil {
		out.Report(os.Stdout)
	}
	if err != nil {
		logger.Error("failed to rename files", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
