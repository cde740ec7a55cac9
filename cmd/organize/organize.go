package organize

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

func (*Command) Name() string     { return "organize" }
func (*Command) Synopsis() string { return "Organize files into a new directory" }
func (*Command) Usage() string {
	return `organize -name <directory> [-dir <path>] [rule flags] [file...]:
  Move the named files of -dir (all files when none are named) into a new
  directory, grouping and renaming them by the rule flags. The rules are
  stored so that later files can be inserted the same way.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "directory holding the files")
	c.input.SetFlags(f, true)
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	in, err := c.input.Input()
	if err != nil || in.DirectoryName == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	logger := logging.L().With(zap.String("dir", c.dir), zap.String("name", in.DirectoryName))

	session, err := app.OpenAt(ctx, config.FromArgs(args...), c.dir, f.Args())
	if err != nil {
		logger.Error("failed to select files", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer session.Close()

	out, err := session.Organize(ctx, in)
	if out != nil {
		out.Report(os.Stdout)
	}
	if err != nil {
		logger.Error("failed to organize files", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
