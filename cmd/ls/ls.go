package ls

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/app"
	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/logging"
)

type Command struct {
	roots bool
}

func (*Command) Name() string     { return "ls" }
func (*Command) Synopsis() string { return "List a directory through the tree cache" }
func (*Command) Usage() string {
	return `ls [-roots] [directory]:
  List the directories and files of a directory. With -roots, list mounted
  volumes or drives instead.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.roots, "roots", false, "list external roots")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	dir := "."
	if f.NArg() == 1 {
		dir = f.Arg(0)
	}

	session, err := app.Open(config.FromArgs(args...))
	if err != nil {
		logging.L().Error("failed to open session", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer session.Close()

	if c.roots {
		for _, root := range session.Roots() {
			fmt.Println(root)
		}
		return subcommands.ExitSuccess
	}

	listing, err := session.Navigate(ctx, dir)
	if err != nil {
		logging.L().Error("failed to list directory", zap.String("path", dir), zap.Error(err))
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\n", listing.Path)
	for _, e := range listing.Directories {
		fmt.Fprintf(w, "%s/\t\t\n", e.Name)
	}
	for _, e := range listing.Files {
		var size float64
		if e.Size != nil {
			size = *e.Size
		}
		modified := ""
		if e.Modified != nil {
			modified = e.Modified.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%.0f\t%s\n", e.Name, size, modified)
	}
	if err := w.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
