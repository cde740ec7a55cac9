package rules

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/app"
	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/logging"
	"github.com/nrtkbb/fsorg/organize"
	"github.com/nrtkbb/fsorg/rulestore"
)

type Command struct {
	remove bool
}

func (*Command) Name() string     { return "rules" }
func (*Command) Synopsis() string { return "Show or forget stored rules" }
func (*Command) Usage() string {
	return `rules [-remove] [organized directory]:
  Without an argument, list every stored rule record. With a directory, show
  the record used for it. -remove forgets the record of the directory.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.remove, "remove", false, "forget the rules of the directory")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 || (c.remove && f.NArg() == 0) {
		f.Usage()
		return subcommands.ExitUsageError
	}

	session, err := app.Open(config.FromArgs(args...))
	if err != nil {
		logging.L().Error("failed to open session", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer session.Close()
	store := session.Store()

	if f.NArg() == 0 {
		records, err := store.All(ctx)
		if err != nil {
			logging.L().Error("failed to read rules", zap.Error(err))
			return subcommands.ExitFailure
		}
		printRecords(records)
		return subcommands.ExitSuccess
	}

	path, err := filepath.Abs(f.Arg(0))
	if err != nil {
		logging.L().Error("failed to resolve path", zap.Error(err))
		return subcommands.ExitFailure
	}
	logger := logging.L().With(zap.String("path", path))

	if c.remove {
		if err := store.Remove(ctx, path); err != nil {
			logger.Error("failed to remove rules", zap.Error(err))
			return subcommands.ExitFailure
		}
		logger.Info("rules removed")
		return subcommands.ExitSuccess
	}

	rec, err := store.Lookup(ctx, path)
	if err != nil {
		logger.Error("failed to look up rules", zap.Error(err))
		return subcommands.ExitFailure
	}
	printRecords([]rulestore.Record{rec})
	return subcommands.ExitSuccess
}

func printRecords(records []rulestore.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tRULES\tDATE\tORDER")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Path, switches(rec.Rules), rec.DateKind, organize.FormatOrder(rec.Order))
	}
	w.Flush()
}

func switches(r organize.Rules) string {
	var s string
	for _, sw := range []struct {
		on   bool
		flag string
	}{
		{r.OrganizeByFileType, "T"},
		{r.OrganizeByDate, "D"},
		{r.InsertDateToFileName, "d"},
		{r.InsertDirectoryNameToFileName, "n"},
		{r.RemoveUppercase, "l"},
		{r.ReplaceSpacesWithUnderscores, "u"},
		{r.UseOnlyASCII, "a"},
		{r.RemoveOriginalFileName, "o"},
		{r.AddCustomName, "c"},
	} {
		if sw.on {
			s += sw.flag
		} else {
			s += "-"
		}
	}
	return s
}
