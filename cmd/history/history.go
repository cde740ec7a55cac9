package history

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/db"
	"github.com/nrtkbb/fsorg/logging"
)

type Command struct {
	dbPath string
	limit  int
	runID  int64
}

func (*Command) Name() string     { return "history" }
func (*Command) Synopsis() string { return "Show journaled runs and their moves" }
func (*Command) Usage() string {
	return `history [-db <database>] [-limit <n>] [-run <id>]:
  List recent journaled runs, or the moves of one run.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "database file path (default: database_path)")
	f.IntVar(&c.limit, "limit", 20, "number of runs to list")
	f.Int64Var(&c.runID, "run", 0, "list the moves of this run")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.dbPath == "" {
		c.dbPath = config.FromArgs(args...).DatabasePath
	}
	logger := logging.L().With(zap.String("db", c.dbPath))

	database, err := db.SetupDatabase(c.dbPath)
	if err != nil {
		logger.Error("failed to setup database", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer db.Close(database)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if c.runID > 0 {
		moves, err := db.Moves(ctx, database, c.runID)
		if err != nil {
			logger.Error("failed to read moves", zap.Int64("run_id", c.runID), zap.Error(err))
			return subcommands.ExitFailure
		}
		for _, m := range moves {
			fmt.Fprintf(w, "%s\t->\t%s\t%d\n", m.Origin, m.Destination, m.SizeBytes)
		}
		return subcommands.ExitSuccess
	}

	runs, err := db.RecentRuns(ctx, database, c.limit)
	if err != nil {
		logger.Error("failed to read runs", zap.Error(err))
		return subcommands.ExitFailure
	}
	fmt.Fprintln(w, "RUN\tSTARTED\tOPERATION\tPATH\tMOVED\tSTATUS")
	for _, r := range runs {
		started := time.Unix(r.StartedAt, 0).Local().Format("2006-01-02 15:04:05")
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", r.RunID, started, r.Operation, r.Path, r.MovedFiles, r.Status)
	}
	return subcommands.ExitSuccess
}
