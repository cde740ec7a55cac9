package migrate

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/db"
	"github.com/nrtkbb/fsorg/logging"
)

type Command struct {
	dbPath string
}

func (*Command) Name() string     { return "migrate" }
func (*Command) Synopsis() string { return "Run database migrations" }
func (*Command) Usage() string {
	return `migrate [-db <database>]:
  Run database migrations on the SQLite rule store and journal.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "database file path (default: database_path)")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.dbPath == "" {
		c.dbPath = config.FromArgs(args...).DatabasePath
	}
	logger := logging.L().With(zap.String("db", c.dbPath))

	logger.Info("running database migrations", zap.Uint("latest_version", db.LatestVersion()))
	if err := db.RunMigrations(c.dbPath); err != nil {
		logger.Error("failed to run migrations", zap.Error(err))
		return subcommands.ExitFailure
	}
	logger.Info("database migrations completed successfully")

	return subcommands.ExitSuccess
}
