package importrules

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/db"
	"github.com/nrtkbb/fsorg/logging"
	"github.com/nrtkbb/fsorg/rulestore"
)

type Command struct {
	basePath string
	dbPath   string
}

func (*Command) Name() string     { return "import" }
func (*Command) Synopsis() string { return "Import CSV rules into the SQLite store" }
func (*Command) Usage() string {
	return `import [-base <directory>] [-db <database>]:
  Copy every record of the CSV rule store into the SQLite store. Paths
  already present in the database are kept.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.basePath, "base", "", "directory holding "+rulestore.FileName+" (default: base_path)")
	f.StringVar(&c.dbPath, "db", "", "database file path (default: database_path)")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg := config.FromArgs(args...)
	if c.basePath == "" {
		c.basePath = cfg.BasePath
	}
	if c.dbPath == "" {
		c.dbPath = cfg.DatabasePath
	}
	logger := logging.L().With(zap.String("base", c.basePath), zap.String("db", c.dbPath))

	database, err := db.SetupDatabase(c.dbPath)
	if err != nil {
		logger.Error("failed to setup database", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer db.Close(database)

	imported, skipped, err := db.ImportRules(ctx, rulestore.NewCSVStore(c.basePath), database)
	if err != nil {
		logger.Error("failed to import rules", zap.Error(err))
		return subcommands.ExitFailure
	}
	logger.Info("rules imported", zap.Int("imported", imported), zap.Int("skipped", skipped))
	return subcommands.ExitSuccess
}
