package version

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/subcommands"

	"github.com/nrtkbb/fsorg/db"
)

// Build information, set by goreleaser.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type Command struct {
	short bool
}

func (*Command) Name() string     { return "version" }
func (*Command) Synopsis() string { return "Print version information" }
func (*Command) Usage() string {
	return `version [-short]:
  Print the fsorg version, build details and the database schema version.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.short, "short", false, "print the version number only")
}

func (c *Command) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	writeVersion(os.Stdout, c.short)
	return subcommands.ExitSuccess
}

func writeVersion(w io.Writer, short bool) {
	if short {
		fmt.Fprintln(w, Version)
		return
	}
	fmt.Fprintf(w, "fsorg version %s\n", Version)
	fmt.Fprintf(w, "commit: %s\n", Commit)
	fmt.Fprintf(w, "built: %s\n", Date)
	fmt.Fprintf(w, "schema: %d\n", db.LatestVersion())
	fmt.Fprintf(w, "go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
