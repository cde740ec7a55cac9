package testdata

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/logging"
)

type Command struct {
	outputDir string
	days      int
}

func (*Command) Name() string     { return "testdata" }
func (*Command) Synopsis() string { return "Generate a cluttered directory to organize" }
func (*Command) Usage() string {
	return `testdata -out <directory> [-days <n>]:
  Generate a flat directory of files with mixed extensions, awkward names and
  modification times spread over several days, for trying out organize.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "out", "", "output directory path (required)")
	f.IntVar(&c.days, "days", 5, "number of days the modification times span")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.outputDir == "" || c.days < 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	n, err := generateTestData(c.outputDir, c.days, time.Now())
	if err != nil {
		logging.L().Error("failed to generate test data", zap.Error(err))
		return subcommands.ExitFailure
	}
	logging.L().Info("generated test data", zap.String("dir", c.outputDir), zap.Int("files", n))
	return subcommands.ExitSuccess
}

var samples = []struct {
	stem    string
	content string
	count   int
	ext     string
}{
	{"Meeting Notes", "This is a test document\n", 4, ".txt"},
	{"IMG", "\xff\xd8\xff\xe0 fake jpeg\n", 6, ".JPG"},
	{"Résumé", "%PDF-1.4 fake\n", 2, ".pdf"},
	{"main", "package main\n\nfunc main() {}\n", 3, ".go"},
	{"Song Title", "ID3 fake\n", 3, ".mp3"},
	{"README", "# Test Markdown\n\nThis is a test.\n", 1, ""},
	{"server", strings.Repeat("Large content repeated ", 1000), 2, ".log"},
}

// generateTestData writes the sample files into outputDir. Modification
// times step back one day per file, cycling over days.
func generateTestData(outputDir string, days int, now time.Time) (int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	fileCount := 0
	for _, s := range samples {
		for i := 1; i <= s.count; i++ {
			filename := fmt.Sprintf("%s %d%s", s.stem, i, s.ext)
			path := filepath.Join(outputDir, filename)

			if err := os.WriteFile(path, []byte(s.content), 0644); err != nil {
				return fileCount, fmt.Errorf("failed to create file %s: %w", filename, err)
			}

			mtime := now.AddDate(0, 0, -(fileCount % days))
			if err := os.Chtimes(path, mtime, mtime); err != nil {
				return fileCount, fmt.Errorf("failed to set times of %s: %w", filename, err)
			}
			fileCount++
		}
	}
	return fileCount, nil
}
