package app

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
)

// InputFlags binds an OrganizeInput to command-line flags.
type InputFlags struct {
	in            OrganizeInput
	dateType      string
	indexPosition string
	order         string
}

// SetFlags registers the rule switches on f. withName adds -name for
// commands that create a directory.
func (r *InputFlags) SetFlags(f *flag.FlagSet, withName bool) {
	if withName {
		f.StringVar(&r.in.DirectoryName, "name", "", "name of the directory to create (required)")
	}
	f.BoolVar(&r.in.Rules.OrganizeByFileType, "by-type", false, "group files into one directory per extension")
	f.BoolVar(&r.in.Rules.OrganizeByDate, "by-date", false, "group files into one directory per day")
	f.BoolVar(&r.in.Rules.InsertDateToFileName, "insert-date", false, "add the date to each file name")
	f.BoolVar(&r.in.Rules.InsertDirectoryNameToFileName, "insert-dir-name", false, "add the directory name to each file name")
	f.BoolVar(&r.in.Rules.RemoveUppercase, "lower", false, "lower-case file names")
	f.BoolVar(&r.in.Rules.ReplaceSpacesWithUnderscores, "underscores", false, "replace spaces with underscores")
	f.BoolVar(&r.in.Rules.UseOnlyASCII, "ascii", false, "drop non-ASCII characters")
	f.BoolVar(&r.in.Rules.RemoveOriginalFileName, "drop-original", false, "drop the original file name")
	f.BoolVar(&r.in.Rules.AddCustomName, "custom", false, "add a custom name with a sequence number")
	f.StringVar(&r.in.CustomName, "custom-name", "", "custom file name")
	f.StringVar(&r.dateType, "date-type", "", "timestamp to use: Created, Accessed or Modified")
	f.StringVar(&r.indexPosition, "index", "", "sequence number position: before or after")
	f.StringVar(&r.order, "order", "", "comma separated file name components")
}

// Input validates the parsed flags.
func (r *InputFlags) Input() (OrganizeInput, error) {
	in := r.in
	var err error
	if in.DateKind, err = models.ParseDateKind(r.dateType); err != nil {
		return in, err
	}
	if in.IndexPosition, err = organize.ParseIndexPosition(r.indexPosition); err != nil {
		return in, err
	}
	if in.Order, err = organize.ParseOrder(r.order); err != nil {
		return in, err
	}
	return in, nil
}

// OpenAt opens a session on dir and selects names, or every file when
// names is empty.
func OpenAt(ctx context.Context, cfg *config.Config, dir string, names []string) (*Session, error) {
	s, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := s.Navigate(ctx, dir); err != nil {
		s.Close()
		return nil, err
	}

	if len(names) == 0 {
		err = s.SelectAll()
	} else {
		err = s.Select(names...)
	}
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Report prints one line per destination followed by a summary.
func (o *Outcome) Report(w io.Writer) {
	for _, dest := range o.Destinations {
		fmt.Fprintln(w, dest)
	}
	fmt.Fprintf(w, "%s %s: %d files moved (%s)\n", o.Operation, o.Path, o.Moved, o.Shape)
}
