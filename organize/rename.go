package organize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/nrtkbb/fsorg/models"
)

type renamer struct {
	rules         Rules
	directoryName string
	customName    string
	order         []Component
	dateKind      models.DateKind
	indexPosition IndexPosition
}

func newRenamer(req Request) renamer {
	return renamer{
		rules:         req.Rules,
		directoryName: req.DirectoryName,
		customName:    req.CustomName,
		order:         effectiveOrder(req.Order),
		dateKind:      req.DateKind,
		indexPosition: req.IndexPosition,
	}
}

// effectiveOrder drops unknown and repeated components and appends the
// missing ones in canonical order.
func effectiveOrder(order []Component) []Component {
	seen := make(map[Component]bool, len(Components))
	known := make(map[Component]bool, len(Components))
	for _, c := range Components {
		known[c] = true
	}

	out := make([]Component, 0, len(Components))
	for _, c := range append(append([]Component{}, order...), Components...) {
		if known[c] && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// rename builds the new name of one file. index is the one-based position of
// the file in its destination bucket.
func (r renamer) rename(name string, f *models.File, index int) (string, error) {
	stem, ext := SplitExt(name)

	var parts []string
	for _, c := range r.order {
		if part := r.component(c, stem, f, index); part != "" {
			parts = append(parts, part)
		}
	}

	renamed := r.transform(strings.Join(parts, "_"))
	if renamed == "" {
		return "", fmt.Errorf("%w: renaming %q leaves an empty file name", models.ErrInvalidInput, name)
	}
	return renamed + ext, nil
}

func (r renamer) component(c Component, stem string, f *models.File, index int) string {
	switch c {
	case ComponentDirectoryName:
		if r.rules.InsertDirectoryNameToFileName {
			return r.directoryName
		}
	case ComponentDate:
		if r.rules.InsertDateToFileName && f != nil && f.Metadata != nil {
			date, _ := f.Metadata.FormattedDate(r.dateKind)
			return date
		}
	case ComponentCustomFileName:
		if r.rules.AddCustomName {
			return r.custom(index)
		}
	case ComponentOriginalFileName:
		if !r.rules.RemoveOriginalFileName {
			return stem
		}
	}
	return ""
}

func (r renamer) custom(index int) string {
	var fragments []string
	if r.indexPosition == IndexBefore {
		fragments = append(fragments, fmt.Sprintf("%02d", index))
	}
	if r.customName != "" {
		fragments = append(fragments, r.customName)
	}
	if r.indexPosition == IndexAfter {
		fragments = append(fragments, fmt.Sprintf("%02d", index))
	}
	return strings.Join(fragments, "_")
}

func (r renamer) transform(s string) string {
	if r.rules.RemoveUppercase {
		s = cases.Lower(language.Und).String(s)
	}
	if r.rules.ReplaceSpacesWithUnderscores {
		s = strings.ReplaceAll(s, " ", "_")
	}
	if r.rules.UseOnlyASCII {
		nonASCII := runes.Remove(runes.Predicate(func(c rune) bool { return c > unicode.MaxASCII }))
		if out, _, err := transform.String(nonASCII, s); err == nil {
			s = out
		}
	}
	return s
}

// SplitExt splits name into its stem and its extension, dot included.
// Dotfiles such as ".bashrc" have no extension.
func SplitExt(name string) (stem, ext string) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return name, ""
	}
	return name[:dot], name[dot:]
}
