package organize

import (
	"strings"

	"github.com/nrtkbb/fsorg/models"
)

const (
	// NoExtensionBucket holds files without an extension.
	NoExtensionBucket = "no_extension"
	// UndatedBucket holds files lacking the selected timestamp.
	UndatedBucket = "undated"
)

// TypeKey is the lower-cased extension of name.
func TypeKey(name string) string {
	_, ext := SplitExt(name)
	if len(ext) <= 1 {
		return NoExtensionBucket
	}
	return strings.ToLower(ext[1:])
}

// DateKey is the calendar day of the selected timestamp of f.
func DateKey(f *models.File, kind models.DateKind) string {
	if f == nil || f.Metadata == nil {
		return UndatedBucket
	}
	date, ok := f.Metadata.FormattedDate(kind)
	if !ok {
		return UndatedBucket
	}
	return date
}
