package models

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the calendar-day layout used for date buckets and for the
// date component of renamed files.
const DateFormat = "20060102"

// DateKind selects which timestamp of a file a rule works with.
type DateKind int

const (
	DateNone DateKind = iota
	DateCreated
	DateAccessed
	DateModified
)

func (k DateKind) String() string {
	switch k {
	case DateCreated:
		return "Created"
	case DateAccessed:
		return "Accessed"
	case DateModified:
		return "Modified"
	default:
		return "None"
	}
}

// ParseDateKind accepts the persisted tokens (Created, Accessed, Modified,
// None) case-insensitively. An empty string is DateNone.
func ParseDateKind(s string) (DateKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DateNone, nil
	case "created":
		return DateCreated, nil
	case "accessed":
		return DateAccessed, nil
	case "modified":
		return DateModified, nil
	}
	return DateNone, fmt.Errorf("%w: unknown date type %q", ErrInvalidInput, s)
}

// Metadata is a snapshot of the filesystem attributes of one entry.
// Entries read from disk always carry Name and OriginPath; metadata
// synthesized while renaming may only carry DestinationPath.
type Metadata struct {
	Name            string
	Created         *time.Time
	Accessed        *time.Time
	Modified        *time.Time
	Size            *float64
	Readonly        bool
	OriginPath      string
	DestinationPath string
}

// Time returns the timestamp selected by kind.
func (m *Metadata) Time(kind DateKind) (time.Time, bool) {
	var t *time.Time
	switch kind {
	case DateCreated:
		t = m.Created
	case DateAccessed:
		t = m.Accessed
	case DateModified:
		t = m.Modified
	}
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

// FormattedDate formats the selected timestamp at calendar-day granularity
// in local time.
func (m *Metadata) FormattedDate(kind DateKind) (string, bool) {
	t, ok := m.Time(kind)
	if !ok {
		return "", false
	}
	return t.Local().Format(DateFormat), true
}

// File is a leaf of the tree. A nil Metadata marks a transient placeholder.
type File struct {
	Metadata *Metadata
}

func NewFile(metadata Metadata) *File {
	return &File{Metadata: &metadata}
}

// Name returns the on-disk name of the file, or "" for a placeholder.
func (f *File) Name() string {
	if f == nil || f.Metadata == nil {
		return ""
	}
	return f.Metadata.Name
}

// ProgressStats summarizes one mover pass.
type ProgressStats struct {
	MovedFiles   int64
	MovedBytes   int64
	SkippedFiles int64
	StartTime    time.Time
}

func NewProgressStats() *ProgressStats {
	return &ProgressStats{StartTime: time.Now()}
}
