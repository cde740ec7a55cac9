// Package organize groups and renames selected files and merges the result
// into a directory of the tree cache.
package organize

import (
	"fmt"
	"strings"

	"github.com/nrtkbb/fsorg/models"
)

// Rules are the independent switches of one organizing action.
type Rules struct {
	OrganizeByFileType            bool `json:"organize_by_file_type" yaml:"organize_by_file_type"`
	OrganizeByDate                bool `json:"organize_by_date" yaml:"organize_by_date"`
	InsertDateToFileName          bool `json:"insert_date_to_file_name" yaml:"insert_date_to_file_name"`
	InsertDirectoryNameToFileName bool `json:"insert_directory_name_to_file_name" yaml:"insert_directory_name_to_file_name"`
	RemoveUppercase               bool `json:"remove_uppercase" yaml:"remove_uppercase"`
	ReplaceSpacesWithUnderscores  bool `json:"replace_spaces_with_underscores" yaml:"replace_spaces_with_underscores"`
	UseOnlyASCII                  bool `json:"use_only_ascii" yaml:"use_only_ascii"`
	RemoveOriginalFileName        bool `json:"remove_original_file_name" yaml:"remove_original_file_name"`
	AddCustomName                 bool `json:"add_custom_name" yaml:"add_custom_name"`
}

// Renames reports whether any switch affecting file names is set.
func (r Rules) Renames() bool {
	return r.InsertDirectoryNameToFileName ||
		r.InsertDateToFileName ||
		r.RemoveUppercase ||
		r.ReplaceSpacesWithUnderscores ||
		r.UseOnlyASCII ||
		r.RemoveOriginalFileName ||
		r.AddCustomName
}

// shape is the behaviour selected by a switch combination. Precedence is
// the declaration order of the cases in shapeOf.
type shape int

const (
	shapeUnmatched shape = iota
	shapeTypeAndDate
	shapeType
	shapeDate
	shapeRename
	shapePlain
)

func (s shape) String() string {
	switch s {
	case shapeTypeAndDate:
		return "type_and_date"
	case shapeType:
		return "type"
	case shapeDate:
		return "date"
	case shapeRename:
		return "rename"
	case shapePlain:
		return "plain"
	default:
		return "unmatched"
	}
}

func shapeOf(r Rules) shape {
	switch {
	case r.OrganizeByFileType && r.OrganizeByDate:
		return shapeTypeAndDate
	case r.OrganizeByFileType:
		return shapeType
	case r.OrganizeByDate:
		return shapeDate
	case r.Renames():
		return shapeRename
	case r == Rules{}:
		return shapePlain
	default:
		return shapeUnmatched
	}
}

// IndexPosition places the sequential index relative to the custom name.
type IndexPosition int

const (
	IndexNone IndexPosition = iota
	IndexBefore
	IndexAfter
)

func (p IndexPosition) String() string {
	switch p {
	case IndexBefore:
		return "before"
	case IndexAfter:
		return "after"
	default:
		return "none"
	}
}

func ParseIndexPosition(s string) (IndexPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return IndexNone, nil
	case "before":
		return IndexBefore, nil
	case "after":
		return IndexAfter, nil
	}
	return IndexNone, fmt.Errorf("%w: unknown index position %q", models.ErrInvalidInput, s)
}

// Component names one part of a renamed file name.
type Component string

const (
	ComponentDirectoryName    Component = "directory_name"
	ComponentDate             Component = "date"
	ComponentCustomFileName   Component = "custom_file_name"
	ComponentOriginalFileName Component = "original_filename"
)

// Components is the canonical order. Enabled components missing from a
// caller's order are appended in this order.
var Components = []Component{
	ComponentDirectoryName,
	ComponentDate,
	ComponentCustomFileName,
	ComponentOriginalFileName,
}

// ParseOrder reads a comma separated component list.
func ParseOrder(s string) ([]Component, error) {
	var order []Component
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		c := Component(field)
		switch c {
		case ComponentDirectoryName, ComponentDate, ComponentCustomFileName, ComponentOriginalFileName:
			order = append(order, c)
		default:
			return nil, fmt.Errorf("%w: unknown file name component %q", models.ErrInvalidInput, field)
		}
	}
	return order, nil
}

// FormatOrder is the inverse of ParseOrder.
func FormatOrder(order []Component) string {
	parts := make([]string, len(order))
	for i, c := range order {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
