package api

import (
	"fmt"

	"github.com/nrtkbb/fsorg/app"
	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
	"github.com/nrtkbb/fsorg/rulestore"
)

// PaginatedResponse represents a paginated response
type PaginatedResponse struct {
	Path       string      `json:"path,omitempty"`
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	Total      int         `json:"total"`
	TotalPages int         `json:"total_pages"`
	HasNext    bool        `json:"has_next"`
}

// SelectRequest toggles names of the current directory, or selects every
// file when All is set.
type SelectRequest struct {
	Names []string `json:"names"`
	All   bool     `json:"all"`
}

type SelectResponse struct {
	Selected []string `json:"selected"`
}

// OrganizeRequest carries the rule configuration of organize and rename.
type OrganizeRequest struct {
	DirectoryName string         `json:"directory_name"`
	Rules         organize.Rules `json:"rules"`
	CustomName    string         `json:"custom_name"`
	Order         string         `json:"order"`
	DateType      string         `json:"date_type"`
	IndexPosition string         `json:"index_position"`
}

func (r OrganizeRequest) input() (app.OrganizeInput, error) {
	in := app.OrganizeInput{
		DirectoryName: r.DirectoryName,
		Rules:         r.Rules,
		CustomName:    r.CustomName,
	}
	var err error
	if in.DateKind, err = models.ParseDateKind(r.DateType); err != nil {
		return in, err
	}
	if in.IndexPosition, err = organize.ParseIndexPosition(r.IndexPosition); err != nil {
		return in, err
	}
	if in.Order, err = organize.ParseOrder(r.Order); err != nil {
		return in, err
	}
	return in, nil
}

type InsertRequest struct {
	Target string `json:"target"`
}

type ExtractRequest struct {
	Name string `json:"name"`
}

// RuleRecord is the JSON form of a stored rule record.
type RuleRecord struct {
	Path          string         `json:"path"`
	Rules         organize.Rules `json:"rules"`
	DateType      string         `json:"date_type"`
	CustomName    string         `json:"custom_name,omitempty"`
	Order         string         `json:"order,omitempty"`
	IndexPosition string         `json:"index_position"`
}

func newRuleRecord(rec rulestore.Record) RuleRecord {
	return RuleRecord{
		Path:          rec.Path,
		Rules:         rec.Rules,
		DateType:      rec.DateKind.String(),
		CustomName:    rec.CustomName,
		Order:         organize.FormatOrder(rec.Order),
		IndexPosition: rec.IndexPosition.String(),
	}
}

// RunSummary is one journaled operation.
type RunSummary struct {
	RunID      int64  `json:"run_id"`
	Operation  string `json:"operation"`
	Path       string `json:"path"`
	StartedAt  int64  `json:"started_at"`
	MovedFiles int64  `json:"moved_files"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func errMissing(param string) error {
	return fmt.Errorf("%w: %s parameter is required", models.ErrInvalidInput, param)
}
