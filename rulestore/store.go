// Package rulestore persists the rule configuration used for each organized
// directory.
package rulestore

import (
	"context"
	"errors"

	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
)

// Record is the configuration an organized directory was built with.
type Record struct {
	Path     string
	Rules    organize.Rules
	DateKind models.DateKind

	// Only backends with room for them keep the fields below.
	CustomName    string
	Order         []organize.Component
	IndexPosition organize.IndexPosition
}

// Request rebuilds the organizing request for files moved into the
// directory of r.
func (r Record) Request(files map[string]*models.File, directoryName string) organize.Request {
	return organize.Request{
		Files:         files,
		Rules:         r.Rules,
		DirectoryName: directoryName,
		CustomName:    r.CustomName,
		Order:         r.Order,
		DateKind:      r.DateKind,
		IndexPosition: r.IndexPosition,
	}
}

// Store keeps one Record per organized directory.
type Store interface {
	// Lookup returns the record for path, or ErrNotFound.
	Lookup(ctx context.Context, path string) (Record, error)
	Append(ctx context.Context, rec Record) error
	// Remove drops every record whose path equals path.
	Remove(ctx context.Context, path string) error
	All(ctx context.Context) ([]Record, error)
}

// Contains reports whether a record with exactly this path exists.
func Contains(ctx context.Context, s Store, path string) (bool, error) {
	records, err := s.All(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.Path == path {
			return true, nil
		}
	}
	return false, nil
}

// IsNotFound reports a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
