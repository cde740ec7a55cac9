package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/db"
	"github.com/nrtkbb/fsorg/logging"
	"github.com/nrtkbb/fsorg/metrics"
	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/mover"
	"github.com/nrtkbb/fsorg/organize"
	"github.com/nrtkbb/fsorg/rulestore"
)

// OrganizeInput is the rule configuration chosen for one action.
type OrganizeInput struct {
	DirectoryName string                 `json:"directory_name"`
	Rules         organize.Rules         `json:"rules"`
	CustomName    string                 `json:"custom_name"`
	Order         []organize.Component   `json:"order"`
	DateKind      models.DateKind        `json:"-"`
	IndexPosition organize.IndexPosition `json:"-"`
}

// Outcome reports a committed action.
type Outcome struct {
	Operation    string   `json:"operation"`
	Path         string   `json:"path"`
	Shape        string   `json:"shape"`
	Moved        int64    `json:"moved"`
	Destinations []string `json:"destinations"`
}

// Organize moves the selection into a new directory of the current
// directory and records the rules it was built with.
func (s *Session) Organize(ctx context.Context, in OrganizeInput) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := otel.Tracer("app").Start(ctx, "Session.Organize")
	defer span.End()

	if err := s.validateOrganize(ctx, in); err != nil {
		return nil, err
	}
	parent, ok := s.cache.Lookup(s.cwd)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, s.cwd)
	}

	req := s.request(in, s.ledger.Selected)
	target := filepath.Join(s.cwd, in.DirectoryName)
	span.SetAttributes(attribute.String("target", target), attribute.String("shape", req.Shape()))

	result, err := organize.CreateDirectory(parent, s.cwd, req)
	metrics.RecordOrganize("organize", req.Shape(), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	outcome, err := s.commit(ctx, "organize", target, result)
	if err != nil {
		return outcome, err
	}

	rec := rulestore.Record{
		Path:          target,
		Rules:         in.Rules,
		DateKind:      in.DateKind,
		CustomName:    in.CustomName,
		Order:         req.Order,
		IndexPosition: in.IndexPosition,
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return outcome, fmt.Errorf("failed to record rules for %s: %w", target, err)
	}
	return outcome, nil
}

// Insert moves the selection into an organized directory, applying the
// rules stored for it.
func (s *Session) Insert(ctx context.Context, target string) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := otel.Tracer("app").Start(ctx, "Session.Insert")
	defer span.End()
	span.SetAttributes(attribute.String("target", target))

	if err := s.requireSelection(); err != nil {
		return nil, err
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", target, err)
	}
	rec, err := s.store.Lookup(ctx, target)
	if err != nil {
		return nil, err
	}

	dir, err := s.cache.Navigate(ctx, target)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Expand(ctx, target); err != nil {
		return nil, err
	}

	req := rec.Request(s.ledger.Selected, filepath.Base(target))
	if len(req.Order) == 0 {
		req.Order = s.defaultOrder
	}
	result, err := organize.MoveInto(dir, target, req)
	metrics.RecordOrganize("insert", req.Shape(), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return s.commit(ctx, "insert", target, result)
}

// Rename renames the selection inside the current directory.
func (s *Session) Rename(ctx context.Context, in OrganizeInput) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := otel.Tracer("app").Start(ctx, "Session.Rename")
	defer span.End()

	if err := s.validateRename(in); err != nil {
		return nil, err
	}
	dir, ok := s.cache.Lookup(s.cwd)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, s.cwd)
	}

	in.DirectoryName = filepath.Base(s.cwd)
	req := s.request(in, s.ledger.Selected)
	result, err := organize.RenameInPlace(dir, s.cwd, req)
	metrics.RecordOrganize("rename", req.Shape(), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return s.commit(ctx, "rename", s.cwd, result)
}

// Extract moves every file below the organized directory name back into the
// current directory, removes the emptied directories and forgets the stored
// rules.
func (s *Session) Extract(ctx context.Context, name string) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := otel.Tracer("app").Start(ctx, "Session.Extract")
	defer span.End()

	if s.ledger == nil {
		return nil, fmt.Errorf("%w: no current directory", models.ErrNotFound)
	}
	source := filepath.Join(s.cwd, name)
	span.SetAttributes(attribute.String("source", source))

	dir, err := s.cache.Navigate(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Expand(ctx, source); err != nil {
		return nil, err
	}
	files, err := organize.Flatten(dir)
	if err != nil {
		return nil, err
	}
	// the directory is still on disk while its files move out
	if _, ok := files[name]; ok {
		return nil, fmt.Errorf("%w: %s holds a file named %s", models.ErrDuplicateName, source, name)
	}

	parent, ok := s.cache.Lookup(s.cwd)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, s.cwd)
	}

	// the extracted directory goes away, so its name is free for a file
	parent.RemoveDirectory(name)
	outcome := &Outcome{Operation: "extract", Path: source, Shape: "plain"}
	if len(files) > 0 {
		req := organize.Request{Files: files}
		result, err := organize.MoveInto(parent, s.cwd, req)
		metrics.RecordOrganize("extract", req.Shape(), err == nil)
		if err != nil {
			_ = parent.InsertDirectory(name, dir)
			return nil, err
		}
		if outcome, err = s.commit(ctx, "extract", source, result); err != nil {
			return outcome, err
		}
	}
	if _, err := mover.RemoveEmptyDirs(source); err != nil {
		return outcome, err
	}
	if err := s.store.Remove(ctx, source); err != nil {
		return outcome, fmt.Errorf("failed to forget rules for %s: %w", source, err)
	}
	return outcome, s.refresh(ctx)
}

// commit runs the mover over a committed result and re-reads the current
// directory.
func (s *Session) commit(ctx context.Context, operation, path string, result *organize.Result) (*Outcome, error) {
	logger := logging.WithContext(ctx).With(zap.String("operation", operation), zap.String("path", path))

	var journal mover.Journal
	var run *db.Journal
	if s.journal && s.db != nil {
		var err error
		if run, err = db.BeginRun(ctx, s.db, operation, path); err != nil {
			return nil, err
		}
		journal = run
	}

	stats, moveErr := mover.Move(ctx, result.Files, journal)
	if run != nil {
		if err := run.Finish(ctx, moveErr); err != nil {
			logger.Warn("failed to finish journal run", zap.Error(err))
		}
	}

	outcome := &Outcome{
		Operation: operation,
		Path:      path,
		Shape:     result.Shape,
		Moved:     stats.MovedFiles,
	}
	for _, f := range result.Files {
		outcome.Destinations = append(outcome.Destinations, f.Metadata.DestinationPath)
	}

	if moveErr != nil {
		logger.Error("move failed", zap.Error(moveErr), zap.Int64("moved", stats.MovedFiles))
		if err := s.refresh(ctx); err != nil {
			logger.Warn("failed to re-read directory", zap.Error(err))
		}
		return outcome, moveErr
	}

	logger.Info("files organized", zap.String("shape", result.Shape), zap.Int64("moved", stats.MovedFiles))
	return outcome, s.refresh(ctx)
}

func (s *Session) request(in OrganizeInput, files map[string]*models.File) organize.Request {
	order := in.Order
	if len(order) == 0 {
		order = s.defaultOrder
	}
	return organize.Request{
		Files:         files,
		Rules:         in.Rules,
		DirectoryName: in.DirectoryName,
		CustomName:    in.CustomName,
		Order:         order,
		DateKind:      in.DateKind,
		IndexPosition: in.IndexPosition,
	}
}
