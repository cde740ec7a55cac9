// Package app holds the Session that the CLI and the HTTP API drive.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/db"
	"github.com/nrtkbb/fsorg/ledger"
	"github.com/nrtkbb/fsorg/logging"
	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
	"github.com/nrtkbb/fsorg/rulestore"
	"github.com/nrtkbb/fsorg/scanner"
	"github.com/nrtkbb/fsorg/tree"
)

type Options struct {
	Prefix       tree.PathPrefix
	Store        rulestore.Store
	DB           *sql.DB
	Journal      bool
	DefaultOrder []organize.Component
}

// Session owns the tree cache and the selection of the current directory.
// All methods are serialized; a tree commit always finishes before the
// mover starts.
type Session struct {
	mu           sync.Mutex
	cache        *tree.Cache
	store        rulestore.Store
	db           *sql.DB
	journal      bool
	defaultOrder []organize.Component

	cwd    string
	ledger *ledger.Ledger

	cleanup sync.Once
}

func NewSession(opts Options) *Session {
	order := opts.DefaultOrder
	if len(order) == 0 {
		order = append([]organize.Component(nil), organize.Components...)
	}
	return &Session{
		cache:        tree.NewCache(opts.Prefix),
		store:        opts.Store,
		db:           opts.DB,
		journal:      opts.Journal,
		defaultOrder: order,
	}
}

// Open builds a Session from the configuration, opening the database when a
// configured feature needs it.
func Open(cfg *config.Config) (*Session, error) {
	order, err := cfg.Order()
	if err != nil {
		return nil, err
	}
	opts := Options{
		Prefix:       tree.DefaultPrefix(),
		Journal:      cfg.Journal,
		DefaultOrder: order,
	}

	if cfg.NeedsDatabase() {
		database, err := db.SetupDatabase(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		opts.DB = database
	}

	switch cfg.StoreBackend {
	case config.BackendSQLite:
		opts.Store = db.NewRuleStore(opts.DB)
	default:
		opts.Store = rulestore.NewCSVStore(cfg.BasePath)
	}
	return NewSession(opts), nil
}

// Close releases the database. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.cleanup.Do(func() {
		logger := logging.L()
		logger.Debug("closing session")
		if s.db != nil {
			if err = db.Close(s.db); err != nil {
				logger.Error("failed to close database", zap.Error(err))
			}
		}
	})
	return err
}

func (s *Session) Store() rulestore.Store { return s.store }

func (s *Session) DB() *sql.DB { return s.db }

// Cwd is the directory the session is looking at.
func (s *Session) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd
}

// Entry is one line of a listing.
type Entry struct {
	Name     string     `json:"name"`
	Dir      bool       `json:"dir"`
	Size     *float64   `json:"size,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`
	Readonly bool       `json:"readonly"`
	Selected bool       `json:"selected"`
}

type Listing struct {
	Path        string  `json:"path"`
	Directories []Entry `json:"directories"`
	Files       []Entry `json:"files"`
}

// Navigate makes path the current directory and starts a new selection.
// The subtree that was left is invalidated.
func (s *Session) Navigate(ctx context.Context, path string) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := otel.Tracer("app").Start(ctx, "Session.Navigate")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := s.navigate(ctx, abs); err != nil {
		return nil, err
	}
	return s.listing(), nil
}

func (s *Session) navigate(ctx context.Context, path string) error {
	dir, err := s.cache.Navigate(ctx, path)
	if err != nil {
		return err
	}
	if s.cwd != "" && s.cwd != path {
		s.cache.InvalidateBranch(s.cwd, path)
	}
	s.cwd = path
	s.ledger = ledger.New(path, dir.Files())
	logging.WithContext(ctx).Debug("navigated", zap.String("path", path), zap.Int("files", dir.FileCount()))
	return nil
}

// refresh re-reads the current directory after files moved. The selection
// starts over.
func (s *Session) refresh(ctx context.Context) error {
	return s.navigate(ctx, s.cwd)
}

// Listing describes the current directory.
func (s *Session) Listing() (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger == nil {
		return nil, fmt.Errorf("%w: no current directory", models.ErrNotFound)
	}
	return s.listing(), nil
}

func (s *Session) listing() *Listing {
	dir := s.cache.Nearest(s.cwd)
	l := &Listing{Path: s.cwd, Directories: []Entry{}, Files: []Entry{}}
	for _, name := range dir.DirectoryNames() {
		child, _ := dir.Directory(name)
		l.Directories = append(l.Directories, entry(name, child.Metadata, true))
	}
	for _, name := range dir.FileNames() {
		f, _ := dir.File(name)
		e := entry(name, f.Metadata, false)
		e.Selected = s.ledger.IsSelected(name)
		l.Files = append(l.Files, e)
	}
	return l
}

func entry(name string, md *models.Metadata, dir bool) Entry {
	e := Entry{Name: name, Dir: dir}
	if md != nil {
		e.Size = md.Size
		e.Modified = md.Modified
		e.Readonly = md.Readonly
	}
	return e
}

// Select toggles each name of the current directory in the selection.
func (s *Session) Select(names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger == nil {
		return fmt.Errorf("%w: no current directory", models.ErrNotFound)
	}
	for _, name := range names {
		if err := s.ledger.Select(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) SelectAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger == nil {
		return fmt.Errorf("%w: no current directory", models.ErrNotFound)
	}
	s.ledger.SelectAll()
	return nil
}

// Selection lists the selected names.
func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger == nil {
		return nil
	}
	_, selected := s.ledger.Names()
	return selected
}

// FileInfo is a fresh stat of one file of the current directory.
type FileInfo struct {
	models.Metadata
	Mode string `json:"mode"`
}

func (s *Session) Stat(name string) (*FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.cache.Nearest(s.cwd)
	f, ok := dir.File(name)
	if !ok || f.Metadata == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, name)
	}
	md, info, err := scanner.Stat(f.Metadata.OriginPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return &FileInfo{Metadata: md, Mode: scanner.FormatFileMode(info.Mode())}, nil
}

// Roots lists mounted volumes or drives.
func (s *Session) Roots() []string {
	return s.cache.ExternalRoots()
}

// Rules returns the stored record of an organized directory.
func (s *Session) Rules(ctx context.Context, path string) (rulestore.Record, error) {
	return s.store.Lookup(ctx, path)
}
