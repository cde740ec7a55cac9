package tree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nrtkbb/fsorg/metrics"
	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/scanner"
)

// Cache is the in-memory mirror of the filesystem below the prefix root.
// It is not safe for concurrent use; callers own it exclusively.
type Cache struct {
	root   *Directory
	prefix PathPrefix
}

func NewCache(prefix PathPrefix) *Cache {
	if prefix == nil {
		prefix = DefaultPrefix()
	}
	return &Cache{root: NewDirectory(nil), prefix: prefix}
}

func (c *Cache) Root() *Directory { return c.root }

func (c *Cache) Prefix() PathPrefix { return c.prefix }

// Reset discards every node below the root.
func (c *Cache) Reset() {
	c.root = NewDirectory(nil)
}

// ReadInto reads the directory at path and replaces target's children and
// metadata with a fresh snapshot. Entries that cannot be stat'ed, and
// entries that are neither regular files nor directories, are skipped.
// On failure target is left untouched.
func (c *Cache) ReadInto(ctx context.Context, path string, target *Directory) error {
	_, span := otel.Tracer("tree").Start(ctx, "ReadInto")
	defer span.End()

	path = filepath.Clean(path)
	span.SetAttributes(attribute.String("path", path))

	entries, err := os.ReadDir(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordDirectoryRead(false)
		return fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	directories := make(map[string]*Directory)
	files := make(map[string]*models.File)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		childPath := filepath.Join(path, entry.Name())
		md := scanner.CollectMetadata(childPath, info)
		switch {
		case info.IsDir():
			directories[entry.Name()] = NewDirectory(&md)
		case info.Mode().IsRegular():
			files[entry.Name()] = models.NewFile(md)
		}
	}

	target.Load(directories, files)
	target.Metadata = parentEntry(path)
	metrics.RecordDirectoryRead(true)

	span.SetAttributes(
		attribute.Int("directories", len(directories)),
		attribute.Int("files", len(files)),
	)
	return nil
}

// parentEntry looks path up in its parent's listing. A root has no parent
// and gets no metadata.
func parentEntry(path string) *models.Metadata {
	parent := filepath.Dir(path)
	if parent == path {
		return nil
	}
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil
	}
	name := filepath.Base(path)
	for _, entry := range entries {
		if entry.Name() != name {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		md := scanner.CollectMetadata(path, info)
		return &md
	}
	return nil
}

// Lookup returns the node at path for writing. It fails on the first
// unexplored intermediate node or missing component and never creates
// nodes.
func (c *Cache) Lookup(path string) (*Directory, bool) {
	components, err := c.prefix.Split(path)
	if err != nil {
		return nil, false
	}
	current := c.root
	for _, name := range components {
		next, ok := current.Directory(name)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Nearest returns the deepest node reachable along path, for display.
func (c *Cache) Nearest(path string) *Directory {
	components, err := c.prefix.Split(path)
	if err != nil {
		return c.root
	}
	current := c.root
	for _, name := range components {
		next, ok := current.Directory(name)
		if !ok {
			break
		}
		current = next
	}
	return current
}

// Invalidate resets the node at path to unexplored. It reports whether a
// node was found.
func (c *Cache) Invalidate(path string) bool {
	d, ok := c.Lookup(path)
	if !ok {
		return false
	}
	d.Reset()
	return true
}

// InvalidateBranch is called when the current directory changes from one
// path to another. The highest node of from that is not an ancestor of to
// is reset, dropping the whole subtree that was left.
func (c *Cache) InvalidateBranch(from, to string) bool {
	fromComponents, err := c.prefix.Split(from)
	if err != nil {
		return false
	}
	toComponents, err := c.prefix.Split(to)
	if err != nil {
		// leaving for another root: everything below the old one goes
		toComponents = nil
	}

	common := 0
	for common < len(fromComponents) && common < len(toComponents) &&
		fromComponents[common] == toComponents[common] {
		common++
	}
	if common == len(fromComponents) {
		return false
	}
	return c.Invalidate(c.prefix.Join(fromComponents[:common+1]))
}

// Navigate makes path the loaded node it names. Unexplored ancestors are
// read on the way down and the target itself is always re-read.
func (c *Cache) Navigate(ctx context.Context, path string) (*Directory, error) {
	ctx, span := otel.Tracer("tree").Start(ctx, "Navigate")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	components, err := c.prefix.Split(path)
	if err != nil {
		return nil, err
	}

	current := c.root
	if len(components) == 0 || !current.Loaded() {
		if err := c.ReadInto(ctx, c.prefix.Join(nil), current); err != nil {
			return nil, err
		}
	}

	for i, name := range components {
		parentPath := c.prefix.Join(components[:i])
		next, ok := current.Directory(name)
		if !ok {
			// the parent snapshot may predate the directory
			if err := c.ReadInto(ctx, parentPath, current); err != nil {
				return nil, err
			}
			if next, ok = current.Directory(name); !ok {
				return nil, fmt.Errorf("%w: %s", models.ErrNotFound, c.prefix.Join(components[:i+1]))
			}
		}
		current = next
		if i == len(components)-1 || !current.Loaded() {
			if err := c.ReadInto(ctx, c.prefix.Join(components[:i+1]), current); err != nil {
				return nil, err
			}
		}
	}
	return current, nil
}

// ExternalRoots lists mounted volumes or drives.
func (c *Cache) ExternalRoots() []string {
	return c.prefix.ExternalRoots()
}

// Expand reads every unexplored directory of the subtree at path, which must
// already be loaded.
func (c *Cache) Expand(ctx context.Context, path string) error {
	d, ok := c.Lookup(path)
	if !ok || !d.Loaded() {
		return fmt.Errorf("failed to expand %s: %w", path, ErrUnexplored)
	}
	return c.expand(ctx, filepath.Clean(path), d)
}

func (c *Cache) expand(ctx context.Context, path string, d *Directory) error {
	for _, name := range d.DirectoryNames() {
		child, _ := d.Directory(name)
		childPath := filepath.Join(path, name)
		if !child.Loaded() {
			if err := c.ReadInto(ctx, childPath, child); err != nil {
				return err
			}
		}
		if err := c.expand(ctx, childPath, child); err != nil {
			return err
		}
	}
	return nil
}
