// Package tree holds the lazily populated, path-addressed mirror of a real
// directory tree.
package tree

import (
	"fmt"
	"sort"

	"github.com/nrtkbb/fsorg/models"
)

// State tells whether a directory's children have been read.
type State int

const (
	// Unexplored nodes have never been read, or were invalidated.
	Unexplored State = iota
	// Loaded nodes hold a snapshot of their children as of the last read.
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unexplored"
}

// ErrUnexplored is returned when a write targets a directory whose
// children are unknown.
var ErrUnexplored = fmt.Errorf("directory is unexplored: %w", models.ErrNotFound)

// Directory is a node of the tree. Its children live in content, which is
// nil while the node is unexplored; there is no partially loaded state.
type Directory struct {
	Metadata *models.Metadata
	content  *content
}

type content struct {
	directories map[string]*Directory
	files       map[string]*models.File
}

// NewDirectory returns an unexplored node.
func NewDirectory(metadata *models.Metadata) *Directory {
	return &Directory{Metadata: metadata}
}

// NewLoaded returns a loaded node without children.
func NewLoaded(metadata *models.Metadata) *Directory {
	d := &Directory{Metadata: metadata}
	d.Load(nil, nil)
	return d
}

func (d *Directory) State() State {
	if d.content == nil {
		return Unexplored
	}
	return Loaded
}

func (d *Directory) Loaded() bool { return d.content != nil }

// Load replaces the children of d with the given snapshot. nil maps are
// stored as empty maps.
func (d *Directory) Load(directories map[string]*Directory, files map[string]*models.File) {
	if directories == nil {
		directories = make(map[string]*Directory)
	}
	if files == nil {
		files = make(map[string]*models.File)
	}
	d.content = &content{directories: directories, files: files}
}

// Reset drops the children and returns d to the unexplored state, so the
// next visit re-reads the disk instead of showing stale emptiness.
func (d *Directory) Reset() {
	d.content = nil
}

// Directories exposes the child directory map, nil when unexplored.
func (d *Directory) Directories() map[string]*Directory {
	if d.content == nil {
		return nil
	}
	return d.content.directories
}

// Files exposes the file map, nil when unexplored.
func (d *Directory) Files() map[string]*models.File {
	if d.content == nil {
		return nil
	}
	return d.content.files
}

func (d *Directory) Directory(name string) (*Directory, bool) {
	if d.content == nil {
		return nil, false
	}
	child, ok := d.content.directories[name]
	return child, ok
}

func (d *Directory) File(name string) (*models.File, bool) {
	if d.content == nil {
		return nil, false
	}
	f, ok := d.content.files[name]
	return f, ok
}

// DirectoryNames lists child directories in byte-wise name order.
func (d *Directory) DirectoryNames() []string {
	return sortedKeys(d.Directories())
}

// FileNames lists files in byte-wise name order.
func (d *Directory) FileNames() []string {
	return sortedKeys(d.Files())
}

func (d *Directory) FileCount() int {
	return len(d.Files())
}

// Empty reports a loaded node with neither files nor sub-directories.
func (d *Directory) Empty() bool {
	return d.content != nil && len(d.content.directories) == 0 && len(d.content.files) == 0
}

func (d *Directory) InsertDirectory(name string, child *Directory) error {
	if d.content == nil {
		return ErrUnexplored
	}
	d.content.directories[name] = child
	return nil
}

func (d *Directory) InsertFile(name string, f *models.File) error {
	if d.content == nil {
		return ErrUnexplored
	}
	d.content.files[name] = f
	return nil
}

func (d *Directory) RemoveDirectory(name string) {
	if d.content != nil {
		delete(d.content.directories, name)
	}
}

func (d *Directory) RemoveFile(name string) {
	if d.content != nil {
		delete(d.content.files, name)
	}
}

// Walk visits every file of the loaded subtree in name order. rel holds the
// directory names from d down to the file's parent; it is reused between
// calls and must be copied to be retained.
func (d *Directory) Walk(fn func(rel []string, name string, f *models.File)) {
	d.walk(nil, fn)
}

func (d *Directory) walk(rel []string, fn func([]string, string, *models.File)) {
	for _, name := range d.FileNames() {
		fn(rel, name, d.content.files[name])
	}
	for _, name := range d.DirectoryNames() {
		d.content.directories[name].walk(append(rel, name), fn)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
