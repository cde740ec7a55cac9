package organize

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"

	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/tree"
)

// Request is one organizing action over a selection.
type Request struct {
	Files         map[string]*models.File
	Rules         Rules
	DirectoryName string
	CustomName    string
	Order         []Component
	DateKind      models.DateKind
	IndexPosition IndexPosition
}

// Result describes a committed action. Files carry their destination path
// and are sorted by it.
type Result struct {
	Shape string
	Files []*models.File
}

// Shape names the behaviour the switches of req select.
func (req Request) Shape() string {
	return shapeOf(req.Rules).String()
}

// CreateDirectory organizes the selection into a new directory named
// req.DirectoryName under parent.
func CreateDirectory(parent *tree.Directory, parentPath string, req Request) (*Result, error) {
	if !parent.Loaded() {
		return nil, tree.ErrUnexplored
	}
	if err := ValidName(req.DirectoryName); err != nil {
		return nil, err
	}
	if _, ok := parent.Directory(req.DirectoryName); ok {
		return nil, fmt.Errorf("%w: directory %s already exists", models.ErrDuplicateName, req.DirectoryName)
	}
	if _, ok := parent.File(req.DirectoryName); ok {
		return nil, fmt.Errorf("%w: a file named %s already exists", models.ErrDuplicateName, req.DirectoryName)
	}

	staged, s, err := stage(req, nil)
	if err != nil {
		return nil, err
	}

	targetPath := filepath.Join(parentPath, req.DirectoryName)
	staged.Metadata = &models.Metadata{Name: req.DirectoryName, DestinationPath: targetPath}
	if err := parent.InsertDirectory(req.DirectoryName, staged); err != nil {
		return nil, err
	}
	return &Result{Shape: s.String(), Files: assignDestinations(staged, targetPath)}, nil
}

// MoveInto merges the organized selection into the existing directory
// target. Same-named buckets are merged file by file. Every collision is
// checked before target is touched.
func MoveInto(target *tree.Directory, targetPath string, req Request) (*Result, error) {
	if !target.Loaded() {
		return nil, tree.ErrUnexplored
	}

	staged, s, err := stage(req, target)
	if err != nil {
		return nil, err
	}
	if err := checkMerge(target, staged, ""); err != nil {
		return nil, err
	}
	merge(target, staged)

	return &Result{Shape: s.String(), Files: assignDestinations(staged, targetPath)}, nil
}

// RenameInPlace renames the selected files of dir without moving them to
// another directory.
func RenameInPlace(dir *tree.Directory, dirPath string, req Request) (*Result, error) {
	if !dir.Loaded() {
		return nil, tree.ErrUnexplored
	}

	// the selection must not collide with itself
	removed := make(map[string]*models.File)
	for name, f := range req.Files {
		if current, ok := dir.File(name); ok && current == f {
			removed[name] = f
			dir.RemoveFile(name)
		}
	}

	result, err := MoveInto(dir, dirPath, req)
	if err != nil {
		for name, f := range removed {
			_ = dir.InsertFile(name, f)
		}
		return nil, err
	}
	return result, nil
}

func (req Request) validate(s shape) error {
	if len(req.Files) == 0 {
		return fmt.Errorf("%w: no files selected", models.ErrInvalidInput)
	}
	switch s {
	case shapeTypeAndDate, shapeDate:
		if req.DateKind == models.DateNone {
			return fmt.Errorf("%w: date type not specified", models.ErrInvalidInput)
		}
	case shapeType, shapeRename:
		if req.Rules.InsertDateToFileName && req.DateKind == models.DateNone {
			return fmt.Errorf("%w: date type not specified", models.ErrInvalidInput)
		}
	}
	return nil
}

// stage builds the organized selection as a detached tree. Nothing outside
// the returned tree is modified. When base is the directory the tree will be
// merged into, indexes continue after the files its buckets already hold.
func stage(req Request, base *tree.Directory) (*tree.Directory, shape, error) {
	s := shapeOf(req.Rules)
	if s == shapeUnmatched {
		return nil, s, models.ErrUnmatchedRules
	}
	if err := req.validate(s); err != nil {
		return nil, s, err
	}

	rn := newRenamer(req)
	byType := func(name string, _ *models.File) string { return TypeKey(name) }
	byDate := func(_ string, f *models.File) string { return DateKey(f, req.DateKind) }

	staged := tree.NewLoaded(nil)
	var err error
	switch s {
	case shapeTypeAndDate:
		if err = bucketInto(staged, nil, req.Files, byType, nil); err != nil {
			break
		}
		for _, name := range staged.DirectoryNames() {
			typeDir, _ := staged.Directory(name)
			files := typeDir.Files()
			typeDir.Load(nil, nil)
			if err = bucketInto(typeDir, counterpart(base, name), files, byDate, &rn); err != nil {
				break
			}
		}
	case shapeType:
		err = bucketInto(staged, base, req.Files, byType, &rn)
	case shapeDate:
		err = bucketInto(staged, base, req.Files, byDate, &rn)
	case shapeRename:
		err = bucketInto(staged, base, req.Files, nil, &rn)
	case shapePlain:
		err = bucketInto(staged, base, req.Files, nil, nil)
	}
	if err != nil {
		return nil, s, err
	}

	Prune(staged)
	return staged, s, nil
}

type keyFunc func(name string, f *models.File) string

// bucketInto distributes files into sub-directories of dir named by key, or
// into dir itself when key is nil. Files are renamed when rn is set; the
// index handed to the renamer counts files per bucket, starting after the
// files held by the matching bucket of base.
func bucketInto(dir, base *tree.Directory, files map[string]*models.File, key keyFunc, rn *renamer) error {
	for _, name := range sortedNames(files) {
		f := files[name]

		bucket, existing := dir, base
		if key != nil {
			k := key(name, f)
			existing = counterpart(base, k)
			b, ok := dir.Directory(k)
			if !ok {
				b = tree.NewLoaded(&models.Metadata{Name: k})
				if err := dir.InsertDirectory(k, b); err != nil {
					return err
				}
			}
			bucket = b
		}

		newName := name
		if rn != nil {
			var err error
			index := bucket.FileCount() + 1
			if existing != nil && existing.Loaded() {
				index += existing.FileCount()
			}
			if newName, err = rn.rename(name, f, index); err != nil {
				return err
			}
		}
		if _, dup := bucket.File(newName); dup {
			return fmt.Errorf("%w: %s is produced twice", models.ErrDuplicateName, newName)
		}
		if err := bucket.InsertFile(newName, f); err != nil {
			return err
		}
	}
	return nil
}

// counterpart returns the sub-directory name of base, or nil.
func counterpart(base *tree.Directory, name string) *tree.Directory {
	if base == nil || !base.Loaded() {
		return nil
	}
	d, _ := base.Directory(name)
	return d
}

// checkMerge fails if any staged name collides with target, descending into
// buckets that exist on both sides.
func checkMerge(target, staged *tree.Directory, rel string) error {
	for _, name := range staged.FileNames() {
		if _, ok := target.File(name); ok {
			return fmt.Errorf("%w: %s", models.ErrDuplicateName, path.Join(rel, name))
		}
		if _, ok := target.Directory(name); ok {
			return fmt.Errorf("%w: %s is a directory", models.ErrDuplicateName, path.Join(rel, name))
		}
	}
	for _, name := range staged.DirectoryNames() {
		if _, ok := target.File(name); ok {
			return fmt.Errorf("%w: %s is a file", models.ErrDuplicateName, path.Join(rel, name))
		}
		existing, ok := target.Directory(name)
		if !ok {
			continue
		}
		if !existing.Loaded() {
			return fmt.Errorf("failed to merge into %s: %w", path.Join(rel, name), tree.ErrUnexplored)
		}
		sub, _ := staged.Directory(name)
		if err := checkMerge(existing, sub, path.Join(rel, name)); err != nil {
			return err
		}
	}
	return nil
}

// merge commits a checked staged tree into target.
func merge(target, staged *tree.Directory) {
	for name, f := range staged.Files() {
		_ = target.InsertFile(name, f)
	}
	for name, sub := range staged.Directories() {
		if existing, ok := target.Directory(name); ok {
			merge(existing, sub)
			continue
		}
		_ = target.InsertDirectory(name, sub)
	}
}

// Prune removes the empty sub-directories of d bottom-up and returns how
// many were removed. d itself is kept.
func Prune(d *tree.Directory) int {
	removed := 0
	for _, name := range d.DirectoryNames() {
		sub, _ := d.Directory(name)
		removed += Prune(sub)
		if sub.Empty() {
			d.RemoveDirectory(name)
			removed++
		}
	}
	return removed
}

func assignDestinations(staged *tree.Directory, targetPath string) []*models.File {
	var files []*models.File
	staged.Walk(func(rel []string, name string, f *models.File) {
		if f.Metadata == nil {
			f.Metadata = &models.Metadata{}
		}
		parts := append([]string{targetPath}, rel...)
		f.Metadata.DestinationPath = filepath.Join(append(parts, name)...)
		files = append(files, f)
	})
	sort.Slice(files, func(i, j int) bool {
		return files[i].Metadata.DestinationPath < files[j].Metadata.DestinationPath
	})
	return files
}

func sortedNames(files map[string]*models.File) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
