package organize

import (
	"fmt"

	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/tree"
)

// Flatten collects every file of the loaded subtree rooted at dir, keyed by
// name. A name found twice fails with ErrDuplicateName.
func Flatten(dir *tree.Directory) (map[string]*models.File, error) {
	files := make(map[string]*models.File)
	if err := flattenInto(dir, files); err != nil {
		return nil, err
	}
	return files, nil
}

func flattenInto(dir *tree.Directory, files map[string]*models.File) error {
	if !dir.Loaded() {
		return tree.ErrUnexplored
	}
	for _, name := range dir.FileNames() {
		if _, dup := files[name]; dup {
			return fmt.Errorf("%w: %s", models.ErrDuplicateName, name)
		}
		f, _ := dir.File(name)
		files[name] = f
	}
	for _, name := range dir.DirectoryNames() {
		sub, _ := dir.Directory(name)
		if err := flattenInto(sub, files); err != nil {
			return err
		}
	}
	return nil
}
