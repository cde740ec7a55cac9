package tree

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nrtkbb/fsorg/models"
)

// PathPrefix maps absolute paths to the component lists used to walk the
// tree, and back. One strategy is chosen at startup.
type PathPrefix interface {
	// Split strips the root prefix from an absolute path and returns the
	// remaining components, one per tree level.
	Split(p string) ([]string, error)
	// Join is the inverse of Split.
	Join(components []string) string
	// ExternalRoots lists mounted volumes or drives.
	ExternalRoots() []string
}

// DefaultPrefix picks the strategy for the running platform.
func DefaultPrefix() PathPrefix {
	switch runtime.GOOS {
	case "windows":
		drive := filepath.VolumeName(os.Getenv("USERPROFILE"))
		if drive == "" {
			drive = "C:"
		}
		return DrivePrefix{Drive: drive}
	case "darwin":
		return PosixPrefix{MountDirs: []string{"/Volumes"}}
	default:
		return PosixPrefix{MountDirs: []string{"/run/media", "/media"}}
	}
}

// PosixPrefix addresses paths below "/".
type PosixPrefix struct {
	MountDirs []string
}

func (PosixPrefix) Split(p string) ([]string, error) {
	if !strings.HasPrefix(p, "/") {
		return nil, fmt.Errorf("%w: %q is not an absolute path", models.ErrInvalidInput, p)
	}
	return splitComponents(strings.TrimPrefix(path.Clean(p), "/")), nil
}

func (PosixPrefix) Join(components []string) string {
	return "/" + strings.Join(components, "/")
}

func (p PosixPrefix) ExternalRoots() []string {
	var roots []string
	for _, dir := range p.MountDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				roots = append(roots, path.Join(dir, e.Name()))
			}
		}
	}
	return roots
}

// DrivePrefix addresses paths below one drive root such as "C:/".
// Backslashes are accepted as separators.
type DrivePrefix struct {
	Drive string
}

func (d DrivePrefix) Split(p string) ([]string, error) {
	p = strings.ReplaceAll(p, `\`, "/")
	if len(p) < 3 || p[1] != ':' || p[2] != '/' {
		return nil, fmt.Errorf("%w: %q is not an absolute drive path", models.ErrInvalidInput, p)
	}
	if !strings.EqualFold(p[:2], d.Drive) {
		return nil, fmt.Errorf("%w: %q is not on drive %s", models.ErrNotFound, p, d.Drive)
	}
	return splitComponents(strings.TrimPrefix(path.Clean(p[2:]), "/")), nil
}

func (d DrivePrefix) Join(components []string) string {
	return d.Drive + "/" + strings.Join(components, "/")
}

func (DrivePrefix) ExternalRoots() []string {
	var roots []string
	for letter := 'A'; letter <= 'Z'; letter++ {
		root := string(letter) + ":/"
		if _, err := os.ReadDir(root); err == nil {
			roots = append(roots, root)
		}
	}
	return roots
}

func splitComponents(rest string) []string {
	if rest == "" || rest == "." {
		return nil
	}
	return strings.Split(rest, "/")
}
