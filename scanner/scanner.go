package scanner

import (
	"io/fs"
	"os"

	"github.com/nrtkbb/fsorg/models"
)

// CollectMetadata builds the metadata snapshot of the entry at path.
// info must describe path itself, not a symlink target.
func CollectMetadata(path string, info fs.FileInfo) models.Metadata {
	created, accessed, modified := getFileTimes(path, info)

	var size *float64
	if info.Mode().IsRegular() {
		s := float64(info.Size())
		size = &s
	}

	return models.Metadata{
		Name:       info.Name(),
		Created:    created,
		Accessed:   accessed,
		Modified:   modified,
		Size:       size,
		Readonly:   info.Mode()&0200 == 0,
		OriginPath: path,
	}
}

// Stat collects the metadata of path without following a final symlink.
func Stat(path string) (models.Metadata, fs.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return models.Metadata{}, nil, err
	}
	return CollectMetadata(path, info), info, nil
}

// FormatFileMode renders mode the way ls -l does, e.g. "drwxr-xr-x".
func FormatFileMode(mode os.FileMode) string {
	const perms = "rwxrwxrwx"

	buf := make([]byte, 0, 10)
	switch {
	case mode&os.ModeDir != 0:
		buf = append(buf, 'd')
	case mode&os.ModeSymlink != 0:
		buf = append(buf, 'l')
	default:
		buf = append(buf, '-')
	}

	for i := 0; i < len(perms); i++ {
		if mode&(1<<uint(8-i)) != 0 {
			buf = append(buf, perms[i])
		} else {
			buf = append(buf, '-')
		}
	}
	return string(buf)
}
