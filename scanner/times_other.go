//go:build !linux && !darwin && !windows

package scanner

import (
	"io/fs"
	"time"
)

func getFileTimes(_ string, info fs.FileInfo) (created, accessed, modified *time.Time) {
	m := info.ModTime()
	return nil, nil, &m
}
