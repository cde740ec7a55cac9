//go:build windows

package scanner

import (
	"io/fs"
	"syscall"
	"time"
)

func getFileTimes(_ string, info fs.FileInfo) (created, accessed, modified *time.Time) {
	m := info.ModTime()
	modified = &m

	winStat, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return nil, nil, modified
	}
	c := time.Unix(0, winStat.CreationTime.Nanoseconds())
	a := time.Unix(0, winStat.LastAccessTime.Nanoseconds())
	return &c, &a, modified
}
