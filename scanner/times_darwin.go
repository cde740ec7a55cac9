//go:build darwin

package scanner

import (
	"io/fs"
	"syscall"
	"time"
)

func getFileTimes(_ string, info fs.FileInfo) (created, accessed, modified *time.Time) {
	m := info.ModTime()
	modified = &m

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, nil, modified
	}
	// macOS exposes the creation time as Birthtimespec
	c := time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	a := time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
	return &c, &a, modified
}
