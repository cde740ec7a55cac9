//go:build linux

package scanner

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// getFileTimes reads atime from the stat result and asks statx for the
// birth time, which plain stat does not report on Linux.
func getFileTimes(path string, info fs.FileInfo) (created, accessed, modified *time.Time) {
	m := info.ModTime()
	modified = &m

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		a := time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
		accessed = &a
	}

	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 {
		c := time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		created = &c
	}
	return created, accessed, modified
}
