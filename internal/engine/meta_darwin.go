//go:build darwin

package engine

import (
	"io/fs"
	"os"
	"syscall"
	"time"
)

func statTimes(info fs.FileInfo) (atime time.Time, uid, gid uint32) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), 0, 0
	}
	return time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec), st.Uid, st.Gid
}

// setFileTimes uses the path form; darwin has no AT_EMPTY_PATH. The
// staged file is invisible under its temporary name, so the window is
// harmless.
func setFileTimes(f *os.File, atime, mtime time.Time) error {
	return os.Chtimes(f.Name(), atime, mtime)
}
