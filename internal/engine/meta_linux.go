//go:build linux

package engine

import (
	"io/fs"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func statTimes(info fs.FileInfo) (atime time.Time, uid, gid uint32) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), 0, 0
	}
	return time.Unix(st.Atim.Sec, st.Atim.Nsec), st.Uid, st.Gid
}

// setFileTimes stamps through the open descriptor so the staged file is
// complete before rename. Kernels without AT_EMPTY_PATH get the path form.
func setFileTimes(f *os.File, atime, mtime time.Time) error {
	ts := []unix.Timespec{timespecOf(atime), timespecOf(mtime)}
	if err := unix.UtimesNanoAt(int(f.Fd()), "", ts, unix.AT_EMPTY_PATH); err != nil {
		return os.Chtimes(f.Name(), atime, mtime)
	}
	return nil
}

func timespecOf(t time.Time) unix.Timespec {
	if t.IsZero() {
		return unix.Timespec{Nsec: unix.UTIME_OMIT}
	}
	return unix.NsecToTimespec(t.UnixNano())
}
