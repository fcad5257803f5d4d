package engine

import (
	"io/fs"
	"os"
)

// kindOf maps a file mode to an entry kind. Symlinks, devices, sockets and
// fifos all land in KindOther; they are reported, never followed.
func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	default:
		return KindOther
	}
}

// entryFromInfo snapshots a source entry. Access time and ownership come
// from the platform stat where available.
func entryFromInfo(rel string, info fs.FileInfo) Entry {
	e := Entry{
		RelPath: rel,
		Kind:    kindOf(info.Mode()),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
	}
	if e.Kind == KindFile {
		e.Size = info.Size()
	}
	e.AccTime, e.UID, e.GID = statTimes(info)
	return e
}

// probePath classifies what currently sits at an absolute destination
// path. Lookup failures other than absence degrade to KindMissing: the
// planner then emits the operation and lets the executor surface the real
// error.
func probePath(path string) Kind {
	info, err := os.Lstat(path)
	if err != nil {
		return KindMissing
	}
	return kindOf(info.Mode())
}
