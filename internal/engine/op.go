package engine

import (
	"io/fs"
	"path/filepath"
	"time"
)

// Kind classifies a filesystem entry as seen by the walker or the
// destination probe. Missing is a value, not an error: the planner
// branches on it constantly.
type Kind int

const (
	KindMissing Kind = iota
	KindFile
	KindDir
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindOther:
		return "other"
	default:
		return "missing"
	}
}

// Entry is an immutable snapshot of one source entry taken at walk time.
// RelPath is slash-joined relative to the source root, "." for the root
// itself. Metadata reflects the moment of the walk; executors re-stat when
// they need live values.
type Entry struct {
	RelPath string
	Kind    Kind
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	AccTime time.Time
	UID     uint32
	GID     uint32
}

// OpKind identifies the planned operation.
type OpKind int

const (
	opNone OpKind = iota
	OpCreateDir
	OpCopyFile
	OpMoveFile
	OpDeleteFile
	OpDeleteDir
	// opWalk marks traversal-stage failures reported as results; it is
	// never enqueued.
	opWalk
)

func (k OpKind) String() string {
	switch k {
	case OpCreateDir:
		return "mkdir"
	case OpCopyFile:
		return "copy"
	case OpMoveFile:
		return "move"
	case OpDeleteFile:
		return "delete"
	case OpDeleteDir:
		return "rmdir"
	case opWalk:
		return "walk"
	default:
		return "none"
	}
}

// Operation is one unit of planned filesystem work. It is self-contained:
// SrcPath and DstPath are resolved absolute paths, so executors never
// consult the roots again.
type Operation struct {
	Kind    OpKind
	RelPath string
	SrcPath string
	DstPath string
	Entry   Entry

	// PreserveMeta asks for timestamps, exact permission bits, ownership
	// and extended attributes on the placed entry.
	PreserveMeta bool
	// Placeholder writes a zero-length file instead of the source content.
	Placeholder bool
}

// parent returns the relative directory this operation depends on, "." at
// the top level. Execution of an operation waits until its parent's
// CreateDir has finished.
func (o Operation) parent() string {
	return filepath.Dir(o.RelPath)
}

// Outcome of one executed Operation.
type Outcome int

const (
	Succeeded Outcome = iota + 1
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result pairs an Operation with what happened to it. Exactly one Result
// is produced per planned Operation, plus synthetic ones for walk
// failures and skipped entries.
type Result struct {
	Op      Operation
	Outcome Outcome
	// Err is set when Outcome is Failed.
	Err *OpError
	// Reason is set when Outcome is Skipped.
	Reason string
	// Bytes is the payload written for copy and move operations.
	Bytes  int64
	Worker int
}
