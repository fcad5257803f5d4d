package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorKind classifies an operation failure into the categories callers act
// on: fatal kinds fail the run, NotFound does not.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	// ErrAccess: permission denied on the source or destination.
	ErrAccess
	// ErrConflict: destination path occupied by an incompatible entry kind.
	ErrConflict
	// ErrIO: read, write, or rename failure mid-operation.
	ErrIO
	// ErrNotFound: source entry vanished between walk and execution.
	ErrNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAccess:
		return "access"
	case ErrConflict:
		return "conflict"
	case ErrIO:
		return "io"
	case ErrNotFound:
		return "not-found"
	default:
		return "none"
	}
}

// Fatal reports whether a failure of this kind makes the whole run fail.
// A vanished source entry is recorded but never poisons the run.
func (k ErrorKind) Fatal() bool {
	switch k {
	case ErrAccess, ErrConflict, ErrIO:
		return true
	default:
		return false
	}
}

// OpError couples a classified kind with the underlying cause.
type OpError struct {
	Kind ErrorKind
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// classifySrc maps an error raised while reading the source. A missing
// path here means the entry disappeared after planning.
func classifySrc(err error) *OpError {
	if errors.Is(err, fs.ErrNotExist) {
		return &OpError{Kind: ErrNotFound, Err: err}
	}
	return &OpError{Kind: classifyCommon(err), Err: err}
}

// classifyDst maps an error raised while touching the destination. A
// missing path here is an I/O failure: the plan guarantees parents exist.
func classifyDst(err error) *OpError {
	return &OpError{Kind: classifyCommon(err), Err: err}
}

func classifyCommon(err error) ErrorKind {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return ErrAccess
	case errors.Is(err, fs.ErrExist),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.EISDIR):
		return ErrConflict
	default:
		return ErrIO
	}
}
