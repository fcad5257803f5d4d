// Package platform selects the fastest whole-file copy primitive the host
// kernel offers and falls back gracefully to plain read/write.
package platform

import (
	"os"
	"sync"
)

// Method identifies which strategy moved the bytes.
type Method int

const (
	ReadWrite Method = iota
	CopyFileRange
	Sendfile
	Clonefile
	IOURing
)

func (m Method) String() string {
	switch m {
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	case Clonefile:
		return "clonefile"
	case IOURing:
		return "io_uring"
	default:
		return "read_write"
	}
}

// Request describes one whole-file copy between open descriptors. Size is
// the expected source length; short sources end the copy early rather
// than erroring.
type Request struct {
	Src  *os.File
	Dst  *os.File
	Size int64
	// Preallocate reserves destination space up front where the
	// filesystem supports it.
	Preallocate bool
}

// Result reports what a copy did.
type Result struct {
	Bytes  int64
	Method Method
}

const bufferSize = 1 << 20

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// GetBuffer borrows a 1 MiB copy buffer from the shared pool.
func GetBuffer() *[]byte { return bufPool.Get().(*[]byte) }

// PutBuffer returns a borrowed buffer.
func PutBuffer(b *[]byte) { bufPool.Put(b) }
