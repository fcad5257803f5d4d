//go:build linux

package platform

import (
	"fmt"
	"os"

	"github.com/iceber/iouring-go"
)

// Ring copies file content through io_uring. One ring is shared by all
// workers; the library serializes submissions internally.
type Ring struct {
	ring *iouring.IOURing
}

// NewRing sets up a submission queue with the given depth. Fails on
// kernels without io_uring support.
func NewRing(entries int) (*Ring, error) {
	if entries <= 0 {
		entries = 64
	}
	r, err := iouring.New(uint(entries))
	if err != nil {
		return nil, fmt.Errorf("io_uring setup: %w", err)
	}
	return &Ring{ring: r}, nil
}

func (r *Ring) Close() error {
	return r.ring.Close()
}

// Copy shuttles size bytes from src to dst as chunked pread/pwrite
// submissions. A short read ends the copy at the bytes actually seen.
func (r *Ring) Copy(src, dst *os.File, size int64) (int64, error) {
	bufp := GetBuffer()
	defer PutBuffer(bufp)
	buf := *bufp

	var offset int64
	for offset < size {
		chunk := int64(len(buf))
		if size-offset < chunk {
			chunk = size - offset
		}
		n, err := r.pread(src, buf[:chunk], offset)
		if err != nil {
			return offset, err
		}
		if n == 0 {
			break
		}
		if err := r.pwrite(dst, buf[:n], offset); err != nil {
			return offset, err
		}
		offset += int64(n)
	}
	return offset, nil
}

func (r *Ring) pread(f *os.File, b []byte, off int64) (int, error) {
	ch := make(chan iouring.Result, 1)
	if _, err := r.ring.SubmitRequest(iouring.Pread(int(f.Fd()), b, uint64(off)), ch); err != nil {
		return 0, err
	}
	res := <-ch
	return res.ReturnInt()
}

func (r *Ring) pwrite(f *os.File, b []byte, off int64) error {
	written := 0
	for written < len(b) {
		ch := make(chan iouring.Result, 1)
		prep := iouring.Pwrite(int(f.Fd()), b[written:], uint64(off+int64(written)))
		if _, err := r.ring.SubmitRequest(prep, ch); err != nil {
			return err
		}
		res := <-ch
		n, err := res.ReturnInt()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("io_uring pwrite stalled at offset %d", off+int64(written))
		}
		written += n
	}
	return nil
}
