//go:build linux || darwin

package platform

import "golang.org/x/sys/unix"

// copyReadWrite moves data with positional reads and writes and a pooled
// buffer. The descriptors' own offsets are untouched, which keeps this
// safe to mix with the kernel-side strategies above it.
func copyReadWrite(req Request) (Result, error) {
	bufp := GetBuffer()
	defer PutBuffer(bufp)
	buf := *bufp

	var (
		offset int64
		total  int64
	)
	srcFd := int(req.Src.Fd())
	dstFd := int(req.Dst.Fd())
	remaining := req.Size

	for remaining > 0 {
		toRead := len(buf)
		if int64(toRead) > remaining {
			toRead = int(remaining)
		}
		n, err := unix.Pread(srcFd, buf[:toRead], offset)
		if err != nil {
			return Result{Bytes: total, Method: ReadWrite}, err
		}
		if n == 0 {
			break
		}
		written := 0
		for written < n {
			w, err := unix.Pwrite(dstFd, buf[written:n], offset+int64(written))
			if err != nil {
				return Result{Bytes: total + int64(written), Method: ReadWrite}, err
			}
			written += w
		}
		offset += int64(n)
		remaining -= int64(n)
		total += int64(n)
	}
	return Result{Bytes: total, Method: ReadWrite}, nil
}
