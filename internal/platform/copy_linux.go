//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// Copy tries copy_file_range, then sendfile, then buffered read/write.
// The kernel paths keep data out of userspace entirely; cross-device and
// filesystem-support errors fall through to the next strategy.
func Copy(req Request) (Result, error) {
	if req.Preallocate {
		preallocate(req.Dst, req.Size)
	}

	res, err := copyFileRange(req)
	if err == nil {
		return res, nil
	}
	if !isFallbackErr(err) {
		return res, err
	}

	res, err = copySendfile(req)
	if err == nil {
		return res, nil
	}
	if !isFallbackErr(err) {
		return res, err
	}

	return copyReadWrite(req)
}

func copyFileRange(req Request) (Result, error) {
	var (
		roff, woff int64
		total      int64
	)
	remaining := req.Size
	for remaining > 0 {
		n, err := unix.CopyFileRange(int(req.Src.Fd()), &roff, int(req.Dst.Fd()), &woff, int(remaining), 0)
		if err != nil {
			if total == 0 {
				return Result{}, err
			}
			return Result{Bytes: total, Method: CopyFileRange}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		total += int64(n)
	}
	return Result{Bytes: total, Method: CopyFileRange}, nil
}

func copySendfile(req Request) (Result, error) {
	var (
		offset int64
		total  int64
	)
	remaining := req.Size
	for remaining > 0 {
		n, err := unix.Sendfile(int(req.Dst.Fd()), int(req.Src.Fd()), &offset, int(remaining))
		if err != nil {
			if total == 0 {
				return Result{}, err
			}
			return Result{Bytes: total, Method: Sendfile}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		total += int64(n)
	}
	return Result{Bytes: total, Method: Sendfile}, nil
}

// preallocate is advisory; many filesystems reject fallocate.
func preallocate(f *os.File, size int64) {
	if size > 0 {
		unix.Fallocate(int(f.Fd()), 0, 0, size)
	}
}

// isFallbackErr reports whether the next strategy should be tried.
func isFallbackErr(err error) bool {
	switch err {
	case unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP:
		return true
	}
	if pe, ok := err.(*os.PathError); ok {
		return isFallbackErr(pe.Err)
	}
	return false
}
