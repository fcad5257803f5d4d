//go:build darwin

package platform

import "golang.org/x/sys/unix"

// Copy tries clonefile for a CoW whole-file copy, then buffered
// read/write. Clonefile requires the destination not to exist, so a
// pre-created target simply falls through.
func Copy(req Request) (Result, error) {
	err := unix.Clonefile(req.Src.Name(), req.Dst.Name(), 0)
	if err == nil {
		return Result{Bytes: req.Size, Method: Clonefile}, nil
	}
	switch err {
	case unix.ENOTSUP, unix.EXDEV, unix.EEXIST:
	default:
		return Result{}, err
	}
	return copyReadWrite(req)
}
