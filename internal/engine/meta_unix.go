//go:build linux || darwin

package engine

import (
	"os"

	"golang.org/x/sys/unix"
)

// copyXattrs replicates extended attributes onto the staged descriptor.
// Attributes outside the caller's reach (trusted.*, some security.*) fail
// individually without aborting the rest.
func copyXattrs(srcPath string, dst *os.File) error {
	size, err := unix.Listxattr(srcPath, nil)
	if err != nil || size == 0 {
		return err
	}
	buf := make([]byte, size)
	n, err := unix.Listxattr(srcPath, buf)
	if err != nil {
		return err
	}
	for _, name := range splitXattrNames(buf[:n]) {
		vsize, err := unix.Getxattr(srcPath, name, nil)
		if err != nil || vsize <= 0 {
			continue
		}
		value := make([]byte, vsize)
		vn, err := unix.Getxattr(srcPath, name, value)
		if err != nil {
			continue
		}
		unix.Fsetxattr(int(dst.Fd()), name, value[:vn], 0)
	}
	return nil
}

func splitXattrNames(buf []byte) []string {
	var names []string
	start := 0
	for i, b := range buf {
		if b == 0 {
			if i > start {
				names = append(names, string(buf[start:i]))
			}
			start = i + 1
		}
	}
	return names
}

func chownFile(f *os.File, uid, gid uint32) error {
	return f.Chown(int(uid), int(gid))
}
