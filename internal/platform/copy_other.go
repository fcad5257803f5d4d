//go:build !linux && !darwin

package platform

import "io"

// Copy uses plain buffered read/write where no kernel-side primitive is
// available.
func Copy(req Request) (Result, error) {
	bufp := GetBuffer()
	defer PutBuffer(bufp)
	n, err := io.CopyBuffer(req.Dst, io.LimitReader(req.Src, req.Size), *bufp)
	return Result{Bytes: n, Method: ReadWrite}, err
}
