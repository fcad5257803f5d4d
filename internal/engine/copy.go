package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ferrycp/ferry/internal/platform"
)

// tmpPathFor derives the temporary name content is staged under before
// the final rename. Unique per attempt so concurrent runs into the same
// destination never collide on O_EXCL.
func tmpPathFor(dstPath string) string {
	dir, base := filepath.Split(dstPath)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s%s", base, uuid.NewString()[:8], tmpSuffix))
}

func (wp *workerPool) copyFile(ctx context.Context, op Operation, worker int) Result {
	bytes, opErr := wp.placeFile(ctx, op)
	if opErr != nil {
		return Result{Op: op, Outcome: Failed, Err: opErr, Worker: worker}
	}
	return Result{Op: op, Outcome: Succeeded, Bytes: bytes, Worker: worker}
}

// moveFile is copyFile plus source removal, and the removal happens only
// once the rename has landed. A crash at any point leaves at least one
// complete copy of the content.
func (wp *workerPool) moveFile(ctx context.Context, op Operation, worker int) Result {
	bytes, opErr := wp.placeFile(ctx, op)
	if opErr != nil {
		return Result{Op: op, Outcome: Failed, Err: opErr, Worker: worker}
	}
	if err := os.Remove(op.SrcPath); err != nil && !os.IsNotExist(err) {
		return Result{Op: op, Outcome: Failed, Err: classifySrc(err), Worker: worker}
	}
	return Result{Op: op, Outcome: Succeeded, Bytes: bytes, Worker: worker}
}

// placeFile stages content in a temporary sibling, applies metadata while
// the descriptor is still open, then renames into place. Readers of the
// destination path see either the old entry or the finished new one.
func (wp *workerPool) placeFile(ctx context.Context, op Operation) (int64, *OpError) {
	var src *os.File
	size := op.Entry.Size
	if !op.Placeholder {
		f, err := os.Open(op.SrcPath)
		if err != nil {
			return 0, classifySrc(err)
		}
		defer f.Close()
		src = f
		// the walk snapshot can be stale; size drives preallocation only
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
	}

	tmp := tmpPathFor(op.DstPath)
	registerTmp(tmp)
	defer func() {
		os.Remove(tmp)
		deregisterTmp(tmp)
	}()

	dst, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, op.Entry.Mode.Perm())
	if err != nil {
		return 0, classifyDst(err)
	}

	var written int64
	if src != nil && size > 0 {
		written, err = wp.copyData(ctx, src, dst, size)
		if err != nil {
			dst.Close()
			return 0, classifyDst(err)
		}
	}

	if op.PreserveMeta {
		if err := wp.preserveFileMeta(op, dst); err != nil {
			dst.Close()
			return 0, classifyDst(err)
		}
	}

	if err := dst.Close(); err != nil {
		return 0, classifyDst(err)
	}
	if err := os.Rename(tmp, op.DstPath); err != nil {
		return 0, classifyDst(err)
	}
	return written, nil
}

// copyData moves size bytes between open descriptors. Bandwidth limiting
// takes the buffered path unconditionally; otherwise io_uring when armed,
// then the platform's best kernel-side method with its own fallbacks.
func (wp *workerPool) copyData(ctx context.Context, src, dst *os.File, size int64) (int64, error) {
	if wp.limiter != nil {
		bufp := platform.GetBuffer()
		defer platform.PutBuffer(bufp)
		return io.CopyBuffer(dst, newRateLimitedReader(ctx, src, wp.limiter), *bufp)
	}
	if wp.ring != nil {
		n, err := wp.ring.Copy(src, dst, size)
		if err == nil {
			return n, nil
		}
		wp.log.Debug().Err(err).Msg("io_uring copy failed, using platform path")
	}
	res, err := platform.Copy(platform.Request{
		Src:         src,
		Dst:         dst,
		Size:        size,
		Preallocate: size >= preallocThreshold,
	})
	return res.Bytes, err
}

// Files below this size are not worth a preallocation syscall.
const preallocThreshold = 4 << 20
