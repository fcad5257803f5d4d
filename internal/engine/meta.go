package engine

import (
	"fmt"
	"os"
)

// preserveFileMeta applies source metadata to the staged descriptor, before
// the rename makes the file visible. Permission bits and timestamps are
// required; ownership and extended attributes apply only as far as the
// platform and privileges allow.
func (wp *workerPool) preserveFileMeta(op Operation, f *os.File) error {
	if err := f.Chmod(op.Entry.Mode.Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := setFileTimes(f, op.Entry.AccTime, op.Entry.ModTime); err != nil {
		return fmt.Errorf("timestamps: %w", err)
	}
	if err := copyXattrs(op.SrcPath, f); err != nil {
		wp.log.Debug().Err(err).Str("path", op.RelPath).Msg("xattrs not copied")
	}
	if err := chownFile(f, op.Entry.UID, op.Entry.GID); err != nil {
		wp.log.Debug().Err(err).Str("path", op.RelPath).Msg("ownership not applied")
	}
	return nil
}

// preserveDirMeta works by path: directory timestamps get disturbed again
// by writes beneath, so exactness here is best-effort by nature.
func preserveDirMeta(op Operation) error {
	if err := os.Chmod(op.DstPath, op.Entry.Mode.Perm()); err != nil {
		return err
	}
	if err := os.Chtimes(op.DstPath, op.Entry.AccTime, op.Entry.ModTime); err != nil {
		return err
	}
	// ownership is advisory for unprivileged runs
	os.Lchown(op.DstPath, int(op.Entry.UID), int(op.Entry.GID))
	return nil
}
