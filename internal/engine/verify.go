package engine

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/zeebo/blake3"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/logging"
)

// VerifyError is one file whose destination content did not match the
// source after copying. Empty hashes mean the side could not be read.
type VerifyError struct {
	Path    string
	SrcHash string
	DstHash string
}

type verifyOutcome struct {
	Mismatched int64
	Errors     []VerifyError
}

// verifySummary runs the post-copy verification pass and folds its
// findings into the summary. Any mismatch fails the run.
func verifySummary(ctx context.Context, cfg Config, summary *Summary) {
	out := verifyTree(ctx, cfg)
	summary.VerifyErrors = out.Errors
	if out.Mismatched > 0 {
		summary.OverallSuccess = false
		if summary.FatalKind == ErrNone {
			summary.FatalKind = ErrIO
		}
	}
}

// verifyTree re-walks the source and compares BLAKE3 digests of every
// regular file against its destination counterpart. Hashing both sides
// fans out across the same worker budget as the copy phase.
func verifyTree(ctx context.Context, cfg Config) verifyOutcome {
	log := logging.Get("verify")
	emitEvent(cfg.Events, event.Event{Type: event.VerifyStarted})

	var (
		mu  sync.Mutex
		out verifyOutcome
	)

	check := func(rel, srcPath, dstPath string) {
		srcSum, srcErr := hashFile(srcPath)
		dstSum, dstErr := hashFile(dstPath)
		if srcErr == nil && dstErr == nil && srcSum == dstSum {
			cfg.Stats.AddFilesVerified(1)
			emitEvent(cfg.Events, event.Event{Type: event.VerifyOK, Path: rel})
			return
		}
		cfg.Stats.AddVerifyFailed(1)
		log.Warn().Str("path", rel).Str("src", srcSum).Str("dst", dstSum).Msg("content mismatch")
		emitEvent(cfg.Events, event.Event{Type: event.VerifyFailed, Path: rel})
		mu.Lock()
		out.Mismatched++
		out.Errors = append(out.Errors, VerifyError{Path: rel, SrcHash: srcSum, DstHash: dstSum})
		mu.Unlock()
	}

	if info, err := os.Lstat(cfg.Src); err == nil && info.Mode().IsRegular() {
		check(filepath.Base(cfg.Src), cfg.Src, resolveSingleDst(cfg))
		return out
	}

	p := pool.New().WithMaxGoroutines(cfg.Workers)
	w := newWalker(cfg.Src, cfg.Recursive, cfg.Filter)
	for item := range w.walk(ctx) {
		if item.Err != nil || item.Entry.Kind != KindFile {
			continue
		}
		rel := item.Entry.RelPath
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			check(rel, filepath.Join(cfg.Src, rel), filepath.Join(cfg.Dst, rel))
		})
	}
	p.Wait()
	return out
}

// hashFile digests one file with BLAKE3, hex-encoded.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
