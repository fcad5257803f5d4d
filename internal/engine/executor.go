package engine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/logging"
	"github.com/ferrycp/ferry/internal/platform"
)

// workerPool executes planned operations with bounded parallelism. Workers
// pull from a single queue; ordering across workers is enforced only where
// it matters, by waiting on the parent directory's gate.
type workerPool struct {
	workers int
	gate    *dirGate
	events  chan<- event.Event
	dryRun  bool
	limiter *rate.Limiter
	ring    *platform.Ring
	log     zerolog.Logger
}

func newWorkerPool(cfg Config, gate *dirGate) *workerPool {
	wp := &workerPool{
		workers: cfg.Workers,
		gate:    gate,
		events:  cfg.Events,
		dryRun:  cfg.DryRun,
		log:     logging.Get("executor"),
	}
	if cfg.BWLimit > 0 {
		wp.limiter = newBWLimiter(cfg.BWLimit)
	}
	if cfg.UseIOURing {
		ring, err := platform.NewRing(cfg.Workers * 8)
		if err != nil {
			wp.log.Warn().Err(err).Msg("io_uring unavailable, using default copy path")
		} else {
			wp.ring = ring
		}
	}
	return wp
}

func (wp *workerPool) close() {
	if wp.ring != nil {
		wp.ring.Close()
	}
}

// run consumes ops until the channel closes and the last in-flight
// operation has reported. Every pulled operation produces exactly one
// Result.
func (wp *workerPool) run(ctx context.Context, ops <-chan Operation, results chan<- Result) {
	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			wp.worker(ctx, id, ops, results)
		}(i)
	}
	wg.Wait()
}

func (wp *workerPool) worker(ctx context.Context, id int, ops <-chan Operation, results chan<- Result) {
	for op := range ops {
		res := wp.execute(ctx, id, op)
		select {
		case results <- res:
		case <-ctx.Done():
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (wp *workerPool) execute(ctx context.Context, id int, op Operation) Result {
	if op.Kind == OpCreateDir {
		// open even on failure so dependents run and fail on their own
		defer wp.gate.open(op.RelPath)
	}
	if err := wp.gate.wait(ctx, op.parent()); err != nil {
		return Result{Op: op, Outcome: Failed, Err: &OpError{Kind: ErrIO, Err: err}, Worker: id}
	}

	if wp.dryRun {
		res := Result{Op: op, Outcome: Succeeded, Worker: id}
		if !op.Placeholder && (op.Kind == OpCopyFile || op.Kind == OpMoveFile) {
			res.Bytes = op.Entry.Size
		}
		return res
	}

	switch op.Kind {
	case OpCreateDir:
		return wp.createDir(op, id)
	case OpCopyFile:
		wp.emitStarted(op, id)
		return wp.copyFile(ctx, op, id)
	case OpMoveFile:
		wp.emitStarted(op, id)
		return wp.moveFile(ctx, op, id)
	case OpDeleteFile:
		return wp.deleteFile(op, id)
	case OpDeleteDir:
		return wp.deleteDir(op, id)
	default:
		return Result{Op: op, Outcome: Skipped, Reason: "unknown operation", Worker: id}
	}
}

// createDir makes one level; the plan guarantees the parent. Finding a
// directory already there is success, finding anything else is a
// conflict the caller must resolve.
func (wp *workerPool) createDir(op Operation, id int) Result {
	err := os.Mkdir(op.DstPath, 0o755)
	if err != nil {
		if !errors.Is(err, fs.ErrExist) {
			return Result{Op: op, Outcome: Failed, Err: classifyDst(err), Worker: id}
		}
		info, statErr := os.Lstat(op.DstPath)
		if statErr != nil || !info.IsDir() {
			return Result{Op: op, Outcome: Failed, Worker: id, Err: &OpError{
				Kind: ErrConflict,
				Err:  fs.ErrExist,
			}}
		}
	}
	if op.PreserveMeta {
		if merr := preserveDirMeta(op); merr != nil {
			wp.log.Warn().Err(merr).Str("dir", op.RelPath).Msg("directory metadata not fully applied")
		}
	}
	return Result{Op: op, Outcome: Succeeded, Worker: id}
}

// deleteFile treats an already-absent destination as success: the goal is
// the state, not the action.
func (wp *workerPool) deleteFile(op Operation, id int) Result {
	if err := os.Remove(op.DstPath); err != nil && !os.IsNotExist(err) {
		return Result{Op: op, Outcome: Failed, Err: classifyDst(err), Worker: id}
	}
	return Result{Op: op, Outcome: Succeeded, Worker: id}
}

func (wp *workerPool) deleteDir(op Operation, id int) Result {
	if err := os.RemoveAll(op.DstPath); err != nil {
		return Result{Op: op, Outcome: Failed, Err: classifyDst(err), Worker: id}
	}
	return Result{Op: op, Outcome: Succeeded, Worker: id}
}

func (wp *workerPool) emitStarted(op Operation, id int) {
	emitEvent(wp.events, event.Event{
		Type:     event.FileStarted,
		Path:     op.RelPath,
		Size:     op.Entry.Size,
		WorkerID: id,
	})
}
