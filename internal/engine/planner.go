package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/logging"
)

// dirFrame tracks one open directory while its children stream through
// the planner.
type dirFrame struct {
	rel string
	// children collects the names seen under this directory, including
	// skipped ones: anything the source has must survive a purge.
	children map[string]struct{}
	// pending holds a CreateDir deferred by skip-empty-dirs until a file
	// shows up somewhere beneath.
	pending *Operation
	// walkFailed poisons the purge: with an incomplete child list,
	// deleting extras would destroy destination entries that may well
	// exist in the source.
	walkFailed bool
}

// planner turns the walk stream into the ordered operation stream. It is
// single-threaded, which is what makes the ordering guarantees cheap:
// CreateDir for a directory is emitted before any operation beneath it,
// and purge deletions for a directory are emitted only after every
// create and copy operation for that directory's children.
type planner struct {
	cfg        Config
	gate       *dirGate
	ops        chan<- Operation
	results    chan<- Result
	stack      []*dirFrame
	filesTotal int64
	bytesTotal int64
	log        zerolog.Logger
}

func newPlanner(cfg Config, gate *dirGate, ops chan<- Operation, results chan<- Result) *planner {
	return &planner{
		cfg:     cfg,
		gate:    gate,
		ops:     ops,
		results: results,
		log:     logging.Get("planner"),
	}
}

// plan consumes the walk stream until it closes. The returned error is
// non-nil only when the source root itself was unreadable; everything
// else is reported as a Result and planning continues.
func (p *planner) plan(ctx context.Context, items <-chan walkItem) error {
	p.stack = []*dirFrame{{rel: ".", children: make(map[string]struct{})}}

	for item := range items {
		if item.Err != nil {
			opErr := classifySrc(item.Err)
			p.sendResult(ctx, Result{
				Op:      Operation{Kind: opWalk, RelPath: item.Entry.RelPath},
				Outcome: Failed,
				Err:     opErr,
			})
			if item.Entry.RelPath == "." {
				return opErr
			}
			p.markWalkFailed(item.Entry.RelPath)
			continue
		}

		e := item.Entry
		p.popTo(ctx, filepath.Dir(e.RelPath))
		if len(p.stack) == 0 {
			// only on cancellation mid-pop
			return ctx.Err()
		}
		top := p.stack[len(p.stack)-1]
		top.children[filepath.Base(e.RelPath)] = struct{}{}

		switch e.Kind {
		case KindDir:
			p.planDir(ctx, e)
		case KindFile:
			p.planFile(ctx, e)
		default:
			p.sendResult(ctx, Result{
				Op:      Operation{Kind: opNone, RelPath: e.RelPath, Entry: e},
				Outcome: Skipped,
				Reason:  "unsupported file type",
			})
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	p.popTo(ctx, "")
	emitEvent(p.cfg.Events, event.Event{
		Type:      event.PlanComplete,
		Total:     p.filesTotal,
		TotalSize: p.bytesTotal,
	})
	p.log.Debug().Int64("files", p.filesTotal).Int64("bytes", p.bytesTotal).Msg("plan complete")
	return nil
}

func (p *planner) planDir(ctx context.Context, e Entry) {
	frame := &dirFrame{rel: e.RelPath, children: make(map[string]struct{})}
	dstPath := filepath.Join(p.cfg.Dst, e.RelPath)

	// An existing destination directory satisfies the dependency with no
	// work; anything else (missing, or occupied by a non-directory) gets
	// a CreateDir, and the executor resolves or reports the conflict.
	if probePath(dstPath) != KindDir || p.cfg.CreateTreeOnly {
		op := Operation{
			Kind:         OpCreateDir,
			RelPath:      e.RelPath,
			SrcPath:      filepath.Join(p.cfg.Src, e.RelPath),
			DstPath:      dstPath,
			Entry:        e,
			PreserveMeta: p.cfg.PreserveAll,
		}
		if p.cfg.SkipEmptyDirs {
			frame.pending = &op
		} else {
			p.gate.register(op.RelPath)
			p.sendOp(ctx, op)
		}
	}
	p.stack = append(p.stack, frame)
}

func (p *planner) planFile(ctx context.Context, e Entry) {
	p.flushPending(ctx)

	op := Operation{
		Kind:         OpCopyFile,
		RelPath:      e.RelPath,
		SrcPath:      filepath.Join(p.cfg.Src, e.RelPath),
		DstPath:      filepath.Join(p.cfg.Dst, e.RelPath),
		Entry:        e,
		PreserveMeta: p.cfg.PreserveAll,
	}
	switch {
	case p.cfg.CreateTreeOnly:
		op.Placeholder = true
	case p.cfg.Move:
		op.Kind = OpMoveFile
	}

	p.filesTotal++
	p.cfg.Stats.AddFilesTotal(1)
	if !op.Placeholder {
		p.bytesTotal += e.Size
		p.cfg.Stats.AddBytesTotal(e.Size)
	}
	p.sendOp(ctx, op)
}

// flushPending emits deferred CreateDirs for every frame on the stack,
// outermost first, so the queue order still puts each directory before
// its contents.
func (p *planner) flushPending(ctx context.Context) {
	for _, frame := range p.stack {
		if frame.pending == nil {
			continue
		}
		op := *frame.pending
		frame.pending = nil
		p.gate.register(op.RelPath)
		p.sendOp(ctx, op)
	}
}

// popTo closes frames until target is on top, finalizing each closed
// directory. Pre-order traversal guarantees the target is on the stack;
// target "" drains everything at end of stream.
func (p *planner) popTo(ctx context.Context, target string) {
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		if top.rel == target {
			return
		}
		p.stack = p.stack[:len(p.stack)-1]
		p.finalize(ctx, top)
		if ctx.Err() != nil {
			return
		}
	}
}

// finalize runs once per directory, after the walker has moved past its
// subtree. This is where purge deletions are emitted: by now every
// CreateDir and CopyFile for the directory's children is already in the
// queue, so nothing deleted here could be recreated by an earlier
// operation landing later.
func (p *planner) finalize(ctx context.Context, frame *dirFrame) {
	if !p.cfg.Purge || frame.walkFailed {
		return
	}
	// Without recursion nothing below the root was enumerated, so only
	// the root's extras are provably stale.
	if !p.cfg.Recursive && frame.rel != "." {
		return
	}

	dstDir := filepath.Join(p.cfg.Dst, frame.rel)
	entries, err := os.ReadDir(dstDir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		p.sendResult(ctx, Result{
			Op:      Operation{Kind: opWalk, RelPath: frame.rel},
			Outcome: Failed,
			Err:     classifyDst(err),
		})
		return
	}

	for _, de := range entries {
		name := de.Name()
		if strings.HasSuffix(name, tmpSuffix) {
			continue
		}
		if _, ok := frame.children[name]; ok {
			continue
		}
		rel := filepath.Join(frame.rel, name)
		isDir := de.IsDir()
		var size int64
		if !isDir {
			if info, err := de.Info(); err == nil {
				size = info.Size()
			}
		}
		// Entries the filter would have excluded from the copy are
		// invisible to the purge as well.
		if p.cfg.Filter != nil && !p.cfg.Filter.Match(rel, isDir, size) {
			continue
		}
		op := Operation{
			Kind:    OpDeleteFile,
			RelPath: rel,
			DstPath: filepath.Join(p.cfg.Dst, rel),
		}
		if isDir {
			op.Kind = OpDeleteDir
		}
		p.log.Debug().Str("path", rel).Msg("purging extraneous entry")
		p.sendOp(ctx, op)
	}
}

// markWalkFailed finds the frame for an unreadable directory. The walker
// emits the failure before descending, so the frame is the current top,
// but search anyway.
func (p *planner) markWalkFailed(rel string) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].rel == rel {
			p.stack[i].walkFailed = true
			return
		}
	}
}

func (p *planner) sendOp(ctx context.Context, op Operation) {
	select {
	case p.ops <- op:
	case <-ctx.Done():
	}
}

func (p *planner) sendResult(ctx context.Context, res Result) {
	select {
	case p.results <- res:
	case <-ctx.Done():
	}
}
