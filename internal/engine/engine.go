package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/filter"
	"github.com/ferrycp/ferry/internal/logging"
	"github.com/ferrycp/ferry/internal/stats"
)

// DefaultWorkers bounds parallelism when the caller does not choose.
const DefaultWorkers = 8

// Config describes one run. Src and Dst are required; zero values
// elsewhere mean the documented defaults.
type Config struct {
	Src string
	Dst string

	// Workers caps concurrent operations. Zero or negative selects
	// DefaultWorkers.
	Workers int

	Recursive      bool
	Purge          bool
	Move           bool
	CreateTreeOnly bool
	PreserveAll    bool
	SkipEmptyDirs  bool
	DryRun         bool
	Verify         bool
	UseIOURing     bool

	// BWLimit caps aggregate copy throughput in bytes per second; zero
	// means unlimited.
	BWLimit int64

	// QueueDepth bounds the planned-operation backlog; zero derives it
	// from Workers.
	QueueDepth int

	Filter *filter.Set
	Events chan<- event.Event
	Stats  *stats.Collector
}

func (c *Config) normalize() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = c.Workers * 4
	}
	if c.Stats == nil {
		c.Stats = stats.NewCollector()
	}
}

// Summary is the run's final account.
type Summary struct {
	Stats          stats.Snapshot
	OverallSuccess bool

	// FatalKind is the class of the first fatal failure, ErrNone when
	// the run succeeded.
	FatalKind ErrorKind
	// Err is the first fatal operation error, or the run-level failure
	// that stopped the pipeline.
	Err error
	// VerifyErrors lists content mismatches found by the verify pass.
	VerifyErrors []VerifyError
}

// Run mirrors cfg.Src into cfg.Dst and reports what happened. The Summary
// is complete even when the run failed; callers read severity out of
// OverallSuccess and the counters rather than an error return.
func Run(ctx context.Context, cfg Config) Summary {
	cfg.normalize()
	log := logging.Get("engine")
	defer CleanupTmpFiles()

	srcInfo, err := os.Lstat(cfg.Src)
	if err != nil {
		return fatalSummary(cfg, classifySrc(err))
	}

	start := time.Now()
	var summary Summary
	switch {
	case srcInfo.IsDir():
		summary = runMirror(ctx, cfg)
	case srcInfo.Mode().IsRegular():
		summary = runSingleFile(ctx, cfg, srcInfo)
	default:
		return fatalSummary(cfg, &OpError{
			Kind: ErrConflict,
			Err:  fmt.Errorf("%s: source is neither a directory nor a regular file", cfg.Src),
		})
	}

	if cfg.Verify && !cfg.DryRun && !cfg.CreateTreeOnly && !cfg.Move {
		verifySummary(ctx, cfg, &summary)
	}
	summary.Stats = cfg.Stats.Snapshot()
	log.Info().
		Dur("elapsed", time.Since(start)).
		Bool("success", summary.OverallSuccess).
		Int64("copied", summary.Stats.FilesCopied).
		Int64("moved", summary.Stats.FilesMoved).
		Int64("failed", summary.Stats.Failed).
		Msg("run finished")
	return summary
}

// runMirror drives the walk/plan/execute/aggregate pipeline for a
// directory source. Four stages, three goroutine groups: the planner owns
// ordering, the pool owns parallelism, the aggregator owns the summary.
func runMirror(ctx context.Context, cfg Config) Summary {
	emitEvent(cfg.Events, event.Event{Type: event.WalkStarted, Path: cfg.Src})

	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.Dst, 0o755); err != nil {
			return fatalSummary(cfg, classifyDst(err))
		}
	}

	gate := newDirGate()
	ops := make(chan Operation, cfg.QueueDepth)
	results := make(chan Result, cfg.Workers*4)

	pool := newWorkerPool(cfg, gate)
	defer pool.close()

	w := newWalker(cfg.Src, cfg.Recursive, cfg.Filter)
	pl := newPlanner(cfg, gate, ops, results)

	var producers sync.WaitGroup
	var planErr error
	producers.Add(2)
	go func() {
		defer producers.Done()
		defer close(ops)
		planErr = pl.plan(ctx, w.walk(ctx))
	}()
	go func() {
		defer producers.Done()
		pool.run(ctx, ops, results)
	}()
	go func() {
		producers.Wait()
		close(results)
	}()

	summary := newAggregator(cfg).collect(results)
	if planErr != nil {
		summary.OverallSuccess = false
		if summary.Err == nil {
			summary.Err = planErr
			if opErr, ok := planErr.(*OpError); ok {
				summary.FatalKind = opErr.Kind
			}
		}
	}
	return summary
}

// resolveSingleDst names the landing path for a single-file source: the
// destination itself, or a path under it when it is an existing directory.
func resolveSingleDst(cfg Config) string {
	if info, err := os.Stat(cfg.Dst); err == nil && info.IsDir() {
		return filepath.Join(cfg.Dst, filepath.Base(cfg.Src))
	}
	return cfg.Dst
}

// runSingleFile ferries one file, into the named path or into an existing
// destination directory under the source's base name. The walk and plan
// stages collapse to a single operation; execution and aggregation stay
// identical.
func runSingleFile(ctx context.Context, cfg Config, srcInfo fs.FileInfo) Summary {
	dst := resolveSingleDst(cfg)
	if !cfg.DryRun {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fatalSummary(cfg, classifyDst(err))
		}
	}

	e := entryFromInfo(filepath.Base(dst), srcInfo)
	op := Operation{
		Kind:         OpCopyFile,
		RelPath:      e.RelPath,
		SrcPath:      cfg.Src,
		DstPath:      dst,
		Entry:        e,
		PreserveMeta: cfg.PreserveAll,
	}
	switch {
	case cfg.CreateTreeOnly:
		op.Placeholder = true
	case cfg.Move:
		op.Kind = OpMoveFile
	}

	cfg.Stats.AddFilesTotal(1)
	if !op.Placeholder {
		cfg.Stats.AddBytesTotal(e.Size)
	}
	emitEvent(cfg.Events, event.Event{Type: event.PlanComplete, Total: 1, TotalSize: e.Size})

	pool := newWorkerPool(cfg, newDirGate())
	defer pool.close()

	ops := make(chan Operation, 1)
	ops <- op
	close(ops)
	results := make(chan Result, 1)
	go func() {
		pool.run(ctx, ops, results)
		close(results)
	}()
	return newAggregator(cfg).collect(results)
}

func fatalSummary(cfg Config, opErr *OpError) Summary {
	return Summary{
		Stats:     cfg.Stats.Snapshot(),
		FatalKind: opErr.Kind,
		Err:       opErr,
	}
}

// emitEvent delivers best-effort: a stalled consumer drops events rather
// than stalling workers. A nil channel (quiet mode) drops everything.
func emitEvent(ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
