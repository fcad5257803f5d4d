package engine

import (
	"github.com/rs/zerolog"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/logging"
	"github.com/ferrycp/ferry/internal/stats"
)

// aggregator folds the result stream into counters and UI events. It is
// the single writer of run outcomes: workers report, this goroutine
// tallies, so the summary needs no locks of its own.
type aggregator struct {
	stats  *stats.Collector
	events chan<- event.Event
	log    zerolog.Logger

	firstErr *OpError
	sawFatal bool
}

func newAggregator(cfg Config) *aggregator {
	return &aggregator{
		stats:  cfg.Stats,
		events: cfg.Events,
		log:    logging.Get("aggregator"),
	}
}

// collect drains results until the channel closes, then settles the
// summary. Exactly one call per run.
func (a *aggregator) collect(results <-chan Result) Summary {
	for res := range results {
		a.apply(res)
	}
	s := Summary{
		Stats:          a.stats.Snapshot(),
		OverallSuccess: !a.sawFatal,
	}
	if a.firstErr != nil {
		s.FatalKind = a.firstErr.Kind
		s.Err = a.firstErr
	}
	return s
}

func (a *aggregator) apply(res Result) {
	switch res.Outcome {
	case Succeeded:
		a.applySuccess(res)
	case Failed:
		a.stats.AddFailed(1)
		var kind ErrorKind
		var err error
		if res.Err != nil {
			kind = res.Err.Kind
			err = res.Err
			if kind.Fatal() {
				a.sawFatal = true
				if a.firstErr == nil {
					a.firstErr = res.Err
				}
			}
		}
		a.log.Debug().
			Str("op", res.Op.Kind.String()).
			Str("path", res.Op.RelPath).
			Str("kind", kind.String()).
			Err(err).
			Msg("operation failed")
		a.emit(event.Event{
			Type:   event.OpFailed,
			Path:   res.Op.RelPath,
			Reason: res.Op.Kind.String(),
			Error:  err,
		})
	case Skipped:
		a.stats.AddSkipped(1)
		a.emit(event.Event{
			Type:   event.OpSkipped,
			Path:   res.Op.RelPath,
			Reason: res.Reason,
		})
	}
}

func (a *aggregator) applySuccess(res Result) {
	switch res.Op.Kind {
	case OpCreateDir:
		a.stats.AddDirsCreated(1)
		a.emit(event.Event{Type: event.DirCreated, Path: res.Op.RelPath})
	case OpCopyFile:
		a.stats.AddFilesCopied(1)
		a.stats.AddBytesCopied(res.Bytes)
		a.emit(event.Event{
			Type:     event.FileCopied,
			Path:     res.Op.RelPath,
			Size:     res.Bytes,
			WorkerID: res.Worker,
		})
	case OpMoveFile:
		a.stats.AddFilesMoved(1)
		a.stats.AddBytesCopied(res.Bytes)
		a.emit(event.Event{
			Type:     event.FileMoved,
			Path:     res.Op.RelPath,
			Size:     res.Bytes,
			WorkerID: res.Worker,
		})
	case OpDeleteFile:
		a.stats.AddFilesDeleted(1)
		a.emit(event.Event{Type: event.FileDeleted, Path: res.Op.RelPath})
	case OpDeleteDir:
		a.stats.AddDirsDeleted(1)
		a.emit(event.Event{Type: event.DirDeleted, Path: res.Op.RelPath})
	}
}

func (a *aggregator) emit(e event.Event) {
	emitEvent(a.events, e)
}
