package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/stats"
)

// plainPresenter writes one line per finished operation to stdout and a
// periodic progress line to stderr. Suited to pipes and logs; no cursor
// games.
type plainPresenter struct {
	w     io.Writer
	errW  io.Writer
	stats stats.ReadTicker
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	progress := time.NewTicker(5 * time.Second)
	defer progress.Stop()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-tick.C:
			p.stats.Tick()
		case <-progress.C:
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileCopied:
		speed := p.stats.RollingSpeed(5)
		fmt.Fprintf(p.w, "%s  %s  %s\n", ev.Path, FormatBytes(ev.Size), FormatRate(speed))
	case event.FileMoved:
		fmt.Fprintf(p.w, "%s  %s  moved\n", ev.Path, FormatBytes(ev.Size))
	case event.FileDeleted:
		fmt.Fprintf(p.w, "delete: %s\n", ev.Path)
	case event.DirDeleted:
		fmt.Fprintf(p.w, "delete dir: %s\n", ev.Path)
	case event.OpFailed:
		msg := "error"
		if ev.Error != nil {
			msg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s  FAILED  %s\n", ev.Path, msg)
	case event.OpSkipped:
		fmt.Fprintf(p.w, "%s  skipped (%s)\n", ev.Path, ev.Reason)
	case event.VerifyStarted:
		fmt.Fprintln(p.w, "verifying...")
	case event.VerifyFailed:
		fmt.Fprintf(p.w, "MISMATCH: %s\n", ev.Path)
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	if snap.BytesTotal > 0 {
		pct := float64(snap.BytesCopied) / float64(snap.BytesTotal) * 100
		fmt.Fprintf(p.errW, "progress: %.0f%% %s/%s %s/%s files %s eta %s\n",
			pct,
			FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal),
			FormatCount(snap.Placed()), FormatCount(snap.FilesTotal),
			FormatRate(p.stats.RollingSpeed(10)),
			FormatETA(p.stats.ETA()),
		)
		return
	}
	fmt.Fprintf(p.errW, "progress: %s copied %s files\n",
		FormatBytes(snap.BytesCopied),
		FormatCount(snap.Placed()),
	)
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
