package tui

import (
	"fmt"
	"strings"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/stats"
	"github.com/ferrycp/ferry/internal/ui"
)

// rateView trades per-file lines for aggregates: throughput, history
// sparkline, and the worker grid.
type rateView struct {
	busyWorkers map[int]bool
}

func newRateView() rateView {
	return rateView{busyWorkers: make(map[int]bool)}
}

func (r *rateView) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileStarted:
		r.busyWorkers[ev.WorkerID] = true
	case event.FileCopied, event.FileMoved, event.OpFailed, event.DirCreated:
		delete(r.busyWorkers, ev.WorkerID)
	}
}

func (r *rateView) view(width, _ int, snap stats.Snapshot, collector stats.Reader, totalWorkers int) string {
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	speed := collector.RollingSpeed(5)
	b.WriteString("  " + styleBigNumber.Render(ui.FormatRate(speed)))
	b.WriteString("\n\n")

	sparkWidth := width - 4
	if sparkWidth < 10 {
		sparkWidth = 10
	}
	spark := ui.Sparkline(collector.SparklineData(sparkWidth), sparkWidth)
	b.WriteString("  " + styleSparkline.Render(spark))
	b.WriteString("\n\n")

	fps := collector.RollingFilesPerSec(5)
	fmt.Fprintf(&b, "  %s   %s   %s\n\n",
		styleFileSpeed.Render(fmt.Sprintf("%s files/s", ui.FormatCount(int64(fps)))),
		styleFileSpeed.Render(ui.FormatRate(speed)),
		styleFileSize.Render(fmt.Sprintf("%s / %s files",
			ui.FormatCount(snap.Placed()), ui.FormatCount(snap.FilesTotal))),
	)

	b.WriteString("  " + styleDivider.Render("workers") + "  ")
	for i := 0; i < totalWorkers; i++ {
		if r.busyWorkers[i] {
			b.WriteString(styleWorkerBusy.Render("▪"))
		} else {
			b.WriteString(styleWorkerIdle.Render("□"))
		}
	}
	b.WriteByte('\n')
	return b.String()
}
