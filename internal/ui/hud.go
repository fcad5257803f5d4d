package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/stats"
)

const (
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
)

// hudPresenter is the TTY display: a scrolling feed of finished
// operations above a small HUD that redraws in place. When the per-file
// rate gets too high to read, the feed collapses into an aggregate rate
// view and comes back when things calm down.
type hudPresenter struct {
	w         io.Writer
	stats     stats.ReadTicker
	forceFeed bool
	forceRate bool
	workers   int

	hudDrawn     bool
	hudLineCount int
	rateMode     bool
	rateNotified bool
	busyWorkers  map[int]bool
	lastHUDDraw  time.Time
}

const (
	rateThreshHigh   = 200.0
	rateThreshLow    = 100.0
	sparklineWidth   = 20
	progressBarWidth = 20
	hudMinInterval   = 50 * time.Millisecond
)

func (p *hudPresenter) Run(events <-chan event.Event) error {
	p.busyWorkers = make(map[int]bool)
	if p.forceRate {
		p.rateMode = true
	}

	// First tick early so the speed ring has data, then once a second.
	secTicker := time.NewTicker(250 * time.Millisecond)
	defer secTicker.Stop()
	seeded := false

	redraw := time.NewTicker(100 * time.Millisecond)
	defer redraw.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearHUD()
				return nil
			}
			p.handleEvent(ev)
			p.maybeDrawHUD()

		case <-redraw.C:
			p.maybeSwitch()
			p.drawHUD()

		case <-secTicker.C:
			p.stats.Tick()
			if !seeded {
				seeded = true
				secTicker.Reset(time.Second)
			}
		}
	}
}

func (p *hudPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileStarted:
		p.busyWorkers[ev.WorkerID] = true

	case event.FileCopied:
		delete(p.busyWorkers, ev.WorkerID)
		p.feedLine(func() {
			if speed := p.stats.RollingSpeed(5); speed > 0 {
				fmt.Fprintf(p.w, "✓  %s  %10s  %s\n",
					styledPath(ev.Path), FormatBytes(ev.Size), FormatRate(speed))
			} else {
				fmt.Fprintf(p.w, "✓  %s  %10s\n", styledPath(ev.Path), FormatBytes(ev.Size))
			}
		})

	case event.FileMoved:
		delete(p.busyWorkers, ev.WorkerID)
		p.feedLine(func() {
			fmt.Fprintf(p.w, "»  %s  %10s  %smoved%s\n",
				styledPath(ev.Path), FormatBytes(ev.Size), ansiDim, ansiReset)
		})

	case event.FileDeleted:
		p.feedLine(func() {
			fmt.Fprintf(p.w, "×  %s  %s(deleted)%s\n", styledPath(ev.Path), ansiDim, ansiReset)
		})

	case event.DirDeleted:
		p.feedLine(func() {
			fmt.Fprintf(p.w, "×  %s/  %s(deleted)%s\n", styledPath(ev.Path), ansiDim, ansiReset)
		})

	case event.OpFailed:
		delete(p.busyWorkers, ev.WorkerID)
		p.feedLine(func() {
			msg := "error"
			if ev.Error != nil {
				msg = ev.Error.Error()
			}
			fmt.Fprintf(p.w, "✗  %s  %s\n", styledPath(ev.Path), msg)
		})

	case event.OpSkipped:
		p.feedLine(func() {
			fmt.Fprintf(p.w, "–  %s  %s%s%s\n", styledPath(ev.Path), ansiDim, ev.Reason, ansiReset)
		})

	case event.VerifyStarted:
		p.clearHUD()
		fmt.Fprintf(p.w, "%sverifying checksums...%s\n", ansiDim, ansiReset)

	case event.VerifyFailed:
		p.clearHUD()
		fmt.Fprintf(p.w, "✗  %s  CHECKSUM MISMATCH\n", styledPath(ev.Path))
		p.drawHUD()

	case event.DirCreated:
		delete(p.busyWorkers, ev.WorkerID)
	}
}

// feedLine prints one feed entry between HUD redraws; suppressed in rate
// mode where individual lines would be unreadable anyway.
func (p *hudPresenter) feedLine(print func()) {
	if p.rateMode {
		return
	}
	p.clearHUD()
	print()
	p.drawHUD()
}

func (p *hudPresenter) maybeSwitch() {
	if p.forceFeed || p.forceRate {
		return
	}
	fps := p.stats.RollingFilesPerSec(2)
	if !p.rateMode && fps > rateThreshHigh {
		p.rateMode = true
		if !p.rateNotified {
			p.rateNotified = true
			p.clearHUD()
			fmt.Fprintf(p.w, "↯ rate view (%s files/s · use --feed to see individual files)\n",
				FormatCount(int64(fps)))
		}
	} else if p.rateMode && fps < rateThreshLow {
		p.rateMode = false
	}
}

func (p *hudPresenter) maybeDrawHUD() {
	if time.Since(p.lastHUDDraw) < hudMinInterval {
		return
	}
	p.drawHUD()
}

func (p *hudPresenter) drawHUD() {
	snap := p.stats.Snapshot()
	p.clearHUD()

	var pct float64
	if snap.BytesTotal > 0 {
		pct = float64(snap.BytesCopied) / float64(snap.BytesTotal)
	}

	lines := 0
	if p.rateMode {
		fps := p.stats.RollingFilesPerSec(5)
		spark := Sparkline(p.stats.SparklineData(sparklineWidth), sparklineWidth)
		fmt.Fprintf(p.w, "files/s  %s  %s/s   %s / %s done\n",
			spark, FormatCount(int64(fps)),
			FormatCount(snap.Placed()), FormatCount(snap.FilesTotal))
		lines++
	}

	spark := Sparkline(p.stats.SparklineData(sparklineWidth), sparklineWidth)
	fmt.Fprintf(p.w, "       %s   %s   %s / %s\n",
		spark, FormatRate(p.stats.RollingSpeed(10)),
		FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal))
	lines++

	fmt.Fprintf(p.w, " %3.0f%%  %s   %s / %s files   %s   eta %s\n",
		pct*100, ProgressBar(pct, progressBarWidth),
		FormatCount(snap.Placed()), FormatCount(snap.FilesTotal),
		WorkerIndicator(len(p.busyWorkers), p.workers),
		FormatETA(p.stats.ETA()))
	lines++

	p.hudDrawn = true
	p.hudLineCount = lines
	p.lastHUDDraw = time.Now()
}

func (p *hudPresenter) clearHUD() {
	if !p.hudDrawn {
		return
	}
	lines := p.hudLineCount
	if lines == 0 {
		lines = 2
	}
	fmt.Fprintf(p.w, "\033[%dA\033[J", lines)
	p.hudDrawn = false
}

func (p *hudPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}

// styledPath dims the directory part so the name being worked on stands
// out. Paths in events are already relative.
func styledPath(path string) string {
	dir, base := filepath.Dir(path), filepath.Base(path)
	if dir == "." || dir == "" {
		return base
	}
	return ansiDim + dir + "/" + ansiReset + base
}
