package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/ui"
)

type entryKind int

const (
	entryCopied entryKind = iota
	entryMoved
	entryDeleted
	entrySkipped
	entryFailed
)

type inFlightEntry struct {
	path    string
	size    int64
	started time.Time
}

type doneEntry struct {
	path   string
	size   int64
	kind   entryKind
	detail string
}

type errorEntry struct {
	path string
	err  string
	time time.Time
}

// feedView is the per-operation display: in-flight files on top, a
// scrollable history in the middle, recent errors pinned below.
type feedView struct {
	inFlight     map[int]*inFlightEntry
	done         []doneEntry
	errors       []errorEntry
	scrollOffset int
	autoScroll   bool
}

func newFeedView() feedView {
	return feedView{
		inFlight:   make(map[int]*inFlightEntry),
		autoScroll: true,
	}
}

func (f *feedView) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FileStarted:
		f.inFlight[ev.WorkerID] = &inFlightEntry{
			path:    ev.Path,
			size:    ev.Size,
			started: ev.Timestamp,
		}

	case event.FileCopied:
		delete(f.inFlight, ev.WorkerID)
		f.add(doneEntry{path: ev.Path, size: ev.Size, kind: entryCopied})

	case event.FileMoved:
		delete(f.inFlight, ev.WorkerID)
		f.add(doneEntry{path: ev.Path, size: ev.Size, kind: entryMoved})

	case event.FileDeleted:
		f.add(doneEntry{path: ev.Path, kind: entryDeleted})

	case event.DirDeleted:
		f.add(doneEntry{path: ev.Path + "/", kind: entryDeleted})

	case event.OpFailed:
		delete(f.inFlight, ev.WorkerID)
		msg := "error"
		if ev.Error != nil {
			msg = ev.Error.Error()
		}
		f.add(doneEntry{path: ev.Path, size: ev.Size, kind: entryFailed, detail: msg})
		f.errors = append(f.errors, errorEntry{path: ev.Path, err: msg, time: ev.Timestamp})

	case event.OpSkipped:
		f.add(doneEntry{path: ev.Path, kind: entrySkipped, detail: ev.Reason})

	case event.VerifyFailed:
		f.errors = append(f.errors, errorEntry{path: ev.Path, err: "CHECKSUM MISMATCH", time: ev.Timestamp})

	case event.DirCreated:
		delete(f.inFlight, ev.WorkerID)
	}
}

func (f *feedView) add(e doneEntry) {
	f.done = append(f.done, e)
}

func (f *feedView) scrollDown() {
	f.autoScroll = false
	f.scrollOffset++
}

func (f *feedView) scrollUp() {
	f.autoScroll = false
	if f.scrollOffset > 0 {
		f.scrollOffset--
	}
}

func (f *feedView) scrollToTop() {
	f.autoScroll = false
	f.scrollOffset = 0
}

func (f *feedView) scrollToBottom() {
	f.autoScroll = true
}

func (f *feedView) view(width, height int, speed float64) string {
	if width < 20 {
		width = 20
	}

	maxInFlight := height / 3
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	inFlightCount := min(len(f.inFlight), maxInFlight)
	errCount := min(len(f.errors), 5)

	dividers := 0
	for _, n := range []int{inFlightCount, errCount, len(f.done)} {
		if n > 0 {
			dividers++
		}
	}
	doneHeight := height - inFlightCount - errCount - dividers
	if doneHeight < 1 {
		doneHeight = 1
	}

	maxOffset := len(f.done) - doneHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if f.autoScroll || f.scrollOffset > maxOffset {
		f.scrollOffset = maxOffset
	}

	var b strings.Builder
	if s := f.renderInFlight(maxInFlight); s != "" {
		b.WriteString(styleDivider.Render("─ in-flight"))
		b.WriteByte('\n')
		b.WriteString(s)
	}
	if s := f.renderDone(doneHeight, speed); s != "" {
		b.WriteString(styleDivider.Render(fmt.Sprintf("─ completed (%d)", len(f.done))))
		b.WriteByte('\n')
		b.WriteString(s)
	}
	if s := f.renderErrors(errCount); s != "" {
		b.WriteString(styleDivider.Render(fmt.Sprintf("─ errors (%d)", len(f.errors))))
		b.WriteByte('\n')
		b.WriteString(s)
	}
	return b.String()
}

func (f *feedView) renderInFlight(maxLines int) string {
	if len(f.inFlight) == 0 {
		return ""
	}
	var b strings.Builder
	count := 0
	for _, e := range f.inFlight {
		if count >= maxLines {
			break
		}
		elapsed := time.Since(e.started).Round(time.Second)
		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			styleInFlight.Render("⟩"),
			styledPath(e.path),
			styleFileSize.Render(ui.FormatBytes(e.size)),
			styleFileSize.Render(elapsed.String()),
		)
		count++
	}
	return b.String()
}

func (f *feedView) renderDone(viewportHeight int, speed float64) string {
	if len(f.done) == 0 {
		return ""
	}
	end := min(f.scrollOffset+viewportHeight, len(f.done))
	start := f.scrollOffset
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	for _, e := range f.done[start:end] {
		var icon, extra string
		switch e.kind {
		case entryFailed:
			icon = styleIconFailed.Render("✗")
			extra = styleError.Render(e.detail)
		case entrySkipped:
			icon = styleIconSkipped.Render("–")
			extra = styleIconSkipped.Render(e.detail)
		case entryDeleted:
			icon = styleIconFailed.Render("×")
			extra = styleIconSkipped.Render("deleted")
		case entryMoved:
			icon = styleIconMoved.Render("»")
			extra = styleFileSpeed.Render("moved")
		default:
			icon = styleIconDone.Render("✓")
			if speed > 0 {
				extra = styleFileSpeed.Render(ui.FormatRate(speed))
			}
		}
		line := fmt.Sprintf("  %s  %s  %s",
			icon, styledPath(e.path),
			styleFileSize.Render(fmt.Sprintf("%10s", ui.FormatBytes(e.size))))
		if extra != "" {
			line += "  " + extra
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *feedView) renderErrors(maxLines int) string {
	if len(f.errors) == 0 {
		return ""
	}
	start := len(f.errors) - maxLines
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for _, e := range f.errors[start:] {
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			styleIconFailed.Render("✗"),
			styleErrorPath.Render(e.path),
			styleError.Render(e.err),
		)
	}
	return b.String()
}

func styledPath(path string) string {
	dir, base := filepath.Dir(path), filepath.Base(path)
	if dir == "." || dir == "" {
		return styleFilePath.Render(base)
	}
	return styleFileDir.Render(dir+"/") + styleFilePath.Render(base)
}
