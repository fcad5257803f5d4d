package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/stats"
)

func TestNew_Selection(t *testing.T) {
	t.Parallel()
	c := stats.NewCollector()

	p := New(Config{Quiet: true, Stats: c})
	assert.IsType(t, &quietPresenter{}, p)

	p = New(Config{IsTTY: false, Stats: c})
	assert.IsType(t, &plainPresenter{}, p)

	p = New(Config{IsTTY: true, ForcePlain: true, Stats: c})
	assert.IsType(t, &plainPresenter{}, p)

	p = New(Config{IsTTY: true, Stats: c})
	assert.IsType(t, &hudPresenter{}, p)
}

func runPlain(t *testing.T, c *stats.Collector, events ...event.Event) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	p := New(Config{Writer: &out, ErrWriter: &errOut, Stats: c})

	ch := make(chan event.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	require.NoError(t, p.Run(ch))
	return out.String(), errOut.String()
}

func TestPlainPresenter_Lines(t *testing.T) {
	t.Parallel()
	c := stats.NewCollector()
	out, errOut := runPlain(t, c,
		event.Event{Type: event.FileCopied, Path: "a/b.txt", Size: 2048},
		event.Event{Type: event.FileMoved, Path: "c.txt", Size: 10},
		event.Event{Type: event.FileDeleted, Path: "stale.txt"},
		event.Event{Type: event.DirDeleted, Path: "old"},
		event.Event{Type: event.OpFailed, Path: "bad.txt", Error: errors.New("permission denied")},
		event.Event{Type: event.OpSkipped, Path: "dev0", Reason: "unsupported file type"},
		event.Event{Type: event.VerifyFailed, Path: "corrupt.bin"},
	)

	assert.Contains(t, out, "a/b.txt  2.0 KiB")
	assert.Contains(t, out, "c.txt  10 B  moved")
	assert.Contains(t, out, "delete: stale.txt")
	assert.Contains(t, out, "delete dir: old")
	assert.Contains(t, out, "bad.txt  FAILED  permission denied")
	assert.Contains(t, out, "dev0  skipped (unsupported file type)")
	assert.Contains(t, out, "MISMATCH: corrupt.bin")
	assert.Empty(t, errOut, "progress lines only appear on the ticker")
}

func TestPlainPresenter_SilentEventTypes(t *testing.T) {
	t.Parallel()
	c := stats.NewCollector()
	out, _ := runPlain(t, c,
		event.Event{Type: event.WalkStarted, Path: "/src"},
		event.Event{Type: event.PlanComplete, Total: 10},
		event.Event{Type: event.FileStarted, Path: "a.txt"},
		event.Event{Type: event.DirCreated, Path: "sub"},
		event.Event{Type: event.VerifyOK, Path: "a.txt"},
	)
	assert.Empty(t, out, "per-file noise is reserved for finished payload operations")
}

func TestPlainPresenter_Summary(t *testing.T) {
	t.Parallel()
	c := stats.NewCollector()
	c.AddFilesCopied(2)
	p := New(Config{Writer: &bytes.Buffer{}, ErrWriter: &bytes.Buffer{}, Stats: c})
	assert.Contains(t, p.Summary(), "copied 2")
}

func TestQuietPresenter(t *testing.T) {
	t.Parallel()
	p := New(Config{Quiet: true})

	ch := make(chan event.Event, 1)
	ch <- event.Event{Type: event.FileCopied, Path: "a"}
	close(ch)

	require.NoError(t, p.Run(ch))
	assert.Empty(t, p.Summary())
}
