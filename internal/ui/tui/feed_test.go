package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrycp/ferry/internal/event"
)

func TestFeedView_HandleEvent(t *testing.T) {
	t.Parallel()
	f := newFeedView()

	f.handleEvent(event.Event{Type: event.FileStarted, Path: "a.txt", Size: 10, WorkerID: 3, Timestamp: time.Now()})
	require.Len(t, f.inFlight, 1)
	assert.Equal(t, "a.txt", f.inFlight[3].path)

	f.handleEvent(event.Event{Type: event.FileCopied, Path: "a.txt", Size: 10, WorkerID: 3})
	assert.Empty(t, f.inFlight)
	require.Len(t, f.done, 1)
	assert.Equal(t, entryCopied, f.done[0].kind)

	f.handleEvent(event.Event{Type: event.FileMoved, Path: "b.txt", Size: 5, WorkerID: 1})
	assert.Equal(t, entryMoved, f.done[1].kind)

	f.handleEvent(event.Event{Type: event.FileDeleted, Path: "stale.txt"})
	assert.Equal(t, entryDeleted, f.done[2].kind)

	f.handleEvent(event.Event{Type: event.DirDeleted, Path: "old"})
	assert.Equal(t, "old/", f.done[3].path)

	f.handleEvent(event.Event{Type: event.OpSkipped, Path: "dev0", Reason: "unsupported file type"})
	assert.Equal(t, entrySkipped, f.done[4].kind)
	assert.Equal(t, "unsupported file type", f.done[4].detail)
}

func TestFeedView_FailuresLandInBothLists(t *testing.T) {
	t.Parallel()
	f := newFeedView()
	f.handleEvent(event.Event{Type: event.FileStarted, Path: "bad.txt", WorkerID: 0})
	f.handleEvent(event.Event{
		Type:     event.OpFailed,
		Path:     "bad.txt",
		WorkerID: 0,
		Error:    errors.New("permission denied"),
	})

	assert.Empty(t, f.inFlight)
	require.Len(t, f.done, 1)
	assert.Equal(t, entryFailed, f.done[0].kind)
	assert.Equal(t, "permission denied", f.done[0].detail)
	require.Len(t, f.errors, 1)
	assert.Equal(t, "bad.txt", f.errors[0].path)
}

func TestFeedView_VerifyFailureIsErrorOnly(t *testing.T) {
	t.Parallel()
	f := newFeedView()
	f.handleEvent(event.Event{Type: event.VerifyFailed, Path: "corrupt.bin"})

	assert.Empty(t, f.done)
	require.Len(t, f.errors, 1)
	assert.Equal(t, "CHECKSUM MISMATCH", f.errors[0].err)
}

func TestFeedView_Scrolling(t *testing.T) {
	t.Parallel()
	f := newFeedView()
	assert.True(t, f.autoScroll)

	f.scrollDown()
	assert.False(t, f.autoScroll)
	assert.Equal(t, 1, f.scrollOffset)

	f.scrollUp()
	assert.Equal(t, 0, f.scrollOffset)
	f.scrollUp()
	assert.Equal(t, 0, f.scrollOffset, "scrolling up stops at the top")

	f.scrollDown()
	f.scrollDown()
	f.scrollToTop()
	assert.Equal(t, 0, f.scrollOffset)

	f.scrollToBottom()
	assert.True(t, f.autoScroll)
}

func TestFeedView_ViewSections(t *testing.T) {
	t.Parallel()
	f := newFeedView()
	f.handleEvent(event.Event{Type: event.FileStarted, Path: "busy.txt", WorkerID: 0, Timestamp: time.Now()})
	f.handleEvent(event.Event{Type: event.FileCopied, Path: "one.txt", Size: 100, WorkerID: 1})
	f.handleEvent(event.Event{Type: event.FileCopied, Path: "sub/two.txt", Size: 200, WorkerID: 2})
	f.handleEvent(event.Event{Type: event.OpFailed, Path: "bad.txt", Error: errors.New("io error")})

	out := f.view(80, 24, 0)

	assert.Contains(t, out, "in-flight")
	assert.Contains(t, out, "busy.txt")
	assert.Contains(t, out, "completed (3)")
	assert.Contains(t, out, "one.txt")
	assert.Contains(t, out, "two.txt")
	assert.Contains(t, out, "errors (1)")
	assert.Contains(t, out, "io error")
}

func TestFeedView_AutoScrollTracksTail(t *testing.T) {
	t.Parallel()
	f := newFeedView()
	for i := 0; i < 30; i++ {
		f.handleEvent(event.Event{Type: event.FileCopied, Path: string(rune('a'+i%26)) + ".txt", WorkerID: 0})
	}

	// a short viewport keeps the newest entries in view
	out := f.view(80, 6, 0)
	assert.NotEmpty(t, out)
	assert.Greater(t, f.scrollOffset, 0, "auto scroll advances the window")
}
