package ui

import (
	"fmt"
	"strings"

	"github.com/ferrycp/ferry/internal/stats"
)

// CompletionSummary builds the one-line final account of a run.
// Example: done ✓  copied 48,917  size 2.1 GiB  avg 641 MiB/s  time 3m 17s  errors 0
func CompletionSummary(snap stats.Snapshot) string {
	avg := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avg = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}

	icon := "✓"
	if snap.Failed > 0 || snap.VerifyFailed > 0 {
		icon = "✗"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "done %s  copied %s", icon, FormatCount(snap.FilesCopied))
	if snap.FilesMoved > 0 {
		fmt.Fprintf(&b, "  moved %s", FormatCount(snap.FilesMoved))
	}
	if snap.DirsCreated > 0 {
		fmt.Fprintf(&b, "  dirs %s", FormatCount(snap.DirsCreated))
	}
	if snap.FilesDeleted > 0 || snap.DirsDeleted > 0 {
		fmt.Fprintf(&b, "  purged %s", FormatCount(snap.FilesDeleted+snap.DirsDeleted))
	}
	if snap.Skipped > 0 {
		fmt.Fprintf(&b, "  skipped %s", FormatCount(snap.Skipped))
	}
	fmt.Fprintf(&b, "  size %s  avg %s  time %s",
		FormatBytes(snap.BytesCopied),
		FormatRate(avg),
		FormatDuration(snap.Elapsed),
	)
	if snap.FilesVerified > 0 || snap.VerifyFailed > 0 {
		fmt.Fprintf(&b, "  verified %s", FormatCount(snap.FilesVerified))
	}
	fmt.Fprintf(&b, "  errors %d", snap.Failed+snap.VerifyFailed)
	return b.String()
}
