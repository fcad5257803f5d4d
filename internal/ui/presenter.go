// Package ui renders run progress. Presenters consume the engine's event
// stream and read counters from the stats collector; they never write
// run state.
package ui

import (
	"io"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes and blocks until
	// rendering is finished.
	Run(events <-chan event.Event) error
	// Summary returns the final line to print after the run, empty for
	// silent modes.
	Summary() string
}

// Config selects and parameterizes a presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     stats.ReadTicker
	Workers   int
	IsTTY     bool
	Quiet     bool
	// ForceFeed pins the HUD to the per-file feed; ForceRate pins it to
	// the aggregate view.
	ForceFeed bool
	ForceRate bool
	// ForcePlain selects line output even on a terminal.
	ForcePlain bool
}

// New picks the presenter for the run: silent, line-oriented for pipes,
// or the in-place HUD for terminals.
func New(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{}
	}
	if !cfg.IsTTY || cfg.ForcePlain {
		return &plainPresenter{
			w:     cfg.Writer,
			errW:  cfg.ErrWriter,
			stats: cfg.Stats,
		}
	}
	return &hudPresenter{
		w:         cfg.ErrWriter,
		stats:     cfg.Stats,
		forceFeed: cfg.ForceFeed,
		forceRate: cfg.ForceRate,
		workers:   cfg.Workers,
	}
}
