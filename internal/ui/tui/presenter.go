// Package tui is the full-screen alternative to the inline HUD. It runs a
// Bubble Tea program with a scrollable operation feed, a throughput view,
// and a post-run report prompt.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ferrycp/ferry/internal/config"
	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/stats"
	"github.com/ferrycp/ferry/internal/ui"
)

// Config parameterizes the full-screen presenter.
type Config struct {
	Stats   stats.ReadTicker
	Workers int
	Src     string
	Dst     string
	Theme   config.Theme
}

// Presenter owns the Bubble Tea program for one run.
type Presenter struct {
	cfg Config
}

func NewPresenter(cfg Config) *Presenter {
	ApplyTheme(cfg.Theme)
	return &Presenter{cfg: cfg}
}

// Run blocks until the stream ends and the user quits, or until the user
// quits early. Event emission in the engine never blocks, so an early
// quit leaves the run to finish without a consumer.
func (p *Presenter) Run(events <-chan event.Event) error {
	model := NewModel(events, p.cfg.Stats, p.cfg.Workers, p.cfg.Src, p.cfg.Dst)
	prog := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (p *Presenter) Summary() string {
	return ui.CompletionSummary(p.cfg.Stats.Snapshot())
}
