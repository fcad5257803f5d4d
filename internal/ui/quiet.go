package ui

import "github.com/ferrycp/ferry/internal/event"

// quietPresenter drains the stream and says nothing. The exit code and
// the caller's own use of the summary carry the outcome.
type quietPresenter struct{}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for range events {
	}
	return nil
}

func (p *quietPresenter) Summary() string { return "" }
