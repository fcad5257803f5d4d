package engine

import (
	"context"
	"sync"
)

// dirGate serializes directory creation against everything placed beneath
// it. The planner registers a latch when it emits a CreateDir; any worker
// about to execute an operation waits on the latch of the operation's
// parent; the worker that finishes the CreateDir opens the latch whether
// it succeeded or not, so dependents proceed and fail on their own terms
// instead of deadlocking.
//
// Directories that already existed at plan time are never registered, and
// wait returns immediately for them. The root "." is never registered.
type dirGate struct {
	mu      sync.Mutex
	latches map[string]chan struct{}
}

func newDirGate() *dirGate {
	return &dirGate{latches: make(map[string]chan struct{})}
}

func (g *dirGate) register(rel string) {
	if rel == "." || rel == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.latches[rel]; !ok {
		g.latches[rel] = make(chan struct{})
	}
}

func (g *dirGate) wait(ctx context.Context, rel string) error {
	g.mu.Lock()
	ch := g.latches[rel]
	g.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *dirGate) open(rel string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ch, ok := g.latches[rel]; ok {
		close(ch)
		delete(g.latches, rel)
	}
}
