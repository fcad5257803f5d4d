package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirGate_UnregisteredPassesImmediately(t *testing.T) {
	t.Parallel()
	g := newDirGate()
	assert.NoError(t, g.wait(context.Background(), "never/registered"))
	assert.NoError(t, g.wait(context.Background(), "."))
}

func TestDirGate_BlocksUntilOpen(t *testing.T) {
	t.Parallel()
	g := newDirGate()
	g.register("a")

	done := make(chan error, 1)
	go func() {
		done <- g.wait(context.Background(), "a")
	}()

	select {
	case <-done:
		t.Fatal("wait returned before the latch opened")
	case <-time.After(50 * time.Millisecond):
	}

	g.open("a")
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait did not return after open")
	}
}

func TestDirGate_OpenBeforeWait(t *testing.T) {
	t.Parallel()
	g := newDirGate()
	g.register("a")
	g.open("a")
	assert.NoError(t, g.wait(context.Background(), "a"))
}

func TestDirGate_WaitHonorsContext(t *testing.T) {
	t.Parallel()
	g := newDirGate()
	g.register("stuck")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := g.wait(ctx, "stuck")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDirGate_OpenIsIdempotent(t *testing.T) {
	t.Parallel()
	g := newDirGate()
	g.register("a")
	g.open("a")
	g.open("a")
	g.open("unknown")
	assert.NoError(t, g.wait(context.Background(), "a"))
}
