package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrycp/ferry/internal/filter"
)

func walkAll(t *testing.T, root string, recursive bool, f *filter.Set) []walkItem {
	t.Helper()
	w := newWalker(root, recursive, f)
	var items []walkItem
	for item := range w.walk(context.Background()) {
		items = append(items, item)
	}
	return items
}

func rels(items []walkItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, filepath.ToSlash(it.Entry.RelPath))
	}
	return out
}

func TestWalker_PreOrderLexical(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "d1", "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "d2"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.txt"), []byte("bb"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "z.txt"), []byte("z"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "d1", "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "d1", "sub", "deep.txt"), []byte("dd"), 0o644))

	items := walkAll(t, src, true, nil)

	for _, it := range items {
		require.NoError(t, it.Err)
	}
	assert.Equal(t, []string{
		"b.txt",
		"d1",
		"d1/a.txt",
		"d1/sub",
		"d1/sub/deep.txt",
		"d2",
		"z.txt",
	}, rels(items))

	// snapshots carry what the planner needs
	assert.Equal(t, KindFile, items[0].Entry.Kind)
	assert.Equal(t, int64(2), items[0].Entry.Size)
	assert.Equal(t, KindDir, items[1].Entry.Kind)
	assert.False(t, items[0].Entry.ModTime.IsZero())
}

func TestWalker_NonRecursive(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "hidden.txt"), []byte("h"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("t"), 0o644))

	items := walkAll(t, src, false, nil)

	assert.Equal(t, []string{"sub", "top.txt"}, rels(items))
}

func TestWalker_FilterPrunes(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "logs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "keep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "logs", "a.log"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "keep", "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "c.log"), []byte("c"), 0o644))

	f := filter.New()
	f.Exclude("logs/")
	f.Exclude("*.log")

	items := walkAll(t, src, true, f)

	// an excluded directory is pruned whole: its children never surface
	assert.Equal(t, []string{"keep", "keep/b.txt"}, rels(items))
}

func TestWalker_RootMissing(t *testing.T) {
	items := walkAll(t, filepath.Join(t.TempDir(), "absent"), true, nil)

	require.Len(t, items, 1)
	assert.Equal(t, ".", items[0].Entry.RelPath)
	assert.Equal(t, KindDir, items[0].Entry.Kind)
	assert.Error(t, items[0].Err)
	assert.True(t, os.IsNotExist(items[0].Err))
}

func TestWalker_CancelClosesStream(t *testing.T) {
	src := t.TempDir()
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(src, string(rune('a'+i))+".txt"), []byte("x"), 0o644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := newWalker(src, true, nil)
	count := 0
	for range w.walk(ctx) {
		count++
	}
	// the stream must terminate; partial delivery is acceptable
	assert.LessOrEqual(t, count, 10)
}
