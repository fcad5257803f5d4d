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

func TestRun_PurgeExactness(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "shared"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "keep.txt"), []byte("fresh content"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "shared", "inner.txt"), []byte("inner"), 0o644))

	// destination starts with stale overlap plus strays at several depths
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "shared"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "straydir", "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "keep.txt"), []byte("stale"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "topstray.txt"), []byte("t"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "shared", "nested-stray.txt"), []byte("n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "straydir", "deep", "x.txt"), []byte("x"), 0o644))

	summary := Run(context.Background(), Config{
		Src:       src,
		Dst:       dst,
		Workers:   4,
		Recursive: true,
		Purge:     true,
	})

	require.True(t, summary.OverallSuccess)
	assert.Equal(t, treeEntries(t, src), treeEntries(t, dst))
	assert.Equal(t, sum256(t, filepath.Join(src, "keep.txt")), sum256(t, filepath.Join(dst, "keep.txt")))
	assert.Equal(t, int64(2), summary.Stats.FilesDeleted)
	// a stray directory goes as one unit however deep it is
	assert.Equal(t, int64(1), summary.Stats.DirsDeleted)
}

func TestRun_PurgeStrayFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "x", "new.txt"), []byte("new"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "x", "old.txt"), []byte("old"), 0o644))

	summary := Run(context.Background(), Config{
		Src:       src,
		Dst:       dst,
		Workers:   2,
		Recursive: true,
		Purge:     true,
	})

	require.True(t, summary.OverallSuccess)
	assert.Equal(t, int64(1), summary.Stats.FilesDeleted)
	_, err := os.Stat(filepath.Join(dst, "x", "old.txt"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, sum256(t, filepath.Join(src, "x", "new.txt")), sum256(t, filepath.Join(dst, "x", "new.txt")))
}

func TestRun_PurgeRespectsFilter(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "keep.txt"), []byte("k"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "skip.log"), []byte("s"), 0o644))
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "old.log"), []byte("o"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "stray.txt"), []byte("x"), 0o644))

	f := filter.New()
	f.Exclude("*.log")

	summary := Run(context.Background(), Config{
		Src:       src,
		Dst:       dst,
		Workers:   2,
		Recursive: true,
		Purge:     true,
		Filter:    f,
	})

	require.True(t, summary.OverallSuccess)
	assert.FileExists(t, filepath.Join(dst, "keep.txt"))
	assert.NoFileExists(t, filepath.Join(dst, "skip.log"), "excluded files are not copied")
	assert.FileExists(t, filepath.Join(dst, "old.log"), "excluded destination entries survive a purge")
	assert.NoFileExists(t, filepath.Join(dst, "stray.txt"))
	assert.Equal(t, int64(1), summary.Stats.FilesDeleted)
}

func TestRun_PurgeIgnoresStagingNames(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.MkdirAll(dst, 0o755))
	staging := filepath.Join(dst, ".b.txt.deadbeef"+tmpSuffix)
	require.NoError(t, os.WriteFile(staging, []byte("in flight"), 0o644))

	summary := Run(context.Background(), Config{
		Src:       src,
		Dst:       dst,
		Workers:   2,
		Recursive: true,
		Purge:     true,
	})

	require.True(t, summary.OverallSuccess)
	assert.Equal(t, int64(0), summary.Stats.FilesDeleted)
	assert.FileExists(t, staging, "staging files belong to workers, not the purge")
}

func TestRun_PurgeWithoutRecursive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("t"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "topstray.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "sub", "nested.txt"), []byte("n"), 0o644))

	summary := Run(context.Background(), Config{
		Src:     src,
		Dst:     dst,
		Workers: 2,
		Purge:   true,
	})

	require.True(t, summary.OverallSuccess)
	assert.NoFileExists(t, filepath.Join(dst, "topstray.txt"))
	assert.FileExists(t, filepath.Join(dst, "sub", "nested.txt"),
		"below the root nothing was enumerated, so nothing may be purged")
}
