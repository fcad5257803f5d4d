package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MoveRemovesSources(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "one.txt"), []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "two.txt"), []byte("two two"), 0o644))
	wantOne := sum256(t, filepath.Join(src, "one.txt"))
	wantTwo := sum256(t, filepath.Join(src, "sub", "two.txt"))

	summary := Run(context.Background(), Config{
		Src:       src,
		Dst:       dst,
		Workers:   2,
		Recursive: true,
		Move:      true,
	})

	require.True(t, summary.OverallSuccess)
	assert.Equal(t, int64(2), summary.Stats.FilesMoved)
	assert.Equal(t, int64(0), summary.Stats.FilesCopied)

	assert.Equal(t, wantOne, sum256(t, filepath.Join(dst, "one.txt")))
	assert.Equal(t, wantTwo, sum256(t, filepath.Join(dst, "sub", "two.txt")))
	assert.NoFileExists(t, filepath.Join(src, "one.txt"))
	assert.NoFileExists(t, filepath.Join(src, "sub", "two.txt"))
	// source directories stay behind; only payload is moved
	assert.DirExists(t, filepath.Join(src, "sub"))
}

func TestRun_MoveFailureKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "f.txt"), []byte("precious"), 0o644))
	// a directory squatting on the target path makes the final rename fail
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "f.txt"), 0o755))

	summary := Run(context.Background(), Config{
		Src:       src,
		Dst:       dst,
		Workers:   1,
		Recursive: true,
		Move:      true,
	})

	assert.False(t, summary.OverallSuccess)
	assert.Equal(t, int64(0), summary.Stats.FilesMoved)
	assert.Equal(t, int64(1), summary.Stats.Failed)
	data, err := os.ReadFile(filepath.Join(src, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("precious"), data, "a failed move must not lose the source")
	assert.Empty(t, findTmpFiles(t, dst))
}

func TestRun_MoveDryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "f.txt"), []byte("stay put"), 0o644))

	summary := Run(context.Background(), Config{
		Src:       src,
		Dst:       dst,
		Workers:   1,
		Recursive: true,
		Move:      true,
		DryRun:    true,
	})

	require.True(t, summary.OverallSuccess)
	assert.Equal(t, int64(1), summary.Stats.FilesMoved)
	assert.FileExists(t, filepath.Join(src, "f.txt"))
	_, err := os.Stat(dst)
	assert.True(t, os.IsNotExist(err))
}
