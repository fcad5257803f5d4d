//go:build linux || darwin

package platform

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyReadWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	data := []byte("positional reads leave offsets alone")
	srcPath := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(srcPath, data, 0o644))

	src, err := os.Open(srcPath)
	require.NoError(t, err)
	defer src.Close()
	dst, err := os.Create(filepath.Join(dir, "dst"))
	require.NoError(t, err)
	defer dst.Close()

	res, err := copyReadWrite(Request{Src: src, Dst: dst, Size: int64(len(data))})
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), res.Bytes)
	assert.Equal(t, ReadWrite, res.Method)

	got, err := os.ReadFile(filepath.Join(dir, "dst"))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// descriptor offsets are untouched by the positional path
	pos, err := src.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Zero(t, pos)
}
