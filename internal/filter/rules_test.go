package filter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_FirstMatchWins(t *testing.T) {
	t.Parallel()
	s := New()
	require.NoError(t, s.Include("*.keep.log"))
	require.NoError(t, s.Exclude("*.log"))

	assert.True(t, s.Match("audit.keep.log", false, 10), "the include carves an exception")
	assert.False(t, s.Match("noise.log", false, 10))
	assert.True(t, s.Match("readme.txt", false, 10), "unmatched paths are included")
}

func TestSet_OrderMatters(t *testing.T) {
	t.Parallel()
	s := New()
	require.NoError(t, s.Exclude("*.log"))
	require.NoError(t, s.Include("*.keep.log"))

	// the exclusion fires first, so the later include never applies
	assert.False(t, s.Match("audit.keep.log", false, 10))
}

func TestSet_SizeBounds(t *testing.T) {
	t.Parallel()
	s := New()
	s.MinSize(100)
	s.MaxSize(1000)

	assert.False(t, s.Match("small.bin", false, 99))
	assert.True(t, s.Match("fits.bin", false, 100))
	assert.True(t, s.Match("fits.bin", false, 1000))
	assert.False(t, s.Match("big.bin", false, 1001))
	// directories are never size-filtered
	assert.True(t, s.Match("anydir", true, 0))
}

func TestSet_NativeSeparators(t *testing.T) {
	t.Parallel()
	s := New()
	require.NoError(t, s.Exclude("sub/secret.txt"))

	rel := filepath.Join("sub", "secret.txt")
	assert.False(t, s.Match(rel, false, 1), "native separators normalize before matching")
}

func TestSet_Empty(t *testing.T) {
	t.Parallel()
	s := New()
	assert.True(t, s.Empty())
	assert.True(t, s.Match("anything/at/all", false, 1<<40))

	require.NoError(t, s.Exclude("*.o"))
	assert.False(t, s.Empty())

	sized := New()
	sized.MinSize(1)
	assert.False(t, sized.Empty())
}

func TestSet_BadGlobSurfaces(t *testing.T) {
	t.Parallel()
	s := New()
	assert.Error(t, s.Exclude("[z-a]"))
	assert.Error(t, s.Include("[z-a]"))
}
