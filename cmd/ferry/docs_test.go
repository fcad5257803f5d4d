package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docsHarness builds a fresh gen-docs command under a throwaway root so
// tests never mutate the package-level docsCmd flag state.
func docsHarness() *cobra.Command {
	root := &cobra.Command{Use: "ferry", Short: "Concurrent directory mirroring"}
	gen := &cobra.Command{Use: "gen-docs", RunE: runGenDocs}
	gen.Flags().String("dir", "docs", "output directory")
	gen.Flags().String("format", "man", "output format (man or markdown)")
	root.AddCommand(gen)
	return gen
}

func TestRunGenDocs_Markdown(t *testing.T) {
	t.Parallel()

	gen := docsHarness()
	dir := t.TempDir()
	require.NoError(t, gen.Flags().Set("dir", dir))
	require.NoError(t, gen.Flags().Set("format", "markdown"))

	require.NoError(t, runGenDocs(gen, nil))

	data, err := os.ReadFile(filepath.Join(dir, "ferry.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ferry")
}

func TestRunGenDocs_Man(t *testing.T) {
	t.Parallel()

	gen := docsHarness()
	dir := t.TempDir()
	require.NoError(t, gen.Flags().Set("dir", dir))

	require.NoError(t, runGenDocs(gen, nil))

	_, err := os.Stat(filepath.Join(dir, "ferry.1"))
	assert.NoError(t, err)
}

func TestRunGenDocs_UnknownFormat(t *testing.T) {
	t.Parallel()

	gen := docsHarness()
	require.NoError(t, gen.Flags().Set("dir", t.TempDir()))
	require.NoError(t, gen.Flags().Set("format", "pdf"))

	err := runGenDocs(gen, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf")
}
