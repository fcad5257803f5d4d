package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestPath(t *testing.T) {
	dir := setConfigHome(t)
	assert.Equal(t, filepath.Join(dir, "ferry", "config.toml"), Path())
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	setConfigHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoad_DecodesDefaultsAndTheme(t *testing.T) {
	dir := setConfigHome(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ferry"), 0o755))
	content := `
[defaults]
workers = 16
recursive = true
verify = false
ui = "plain"
bwlimit = "10M"

[theme]
green = "#00ff00"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ferry", "config.toml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.Workers)
	assert.Equal(t, 16, *cfg.Defaults.Workers)
	require.NotNil(t, cfg.Defaults.Recursive)
	assert.True(t, *cfg.Defaults.Recursive)
	require.NotNil(t, cfg.Defaults.Verify)
	assert.False(t, *cfg.Defaults.Verify)
	require.NotNil(t, cfg.Defaults.UI)
	assert.Equal(t, "plain", *cfg.Defaults.UI)
	require.NotNil(t, cfg.Defaults.BWLimit)
	assert.Equal(t, "10M", *cfg.Defaults.BWLimit)

	assert.Nil(t, cfg.Defaults.PreserveAll, "unset keys stay nil")
	assert.Nil(t, cfg.Defaults.LogFile)

	require.NotNil(t, cfg.Theme.Green)
	assert.Equal(t, "#00ff00", *cfg.Theme.Green)
	assert.Nil(t, cfg.Theme.Red)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := setConfigHome(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ferry"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ferry", "config.toml"), []byte("[defaults\nworkers ="), 0o644))

	_, err := Load()
	assert.Error(t, err)
}
