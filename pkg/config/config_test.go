package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("OUTFITTER_GITHUB_TOKEN", "")
	t.Setenv("OUTFITTER_FORMAT", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestWriteDefaultThenLoad(t *testing.T) {
	dir := isolate(t)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, AppName, ConfigFileName), path)

	require.NoError(t, WriteDefault(path, false))
	assert.Error(t, WriteDefault(path, false), "existing file is kept")
	require.NoError(t, WriteDefault(path, true))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "format = ")
	assert.Contains(t, string(raw), "json")
	assert.NotContains(t, string(raw), "github_token")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
concurrency = 2
http_timeout = "5s"
format = "json"
`), 0644))

	t.Setenv("OUTFITTER_FORMAT", "compact")
	t.Setenv("GITHUB_TOKEN", "ghp_test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "compact", cfg.Format)
	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, 256, cfg.CacheSize)
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`format = "yaml"`), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "format")

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte(`concurrency = `), 0644))
	_, err = Load(broken)
	assert.Error(t, err)
}
