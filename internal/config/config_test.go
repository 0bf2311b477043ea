package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadAcceptsCommentsAndTrailingCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
  // keep the board in redis
  "backend": "redis",
  "redis_url": "redis://localhost:6379/2",
  "include_done": true,
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendRedis, cfg.Backend)
	require.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
	require.True(t, cfg.IncludeDone)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"backend": `), 0o644))
	_, err := Load(broken)
	require.Error(t, err)

	unknown := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(unknown, []byte(`{"backend": "postgres"}`), 0o644))
	_, err = Load(unknown)
	require.ErrorContains(t, err, "unknown backend")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Backend = BackendFile
	cfg.DataDir = "/tmp/board"
	cfg.StorageKey = "work"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
