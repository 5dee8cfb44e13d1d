package scripts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allow_anonymous: true\nsession_voting: true\ndiff_cache_bytes: 4096\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.AllowAnonymous)
	assert.True(t, cfg.SessionVoting)
	assert.False(t, cfg.DisableDiffCache)
	assert.Equal(t, uint64(4096), cfg.DiffCacheBytes)
	assert.Equal(t, defaultDiffCacheShards, cfg.DiffCacheShards)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allow_anonymous: [\n"), 0o644))

	_, err = LoadConfig(path)
	assert.Error(t, err)
}
