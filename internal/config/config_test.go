package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing-on-purpose.yaml"))
	require.Error(t, err, "explicit missing file should fail")

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBackend, cfg.Backend)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, 120*time.Second, cfg.Timeout())
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"backend: canned\nmodel: test-model\ntimeout_seconds: 10\nlisten_addr: \":9999\"\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "canned", cfg.Backend)
	assert.Equal(t, "test-model", cfg.Model)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, ":9999", cfg.ListenAddr)
	// Unset keys keep defaults.
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QUESTLINE_API_KEY", "sk-env-key")
	t.Setenv("QUESTLINE_MODEL", "env-model")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-env-key", cfg.APIKey)
	assert.Equal(t, "env-model", cfg.Model)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bad-backend.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: carrier_pigeon\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "bad-timeout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout_seconds: -5\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "bad-temp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("temperature: 3.5\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
