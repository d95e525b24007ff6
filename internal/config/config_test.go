package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{EnvDBPath, EnvStorageKey, EnvCurrency, EnvLogLevel} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, Exists())
	assert.Equal(t, DefaultStorageKey, cfg.General.StorageKey)
	assert.True(t, cfg.General.SeedDemo)
	assert.Equal(t, "ZAR", cfg.General.Currency)
	assert.Equal(t, filepath.Join(dir, "data", "moneymike", "moneymike.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join(dir, "data", "moneymike", "moneymike.log"), cfg.LogFile())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.DBPath = "/tmp/custom.db"
	cfg.General.StorageKey = "other-key"
	cfg.General.SeedDemo = false
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Daemon.IntervalSec = 30
	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	require.NoError(t, Save(DefaultConfig()))

	t.Setenv(EnvDBPath, "/var/lib/mm.db")
	t.Setenv(EnvStorageKey, "alt")
	t.Setenv(EnvCurrency, "usd")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/mm.db", cfg.DBPath())
	assert.Equal(t, "alt", cfg.General.StorageKey)
	assert.Equal(t, "USD", cfg.General.Currency)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	isolate(t)
	saved := DefaultConfig()
	saved.General.StorageKey = "mine"
	require.NoError(t, Save(saved))

	t.Setenv(EnvStorageKey, "temporary")
	t.Setenv(EnvCurrency, "eur")

	cfg, err := LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "mine", cfg.General.StorageKey)
	assert.Equal(t, "ZAR", cfg.General.Currency)
}

func TestBlankStorageKeyFallsBack(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(Dir(), 0o755))
	require.NoError(t, os.WriteFile(Path(), []byte("[general]\nstorage_key = \"\"\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultStorageKey, cfg.General.StorageKey)
}

func TestLoadRejectsBrokenTOML(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(Dir(), 0o755))
	require.NoError(t, os.WriteFile(Path(), []byte("[general\n"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := isolate(t)
	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))

	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("MONEYMIKE_TEST_ONLY=from-file\n"), 0o600))
	t.Setenv("MONEYMIKE_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("MONEYMIKE_TEST_ONLY"))

	require.NoError(t, LoadEnvFile(env))
	assert.Equal(t, "from-file", os.Getenv("MONEYMIKE_TEST_ONLY"))
}
