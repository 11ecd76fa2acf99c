package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewmap/internal/store"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.StartMenu)
	assert.True(t, cfg.Confirmations)
	assert.Equal(t, store.BackendBadger, cfg.Backend)
	assert.Equal(t, defaultCellWidth, cfg.CellWidth)
	assert.Equal(t, defaultCellHeight, cfg.CellHeight)
	assert.Equal(t, defaultQuotaBytes, cfg.QuotaBytes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SaveDirectory)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`backend: SQLite
start_menu: false
confirmations: false
cell_width: 10
cell_height: 0
quota_bytes: 1024
data_dir: ` + filepath.Join(dir, "data") + `
save_directory: ` + filepath.Join(dir, "exports") + `
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))

	cfg, err := loadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, store.BackendSQLite, cfg.Backend)
	assert.False(t, cfg.StartMenu)
	assert.False(t, cfg.Confirmations)
	assert.Equal(t, cellMetrics{w: 10, h: defaultCellHeight}, cfg.metrics(), "invalid sizes fall back")
	assert.Equal(t, 1024, cfg.QuotaBytes)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "exports", "out.json"), cfg.GetSavePath("out.json"))
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CREWMAP_BACKEND", "sqlite")
	cfg, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, store.BackendSQLite, cfg.Backend)
}

func TestLoadConfigRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: [unclosed"), 0o644))

	_, err := loadConfig(dir)
	assert.Error(t, err)
}

func TestGetSavePath(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "board.json", cfg.GetSavePath("board.json"))

	cfg.SaveDirectory = t.TempDir()
	abs := filepath.Join(t.TempDir(), "x.png")
	assert.Equal(t, abs, cfg.GetSavePath(abs))
}

func TestSetupLogging(t *testing.T) {
	cfg := &Config{DataDir: filepath.Join(t.TempDir(), "data"), LogLevel: "debug"}
	log, closer, err := setupLogging(cfg)
	require.NoError(t, err)
	log.Debug().Msg("hello")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Logging set up")
	assert.Contains(t, string(raw), "hello")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "warn", parseLogLevel("WARN").String())
	assert.Equal(t, "info", parseLogLevel("bogus").String())
}
