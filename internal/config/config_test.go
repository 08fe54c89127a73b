package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Deck)
}

func TestLoadConfigPointerFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[practice]
deck = "spanish"
interval-ms = 4000
shuffle = true

[input]
voice-threshold = 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Deck)
	assert.Equal(t, "spanish", *cfg.Practice.Deck)
	require.NotNil(t, cfg.Practice.IntervalMs)
	assert.Equal(t, 4000, *cfg.Practice.IntervalMs)
	require.NotNil(t, cfg.Practice.Shuffle)
	assert.True(t, *cfg.Practice.Shuffle)
	assert.Nil(t, cfg.Practice.SpeedUp)
	require.NotNil(t, cfg.Input.VoiceThreshold)
	assert.InDelta(t, 0.8, *cfg.Input.VoiceThreshold, 1e-9)
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice]\nwords = 3\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "practice.words")
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	t.Setenv("FLASHMASH_DB", "")
	t.Setenv("FLASHMASH_DECK_DIR", "")
	t.Setenv("FLASHMASH_LOG_FILE", "")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/data", "flashmash", "flashmash.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join("/tmp/data", "flashmash", "decks"), cfg.DeckDir)
	assert.Equal(t, filepath.Join("/tmp/state", "flashmash", "flashmash.log"), cfg.Log.File)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FLASHMASH_DB", "/srv/cards.db")
	t.Setenv("FLASHMASH_LOG_LEVEL", "debug")
	t.Setenv("FLASHMASH_LOG_FORMAT", "json")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/srv/cards.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}
