package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig holds settings read from the environment.
type EnvConfig struct {
	DBPath  string `env:"FLASHMASH_DB"`
	DeckDir string `env:"FLASHMASH_DECK_DIR"`
	Log     LogConfig
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `env:"FLASHMASH_LOG_LEVEL"  env-default:"info"`
	Format string `env:"FLASHMASH_LOG_FORMAT" env-default:"text"`
	File   string `env:"FLASHMASH_LOG_FILE"`
}

// LoadEnv reads environment settings and fills in XDG defaults for unset paths.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to read env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.DeckDir == "" {
		cfg.DeckDir = DefaultDeckDir()
	}
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogPath()
	}
	return cfg, nil
}
