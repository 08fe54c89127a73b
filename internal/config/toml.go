// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Input    InputConfig    `toml:"input"`
}

// PracticeConfig maps practice-related settings. Durations are milliseconds.
type PracticeConfig struct {
	Deck           *string  `toml:"deck"`
	PromptColumn   *string  `toml:"prompt-col"`
	AnswerColumn   *string  `toml:"answer-col"`
	IntervalMs     *int     `toml:"interval-ms"`
	MinIntervalMs  *int     `toml:"min-interval-ms"`
	MaxIntervalMs  *int     `toml:"max-interval-ms"`
	SpeedUp        *float64 `toml:"speedup"`
	SlowDown       *float64 `toml:"slowdown"`
	DwellCorrectMs *int     `toml:"dwell-correct-ms"`
	DwellWrongMs   *int     `toml:"dwell-incorrect-ms"`
	Shuffle        *bool    `toml:"shuffle"`
	FocusWeak      *bool    `toml:"focus-weak"`
	WeakTop        *int     `toml:"weak-top"`
	WeakWindow     *int     `toml:"weak-window"`
}

// InputConfig maps classifier settings.
type InputConfig struct {
	GestureCommand   *string  `toml:"gesture-cmd"`
	GestureLabel     *string  `toml:"gesture-label"`
	GestureThreshold *float64 `toml:"gesture-threshold"`
	VoiceCommand     *string  `toml:"voice-cmd"`
	VoiceLabel       *string  `toml:"voice-label"`
	VoiceThreshold   *float64 `toml:"voice-threshold"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
