// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test  TestConfig  `toml:"test"`
	Words WordsConfig `toml:"words"`
	Log   LogConfig   `toml:"log"`
}

// TestConfig maps typing test settings.
type TestConfig struct {
	Difficulty *string   `toml:"difficulty"`
	WordList   *string   `toml:"wordlist"`
	Lang       *string   `toml:"lang"`
	Seed       *int64    `toml:"seed"`
	CapsPct    *float64  `toml:"caps"`
	PunctPct   *float64  `toml:"punct"`
	PunctSet   *string   `toml:"punct-set"`
	Tick       *Duration `toml:"tick"`
	Watch      *bool     `toml:"watch"`
}

// WordsConfig maps difficulty levels to word counts.
type WordsConfig struct {
	Short  *int `toml:"short"`
	Medium *int `toml:"medium"`
	Long   *int `toml:"long"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	File  *string `toml:"file"`
	Level *string `toml:"level"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
