// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultDataFile = "todos.json"
	DefaultListen   = "127.0.0.1:8080"
	DefaultTheme    = "classic"
	DefaultLogLevel = "info"
)

const (
	userConfigName    = "duely.toml"
	projectConfigName = "duely.toml"
	hiddenConfigName  = ".duely.toml"
)

// Config holds the settings shared by the CLI and the web server.
type Config struct {
	// DataFile is the JSON collection both front ends operate on.
	DataFile string `toml:"data_file"`

	// Listen is the web server bind address.
	Listen string `toml:"listen"`

	// Theme selects the CLI color theme (classic, neon, mono).
	Theme string `toml:"theme"`

	// Logging (web server only).
	LogLevel string `toml:"log_level"`
}

// Load builds the configuration in priority order:
// 1. defaults, 2. user config file, 3. project config file,
// 4. environment variables. Flags are parsed by each main and applied
// on top of the result.
func Load() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}
	loadFromEnv(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.Listen = DefaultListen
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

// findUserConfigFile looks under the OS config dir, then ~/.duely.
func findUserConfigFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "duely", userConfigName)
		if fileExists(p) {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".duely", userConfigName)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// findProjectConfigFile looks for duely.toml or .duely.toml in the
// working directory.
func findProjectConfigFile() string {
	for _, name := range []string{projectConfigName, hiddenConfigName} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("DUELY_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("DUELY_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("DUELY_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("DUELY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
