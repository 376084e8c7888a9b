package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.ariarc, $XDG_CONFIG_HOME/aria/config.toml, ~/.config/aria/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".ariarc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "aria", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Proxy
	if v := os.Getenv("ARIA_PROXY_URL"); v != "" {
		cfg.Proxy.URL = v
	}
	if v := os.Getenv("ARIA_PROXY_LISTEN"); v != "" {
		cfg.Proxy.Listen = v
	}

	// Catalog
	if v := os.Getenv("ARIA_CATALOG_URL"); v != "" {
		cfg.Catalog.BaseURL = v
	}

	// Stream
	if v := os.Getenv("ARIA_PIPED_INSTANCES"); v != "" {
		cfg.Stream.PipedInstances = splitList(v)
	}
	if v := os.Getenv("ARIA_INVIDIOUS_INSTANCES"); v != "" {
		cfg.Stream.InvidiousInstances = splitList(v)
	}
	if v := os.Getenv("ARIA_REGION"); v != "" {
		cfg.Stream.Region = v
	}

	// Lyrics
	if v := os.Getenv("ARIA_LYRICS_URL"); v != "" {
		cfg.Lyrics.BaseURL = v
	}

	// Storage
	if v := os.Getenv("ARIA_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}

	// TUI
	if v := os.Getenv("ARIA_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("ARIA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ARIA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// splitList splits a comma-separated env value into a trimmed slice.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// StoragePath returns the configured storage path, falling back to the
// default location (~/.config/aria/aria.db).
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "aria", "aria.db"), nil
}
