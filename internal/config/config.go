package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.plexhistrc, $XDG_CONFIG_HOME/plexhist/config.toml,
// ~/.config/plexhist/config.toml
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
		filepath.Join(home, ".plexhistrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "plexhist", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Plex
	if v := os.Getenv("PLEXHIST_TOKEN"); v != "" {
		cfg.Plex.Token = v
	}
	if v := os.Getenv("PLEXHIST_USERNAME"); v != "" {
		cfg.Plex.Username = v
	}
	if v := os.Getenv("PLEXHIST_PASSWORD"); v != "" {
		cfg.Plex.Password = v
	}
	if v := os.Getenv("PLEXHIST_COMMUNITY_URL"); v != "" {
		cfg.Plex.URL = v
	}

	// History
	if v := os.Getenv("PLEXHIST_PAGE_SIZE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.History.PageSize = i
		}
	}
	if v := os.Getenv("PLEXHIST_PAGE_DELAY_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.History.PageDelayMs = i
		}
	}
	if v := os.Getenv("PLEXHIST_DELETE_DELAY_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.History.DeleteDelayMs = i
		}
	}

	// Retry
	if v := os.Getenv("PLEXHIST_MAX_ATTEMPTS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Retry.MaxAttempts = i
		}
	}
	if v := os.Getenv("PLEXHIST_INITIAL_BACKOFF_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Retry.InitialBackoffMs = i
		}
	}
	if v := os.Getenv("PLEXHIST_MAX_BACKOFF_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Retry.MaxBackoffMs = i
		}
	}

	// Log
	if v := os.Getenv("PLEXHIST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
