package config

// Config is the root configuration structure.
type Config struct {
	Plex    PlexConfig    `toml:"plex"`
	History HistoryConfig `toml:"history"`
	Retry   RetryConfig   `toml:"retry"`
	Log     LogConfig     `toml:"log"`
}

// PlexConfig holds Plex account and endpoint settings.
type PlexConfig struct {
	Token    string `toml:"token"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	URL      string `toml:"url"`
}

// HistoryConfig holds pagination and pacing settings.
type HistoryConfig struct {
	PageSize      int `toml:"page_size"`
	PageDelayMs   int `toml:"page_delay_ms"`
	DeleteDelayMs int `toml:"delete_delay_ms"`
}

// RetryConfig holds retry/backoff settings for community API calls.
type RetryConfig struct {
	MaxAttempts      int `toml:"max_attempts"`
	InitialBackoffMs int `toml:"initial_backoff_ms"`
	MaxBackoffMs     int `toml:"max_backoff_ms"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}
