package config

// CommunityURL is the default Plex community GraphQL endpoint.
const CommunityURL = "https://community.plex.tv/api"

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Plex: PlexConfig{
			URL: CommunityURL,
		},
		History: HistoryConfig{
			PageSize:      100,
			PageDelayMs:   2000,
			DeleteDelayMs: 1000,
		},
		Retry: RetryConfig{
			MaxAttempts:      4,
			InitialBackoffMs: 500,
			MaxBackoffMs:     30000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Plex
	if c.Plex.URL == "" {
		c.Plex.URL = d.Plex.URL
	}

	// History
	if c.History.PageSize == 0 {
		c.History.PageSize = d.History.PageSize
	}
	if c.History.PageDelayMs == 0 {
		c.History.PageDelayMs = d.History.PageDelayMs
	}
	if c.History.DeleteDelayMs == 0 {
		c.History.DeleteDelayMs = d.History.DeleteDelayMs
	}

	// Retry
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = d.Retry.MaxAttempts
	}
	if c.Retry.InitialBackoffMs == 0 {
		c.Retry.InitialBackoffMs = d.Retry.InitialBackoffMs
	}
	if c.Retry.MaxBackoffMs == 0 {
		c.Retry.MaxBackoffMs = d.Retry.MaxBackoffMs
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
