package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Plex.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("plex: %w", err))
	}
	if err := c.History.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("history: %w", err))
	}
	if err := c.Retry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("retry: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks PlexConfig for errors.
func (c *PlexConfig) Validate() error {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid url scheme: %s (must be http or https)", u.Scheme)
		}
	}
	if (c.Username == "") != (c.Password == "") {
		return errors.New("username and password must be given together")
	}
	return nil
}

// Validate checks HistoryConfig for errors.
func (c *HistoryConfig) Validate() error {
	if c.PageSize < 1 || c.PageSize > 500 {
		return errors.New("page_size must be between 1 and 500")
	}
	if c.PageDelayMs < 0 {
		return errors.New("page_delay_ms must be non-negative")
	}
	if c.DeleteDelayMs < 0 {
		return errors.New("delete_delay_ms must be non-negative")
	}
	return nil
}

// Validate checks RetryConfig for errors.
func (c *RetryConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return errors.New("max_attempts must be at least 1")
	}
	if c.InitialBackoffMs < 1 {
		return errors.New("initial_backoff_ms must be positive")
	}
	if c.MaxBackoffMs < c.InitialBackoffMs {
		return errors.New("max_backoff_ms must be at least initial_backoff_ms")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
