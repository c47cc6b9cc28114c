package config

import "testing"

func TestValidateDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestValidateCredentialPair(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "both empty", wantErr: false},
		{name: "both set", username: "someone", password: "hunter2", wantErr: false},
		{name: "username only", username: "someone", wantErr: true},
		{name: "password only", password: "hunter2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Plex.Username = tt.username
			cfg.Plex.Password = tt.password
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero page size is defaulted but negative rejected", func(c *Config) { c.History.PageSize = -1 }},
		{"oversized page", func(c *Config) { c.History.PageSize = 1000 }},
		{"negative page delay", func(c *Config) { c.History.PageDelayMs = -1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad url scheme", func(c *Config) { c.Plex.URL = "ftp://community.plex.tv/api" }},
		{"backoff cap below initial", func(c *Config) { c.Retry.MaxBackoffMs = 1; c.Retry.InitialBackoffMs = 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
