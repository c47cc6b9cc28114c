package config

import "testing"

func TestLoadAppliesEnvOverrides(t *testing.T) {
	// Point the config search away from any real user files.
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", tmp)

	t.Setenv("PLEXHIST_TOKEN", "env-token")
	t.Setenv("PLEXHIST_COMMUNITY_URL", "http://127.0.0.1:9999/api")
	t.Setenv("PLEXHIST_PAGE_SIZE", "25")
	t.Setenv("PLEXHIST_PAGE_DELAY_MS", "10")
	t.Setenv("PLEXHIST_DELETE_DELAY_MS", "5")
	t.Setenv("PLEXHIST_MAX_ATTEMPTS", "7")
	t.Setenv("PLEXHIST_INITIAL_BACKOFF_MS", "50")
	t.Setenv("PLEXHIST_MAX_BACKOFF_MS", "5000")
	t.Setenv("PLEXHIST_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Plex.Token != "env-token" {
		t.Errorf("Plex.Token = %q, want env-token", cfg.Plex.Token)
	}
	if cfg.Plex.URL != "http://127.0.0.1:9999/api" {
		t.Errorf("Plex.URL = %q, want the env override", cfg.Plex.URL)
	}
	if cfg.History.PageSize != 25 {
		t.Errorf("History.PageSize = %d, want 25", cfg.History.PageSize)
	}
	if cfg.History.PageDelayMs != 10 || cfg.History.DeleteDelayMs != 5 {
		t.Errorf("History delays = %d/%d, want 10/5", cfg.History.PageDelayMs, cfg.History.DeleteDelayMs)
	}
	if cfg.Retry.MaxAttempts != 7 {
		t.Errorf("Retry.MaxAttempts = %d, want 7", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialBackoffMs != 50 || cfg.Retry.MaxBackoffMs != 5000 {
		t.Errorf("Retry backoff = %d/%d, want 50/5000", cfg.Retry.InitialBackoffMs, cfg.Retry.MaxBackoffMs)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadDefaultsWithoutEnv(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", tmp)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if cfg.History.PageSize != want.History.PageSize {
		t.Errorf("History.PageSize = %d, want default %d", cfg.History.PageSize, want.History.PageSize)
	}
	if cfg.Retry.MaxAttempts != want.Retry.MaxAttempts {
		t.Errorf("Retry.MaxAttempts = %d, want default %d", cfg.Retry.MaxAttempts, want.Retry.MaxAttempts)
	}
	if cfg.Plex.URL != CommunityURL {
		t.Errorf("Plex.URL = %q, want %q", cfg.Plex.URL, CommunityURL)
	}
}
