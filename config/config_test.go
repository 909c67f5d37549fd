package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelsync.json")
	content := `{"base_url": "https://example.com/videos", "max_per_cycle": 5}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "https://example.com/videos" {
		t.Errorf("BaseURL = %q, not taken from file", cfg.BaseURL)
	}
	if cfg.MaxPerCycle != 5 {
		t.Errorf("MaxPerCycle = %d, want 5", cfg.MaxPerCycle)
	}
	// Untouched fields keep defaults.
	if cfg.CheckInterval != 4*time.Hour {
		t.Errorf("CheckInterval = %v, want default 4h", cfg.CheckInterval)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelsync.json")
	if err := os.WriteFile(path, []byte(`{"max_per_cycle": 5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REELSYNC_MAX_PER_CYCLE", "7")
	t.Setenv("REELSYNC_RETRY_DELAY", "3s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxPerCycle != 7 {
		t.Errorf("MaxPerCycle = %d, want env override 7", cfg.MaxPerCycle)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load() error = nil for a named missing file, want failure")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, true},
		{"empty data file", func(c *Config) { c.DataFile = "" }, true},
		{"zero cycle interval", func(c *Config) { c.CheckInterval = 0 }, true},
		{"zero cap", func(c *Config) { c.MaxPerCycle = 0 }, true},
		{"inverted delay range", func(c *Config) { c.DelayMin = time.Minute; c.DelayMax = time.Second }, true},
		{"poll timeout below interval", func(c *Config) { c.PollTimeout = time.Second }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"zero retries ok", func(c *Config) { c.MaxRetries = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
