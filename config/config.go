// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration for the syndication
// pipeline. The destination account credentials live in their own file
// (see publish.LoadAccounts) and are never part of this structure.
type Config struct {
	// BaseURL is the publisher section the scraper polls for candidates.
	BaseURL string `json:"base_url"`

	// DataFile is the path of the published-video ledger.
	DataFile string `json:"data_file"`
	// DownloadDir is where media files are staged before publishing.
	DownloadDir string `json:"download_dir"`
	// AccountsFile is the destination account configuration.
	AccountsFile string `json:"accounts_file"`

	// CheckInterval is the sleep between successful cycles.
	CheckInterval time.Duration `json:"check_interval"`
	// Cooldown is the shorter sleep after an unexpected cycle failure.
	Cooldown time.Duration `json:"cooldown"`
	// MaxPerCycle caps publishes per cycle.
	MaxPerCycle int `json:"max_per_cycle"`

	// DelayMin and DelayMax bound the politeness delay between accounts.
	DelayMin time.Duration `json:"delay_min"`
	DelayMax time.Duration `json:"delay_max"`
	// HourlyCallCeiling is the per-account API call budget.
	HourlyCallCeiling int `json:"hourly_call_ceiling"`

	// PollInterval and PollTimeout bound reel readiness polling.
	PollInterval time.Duration `json:"poll_interval"`
	PollTimeout  time.Duration `json:"poll_timeout"`

	// MaxRetries is the bounded retry count for a failed candidate.
	MaxRetries int `json:"max_retries"`
	// RetryDelay is the fixed delay between candidate retries.
	RetryDelay time.Duration `json:"retry_delay"`

	// YtdlpPath is the path to the yt-dlp executable (default: "yt-dlp").
	YtdlpPath string `json:"ytdlp_path"`
	// FfmpegPath is the path to the ffmpeg executable (default: "ffmpeg").
	FfmpegPath string `json:"ffmpeg_path"`
	// DownloadTimeout caps a single yt-dlp invocation.
	DownloadTimeout time.Duration `json:"download_timeout"`

	// OpenAIKeyEnv names the environment variable holding the
	// summarizer API key. The key itself is never written to disk.
	OpenAIKeyEnv string `json:"openai_key_env"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "https://20.detik.com/detikupdate",
		DataFile:          "videos.json",
		DownloadDir:       "downloads",
		AccountsFile:      "accounts.json",
		CheckInterval:     4 * time.Hour,
		Cooldown:          5 * time.Minute,
		MaxPerCycle:       3,
		DelayMin:          20 * time.Second,
		DelayMax:          40 * time.Second,
		HourlyCallCeiling: 180,
		PollInterval:      30 * time.Second,
		PollTimeout:       300 * time.Second,
		MaxRetries:        2,
		RetryDelay:        10 * time.Second,
		YtdlpPath:         "yt-dlp",
		FfmpegPath:        "ffmpeg",
		DownloadTimeout:   10 * time.Minute,
		OpenAIKeyEnv:      "OPENAI_API_KEY",
	}
}

// Load loads configuration from a file and environment variables.
// Priority: env vars > config file > defaults. An empty path means no
// file is required; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(path); err != nil {
		if path != "" || !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads path if given, else tries reelsync.json in the
// current directory and the user config directory.
func (c *Config) loadFromFile(path string) error {
	paths := []string{path}
	if path == "" {
		paths = []string{
			"reelsync.json",
			filepath.Join(os.Getenv("HOME"), ".config", "reelsync", "reelsync.json"),
		}
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) && path == "" {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("REELSYNC_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("REELSYNC_DATA_FILE"); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv("REELSYNC_DOWNLOAD_DIR"); v != "" {
		c.DownloadDir = v
	}
	if v := os.Getenv("REELSYNC_ACCOUNTS_FILE"); v != "" {
		c.AccountsFile = v
	}
	if v := os.Getenv("REELSYNC_CHECK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CheckInterval = d
		}
	}
	if v := os.Getenv("REELSYNC_MAX_PER_CYCLE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPerCycle = n
		}
	}
	if v := os.Getenv("REELSYNC_HOURLY_CALL_CEILING"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HourlyCallCeiling = n
		}
	}
	if v := os.Getenv("REELSYNC_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("REELSYNC_RETRY_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RetryDelay = d
		}
	}
	if v := os.Getenv("REELSYNC_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("REELSYNC_FFMPEG_PATH"); v != "" {
		c.FfmpegPath = v
	}
	if v := os.Getenv("REELSYNC_DOWNLOAD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.DownloadTimeout = d
		}
	}
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.DataFile == "" {
		return fmt.Errorf("data_file must not be empty")
	}
	if c.AccountsFile == "" {
		return fmt.Errorf("accounts_file must not be empty")
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be positive")
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("cooldown must be positive")
	}
	if c.MaxPerCycle <= 0 {
		return fmt.Errorf("max_per_cycle must be positive")
	}
	if c.DelayMin < 0 || c.DelayMax < c.DelayMin {
		return fmt.Errorf("delay range must satisfy 0 <= delay_min <= delay_max")
	}
	if c.HourlyCallCeiling <= 0 {
		return fmt.Errorf("hourly_call_ceiling must be positive")
	}
	if c.PollInterval <= 0 || c.PollTimeout < c.PollInterval {
		return fmt.Errorf("poll_timeout must be at least poll_interval")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("retry_delay must be positive")
	}
	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("download_timeout must be positive")
	}
	return nil
}
