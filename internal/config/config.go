package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the settings for a single audit run. Values come from
// CLI flags and environment variables; nothing is read from package
// state at scan time.
type Config struct {
	Domain          string        // Target domain, normalised (no scheme, no www)
	Scheme          string        // "http" or "https"
	OutputDir       string        // Directory for CSV reports
	PageTimeout     time.Duration // Timeout for page and sitemap fetches
	ProbeTimeout    time.Duration // Timeout for image HEAD probes
	UserAgent       string        // User agent string for all requests
	LogLevel        string        // Logging level (debug, info, warn, error)
	Env             string        // Environment (development/production)
	SentryDSN       string        // Sentry DSN for error tracking
	SlackWebhookURL string        // Optional webhook for completion notices
	HistoryDir      string        // Directory holding the scan history database
	HistoryEnabled  bool          // Whether to record runs in the history database
}

// Default returns a Config with default values. Domain must still be
// set by the caller.
func Default() *Config {
	return &Config{
		Scheme:         "https",
		OutputDir:      ".",
		PageTimeout:    10 * time.Second,
		ProbeTimeout:   5 * time.Second,
		UserAgent:      "ImageCheck/1.0 (+https://github.com/sitehealth/imagecheck)",
		LogLevel:       "info",
		Env:            "development",
		HistoryDir:     ".imagecheck",
		HistoryEnabled: true,
	}
}

// FromEnv returns a Config with defaults overridden by environment
// variables. Flag values are applied on top by the command layer.
func FromEnv() *Config {
	cfg := Default()
	cfg.LogLevel = GetEnvWithDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.Env = GetEnvWithDefault("APP_ENV", cfg.Env)
	cfg.SentryDSN = os.Getenv("SENTRY_DSN")
	cfg.SlackWebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	return cfg
}

// SitemapURL returns the derived sitemap entry point for the target
// domain, following the WordPress default location.
func (c *Config) SitemapURL() string {
	return fmt.Sprintf("%s://%s/wp-sitemap.xml", c.Scheme, c.Domain)
}

// Validate checks that the configuration is usable for a scan.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	if c.Scheme != "http" && c.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", c.Scheme)
	}
	return nil
}

// GetEnvWithDefault retrieves an environment variable or returns a
// default value if not set.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
