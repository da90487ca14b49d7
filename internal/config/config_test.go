package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSitemapURL(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		scheme   string
		expected string
	}{
		{name: "https_default", domain: "example.com", scheme: "https", expected: "https://example.com/wp-sitemap.xml"},
		{name: "http_scheme", domain: "example.com", scheme: "http", expected: "http://example.com/wp-sitemap.xml"},
		{name: "subdomain", domain: "blog.example.com", scheme: "https", expected: "https://blog.example.com/wp-sitemap.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Domain = tt.domain
			cfg.Scheme = tt.scheme
			assert.Equal(t, tt.expected, cfg.SitemapURL())
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Domain = "example.com"
	assert.NoError(t, cfg.Validate())

	cfg.Scheme = "ftp"
	assert.Error(t, cfg.Validate())

	cfg.Scheme = "https"
	cfg.Domain = ""
	assert.Error(t, cfg.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SENTRY_DSN", "https://key@sentry.example/1")

	cfg := FromEnv()

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://key@sentry.example/1", cfg.SentryDSN)
	assert.Equal(t, "https", cfg.Scheme)
}
