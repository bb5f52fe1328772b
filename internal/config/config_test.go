package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "JWT_SECRET", "JWT_ACCESS_EXPIRY", "SESSION_BACKEND", "SESSION_FILE",
		"DB_LOGS", "LOG_RETENTION", "SIMULATED_LATENCY_SCALE", "RATE_LIMIT_PER_MIN", "DB_NAME",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, SessionBackendFile, cfg.SessionBackend)
	assert.Equal(t, "needit-session.json", cfg.SessionFile)
	assert.Equal(t, "needit", cfg.DBName)
	assert.False(t, cfg.DBLogs)
	assert.Equal(t, 720*time.Hour, cfg.LogRetention)
	assert.Equal(t, 1.0, cfg.LatencyScale)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
	assert.False(t, cfg.NeedsDatabase())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("SESSION_BACKEND", "postgres")
	t.Setenv("SIMULATED_LATENCY_SCALE", "0")
	t.Setenv("RATE_LIMIT_PER_MIN", "bogus")
	t.Setenv("LOG_RETENTION", "bogus")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, 0.0, cfg.LatencyScale)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
	assert.Equal(t, 720*time.Hour, cfg.LogRetention)
	assert.True(t, cfg.NeedsDatabase())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"unknown backend", func(c *Config) { c.SessionBackend = "redis" }, "SESSION_BACKEND"},
		{"empty file", func(c *Config) { c.SessionFile = "" }, "SESSION_FILE"},
		{"negative scale", func(c *Config) { c.LatencyScale = -1 }, "SIMULATED_LATENCY_SCALE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{JWTSecret: "x", SessionBackend: SessionBackendFile, SessionFile: "s.json", LatencyScale: 1}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
