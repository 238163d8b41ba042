package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	envKeys := []string{
		"GHSTMAIL_JWT_SECRET",
		"GHSTMAIL_SERVER_HOST",
		"GHSTMAIL_SERVER_PORT",
		"GHSTMAIL_ALIAS_DOMAIN",
		"GHSTMAIL_ALIAS_MAX_PER_USER",
		"GHSTMAIL_SMTP_BIND_ADDR",
		"GHSTMAIL_SMTP_DOMAIN",
		"GHSTMAIL_SMTP_RELAY_ADDR",
		"GHSTMAIL_CORS_ALLOWED_ORIGINS",
		"GHSTMAIL_LOG_LEVEL",
		"GHSTMAIL_LOG_DEVELOPMENT",
	}

	originalEnvs := make(map[string]string)
	for _, key := range envKeys {
		originalEnvs[key] = os.Getenv(key)
	}
	defer func() {
		for key, value := range originalEnvs {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	t.Run("defaults", func(t *testing.T) {
		for _, key := range envKeys {
			os.Unsetenv(key)
		}
		os.Setenv("GHSTMAIL_JWT_SECRET", "test-secret-key-for-development-32-chars-long-at-least")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "ghstmail.me", cfg.Alias.Domain)
		assert.Equal(t, 20, cfg.Alias.MaxPerUser)
		assert.Equal(t, ":25", cfg.SMTP.BindAddr)
		assert.Equal(t, "ghstmail.me", cfg.SMTP.Domain)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.Development)
		assert.Equal(t, "ghstmail", cfg.JWT.Issuer)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
		assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Setenv("GHSTMAIL_JWT_SECRET", "custom-jwt-secret-key-32-chars-long-minimum")
		os.Setenv("GHSTMAIL_SERVER_HOST", "127.0.0.1")
		os.Setenv("GHSTMAIL_SERVER_PORT", "9090")
		os.Setenv("GHSTMAIL_ALIAS_DOMAIN", "Ghost.Example")
		os.Setenv("GHSTMAIL_ALIAS_MAX_PER_USER", "5")
		os.Setenv("GHSTMAIL_SMTP_BIND_ADDR", ":2525")
		os.Setenv("GHSTMAIL_SMTP_RELAY_ADDR", "smtp.upstream.example:587")
		os.Setenv("GHSTMAIL_CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
		os.Setenv("GHSTMAIL_LOG_LEVEL", "debug")
		os.Setenv("GHSTMAIL_LOG_DEVELOPMENT", "true")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "ghost.example", cfg.Alias.Domain)
		assert.Equal(t, 5, cfg.Alias.MaxPerUser)
		assert.Equal(t, ":2525", cfg.SMTP.BindAddr)
		assert.Equal(t, "smtp.upstream.example:587", cfg.SMTP.RelayAddr)
		assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.Development)
	})

	t.Run("short JWT secret rejected", func(t *testing.T) {
		os.Setenv("GHSTMAIL_JWT_SECRET", "short-key")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("default JWT secret rejected", func(t *testing.T) {
		os.Setenv("GHSTMAIL_JWT_SECRET", "change-me-in-production")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "cannot be the default value")
	})

	t.Run("empty alias domain rejected", func(t *testing.T) {
		os.Setenv("GHSTMAIL_JWT_SECRET", "valid-jwt-secret-key-32-chars-long-minimum")
		os.Setenv("GHSTMAIL_ALIAS_DOMAIN", "   ")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "alias.domain must not be empty")
	})
}

func TestParseList(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "single item", input: "item1", expected: []string{"item1"}},
		{name: "multiple items", input: "a,b,c", expected: []string{"a", "b", "c"}},
		{name: "whitespace trimmed", input: " a , b ", expected: []string{"a", "b"}},
		{name: "empty string", input: "", expected: []string{}},
		{name: "only commas", input: ",,,", expected: []string{}},
		{name: "mixed empties", input: "a,,b,", expected: []string{"a", "b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parseList(tc.input))
		})
	}
}
